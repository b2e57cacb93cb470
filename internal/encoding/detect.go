package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const sniffLen = 4096

var boms = []struct {
	prefix  []byte
	charset string
	decoder func() *encoding.Decoder
}{
	{[]byte{0xEF, 0xBB, 0xBF}, "UTF-8", nil},
	{[]byte{0xFF, 0xFE}, "UTF-16LE", unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder},
	{[]byte{0xFE, 0xFF}, "UTF-16BE", unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder},
}

// Decoded is a UTF-8 view over a spreadsheet export together with the
// charset it was detected as.
type Decoded struct {
	io.Reader
	Charset string
}

// Decode sniffs the start of r and returns a reader that yields UTF-8.
// Spreadsheet exports from Windows machines are the usual non-UTF-8 case, so
// anything undetectable is read as Windows-1252.
func Decode(r io.Reader) (*Decoded, error) {
	br := bufio.NewReader(r)

	buf, err := br.Peek(sniffLen)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("peek: %w", err)
	}

	for _, b := range boms {
		if !bytes.HasPrefix(buf, b.prefix) {
			continue
		}

		if b.decoder == nil {
			_, _ = br.Discard(len(b.prefix))
			return &Decoded{Reader: br, Charset: b.charset}, nil
		}

		return &Decoded{Reader: transform.NewReader(br, b.decoder()), Charset: b.charset}, nil
	}

	if utf8.Valid(buf) {
		return &Decoded{Reader: br, Charset: "UTF-8"}, nil
	}

	if result, err := chardet.NewTextDetector().DetectBest(buf); err == nil {
		switch result.Charset {
		case "UTF-8":
			return &Decoded{Reader: br, Charset: result.Charset}, nil
		case "ISO-8859-1", "windows-1252":
			return &Decoded{Reader: transform.NewReader(br, charmap.Windows1252.NewDecoder()), Charset: result.Charset}, nil
		case "ISO-8859-15":
			return &Decoded{Reader: transform.NewReader(br, charmap.ISO8859_15.NewDecoder()), Charset: result.Charset}, nil
		}
	}

	return &Decoded{Reader: transform.NewReader(br, charmap.Windows1252.NewDecoder()), Charset: "windows-1252"}, nil
}
