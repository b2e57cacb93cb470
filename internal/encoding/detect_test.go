package encoding_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/MrJamesThe3rd/remito/internal/encoding"
)

func TestDecode_UTF8Passthrough(t *testing.T) {
	input := "producto;precio;vencimiento\nAzúcar;1.234,50;12/2026\n"

	d, err := encoding.Decode(bytes.NewReader([]byte(input)))
	require.NoError(t, err)
	assert.Equal(t, "UTF-8", d.Charset)

	got, err := io.ReadAll(d)
	require.NoError(t, err)
	assert.Equal(t, input, string(got))
}

func TestDecode_Windows1252(t *testing.T) {
	utf8CSV := "producto;precio\nCafé molido ñandú;10,00\n"

	latin, err := charmap.Windows1252.NewEncoder().Bytes([]byte(utf8CSV))
	require.NoError(t, err)

	d, err := encoding.Decode(bytes.NewReader(latin))
	require.NoError(t, err)
	assert.NotEqual(t, "UTF-8", d.Charset)

	got, err := io.ReadAll(d)
	require.NoError(t, err)
	assert.Equal(t, utf8CSV, string(got))
}

func TestDecode_StripsUTF8BOM(t *testing.T) {
	input := append([]byte{0xEF, 0xBB, 0xBF}, []byte("name,cost\n")...)

	d, err := encoding.Decode(bytes.NewReader(input))
	require.NoError(t, err)

	got, err := io.ReadAll(d)
	require.NoError(t, err)
	assert.Equal(t, "name,cost\n", string(got))
}

func TestDecode_Empty(t *testing.T) {
	d, err := encoding.Decode(bytes.NewReader(nil))
	require.NoError(t, err)

	got, err := io.ReadAll(d)
	require.NoError(t, err)
	assert.Empty(t, got)
}
