package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// ErrNoCatalog means the source exists conceptually but holds nothing yet.
var ErrNoCatalog = errors.New("no catalog")

// Source fetches the current raw catalog.
type Source interface {
	Fetch(ctx context.Context) (io.ReadCloser, error)
}

// FileSource reads a CSV from the local filesystem.
type FileSource struct {
	Path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

func (s *FileSource) Fetch(_ context.Context) (io.ReadCloser, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNoCatalog
		}

		return nil, fmt.Errorf("opening catalog: %w", err)
	}

	return f, nil
}

// Replace atomically swaps the catalog file for the given content.
func (s *FileSource) Replace(write func(w io.Writer) error) error {
	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating catalog directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".catalog-*.csv")
	if err != nil {
		return fmt.Errorf("creating temp catalog: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := write(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("writing catalog: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing catalog: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.Path); err != nil {
		return fmt.Errorf("replacing catalog: %w", err)
	}

	return nil
}

// URLSource downloads a published CSV, such as a spreadsheet export link.
type URLSource struct {
	URL    string
	client *http.Client
}

func NewURLSource(url string, timeout time.Duration) *URLSource {
	return &URLSource{
		URL:    url,
		client: &http.Client{Timeout: timeout},
	}
}

func (s *URLSource) Fetch(ctx context.Context) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status code %d for url %s", resp.StatusCode, s.URL)
	}

	return resp.Body, nil
}
