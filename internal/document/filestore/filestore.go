// Package filestore keeps rendered documents as files in one directory.
package filestore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/MrJamesThe3rd/remito/internal/document"
)

type Store struct {
	dir string
}

func New(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) Put(_ context.Context, name string, data []byte) error {
	if err := document.CheckName(name); err != nil {
		return err
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("creating documents directory: %w", err)
	}

	p := filepath.Join(s.dir, name)
	tmp := p + ".tmp"

	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing document %s: %w", name, err)
	}

	if err := os.Rename(tmp, p); err != nil {
		return fmt.Errorf("replacing document %s: %w", name, err)
	}

	return nil
}

func (s *Store) Get(_ context.Context, name string) ([]byte, error) {
	if err := document.CheckName(name); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, document.ErrNotFound
		}

		return nil, fmt.Errorf("reading document %s: %w", name, err)
	}

	return data, nil
}
