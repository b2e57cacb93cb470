// Package filestore keeps one JSON file per order under a directory, the
// layout earlier versions of the shop used.
package filestore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/MrJamesThe3rd/remito/internal/order"
)

const ext = ".json"

type Store struct {
	dir string
}

func New(dir string) *Store {
	return &Store{dir: dir}
}

// path rejects ids that would escape the directory.
func (s *Store) path(id string) (string, error) {
	if id == "" || id != filepath.Base(id) || strings.HasPrefix(id, ".") {
		return "", fmt.Errorf("%w: id %q", order.ErrNotFound, id)
	}

	return filepath.Join(s.dir, id+ext), nil
}

func (s *Store) GetRecord(_ context.Context, id string) (*order.Record, error) {
	p, err := s.path(id)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, order.ErrNotFound
		}

		return nil, fmt.Errorf("reading order %s: %w", id, err)
	}

	return order.DecodeRecord(id, data)
}

func (s *Store) PutRecord(_ context.Context, rec *order.Record) error {
	p, err := s.path(rec.OrderID)
	if err != nil {
		return err
	}

	data, err := order.EncodeRecord(rec)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("creating orders directory: %w", err)
	}

	tmp := p + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing order %s: %w", rec.OrderID, err)
	}

	if err := os.Rename(tmp, p); err != nil {
		return fmt.Errorf("replacing order %s: %w", rec.OrderID, err)
	}

	return nil
}

// ListRecords skips files that cannot be read or decoded, logging each one.
func (s *Store) ListRecords(_ context.Context) ([]*order.Record, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}

		return nil, fmt.Errorf("listing orders: %w", err)
	}

	var recs []*order.Record

	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ext) {
			continue
		}

		id := strings.TrimSuffix(e.Name(), ext)

		data, err := os.ReadFile(filepath.Join(s.dir, e.Name()))
		if err != nil {
			slog.Warn("skipping unreadable order", "file", e.Name(), "error", err)
			continue
		}

		rec, err := order.DecodeRecord(id, data)
		if err != nil {
			slog.Warn("skipping corrupt order", "file", e.Name(), "error", err)
			continue
		}

		recs = append(recs, rec)
	}

	return recs, nil
}

func (s *Store) DeleteRecord(_ context.Context, id string) error {
	p, err := s.path(id)
	if err != nil {
		return err
	}

	if err := os.Remove(p); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return order.ErrNotFound
		}

		return fmt.Errorf("deleting order %s: %w", id, err)
	}

	return nil
}
