// Package filestore keeps the client registry in a single JSON file.
package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/remito/internal/client"
)

type record struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	Email         string          `json:"email"`
	DefaultMargin decimal.Decimal `json:"default_margin_percent"`
	Zone          string          `json:"zone"`
	Notes         string          `json:"notes"`
	CreatedAt     time.Time       `json:"created_at"`
}

type Store struct {
	path string
	mu   sync.Mutex
	now  func() time.Time
}

func New(path string) *Store {
	return &Store{path: path, now: time.Now}
}

func (s *Store) CreateClient(_ context.Context, c *client.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	recs, err := s.load()
	if err != nil {
		return err
	}

	c.CreatedAt = s.now()
	recs = append(recs, toRecord(c))

	return s.save(recs)
}

func (s *Store) GetClient(_ context.Context, id uuid.UUID) (*client.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	recs, err := s.load()
	if err != nil {
		return nil, err
	}

	for _, r := range recs {
		if r.ID == id {
			return fromRecord(r), nil
		}
	}

	return nil, client.ErrNotFound
}

func (s *Store) ListClients(_ context.Context) ([]*client.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	recs, err := s.load()
	if err != nil {
		return nil, err
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return strings.ToLower(recs[i].Name) < strings.ToLower(recs[j].Name)
	})

	clients := make([]*client.Client, 0, len(recs))
	for _, r := range recs {
		clients = append(clients, fromRecord(r))
	}

	return clients, nil
}

func (s *Store) UpdateClient(_ context.Context, c *client.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	recs, err := s.load()
	if err != nil {
		return err
	}

	for i := range recs {
		if recs[i].ID == c.ID {
			c.CreatedAt = recs[i].CreatedAt
			recs[i] = toRecord(c)

			return s.save(recs)
		}
	}

	return client.ErrNotFound
}

func (s *Store) DeleteClient(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	recs, err := s.load()
	if err != nil {
		return err
	}

	for i := range recs {
		if recs[i].ID == id {
			return s.save(append(recs[:i], recs[i+1:]...))
		}
	}

	return client.ErrNotFound
}

func (s *Store) load() ([]record, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}

		return nil, fmt.Errorf("reading clients: %w", err)
	}

	var recs []record
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, fmt.Errorf("decoding clients: %w", err)
	}

	return recs, nil
}

func (s *Store) save(recs []record) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating clients directory: %w", err)
	}

	data, err := json.MarshalIndent(recs, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding clients: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing clients: %w", err)
	}

	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replacing clients: %w", err)
	}

	return nil
}

func toRecord(c *client.Client) record {
	return record{
		ID:            c.ID,
		Name:          c.Name,
		Email:         c.Email,
		DefaultMargin: c.DefaultMargin,
		Zone:          c.Zone,
		Notes:         c.Notes,
		CreatedAt:     c.CreatedAt,
	}
}

func fromRecord(r record) *client.Client {
	return &client.Client{
		ID:            r.ID,
		Name:          r.Name,
		Email:         r.Email,
		DefaultMargin: r.DefaultMargin,
		Zone:          r.Zone,
		Notes:         r.Notes,
		CreatedAt:     r.CreatedAt,
	}
}
