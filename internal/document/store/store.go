package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MrJamesThe3rd/remito/internal/document"
)

// Store keeps rendered documents in the documents table.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Put(ctx context.Context, name string, data []byte) error {
	if err := document.CheckName(name); err != nil {
		return err
	}

	query := `
		INSERT INTO documents (name, content, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (name) DO UPDATE SET content = EXCLUDED.content, created_at = NOW()
	`

	if _, err := s.db.ExecContext(ctx, query, name, data); err != nil {
		return fmt.Errorf("putting document: %w", err)
	}

	return nil
}

func (s *Store) Get(ctx context.Context, name string) ([]byte, error) {
	if err := document.CheckName(name); err != nil {
		return nil, err
	}

	var data []byte

	err := s.db.QueryRowContext(ctx, `SELECT content FROM documents WHERE name = $1`, name).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, document.ErrNotFound
		}

		return nil, fmt.Errorf("getting document: %w", err)
	}

	return data, nil
}
