package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/MrJamesThe3rd/remito/internal/order"
)

// Store keeps each record as a jsonb document keyed by order id, so the
// Postgres backend reads and writes the same shape as the file backend.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) GetRecord(ctx context.Context, id string) (*order.Record, error) {
	var data []byte

	err := s.db.QueryRowContext(ctx, `SELECT record FROM orders WHERE order_id = $1`, id).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, order.ErrNotFound
		}

		return nil, fmt.Errorf("getting order: %w", err)
	}

	return order.DecodeRecord(id, data)
}

func (s *Store) PutRecord(ctx context.Context, rec *order.Record) error {
	data, err := order.EncodeRecord(rec)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO orders (order_id, record, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (order_id) DO UPDATE SET record = EXCLUDED.record, updated_at = NOW()
	`

	if _, err := s.db.ExecContext(ctx, query, rec.OrderID, data); err != nil {
		return fmt.Errorf("putting order: %w", err)
	}

	return nil
}

// ListRecords skips rows that fail to decode, logging each one.
func (s *Store) ListRecords(ctx context.Context) ([]*order.Record, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT order_id, record FROM orders`)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	defer rows.Close()

	var recs []*order.Record

	for rows.Next() {
		var (
			id   string
			data []byte
		)

		if err := rows.Scan(&id, &data); err != nil {
			return nil, fmt.Errorf("scanning order: %w", err)
		}

		rec, err := order.DecodeRecord(id, data)
		if err != nil {
			slog.Warn("skipping corrupt order", "order_id", id, "error", err)
			continue
		}

		recs = append(recs, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating orders: %w", err)
	}

	return recs, nil
}

func (s *Store) DeleteRecord(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM orders WHERE order_id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting order: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}

	if n == 0 {
		return order.ErrNotFound
	}

	return nil
}
