package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/remito/internal/apperr"
)

// Replacer is implemented by sources that accept an uploaded catalog.
type Replacer interface {
	Replace(write func(w io.Writer) error) error
}

type Service struct {
	source Source
	now    func() time.Time
}

func NewService(source Source) *Service {
	return &Service{source: source, now: time.Now}
}

// Load reads and normalizes the catalog. It never fails: an unreachable or
// unparseable source yields an empty snapshot and a warning.
func (s *Service) Load(ctx context.Context) Snapshot {
	snap := Snapshot{LoadedAt: s.now()}

	res, err := s.fetch(ctx)
	if err != nil {
		if !errors.Is(err, ErrNoCatalog) {
			slog.Warn("catalog unavailable, using empty catalog", "error", err)
		}

		return snap
	}

	if len(res.Rejected) > 0 {
		slog.Warn("catalog rows rejected", "count", len(res.Rejected))
	}

	snap.Products = res.Products
	snap.Rejected = res.Rejected
	snap.Charset = res.Charset

	slog.Debug("catalog loaded", "products", len(res.Products), "charset", res.Charset)

	return snap
}

// Query loads the catalog and prices the products matching q.
func (s *Service) Query(ctx context.Context, q string, margin decimal.Decimal) []PricedProduct {
	return s.Load(ctx).Price(q, margin)
}

// Import validates an uploaded CSV and, when at least one product survives,
// replaces the stored catalog with its canonical form.
func (s *Service) Import(_ context.Context, r io.Reader) (Result, error) {
	replacer, ok := s.source.(Replacer)
	if !ok {
		return Result{}, apperr.Validation("source", "catalog source does not accept uploads")
	}

	t, err := ReadTable(r)
	if err != nil {
		return Result{}, apperr.Validation("file", err.Error())
	}

	res, err := Normalize(t)
	if err != nil {
		return Result{}, apperr.Validation("file", err.Error())
	}

	if len(res.Products) == 0 {
		return res, apperr.Validation("file", "no valid products in upload")
	}

	if err := replacer.Replace(func(w io.Writer) error {
		return WriteTable(w, res.Products)
	}); err != nil {
		return res, apperr.Persistence("importing catalog", err)
	}

	slog.Info("catalog imported", "products", len(res.Products), "rejected", len(res.Rejected), "charset", res.Charset)

	return res, nil
}

func (s *Service) fetch(ctx context.Context) (Result, error) {
	rc, err := s.source.Fetch(ctx)
	if err != nil {
		return Result{}, err
	}
	defer rc.Close()

	t, err := ReadTable(rc)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", apperr.ErrSourceUnavailable, err)
	}

	res, err := Normalize(t)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", apperr.ErrSourceUnavailable, err)
	}

	return res, nil
}
