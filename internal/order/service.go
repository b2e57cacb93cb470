package order

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/remito/internal/apperr"
	"github.com/MrJamesThe3rd/remito/internal/cart"
	"github.com/MrJamesThe3rd/remito/internal/money"
	"github.com/MrJamesThe3rd/remito/internal/pipeline"
)

// Repository is a key-value store of records keyed by order id. It offers no
// protection against concurrent writes to the same key.
//
//go:generate mockgen -source=service.go -destination=repository_mock.go -package=order
type Repository interface {
	GetRecord(ctx context.Context, id string) (*Record, error)
	PutRecord(ctx context.Context, rec *Record) error
	ListRecords(ctx context.Context) ([]*Record, error)
	DeleteRecord(ctx context.Context, id string) error
}

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// WithClock replaces the clock used for ids and creation times.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

type Params struct {
	Items       []cart.Line
	ClientName  string
	ClientEmail string
	Responsible string
}

func (p Params) validate() error {
	if len(p.Items) == 0 {
		return apperr.Validation("items", "cart is empty")
	}

	if strings.TrimSpace(p.Responsible) == "" {
		return apperr.Validation("responsible", "responsible is required")
	}

	return nil
}

type ListFilter struct {
	// Client keeps orders whose client name contains it, ignoring case.
	Client string
}

func (s *Service) Create(ctx context.Context, p Params) (*Order, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	now := s.now().Truncate(time.Second)

	o := &Order{
		ID:          now.Format(IDLayout),
		ClientName:  p.ClientName,
		ClientEmail: p.ClientEmail,
		Responsible: strings.TrimSpace(p.Responsible),
		CreatedAt:   now,
		Items:       append([]cart.Line(nil), p.Items...),
		Total:       money.Total(p.Items),
		State:       pipeline.StatePedido,
	}

	if err := s.repo.PutRecord(ctx, toRecord(o)); err != nil {
		return nil, apperr.Persistence("creating order", err)
	}

	return o, nil
}

// Update replaces the contents of an order. Its id, creation time and state
// are kept.
func (s *Service) Update(ctx context.Context, id string, p Params) (*Order, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	rec, err := s.getRecord(ctx, id)
	if err != nil {
		return nil, err
	}

	existing := fromRecord(rec)

	o := &Order{
		ID:               existing.ID,
		ClientName:       p.ClientName,
		ClientEmail:      p.ClientEmail,
		Responsible:      strings.TrimSpace(p.Responsible),
		CreatedAt:        existing.CreatedAt,
		Items:            append([]cart.Line(nil), p.Items...),
		Total:            money.Total(p.Items),
		State:            existing.State,
		DocumentFilename: existing.DocumentFilename,
	}

	updated := toRecord(o)
	// keep an unreadable timestamp as it was rather than blanking it
	updated.CreatedAt = rec.CreatedAt
	// state is stored as written; readers normalize it
	updated.State = rec.State

	if err := s.repo.PutRecord(ctx, updated); err != nil {
		return nil, apperr.Persistence("updating order", err)
	}

	return o, nil
}

// SetState writes the state label only. Any label is accepted.
func (s *Service) SetState(ctx context.Context, id string, state pipeline.State) error {
	return s.modify(ctx, id, "setting order state", func(rec *Record) {
		rec.State = string(state)
	})
}

// SetDocument records the name the order's remito was stored under.
func (s *Service) SetDocument(ctx context.Context, id, name string) error {
	return s.modify(ctx, id, "setting order document", func(rec *Record) {
		rec.DocumentFilename = name
	})
}

func (s *Service) modify(ctx context.Context, id, op string, fn func(rec *Record)) error {
	rec, err := s.getRecord(ctx, id)
	if err != nil {
		return err
	}

	fn(rec)

	if err := s.repo.PutRecord(ctx, rec); err != nil {
		return apperr.Persistence(op, err)
	}

	return nil
}

func (s *Service) Get(ctx context.Context, id string) (*Order, error) {
	rec, err := s.getRecord(ctx, id)
	if err != nil {
		return nil, err
	}

	return fromRecord(rec), nil
}

// List returns the newest orders first.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Order, error) {
	recs, err := s.repo.ListRecords(ctx)
	if err != nil {
		return nil, apperr.Persistence("listing orders", err)
	}

	needle := strings.ToLower(strings.TrimSpace(filter.Client))

	orders := make([]*Order, 0, len(recs))
	for _, rec := range recs {
		if needle != "" && !strings.Contains(strings.ToLower(rec.ClientName), needle) {
			continue
		}

		orders = append(orders, fromRecord(rec))
	}

	sort.SliceStable(orders, func(i, j int) bool {
		a, b := orders[i], orders[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}

		return a.ID > b.ID
	})

	return orders, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.DeleteRecord(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}

		return apperr.Persistence("deleting order", err)
	}

	return nil
}

func (s *Service) getRecord(ctx context.Context, id string) (*Record, error) {
	rec, err := s.repo.GetRecord(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}

		return nil, apperr.Persistence("getting order", err)
	}

	return rec, nil
}
