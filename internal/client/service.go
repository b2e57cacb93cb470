package client

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/remito/internal/apperr"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=client
type Repository interface {
	CreateClient(ctx context.Context, c *Client) error
	GetClient(ctx context.Context, id uuid.UUID) (*Client, error)
	ListClients(ctx context.Context) ([]*Client, error)
	UpdateClient(ctx context.Context, c *Client) error
	DeleteClient(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type Params struct {
	Name          string
	Email         string
	DefaultMargin decimal.Decimal
	Zone          string
	Notes         string
}

func (p Params) validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return apperr.Validation("name", "name is required")
	}

	if p.DefaultMargin.LessThan(decimal.NewFromInt(-100)) {
		return apperr.Validation("default_margin", "margin must not be below -100")
	}

	return nil
}

func (s *Service) Create(ctx context.Context, p Params) (*Client, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	c := &Client{
		ID:            uuid.New(),
		Name:          strings.TrimSpace(p.Name),
		Email:         strings.TrimSpace(p.Email),
		DefaultMargin: p.DefaultMargin,
		Zone:          p.Zone,
		Notes:         p.Notes,
	}

	if err := s.repo.CreateClient(ctx, c); err != nil {
		return nil, apperr.Persistence("creating client", err)
	}

	return c, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Client, error) {
	return s.repo.GetClient(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*Client, error) {
	return s.repo.ListClients(ctx)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, p Params) (*Client, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	c, err := s.repo.GetClient(ctx, id)
	if err != nil {
		return nil, err
	}

	c.Name = strings.TrimSpace(p.Name)
	c.Email = strings.TrimSpace(p.Email)
	c.DefaultMargin = p.DefaultMargin
	c.Zone = p.Zone
	c.Notes = p.Notes

	if err := s.repo.UpdateClient(ctx, c); err != nil {
		return nil, apperr.Persistence("updating client", err)
	}

	return c, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteClient(ctx, id)
}
