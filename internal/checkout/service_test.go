package checkout_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/remito/internal/apperr"
	"github.com/MrJamesThe3rd/remito/internal/catalog"
	"github.com/MrJamesThe3rd/remito/internal/checkout"
	"github.com/MrJamesThe3rd/remito/internal/client"
	"github.com/MrJamesThe3rd/remito/internal/notify"
	"github.com/MrJamesThe3rd/remito/internal/order"
	"github.com/MrJamesThe3rd/remito/internal/session"
)

var snap = catalog.Snapshot{Products: []catalog.Product{
	{ID: 0, Name: "Yerba", Cost: decimal.NewFromInt(1000)},
}}

type mocks struct {
	orders    *checkout.MockOrders
	renderer  *checkout.MockRenderer
	documents *checkout.MockDocuments
	notifier  *checkout.MockNotifier
}

func newService(t *testing.T) (*checkout.Service, mocks) {
	t.Helper()

	ctrl := gomock.NewController(t)
	m := mocks{
		orders:    checkout.NewMockOrders(ctrl),
		renderer:  checkout.NewMockRenderer(ctrl),
		documents: checkout.NewMockDocuments(ctrl),
		notifier:  checkout.NewMockNotifier(ctrl),
	}

	return checkout.NewService(m.orders, m.renderer, m.documents, m.notifier, "Pablo y Sergio"), m
}

func filledSession(t *testing.T) *session.Session {
	t.Helper()

	s := session.New(decimal.NewFromInt(20), time.Now())
	require.NoError(t, s.Cart.Add(snap, 0, 2, s.Margin))

	return s
}

func stored(p order.Params, id string) *order.Order {
	return &order.Order{
		ID:          id,
		ClientName:  p.ClientName,
		ClientEmail: p.ClientEmail,
		Responsible: p.Responsible,
		Items:       p.Items,
		Total:       decimal.RequireFromString("2400"),
	}
}

func TestService_Checkout(t *testing.T) {
	type testCase struct {
		name      string
		session   func(t *testing.T) *session.Session
		params    checkout.Params
		setupMock func(m mocks)
		wantErr   error
		check     func(t *testing.T, s *session.Session, res *checkout.Result)
	}

	tests := []testCase{
		{
			name: "EmptyCart",
			session: func(t *testing.T) *session.Session {
				return session.New(decimal.Zero, time.Now())
			},
			params:  checkout.Params{Responsible: "Sergio"},
			wantErr: apperr.ErrValidation,
		},
		{
			name:    "BlankResponsible",
			session: filledSession,
			params:  checkout.Params{Responsible: "  "},
			wantErr: apperr.ErrValidation,
			check: func(t *testing.T, s *session.Session, _ *checkout.Result) {
				assert.Equal(t, 1, s.Cart.Len())
				assert.Equal(t, 2, s.Cart.Lines()[0].Quantity)
			},
		},
		{
			name:    "NewOrderWithoutEmail",
			session: filledSession,
			params:  checkout.Params{Responsible: "Sergio"},
			setupMock: func(m mocks) {
				m.orders.EXPECT().
					Create(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, p order.Params) (*order.Order, error) {
						assert.Equal(t, checkout.DefaultClientName, p.ClientName)
						assert.Len(t, p.Items, 1)
						return stored(p, "20260314-101530"), nil
					})
				m.renderer.EXPECT().RenderOrder(gomock.Any()).Return([]byte("%PDF"), nil)
				m.documents.EXPECT().Put(gomock.Any(), "remito-20260314-101530.pdf", []byte("%PDF")).Return(nil)
				m.orders.EXPECT().SetDocument(gomock.Any(), "20260314-101530", "remito-20260314-101530.pdf").Return(nil)
			},
			check: func(t *testing.T, s *session.Session, res *checkout.Result) {
				assert.True(t, s.Cart.Empty())
				assert.Empty(t, s.EditingOrderID)
				assert.Equal(t, "remito-20260314-101530.pdf", res.DocumentName)
				assert.Equal(t, "remito-20260314-101530.pdf", res.Order.DocumentFilename)
				assert.False(t, res.Updated)
				assert.False(t, res.Notified)
			},
		},
		{
			name: "NotificationFailureIsNotFatal",
			session: func(t *testing.T) *session.Session {
				s := filledSession(t)
				s.SetClient(&client.Client{ID: uuid.New(), Name: "Acme", Email: "compras@acme.test"})
				require.NoError(t, s.Cart.Add(snap, 0, 1, s.Margin))
				return s
			},
			params: checkout.Params{Responsible: "Sergio"},
			setupMock: func(m mocks) {
				m.orders.EXPECT().
					Create(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, p order.Params) (*order.Order, error) {
						assert.Equal(t, "Acme", p.ClientName)
						assert.Equal(t, "compras@acme.test", p.ClientEmail)
						return stored(p, "a"), nil
					})
				m.renderer.EXPECT().RenderOrder(gomock.Any()).Return([]byte("%PDF"), nil)
				m.documents.EXPECT().Put(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				m.orders.EXPECT().SetDocument(gomock.Any(), "a", gomock.Any()).Return(nil)
				m.notifier.EXPECT().
					Send(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, msg notify.Message) error {
						assert.Equal(t, "compras@acme.test", msg.To)
						return errors.New("smtp down")
					})
			},
			check: func(t *testing.T, s *session.Session, res *checkout.Result) {
				assert.True(t, s.Cart.Empty())
				assert.False(t, res.Notified)
			},
		},
		{
			name: "EditUpdatesExistingOrder",
			session: func(t *testing.T) *session.Session {
				s := filledSession(t)
				s.Edit("20250101-090000", "Kiosco", "kiosco@test", s.Cart.Lines())
				return s
			},
			params: checkout.Params{ClientName: "Otro", ClientEmail: "otro@test", Responsible: "Pablo"},
			setupMock: func(m mocks) {
				m.orders.EXPECT().
					Update(gomock.Any(), "20250101-090000", gomock.Any()).
					DoAndReturn(func(_ context.Context, _ string, p order.Params) (*order.Order, error) {
						return stored(p, "20250101-090000"), nil
					})
				m.renderer.EXPECT().RenderOrder(gomock.Any()).Return([]byte("%PDF"), nil)
				m.documents.EXPECT().Put(gomock.Any(), "remito-20250101-090000.pdf", gomock.Any()).Return(nil)
				m.orders.EXPECT().SetDocument(gomock.Any(), "20250101-090000", gomock.Any()).Return(nil)
				m.notifier.EXPECT().Send(gomock.Any(), gomock.Any()).Return(nil)
			},
			check: func(t *testing.T, s *session.Session, res *checkout.Result) {
				assert.True(t, res.Updated)
				assert.True(t, res.Notified)
				assert.Equal(t, "20250101-090000", res.Order.ID)
				assert.Empty(t, s.EditingOrderID)
			},
		},
		{
			name: "EditKeepsOrderClientWhenOmitted",
			session: func(t *testing.T) *session.Session {
				s := filledSession(t)
				s.Edit("20250101-090000", "Almacén Sur", "sur@test", s.Cart.Lines())
				return s
			},
			params: checkout.Params{Responsible: "Ana"},
			setupMock: func(m mocks) {
				m.orders.EXPECT().
					Update(gomock.Any(), "20250101-090000", gomock.Any()).
					DoAndReturn(func(_ context.Context, _ string, p order.Params) (*order.Order, error) {
						assert.Equal(t, "Almacén Sur", p.ClientName)
						assert.Equal(t, "sur@test", p.ClientEmail)
						return stored(p, "20250101-090000"), nil
					})
				m.renderer.EXPECT().RenderOrder(gomock.Any()).Return([]byte("%PDF"), nil)
				m.documents.EXPECT().Put(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				m.orders.EXPECT().SetDocument(gomock.Any(), "20250101-090000", gomock.Any()).Return(nil)
				m.notifier.EXPECT().Send(gomock.Any(), gomock.Any()).Return(nil)
			},
			check: func(t *testing.T, s *session.Session, res *checkout.Result) {
				assert.Equal(t, "Almacén Sur", res.Order.ClientName)
				assert.Empty(t, s.EditingClientName)
			},
		},
		{
			name:    "OrderPersistenceFailure",
			session: filledSession,
			params:  checkout.Params{Responsible: "Sergio"},
			setupMock: func(m mocks) {
				m.orders.EXPECT().
					Create(gomock.Any(), gomock.Any()).
					Return(nil, apperr.Persistence("creating order", errors.New("disk full")))
			},
			wantErr: apperr.ErrPersistence,
			check: func(t *testing.T, s *session.Session, _ *checkout.Result) {
				assert.Equal(t, 1, s.Cart.Len())
				assert.Empty(t, s.EditingOrderID)
			},
		},
		{
			name:    "DocumentFailureKeepsCartForRetry",
			session: filledSession,
			params:  checkout.Params{Responsible: "Sergio"},
			setupMock: func(m mocks) {
				m.orders.EXPECT().
					Create(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, p order.Params) (*order.Order, error) {
						return stored(p, "b"), nil
					})
				m.renderer.EXPECT().RenderOrder(gomock.Any()).Return([]byte("%PDF"), nil)
				m.documents.EXPECT().Put(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("read-only"))
			},
			wantErr: apperr.ErrPersistence,
			check: func(t *testing.T, s *session.Session, _ *checkout.Result) {
				assert.Equal(t, 1, s.Cart.Len())
				assert.Equal(t, "b", s.EditingOrderID)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newService(t)
			if tt.setupMock != nil {
				tt.setupMock(m)
			}

			sess := tt.session(t)

			res, err := svc.Checkout(context.Background(), sess, tt.params)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, res)
			} else {
				require.NoError(t, err)
			}

			if tt.check != nil {
				tt.check(t, sess, res)
			}
		})
	}
}
