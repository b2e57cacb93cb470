package client_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/remito/internal/apperr"
	"github.com/MrJamesThe3rd/remito/internal/client"
)

func TestService_Create(t *testing.T) {
	type testCase struct {
		name      string
		params    client.Params
		setupMock func(m *client.MockRepository)
		wantErr   error
	}

	tests := []testCase{
		{
			name:   "Success",
			params: client.Params{Name: "  Kiosco Sur ", DefaultMargin: decimal.NewFromInt(30)},
			setupMock: func(m *client.MockRepository) {
				m.EXPECT().CreateClient(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name:    "BlankName",
			params:  client.Params{Name: " "},
			wantErr: apperr.ErrValidation,
		},
		{
			name:    "MarginBelowCost",
			params:  client.Params{Name: "X", DefaultMargin: decimal.NewFromInt(-150)},
			wantErr: apperr.ErrValidation,
		},
		{
			name:   "RepoError",
			params: client.Params{Name: "Y"},
			setupMock: func(m *client.MockRepository) {
				m.EXPECT().CreateClient(gomock.Any(), gomock.Any()).Return(errors.New("disk full"))
			},
			wantErr: apperr.ErrPersistence,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := client.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			got, err := client.NewService(repo).Create(context.Background(), tt.params)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, got.ID)
			assert.Equal(t, "Kiosco Sur", got.Name)
		})
	}
}

func TestService_Update_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	id := uuid.New()
	repo := client.NewMockRepository(ctrl)
	repo.EXPECT().GetClient(gomock.Any(), id).Return(nil, client.ErrNotFound)

	_, err := client.NewService(repo).Update(context.Background(), id, client.Params{Name: "Z"})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
