package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"gamereviews/internal/config"
	apperrors "gamereviews/internal/errors"
	"gamereviews/internal/model"
	"gamereviews/internal/repository"
)

type gameMocks struct {
	games   *MockGameRepository
	genres  *MockGenreRepository
	reviews *MockReviewRepository
}

func newGameMocks() gameMocks {
	return gameMocks{
		games:   new(MockGameRepository),
		genres:  new(MockGenreRepository),
		reviews: new(MockReviewRepository),
	}
}

func (m gameMocks) service(idMode string) GameService {
	return NewGameService(m.games, m.genres, m.reviews, idMode, zap.NewNop())
}

func (m gameMocks) assert(t *testing.T) {
	m.games.AssertExpectations(t)
	m.genres.AssertExpectations(t)
	m.reviews.AssertExpectations(t)
}

func TestGameService_Create(t *testing.T) {
	tests := []struct {
		name    string
		idMode  string
		game    model.Game
		setup   func(gameMocks)
		wantID  int
		wantErr error
		wantMsg string
	}{
		{
			name:   "caller supplied id",
			idMode: config.GameIDModeCaller,
			game:   model.Game{ID: 4, Title: "Celeste", GenreID: 1},
			setup: func(m gameMocks) {
				m.genres.On("FindByID", mock.Anything, 1).Return(&model.Genre{ID: 1}, nil)
				m.games.On("FindByID", mock.Anything, 4).Return(nil, gorm.ErrRecordNotFound)
				m.games.On("Create", mock.Anything, mock.AnythingOfType("*model.Game")).Return(nil)
			},
			wantID: 4,
		},
		{
			name:    "caller mode requires id",
			idMode:  config.GameIDModeCaller,
			game:    model.Game{Title: "Celeste", GenreID: 1},
			setup:   func(m gameMocks) {},
			wantErr: apperrors.ErrValidation,
			wantMsg: "A valid 'Id' field must be provided.",
		},
		{
			name:   "auto mode assigns next id",
			idMode: config.GameIDModeAuto,
			game:   model.Game{Title: "Celeste", GenreID: 1},
			setup: func(m gameMocks) {
				m.genres.On("FindByID", mock.Anything, 1).Return(&model.Genre{ID: 1}, nil)
				m.games.On("MaxID", mock.Anything).Return(12, nil)
				m.games.On("Create", mock.Anything, mock.AnythingOfType("*model.Game")).Return(nil)
			},
			wantID: 13,
		},
		{
			name:    "blank title",
			idMode:  config.GameIDModeCaller,
			game:    model.Game{ID: 4, Title: "", GenreID: 1},
			setup:   func(m gameMocks) {},
			wantErr: apperrors.ErrValidation,
			wantMsg: "Title cannot be empty.",
		},
		{
			name:    "missing genre id",
			idMode:  config.GameIDModeCaller,
			game:    model.Game{ID: 4, Title: "Celeste"},
			setup:   func(m gameMocks) {},
			wantErr: apperrors.ErrValidation,
			wantMsg: "GenreId must be specified.",
		},
		{
			name:   "unknown genre",
			idMode: config.GameIDModeCaller,
			game:   model.Game{ID: 4, Title: "Celeste", GenreID: 8},
			setup: func(m gameMocks) {
				m.genres.On("FindByID", mock.Anything, 8).Return(nil, gorm.ErrRecordNotFound)
			},
			wantErr: apperrors.ErrValidation,
			wantMsg: "No genre found with ID 8.",
		},
		{
			name:   "duplicate id",
			idMode: config.GameIDModeCaller,
			game:   model.Game{ID: 4, Title: "Celeste", GenreID: 1},
			setup: func(m gameMocks) {
				m.genres.On("FindByID", mock.Anything, 1).Return(&model.Genre{ID: 1}, nil)
				m.games.On("FindByID", mock.Anything, 4).Return(&model.Game{ID: 4}, nil)
			},
			wantErr: apperrors.ErrConflict,
			wantMsg: "A game with the ID '4' already exists.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newGameMocks()
			tt.setup(m)

			game := tt.game
			created, err := m.service(tt.idMode).Create(context.Background(), &game)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, tt.wantMsg, err.Error())
				assert.Nil(t, created)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantID, created.ID)
			}
			m.assert(t)
		})
	}
}

func TestGameService_Update(t *testing.T) {
	t.Run("replaces all mutable fields", func(t *testing.T) {
		m := newGameMocks()
		m.games.On("FindByID", mock.Anything, 4).Return(&model.Game{ID: 4, Title: "Old", Description: "d", ImageURL: "old.png", GenreID: 1}, nil)
		m.genres.On("FindByID", mock.Anything, 2).Return(&model.Genre{ID: 2}, nil)
		m.games.On("Update", mock.Anything, &model.Game{ID: 4, Title: "New", GenreID: 2}).Return(nil)

		err := m.service(config.GameIDModeCaller).Update(context.Background(), &model.Game{ID: 4, Title: "New", GenreID: 2})

		assert.NoError(t, err)
		m.assert(t)
	})

	t.Run("missing game", func(t *testing.T) {
		m := newGameMocks()
		m.games.On("FindByID", mock.Anything, 4).Return(nil, gorm.ErrRecordNotFound)

		err := m.service(config.GameIDModeCaller).Update(context.Background(), &model.Game{ID: 4})

		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestGameService_Delete(t *testing.T) {
	m := newGameMocks()
	m.games.On("FindByID", mock.Anything, 4).Return(&model.Game{ID: 4}, nil)
	m.games.On("Delete", mock.Anything, 4).Return(nil)
	m.games.On("FindByID", mock.Anything, 5).Return(nil, gorm.ErrRecordNotFound)

	svc := m.service(config.GameIDModeCaller)
	assert.NoError(t, svc.Delete(context.Background(), 4))
	assert.ErrorIs(t, svc.Delete(context.Background(), 5), apperrors.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(context.Background(), 0), apperrors.ErrValidation)
	m.assert(t)
}

func TestGameService_Rating(t *testing.T) {
	m := newGameMocks()
	m.games.On("FindByID", mock.Anything, 4).Return(&model.Game{ID: 4}, nil)
	m.reviews.On("RatingStats", mock.Anything, 4).Return(repository.RatingStats{Count: 4, Sum: 17}, nil)

	summary, err := m.service(config.GameIDModeCaller).Rating(context.Background(), 4)

	require.NoError(t, err)
	assert.Equal(t, &RatingSummary{GameID: 4, Count: 4, Average: "4.3"}, summary)
	m.assert(t)
}

func TestAverageRating(t *testing.T) {
	tests := []struct {
		sum, count int64
		want       string
	}{
		{0, 0, "0.0"},
		{5, 1, "5.0"},
		{7, 2, "3.5"},
		{7, 3, "2.3"},
		{11, 3, "3.7"},
		{17, 4, "4.3"},
		{9, 8, "1.1"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, AverageRating(tt.sum, tt.count), "%d/%d", tt.sum, tt.count)
	}
}
