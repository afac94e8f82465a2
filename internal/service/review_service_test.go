package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"gamereviews/internal/auth"
	apperrors "gamereviews/internal/errors"
	"gamereviews/internal/model"
)

var (
	alice = &auth.Principal{Subject: "alice-id", Username: "alice", Role: model.RoleUser, UserID: 1001}
	bob   = &auth.Principal{Subject: "bob-id", Username: "bob", Role: model.RoleUser, UserID: 2002}
	admin = &auth.Principal{Subject: "admin-id", Username: "admin", Role: model.RoleAdmin, UserID: 9009}
)

type reviewMocks struct {
	reviews *MockReviewRepository
	games   *MockGameRepository
	genres  *MockGenreRepository
}

func newReviewMocks() reviewMocks {
	return reviewMocks{
		reviews: new(MockReviewRepository),
		games:   new(MockGameRepository),
		genres:  new(MockGenreRepository),
	}
}

func (m reviewMocks) service() ReviewService {
	return NewReviewService(m.reviews, m.games, m.genres, zap.NewNop())
}

func TestReviewService_Create(t *testing.T) {
	tests := []struct {
		name      string
		principal *auth.Principal
		input     model.Review
		setup     func(reviewMocks)
		want      *model.Review
		wantErr   error
		wantMsg   string
	}{
		{
			name:      "user review is stored under the caller",
			principal: alice,
			input:     model.Review{Rating: 5, Comment: "great", GameID: 1, UserID: 4242},
			setup: func(m reviewMocks) {
				m.games.On("FindByID", mock.Anything, 1).Return(&model.Game{ID: 1}, nil)
				m.reviews.On("FindByUserAndGame", mock.Anything, 1001, 1).Return(nil, gorm.ErrRecordNotFound)
				m.reviews.On("MaxID", mock.Anything).Return(6, nil)
				m.reviews.On("Create", mock.Anything, mock.AnythingOfType("*model.Review")).Return(nil)
			},
			want: &model.Review{ID: 7, Rating: 5, Comment: "great", GameID: 1, UserID: 1001},
		},
		{
			name:      "admin may act for another user",
			principal: admin,
			input:     model.Review{ID: 3, Rating: 4, Comment: "fine", GameID: 1, UserID: 4242},
			setup: func(m reviewMocks) {
				m.games.On("FindByID", mock.Anything, 1).Return(&model.Game{ID: 1}, nil)
				m.reviews.On("FindByUserAndGame", mock.Anything, 4242, 1).Return(nil, gorm.ErrRecordNotFound)
				m.reviews.On("FindByID", mock.Anything, 3).Return(nil, gorm.ErrRecordNotFound)
				m.reviews.On("Create", mock.Anything, mock.AnythingOfType("*model.Review")).Return(nil)
			},
			want: &model.Review{ID: 3, Rating: 4, Comment: "fine", GameID: 1, UserID: 4242},
		},
		{
			name:      "admin without user id reviews as self",
			principal: admin,
			input:     model.Review{Rating: 4, Comment: "fine", GameID: 1},
			setup: func(m reviewMocks) {
				m.games.On("FindByID", mock.Anything, 1).Return(&model.Game{ID: 1}, nil)
				m.reviews.On("FindByUserAndGame", mock.Anything, 9009, 1).Return(nil, gorm.ErrRecordNotFound)
				m.reviews.On("MaxID", mock.Anything).Return(0, nil)
				m.reviews.On("Create", mock.Anything, mock.AnythingOfType("*model.Review")).Return(nil)
			},
			want: &model.Review{ID: 1, Rating: 4, Comment: "fine", GameID: 1, UserID: 9009},
		},
		{
			name:      "rating too high",
			principal: admin,
			input:     model.Review{Rating: 6, Comment: "wow", GameID: 1},
			setup:     func(m reviewMocks) {},
			wantErr:   apperrors.ErrValidation,
			wantMsg:   "Rating must be between 1 and 5.",
		},
		{
			name:      "rating too low",
			principal: alice,
			input:     model.Review{Rating: 0, Comment: "meh", GameID: 1},
			setup:     func(m reviewMocks) {},
			wantErr:   apperrors.ErrValidation,
			wantMsg:   "Rating must be between 1 and 5.",
		},
		{
			name:      "blank comment",
			principal: alice,
			input:     model.Review{Rating: 3, Comment: "\t", GameID: 1},
			setup:     func(m reviewMocks) {},
			wantErr:   apperrors.ErrValidation,
			wantMsg:   "Comment cannot be empty.",
		},
		{
			name:      "unknown game",
			principal: alice,
			input:     model.Review{Rating: 3, Comment: "ok", GameID: 99},
			setup: func(m reviewMocks) {
				m.games.On("FindByID", mock.Anything, 99).Return(nil, gorm.ErrRecordNotFound)
			},
			wantErr: apperrors.ErrNotFound,
			wantMsg: "No game found with ID 99.",
		},
		{
			name:      "second review for the same game",
			principal: alice,
			input:     model.Review{Rating: 3, Comment: "again", GameID: 1},
			setup: func(m reviewMocks) {
				m.games.On("FindByID", mock.Anything, 1).Return(&model.Game{ID: 1}, nil)
				m.reviews.On("FindByUserAndGame", mock.Anything, 1001, 1).Return(&model.Review{ID: 2, UserID: 1001, GameID: 1}, nil)
			},
			wantErr: apperrors.ErrConflict,
		},
		{
			name:      "duplicate id",
			principal: alice,
			input:     model.Review{ID: 2, Rating: 3, Comment: "ok", GameID: 1},
			setup: func(m reviewMocks) {
				m.games.On("FindByID", mock.Anything, 1).Return(&model.Game{ID: 1}, nil)
				m.reviews.On("FindByUserAndGame", mock.Anything, 1001, 1).Return(nil, gorm.ErrRecordNotFound)
				m.reviews.On("FindByID", mock.Anything, 2).Return(&model.Review{ID: 2}, nil)
			},
			wantErr: apperrors.ErrConflict,
			wantMsg: "A review with the ID '2' already exists.",
		},
		{
			name:      "insert race caught by unique index",
			principal: alice,
			input:     model.Review{Rating: 3, Comment: "ok", GameID: 1},
			setup: func(m reviewMocks) {
				m.games.On("FindByID", mock.Anything, 1).Return(&model.Game{ID: 1}, nil)
				m.reviews.On("FindByUserAndGame", mock.Anything, 1001, 1).Return(nil, gorm.ErrRecordNotFound)
				m.reviews.On("MaxID", mock.Anything).Return(6, nil)
				m.reviews.On("Create", mock.Anything, mock.Anything).Return(gorm.ErrDuplicatedKey)
			},
			wantErr: apperrors.ErrConflict,
		},
		{
			name:    "anonymous",
			input:   model.Review{Rating: 3, Comment: "ok", GameID: 1},
			setup:   func(m reviewMocks) {},
			wantErr: apperrors.ErrUnauthenticated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newReviewMocks()
			tt.setup(m)

			input := tt.input
			created, err := m.service().Create(context.Background(), tt.principal, &input)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				if tt.wantMsg != "" {
					assert.Equal(t, tt.wantMsg, err.Error())
				}
				assert.Nil(t, created)
			} else {
				require.NoError(t, err)
				assert.Equal(t, *tt.want, created.Review)
				assert.Equal(t, tt.want.UserID == tt.principal.UserID, created.IsOwner)
			}
			m.reviews.AssertExpectations(t)
			m.games.AssertExpectations(t)
		})
	}
}

func TestReviewService_Update(t *testing.T) {
	stored := func() *model.Review {
		return &model.Review{ID: 5, Rating: 3, Comment: "ok", GameID: 1, UserID: 1001}
	}

	tests := []struct {
		name      string
		principal *auth.Principal
		input     model.Review
		setup     func(reviewMocks)
		wantErr   error
		wantMsg   string
	}{
		{
			name:      "owner edits",
			principal: alice,
			input:     model.Review{ID: 5, Rating: 4, Comment: "better", GameID: 1, UserID: 7777},
			setup: func(m reviewMocks) {
				m.reviews.On("FindByID", mock.Anything, 5).Return(stored(), nil)
				m.reviews.On("Update", mock.Anything, &model.Review{ID: 5, Rating: 4, Comment: "better", GameID: 1, UserID: 1001}).Return(nil)
			},
		},
		{
			name:      "non-owner is forbidden",
			principal: bob,
			input:     model.Review{ID: 5, Rating: 1, Comment: "bad", GameID: 1},
			setup: func(m reviewMocks) {
				m.reviews.On("FindByID", mock.Anything, 5).Return(stored(), nil)
			},
			wantErr: apperrors.ErrForbidden,
			wantMsg: "You can only edit your own reviews.",
		},
		{
			name:      "admin reassigns owner",
			principal: admin,
			input:     model.Review{ID: 5, Rating: 2, Comment: "moderated", GameID: 1, UserID: 2002},
			setup: func(m reviewMocks) {
				m.reviews.On("FindByID", mock.Anything, 5).Return(stored(), nil)
				m.reviews.On("FindByUserAndGame", mock.Anything, 2002, 1).Return(nil, gorm.ErrRecordNotFound)
				m.reviews.On("Update", mock.Anything, &model.Review{ID: 5, Rating: 2, Comment: "moderated", GameID: 1, UserID: 2002}).Return(nil)
			},
		},
		{
			name:      "admin keeps owner without user id",
			principal: admin,
			input:     model.Review{ID: 5, Rating: 2, Comment: "moderated", GameID: 1},
			setup: func(m reviewMocks) {
				m.reviews.On("FindByID", mock.Anything, 5).Return(stored(), nil)
				m.reviews.On("Update", mock.Anything, &model.Review{ID: 5, Rating: 2, Comment: "moderated", GameID: 1, UserID: 1001}).Return(nil)
			},
		},
		{
			name:      "move onto a game already reviewed",
			principal: alice,
			input:     model.Review{ID: 5, Rating: 4, Comment: "moved", GameID: 2},
			setup: func(m reviewMocks) {
				m.reviews.On("FindByID", mock.Anything, 5).Return(stored(), nil)
				m.games.On("FindByID", mock.Anything, 2).Return(&model.Game{ID: 2}, nil)
				m.reviews.On("FindByUserAndGame", mock.Anything, 1001, 2).Return(&model.Review{ID: 6, GameID: 2, UserID: 1001}, nil)
			},
			wantErr: apperrors.ErrConflict,
		},
		{
			name:      "move onto a missing game",
			principal: alice,
			input:     model.Review{ID: 5, Rating: 4, Comment: "moved", GameID: 3},
			setup: func(m reviewMocks) {
				m.reviews.On("FindByID", mock.Anything, 5).Return(stored(), nil)
				m.games.On("FindByID", mock.Anything, 3).Return(nil, gorm.ErrRecordNotFound)
			},
			wantErr: apperrors.ErrNotFound,
		},
		{
			name:      "missing review",
			principal: alice,
			input:     model.Review{ID: 9, Rating: 4, Comment: "x", GameID: 1},
			setup: func(m reviewMocks) {
				m.reviews.On("FindByID", mock.Anything, 9).Return(nil, gorm.ErrRecordNotFound)
			},
			wantErr: apperrors.ErrNotFound,
			wantMsg: "No review found with ID 9.",
		},
		{
			name:      "rating out of range for admin",
			principal: admin,
			input:     model.Review{ID: 5, Rating: 9, Comment: "x", GameID: 1},
			setup:     func(m reviewMocks) {},
			wantErr:   apperrors.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newReviewMocks()
			tt.setup(m)

			input := tt.input
			err := m.service().Update(context.Background(), tt.principal, &input)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				if tt.wantMsg != "" {
					assert.Equal(t, tt.wantMsg, err.Error())
				}
			} else {
				assert.NoError(t, err)
			}
			m.reviews.AssertExpectations(t)
			m.games.AssertExpectations(t)
		})
	}
}

func TestReviewService_Delete(t *testing.T) {
	stored := &model.Review{ID: 5, Rating: 3, Comment: "ok", GameID: 1, UserID: 1001}

	tests := []struct {
		name      string
		principal *auth.Principal
		deletes   bool
		wantErr   error
	}{
		{name: "owner", principal: alice, deletes: true},
		{name: "admin", principal: admin, deletes: true},
		{name: "other user", principal: bob, wantErr: apperrors.ErrForbidden},
		{name: "anonymous", principal: nil, wantErr: apperrors.ErrUnauthenticated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newReviewMocks()
			m.reviews.On("FindByID", mock.Anything, 5).Return(stored, nil).Maybe()
			if tt.deletes {
				m.reviews.On("Delete", mock.Anything, 5).Return(nil)
			}

			err := m.service().Delete(context.Background(), tt.principal, 5)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			m.reviews.AssertExpectations(t)
		})
	}
}

func TestReviewService_List_MarksOwnership(t *testing.T) {
	m := newReviewMocks()
	m.reviews.On("List", mock.Anything, 1).Return([]model.Review{
		{ID: 1, Rating: 5, Comment: "a", GameID: 1, UserID: 1001},
		{ID: 2, Rating: 2, Comment: "b", GameID: 1, UserID: 2002},
	}, nil)

	views, err := m.service().List(context.Background(), alice, 1)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.True(t, views[0].IsOwner)
	assert.False(t, views[1].IsOwner)

	anonymous, err := m.service().List(context.Background(), nil, 1)
	require.NoError(t, err)
	assert.False(t, anonymous[0].IsOwner)
	assert.False(t, anonymous[1].IsOwner)
}

func TestReviewService_GetInGenre(t *testing.T) {
	m := newReviewMocks()
	m.genres.On("FindByID", mock.Anything, 1).Return(&model.Genre{ID: 1}, nil)
	m.genres.On("FindByID", mock.Anything, 2).Return(nil, gorm.ErrRecordNotFound)
	m.games.On("FindByID", mock.Anything, 10).Return(&model.Game{ID: 10, GenreID: 1}, nil)
	m.games.On("FindByID", mock.Anything, 11).Return(&model.Game{ID: 11, GenreID: 3}, nil)
	m.reviews.On("FindByID", mock.Anything, 100).Return(&model.Review{ID: 100, GameID: 10, UserID: 1001}, nil)
	m.reviews.On("FindByID", mock.Anything, 101).Return(&model.Review{ID: 101, GameID: 12}, nil)
	svc := m.service()
	ctx := context.Background()

	v, err := svc.GetInGenre(ctx, alice, 1, 10, 100)
	require.NoError(t, err)
	assert.Equal(t, 100, v.ID)
	assert.True(t, v.IsOwner)

	_, err = svc.GetInGenre(ctx, nil, 2, 10, 100)
	assert.EqualError(t, err, "Genre not found.")

	_, err = svc.GetInGenre(ctx, nil, 1, 11, 100)
	assert.EqualError(t, err, "Game not found in this genre.")

	_, err = svc.GetInGenre(ctx, nil, 1, 10, 101)
	assert.EqualError(t, err, "Review not found for this game.")

	_, err = svc.GetInGenre(ctx, nil, 0, 10, 100)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}
