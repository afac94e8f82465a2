package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"gamereviews/internal/config"
	apperrors "gamereviews/internal/errors"
	"gamereviews/internal/model"
	"gamereviews/internal/repository"
)

// RatingSummary is the aggregate rating of one game. Average carries one
// fractional digit, e.g. "4.3", and is "0.0" for a game without reviews.
type RatingSummary struct {
	GameID  int    `json:"gameId"`
	Count   int64  `json:"count"`
	Average string `json:"average"`
}

// GameService handles game catalog operations.
type GameService interface {
	List(ctx context.Context, genreID int) ([]model.Game, error)
	Get(ctx context.Context, id int) (*model.Game, error)
	Create(ctx context.Context, game *model.Game) (*model.Game, error)
	Update(ctx context.Context, game *model.Game) error
	Delete(ctx context.Context, id int) error
	Rating(ctx context.Context, id int) (*RatingSummary, error)
}

type gameService struct {
	gameRepo   repository.GameRepository
	genreRepo  repository.GenreRepository
	reviewRepo repository.ReviewRepository
	idMode     string
	logger     *zap.Logger
}

// NewGameService creates a new game service. idMode is one of
// config.GameIDModeCaller or config.GameIDModeAuto.
func NewGameService(
	gameRepo repository.GameRepository,
	genreRepo repository.GenreRepository,
	reviewRepo repository.ReviewRepository,
	idMode string,
	logger *zap.Logger,
) GameService {
	return &gameService{
		gameRepo:   gameRepo,
		genreRepo:  genreRepo,
		reviewRepo: reviewRepo,
		idMode:     idMode,
		logger:     logger,
	}
}

// List returns all games, or those of one genre when genreID is positive.
func (s *gameService) List(ctx context.Context, genreID int) ([]model.Game, error) {
	if genreID < 0 {
		return nil, apperrors.Validation("A valid 'genreId' must be provided.")
	}
	games, err := s.gameRepo.List(ctx, genreID)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	return games, nil
}

func (s *gameService) Get(ctx context.Context, id int) (*model.Game, error) {
	if id <= 0 {
		return nil, apperrors.Validation("A valid game ID must be provided.")
	}
	return s.find(ctx, id)
}

func (s *gameService) find(ctx context.Context, id int) (*model.Game, error) {
	game, err := s.gameRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("No game found with ID %d.", id)
		}
		return nil, fmt.Errorf("find game: %w", err)
	}
	return game, nil
}

// validate checks the mutable fields and that the referenced genre exists.
func (s *gameService) validate(ctx context.Context, game *model.Game) error {
	if strings.TrimSpace(game.Title) == "" {
		return apperrors.Validation("Title cannot be empty.")
	}
	if game.GenreID <= 0 {
		return apperrors.Validation("GenreId must be specified.")
	}
	if _, err := s.genreRepo.FindByID(ctx, game.GenreID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.Validation("No genre found with ID %d.", game.GenreID)
		}
		return fmt.Errorf("find genre: %w", err)
	}
	return nil
}

// Create stores a new game. In auto id mode a missing id is assigned as the
// current maximum plus one.
func (s *gameService) Create(ctx context.Context, game *model.Game) (*model.Game, error) {
	if game.ID <= 0 && s.idMode != config.GameIDModeAuto {
		return nil, apperrors.Validation("A valid 'Id' field must be provided.")
	}
	if err := s.validate(ctx, game); err != nil {
		return nil, err
	}

	if game.ID > 0 {
		if _, err := s.gameRepo.FindByID(ctx, game.ID); err == nil {
			return nil, apperrors.Conflict("A game with the ID '%d' already exists.", game.ID)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("find game: %w", err)
		}
	} else {
		maxID, err := s.gameRepo.MaxID(ctx)
		if err != nil {
			return nil, fmt.Errorf("next game id: %w", err)
		}
		game.ID = maxID + 1
	}

	if err := s.gameRepo.Create(ctx, game); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.Conflict("A game with this ID already exists in the database.")
		}
		return nil, fmt.Errorf("create game: %w", err)
	}

	s.logger.Info("game created", zap.Int("game_id", game.ID), zap.Int("genre_id", game.GenreID))
	return game, nil
}

// Update replaces every mutable field of an existing game.
func (s *gameService) Update(ctx context.Context, game *model.Game) error {
	if game.ID <= 0 {
		return apperrors.Validation("Game Id is required.")
	}
	existing, err := s.find(ctx, game.ID)
	if err != nil {
		return err
	}
	if err := s.validate(ctx, game); err != nil {
		return err
	}

	existing.Title = game.Title
	existing.Description = game.Description
	existing.ImageURL = game.ImageURL
	existing.GenreID = game.GenreID
	if err := s.gameRepo.Update(ctx, existing); err != nil {
		return fmt.Errorf("update game: %w", err)
	}

	s.logger.Info("game updated", zap.Int("game_id", existing.ID))
	return nil
}

// Delete removes a game together with its reviews.
func (s *gameService) Delete(ctx context.Context, id int) error {
	if id <= 0 {
		return apperrors.Validation("Invalid ID.")
	}
	if _, err := s.find(ctx, id); err != nil {
		return err
	}
	if err := s.gameRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete game: %w", err)
	}

	s.logger.Info("game deleted", zap.Int("game_id", id))
	return nil
}

// Rating returns the review count and average rating of a game.
func (s *gameService) Rating(ctx context.Context, id int) (*RatingSummary, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	stats, err := s.reviewRepo.RatingStats(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("rating stats: %w", err)
	}
	return &RatingSummary{
		GameID:  id,
		Count:   stats.Count,
		Average: AverageRating(stats.Sum, stats.Count),
	}, nil
}

// AverageRating formats sum/count rounded half up to one fractional digit.
func AverageRating(sum, count int64) string {
	if count <= 0 {
		return decimal.Zero.StringFixed(1)
	}
	return decimal.NewFromInt(sum).Div(decimal.NewFromInt(count)).StringFixed(1)
}
