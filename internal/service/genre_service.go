package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"gamereviews/internal/config"
	apperrors "gamereviews/internal/errors"
	"gamereviews/internal/model"
	"gamereviews/internal/repository"
)

// GenreService handles genre catalog operations.
type GenreService interface {
	List(ctx context.Context) ([]model.Genre, error)
	Get(ctx context.Context, id int) (*model.Genre, error)
	ListGames(ctx context.Context, id int) ([]model.Game, error)
	Create(ctx context.Context, genre *model.Genre) (*model.Genre, error)
	Update(ctx context.Context, genre *model.Genre) error
	Delete(ctx context.Context, id int) error
}

type genreService struct {
	genreRepo    repository.GenreRepository
	gameRepo     repository.GameRepository
	deletePolicy string
	logger       *zap.Logger
}

// NewGenreService creates a new genre service. deletePolicy is one of
// config.GenreDeletePolicyReject or config.GenreDeletePolicyCascade.
func NewGenreService(
	genreRepo repository.GenreRepository,
	gameRepo repository.GameRepository,
	deletePolicy string,
	logger *zap.Logger,
) GenreService {
	return &genreService{
		genreRepo:    genreRepo,
		gameRepo:     gameRepo,
		deletePolicy: deletePolicy,
		logger:       logger,
	}
}

func (s *genreService) List(ctx context.Context) ([]model.Genre, error) {
	genres, err := s.genreRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list genres: %w", err)
	}
	return genres, nil
}

func (s *genreService) Get(ctx context.Context, id int) (*model.Genre, error) {
	if id <= 0 {
		return nil, apperrors.Validation("A valid 'Id' must be provided.")
	}
	genre, err := s.genreRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("No genre found with ID %d.", id)
		}
		return nil, fmt.Errorf("find genre: %w", err)
	}
	return genre, nil
}

// ListGames returns the games of an existing genre.
func (s *genreService) ListGames(ctx context.Context, id int) ([]model.Game, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	games, err := s.gameRepo.List(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	return games, nil
}

// Create stores a genre under its caller-supplied id.
func (s *genreService) Create(ctx context.Context, genre *model.Genre) (*model.Genre, error) {
	if genre.ID <= 0 {
		return nil, apperrors.Validation("A valid 'Id' must be provided.")
	}
	if strings.TrimSpace(genre.Name) == "" {
		return nil, apperrors.Validation("Genre 'Name' cannot be empty.")
	}

	if _, err := s.genreRepo.FindByID(ctx, genre.ID); err == nil {
		return nil, apperrors.Conflict("A genre with the ID '%d' already exists.", genre.ID)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("find genre: %w", err)
	}

	if _, err := s.genreRepo.FindByName(ctx, genre.Name); err == nil {
		return nil, apperrors.Conflict("A genre with the name '%s' already exists.", genre.Name)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("find genre by name: %w", err)
	}

	if err := s.genreRepo.Create(ctx, genre); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.Conflict("A genre with this ID already exists in the database.")
		}
		return nil, fmt.Errorf("create genre: %w", err)
	}

	s.logger.Info("genre created", zap.Int("genre_id", genre.ID), zap.String("name", genre.Name))
	return genre, nil
}

// Update renames an existing genre.
func (s *genreService) Update(ctx context.Context, genre *model.Genre) error {
	if genre.ID <= 0 {
		return apperrors.Validation("A valid 'Id' must be provided.")
	}
	existing, err := s.genreRepo.FindByID(ctx, genre.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("Genre not found.")
		}
		return fmt.Errorf("find genre: %w", err)
	}
	if strings.TrimSpace(genre.Name) == "" {
		return apperrors.Validation("Genre 'Name' cannot be empty.")
	}

	other, err := s.genreRepo.FindByName(ctx, genre.Name)
	if err == nil && other.ID != existing.ID {
		return apperrors.Conflict("A genre with the name '%s' already exists.", genre.Name)
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("find genre by name: %w", err)
	}

	existing.Name = genre.Name
	if err := s.genreRepo.Update(ctx, existing); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.Conflict("A genre with the name '%s' already exists.", genre.Name)
		}
		return fmt.Errorf("update genre: %w", err)
	}

	s.logger.Info("genre updated", zap.Int("genre_id", existing.ID), zap.String("name", existing.Name))
	return nil
}

// Delete removes a genre. Under the reject policy a genre that still has
// games is a conflict; under cascade its games and their reviews go with it.
func (s *genreService) Delete(ctx context.Context, id int) error {
	if id <= 0 {
		return apperrors.Validation("A valid 'Id' must be provided.")
	}
	if _, err := s.genreRepo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("Genre not found.")
		}
		return fmt.Errorf("find genre: %w", err)
	}

	if s.deletePolicy == config.GenreDeletePolicyCascade {
		if err := s.genreRepo.DeleteWithGames(ctx, id); err != nil {
			return fmt.Errorf("delete genre with games: %w", err)
		}
		s.logger.Info("genre deleted with games", zap.Int("genre_id", id))
		return nil
	}

	count, err := s.gameRepo.CountByGenre(ctx, id)
	if err != nil {
		return fmt.Errorf("count games: %w", err)
	}
	if count > 0 {
		return apperrors.Conflict("Genre %d still has %d game(s). Delete or move them first.", id, count)
	}
	if err := s.genreRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete genre: %w", err)
	}

	s.logger.Info("genre deleted", zap.Int("genre_id", id))
	return nil
}
