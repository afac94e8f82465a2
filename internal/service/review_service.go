package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"gamereviews/internal/auth"
	apperrors "gamereviews/internal/errors"
	"gamereviews/internal/model"
	"gamereviews/internal/policy"
	"gamereviews/internal/repository"
)

// ReviewService handles reviews and enforces one review per user per game.
type ReviewService interface {
	List(ctx context.Context, principal *auth.Principal, gameID int) ([]model.ReviewView, error)
	Get(ctx context.Context, principal *auth.Principal, id int) (*model.ReviewView, error)
	GetInGenre(ctx context.Context, principal *auth.Principal, genreID, gameID, reviewID int) (*model.ReviewView, error)
	Create(ctx context.Context, principal *auth.Principal, input *model.Review) (*model.ReviewView, error)
	Update(ctx context.Context, principal *auth.Principal, input *model.Review) error
	Delete(ctx context.Context, principal *auth.Principal, id int) error
}

type reviewService struct {
	reviewRepo repository.ReviewRepository
	gameRepo   repository.GameRepository
	genreRepo  repository.GenreRepository
	logger     *zap.Logger
}

// NewReviewService creates a new review service.
func NewReviewService(
	reviewRepo repository.ReviewRepository,
	gameRepo repository.GameRepository,
	genreRepo repository.GenreRepository,
	logger *zap.Logger,
) ReviewService {
	return &reviewService{
		reviewRepo: reviewRepo,
		gameRepo:   gameRepo,
		genreRepo:  genreRepo,
		logger:     logger,
	}
}

func view(p *auth.Principal, review model.Review) model.ReviewView {
	return model.ReviewView{Review: review, IsOwner: policy.IsOwner(p, &review)}
}

// List returns every review, or those of one game when gameID is positive.
func (s *reviewService) List(ctx context.Context, principal *auth.Principal, gameID int) ([]model.ReviewView, error) {
	if gameID < 0 {
		return nil, apperrors.Validation("A valid 'gameId' must be provided.")
	}
	reviews, err := s.reviewRepo.List(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	views := make([]model.ReviewView, 0, len(reviews))
	for _, r := range reviews {
		views = append(views, view(principal, r))
	}
	return views, nil
}

func (s *reviewService) Get(ctx context.Context, principal *auth.Principal, id int) (*model.ReviewView, error) {
	if id <= 0 {
		return nil, apperrors.Validation("A valid review ID must be provided.")
	}
	review, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	v := view(principal, *review)
	return &v, nil
}

func (s *reviewService) find(ctx context.Context, id int) (*model.Review, error) {
	review, err := s.reviewRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("No review found with ID %d.", id)
		}
		return nil, fmt.Errorf("find review: %w", err)
	}
	return review, nil
}

func (s *reviewService) requireGame(ctx context.Context, id int) (*model.Game, error) {
	game, err := s.gameRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("No game found with ID %d.", id)
		}
		return nil, fmt.Errorf("find game: %w", err)
	}
	return game, nil
}

// GetInGenre looks a review up through its game and genre. Each level must
// exist and belong to the one above it.
func (s *reviewService) GetInGenre(ctx context.Context, principal *auth.Principal, genreID, gameID, reviewID int) (*model.ReviewView, error) {
	if genreID <= 0 || gameID <= 0 || reviewID <= 0 {
		return nil, apperrors.Validation("Valid 'genreId', 'gameId', and 'reviewId' must be provided.")
	}

	if _, err := s.genreRepo.FindByID(ctx, genreID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Genre not found.")
		}
		return nil, fmt.Errorf("find genre: %w", err)
	}

	game, err := s.gameRepo.FindByID(ctx, gameID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("find game: %w", err)
	}
	if err != nil || game.GenreID != genreID {
		return nil, apperrors.NotFound("Game not found in this genre.")
	}

	review, err := s.reviewRepo.FindByID(ctx, reviewID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("find review: %w", err)
	}
	if err != nil || review.GameID != gameID {
		return nil, apperrors.NotFound("Review not found for this game.")
	}

	v := view(principal, *review)
	return &v, nil
}

func validateReview(input *model.Review) error {
	if input.Rating < 1 || input.Rating > 5 {
		return apperrors.Validation("Rating must be between 1 and 5.")
	}
	if strings.TrimSpace(input.Comment) == "" {
		return apperrors.Validation("Comment cannot be empty.")
	}
	if input.GameID <= 0 {
		return apperrors.Validation("GameId must be specified.")
	}
	return nil
}

// Create stores a review owned by the caller, or by input.UserID when an
// Admin supplies one.
func (s *reviewService) Create(ctx context.Context, principal *auth.Principal, input *model.Review) (*model.ReviewView, error) {
	if principal == nil {
		return nil, apperrors.Unauthenticated("Authentication is required.")
	}
	if err := validateReview(input); err != nil {
		return nil, err
	}
	if _, err := s.requireGame(ctx, input.GameID); err != nil {
		return nil, err
	}

	owner := policy.ResolveReviewOwner(principal, input.UserID, principal.UserID)
	if owner <= 0 {
		s.logger.Warn("review owner unresolved", zap.String("subject", principal.Subject))
		return nil, apperrors.Forbidden("Unable to determine user identity.")
	}

	if _, err := s.reviewRepo.FindByUserAndGame(ctx, owner, input.GameID); err == nil {
		return nil, apperrors.Conflict("You can only post one review per game. You already have a review for this game.")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("find existing review: %w", err)
	}

	id := input.ID
	if id > 0 {
		if _, err := s.reviewRepo.FindByID(ctx, id); err == nil {
			return nil, apperrors.Conflict("A review with the ID '%d' already exists.", id)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("find review: %w", err)
		}
	} else {
		maxID, err := s.reviewRepo.MaxID(ctx)
		if err != nil {
			return nil, fmt.Errorf("next review id: %w", err)
		}
		id = maxID + 1
	}

	review := &model.Review{
		ID:      id,
		Rating:  input.Rating,
		Comment: input.Comment,
		GameID:  input.GameID,
		UserID:  owner,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.Conflict("A review with this ID, or by this user for this game, already exists.")
		}
		return nil, fmt.Errorf("create review: %w", err)
	}

	s.logger.Info("review created",
		zap.Int("review_id", review.ID),
		zap.Int("game_id", review.GameID),
		zap.Int("user_id", review.UserID),
	)
	v := view(principal, *review)
	return &v, nil
}

// Update edits a review the caller owns. Admins may edit any review and
// reassign its owner.
func (s *reviewService) Update(ctx context.Context, principal *auth.Principal, input *model.Review) error {
	if principal == nil {
		return apperrors.Unauthenticated("Authentication is required.")
	}
	if input.ID <= 0 {
		return apperrors.Validation("A valid 'Id' must be provided.")
	}
	if err := validateReview(input); err != nil {
		return err
	}

	existing, err := s.find(ctx, input.ID)
	if err != nil {
		return err
	}
	if err := policy.CanModifyReview(principal, existing, policy.ActionReviewUpdate); err != nil {
		s.logger.Warn("review update denied",
			zap.Int("review_id", existing.ID),
			zap.String("subject", principal.Subject),
		)
		return err
	}
	if input.GameID != existing.GameID {
		if _, err := s.requireGame(ctx, input.GameID); err != nil {
			return err
		}
	}

	owner := policy.ResolveReviewOwner(principal, input.UserID, existing.UserID)
	if owner != existing.UserID || input.GameID != existing.GameID {
		other, err := s.reviewRepo.FindByUserAndGame(ctx, owner, input.GameID)
		if err == nil && other.ID != existing.ID {
			return apperrors.Conflict("You can only post one review per game. You already have a review for this game.")
		}
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("find existing review: %w", err)
		}
	}

	existing.Rating = input.Rating
	existing.Comment = input.Comment
	existing.GameID = input.GameID
	existing.UserID = owner
	if err := s.reviewRepo.Update(ctx, existing); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.Conflict("A database constraint prevented updating this review.")
		}
		return fmt.Errorf("update review: %w", err)
	}

	s.logger.Info("review updated", zap.Int("review_id", existing.ID), zap.Int("user_id", existing.UserID))
	return nil
}

// Delete removes a review the caller owns, or any review for an Admin.
func (s *reviewService) Delete(ctx context.Context, principal *auth.Principal, id int) error {
	if principal == nil {
		return apperrors.Unauthenticated("Authentication is required.")
	}
	if id <= 0 {
		return apperrors.Validation("A valid review ID must be provided.")
	}
	existing, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if err := policy.CanModifyReview(principal, existing, policy.ActionReviewDelete); err != nil {
		s.logger.Warn("review delete denied",
			zap.Int("review_id", existing.ID),
			zap.String("subject", principal.Subject),
		)
		return err
	}
	if err := s.reviewRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete review: %w", err)
	}

	s.logger.Info("review deleted", zap.Int("review_id", id))
	return nil
}
