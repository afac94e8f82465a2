package repository

import (
	"context"

	"gorm.io/gorm"

	"gamereviews/internal/model"
)

// RatingStats aggregates the ratings of one game.
type RatingStats struct {
	Count int64
	Sum   int64
}

// ReviewRepository defines review persistence operations.
type ReviewRepository interface {
	List(ctx context.Context, gameID int) ([]model.Review, error)
	FindByID(ctx context.Context, id int) (*model.Review, error)
	FindByUserAndGame(ctx context.Context, userID, gameID int) (*model.Review, error)
	MaxID(ctx context.Context) (int, error)
	RatingStats(ctx context.Context, gameID int) (RatingStats, error)
	Create(ctx context.Context, review *model.Review) error
	Update(ctx context.Context, review *model.Review) error
	Delete(ctx context.Context, id int) error
}

type reviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository creates a new review repository.
func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

// List returns reviews ordered by id, restricted to one game when gameID is positive.
func (r *reviewRepository) List(ctx context.Context, gameID int) ([]model.Review, error) {
	var reviews []model.Review
	q := r.db.WithContext(ctx).Order("id")
	if gameID > 0 {
		q = q.Where("game_id = ?", gameID)
	}
	if err := q.Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

// FindByID finds a review by ID.
func (r *reviewRepository) FindByID(ctx context.Context, id int) (*model.Review, error) {
	var review model.Review
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&review).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

// FindByUserAndGame finds the review a user wrote for a game.
func (r *reviewRepository) FindByUserAndGame(ctx context.Context, userID, gameID int) (*model.Review, error) {
	var review model.Review
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND game_id = ?", userID, gameID).
		First(&review).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

// MaxID returns the highest review id, or 0 for an empty table.
func (r *reviewRepository) MaxID(ctx context.Context) (int, error) {
	return maxID(ctx, r.db, &model.Review{})
}

// RatingStats returns the number and sum of ratings for a game.
func (r *reviewRepository) RatingStats(ctx context.Context, gameID int) (RatingStats, error) {
	var stats RatingStats
	row := r.db.WithContext(ctx).Model(&model.Review{}).
		Select("COUNT(*), COALESCE(SUM(rating), 0)").
		Where("game_id = ?", gameID).
		Row()
	if err := row.Scan(&stats.Count, &stats.Sum); err != nil {
		return RatingStats{}, err
	}
	return stats, nil
}

// Create creates a new review.
func (r *reviewRepository) Create(ctx context.Context, review *model.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

// Update updates an existing review.
func (r *reviewRepository) Update(ctx context.Context, review *model.Review) error {
	return r.db.WithContext(ctx).Save(review).Error
}

// Delete removes a review.
func (r *reviewRepository) Delete(ctx context.Context, id int) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Review{}).Error
}
