package repository

import (
	"context"

	"gorm.io/gorm"

	"gamereviews/internal/model"
)

// GameRepository defines game persistence operations.
type GameRepository interface {
	List(ctx context.Context, genreID int) ([]model.Game, error)
	FindByID(ctx context.Context, id int) (*model.Game, error)
	CountByGenre(ctx context.Context, genreID int) (int64, error)
	MaxID(ctx context.Context) (int, error)
	Create(ctx context.Context, game *model.Game) error
	Update(ctx context.Context, game *model.Game) error
	Delete(ctx context.Context, id int) error
}

type gameRepository struct {
	db *gorm.DB
}

// NewGameRepository creates a new game repository.
func NewGameRepository(db *gorm.DB) GameRepository {
	return &gameRepository{db: db}
}

// List returns games ordered by id, restricted to one genre when genreID is positive.
func (r *gameRepository) List(ctx context.Context, genreID int) ([]model.Game, error) {
	var games []model.Game
	q := r.db.WithContext(ctx).Order("id")
	if genreID > 0 {
		q = q.Where("genre_id = ?", genreID)
	}
	if err := q.Find(&games).Error; err != nil {
		return nil, err
	}
	return games, nil
}

// FindByID finds a game by ID.
func (r *gameRepository) FindByID(ctx context.Context, id int) (*model.Game, error) {
	var game model.Game
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&game).Error; err != nil {
		return nil, err
	}
	return &game, nil
}

// CountByGenre counts the games referencing a genre.
func (r *gameRepository) CountByGenre(ctx context.Context, genreID int) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Game{}).Where("genre_id = ?", genreID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// MaxID returns the highest game id, or 0 for an empty table.
func (r *gameRepository) MaxID(ctx context.Context) (int, error) {
	return maxID(ctx, r.db, &model.Game{})
}

// Create creates a new game.
func (r *gameRepository) Create(ctx context.Context, game *model.Game) error {
	return r.db.WithContext(ctx).Create(game).Error
}

// Update updates an existing game.
func (r *gameRepository) Update(ctx context.Context, game *model.Game) error {
	return r.db.WithContext(ctx).Save(game).Error
}

// Delete removes a game and its reviews in one transaction.
func (r *gameRepository) Delete(ctx context.Context, id int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("game_id = ?", id).Delete(&model.Review{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&model.Game{}).Error
	})
}

// maxID returns MAX(id) for the table of value, treating an empty table as 0.
func maxID(ctx context.Context, db *gorm.DB, value interface{}) (int, error) {
	var highest int
	row := db.WithContext(ctx).Model(value).Select("COALESCE(MAX(id), 0)").Row()
	if err := row.Scan(&highest); err != nil {
		return 0, err
	}
	return highest, nil
}
