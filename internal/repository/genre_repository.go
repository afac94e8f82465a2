package repository

import (
	"context"

	"gorm.io/gorm"

	"gamereviews/internal/model"
)

// GenreRepository defines genre persistence operations.
type GenreRepository interface {
	List(ctx context.Context) ([]model.Genre, error)
	FindByID(ctx context.Context, id int) (*model.Genre, error)
	FindByName(ctx context.Context, name string) (*model.Genre, error)
	Create(ctx context.Context, genre *model.Genre) error
	Update(ctx context.Context, genre *model.Genre) error
	Delete(ctx context.Context, id int) error
	DeleteWithGames(ctx context.Context, id int) error
}

type genreRepository struct {
	db *gorm.DB
}

// NewGenreRepository creates a new genre repository.
func NewGenreRepository(db *gorm.DB) GenreRepository {
	return &genreRepository{db: db}
}

// List returns every genre ordered by id.
func (r *genreRepository) List(ctx context.Context) ([]model.Genre, error) {
	var genres []model.Genre
	if err := r.db.WithContext(ctx).Order("id").Find(&genres).Error; err != nil {
		return nil, err
	}
	return genres, nil
}

// FindByID finds a genre by ID.
func (r *genreRepository) FindByID(ctx context.Context, id int) (*model.Genre, error) {
	var genre model.Genre
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&genre).Error; err != nil {
		return nil, err
	}
	return &genre, nil
}

// FindByName finds a genre by name, ignoring case.
func (r *genreRepository) FindByName(ctx context.Context, name string) (*model.Genre, error) {
	var genre model.Genre
	if err := r.db.WithContext(ctx).
		Where("LOWER(name) = LOWER(?)", name).
		First(&genre).Error; err != nil {
		return nil, err
	}
	return &genre, nil
}

// Create creates a new genre.
func (r *genreRepository) Create(ctx context.Context, genre *model.Genre) error {
	return r.db.WithContext(ctx).Create(genre).Error
}

// Update updates an existing genre.
func (r *genreRepository) Update(ctx context.Context, genre *model.Genre) error {
	return r.db.WithContext(ctx).Save(genre).Error
}

// Delete removes a genre.
func (r *genreRepository) Delete(ctx context.Context, id int) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Genre{}).Error
}

// DeleteWithGames removes a genre, its games and their reviews in one transaction.
func (r *genreRepository) DeleteWithGames(ctx context.Context, id int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		games := tx.Model(&model.Game{}).Select("id").Where("genre_id = ?", id)
		if err := tx.Where("game_id IN (?)", games).Delete(&model.Review{}).Error; err != nil {
			return err
		}
		if err := tx.Where("genre_id = ?", id).Delete(&model.Game{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&model.Genre{}).Error
	})
}
