package repository

import (
	"context"

	"gorm.io/gorm"

	"gamereviews/internal/model"
)

// UserRepository defines persistence operations.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByUsername(ctx context.Context, username string, caseSensitive bool) (*model.User, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// FindByUsername matches candidates case-insensitively in SQL, then applies
// the exact comparison in Go. Uniqueness of case variants is left to the
// column collation, which db.Migrate makes binary on MySQL.
func (r *userRepository) FindByUsername(ctx context.Context, username string, caseSensitive bool) (*model.User, error) {
	var candidates []model.User
	if err := r.db.WithContext(ctx).
		Where("LOWER(username) = LOWER(?)", username).
		Order("created_at").
		Find(&candidates).Error; err != nil {
		return nil, err
	}
	for i := range candidates {
		if !caseSensitive || candidates[i].Username == username {
			return &candidates[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}
