package repository

import (
	"context"
	"errors"
	"fmt"
	"gorm.io/gorm"
	"slotly/cmd/internal/domain/entity"
)

// ErrDuplicateUsername is returned by Save when the username is taken.
var ErrDuplicateUsername = errors.New("username already exists")

type DefaultUserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *DefaultUserRepository {
	return &DefaultUserRepository{db: db}
}

// FindByUsername matches the username exactly (case-sensitive).
func (u *DefaultUserRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	var user entity.User
	err := u.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by username %s: %w", username, err)
	}
	return &user, nil
}

func (u *DefaultUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var count int64
	err := u.db.WithContext(ctx).
		Model(&entity.User{}).
		Where("username = ?", username).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to count users named %s: %w", username, err)
	}
	return count > 0, nil
}

func (u *DefaultUserRepository) Save(ctx context.Context, user *entity.User) error {
	err := u.db.WithContext(ctx).Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateUsername
	}
	if err != nil {
		return fmt.Errorf("failed to create user %s: %w", user.Username, err)
	}
	return nil
}
