package repository

import (
	"context"
	"errors"
	"fmt"

	"go-blog-backend/models"

	"gorm.io/gorm"
)

// Users is the credential store. Email uniqueness is enforced here.
type Users struct {
	store *Store
}

// Create inserts user after checking the email is free. The caller hashes the password.
func (r *Users) Create(ctx context.Context, user *models.User) error {
	err := r.store.write(func(tx *gorm.DB) error {
		var count int64
		if err := tx.WithContext(ctx).Model(&models.User{}).Where("email = ?", user.Email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrEmailTaken
		}
		return tx.WithContext(ctx).Create(user).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrEmailTaken
	}
	if err != nil && !errors.Is(err, ErrEmailTaken) {
		return fmt.Errorf("create user: %w", err)
	}
	return err
}

// FindByEmail returns ErrNotFound when no user has exactly that email.
func (r *Users) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.store.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &user, nil
}

// FindByID returns ErrNotFound when the id is unknown.
func (r *Users) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := r.store.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

// Reset deletes every user. The id sequence keeps counting, so a token
// issued before the reset can never name a user registered after it.
func (r *Users) Reset(ctx context.Context) error {
	return r.store.write(func(tx *gorm.DB) error {
		return deleteAll(tx.WithContext(ctx), &models.User{})
	})
}
