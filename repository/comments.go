package repository

import (
	"context"
	"fmt"

	"go-blog-backend/models"

	"gorm.io/gorm"
)

// Comments owns comments. A comment is live while it is not deleted and its
// post is live.
type Comments struct {
	store *Store
}

// ErrPostNotFound is returned by Create when the parent post is not live.
var ErrPostNotFound = fmt.Errorf("post: %w", ErrNotFound)

// Create attaches a comment to the live post postID.
func (r *Comments) Create(ctx context.Context, postID uint, content string) (*models.Comment, error) {
	comment := &models.Comment{PostID: postID, Content: content}
	err := r.store.write(func(tx *gorm.DB) error {
		tx = tx.WithContext(ctx)
		ok, err := postExists(tx, postID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrPostNotFound
		}
		if err := tx.Create(comment).Error; err != nil {
			return fmt.Errorf("create comment: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return comment, nil
}

// Delete soft-deletes the live comment with id, or returns ErrNotFound.
func (r *Comments) Delete(ctx context.Context, id uint) error {
	return r.store.write(func(tx *gorm.DB) error {
		tx = tx.WithContext(ctx)
		var count int64
		err := tx.Model(&models.Comment{}).
			Joins("JOIN posts ON posts.id = comments.post_id AND posts.deleted_at IS NULL").
			Where("comments.id = ?", id).
			Count(&count).Error
		if err != nil {
			return fmt.Errorf("check comment: %w", err)
		}
		if count == 0 {
			return ErrNotFound
		}
		if err := tx.Delete(&models.Comment{}, id).Error; err != nil {
			return fmt.Errorf("delete comment: %w", err)
		}
		return nil
	})
}

// Reset deletes every comment and restarts the id sequence.
func (r *Comments) Reset(ctx context.Context) error {
	return r.store.write(func(tx *gorm.DB) error {
		return wipe(tx.WithContext(ctx), &models.Comment{}, "comments")
	})
}
