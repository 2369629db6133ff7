package repository

import (
	"context"
	"errors"
	"fmt"

	"go-blog-backend/models"

	"gorm.io/gorm"
)

// Posts owns the post lifecycle. A post's comments are always loaded by a
// live join at read time, so deleting a post orphans its comments without
// touching them.
type Posts struct {
	store *Store
}

// PostChanges holds the fields a partial update may set. Nil means unchanged.
type PostChanges struct {
	Title   *string
	Content *string
}

func withLiveComments(db *gorm.DB) *gorm.DB {
	return db.Preload("Comments", func(db *gorm.DB) *gorm.DB {
		return db.Order("comments.id ASC")
	})
}

// Comments must serialize as [] rather than null.
func normalize(post *models.Post) {
	if post.Comments == nil {
		post.Comments = []models.Comment{}
	}
}

// Create inserts a post with no comments.
func (r *Posts) Create(ctx context.Context, title, content string) (*models.Post, error) {
	post := &models.Post{Title: title, Content: content}
	err := r.store.write(func(tx *gorm.DB) error {
		return tx.WithContext(ctx).Omit("Comments").Create(post).Error
	})
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	normalize(post)
	return post, nil
}

// List returns every live post in creation order with its live comments.
func (r *Posts) List(ctx context.Context) ([]models.Post, error) {
	posts := []models.Post{}
	if err := withLiveComments(r.store.db.WithContext(ctx)).Order("posts.id ASC").Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	for i := range posts {
		normalize(&posts[i])
	}
	return posts, nil
}

// Get returns the live post with id, or ErrNotFound.
func (r *Posts) Get(ctx context.Context, id uint) (*models.Post, error) {
	return r.get(withLiveComments(r.store.db.WithContext(ctx)), id)
}

func (r *Posts) get(db *gorm.DB, id uint) (*models.Post, error) {
	var post models.Post
	err := db.First(&post, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}
	normalize(&post)
	return &post, nil
}

// Exists reports whether id names a live post.
func (r *Posts) Exists(ctx context.Context, id uint) (bool, error) {
	return postExists(r.store.db.WithContext(ctx), id)
}

func postExists(db *gorm.DB, id uint) (bool, error) {
	var count int64
	if err := db.Model(&models.Post{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("check post: %w", err)
	}
	return count > 0, nil
}

// Update applies changes to the live post with id and returns the result.
func (r *Posts) Update(ctx context.Context, id uint, changes PostChanges) (*models.Post, error) {
	var updated *models.Post
	err := r.store.write(func(tx *gorm.DB) error {
		tx = tx.WithContext(ctx)
		post, err := r.get(tx, id)
		if err != nil {
			return err
		}

		fields := map[string]any{}
		if changes.Title != nil {
			fields["title"] = *changes.Title
		}
		if changes.Content != nil {
			fields["content"] = *changes.Content
		}
		if len(fields) > 0 {
			if err := tx.Model(post).Updates(fields).Error; err != nil {
				return fmt.Errorf("update post: %w", err)
			}
		}

		updated, err = r.get(withLiveComments(tx), id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete soft-deletes the live post with id. Its comments stay in place but are
// no longer reachable. A second delete of the same id returns ErrNotFound.
func (r *Posts) Delete(ctx context.Context, id uint) error {
	return r.store.write(func(tx *gorm.DB) error {
		res := tx.WithContext(ctx).Delete(&models.Post{}, id)
		if res.Error != nil {
			return fmt.Errorf("delete post: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// Reset deletes every post and comment and restarts both id sequences.
func (r *Posts) Reset(ctx context.Context) error {
	return r.store.write(func(tx *gorm.DB) error {
		tx = tx.WithContext(ctx)
		if err := wipe(tx, &models.Comment{}, "comments"); err != nil {
			return err
		}
		return wipe(tx, &models.Post{}, "posts")
	})
}
