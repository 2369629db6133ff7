// Package repository owns persistence of users, posts and comments.
//
// All three repositories share one Store and therefore one write mutex: every
// mutation is serialized, so id assignment is single-writer and a delete is
// always observed by a later read of the same id.
package repository

import (
	"errors"
	"sync"

	"go-blog-backend/database"

	"gorm.io/gorm"
)

var (
	ErrNotFound   = errors.New("record not found")
	ErrEmailTaken = errors.New("email already exists")
)

// Store groups the repositories over a single database handle.
type Store struct {
	db *gorm.DB
	mu sync.Mutex // single-writer discipline for all mutations

	Users    *Users
	Posts    *Posts
	Comments *Comments
}

// NewStore wires the repositories to db.
func NewStore(db *gorm.DB) *Store {
	s := &Store{db: db}
	s.Users = &Users{store: s}
	s.Posts = &Posts{store: s}
	s.Comments = &Comments{store: s}
	return s
}

// DB exposes the handle for maintenance jobs.
func (s *Store) DB() *gorm.DB { return s.db }

// write runs fn in a transaction while holding the write lock.
func (s *Store) write(fn func(tx *gorm.DB) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Transaction(fn)
}

// Write exposes the serialized write path to maintenance jobs outside the package.
func (s *Store) Write(fn func(tx *gorm.DB) error) error {
	return s.write(fn)
}

// deleteAll hard-deletes every row of model, soft-deleted ones included.
func deleteAll(tx *gorm.DB, model any) error {
	return tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(model).Error
}

// wipe hard-deletes every row of model and restarts its id sequence.
func wipe(tx *gorm.DB, model any, table string) error {
	if err := deleteAll(tx, model); err != nil {
		return err
	}
	return database.RestartSequence(tx, table)
}
