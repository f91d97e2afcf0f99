// Package repository implements the data access layer for the wishlist store.
package repository

import (
	"context"
	"errors"
	"strings"

	"giftlist/internal/models"
	"giftlist/internal/observability"

	"gorm.io/gorm"
)

// Store groups the per-relation repositories over one database handle. Inside
// Transaction every repository shares the transaction.
type Store interface {
	Users() UserRepository
	Friends() FriendRepository
	Categories() CategoryRepository
	Gifts() GiftRepository
	Actions() ActionRepository
	Tombstones() TombstoneRepository

	// Transaction runs fn against a Store bound to a single database transaction. A
	// returned error rolls every write back.
	Transaction(ctx context.Context, fn func(tx Store) error) error
}

type gormStore struct {
	db *gorm.DB
}

// NewStore returns a Store backed by db.
func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Users() UserRepository           { return NewUserRepository(s.db) }
func (s *gormStore) Friends() FriendRepository       { return NewFriendRepository(s.db) }
func (s *gormStore) Categories() CategoryRepository  { return NewCategoryRepository(s.db) }
func (s *gormStore) Gifts() GiftRepository           { return NewGiftRepository(s.db) }
func (s *gormStore) Actions() ActionRepository       { return NewActionRepository(s.db) }
func (s *gormStore) Tombstones() TombstoneRepository { return NewTombstoneRepository(s.db) }

func (s *gormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	})
}

// mapError turns a gorm error into the store's error taxonomy. AppErrors pass through.
func mapError(ctx context.Context, log *observability.RepoLogger, op, resource string, id any, err error) error {
	if err == nil {
		return nil
	}
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError(resource, id)
	}
	log.LogError(ctx, err, op)
	return models.NewPersistenceError(op, err)
}

// persistence wraps err as a persistence failure of op.
func persistence(ctx context.Context, log *observability.RepoLogger, op string, err error) error {
	if err == nil {
		return nil
	}
	log.LogError(ctx, err, op)
	return models.NewPersistenceError(op, err)
}

// isUniqueConstraintError checks if a DB error is a unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	// PostgreSQL unique violation SQLSTATE 23505; sqlite reports "UNIQUE constraint failed".
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "23505")
}
