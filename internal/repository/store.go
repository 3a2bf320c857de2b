package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// ErrStaleVersion is returned by conditional writes when the row's version no
// longer matches the one the caller read, or the row is already gone.
var ErrStaleVersion = errors.New("stale row version")

// Store hands out repositories bound to one database handle. Inside
// WithTransaction every repository obtained from the callback's Store shares the
// transaction; nothing outside it does.
type Store interface {
	Users() UserRepository
	Posts() PostRepository
	Tags() TagRepository
	PostTags() PostTagRepository
	// WithTransaction executes fn within a database transaction. The transaction
	// is committed when fn returns nil and rolled back otherwise.
	WithTransaction(ctx context.Context, fn func(ctx context.Context, store Store) error) error
}

type store struct {
	db *gorm.DB
}

// NewStore creates a Store over db.
func NewStore(db *gorm.DB) Store {
	return &store{db: db}
}

func (s *store) Users() UserRepository { return NewUserRepository(s.db) }
func (s *store) Posts() PostRepository { return NewPostRepository(s.db) }
func (s *store) Tags() TagRepository { return NewTagRepository(s.db) }
func (s *store) PostTags() PostTagRepository { return NewPostTagRepository(s.db) }

// WithTransaction executes a function within a database transaction.
func (s *store) WithTransaction(ctx context.Context, fn func(ctx context.Context, store Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, &store{db: tx})
	})
}
