package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	apperrors "blogly/internal/errors"
	"blogly/internal/model"
	"blogly/internal/repository"
)

// MockStore is a mock implementation of repository.Store.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Users() repository.UserRepository { return nil }
func (m *MockStore) Posts() repository.PostRepository { return nil }
func (m *MockStore) Tags() repository.TagRepository { return nil }
func (m *MockStore) PostTags() repository.PostTagRepository { return nil }

func (m *MockStore) WithTransaction(ctx context.Context, fn func(ctx context.Context, store repository.Store) error) error {
	args := m.Called(ctx, fn)
	return args.Error(0)
}

func TestCoordinator_ClassifiesFailures(t *testing.T) {
	deadlock := &mysql.MySQLError{Number: 1213, Message: "Deadlock found when trying to get lock"}
	dialErr := errors.New("dial tcp 127.0.0.1:3306: connection refused")

	tests := []struct {
		name         string
		txErr        error
		wantIs       []error
		wantConflict bool
	}{
		{name: "commit", txErr: nil},
		{name: "deadlock", txErr: deadlock, wantIs: []error{deadlock}, wantConflict: true},
		{name: "stale version", txErr: fmt.Errorf("rename: %w", repository.ErrStaleVersion), wantIs: []error{repository.ErrStaleVersion}, wantConflict: true},
		{name: "foreign key", txErr: gorm.ErrForeignKeyViolated, wantConflict: true},
		{name: "not found passes through", txErr: apperrors.ErrTagNotFound, wantIs: []error{apperrors.ErrTagNotFound}},
		{name: "validation passes through", txErr: apperrors.ErrDuplicateTagName, wantIs: []error{apperrors.ErrValidation}},
		{name: "infrastructure surfaced as is", txErr: dialErr, wantIs: []error{dialErr}},
		{name: "deadline surfaced as is", txErr: context.DeadlineExceeded, wantIs: []error{context.DeadlineExceeded}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := new(MockStore)
			store.On("WithTransaction", mock.Anything, mock.Anything).Return(tt.txErr).Once()
			coord := NewCoordinator(store, nil)

			err := coord.Run(context.Background(), tt.name, func(context.Context, repository.Store) error { return nil })

			store.AssertExpectations(t)
			if tt.txErr == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			for _, want := range tt.wantIs {
				assert.ErrorIs(t, err, want)
			}
			assert.Equal(t, tt.wantConflict, errors.Is(err, apperrors.ErrConflict))
		})
	}
}

func TestCoordinator_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	boom := errors.New("boom")

	err := f.coord.Run(ctx, "test", func(ctx context.Context, tx repository.Store) error {
		if err := tx.Tags().Create(ctx, &model.Tag{Name: "math"}); err != nil {
			return err
		}
		if err := tx.Users().Create(ctx, &model.User{FirstName: "Ada", LastName: "Lovelace"}); err != nil {
			return err
		}
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Zero(t, f.countRows(t, &model.Tag{}))
	assert.Zero(t, f.countRows(t, &model.User{}))
}

func TestCoordinator_CancelledContextWritesNothing(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.tags.CreateTag(ctx, TagInput{Name: "math"})

	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, apperrors.ErrConflict)
	assert.Zero(t, f.countRows(t, &model.Tag{}))
}
