package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"blogly/internal/db"
	apperrors "blogly/internal/errors"
	"blogly/internal/repository"
)

// Coordinator runs multi-step mutations as single units of work. The store
// handle passed to the callback is bound to the transaction and must not be
// used after the callback returns.
//
// Any error from the callback rolls the whole unit back. Nothing is retried
// here: conflicts go back to the caller, who decides whether to try again.
type Coordinator struct {
	store  repository.Store
	logger *slog.Logger
}

// NewCoordinator creates a coordinator over store. A nil logger uses slog.Default().
func NewCoordinator(store repository.Store, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{store: store, logger: logger}
}

// Run executes fn as one unit of work and returns its classified error.
func (c *Coordinator) Run(ctx context.Context, op string, fn func(ctx context.Context, tx repository.Store) error) error {
	log := c.logger.With(
		slog.String("unit_of_work", uuid.NewString()),
		slog.String("op", op),
	)

	err := c.store.WithTransaction(ctx, fn)
	if err == nil {
		log.Debug("unit of work committed")
		return nil
	}

	err = classify(err)
	switch {
	case errors.Is(err, apperrors.ErrConflict):
		log.Warn("unit of work rolled back on conflict", slog.Any("error", err))
	case isExpected(err):
		log.Debug("unit of work rolled back", slog.Any("error", err))
	default:
		log.Error("unit of work aborted", slog.Any("error", err))
	}
	return err
}

// classify maps store-level concurrency signals onto ErrConflict. Domain errors
// pass through untouched; everything else is an infrastructure failure.
func classify(err error) error {
	switch {
	case isExpected(err):
		return err
	case errors.Is(err, repository.ErrStaleVersion),
		errors.Is(err, gorm.ErrForeignKeyViolated),
		db.IsLockConflict(err):
		return fmt.Errorf("%w: %w", apperrors.ErrConflict, err)
	default:
		return err
	}
}

func isExpected(err error) bool {
	return errors.Is(err, apperrors.ErrNotFound) ||
		errors.Is(err, apperrors.ErrValidation) ||
		errors.Is(err, apperrors.ErrConflict) ||
		errors.Is(err, apperrors.ErrNothingToEdit)
}

// notFound replaces gorm.ErrRecordNotFound with the entity's sentinel.
func notFound(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}
