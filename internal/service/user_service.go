package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"blogly/internal/cache"
	apperrors "blogly/internal/errors"
	"blogly/internal/model"
	"blogly/internal/repository"
)

const userCacheTTL = 5 * time.Minute

// UserDeletePolicy decides what happens to a user's posts when the user is deleted.
type UserDeletePolicy int

const (
	// CascadePosts deletes the user's posts, and their tag associations, with the user.
	CascadePosts UserDeletePolicy = iota
	// RestrictWithPosts refuses to delete a user who still owns posts.
	RestrictWithPosts
)

// UserService exposes user operations.
type UserService interface {
	CreateUser(ctx context.Context, in UserInput) (*model.User, error)
	UpdateUser(ctx context.Context, id uint, in UserInput) (*model.User, error)
	DeleteUser(ctx context.Context, id uint) error
	GetUser(ctx context.Context, id uint) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	ListPostsForUser(ctx context.Context, id uint) ([]model.Post, error)
}

type userService struct {
	store  repository.Store
	coord  *Coordinator
	assoc  *AssociationManager
	cache  *cache.Client
	policy UserDeletePolicy
}

// NewUserService builds a UserService. A nil cache disables caching.
func NewUserService(
	store repository.Store,
	coord *Coordinator,
	assoc *AssociationManager,
	cache *cache.Client,
	policy UserDeletePolicy,
) UserService {
	return &userService{
		store:  store,
		coord:  coord,
		assoc:  assoc,
		cache:  cache,
		policy: policy,
	}
}

func (s *userService) CreateUser(ctx context.Context, in UserInput) (*model.User, error) {
	in.normalize()
	if err := Validate(&in); err != nil {
		return nil, err
	}

	user := &model.User{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		ImageURL:  in.imageURL(),
	}
	err := s.coord.Run(ctx, "create user", func(ctx context.Context, tx repository.Store) error {
		return tx.Users().Create(ctx, user)
	})
	if err != nil {
		return nil, err
	}
	_ = s.cache.Delete(ctx, cache.UserKey(user.ID))

	slog.Info("user created", slog.Uint64("user_id", uint64(user.ID)))
	return user, nil
}

func (s *userService) UpdateUser(ctx context.Context, id uint, in UserInput) (*model.User, error) {
	in.normalize()
	if err := Validate(&in); err != nil {
		return nil, err
	}

	var updated *model.User
	err := s.coord.Run(ctx, "update user", func(ctx context.Context, tx repository.Store) error {
		user, err := tx.Users().FindByIDForUpdate(ctx, id)
		if err != nil {
			return notFound(err, apperrors.ErrUserNotFound)
		}
		user.FirstName = in.FirstName
		user.LastName = in.LastName
		user.ImageURL = in.imageURL()
		if err := tx.Users().Update(ctx, user); err != nil {
			return notFound(err, apperrors.ErrUserNotFound)
		}
		updated = user
		return nil
	})
	if err != nil {
		return nil, err
	}
	_ = s.cache.Delete(ctx, cache.UserKey(id))
	return updated, nil
}

// DeleteUser removes the user. Under CascadePosts the user's posts go in the
// same unit of work; under RestrictWithPosts a user with posts is a conflict.
func (s *userService) DeleteUser(ctx context.Context, id uint) error {
	var deletedPosts int
	err := s.coord.Run(ctx, "delete user", func(ctx context.Context, tx repository.Store) error {
		if _, err := tx.Users().FindByIDForUpdate(ctx, id); err != nil {
			return notFound(err, apperrors.ErrUserNotFound)
		}

		if s.policy == RestrictWithPosts {
			owned, err := tx.Posts().CountByUser(ctx, id)
			if err != nil {
				return fmt.Errorf("count posts of user %d: %w", id, err)
			}
			if owned > 0 {
				return apperrors.ErrUserHasPosts
			}
		}

		postIDs, err := tx.Posts().IDsByUser(ctx, id)
		if err != nil {
			return fmt.Errorf("list posts of user %d: %w", id, err)
		}
		for _, postID := range postIDs {
			if err := s.assoc.DeletePostCascading(ctx, tx, postID); err != nil {
				return err
			}
		}
		deletedPosts = len(postIDs)

		if err := tx.Users().Delete(ctx, id); err != nil {
			return notFound(err, apperrors.ErrUserNotFound)
		}
		return nil
	})
	if err != nil {
		return err
	}
	_ = s.cache.Delete(ctx, cache.UserKey(id))

	slog.Info("user deleted",
		slog.Uint64("user_id", uint64(id)),
		slog.Int("posts_deleted", deletedPosts),
	)
	return nil
}

// GetUser returns the user record without posts, served from cache when possible.
func (s *userService) GetUser(ctx context.Context, id uint) (*model.User, error) {
	var cached model.User
	if s.cache.GetJSON(ctx, cache.UserKey(id), &cached) {
		return &cached, nil
	}

	user, err := s.store.Users().FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	s.cache.SetJSON(ctx, cache.UserKey(id), user, userCacheTTL)
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context) ([]model.User, error) {
	users, err := s.store.Users().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *userService) ListPostsForUser(ctx context.Context, id uint) ([]model.Post, error) {
	if _, err := s.GetUser(ctx, id); err != nil {
		return nil, err
	}
	posts, err := s.store.Posts().ListByUser(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list posts of user %d: %w", id, err)
	}
	return posts, nil
}
