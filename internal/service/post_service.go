package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	apperrors "blogly/internal/errors"
	"blogly/internal/model"
	"blogly/internal/repository"
)

// PostService exposes post operations. Tag sets are replaced wholesale on
// create and update.
type PostService interface {
	CreatePost(ctx context.Context, userID uint, in PostInput) (*model.Post, error)
	UpdatePost(ctx context.Context, id uint, in PostInput) (*model.Post, error)
	DeletePost(ctx context.Context, id uint) error
	GetPost(ctx context.Context, id uint) (*model.Post, error)
	ListPosts(ctx context.Context) ([]model.Post, error)
}

type postService struct {
	store repository.Store
	coord *Coordinator
	assoc *AssociationManager
}

// NewPostService creates a new post service.
func NewPostService(store repository.Store, coord *Coordinator, assoc *AssociationManager) PostService {
	return &postService{
		store: store,
		coord: coord,
		assoc: assoc,
	}
}

// CreatePost creates a post owned by userID and attaches the existing tags among in.TagIDs.
func (s *postService) CreatePost(ctx context.Context, userID uint, in PostInput) (*model.Post, error) {
	in.normalize()
	if err := Validate(&in); err != nil {
		return nil, err
	}

	var created *model.Post
	err := s.coord.Run(ctx, "create post", func(ctx context.Context, tx repository.Store) error {
		if _, err := tx.Users().FindByIDForUpdate(ctx, userID); err != nil {
			return notFound(err, apperrors.ErrUserNotFound)
		}

		post := &model.Post{
			Title:   in.Title,
			Content: in.Content,
			UserID:  userID,
		}
		if err := tx.Posts().Create(ctx, post); err != nil {
			if errors.Is(err, gorm.ErrForeignKeyViolated) {
				return apperrors.ErrUserNotFound
			}
			return fmt.Errorf("create post: %w", err)
		}

		if _, err := s.assoc.ReplaceTagSet(ctx, tx, post.ID, in.TagIDs); err != nil {
			return err
		}

		detailed, err := tx.Posts().FindDetailed(ctx, post.ID)
		if err != nil {
			return fmt.Errorf("reload post: %w", err)
		}
		created = detailed
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("post created",
		slog.Uint64("post_id", uint64(created.ID)),
		slog.Uint64("user_id", uint64(userID)),
		slog.Int("tags", len(created.Tags)),
	)
	return created, nil
}

// UpdatePost rewrites title and content and replaces the tag set in one unit of work.
func (s *postService) UpdatePost(ctx context.Context, id uint, in PostInput) (*model.Post, error) {
	in.normalize()
	if err := Validate(&in); err != nil {
		return nil, err
	}

	var updated *model.Post
	err := s.coord.Run(ctx, "update post", func(ctx context.Context, tx repository.Store) error {
		post, err := tx.Posts().FindByIDForUpdate(ctx, id)
		if err != nil {
			return notFound(err, apperrors.ErrPostNotFound)
		}

		if err := tx.Posts().UpdateContent(ctx, post.ID, post.Version, in.Title, in.Content); err != nil {
			if errors.Is(err, repository.ErrStaleVersion) {
				return apperrors.ErrPostConflict
			}
			return fmt.Errorf("update post: %w", err)
		}

		if _, err := s.assoc.ReplaceTagSet(ctx, tx, post.ID, in.TagIDs); err != nil {
			return err
		}

		detailed, err := tx.Posts().FindDetailed(ctx, post.ID)
		if err != nil {
			return fmt.Errorf("reload post: %w", err)
		}
		updated = detailed
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *postService) DeletePost(ctx context.Context, id uint) error {
	err := s.coord.Run(ctx, "delete post", func(ctx context.Context, tx repository.Store) error {
		return s.assoc.DeletePostCascading(ctx, tx, id)
	})
	if err != nil {
		return err
	}

	slog.Info("post deleted", slog.Uint64("post_id", uint64(id)))
	return nil
}

// GetPost returns the post with its owner and tags.
func (s *postService) GetPost(ctx context.Context, id uint) (*model.Post, error) {
	post, err := s.store.Posts().FindDetailed(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPostNotFound
		}
		return nil, fmt.Errorf("get post: %w", err)
	}
	return post, nil
}

// ListPosts returns all posts, newest first.
func (s *postService) ListPosts(ctx context.Context) ([]model.Post, error) {
	posts, err := s.store.Posts().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}
