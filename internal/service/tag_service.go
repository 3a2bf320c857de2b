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

// TagService exposes tag operations.
type TagService interface {
	CreateTag(ctx context.Context, in TagInput) (*model.Tag, error)
	// UpdateTag renames a tag. A tag attached to no post is left alone and
	// returned together with ErrTagHasNoPosts.
	UpdateTag(ctx context.Context, id uint, in TagInput) (*model.Tag, error)
	DeleteTag(ctx context.Context, id uint) error
	GetTag(ctx context.Context, id uint) (*model.Tag, error)
	ListTags(ctx context.Context) ([]model.Tag, error)
}

type tagService struct {
	store repository.Store
	coord *Coordinator
	assoc *AssociationManager
}

// NewTagService creates a new tag service.
func NewTagService(store repository.Store, coord *Coordinator, assoc *AssociationManager) TagService {
	return &tagService{
		store: store,
		coord: coord,
		assoc: assoc,
	}
}

func (s *tagService) CreateTag(ctx context.Context, in TagInput) (*model.Tag, error) {
	in.normalize()
	if err := Validate(&in); err != nil {
		return nil, err
	}

	tag := &model.Tag{Name: in.Name}
	err := s.coord.Run(ctx, "create tag", func(ctx context.Context, tx repository.Store) error {
		if err := tx.Tags().Create(ctx, tag); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperrors.ErrDuplicateTagName
			}
			return fmt.Errorf("create tag: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("tag created", slog.Uint64("tag_id", uint64(tag.ID)), slog.String("name", tag.Name))
	return tag, nil
}

func (s *tagService) UpdateTag(ctx context.Context, id uint, in TagInput) (*model.Tag, error) {
	in.normalize()
	if err := Validate(&in); err != nil {
		return nil, err
	}

	var result *model.Tag
	err := s.coord.Run(ctx, "update tag", func(ctx context.Context, tx repository.Store) error {
		tag, err := tx.Tags().FindByIDForUpdate(ctx, id)
		if err != nil {
			return notFound(err, apperrors.ErrTagNotFound)
		}

		attached, err := tx.PostTags().CountByTag(ctx, tag.ID)
		if err != nil {
			return fmt.Errorf("count posts of tag %d: %w", tag.ID, err)
		}
		if attached == 0 {
			result = tag
			return apperrors.ErrTagHasNoPosts
		}

		if err := tx.Tags().Rename(ctx, tag.ID, tag.Version, in.Name); err != nil {
			switch {
			case errors.Is(err, gorm.ErrDuplicatedKey):
				return apperrors.ErrDuplicateTagName
			case errors.Is(err, repository.ErrStaleVersion):
				return apperrors.ErrTagConflict
			default:
				return fmt.Errorf("rename tag %d: %w", tag.ID, err)
			}
		}

		renamed, err := tx.Tags().FindByID(ctx, tag.ID)
		if err != nil {
			return fmt.Errorf("reload tag: %w", err)
		}
		result = renamed
		return nil
	})
	if errors.Is(err, apperrors.ErrNothingToEdit) {
		return result, err
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteTag detaches the tag from every post and deletes it as one unit of work.
func (s *tagService) DeleteTag(ctx context.Context, id uint) error {
	var detached int64
	err := s.coord.Run(ctx, "delete tag", func(ctx context.Context, tx repository.Store) error {
		n, err := s.assoc.DeleteTagCascading(ctx, tx, id)
		detached = n
		return err
	})
	if err != nil {
		return err
	}

	slog.Info("tag deleted",
		slog.Uint64("tag_id", uint64(id)),
		slog.Int64("posts_detached", detached),
	)
	return nil
}

// GetTag returns the tag with the posts it is attached to.
func (s *tagService) GetTag(ctx context.Context, id uint) (*model.Tag, error) {
	tag, err := s.store.Tags().FindDetailed(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTagNotFound
		}
		return nil, fmt.Errorf("get tag: %w", err)
	}
	return tag, nil
}

func (s *tagService) ListTags(ctx context.Context) ([]model.Tag, error) {
	tags, err := s.store.Tags().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return tags, nil
}
