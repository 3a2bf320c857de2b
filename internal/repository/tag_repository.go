package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"blogly/internal/model"
)

// TagRepository defines tag persistence operations.
type TagRepository interface {
	Create(ctx context.Context, tag *model.Tag) error
	FindByID(ctx context.Context, id uint) (*model.Tag, error)
	FindByIDForUpdate(ctx context.Context, id uint) (*model.Tag, error)
	// FindDetailed loads a tag with the posts it is attached to.
	FindDetailed(ctx context.Context, id uint) (*model.Tag, error)
	// FindByIDs returns the subset of ids that exist, ordered by id.
	FindByIDs(ctx context.Context, ids []uint) ([]model.Tag, error)
	List(ctx context.Context) ([]model.Tag, error)
	// Rename sets a new name if the tag is still at version.
	Rename(ctx context.Context, id, version uint, name string) error
	// Delete removes the tag row if it is still at version.
	Delete(ctx context.Context, id, version uint) error
}

type tagRepository struct {
	db *gorm.DB
}

// NewTagRepository creates a new tag repository.
func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

// Create creates a new tag. A taken name yields gorm.ErrDuplicatedKey.
func (r *tagRepository) Create(ctx context.Context, tag *model.Tag) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(tag).Error
}

// FindByID finds a tag by ID.
func (r *tagRepository) FindByID(ctx context.Context, id uint) (*model.Tag, error) {
	var tag model.Tag
	if err := r.db.WithContext(ctx).First(&tag, id).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

// FindByIDForUpdate finds a tag by ID with row-level lock for update.
func (r *tagRepository) FindByIDForUpdate(ctx context.Context, id uint) (*model.Tag, error) {
	var tag model.Tag
	if err := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&tag, id).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

func (r *tagRepository) FindDetailed(ctx context.Context, id uint) (*model.Tag, error) {
	var tag model.Tag
	if err := r.db.WithContext(ctx).
		Preload("Posts", postsNewestFirst).
		First(&tag, id).Error; err != nil {
		return nil, err
	}
	if tag.Posts == nil {
		tag.Posts = []model.Post{}
	}
	return &tag, nil
}

func (r *tagRepository) FindByIDs(ctx context.Context, ids []uint) ([]model.Tag, error) {
	tags := []model.Tag{}
	if len(ids) == 0 {
		return tags, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

func (r *tagRepository) List(ctx context.Context) ([]model.Tag, error) {
	var tags []model.Tag
	if err := r.db.WithContext(ctx).Order("name").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

func (r *tagRepository) Rename(ctx context.Context, id, version uint, name string) error {
	res := r.db.WithContext(ctx).Model(&model.Tag{}).
		Where("id = ? AND version = ?", id, version).
		Updates(map[string]interface{}{
			"name":    name,
			"version": gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStaleVersion
	}
	return nil
}

func (r *tagRepository) Delete(ctx context.Context, id, version uint) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND version = ?", id, version).
		Delete(&model.Tag{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStaleVersion
	}
	return nil
}
