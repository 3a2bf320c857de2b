package repository

import (
	"context"

	"gorm.io/gorm"

	"blogly/internal/model"
)

// PostTagRepository manages rows of the post/tag junction directly.
type PostTagRepository interface {
	TagIDsForPost(ctx context.Context, postID uint) ([]uint, error)
	CountByTag(ctx context.Context, tagID uint) (int64, error)
	// Attach inserts one junction row per tag id.
	Attach(ctx context.Context, postID uint, tagIDs []uint) error
	// Detach removes the given pairs and returns how many rows went away.
	Detach(ctx context.Context, postID uint, tagIDs []uint) (int64, error)
	DeleteByPost(ctx context.Context, postID uint) (int64, error)
	DeleteByTag(ctx context.Context, tagID uint) (int64, error)
}

type postTagRepository struct {
	db *gorm.DB
}

// NewPostTagRepository creates a new junction repository.
func NewPostTagRepository(db *gorm.DB) PostTagRepository {
	return &postTagRepository{db: db}
}

func (r *postTagRepository) TagIDsForPost(ctx context.Context, postID uint) ([]uint, error) {
	var ids []uint
	if err := r.db.WithContext(ctx).Model(&model.PostTag{}).
		Where("post_id = ?", postID).
		Order("tag_id").
		Pluck("tag_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *postTagRepository) CountByTag(ctx context.Context, tagID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.PostTag{}).
		Where("tag_id = ?", tagID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *postTagRepository) Attach(ctx context.Context, postID uint, tagIDs []uint) error {
	if len(tagIDs) == 0 {
		return nil
	}
	rows := make([]model.PostTag, 0, len(tagIDs))
	for _, tagID := range tagIDs {
		rows = append(rows, model.PostTag{PostID: postID, TagID: tagID})
	}
	return r.db.WithContext(ctx).CreateInBatches(rows, 100).Error
}

func (r *postTagRepository) Detach(ctx context.Context, postID uint, tagIDs []uint) (int64, error) {
	if len(tagIDs) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Where("post_id = ? AND tag_id IN ?", postID, tagIDs).
		Delete(&model.PostTag{})
	return res.RowsAffected, res.Error
}

func (r *postTagRepository) DeleteByPost(ctx context.Context, postID uint) (int64, error) {
	res := r.db.WithContext(ctx).Where("post_id = ?", postID).Delete(&model.PostTag{})
	return res.RowsAffected, res.Error
}

func (r *postTagRepository) DeleteByTag(ctx context.Context, tagID uint) (int64, error) {
	res := r.db.WithContext(ctx).Where("tag_id = ?", tagID).Delete(&model.PostTag{})
	return res.RowsAffected, res.Error
}
