package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"blogly/internal/model"
)

// PostRepository defines post persistence operations.
type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	FindByID(ctx context.Context, id uint) (*model.Post, error)
	FindByIDForUpdate(ctx context.Context, id uint) (*model.Post, error)
	// FindDetailed loads a post with its owner and tags.
	FindDetailed(ctx context.Context, id uint) (*model.Post, error)
	List(ctx context.Context) ([]model.Post, error)
	ListByUser(ctx context.Context, userID uint) ([]model.Post, error)
	IDsByUser(ctx context.Context, userID uint) ([]uint, error)
	CountByUser(ctx context.Context, userID uint) (int64, error)
	// UpdateContent rewrites title and content if the post is still at version.
	UpdateContent(ctx context.Context, id, version uint, title, content string) error
	// Delete removes the post row if it is still at version.
	Delete(ctx context.Context, id, version uint) error
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func tagsByName(db *gorm.DB) *gorm.DB {
	return db.Order("name")
}

func postsNewestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC, id DESC")
}

// Create creates a new post. Tags are never written through the relation.
func (r *postRepository) Create(ctx context.Context, post *model.Post) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(post).Error
}

// FindByID finds a post by ID.
func (r *postRepository) FindByID(ctx context.Context, id uint) (*model.Post, error) {
	var post model.Post
	if err := r.db.WithContext(ctx).First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// FindByIDForUpdate finds a post by ID with row-level lock for update.
func (r *postRepository) FindByIDForUpdate(ctx context.Context, id uint) (*model.Post, error) {
	var post model.Post
	if err := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) FindDetailed(ctx context.Context, id uint) (*model.Post, error) {
	var post model.Post
	if err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Tags", tagsByName).
		First(&post, id).Error; err != nil {
		return nil, err
	}
	if post.Tags == nil {
		post.Tags = []model.Tag{}
	}
	return &post, nil
}

func (r *postRepository) List(ctx context.Context) ([]model.Post, error) {
	var posts []model.Post
	if err := r.db.WithContext(ctx).Scopes(postsNewestFirst).
		Preload("Tags", tagsByName).
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) ListByUser(ctx context.Context, userID uint) ([]model.Post, error) {
	var posts []model.Post
	if err := r.db.WithContext(ctx).Scopes(postsNewestFirst).
		Preload("Tags", tagsByName).
		Where("user_id = ?", userID).
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) IDsByUser(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	if err := r.db.WithContext(ctx).Model(&model.Post{}).
		Where("user_id = ?", userID).
		Order("id").
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *postRepository) CountByUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Post{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *postRepository) UpdateContent(ctx context.Context, id, version uint, title, content string) error {
	res := r.db.WithContext(ctx).Model(&model.Post{}).
		Where("id = ? AND version = ?", id, version).
		Updates(map[string]interface{}{
			"title":   title,
			"content": content,
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

func (r *postRepository) Delete(ctx context.Context, id, version uint) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND version = ?", id, version).
		Delete(&model.Post{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStaleVersion
	}
	return nil
}
