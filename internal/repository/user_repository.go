package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"blogly/internal/model"
)

// UserRepository defines user persistence operations.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	Update(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uint) (*model.User, error)
	FindByIDForUpdate(ctx context.Context, id uint) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	Delete(ctx context.Context, id uint) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(user).Error
}

// Update writes the three editable attributes. A missing row yields gorm.ErrRecordNotFound.
func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	res := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", user.ID).
		Select("first_name", "last_name", "image_url").
		Updates(map[string]interface{}{
			"first_name": user.FirstName,
			"last_name":  user.LastName,
			"image_url":  user.ImageURL,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return r.ensureExists(ctx, user.ID)
	}
	return nil
}

// ensureExists distinguishes "nothing changed" from "no such row": MySQL reports
// zero affected rows when an UPDATE writes identical values.
func (r *userRepository) ensureExists(ctx context.Context, id uint) error {
	_, err := r.FindByID(ctx, id)
	return err
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByIDForUpdate finds a user by ID with row-level lock for update.
func (r *userRepository) FindByIDForUpdate(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := r.db.WithContext(ctx).Order("last_name, first_name, id").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Delete removes a user row. Deleting a missing row yields gorm.ErrRecordNotFound.
func (r *userRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&model.User{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
