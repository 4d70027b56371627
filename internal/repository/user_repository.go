package repository

import (
	"context"

	"github.com/ahmetclq/web-final-projesi/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository interface {
	Upsert(ctx context.Context, user *model.User) error
	FindByUID(ctx context.Context, uid string) (*model.User, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Upsert(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "uid"}},
			DoUpdates: clause.AssignmentColumns([]string{"full_name", "phone", "city", "district", "updated_at"}),
		}).
		Create(user).Error
}

func (r *userRepository) FindByUID(ctx context.Context, uid string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("uid = ?", uid).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
