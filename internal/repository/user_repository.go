package repository

import (
	"context"
	"learnul_backend/internal/model"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

// WithTx 返回绑定到事务的仓库
func (r *UserRepository) WithTx(tx *gorm.DB) *UserRepository {
	return &UserRepository{DB: tx}
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	return r.DB.WithContext(ctx).Create(user).Error
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	return firstOrNil(r.DB.WithContext(ctx).Where("id = ?", id), &model.User{})
}

// FindByIDForUpdate 查询用户并持有行锁直到事务结束
func (r *UserRepository) FindByIDForUpdate(ctx context.Context, id string) (*model.User, error) {
	return firstOrNil(forUpdate(r.DB.WithContext(ctx)).Where("id = ?", id), &model.User{})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return firstOrNil(r.DB.WithContext(ctx).Where("email = ?", email), &model.User{})
}

// UpdateFields 合并更新字段，返回匹配的行数
func (r *UserRepository) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) (int64, error) {
	res := r.DB.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Updates(fields)
	return res.RowsAffected, res.Error
}

func (r *UserRepository) List(ctx context.Context, limit int) ([]model.User, error) {
	var users []model.User
	err := r.DB.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&users).Error
	return users, err
}

func (r *UserRepository) FindByIDs(ctx context.Context, ids []string) ([]model.User, error) {
	var users []model.User
	if len(ids) == 0 {
		return users, nil
	}
	err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error
	return users, err
}
