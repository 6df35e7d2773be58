package repository

import (
	"context"

	"github.com/Onimix/SVIRTUAL/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserRepository 用户与订阅仓储接口
type UserRepository interface {
	// GetUser 按ID查询用户
	GetUser(ctx context.Context, id string) (*model.User, error)
	// GetUserByEmail 按邮箱查询用户（登录用）
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	// UpsertUser 按ID upsert 用户
	UpsertUser(ctx context.Context, u *model.User) error
	// GetActiveSubscription 查询用户当前生效的订阅
	GetActiveSubscription(ctx context.Context, userID string) (*model.UserSubscription, error)
	// CreateSubscription 新建订阅记录
	CreateSubscription(ctx context.Context, s *model.UserSubscription) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建 UserRepository 实例
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetUser(ctx context.Context, id string) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) UpsertUser(ctx context.Context, u *model.User) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"email", "first_name", "last_name", "profile_image_url",
			"subscription_tier", "telegram_user_id", "updated_at",
		}),
	}).Create(u).Error
}

func (r *userRepository) GetActiveSubscription(ctx context.Context, userID string) (*model.UserSubscription, error) {
	var s model.UserSubscription
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ?", userID, true).
		First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *userRepository) CreateSubscription(ctx context.Context, s *model.UserSubscription) error {
	return r.db.WithContext(ctx).Create(s).Error
}
