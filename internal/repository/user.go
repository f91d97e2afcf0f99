package repository

import (
	"context"

	"giftlist/internal/cache"
	"giftlist/internal/models"
	"giftlist/internal/observability"

	"gorm.io/gorm"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	// GetRef returns the cached id and name of a user.
	GetRef(ctx context.Context, id uint) (*models.UserRef, error)
	Create(ctx context.Context, user *models.User) error
	List(ctx context.Context) ([]models.User, error)
}

type userRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db, log: observability.NewRepoLogger("users")}
}

// GetByID reads the full row, credential included, from the database.
func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, mapError(ctx, r.log, "GetUser", "User", id, err)
	}
	return &user, nil
}

// GetRef reads through the Redis cache. Users are never updated by the store.
func (r *userRepository) GetRef(ctx context.Context, id uint) (*models.UserRef, error) {
	var ref models.UserRef
	err := cache.Aside(ctx, cache.UserKey(id), &ref, cache.UserTTL, func() error {
		return mapError(ctx, r.log, "GetUserRef", "User", id,
			r.db.WithContext(ctx).Model(&models.User{}).Select("id", "name").
				Where("id = ?", id).Take(&ref).Error)
	})
	if err != nil {
		return nil, err
	}
	return &ref, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return persistence(ctx, r.log, "CreateUser", err)
	}
	cache.InvalidateUser(ctx, user.ID)
	r.log.LogWrite(ctx, "create", "id", user.ID)
	return nil
}

func (r *userRepository) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).Order("id").Find(&users).Error; err != nil {
		return nil, persistence(ctx, r.log, "ListUsers", err)
	}
	return users, nil
}
