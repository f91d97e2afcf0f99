package repository

import (
	"context"
	"errors"

	"giftlist/internal/models"
	"giftlist/internal/observability"

	"gorm.io/gorm"
)

// CategoryRepository persists categories and the shares that give users ownership of them.
type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, id uint) (*models.Category, error)
	Rename(ctx context.Context, id uint, name string) error
	// Delete removes every share of the category, then the category itself.
	Delete(ctx context.Context, id uint) error
	CountGifts(ctx context.Context, id uint) (int64, error)

	AddShare(ctx context.Context, share *models.Share) error
	GetShare(ctx context.Context, userID, categoryID uint) (*models.Share, error)
	IsOwner(ctx context.Context, userID, categoryID uint) (bool, error)
	// ListOwners returns the ids of the category's co-owners in ascending order.
	ListOwners(ctx context.Context, categoryID uint) ([]uint, error)
	// MaxRank is the highest share rank userID holds, 0 when they own nothing.
	MaxRank(ctx context.Context, userID uint) (int, error)
	// Adjacent returns userID's share with the nearest smaller (up) or larger rank, or nil.
	Adjacent(ctx context.Context, userID uint, rank int, up bool) (*models.Share, error)
	UpdateShareRank(ctx context.Context, userID, categoryID uint, rank int) error

	// ListOwn returns userID's categories ordered by their rank.
	ListOwn(ctx context.Context, userID uint) ([]models.RankedCategory, error)
	// ListSharedView returns owner's categories that viewer does not co-own, in owner's order.
	ListSharedView(ctx context.Context, ownerID, viewerID uint) ([]models.RankedCategory, error)
}

type categoryRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewCategoryRepository returns a CategoryRepository backed by db.
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db, log: observability.NewRepoLogger("categories")}
}

func (r *categoryRepository) Create(ctx context.Context, category *models.Category) error {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return persistence(ctx, r.log, "CreateCategory", err)
	}
	r.log.LogWrite(ctx, "create", "id", category.ID)
	return nil
}

func (r *categoryRepository) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, id).Error; err != nil {
		return nil, mapError(ctx, r.log, "GetCategory", "Category", id, err)
	}
	return &category, nil
}

func (r *categoryRepository) Rename(ctx context.Context, id uint, name string) error {
	res := r.db.WithContext(ctx).Model(&models.Category{}).Where("id = ?", id).Update("name", name)
	if res.Error != nil {
		return persistence(ctx, r.log, "RenameCategory", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Category", id)
	}
	return nil
}

func (r *categoryRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Where("category_id = ?", id).Delete(&models.Share{}).Error; err != nil {
		return persistence(ctx, r.log, "DeleteShares", err)
	}
	res := r.db.WithContext(ctx).Delete(&models.Category{}, id)
	if res.Error != nil {
		return persistence(ctx, r.log, "DeleteCategory", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Category", id)
	}
	r.log.LogWrite(ctx, "delete", "id", id)
	return nil
}

func (r *categoryRepository) CountGifts(ctx context.Context, id uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Gift{}).Where("category_id = ?", id).Count(&count).Error; err != nil {
		return 0, persistence(ctx, r.log, "CountCategoryGifts", err)
	}
	return count, nil
}

func (r *categoryRepository) AddShare(ctx context.Context, share *models.Share) error {
	if err := r.db.WithContext(ctx).Create(share).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("User already owns this category")
		}
		return persistence(ctx, r.log, "CreateShare", err)
	}
	r.log.LogWrite(ctx, "share", "user", share.UserID, "category", share.CategoryID, "rank", share.Rank)
	return nil
}

func (r *categoryRepository) GetShare(ctx context.Context, userID, categoryID uint) (*models.Share, error) {
	var share models.Share
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND category_id = ?", userID, categoryID).
		First(&share).Error
	if err != nil {
		return nil, mapError(ctx, r.log, "GetShare", "Share", categoryID, err)
	}
	return &share, nil
}

func (r *categoryRepository) IsOwner(ctx context.Context, userID, categoryID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Share{}).
		Where("user_id = ? AND category_id = ?", userID, categoryID).
		Count(&count).Error; err != nil {
		return false, persistence(ctx, r.log, "IsCategoryOwner", err)
	}
	return count > 0, nil
}

func (r *categoryRepository) ListOwners(ctx context.Context, categoryID uint) ([]uint, error) {
	var ids []uint
	if err := r.db.WithContext(ctx).
		Model(&models.Share{}).
		Where("category_id = ?", categoryID).
		Order("user_id").
		Pluck("user_id", &ids).Error; err != nil {
		return nil, persistence(ctx, r.log, "ListCategoryOwners", err)
	}
	return ids, nil
}

func (r *categoryRepository) MaxRank(ctx context.Context, userID uint) (int, error) {
	var max int
	if err := r.db.WithContext(ctx).
		Model(&models.Share{}).
		Where("user_id = ?", userID).
		Select("COALESCE(MAX(rank), 0)").
		Scan(&max).Error; err != nil {
		return 0, persistence(ctx, r.log, "MaxShareRank", err)
	}
	return max, nil
}

func (r *categoryRepository) Adjacent(ctx context.Context, userID uint, rank int, up bool) (*models.Share, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if up {
		q = q.Where("rank < ?", rank).Order("rank DESC")
	} else {
		q = q.Where("rank > ?", rank).Order("rank ASC")
	}

	var share models.Share
	if err := q.First(&share).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, persistence(ctx, r.log, "AdjacentShare", err)
	}
	return &share, nil
}

func (r *categoryRepository) UpdateShareRank(ctx context.Context, userID, categoryID uint, rank int) error {
	res := r.db.WithContext(ctx).
		Model(&models.Share{}).
		Where("user_id = ? AND category_id = ?", userID, categoryID).
		Update("rank", rank)
	if res.Error != nil {
		return persistence(ctx, r.log, "UpdateShareRank", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Share", categoryID)
	}
	return nil
}

func (r *categoryRepository) ListOwn(ctx context.Context, userID uint) ([]models.RankedCategory, error) {
	var out []models.RankedCategory
	if err := r.db.WithContext(ctx).
		Table("categories").
		Select("categories.id, categories.name, shares.rank").
		Joins("JOIN shares ON shares.category_id = categories.id").
		Where("shares.user_id = ?", userID).
		Order("shares.rank, categories.id").
		Scan(&out).Error; err != nil {
		return nil, persistence(ctx, r.log, "ListOwnCategories", err)
	}
	return out, nil
}

func (r *categoryRepository) ListSharedView(ctx context.Context, ownerID, viewerID uint) ([]models.RankedCategory, error) {
	coOwned := r.db.Model(&models.Share{}).Select("category_id").Where("user_id = ?", viewerID)

	var out []models.RankedCategory
	if err := r.db.WithContext(ctx).
		Table("categories").
		Select("categories.id, categories.name, shares.rank").
		Joins("JOIN shares ON shares.category_id = categories.id").
		Where("shares.user_id = ?", ownerID).
		Where("categories.id NOT IN (?)", coOwned).
		Order("shares.rank, categories.id").
		Scan(&out).Error; err != nil {
		return nil, persistence(ctx, r.log, "ListSharedCategories", err)
	}
	return out, nil
}
