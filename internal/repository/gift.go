package repository

import (
	"context"
	"errors"

	"giftlist/internal/models"
	"giftlist/internal/observability"

	"gorm.io/gorm"
)

// GiftRepository persists gifts. Ranks are scoped to the gift's category.
type GiftRepository interface {
	Create(ctx context.Context, gift *models.Gift) error
	GetByID(ctx context.Context, id uint) (*models.Gift, error)
	Update(ctx context.Context, gift *models.Gift) error
	Delete(ctx context.Context, id uint) error

	// MaxRank is the highest gift rank in the category, 0 when it is empty.
	MaxRank(ctx context.Context, categoryID uint) (int, error)
	// Adjacent returns the non-secret gift of the category with the nearest smaller
	// (up) or larger rank, or nil.
	Adjacent(ctx context.Context, categoryID uint, rank int, up bool) (*models.Gift, error)
	UpdateRank(ctx context.Context, id uint, rank int) error

	// ListByOwner returns the gifts of every category ownerID co-owns, ordered by the
	// owner's category rank, then gift rank.
	ListByOwner(ctx context.Context, ownerID uint, includeSecret bool) ([]models.Gift, error)
	// ListByCategories returns the gifts of the given categories ordered by rank.
	ListByCategories(ctx context.Context, categoryIDs []uint, includeSecret bool) ([]models.Gift, error)
}

type giftRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewGiftRepository returns a GiftRepository backed by db.
func NewGiftRepository(db *gorm.DB) GiftRepository {
	return &giftRepository{db: db, log: observability.NewRepoLogger("gifts")}
}

func (r *giftRepository) Create(ctx context.Context, gift *models.Gift) error {
	if err := r.db.WithContext(ctx).Create(gift).Error; err != nil {
		return persistence(ctx, r.log, "CreateGift", err)
	}
	r.log.LogWrite(ctx, "create", "id", gift.ID, "category", gift.CategoryID, "rank", gift.Rank)
	return nil
}

func (r *giftRepository) GetByID(ctx context.Context, id uint) (*models.Gift, error) {
	var gift models.Gift
	if err := r.db.WithContext(ctx).First(&gift, id).Error; err != nil {
		return nil, mapError(ctx, r.log, "GetGift", "Gift", id, err)
	}
	return &gift, nil
}

// Update saves every column so cleared optional fields are persisted as NULL.
func (r *giftRepository) Update(ctx context.Context, gift *models.Gift) error {
	if err := r.db.WithContext(ctx).Save(gift).Error; err != nil {
		return persistence(ctx, r.log, "UpdateGift", err)
	}
	r.log.LogWrite(ctx, "update", "id", gift.ID)
	return nil
}

func (r *giftRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Gift{}, id)
	if res.Error != nil {
		return persistence(ctx, r.log, "DeleteGift", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Gift", id)
	}
	r.log.LogWrite(ctx, "delete", "id", id)
	return nil
}

func (r *giftRepository) MaxRank(ctx context.Context, categoryID uint) (int, error) {
	var max int
	if err := r.db.WithContext(ctx).
		Model(&models.Gift{}).
		Where("category_id = ?", categoryID).
		Select("COALESCE(MAX(rank), 0)").
		Scan(&max).Error; err != nil {
		return 0, persistence(ctx, r.log, "MaxGiftRank", err)
	}
	return max, nil
}

func (r *giftRepository) Adjacent(ctx context.Context, categoryID uint, rank int, up bool) (*models.Gift, error) {
	q := r.db.WithContext(ctx).Where("category_id = ? AND secret = ?", categoryID, false)
	if up {
		q = q.Where("rank < ?", rank).Order("rank DESC")
	} else {
		q = q.Where("rank > ?", rank).Order("rank ASC")
	}

	var gift models.Gift
	if err := q.First(&gift).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, persistence(ctx, r.log, "AdjacentGift", err)
	}
	return &gift, nil
}

func (r *giftRepository) UpdateRank(ctx context.Context, id uint, rank int) error {
	res := r.db.WithContext(ctx).Model(&models.Gift{}).Where("id = ?", id).Update("rank", rank)
	if res.Error != nil {
		return persistence(ctx, r.log, "UpdateGiftRank", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Gift", id)
	}
	return nil
}

func (r *giftRepository) ListByOwner(ctx context.Context, ownerID uint, includeSecret bool) ([]models.Gift, error) {
	q := r.db.WithContext(ctx).
		Joins("JOIN shares ON shares.category_id = gifts.category_id").
		Where("shares.user_id = ?", ownerID)
	if !includeSecret {
		q = q.Where("gifts.secret = ?", false)
	}

	var gifts []models.Gift
	if err := q.Order("shares.rank, gifts.category_id, gifts.rank, gifts.id").Find(&gifts).Error; err != nil {
		return nil, persistence(ctx, r.log, "ListGiftsByOwner", err)
	}
	return gifts, nil
}

func (r *giftRepository) ListByCategories(ctx context.Context, categoryIDs []uint, includeSecret bool) ([]models.Gift, error) {
	if len(categoryIDs) == 0 {
		return nil, nil
	}
	q := r.db.WithContext(ctx).Where("category_id IN ?", categoryIDs)
	if !includeSecret {
		q = q.Where("secret = ?", false)
	}

	var gifts []models.Gift
	if err := q.Order("category_id, rank, id").Find(&gifts).Error; err != nil {
		return nil, persistence(ctx, r.log, "ListGiftsByCategories", err)
	}
	return gifts, nil
}
