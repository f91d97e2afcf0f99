package repository

import (
	"context"
	"fmt"

	"giftlist/internal/models"
	"giftlist/internal/observability"

	"gorm.io/gorm"
)

// TombstoneRepository persists snapshots of deleted gifts for the users who acted on them.
type TombstoneRepository interface {
	Create(ctx context.Context, tombstone *models.ToDeleteGift) error
	ListForActor(ctx context.Context, userID uint) ([]models.ToDeleteGift, error)
	// Delete removes the tombstone of giftID held by userID; a missing one is NotFound.
	Delete(ctx context.Context, giftID, userID uint) error
}

type tombstoneRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewTombstoneRepository returns a TombstoneRepository backed by db.
func NewTombstoneRepository(db *gorm.DB) TombstoneRepository {
	return &tombstoneRepository{db: db, log: observability.NewRepoLogger("to_delete_gifts")}
}

func (r *tombstoneRepository) Create(ctx context.Context, tombstone *models.ToDeleteGift) error {
	if err := r.db.WithContext(ctx).Create(tombstone).Error; err != nil {
		return persistence(ctx, r.log, "CreateTombstone", err)
	}
	r.log.LogWrite(ctx, "create", "gift", tombstone.GiftID, "user", tombstone.ActingUserID)
	return nil
}

func (r *tombstoneRepository) ListForActor(ctx context.Context, userID uint) ([]models.ToDeleteGift, error) {
	var out []models.ToDeleteGift
	if err := r.db.WithContext(ctx).Where("acting_user_id = ?", userID).Order("created_at, gift_id").Find(&out).Error; err != nil {
		return nil, persistence(ctx, r.log, "ListTombstones", err)
	}
	return out, nil
}

func (r *tombstoneRepository) Delete(ctx context.Context, giftID, userID uint) error {
	res := r.db.WithContext(ctx).
		Where("gift_id = ? AND acting_user_id = ?", giftID, userID).
		Delete(&models.ToDeleteGift{})
	if res.Error != nil {
		return persistence(ctx, r.log, "DeleteTombstone", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("DeletedGift", fmt.Sprintf("%d/%d", giftID, userID))
	}
	r.log.LogWrite(ctx, "delete", "gift", giftID, "user", userID)
	return nil
}
