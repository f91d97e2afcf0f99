package repository

import (
	"context"
	"errors"

	"giftlist/internal/models"
	"giftlist/internal/observability"

	"gorm.io/gorm"
)

// ActionRepository persists the friend action ledger, one row per (gift, actor).
type ActionRepository interface {
	// Get returns the actor's record on the gift, or nil.
	Get(ctx context.Context, giftID, userID uint) (*models.FriendActionOnGift, error)
	Create(ctx context.Context, action *models.FriendActionOnGift) error
	Save(ctx context.Context, action *models.FriendActionOnGift) error
	Delete(ctx context.Context, id uint) error
	DeleteByGift(ctx context.Context, giftID uint) error
	ListByGift(ctx context.Context, giftID uint) ([]models.FriendActionOnGift, error)
	ListByGifts(ctx context.Context, giftIDs []uint) ([]models.FriendActionOnGift, error)
	ListByActor(ctx context.Context, userID uint) ([]models.FriendActionOnGift, error)
}

type actionRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewActionRepository returns an ActionRepository backed by db.
func NewActionRepository(db *gorm.DB) ActionRepository {
	return &actionRepository{db: db, log: observability.NewRepoLogger("friend_actions_on_gifts")}
}

func (r *actionRepository) Get(ctx context.Context, giftID, userID uint) (*models.FriendActionOnGift, error) {
	var action models.FriendActionOnGift
	err := r.db.WithContext(ctx).Where("gift_id = ? AND user_id = ?", giftID, userID).First(&action).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, persistence(ctx, r.log, "GetAction", err)
	}
	return &action, nil
}

func (r *actionRepository) Create(ctx context.Context, action *models.FriendActionOnGift) error {
	if err := r.db.WithContext(ctx).Create(action).Error; err != nil {
		return persistence(ctx, r.log, "CreateAction", err)
	}
	r.log.LogWrite(ctx, "create", "gift", action.GiftID, "user", action.UserID)
	return nil
}

// Save writes every column, so Interested=false is stored rather than skipped.
func (r *actionRepository) Save(ctx context.Context, action *models.FriendActionOnGift) error {
	if err := r.db.WithContext(ctx).Save(action).Error; err != nil {
		return persistence(ctx, r.log, "UpdateAction", err)
	}
	r.log.LogWrite(ctx, "update", "gift", action.GiftID, "user", action.UserID)
	return nil
}

func (r *actionRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.FriendActionOnGift{}, id).Error; err != nil {
		return persistence(ctx, r.log, "DeleteAction", err)
	}
	r.log.LogWrite(ctx, "delete", "id", id)
	return nil
}

func (r *actionRepository) DeleteByGift(ctx context.Context, giftID uint) error {
	if err := r.db.WithContext(ctx).Where("gift_id = ?", giftID).Delete(&models.FriendActionOnGift{}).Error; err != nil {
		return persistence(ctx, r.log, "DeleteActionsOfGift", err)
	}
	return nil
}

func (r *actionRepository) ListByGift(ctx context.Context, giftID uint) ([]models.FriendActionOnGift, error) {
	var actions []models.FriendActionOnGift
	if err := r.db.WithContext(ctx).Where("gift_id = ?", giftID).Order("user_id").Find(&actions).Error; err != nil {
		return nil, persistence(ctx, r.log, "ListActionsOnGift", err)
	}
	return actions, nil
}

func (r *actionRepository) ListByGifts(ctx context.Context, giftIDs []uint) ([]models.FriendActionOnGift, error) {
	if len(giftIDs) == 0 {
		return nil, nil
	}
	var actions []models.FriendActionOnGift
	if err := r.db.WithContext(ctx).Where("gift_id IN ?", giftIDs).Order("gift_id, user_id").Find(&actions).Error; err != nil {
		return nil, persistence(ctx, r.log, "ListActionsOnGifts", err)
	}
	return actions, nil
}

func (r *actionRepository) ListByActor(ctx context.Context, userID uint) ([]models.FriendActionOnGift, error) {
	var actions []models.FriendActionOnGift
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("gift_id").Find(&actions).Error; err != nil {
		return nil, persistence(ctx, r.log, "ListActionsByActor", err)
	}
	return actions, nil
}
