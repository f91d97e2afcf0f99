package service

import (
	"context"

	"giftlist/internal/models"
	"giftlist/internal/notifications"
	"giftlist/internal/observability"
	"giftlist/internal/repository"
)

// GiftService manages gifts, their per-category rank and their deletion history.
type GiftService struct {
	store    repository.Store
	gate     *Gate
	notifier *notifications.Notifier
}

// NewGiftService returns a new GiftService.
func NewGiftService(store repository.Store, g *Gate, notifier *notifications.Notifier) *GiftService {
	return &GiftService{store: store, gate: g, notifier: notifier}
}

// AddGift appends a gift to the end of a category. A plain gift can only be added by
// a co-owner of the category. A secret gift is added by someone who does not co-own
// it on behalf of a friend who does, and stays hidden from the owners.
func (s *GiftService) AddGift(ctx context.Context, userID, categoryID uint, fields models.GiftFields, secret bool) (*models.Gift, error) {
	return writeValue(s.gate, ctx, "AddGift", func(ctx context.Context) (*models.Gift, error) {
		fields, err := normalizeGiftFields(fields)
		if err != nil {
			return nil, err
		}

		var gift *models.Gift
		err = s.store.Transaction(ctx, func(tx repository.Store) error {
			if err := requireUsers(ctx, tx, userID); err != nil {
				return err
			}
			if _, err := tx.Categories().GetByID(ctx, categoryID); err != nil {
				return err
			}
			owner, err := tx.Categories().IsOwner(ctx, userID, categoryID)
			if err != nil {
				return err
			}

			if secret {
				if err := requireSecretAuthor(ctx, tx, userID, categoryID, owner); err != nil {
					return err
				}
			} else if !owner {
				return models.NewForbiddenError("Category is not owned by user").
					WithReason(models.ErrCategoryNotOwned)
			}

			max, err := tx.Gifts().MaxRank(ctx, categoryID)
			if err != nil {
				return err
			}
			g := &models.Gift{CategoryID: categoryID, Secret: secret, Rank: max + 1}
			fields.Apply(g)
			if err := tx.Gifts().Create(ctx, g); err != nil {
				return err
			}
			gift = g
			return nil
		})
		return gift, err
	})
}

func requireSecretAuthor(ctx context.Context, tx repository.Store, userID, categoryID uint, owner bool) error {
	if owner {
		return models.NewValidationError("Owners cannot add secret gifts to their own category").
			WithReason(models.ErrSelfAction)
	}
	owners, err := tx.Categories().ListOwners(ctx, categoryID)
	if err != nil {
		return err
	}
	for _, o := range owners {
		friends, err := tx.Friends().AreFriends(ctx, userID, o)
		if err != nil {
			return err
		}
		if friends {
			return nil
		}
	}
	return models.NewForbiddenError("Secret gifts can only be added for friends").
		WithReason(models.ErrNotFriends)
}

// GetGift returns a gift by id.
func (s *GiftService) GetGift(ctx context.Context, giftID uint) (*models.Gift, error) {
	return readValue(s.gate, ctx, "GetGift", func(ctx context.Context) (*models.Gift, error) {
		return s.store.Gifts().GetByID(ctx, giftID)
	})
}

// GetVisibleGifts returns the gifts in ownerID's categories, in the owner's category
// order and then gift rank. includeSecret=false is the owner's own view; true is what
// friends see.
func (s *GiftService) GetVisibleGifts(ctx context.Context, ownerID uint, includeSecret bool) ([]models.Gift, error) {
	return readValue(s.gate, ctx, "GetVisibleGifts", func(ctx context.Context) ([]models.Gift, error) {
		return s.store.Gifts().ListByOwner(ctx, ownerID, includeSecret)
	})
}

// ModifyGift replaces the descriptive fields of a gift.
func (s *GiftService) ModifyGift(ctx context.Context, userID, giftID uint, fields models.GiftFields) (*models.Gift, error) {
	return writeValue(s.gate, ctx, "ModifyGift", func(ctx context.Context) (*models.Gift, error) {
		fields, err := normalizeGiftFields(fields)
		if err != nil {
			return nil, err
		}
		gift, err := s.store.Gifts().GetByID(ctx, giftID)
		if err != nil {
			return nil, err
		}
		if _, err := requireOwnerOrSecret(ctx, s.store, userID, gift); err != nil {
			return nil, err
		}
		fields.Apply(gift)
		if err := s.store.Gifts().Update(ctx, gift); err != nil {
			return nil, err
		}
		return gift, nil
	})
}

// RemoveGift deletes a gift. Every user holding an open action on it gets a tombstone
// tagged with status, and their action is purged, all in one transaction. The
// tombstones written are returned.
func (s *GiftService) RemoveGift(ctx context.Context, userID, giftID uint, status models.OwnerStatus) ([]models.ToDeleteGift, error) {
	tombstones, err := writeValue(s.gate, ctx, "RemoveGift", func(ctx context.Context) ([]models.ToDeleteGift, error) {
		if !status.Valid() {
			return nil, models.NewValidationError("Status must be RECEIVED or NOT_WANTED").
				WithReason(models.ErrInvalidStatus)
		}

		var written []models.ToDeleteGift
		err := s.store.Transaction(ctx, func(tx repository.Store) error {
			gift, err := tx.Gifts().GetByID(ctx, giftID)
			if err != nil {
				return err
			}
			owner, err := requireOwnerOrSecret(ctx, tx, userID, gift)
			if err != nil {
				return err
			}
			ownerID, err := tombstoneOwner(ctx, tx, userID, gift.CategoryID, owner)
			if err != nil {
				return err
			}

			actions, err := tx.Actions().ListByGift(ctx, gift.ID)
			if err != nil {
				return err
			}
			for _, action := range actions {
				ts := models.NewTombstone(*gift, ownerID, status, action)
				if err := tx.Tombstones().Create(ctx, &ts); err != nil {
					return err
				}
				written = append(written, ts)
			}
			if err := tx.Actions().DeleteByGift(ctx, gift.ID); err != nil {
				return err
			}
			return tx.Gifts().Delete(ctx, gift.ID)
		})
		if err != nil {
			return nil, err
		}
		return written, nil
	})
	if err != nil {
		return nil, err
	}
	observability.TombstonesWritten.Add(float64(len(tombstones)))
	s.notifier.GiftDeleted(ctx, tombstones)
	return tombstones, nil
}

// tombstoneOwner is the deleting user when they co-own the category, otherwise the
// lowest-id co-owner.
func tombstoneOwner(ctx context.Context, tx repository.Store, userID, categoryID uint, owner bool) (uint, error) {
	if owner {
		return userID, nil
	}
	owners, err := tx.Categories().ListOwners(ctx, categoryID)
	if err != nil {
		return 0, err
	}
	if len(owners) == 0 {
		return userID, nil
	}
	return owners[0], nil
}

// RankUp moves a gift one place towards the top of its category. Secret gifts are
// neither moved nor swapped with.
func (s *GiftService) RankUp(ctx context.Context, userID, giftID uint) error {
	return s.gate.write(ctx, "RankUpGift", func(ctx context.Context) error {
		return s.swap(ctx, userID, giftID, true)
	})
}

// RankDown moves a gift one place towards the bottom of its category.
func (s *GiftService) RankDown(ctx context.Context, userID, giftID uint) error {
	return s.gate.write(ctx, "RankDownGift", func(ctx context.Context) error {
		return s.swap(ctx, userID, giftID, false)
	})
}

func (s *GiftService) swap(ctx context.Context, userID, giftID uint, up bool) error {
	return s.store.Transaction(ctx, func(tx repository.Store) error {
		gift, err := tx.Gifts().GetByID(ctx, giftID)
		if err != nil {
			return err
		}
		if err := requireCategoryOwner(ctx, tx, userID, gift.CategoryID); err != nil {
			return err
		}
		if gift.Secret {
			return models.NewValidationError("Secret gifts cannot be reordered")
		}
		other, err := tx.Gifts().Adjacent(ctx, gift.CategoryID, gift.Rank, up)
		if err != nil {
			return err
		}
		if other == nil {
			return models.NewConflictError("No adjacent gift to swap with").
				WithReason(models.ErrNoAdjacentItem)
		}
		if err := tx.Gifts().UpdateRank(ctx, gift.ID, other.Rank); err != nil {
			return err
		}
		return tx.Gifts().UpdateRank(ctx, other.ID, gift.Rank)
	})
}

// requireOwnerOrSecret lets any user through for a secret gift and only co-owners
// otherwise. It reports whether userID co-owns the gift's category.
func requireOwnerOrSecret(ctx context.Context, store repository.Store, userID uint, gift *models.Gift) (bool, error) {
	owner, err := store.Categories().IsOwner(ctx, userID, gift.CategoryID)
	if err != nil {
		return false, err
	}
	if !owner && !gift.Secret {
		return false, models.NewForbiddenError("Gift is neither owned by user nor secret").
			WithReason(models.ErrNotOwnerOrSecret)
	}
	return owner, nil
}
