package service

import (
	"context"

	"giftlist/internal/models"
	"giftlist/internal/repository"
)

// CategoryService manages categories and their per-owner ranks.
type CategoryService struct {
	store repository.Store
	gate  *Gate
}

// NewCategoryService returns a new CategoryService.
func NewCategoryService(store repository.Store, g *Gate) *CategoryService {
	return &CategoryService{store: store, gate: g}
}

// AddCategory creates a category owned by every user in owners, appended at the end
// of each owner's list.
func (s *CategoryService) AddCategory(ctx context.Context, name string, owners ...uint) (*models.Category, error) {
	return writeValue(s.gate, ctx, "AddCategory", func(ctx context.Context) (*models.Category, error) {
		name, err := normalizeCategoryName(name)
		if err != nil {
			return nil, err
		}
		owners = uniqueIDs(owners)
		if len(owners) == 0 {
			return nil, models.NewValidationError("A category needs at least one owner")
		}

		category := &models.Category{Name: name}
		err = s.store.Transaction(ctx, func(tx repository.Store) error {
			if err := requireUsers(ctx, tx, owners...); err != nil {
				return err
			}
			if err := tx.Categories().Create(ctx, category); err != nil {
				return err
			}
			for _, owner := range owners {
				if err := appendShare(ctx, tx, owner, category.ID); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		return category, nil
	})
}

// ShareCategory makes withUser a co-owner of a category userID owns. The new owner
// must be a friend of userID and must not hold action records on the category's
// gifts; those have to be cleared first.
func (s *CategoryService) ShareCategory(ctx context.Context, userID, categoryID, withUser uint) error {
	return s.gate.write(ctx, "ShareCategory", func(ctx context.Context) error {
		if userID == withUser {
			return models.NewValidationError("Cannot share a category with yourself").
				WithReason(models.ErrSelfReference)
		}
		return s.store.Transaction(ctx, func(tx repository.Store) error {
			if err := requireUsers(ctx, tx, withUser); err != nil {
				return err
			}
			if err := requireCategoryOwner(ctx, tx, userID, categoryID); err != nil {
				return err
			}
			friends, err := tx.Friends().AreFriends(ctx, userID, withUser)
			if err != nil {
				return err
			}
			if !friends {
				return models.NewForbiddenError("Categories can only be shared with friends").
					WithReason(models.ErrNotFriends)
			}
			if err := requireNoActionsInCategory(ctx, tx, withUser, categoryID); err != nil {
				return err
			}
			return appendShare(ctx, tx, withUser, categoryID)
		})
	})
}

// requireNoActionsInCategory fails when userID has a record on any gift of the
// category, secret ones included.
func requireNoActionsInCategory(ctx context.Context, store repository.Store, userID, categoryID uint) error {
	gifts, err := store.Gifts().ListByCategories(ctx, []uint{categoryID}, true)
	if err != nil {
		return err
	}
	ids := make([]uint, 0, len(gifts))
	for _, g := range gifts {
		ids = append(ids, g.ID)
	}
	actions, err := store.Actions().ListByGifts(ctx, ids)
	if err != nil {
		return err
	}
	for _, a := range actions {
		if a.UserID == userID {
			return models.NewConflictError("User still has actions on gifts of this category").
				WithReason(models.ErrActionsOnCategory)
		}
	}
	return nil
}

// GetOwnCategories returns userID's categories in their order.
func (s *CategoryService) GetOwnCategories(ctx context.Context, userID uint) ([]models.RankedCategory, error) {
	return readValue(s.gate, ctx, "GetOwnCategories", func(ctx context.Context) ([]models.RankedCategory, error) {
		return s.store.Categories().ListOwn(ctx, userID)
	})
}

// GetSharedView returns the categories of ownerID that viewerID does not co-own, in
// ownerID's order.
func (s *CategoryService) GetSharedView(ctx context.Context, ownerID, viewerID uint) ([]models.RankedCategory, error) {
	return readValue(s.gate, ctx, "GetSharedView", func(ctx context.Context) ([]models.RankedCategory, error) {
		return s.store.Categories().ListSharedView(ctx, ownerID, viewerID)
	})
}

// RenameCategory changes the name every co-owner sees.
func (s *CategoryService) RenameCategory(ctx context.Context, userID, categoryID uint, name string) error {
	return s.gate.write(ctx, "RenameCategory", func(ctx context.Context) error {
		name, err := normalizeCategoryName(name)
		if err != nil {
			return err
		}
		if err := requireCategoryOwner(ctx, s.store, userID, categoryID); err != nil {
			return err
		}
		return s.store.Categories().Rename(ctx, categoryID, name)
	})
}

// RemoveCategory deletes an empty category together with all of its shares.
func (s *CategoryService) RemoveCategory(ctx context.Context, userID, categoryID uint) error {
	return s.gate.write(ctx, "RemoveCategory", func(ctx context.Context) error {
		return s.store.Transaction(ctx, func(tx repository.Store) error {
			if err := requireCategoryOwner(ctx, tx, userID, categoryID); err != nil {
				return err
			}
			count, err := tx.Categories().CountGifts(ctx, categoryID)
			if err != nil {
				return err
			}
			if count > 0 {
				return models.NewConflictError("Category still holds gifts").
					WithReason(models.ErrCategoryNotEmpty)
			}
			return tx.Categories().Delete(ctx, categoryID)
		})
	})
}

// RankUp moves the category one place towards the top of userID's list.
func (s *CategoryService) RankUp(ctx context.Context, userID, categoryID uint) error {
	return s.gate.write(ctx, "RankUpCategory", func(ctx context.Context) error {
		return s.swap(ctx, userID, categoryID, true)
	})
}

// RankDown moves the category one place towards the bottom of userID's list.
func (s *CategoryService) RankDown(ctx context.Context, userID, categoryID uint) error {
	return s.gate.write(ctx, "RankDownCategory", func(ctx context.Context) error {
		return s.swap(ctx, userID, categoryID, false)
	})
}

func (s *CategoryService) swap(ctx context.Context, userID, categoryID uint, up bool) error {
	return s.store.Transaction(ctx, func(tx repository.Store) error {
		if err := requireCategoryOwner(ctx, tx, userID, categoryID); err != nil {
			return err
		}
		share, err := tx.Categories().GetShare(ctx, userID, categoryID)
		if err != nil {
			return err
		}
		other, err := tx.Categories().Adjacent(ctx, userID, share.Rank, up)
		if err != nil {
			return err
		}
		if other == nil {
			return models.NewConflictError("No adjacent category to swap with").
				WithReason(models.ErrNoAdjacentItem)
		}
		if err := tx.Categories().UpdateShareRank(ctx, userID, share.CategoryID, other.Rank); err != nil {
			return err
		}
		return tx.Categories().UpdateShareRank(ctx, userID, other.CategoryID, share.Rank)
	})
}

func appendShare(ctx context.Context, tx repository.Store, userID, categoryID uint) error {
	max, err := tx.Categories().MaxRank(ctx, userID)
	if err != nil {
		return err
	}
	return tx.Categories().AddShare(ctx, &models.Share{UserID: userID, CategoryID: categoryID, Rank: max + 1})
}

// requireCategoryOwner fails with NotFound for an unknown category and Forbidden when
// userID does not co-own it.
func requireCategoryOwner(ctx context.Context, store repository.Store, userID, categoryID uint) error {
	if _, err := store.Categories().GetByID(ctx, categoryID); err != nil {
		return err
	}
	owner, err := store.Categories().IsOwner(ctx, userID, categoryID)
	if err != nil {
		return err
	}
	if !owner {
		return models.NewForbiddenError("Category is not owned by user").
			WithReason(models.ErrCategoryNotOwned)
	}
	return nil
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
