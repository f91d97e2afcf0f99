package service

import (
	"context"

	"giftlist/internal/models"
	"giftlist/internal/repository"
)

// Scope describes what a viewer may see of a target user's list.
type Scope struct {
	ViewerID uint `json:"viewer_id"`
	TargetID uint `json:"target_id"`
	// Own is the owner looking at their own list.
	Own bool `json:"own"`
	// IncludeSecret exposes gifts friends added in secret.
	IncludeSecret bool `json:"include_secret"`
	// IncludeActions attaches the action ledger to each gift.
	IncludeActions bool `json:"include_actions"`
}

// ResolveVisibility decides the scope of viewer looking at target. The owner sees
// their own list without secret gifts or actions; a friend sees secret gifts and
// actions; anyone else gets a Forbidden error carrying ErrNotFriends.
func ResolveVisibility(viewer, target uint, friends bool) (Scope, error) {
	if viewer == target {
		return Scope{ViewerID: viewer, TargetID: target, Own: true}, nil
	}
	if !friends {
		return Scope{}, models.NewForbiddenError("Users are not friends").WithReason(models.ErrNotFriends)
	}
	return Scope{ViewerID: viewer, TargetID: target, IncludeSecret: true, IncludeActions: true}, nil
}

// GiftView is a gift as rendered for a scope.
type GiftView struct {
	models.Gift
	Actions []models.FriendActionOnGift `json:"actions,omitempty"`
}

// CategoryView is a category with its visible gifts, in rank order.
type CategoryView struct {
	models.RankedCategory
	Gifts []GiftView `json:"gifts"`
}

// ListView is what a viewer gets of a target's list.
type ListView struct {
	Scope      Scope          `json:"scope"`
	Categories []CategoryView `json:"categories"`
}

// VisibilityService assembles list views under the visibility rules.
type VisibilityService struct {
	store repository.Store
	gate  *Gate
}

// NewVisibilityService returns a new VisibilityService.
func NewVisibilityService(store repository.Store, g *Gate) *VisibilityService {
	return &VisibilityService{store: store, gate: g}
}

// View returns target's list as viewer may see it. A friend does not see the
// categories they co-own with target; those belong to their own list.
func (s *VisibilityService) View(ctx context.Context, viewer, target uint) (*ListView, error) {
	return readValue(s.gate, ctx, "ViewList", func(ctx context.Context) (*ListView, error) {
		if err := requireUsers(ctx, s.store, viewer, target); err != nil {
			return nil, err
		}

		friends := false
		if viewer != target {
			var err error
			if friends, err = s.store.Friends().AreFriends(ctx, viewer, target); err != nil {
				return nil, err
			}
		}
		scope, err := ResolveVisibility(viewer, target, friends)
		if err != nil {
			return nil, err
		}

		var categories []models.RankedCategory
		if scope.Own {
			categories, err = s.store.Categories().ListOwn(ctx, target)
		} else {
			categories, err = s.store.Categories().ListSharedView(ctx, target, viewer)
		}
		if err != nil {
			return nil, err
		}

		ids := make([]uint, 0, len(categories))
		for _, c := range categories {
			ids = append(ids, c.ID)
		}
		gifts, err := s.store.Gifts().ListByCategories(ctx, ids, scope.IncludeSecret)
		if err != nil {
			return nil, err
		}

		actionsByGift := map[uint][]models.FriendActionOnGift{}
		if scope.IncludeActions {
			giftIDs := make([]uint, 0, len(gifts))
			for _, g := range gifts {
				giftIDs = append(giftIDs, g.ID)
			}
			actions, err := s.store.Actions().ListByGifts(ctx, giftIDs)
			if err != nil {
				return nil, err
			}
			for _, a := range actions {
				actionsByGift[a.GiftID] = append(actionsByGift[a.GiftID], a)
			}
		}

		giftsByCategory := map[uint][]GiftView{}
		for _, g := range gifts {
			giftsByCategory[g.CategoryID] = append(giftsByCategory[g.CategoryID],
				GiftView{Gift: g, Actions: actionsByGift[g.ID]})
		}

		view := &ListView{Scope: scope, Categories: make([]CategoryView, 0, len(categories))}
		for _, c := range categories {
			gv := giftsByCategory[c.ID]
			if gv == nil {
				gv = []GiftView{}
			}
			view.Categories = append(view.Categories, CategoryView{RankedCategory: c, Gifts: gv})
		}
		return view, nil
	})
}
