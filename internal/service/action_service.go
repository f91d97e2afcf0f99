package service

import (
	"context"

	"giftlist/internal/models"
	"giftlist/internal/observability"
	"giftlist/internal/repository"
)

// ActionService keeps the ledger of friends' interest in and purchases of gifts. A
// ledger row only exists while it says something: interested, or a buy state other
// than NONE.
type ActionService struct {
	store repository.Store
	gate  *Gate
}

// NewActionService returns a new ActionService.
func NewActionService(store repository.Store, g *Gate) *ActionService {
	return &ActionService{store: store, gate: g}
}

// SetInterested records whether actorID is interested in giftID. It returns the
// resulting record, or nil when none remains.
func (s *ActionService) SetInterested(ctx context.Context, giftID, actorID uint, interested bool) (*models.FriendActionOnGift, error) {
	return writeValue(s.gate, ctx, "SetInterested", func(ctx context.Context) (*models.FriendActionOnGift, error) {
		var out *models.FriendActionOnGift
		err := s.store.Transaction(ctx, func(tx repository.Store) error {
			if err := requireActor(ctx, tx, giftID, actorID); err != nil {
				return err
			}
			cur, err := tx.Actions().Get(ctx, giftID, actorID)
			if err != nil {
				return err
			}

			switch {
			case cur == nil && !interested:
				recordEffect("noop")
				return nil
			case cur == nil:
				out = &models.FriendActionOnGift{GiftID: giftID, UserID: actorID, Interested: true, Buy: models.BuyNone}
				return createAction(ctx, tx, out)
			case cur.Interested == interested:
				recordEffect("noop")
				out = cur
				return nil
			}

			cur.Interested = interested
			if cur.Empty() {
				return deleteAction(ctx, tx, cur)
			}
			out = cur
			return saveAction(ctx, tx, cur)
		})
		return out, err
	})
}

// SetBuyState records what actorID intends to do about giftID. It returns the
// resulting record, or nil when none remains.
func (s *ActionService) SetBuyState(ctx context.Context, giftID, actorID uint, buy models.BuyState) (*models.FriendActionOnGift, error) {
	return writeValue(s.gate, ctx, "SetBuyState", func(ctx context.Context) (*models.FriendActionOnGift, error) {
		if !buy.Valid() {
			return nil, models.NewValidationError("Buy state must be NONE, WANT_TO_BUY or BOUGHT").
				WithReason(models.ErrInvalidStatus)
		}

		var out *models.FriendActionOnGift
		err := s.store.Transaction(ctx, func(tx repository.Store) error {
			if err := requireActor(ctx, tx, giftID, actorID); err != nil {
				return err
			}
			cur, err := tx.Actions().Get(ctx, giftID, actorID)
			if err != nil {
				return err
			}

			switch {
			case cur == nil && buy == models.BuyNone:
				recordEffect("noop")
				return nil
			case cur == nil:
				out = &models.FriendActionOnGift{GiftID: giftID, UserID: actorID, Interested: false, Buy: buy}
				return createAction(ctx, tx, out)
			case cur.Buy == buy:
				recordEffect("noop")
				out = cur
				return nil
			}

			cur.Buy = buy
			if cur.Empty() {
				return deleteAction(ctx, tx, cur)
			}
			out = cur
			return saveAction(ctx, tx, cur)
		})
		return out, err
	})
}

// GetActionsOnGift returns every open action on giftID. A deleted gift has none.
func (s *ActionService) GetActionsOnGift(ctx context.Context, giftID uint) ([]models.FriendActionOnGift, error) {
	return readValue(s.gate, ctx, "GetActionsOnGift", func(ctx context.Context) ([]models.FriendActionOnGift, error) {
		return s.store.Actions().ListByGift(ctx, giftID)
	})
}

// GetActionsByActor returns every open action held by actorID.
func (s *ActionService) GetActionsByActor(ctx context.Context, actorID uint) ([]models.FriendActionOnGift, error) {
	return readValue(s.gate, ctx, "GetActionsByActor", func(ctx context.Context) ([]models.FriendActionOnGift, error) {
		return s.store.Actions().ListByActor(ctx, actorID)
	})
}

// requireActor checks that the gift and the actor exist and that the actor does not
// co-own the gift's category.
func requireActor(ctx context.Context, tx repository.Store, giftID, actorID uint) error {
	gift, err := tx.Gifts().GetByID(ctx, giftID)
	if err != nil {
		return err
	}
	if err := requireUsers(ctx, tx, actorID); err != nil {
		return err
	}
	owner, err := tx.Categories().IsOwner(ctx, actorID, gift.CategoryID)
	if err != nil {
		return err
	}
	if owner {
		return models.NewValidationError("Owners cannot act on their own gifts").
			WithReason(models.ErrSelfAction)
	}
	return nil
}

func createAction(ctx context.Context, tx repository.Store, a *models.FriendActionOnGift) error {
	if err := tx.Actions().Create(ctx, a); err != nil {
		return err
	}
	recordEffect("insert")
	return nil
}

func saveAction(ctx context.Context, tx repository.Store, a *models.FriendActionOnGift) error {
	if err := tx.Actions().Save(ctx, a); err != nil {
		return err
	}
	recordEffect("update")
	return nil
}

func deleteAction(ctx context.Context, tx repository.Store, a *models.FriendActionOnGift) error {
	if err := tx.Actions().Delete(ctx, a.ID); err != nil {
		return err
	}
	recordEffect("delete")
	return nil
}

func recordEffect(effect string) {
	observability.ActionLedgerWrites.WithLabelValues(effect).Inc()
}
