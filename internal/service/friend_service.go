package service

import (
	"context"

	"giftlist/internal/models"
	"giftlist/internal/notifications"
	"giftlist/internal/repository"
)

// FriendService provides the friend-request lifecycle. An ACCEPTED request in either
// direction is what makes two users friends.
type FriendService struct {
	store    repository.Store
	gate     *Gate
	notifier *notifications.Notifier
}

// NewFriendService returns a new FriendService. Services that must not interleave
// have to share g.
func NewFriendService(store repository.Store, g *Gate, notifier *notifications.Notifier) *FriendService {
	return &FriendService{store: store, gate: g, notifier: notifier}
}

// CreateRequest sends a friend request from one user to another. A request already
// linking the pair fails with a *models.RequestExistsError, except a REJECTED request
// the sender received earlier: that block is lifted and replaced by the new request.
func (s *FriendService) CreateRequest(ctx context.Context, from, to uint) (*models.FriendRequest, error) {
	req, err := writeValue(s.gate, ctx, "CreateFriendRequest", func(ctx context.Context) (*models.FriendRequest, error) {
		if from == to {
			return nil, models.NewValidationError("Cannot send a friend request to yourself").
				WithReason(models.ErrSelfReference)
		}

		var created *models.FriendRequest
		err := s.store.Transaction(ctx, func(tx repository.Store) error {
			if err := requireUsers(ctx, tx, from, to); err != nil {
				return err
			}

			existing, err := tx.Friends().GetEitherDirection(ctx, from, to)
			if err != nil {
				return err
			}
			if existing != nil {
				if existing.UserOneID != to || existing.Status != models.FriendRequestRejected {
					return models.NewRequestExistsError(*existing)
				}
				if err := tx.Friends().Delete(ctx, existing.ID); err != nil {
					return err
				}
			}

			req := &models.FriendRequest{UserOneID: from, UserTwoID: to, Status: models.FriendRequestPending}
			if err := tx.Friends().Create(ctx, req); err != nil {
				return err
			}
			created = req
			return nil
		})
		return created, err
	})
	if err != nil {
		return nil, err
	}
	s.notifier.FriendRequestCreated(ctx, *req)
	return req, nil
}

// Accept turns a pending request addressed to userID into a friendship.
func (s *FriendService) Accept(ctx context.Context, userID, requestID uint) (*models.FriendRequest, error) {
	req, err := writeValue(s.gate, ctx, "AcceptFriendRequest", func(ctx context.Context) (*models.FriendRequest, error) {
		req, err := s.store.Friends().GetByID(ctx, requestID)
		if err != nil {
			return nil, err
		}
		if req.UserTwoID != userID {
			return nil, models.NewForbiddenError("You can only accept friend requests sent to you")
		}
		if req.Status != models.FriendRequestPending {
			return nil, models.NewConflictError("Friend request is not pending")
		}
		if err := s.store.Friends().UpdateStatus(ctx, req.ID, models.FriendRequestAccepted); err != nil {
			return nil, err
		}
		req.Status = models.FriendRequestAccepted
		return req, nil
	})
	if err != nil {
		return nil, err
	}
	s.notifier.FriendRequestAccepted(ctx, *req)
	return req, nil
}

// Decline answers or withdraws a request. With block set, only the addressee may act
// and the request is kept as REJECTED, which stops the sender from asking again.
// Without it the request is deleted: either side may cancel a pending request or end a
// friendship, but only the blocker may lift a block.
func (s *FriendService) Decline(ctx context.Context, userID, requestID uint, block bool) error {
	return s.gate.write(ctx, "DeclineFriendRequest", func(ctx context.Context) error {
		req, err := s.store.Friends().GetByID(ctx, requestID)
		if err != nil {
			return err
		}
		if !req.Involves(userID) {
			return models.NewForbiddenError("Friend request does not involve you")
		}

		if block {
			if req.UserTwoID != userID {
				return models.NewForbiddenError("Only the recipient can block a friend request")
			}
			if req.Status == models.FriendRequestRejected {
				return nil
			}
			return s.store.Friends().UpdateStatus(ctx, req.ID, models.FriendRequestRejected)
		}

		if req.Status == models.FriendRequestRejected && req.UserTwoID != userID {
			return models.NewForbiddenError("Only the blocking user can remove a block")
		}
		return s.store.Friends().Delete(ctx, req.ID)
	})
}

// ListInitiated returns the pending requests userID sent.
func (s *FriendService) ListInitiated(ctx context.Context, userID uint) ([]models.FriendRequest, error) {
	return readValue(s.gate, ctx, "ListInitiatedRequests", func(ctx context.Context) ([]models.FriendRequest, error) {
		return s.store.Friends().ListInitiated(ctx, userID)
	})
}

// ListReceived returns the pending requests addressed to userID.
func (s *FriendService) ListReceived(ctx context.Context, userID uint) ([]models.FriendRequest, error) {
	return readValue(s.gate, ctx, "ListReceivedRequests", func(ctx context.Context) ([]models.FriendRequest, error) {
		return s.store.Friends().ListReceived(ctx, userID)
	})
}

// ListBlocked returns the requests userID rejected.
func (s *FriendService) ListBlocked(ctx context.Context, userID uint) ([]models.FriendRequest, error) {
	return readValue(s.gate, ctx, "ListBlockedRequests", func(ctx context.Context) ([]models.FriendRequest, error) {
		return s.store.Friends().ListBlocked(ctx, userID)
	})
}

// ListFriends returns the users with an accepted request to or from userID.
func (s *FriendService) ListFriends(ctx context.Context, userID uint) ([]models.User, error) {
	return readValue(s.gate, ctx, "ListFriends", func(ctx context.Context) ([]models.User, error) {
		return s.store.Friends().ListFriends(ctx, userID)
	})
}

// GetRequest returns the request sent by from to to, or nil.
func (s *FriendService) GetRequest(ctx context.Context, from, to uint) (*models.FriendRequest, error) {
	return readValue(s.gate, ctx, "GetFriendRequest", func(ctx context.Context) (*models.FriendRequest, error) {
		return s.store.Friends().GetDirectional(ctx, from, to)
	})
}

// GetEitherDirection returns the request linking a and b whoever sent it, or nil.
func (s *FriendService) GetEitherDirection(ctx context.Context, a, b uint) (*models.FriendRequest, error) {
	return readValue(s.gate, ctx, "GetFriendRequestEitherDirection", func(ctx context.Context) (*models.FriendRequest, error) {
		return s.store.Friends().GetEitherDirection(ctx, a, b)
	})
}

// AreFriends reports whether a and b are friends.
func (s *FriendService) AreFriends(ctx context.Context, a, b uint) (bool, error) {
	return readValue(s.gate, ctx, "AreFriends", func(ctx context.Context) (bool, error) {
		return s.store.Friends().AreFriends(ctx, a, b)
	})
}

// requireUsers fails with NotFound for the first id with no user row.
func requireUsers(ctx context.Context, store repository.Store, ids ...uint) error {
	for _, id := range ids {
		if _, err := store.Users().GetRef(ctx, id); err != nil {
			return err
		}
	}
	return nil
}
