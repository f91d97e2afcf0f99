package service

import (
	"context"

	"giftlist/internal/models"
	"giftlist/internal/repository"
)

// TombstoneService exposes the notices left to users whose gift actions were cut
// short by the owner deleting the gift.
type TombstoneService struct {
	store repository.Store
	gate  *Gate
}

// NewTombstoneService returns a new TombstoneService.
func NewTombstoneService(store repository.Store, g *Gate) *TombstoneService {
	return &TombstoneService{store: store, gate: g}
}

// ListForActor returns the unacknowledged tombstones of actorID.
func (s *TombstoneService) ListForActor(ctx context.Context, actorID uint) ([]models.ToDeleteGift, error) {
	return readValue(s.gate, ctx, "ListTombstones", func(ctx context.Context) ([]models.ToDeleteGift, error) {
		return s.store.Tombstones().ListForActor(ctx, actorID)
	})
}

// Acknowledge removes the tombstone of giftID held by actorID.
func (s *TombstoneService) Acknowledge(ctx context.Context, giftID, actorID uint) error {
	return s.gate.write(ctx, "AcknowledgeTombstone", func(ctx context.Context) error {
		return s.store.Tombstones().Delete(ctx, giftID, actorID)
	})
}
