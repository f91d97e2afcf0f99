// Package service holds the wishlist store's business rules. All services built by
// NewServices share one gate, so at most one mutating operation runs at a time.
package service

import (
	"giftlist/internal/notifications"
	"giftlist/internal/repository"
)

// Services bundles the store's services around a shared gate.
type Services struct {
	Friends    *FriendService
	Categories *CategoryService
	Gifts      *GiftService
	Visibility *VisibilityService
	Actions    *ActionService
	Tombstones *TombstoneService
}

// NewServices builds every service over store. notifier may be nil.
func NewServices(store repository.Store, notifier *notifications.Notifier) *Services {
	g := NewGate()
	return &Services{
		Friends:    NewFriendService(store, g, notifier),
		Categories: NewCategoryService(store, g),
		Gifts:      NewGiftService(store, g, notifier),
		Visibility: NewVisibilityService(store, g),
		Actions:    NewActionService(store, g),
		Tombstones: NewTombstoneService(store, g),
	}
}
