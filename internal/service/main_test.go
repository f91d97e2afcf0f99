package service

import (
	"context"
	"errors"
	"testing"

	"giftlist/internal/models"
	"giftlist/internal/notifications"
	"giftlist/internal/repository"
	"giftlist/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db    *gorm.DB
	store repository.Store
	svc   *Services
	ctx   context.Context
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewTestDB(t)
	store := repository.NewStore(db)
	return &fixture{
		db:    db,
		store: store,
		svc:   NewServices(store, notifications.NewNotifier(nil)),
		ctx:   context.Background(),
	}
}

func (f *fixture) users(t *testing.T, names ...string) []uint {
	t.Helper()
	ids := make([]uint, 0, len(names))
	for _, u := range testutil.CreateUsers(t, f.db, names...) {
		ids = append(ids, u.ID)
	}
	return ids
}

func (f *fixture) befriend(t *testing.T, a, b uint) {
	t.Helper()
	testutil.Befriend(t, f.db, a, b)
}

func (f *fixture) category(t *testing.T, name string, owners ...uint) uint {
	t.Helper()
	c, err := f.svc.Categories.AddCategory(f.ctx, name, owners...)
	require.NoError(t, err)
	return c.ID
}

func (f *fixture) gift(t *testing.T, userID, categoryID uint, name string, secret bool) *models.Gift {
	t.Helper()
	g, err := f.svc.Gifts.AddGift(f.ctx, userID, categoryID, models.GiftFields{Name: name}, secret)
	require.NoError(t, err)
	return g
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	var appErr *models.AppError
	if assert.True(t, errors.As(err, &appErr), "expected AppError, got %v", err) {
		assert.Equal(t, code, appErr.Code)
	}
}

func strPtr(s string) *string { return &s }
