package service

import (
	"strings"
	"testing"

	"giftlist/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGiftService_AddGift(t *testing.T) {
	f := newFixture(t)
	ids := f.users(t, "owner", "friend", "stranger")
	owner, friend, stranger := ids[0], ids[1], ids[2]
	f.befriend(t, owner, friend)
	cat := f.category(t, "Default", owner)

	t.Run("ranks append", func(t *testing.T) {
		g1 := f.gift(t, owner, cat, "first", false)
		g2 := f.gift(t, owner, cat, "second", false)
		assert.Equal(t, g1.Rank+1, g2.Rank)
	})

	t.Run("unknown user and category", func(t *testing.T) {
		_, err := f.svc.Gifts.AddGift(f.ctx, 999, cat, models.GiftFields{Name: "x"}, false)
		assertCode(t, err, models.CodeNotFound)
		_, err = f.svc.Gifts.AddGift(f.ctx, owner, 999, models.GiftFields{Name: "x"}, false)
		assertCode(t, err, models.CodeNotFound)
	})

	t.Run("non-owner cannot add plain gift", func(t *testing.T) {
		_, err := f.svc.Gifts.AddGift(f.ctx, friend, cat, models.GiftFields{Name: "x"}, false)
		assertCode(t, err, models.CodeForbidden)
		assert.ErrorIs(t, err, models.ErrCategoryNotOwned)
	})

	t.Run("secret gifts come from friends", func(t *testing.T) {
		g, err := f.svc.Gifts.AddGift(f.ctx, friend, cat, models.GiftFields{Name: "surprise"}, true)
		require.NoError(t, err)
		assert.True(t, g.Secret)

		_, err = f.svc.Gifts.AddGift(f.ctx, stranger, cat, models.GiftFields{Name: "x"}, true)
		assertCode(t, err, models.CodeForbidden)
		assert.ErrorIs(t, err, models.ErrNotFriends)

		_, err = f.svc.Gifts.AddGift(f.ctx, owner, cat, models.GiftFields{Name: "x"}, true)
		assertCode(t, err, models.CodeValidation)
	})

	t.Run("field validation", func(t *testing.T) {
		_, err := f.svc.Gifts.AddGift(f.ctx, owner, cat, models.GiftFields{Name: "  "}, false)
		assertCode(t, err, models.CodeValidation)

		_, err = f.svc.Gifts.AddGift(f.ctx, owner, cat, models.GiftFields{Name: "x", Price: strPtr(strings.Repeat("9", 65))}, false)
		assertCode(t, err, models.CodeValidation)

		g, err := f.svc.Gifts.AddGift(f.ctx, owner, cat, models.GiftFields{
			Name:        " Bike ",
			Description: strPtr("  "),
			Price:       strPtr(" 120 EUR "),
		}, false)
		require.NoError(t, err)
		assert.Equal(t, "Bike", g.Name)
		assert.Nil(t, g.Description)
		require.NotNil(t, g.Price)
		assert.Equal(t, "120 EUR", *g.Price)
	})
}

func TestGiftService_VisibleGiftsHideSecretFromOwner(t *testing.T) {
	f := newFixture(t)
	ids := f.users(t, "owner", "friend")
	owner, friend := ids[0], ids[1]
	f.befriend(t, owner, friend)
	cat := f.category(t, "Default", owner)

	plain := f.gift(t, owner, cat, "plain", false)
	secret := f.gift(t, friend, cat, "secret", true)

	own, err := f.svc.Gifts.GetVisibleGifts(f.ctx, owner, false)
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, plain.ID, own[0].ID)

	all, err := f.svc.Gifts.GetVisibleGifts(f.ctx, owner, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	got, err := f.svc.Gifts.GetGift(f.ctx, secret.ID)
	require.NoError(t, err)
	assert.Equal(t, "secret", got.Name)

	_, err = f.svc.Gifts.GetGift(f.ctx, 999)
	assertCode(t, err, models.CodeNotFound)
}

func TestGiftService_RankSwapSkipsSecretGifts(t *testing.T) {
	f := newFixture(t)
	ids := f.users(t, "owner", "friend")
	owner, friend := ids[0], ids[1]
	f.befriend(t, owner, friend)
	cat := f.category(t, "Default", owner)

	a := f.gift(t, owner, cat, "a", false)
	s := f.gift(t, friend, cat, "s", true)
	b := f.gift(t, owner, cat, "b", false)

	require.NoError(t, f.svc.Gifts.RankUp(f.ctx, owner, b.ID))

	ga, err := f.svc.Gifts.GetGift(f.ctx, a.ID)
	require.NoError(t, err)
	gb, err := f.svc.Gifts.GetGift(f.ctx, b.ID)
	require.NoError(t, err)
	gs, err := f.svc.Gifts.GetGift(f.ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, a.Rank, gb.Rank)
	assert.Equal(t, b.Rank, ga.Rank)
	assert.Equal(t, s.Rank, gs.Rank, "secret gift keeps its rank")

	err = f.svc.Gifts.RankUp(f.ctx, owner, b.ID)
	assertCode(t, err, models.CodeConflict)
	assert.ErrorIs(t, err, models.ErrNoAdjacentItem)

	assertCode(t, f.svc.Gifts.RankDown(f.ctx, friend, a.ID), models.CodeForbidden)
	assertCode(t, f.svc.Gifts.RankDown(f.ctx, owner, s.ID), models.CodeValidation)
	assertCode(t, f.svc.Gifts.RankDown(f.ctx, owner, 999), models.CodeNotFound)
}

func TestGiftService_ModifyGift(t *testing.T) {
	f := newFixture(t)
	ids := f.users(t, "owner", "friend", "other")
	owner, friend, other := ids[0], ids[1], ids[2]
	f.befriend(t, owner, friend)
	cat := f.category(t, "Default", owner)
	plain := f.gift(t, owner, cat, "plain", false)
	secret := f.gift(t, friend, cat, "secret", true)

	_, err := f.svc.Gifts.ModifyGift(f.ctx, friend, plain.ID, models.GiftFields{Name: "hijack"})
	assertCode(t, err, models.CodeForbidden)
	assert.ErrorIs(t, err, models.ErrNotOwnerOrSecret)

	updated, err := f.svc.Gifts.ModifyGift(f.ctx, owner, plain.ID, models.GiftFields{Name: "plain v2", WhereToBuy: strPtr("shop")})
	require.NoError(t, err)
	assert.Equal(t, "plain v2", updated.Name)
	assert.Equal(t, plain.Rank, updated.Rank)

	// The store only checks "owner OR secret" for secret gifts.
	_, err = f.svc.Gifts.ModifyGift(f.ctx, other, secret.ID, models.GiftFields{Name: "secret v2"})
	require.NoError(t, err)

	_, err = f.svc.Gifts.ModifyGift(f.ctx, owner, plain.ID, models.GiftFields{})
	assertCode(t, err, models.CodeValidation)
}

func TestGiftService_RemoveGiftWritesTombstones(t *testing.T) {
	f := newFixture(t)
	ids := f.users(t, "owner", "buyer", "fan")
	owner, buyer, fan := ids[0], ids[1], ids[2]
	cat := f.category(t, "Default", owner)
	g := f.gift(t, owner, cat, "Lego", false)

	_, err := f.svc.Actions.SetBuyState(f.ctx, g.ID, buyer, models.BuyWantToBuy)
	require.NoError(t, err)
	_, err = f.svc.Actions.SetInterested(f.ctx, g.ID, fan, true)
	require.NoError(t, err)

	_, err = f.svc.Gifts.RemoveGift(f.ctx, owner, g.ID, models.OwnerStatus("LOST"))
	assertCode(t, err, models.CodeValidation)
	assert.ErrorIs(t, err, models.ErrInvalidStatus)

	_, err = f.svc.Gifts.RemoveGift(f.ctx, buyer, g.ID, models.OwnerStatusNotWanted)
	assertCode(t, err, models.CodeForbidden)

	written, err := f.svc.Gifts.RemoveGift(f.ctx, owner, g.ID, models.OwnerStatusNotWanted)
	require.NoError(t, err)
	assert.Len(t, written, 2)

	list, err := f.svc.Tombstones.ListForActor(f.ctx, buyer)
	require.NoError(t, err)
	require.Len(t, list, 1)
	ts := list[0]
	assert.Equal(t, g.ID, ts.GiftID)
	assert.Equal(t, owner, ts.OwnerUserID)
	assert.Equal(t, "Lego", ts.Name)
	assert.Equal(t, models.OwnerStatusNotWanted, ts.OwnerStatus)
	assert.Equal(t, models.BuyWantToBuy, ts.Action)
	assert.False(t, ts.Interested)

	fanList, err := f.svc.Tombstones.ListForActor(f.ctx, fan)
	require.NoError(t, err)
	require.Len(t, fanList, 1)
	assert.True(t, fanList[0].Interested)
	assert.Equal(t, models.BuyNone, fanList[0].Action)

	actions, err := f.svc.Actions.GetActionsOnGift(f.ctx, g.ID)
	require.NoError(t, err)
	assert.Empty(t, actions)

	_, err = f.svc.Gifts.GetGift(f.ctx, g.ID)
	assertCode(t, err, models.CodeNotFound)

	_, err = f.svc.Gifts.RemoveGift(f.ctx, owner, g.ID, models.OwnerStatusNotWanted)
	assertCode(t, err, models.CodeNotFound)
}

func TestGiftService_BoughtGiftLeavesOneTombstone(t *testing.T) {
	f := newFixture(t)
	ids := f.users(t, "owner", "buyer")
	owner, buyer := ids[0], ids[1]
	cat := f.category(t, "Default", owner)
	g := f.gift(t, owner, cat, "Bike", false)

	_, err := f.svc.Actions.SetInterested(f.ctx, g.ID, buyer, true)
	require.NoError(t, err)
	_, err = f.svc.Actions.SetBuyState(f.ctx, g.ID, buyer, models.BuyBought)
	require.NoError(t, err)

	_, err = f.svc.Gifts.RemoveGift(f.ctx, owner, g.ID, models.OwnerStatusReceived)
	require.NoError(t, err)

	list, err := f.svc.Tombstones.ListForActor(f.ctx, buyer)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, models.BuyBought, list[0].Action)
	assert.True(t, list[0].Interested)
	assert.Equal(t, models.OwnerStatusReceived, list[0].OwnerStatus)

	require.NoError(t, f.svc.Tombstones.Acknowledge(f.ctx, g.ID, buyer))
	assertCode(t, f.svc.Tombstones.Acknowledge(f.ctx, g.ID, buyer), models.CodeNotFound)

	list, err = f.svc.Tombstones.ListForActor(f.ctx, buyer)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestGiftService_RemoveWithoutActionsWritesNothing(t *testing.T) {
	f := newFixture(t)
	owner := f.users(t, "owner")[0]
	cat := f.category(t, "Default", owner)
	g := f.gift(t, owner, cat, "Socks", false)

	written, err := f.svc.Gifts.RemoveGift(f.ctx, owner, g.ID, models.OwnerStatusReceived)
	require.NoError(t, err)
	assert.Empty(t, written)
}

func TestGiftService_SecretGiftRemovedByFriend(t *testing.T) {
	f := newFixture(t)
	ids := f.users(t, "owner", "author", "buyer")
	owner, author, buyer := ids[0], ids[1], ids[2]
	f.befriend(t, owner, author)
	cat := f.category(t, "Default", owner)
	secret := f.gift(t, author, cat, "Watch", true)

	_, err := f.svc.Actions.SetBuyState(f.ctx, secret.ID, buyer, models.BuyBought)
	require.NoError(t, err)

	_, err = f.svc.Gifts.RemoveGift(f.ctx, author, secret.ID, models.OwnerStatusNotWanted)
	require.NoError(t, err)

	list, err := f.svc.Tombstones.ListForActor(f.ctx, buyer)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, owner, list[0].OwnerUserID, "tombstone names the list owner, not the author")
}
