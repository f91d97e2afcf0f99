package service

import (
	"testing"

	"giftlist/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveVisibility(t *testing.T) {
	tests := []struct {
		name    string
		viewer  uint
		target  uint
		friends bool
		want    Scope
		wantErr bool
	}{
		{name: "own list", viewer: 1, target: 1, want: Scope{ViewerID: 1, TargetID: 1, Own: true}},
		{name: "own list ignores friendship", viewer: 1, target: 1, friends: true, want: Scope{ViewerID: 1, TargetID: 1, Own: true}},
		{name: "friend", viewer: 1, target: 2, friends: true, want: Scope{ViewerID: 1, TargetID: 2, IncludeSecret: true, IncludeActions: true}},
		{name: "stranger", viewer: 1, target: 2, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveVisibility(tt.viewer, tt.target, tt.friends)
			if tt.wantErr {
				assertCode(t, err, models.CodeForbidden)
				assert.ErrorIs(t, err, models.ErrNotFriends)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVisibilityService_Symmetry(t *testing.T) {
	f := newFixture(t)
	ids := f.users(t, "a", "b", "c")
	a, b, c := ids[0], ids[1], ids[2]
	f.befriend(t, a, b)
	aCat := f.category(t, "A", a)
	bCat := f.category(t, "B", b)
	f.gift(t, b, aCat, "for a", true)
	f.gift(t, a, bCat, "for b", true)

	for _, pair := range [][2]uint{{a, b}, {b, a}} {
		view, err := f.svc.Visibility.View(f.ctx, pair[0], pair[1])
		require.NoError(t, err)
		require.Len(t, view.Categories, 1)
		require.Len(t, view.Categories[0].Gifts, 1)
		assert.True(t, view.Categories[0].Gifts[0].Secret)
	}

	for _, pair := range [][2]uint{{a, c}, {c, a}} {
		_, err := f.svc.Visibility.View(f.ctx, pair[0], pair[1])
		assertCode(t, err, models.CodeForbidden)
		assert.ErrorIs(t, err, models.ErrNotFriends)
	}

	_, err := f.svc.Visibility.View(f.ctx, a, 999)
	assertCode(t, err, models.CodeNotFound)
}

func TestVisibilityService_OwnAndFriendViews(t *testing.T) {
	f := newFixture(t)
	ids := f.users(t, "owner", "friend", "buyer")
	owner, friend, buyer := ids[0], ids[1], ids[2]
	f.befriend(t, owner, friend)
	f.befriend(t, owner, buyer)

	toys := f.category(t, "Toys", owner)
	shared := f.category(t, "Shared", owner, friend)
	books := f.category(t, "Books", owner)
	require.NoError(t, f.svc.Categories.RankUp(f.ctx, owner, books))

	lego := f.gift(t, owner, toys, "Lego", false)
	f.gift(t, owner, toys, "Kite", false)
	surprise := f.gift(t, friend, toys, "Surprise", true)
	f.gift(t, owner, shared, "Trip", false)

	_, err := f.svc.Actions.SetBuyState(f.ctx, lego.ID, buyer, models.BuyBought)
	require.NoError(t, err)

	own, err := f.svc.Visibility.View(f.ctx, owner, owner)
	require.NoError(t, err)
	assert.True(t, own.Scope.Own)
	require.Len(t, own.Categories, 3)
	assert.Equal(t, []string{"Toys", "Books", "Shared"},
		[]string{own.Categories[0].Name, own.Categories[1].Name, own.Categories[2].Name})
	assert.Empty(t, own.Categories[1].Gifts)
	require.Len(t, own.Categories[0].Gifts, 2, "secret gift hidden from owner")
	for _, g := range own.Categories[0].Gifts {
		assert.NotEqual(t, surprise.ID, g.ID)
		assert.Empty(t, g.Actions, "owner never sees who bought what")
	}

	fv, err := f.svc.Visibility.View(f.ctx, friend, owner)
	require.NoError(t, err)
	require.Len(t, fv.Categories, 2, "the co-owned category is left out")
	assert.Equal(t, "Toys", fv.Categories[0].Name)
	require.Len(t, fv.Categories[0].Gifts, 3)
	assert.Equal(t, "Lego", fv.Categories[0].Gifts[0].Name)
	require.Len(t, fv.Categories[0].Gifts[0].Actions, 1)
	assert.Equal(t, buyer, fv.Categories[0].Gifts[0].Actions[0].UserID)
	assert.Equal(t, surprise.ID, fv.Categories[0].Gifts[2].ID)
}
