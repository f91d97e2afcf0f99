package seed

import (
	"context"
	"testing"

	"giftlist/internal/models"
	"giftlist/internal/notifications"
	"giftlist/internal/repository"
	"giftlist/internal/service"
	"giftlist/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func newSeeder(t *testing.T, opts Options) (*Seeder, *service.Services, *gorm.DB) {
	t.Helper()
	db := testutil.NewTestDB(t)
	svc := service.NewServices(repository.NewStore(db), notifications.NewNotifier(nil))
	return NewSeeder(db, svc, opts), svc, db
}

func TestParseFixture_RejectsUnknownKeys(t *testing.T) {
	_, err := ParseFixture([]byte("users:\n  - name: a\n    admin: true\n"))
	assert.Error(t, err)

	fx, err := ParseFixture([]byte("users:\n  - name: a\nfriends:\n  - [a, b]\n"))
	require.NoError(t, err)
	assert.Equal(t, [][2]string{{"a", "b"}}, fx.Friends)
}

func TestSeeder_ApplyDemoFixture(t *testing.T) {
	s, svc, db := newSeeder(t, Options{SkipBcrypt: true})
	ctx := context.Background()

	fx, err := LoadFixtureFile("testdata/demo.yml")
	require.NoError(t, err)
	users, err := s.Apply(ctx, fx)
	require.NoError(t, err)
	require.Len(t, users, 4)
	alice, bob, carol, dave := users["alice"], users["bob"], users["carol"], users["dave"]

	friends, err := svc.Friends.AreFriends(ctx, bob, alice)
	require.NoError(t, err)
	assert.True(t, friends)

	received, err := svc.Friends.ListReceived(ctx, alice)
	require.NoError(t, err)
	require.Len(t, received, 1)
	assert.Equal(t, dave, received[0].UserOneID)

	blocked, err := svc.Friends.ListBlocked(ctx, bob)
	require.NoError(t, err)
	assert.Len(t, blocked, 1)

	own, err := svc.Visibility.View(ctx, alice, alice)
	require.NoError(t, err)
	require.Len(t, own.Categories, 2)
	assert.Len(t, own.Categories[0].Gifts, 2, "secret gift hidden from alice")

	view, err := svc.Visibility.View(ctx, carol, alice)
	require.NoError(t, err)
	require.Len(t, view.Categories, 2)
	def := view.Categories[0]
	require.Len(t, def.Gifts, 3)
	assert.Equal(t, "Lego castle", def.Gifts[0].Name)
	assert.Len(t, def.Gifts[0].Actions, 2)
	assert.True(t, def.Gifts[2].Secret)

	var u models.User
	require.NoError(t, db.First(&u, bob).Error)
	assert.Equal(t, "hunter22", u.Credential)
}

func TestSeeder_ApplyRejectsUnknownUser(t *testing.T) {
	s, _, _ := newSeeder(t, Options{SkipBcrypt: true})
	_, err := s.Apply(context.Background(), &Fixture{
		Users:   []FixtureUser{{Name: "a"}},
		Friends: [][2]string{{"a", "ghost"}},
	})
	assert.ErrorContains(t, err, "ghost")
}

func TestSeeder_RandomKeepsStoreRules(t *testing.T) {
	opts := DefaultOptions()
	opts.NumUsers = 6
	opts.FriendRatio = 0.6
	opts.ActionRatio = 0.5
	opts.SecretRatio = 0.5
	opts.SkipBcrypt = true
	opts.Seed = 42
	s, svc, db := newSeeder(t, opts)
	ctx := context.Background()

	stats, err := s.Random(ctx)
	require.NoError(t, err)
	assert.Equal(t, 6, stats.Users)
	assert.Equal(t, 6*opts.CategoriesPerUser, stats.Categories)
	assert.Equal(t, stats.Categories*opts.GiftsPerCategory, stats.Gifts)

	var actions []models.FriendActionOnGift
	require.NoError(t, db.Find(&actions).Error)
	for _, a := range actions {
		assert.False(t, a.Empty(), "empty action rows are never stored")
		var gift models.Gift
		require.NoError(t, db.First(&gift, a.GiftID).Error)
		owner, err := repository.NewStore(db).Categories().IsOwner(ctx, a.UserID, gift.CategoryID)
		require.NoError(t, err)
		assert.False(t, owner, "owners never act on their own gifts")
	}

	var users []models.User
	require.NoError(t, db.Find(&users).Error)
	for _, u := range users {
		cats, err := svc.Categories.GetOwnCategories(ctx, u.ID)
		require.NoError(t, err)
		assert.Len(t, cats, opts.CategoriesPerUser)
	}

	require.NoError(t, s.ClearAll())
	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestFactory_HashesCredentials(t *testing.T) {
	s, _, _ := newSeeder(t, Options{})
	u, err := s.Factory().CreateUser()
	require.NoError(t, err)
	assert.NotEmpty(t, u.Name)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.Credential), []byte(DefaultPassword)))
}
