package bootstrap

import (
	"context"
	"path/filepath"
	"testing"

	"giftlist/internal/cache"
	"giftlist/internal/config"
	"giftlist/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sqliteConfig(t *testing.T, redisURL string) *config.Config {
	t.Helper()
	return &config.Config{
		Env:                      "test",
		DBDriver:                 config.DriverSQLite,
		DBSQLitePath:             filepath.Join(t.TempDir(), "giftlist.db"),
		DBMaxOpenConns:           1,
		DBMaxIdleConns:           1,
		DBConnMaxLifetimeMinutes: 30,
		DBAutoMigrate:            true,
		RedisURL:                 redisURL,
		LogLevel:                 "error",
	}
}

func TestNew_WiresServices(t *testing.T) {
	mr := miniredis.RunT(t)
	rt, err := New(sqliteConfig(t, mr.Addr()))
	require.NoError(t, err)
	require.NotNil(t, rt.Redis)
	assert.Same(t, rt.Redis, cache.GetClient())

	ctx := context.Background()
	u := models.User{Name: "alice", Credential: "x"}
	require.NoError(t, rt.DB.Create(&u).Error)

	cat, err := rt.Services.Categories.AddCategory(ctx, "Default", u.ID)
	require.NoError(t, err)
	view, err := rt.Services.Visibility.View(ctx, u.ID, u.ID)
	require.NoError(t, err)
	require.Len(t, view.Categories, 1)
	assert.Equal(t, cat.ID, view.Categories[0].ID)

	// The user lookup went through the cache.
	assert.True(t, mr.Exists(cache.UserKey(u.ID)))

	require.NoError(t, rt.Shutdown(ctx))
	assert.Nil(t, cache.GetClient())
}

func TestNew_RunsWithoutRedis(t *testing.T) {
	rt, err := New(sqliteConfig(t, ""))
	require.NoError(t, err)
	assert.Nil(t, rt.Redis)

	u := models.User{Name: "bob", Credential: "x"}
	require.NoError(t, rt.DB.Create(&u).Error)
	_, err = rt.Services.Categories.AddCategory(context.Background(), "Default", u.ID)
	assert.NoError(t, err)

	require.NoError(t, rt.Shutdown(context.Background()))
}

func TestNew_RejectsUnknownDriver(t *testing.T) {
	cfg := sqliteConfig(t, "")
	cfg.DBDriver = "mysql"
	_, err := New(cfg)
	assert.Error(t, err)
}
