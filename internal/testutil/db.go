// Package testutil provides shared fixtures for package tests.
package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"giftlist/internal/database"
	"giftlist/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbSeq atomic.Uint64

// NewTestDB opens a private in-memory sqlite database with every relation migrated.
// The pool is capped at one connection so the shared-cache database lives as long as
// the test does.
func NewTestDB(t testing.TB) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared&_foreign_keys=on", name, dbSeq.Add(1))

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sqlite pool: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// CreateUser inserts a user directly, bypassing the store.
func CreateUser(t testing.TB, db *gorm.DB, name string) models.User {
	t.Helper()
	u := models.User{Name: name, Credential: "x"}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("create user %q: %v", name, err)
	}
	return u
}

// CreateUsers inserts one user per name and returns them in order.
func CreateUsers(t testing.TB, db *gorm.DB, names ...string) []models.User {
	t.Helper()
	users := make([]models.User, 0, len(names))
	for _, n := range names {
		users = append(users, CreateUser(t, db, n))
	}
	return users
}

// Befriend stores an accepted request from a to b.
func Befriend(t testing.TB, db *gorm.DB, a, b uint) models.FriendRequest {
	t.Helper()
	req := models.FriendRequest{UserOneID: a, UserTwoID: b, Status: models.FriendRequestAccepted}
	if err := db.Create(&req).Error; err != nil {
		t.Fatalf("befriend %d and %d: %v", a, b, err)
	}
	return req
}
