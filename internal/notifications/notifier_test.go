package notifications

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"testing"
	"time"

	"giftlist/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestNotifier(t *testing.T) *Notifier {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = rdb.Close()
		mr.Close()
	})
	return NewNotifier(rdb)
}

func TestNotifier_NilClientIsNoop(t *testing.T) {
	n := NewNotifier(nil)
	assert.NoError(t, n.PublishUser(context.Background(), 1, "test payload"))
	assert.NoError(t, n.PublishEvent(context.Background(), 1, EventGiftDeleted, nil))
	assert.NoError(t, n.StartUserSubscriber(context.Background(), func(string, string) {}))
	n.GiftDeleted(context.Background(), []models.ToDeleteGift{{ActingUserID: 2}})

	var nilNotifier *Notifier
	assert.NoError(t, nilNotifier.PublishUser(context.Background(), 1, "x"))
}

func TestUserChannel(t *testing.T) {
	t.Parallel()
	tests := []struct {
		userID   uint
		expected string
	}{
		{1, "notifications:user:1"},
		{100, "notifications:user:100"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, UserChannel(tt.userID))
	}
}

func TestNotifier_GiftDeletedReachesActors(t *testing.T) {
	n := newTestNotifier(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan Event, 4)
	require.NoError(t, n.StartUserSubscriber(ctx, func(channel, payload string) {
		var ev Event
		if err := json.Unmarshal([]byte(payload), &ev); err == nil {
			got <- ev
		}
	}))

	n.GiftDeleted(context.Background(), []models.ToDeleteGift{
		{GiftID: 9, ActingUserID: 2, Name: "Lego", OwnerStatus: models.OwnerStatusNotWanted},
		{GiftID: 9, ActingUserID: 3, Name: "Lego", OwnerStatus: models.OwnerStatusNotWanted},
	})

	seen := map[uint]bool{}
	for len(seen) < 2 {
		select {
		case ev := <-got:
			assert.Equal(t, EventGiftDeleted, ev.Type)
			var ts models.ToDeleteGift
			require.NoError(t, json.Unmarshal(ev.Data, &ts))
			assert.Equal(t, ev.UserID, ts.ActingUserID)
			assert.Equal(t, "Lego", ts.Name)
			seen[ev.UserID] = true
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out, saw %v", seen)
		}
	}
}

func TestNotifier_StartUserSubscriber_StopsOnCancel(t *testing.T) {
	n := newTestNotifier(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var received int32
	payloads := make(chan string, 2)
	require.NoError(t, n.StartUserSubscriber(ctx, func(_ string, payload string) {
		atomic.AddInt32(&received, 1)
		payloads <- payload
	}))

	require.NoError(t, n.PublishUser(context.Background(), 5, "before-cancel"))
	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&received) >= 1
	}, time.Second, 10*time.Millisecond)

	cancel()
	time.Sleep(20 * time.Millisecond)

	select {
	case <-payloads:
	default:
	}

	require.NoError(t, n.PublishUser(context.Background(), 5, "after-cancel"))
	assert.Never(t, func() bool {
		select {
		case payload := <-payloads:
			return payload == "after-cancel"
		default:
			return false
		}
	}, 100*time.Millisecond, 10*time.Millisecond)
}
