// Package notifications publishes store events to per-user Redis channels.
package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strconv"
	"time"

	"giftlist/internal/models"
	"giftlist/internal/observability"

	"github.com/redis/go-redis/v9"
)

// Event types carried in Event.Type.
const (
	EventFriendRequestCreated  = "friend_request.created"
	EventFriendRequestAccepted = "friend_request.accepted"
	EventGiftDeleted           = "gift.deleted"
)

// Event is the JSON payload published on a user channel.
type Event struct {
	Type       string          `json:"type"`
	UserID     uint            `json:"user_id"`
	OccurredAt time.Time       `json:"occurred_at"`
	Data       json.RawMessage `json:"data,omitempty"`
}

// Notifier provides helpers to publish notifications into Redis channels
type Notifier struct {
	rdb *redis.Client
}

// NewNotifier creates a new Notifier instance using the provided Redis client.
// A nil client turns every publish into a no-op.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// PublishUser sends a notification payload to a user's channel.
func (n *Notifier) PublishUser(ctx context.Context, userID uint, payload string) error {
	if n == nil || n.rdb == nil {
		return nil
	}
	return n.rdb.Publish(ctx, UserChannel(userID), payload).Err()
}

// PublishEvent marshals data into an Event for userID and publishes it.
func (n *Notifier) PublishEvent(ctx context.Context, userID uint, eventType string, data any) error {
	if n == nil || n.rdb == nil {
		return nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	payload, err := json.Marshal(Event{
		Type:       eventType,
		UserID:     userID,
		OccurredAt: time.Now().UTC(),
		Data:       raw,
	})
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	return n.PublishUser(ctx, userID, string(payload))
}

// FriendRequestCreated tells the addressee about a new request.
func (n *Notifier) FriendRequestCreated(ctx context.Context, req models.FriendRequest) {
	n.logFailure(ctx, EventFriendRequestCreated,
		n.PublishEvent(ctx, req.UserTwoID, EventFriendRequestCreated, req))
}

// FriendRequestAccepted tells the initiator their request was accepted.
func (n *Notifier) FriendRequestAccepted(ctx context.Context, req models.FriendRequest) {
	n.logFailure(ctx, EventFriendRequestAccepted,
		n.PublishEvent(ctx, req.UserOneID, EventFriendRequestAccepted, req))
}

// GiftDeleted tells each acting user about the tombstone left for them.
func (n *Notifier) GiftDeleted(ctx context.Context, tombstones []models.ToDeleteGift) {
	for _, ts := range tombstones {
		n.logFailure(ctx, EventGiftDeleted, n.PublishEvent(ctx, ts.ActingUserID, EventGiftDeleted, ts))
	}
}

// Publishing happens after commit, so a failure is logged and never surfaced.
func (n *Notifier) logFailure(ctx context.Context, eventType string, err error) {
	if err == nil {
		return
	}
	observability.Logger.WarnContext(ctx, "notification publish failed",
		slog.String("event", eventType),
		slog.String("error", err.Error()),
	)
}

// StartUserSubscriber subscribes to `notifications:user:*` and calls onMessage for each
// incoming message until ctx is cancelled.
func (n *Notifier) StartUserSubscriber(
	ctx context.Context, onMessage func(channel string, payload string),
) error {
	if n == nil || n.rdb == nil {
		return nil
	}
	sub := n.rdb.PSubscribe(ctx, "notifications:user:*")
	// Wait for the subscription to be confirmed so no early publish is lost.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("subscribe: %w", err)
	}
	ch := sub.Channel()

	go func() {
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				func() {
					defer func() {
						if r := recover(); r != nil {
							observability.Logger.Error("panic in user subscriber",
								slog.Any("panic", r), slog.String("stack", string(debug.Stack())))
						}
					}()
					onMessage(msg.Channel, msg.Payload)
				}()
			}
		}
	}()

	return nil
}

// UserChannel derives the Redis channel name for a user.
func UserChannel(userID uint) string {
	return "notifications:user:" + strconv.FormatUint(uint64(userID), 10)
}
