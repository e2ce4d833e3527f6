// Package notifications publishes user-facing events to Redis channels.
package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Event types delivered on a user's channel.
const (
	EventFriendRequest  = "friend_request"
	EventFriendAccepted = "friend_accepted"
	EventPostLiked      = "post_liked"
	EventPostCommented  = "post_commented"
)

// Event is the JSON payload published to notifications:user:<id>.
type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	ActorID   uint      `json:"actor_id"`
	PostID    uint      `json:"post_id,omitempty"`
	Preview   string    `json:"preview,omitempty"`
	CreatedAt time.Time `json:"created_at"`
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

func UserChannel(userID uint) string {
	return fmt.Sprintf("notifications:user:%d", userID)
}

// PublishUser sends a notification payload to a user's channel.
func (n *Notifier) PublishUser(ctx context.Context, userID uint, payload string) error {
	if n == nil || n.rdb == nil {
		return nil
	}
	return n.rdb.Publish(ctx, UserChannel(userID), payload).Err()
}

// Notify publishes an event of eventType to recipientID. Actions on one's own
// content are not announced.
func (n *Notifier) Notify(ctx context.Context, recipientID, actorID uint, eventType string, postID uint) error {
	return n.NotifyWithPreview(ctx, recipientID, actorID, eventType, postID, "")
}

// NotifyWithPreview is Notify with a short HTML-safe excerpt attached.
func (n *Notifier) NotifyWithPreview(ctx context.Context, recipientID, actorID uint, eventType string, postID uint, preview string) error {
	if n == nil || n.rdb == nil || recipientID == actorID {
		return nil
	}
	payload, err := json.Marshal(Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		ActorID:   actorID,
		PostID:    postID,
		Preview:   preview,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	return n.PublishUser(ctx, recipientID, string(payload))
}
