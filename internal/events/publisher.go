package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	// Channel names
	ChannelFriendRequestSent     = "connect:friend:request_sent"
	ChannelFriendRequestAccepted = "connect:friend:request_accepted"
	ChannelGroupEvent            = "connect:group:event"
)

type EventPublisher struct {
	rdb    *redis.Client
	logger *zap.Logger
}

func NewEventPublisher(rdb *redis.Client, logger *zap.Logger) *EventPublisher {
	return &EventPublisher{
		rdb:    rdb,
		logger: logger,
	}
}

type FriendRequestEvent struct {
	EventType   string `json:"event_type"`
	RequestID   string `json:"request_id"`
	SenderID    string `json:"sender_id"`
	RecipientID string `json:"recipient_id"`
	Timestamp   int64  `json:"timestamp"`
}

type GroupEvent struct {
	EventType string `json:"event_type"`
	GroupID   string `json:"group_id"`
	ActorID   string `json:"actor_id"`
	TargetID  string `json:"target_id,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

func (p *EventPublisher) PublishFriendRequestSent(ctx context.Context, event *FriendRequestEvent) error {
	event.EventType = "friend.request_sent"
	event.Timestamp = time.Now().Unix()
	return p.publish(ctx, ChannelFriendRequestSent, event, event.RequestID)
}

func (p *EventPublisher) PublishFriendRequestAccepted(ctx context.Context, event *FriendRequestEvent) error {
	event.EventType = "friend.request_accepted"
	event.Timestamp = time.Now().Unix()
	return p.publish(ctx, ChannelFriendRequestAccepted, event, event.RequestID)
}

func (p *EventPublisher) PublishGroupEvent(ctx context.Context, event *GroupEvent) error {
	event.Timestamp = time.Now().Unix()
	return p.publish(ctx, ChannelGroupEvent, event, event.GroupID)
}

func (p *EventPublisher) publish(ctx context.Context, channel string, event interface{}, ref string) error {
	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("failed to marshal event",
			zap.String("channel", channel),
			zap.String("ref", ref),
			zap.Error(err))
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := p.rdb.Publish(ctx, channel, payload).Err(); err != nil {
		p.logger.Error("failed to publish event",
			zap.String("channel", channel),
			zap.String("ref", ref),
			zap.Error(err))
		return fmt.Errorf("failed to publish event: %w", err)
	}

	p.logger.Info("event published",
		zap.String("channel", channel),
		zap.String("ref", ref))
	return nil
}
