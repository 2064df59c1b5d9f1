package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

const (
	ChannelBookings = "booking:updates"
	ChannelMessages = "conversation:messages"

	EventBookingStatusChanged = "booking_status_changed"
	EventQRCodeScanned        = "qrcode_scanned"
	EventNewMessage           = "new_message"
)

// NewRedisClient connects to redisURL and checks the connection.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

type busEnvelope struct {
	Type       string      `json:"type"`
	Recipients []uint      `json:"recipients"`
	Data       interface{} `json:"data"`
	Timestamp  int64       `json:"timestamp"`
}

// EventBus fans committed domain events out to connected websocket clients
// and mirrors them on redis pub/sub for other instances. A nil bus drops events.
type EventBus struct {
	redis *redis.Client
	hub   *Hub
}

// NewEventBus accepts a nil redis client or hub.
func NewEventBus(rdb *redis.Client, hub *Hub) *EventBus {
	return &EventBus{redis: rdb, hub: hub}
}

// Publish never fails the caller; delivery errors are logged.
func (b *EventBus) Publish(ctx context.Context, channel string, recipients []uint, eventType string, data interface{}) {
	if b == nil {
		return
	}

	if b.hub != nil {
		frame, err := json.Marshal(WebSocketMessage{Type: eventType, Data: data})
		if err != nil {
			log.WithError(err).WithField("event", eventType).Error("failed to encode websocket event")
			return
		}
		b.hub.SendToUsers(recipients, frame)
	}

	if b.redis != nil {
		payload, err := json.Marshal(busEnvelope{
			Type:       eventType,
			Recipients: recipients,
			Data:       data,
			Timestamp:  time.Now().Unix(),
		})
		if err != nil {
			log.WithError(err).WithField("event", eventType).Error("failed to encode redis event")
			return
		}
		if err := b.redis.Publish(ctx, channel, string(payload)).Err(); err != nil {
			log.WithError(err).WithFields(log.Fields{"channel": channel, "event": eventType}).Warn("failed to publish event")
		}
	}
}
