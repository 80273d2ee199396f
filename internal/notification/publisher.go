package notification

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/billforge/billforge/internal/logger"
	"github.com/billforge/billforge/internal/types"
)

// Envelope is the wire format of a notification
type Envelope struct {
	Type      types.NotificationType `json:"type"`
	UserID    string                 `json:"user_id"`
	Payload   json.RawMessage        `json:"payload,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

// Publisher delivers best-effort notifications to connected users. A nil
// Publisher is a valid no-op; publish errors are logged, never returned.
type Publisher struct {
	pubsub *gochannel.GoChannel
	logger *logger.Logger
}

// NewPublisher creates an in-process notification publisher
func NewPublisher(log *logger.Logger) *Publisher {
	pubsub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 64},
		watermill.NopLogger{},
	)
	return &Publisher{pubsub: pubsub, logger: log}
}

// Topic returns the per-user topic name
func Topic(userID string) string {
	return "notifications." + userID
}

// Publish sends a notification to the user's topic. Best effort only.
func (p *Publisher) Publish(ctx context.Context, userID string, nt types.NotificationType, payload any) {
	if p == nil || p.pubsub == nil {
		return
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		p.logger.Warnw("failed to marshal notification payload",
			"type", nt,
			"user_id", userID,
			"error", err,
		)
		return
	}

	env := Envelope{
		Type:      nt,
		UserID:    userID,
		Payload:   raw,
		Timestamp: time.Now().UTC(),
	}
	body, err := json.Marshal(env)
	if err != nil {
		p.logger.Warnw("failed to marshal notification envelope", "error", err)
		return
	}

	msg := message.NewMessage(watermill.NewUUID(), body)
	if err := p.pubsub.Publish(Topic(userID), msg); err != nil {
		p.logger.Warnw("failed to publish notification",
			"type", nt,
			"user_id", userID,
			"error", err,
		)
	}
}

// Subscribe returns the user's notification stream
func (p *Publisher) Subscribe(ctx context.Context, userID string) (<-chan *message.Message, error) {
	return p.pubsub.Subscribe(ctx, Topic(userID))
}

// Close shuts the underlying pubsub down
func (p *Publisher) Close() error {
	if p == nil || p.pubsub == nil {
		return nil
	}
	return p.pubsub.Close()
}
