package event

import (
	"context"
	"encoding/json"
	"fmt"
)

// Publisher delivers raw payloads to a topic.
type Publisher interface {
	Publish(ctx context.Context, topic string, msg []byte) error
}

// HandlerFunc consumes one raw payload from a subscription.
type HandlerFunc func(ctx context.Context, msg []byte) error

// Emit marshals evt as JSON and publishes it. A nil publisher is a no-op.
func Emit(ctx context.Context, publisher Publisher, topic string, evt any) error {
	if publisher == nil {
		return nil
	}
	data, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := publisher.Publish(ctx, topic, data); err != nil {
		return fmt.Errorf("publish to %s: %w", topic, err)
	}
	return nil
}

// Type extracts event_type from a raw payload.
func Type(msg []byte) (string, error) {
	var base struct {
		EventType string `json:"event_type"`
	}
	if err := json.Unmarshal(msg, &base); err != nil {
		return "", err
	}
	return base.EventType, nil
}
