package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/appetiteclub/pos/pkg/event"
	"github.com/appetiteclub/pos/pkg/logger"
)

type Subscriber interface {
	Subscribe(ctx context.Context, topic string, handler event.HandlerFunc, onError func(error)) error
}

// Watch prints order events until ctx is cancelled.
func Watch(ctx context.Context, sub Subscriber, log logger.Logger, out io.Writer) error {
	var mu sync.Mutex
	handler := func(_ context.Context, msg []byte) error {
		line, err := FormatEvent(msg)
		if err != nil {
			return err
		}
		mu.Lock()
		defer mu.Unlock()
		_, err = fmt.Fprintln(out, line)
		return err
	}
	onError := func(err error) {
		log.Error("cannot handle event", "error", err)
	}

	if err := sub.Subscribe(ctx, event.OrdersTopic, handler, onError); err != nil {
		return err
	}
	log.Info("watching order events", "topic", event.OrdersTopic)

	<-ctx.Done()
	return nil
}

// FormatEvent renders one order event as a single line.
func FormatEvent(msg []byte) (string, error) {
	eventType, err := event.Type(msg)
	if err != nil {
		return "", fmt.Errorf("decode event: %w", err)
	}

	switch eventType {
	case event.EventOrderPlaced:
		var evt event.OrderPlacedEvent
		if err := json.Unmarshal(msg, &evt); err != nil {
			return "", fmt.Errorf("decode %s: %w", eventType, err)
		}
		return fmt.Sprintf("%s placed  %s  %d items  ₹%d  (%s)",
			evt.OrderID, evt.Table, len(evt.Items), evt.Total, evt.PaymentMethod), nil

	case event.EventOrderStatusChanged:
		var evt event.OrderStatusChangedEvent
		if err := json.Unmarshal(msg, &evt); err != nil {
			return "", fmt.Errorf("decode %s: %w", eventType, err)
		}
		return fmt.Sprintf("%s status  %s -> %s", evt.OrderID, evt.PreviousStatus, evt.NewStatus), nil

	default:
		return fmt.Sprintf("%s  %s", eventType, string(msg)), nil
	}
}
