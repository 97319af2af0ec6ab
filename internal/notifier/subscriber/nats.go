// Package subscriber consumes order placed events from NATS JetStream and
// dispatches order confirmation notifications.
package subscriber

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/aurelia-labs/jewelstore/pkg/config"
	"github.com/aurelia-labs/jewelstore/pkg/messaging/events"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"golang.org/x/sync/errgroup"
)

// Start initializes the NATS JetStream consumer and starts multiple worker goroutines to process messages.
func Start(ctx context.Context, js jetstream.JetStream, subscriberCfg config.SubscriberConfig, logger *slog.Logger) error {
	cfg := jetstream.ConsumerConfig{
		FilterSubject: subscriberCfg.Subject,
		Durable:       subscriberCfg.Consumer,
		AckPolicy:     jetstream.AckExplicitPolicy,
	}
	consumer, err := js.CreateOrUpdateConsumer(ctx, subscriberCfg.Stream, cfg)
	if err != nil {
		return err
	}
	g, gCtx := errgroup.WithContext(ctx)
	for i := 0; i < subscriberCfg.Workers; i++ {
		g.Go(func() error {
			return runWorker(gCtx, consumer, subscriberCfg.Timeout, subscriberCfg.Interval, logger)
		})
	}
	return g.Wait()
}

// runWorker fetches messages from the NATS JetStream consumer and processes them.
func runWorker(ctx context.Context, consumer jetstream.Consumer, timeout time.Duration, interval time.Duration, logger *slog.Logger) error {
	for {
		select {
		case <-ctx.Done():
			// ctx was cancelled or timed out (e.g., application shutdown)
			return ctx.Err()
		default:
			batch, err := consumer.Fetch(1, jetstream.FetchMaxWait(timeout))
			if err != nil {
				// if the error is a timeout, we can just continue to the next iteration
				if errors.Is(err, nats.ErrTimeout) {
					continue
				}
				logger.Error("failed to fetch messages", "error", err)
				// for other errors, we can log and retry
				time.Sleep(interval)
				continue
			}
			for msg := range batch.Messages() {
				handleMessage(msg, logger)
			}
		}
	}
}

// ackableMsg is the slice of jetstream.Msg that handleMessage needs.
type ackableMsg interface {
	Data() []byte
	Subject() string
	Ack() error
	Nak() error
}

// handleMessage processes a single order placed event.
func handleMessage(msg ackableMsg, logger *slog.Logger) {
	if msg == nil {
		logger.Error("received nil message")
		return
	}
	var event events.OrderPlacedEvent
	if err := json.Unmarshal(msg.Data(), &event); err != nil {
		logger.Error("failed to unmarshal message", "error", err, "subject", msg.Subject())
		if err := msg.Nak(); err != nil {
			logger.Error("failed to nack message", "error", err)
		}
		return
	}

	logger.Info("received order placed event",
		slog.String("subject", msg.Subject()),
		slog.String("order_id", event.OrderID.String()),
		slog.String("session_id", event.SessionID.String()),
		slog.Int64("total_cents", event.TotalCents),
		slog.String("created_at", event.CreatedAt.Format(time.RFC3339)))

	sendConfirmation()

	if err := msg.Ack(); err != nil {
		logger.Error("failed to ack message", "error", err)
	}
}

// sendConfirmation stands in for the delivery of an order confirmation.
// TODO: wire a real mail provider once one is chosen for production.
func sendConfirmation() {
	time.Sleep(100 * time.Millisecond)
}
