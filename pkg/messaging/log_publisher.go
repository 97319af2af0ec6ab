package messaging

import (
	"context"
	"log/slog"
)

// LogPublisher writes events to the log instead of a broker. Used when event
// publishing is disabled in configuration.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger.With("component", "publisher")}
}

func (p *LogPublisher) Publish(ctx context.Context, event Event) error {
	payload, err := event.Payload()
	if err != nil {
		return err
	}
	p.logger.InfoContext(ctx, "Event published to log", "subject", event.Subject(), "payload", string(payload))
	return nil
}
