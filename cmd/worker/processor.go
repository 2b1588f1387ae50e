package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-lambda-go/events"

	"github.com/imrishuroy/orderdesk/internal/orders"
	"github.com/imrishuroy/orderdesk/internal/telemetry"
)

// Processor archives OrderCommitted events delivered by SQS.
type Processor struct {
	ledger ledger
	logger *slog.Logger
}

// NewProcessor creates a worker processor writing to store.
func NewProcessor(store ledger, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{ledger: store, logger: logger}
}

// Handle processes an SQS batch. The first failing record fails the batch so
// SQS redelivers it; records already archived are skipped.
func (p *Processor) Handle(ctx context.Context, ev events.SQSEvent) error {
	p.logger.InfoContext(ctx, "received SQS messages", "count", len(ev.Records))
	for _, rec := range ev.Records {
		if err := p.processMessage(ctx, rec); err != nil {
			p.logger.ErrorContext(ctx, "worker error", "message_id", rec.MessageId, "error", err)
			return err
		}
	}
	return nil
}

func (p *Processor) processMessage(ctx context.Context, rec events.SQSMessage) error {
	var msg orders.CommittedEvent
	if err := json.Unmarshal([]byte(rec.Body), &msg); err != nil {
		return fmt.Errorf("invalid message body: %w", err)
	}
	if msg.OrderID == "" {
		return errors.New("invalid message body: missing order_id")
	}
	if msg.CorrelationID != "" {
		ctx = telemetry.WithRequestID(ctx, msg.CorrelationID)
	}

	err := p.ledger.Put(ctx, orders.EntryFromEvent(msg))
	if errors.Is(err, orders.ErrAlreadyRecorded) {
		p.logger.InfoContext(ctx, "duplicate delivery", "order_id", msg.OrderID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("archive order %s: %w", msg.OrderID, err)
	}

	p.logger.InfoContext(ctx, "order archived", "order_id", msg.OrderID, "variant", msg.Variant)
	return nil
}
