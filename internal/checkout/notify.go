package checkout

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/imrishuroy/orderdesk/internal/orders"
	"github.com/imrishuroy/orderdesk/internal/telemetry"
)

// EventPublisher sends committed-order events (implemented by aws.Publisher).
type EventPublisher interface {
	PublishEvent(ctx context.Context, eventType, body string, attributes map[string]string) error
}

// MetricsRecorder counts commit outcomes (implemented by aws.Metrics).
type MetricsRecorder interface {
	RecordCommit(ctx context.Context, variant, outcome string) error
}

// EventOrderCommitted is the event type of CommittedEvent messages.
const EventOrderCommitted = "OrderCommitted"

// Commit outcomes.
const (
	OutcomeCommitted = "committed"
	OutcomeRejected  = "rejected"
	OutcomeFailed    = "failed"
)

// Notifier reports commits after the fact. Both sinks are optional and
// their failures are only logged: the order is already committed.
type Notifier struct {
	Publisher EventPublisher
	Metrics   MetricsRecorder
	Logger    *slog.Logger
}

func (n *Notifier) logger() *slog.Logger {
	if n.Logger != nil {
		return n.Logger
	}
	return slog.Default()
}

// Committed publishes an OrderCommitted event.
func (n *Notifier) Committed(ctx context.Context, ev orders.CommittedEvent) {
	if n == nil || n.Publisher == nil {
		return
	}
	if ev.CorrelationID == "" {
		ev.CorrelationID = telemetry.RequestIDFrom(ctx)
	}
	body, err := json.Marshal(ev)
	if err != nil {
		n.logger().ErrorContext(ctx, "encode order event", "order_id", ev.OrderID, "error", err)
		return
	}
	attrs := map[string]string{
		"order_id":       ev.OrderID,
		"variant":        ev.Variant,
		"correlation_id": ev.CorrelationID,
	}
	if err := n.Publisher.PublishEvent(ctx, EventOrderCommitted, string(body), attrs); err != nil {
		n.logger().ErrorContext(ctx, "publish order event", "order_id", ev.OrderID, "error", err)
	}
}

// Outcome records the result of one commit attempt.
func (n *Notifier) Outcome(ctx context.Context, variant string, err error) {
	if n == nil || n.Metrics == nil {
		return
	}
	outcome := OutcomeCommitted
	switch {
	case err == nil:
	case orders.IsUserError(err):
		outcome = OutcomeRejected
	default:
		outcome = OutcomeFailed
	}
	if mErr := n.Metrics.RecordCommit(ctx, variant, outcome); mErr != nil {
		n.logger().WarnContext(ctx, "record commit metric", "variant", variant, "error", mErr)
	}
}
