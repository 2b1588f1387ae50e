package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/imrishuroy/orderdesk/internal/aws"
	"github.com/imrishuroy/orderdesk/internal/orders"
	"github.com/imrishuroy/orderdesk/internal/telemetry"
)

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	logger := telemetry.NewLogger(getEnv("LOG_LEVEL", "info"))
	slog.SetDefault(logger)

	table := getEnv("ORDERS_TABLE", "orders")
	clients, err := aws.NewAWSClients(context.Background())
	if err != nil {
		logger.Error("failed to init aws clients", "error", err)
		os.Exit(1)
	}
	p := NewProcessor(orders.NewLedgerStore(clients.DynamoDB, table), logger)

	// If RUN_LOCAL=true, simulate a single SQS event for local testing.
	if os.Getenv("RUN_LOCAL") == "true" {
		body := getEnv("LOCAL_SQS_BODY", `{"order_id":"local-order-1","variant":"session","total":"7.98","item_count":2}`)
		event := events.SQSEvent{
			Records: []events.SQSMessage{
				{MessageId: "local-1", Body: body},
			},
		}
		if err := p.Handle(context.Background(), event); err != nil {
			logger.Error("local handler error", "error", err)
			os.Exit(1)
		}
		return
	}

	lambda.Start(p.Handle)
}
