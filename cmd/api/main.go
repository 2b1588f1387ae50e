package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/imrishuroy/orderdesk/internal/aws"
	"github.com/imrishuroy/orderdesk/internal/catalog"
	"github.com/imrishuroy/orderdesk/internal/checkout"
	"github.com/imrishuroy/orderdesk/internal/commerce"
	"github.com/imrishuroy/orderdesk/internal/config"
	"github.com/imrishuroy/orderdesk/internal/handlers"
	"github.com/imrishuroy/orderdesk/internal/orders"
	"github.com/imrishuroy/orderdesk/internal/session"
	"github.com/imrishuroy/orderdesk/internal/telemetry"
	"github.com/imrishuroy/orderdesk/internal/validation"
)

func setupRouter(cfg config.Config, deps dependencies, logger *slog.Logger) (*gin.Engine, error) {
	r := gin.New()
	r.Use(gin.Recovery(), handlers.RequestLogger(logger))

	// health
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v := validation.New()
	notifier := &checkout.Notifier{Logger: logger}
	if deps.aws != nil && cfg.Events.QueueURL != "" {
		notifier.Publisher = aws.NewPublisher(deps.aws.SQS, cfg.Events.QueueURL)
	}
	if deps.aws != nil && cfg.Metrics.Namespace != "" {
		notifier.Metrics = aws.NewMetrics(deps.aws.CloudWatch, cfg.Metrics.Namespace)
	}

	if cfg.Enabled(orders.VariantSession) {
		sd := session.Deps{Redis: deps.redis}
		if deps.aws != nil {
			sd.DynamoDB = deps.aws.DynamoDB
		}
		store, err := session.New(cfg.Session, sd)
		if err != nil {
			return nil, fmt.Errorf("session store: %w", err)
		}

		var loader catalog.Loader = catalog.NewStatic(cfg.Catalog)
		if cfg.CatalogSource == config.CatalogCommerce {
			loader = commerce.Catalog{Client: deps.commerce, PageSize: cfg.Commerce.ProductPageSize}
		}

		handlers.RegisterOrdersRoutes(r, handlers.HandlerConfig{
			Orders:    checkout.NewSessionOrders(store, loader, notifier, logger),
			Currency:  cfg.Currency,
			Validator: v,
			Logger:    logger,
		})
	}

	if cfg.Enabled(orders.VariantRemote) {
		flow := checkout.NewRemoteOrders(deps.commerce, notifier, logger)
		flow.ProductPageSize = cfg.Commerce.ProductPageSize
		flow.OrderPageSize = cfg.Commerce.OrderPageSize
		handlers.RegisterRemoteRoutes(r, handlers.RemoteHandlerConfig{
			Orders:    flow,
			Validator: v,
			Logger:    logger,
		})
	}

	return r, nil
}

// dependencies holds the external clients; each is nil unless configured.
type dependencies struct {
	aws      *aws.AWSClients
	redis    *redis.Client
	commerce *commerce.Client
}

func connect(ctx context.Context, cfg config.Config) (dependencies, error) {
	var deps dependencies

	if cfg.NeedsAWS() {
		clients, err := aws.NewAWSClients(ctx)
		if err != nil {
			return deps, fmt.Errorf("failed to init aws clients: %w", err)
		}
		deps.aws = clients
	}

	if cfg.SessionBackend() == session.BackendRedis {
		deps.redis = redis.NewClient(&redis.Options{Addr: cfg.Session.RedisAddr})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := deps.redis.Ping(pingCtx).Err(); err != nil {
			return deps, fmt.Errorf("redis connection failed: %w", err)
		}
	}

	if cfg.NeedsCommerce() {
		client, err := commerce.New(cfg.Commerce.Config, nil)
		if err != nil {
			return deps, err
		}
		deps.commerce = client
	}

	return deps, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	logger := telemetry.NewLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	deps, err := connect(context.Background(), cfg)
	if err != nil {
		logger.Error("failed to connect dependencies", "error", err)
		os.Exit(1)
	}

	r, err := setupRouter(cfg, deps, logger)
	if err != nil {
		logger.Error("failed to set up router", "error", err)
		os.Exit(1)
	}

	// RUN_LOCAL=true runs a plain HTTP server for development.
	if cfg.RunLocal {
		logger.Info("running local server", "addr", cfg.HTTPAddr, "variants", cfg.Variants)
		if err := r.Run(cfg.HTTPAddr); err != nil {
			logger.Error("failed to run local server", "error", err)
			os.Exit(1)
		}
		return
	}

	// lambda adapter
	adapter := ginadapter.New(r)

	lambda.Start(func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		return adapter.ProxyWithContext(ctx, req)
	})
}
