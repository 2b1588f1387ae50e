package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/imrishuroy/orderdesk/internal/catalog"
	"github.com/imrishuroy/orderdesk/internal/checkout"
	"github.com/imrishuroy/orderdesk/internal/orders"
	"github.com/imrishuroy/orderdesk/internal/validation"
)

// RemoteHandlerConfig groups dependencies for the remote order routes.
type RemoteHandlerConfig struct {
	Orders    *checkout.RemoteOrders
	Validator *validatorv10.Validate
	Logger    *slog.Logger
}

// RegisterRemoteRoutes registers the remote variant under /app: orders are
// created on the commerce platform through a draft order.
func RegisterRemoteRoutes(r *gin.Engine, cfg RemoteHandlerConfig) {
	v := cfg.Validator
	if v == nil {
		v = validation.New()
	}
	logger := loggerOrDefault(cfg.Logger)

	app := r.Group("/app")

	app.GET("", func(c *gin.Context) {
		list, err := cfg.Orders.List(c.Request.Context())
		if err != nil {
			loadFailed(c, logger, "load orders", err)
			return
		}
		if list == nil {
			list = []orders.Summary{}
		}
		c.JSON(http.StatusOK, gin.H{"orders": list})
	})

	app.GET("/create-order", func(c *gin.Context) {
		products, err := cfg.Orders.Products(c.Request.Context())
		if err != nil {
			loadFailed(c, logger, "load products", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"products":        products,
			"variant_mapping": catalog.VariantMapping(products),
		})
	})

	app.POST("/create-order", func(c *gin.Context) {
		ctx := c.Request.Context()

		form, err := validation.BindRemoteForm(c, v)
		if err != nil {
			logger.WarnContext(ctx, "rejected order form", "error", err)
			rejected(c, err, nil)
			return
		}

		// CommitDraft already logged operational failures with detail.
		if _, err := cfg.Orders.Create(ctx, checkout.RemoteSubmission{
			SelectedProductIDs: form.SelectedProductIDs,
			VariantMapping:     form.VariantMapping,
		}); err != nil {
			rejected(c, err, form.SelectedProductIDs)
			return
		}

		c.Redirect(http.StatusSeeOther, "/app")
	})
}
