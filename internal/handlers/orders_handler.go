package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/imrishuroy/orderdesk/internal/checkout"
	"github.com/imrishuroy/orderdesk/internal/orders"
	"github.com/imrishuroy/orderdesk/internal/validation"
)

// HandlerConfig groups dependencies for the session order routes.
type HandlerConfig struct {
	Orders    *checkout.SessionOrders
	Currency  string
	Validator *validatorv10.Validate
	Logger    *slog.Logger
}

// RegisterOrdersRoutes registers the session variant: orders live in the
// visitor's session cookie.
func RegisterOrdersRoutes(r *gin.Engine, cfg HandlerConfig) {
	v := cfg.Validator
	if v == nil {
		v = validation.New()
	}
	logger := loggerOrDefault(cfg.Logger)

	r.GET("/", func(c *gin.Context) {
		ctx := c.Request.Context()

		list, err := cfg.Orders.List(ctx, c.GetHeader("Cookie"))
		if err != nil {
			loadFailed(c, logger, "load session orders", err)
			return
		}

		summaries := make([]orders.Summary, 0, len(list))
		for _, o := range list {
			summaries = append(summaries, orders.Summarize(o, cfg.Currency))
		}
		c.JSON(http.StatusOK, gin.H{"orders": summaries})
	})

	r.GET("/create-order", func(c *gin.Context) {
		products, err := cfg.Orders.Products(c.Request.Context())
		if err != nil {
			loadFailed(c, logger, "load catalog", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"products": products, "currency": cfg.Currency})
	})

	r.POST("/create-order", func(c *gin.Context) {
		ctx := c.Request.Context()

		form, err := validation.BindSessionForm(c, v)
		if err != nil {
			rejected(c, err, nil)
			return
		}

		res, err := cfg.Orders.Create(ctx, c.GetHeader("Cookie"), form.Products)
		if err != nil {
			if !orders.IsUserError(err) {
				logger.ErrorContext(ctx, "order creation error", "variant", orders.VariantSession, "error", err)
			}
			rejected(c, err, form.Products)
			return
		}

		c.Header("Set-Cookie", res.SetCookie)
		c.Redirect(http.StatusSeeOther, "/")
	})
}

// rejected re-renders the form state: the message plus the submitted selection.
func rejected(c *gin.Context, err error, selected []string) {
	if selected == nil {
		selected = []string{}
	}
	c.JSON(http.StatusUnprocessableEntity, gin.H{
		"error":    orders.UserMessage(err),
		"selected": selected,
	})
}

func loadFailed(c *gin.Context, logger *slog.Logger, what string, err error) {
	logger.ErrorContext(c.Request.Context(), what, "error", err)
	c.JSON(http.StatusBadGateway, gin.H{"error": "failed to " + what})
}

func loggerOrDefault(l *slog.Logger) *slog.Logger {
	if l != nil {
		return l
	}
	return slog.Default()
}
