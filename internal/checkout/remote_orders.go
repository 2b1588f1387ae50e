package checkout

import (
	"context"
	"errors"
	"log/slog"

	"github.com/imrishuroy/orderdesk/internal/orders"
)

// DraftOrderAPI is the two-phase draft order surface of the commerce platform.
type DraftOrderAPI interface {
	CreateDraftOrder(ctx context.Context, lines []orders.DraftLine) (string, error)
	CompleteDraftOrder(ctx context.Context, draftID string) (orders.ConfirmedOrder, error)
}

// RemoteAPI is everything the remote workflow needs from the platform
// (implemented by commerce.Client).
type RemoteAPI interface {
	DraftOrderAPI
	ListProducts(ctx context.Context, first int) ([]orders.Product, error)
	ListOrders(ctx context.Context, first int) ([]orders.Summary, error)
}

// Page sizes used when the caller does not configure them.
const (
	DefaultProductPageSize = 20
	DefaultOrderPageSize   = 100
)

// RemoteOrders creates and lists orders on the commerce platform.
type RemoteOrders struct {
	API             RemoteAPI
	ProductPageSize int
	OrderPageSize   int
	Notifier        *Notifier
	Logger          *slog.Logger
}

// NewRemoteOrders returns a RemoteOrders flow with default page sizes.
func NewRemoteOrders(api RemoteAPI, notifier *Notifier, logger *slog.Logger) *RemoteOrders {
	if logger == nil {
		logger = slog.Default()
	}
	return &RemoteOrders{
		API:             api,
		ProductPageSize: DefaultProductPageSize,
		OrderPageSize:   DefaultOrderPageSize,
		Notifier:        notifier,
		Logger:          logger,
	}
}

// RemoteSubmission is the decoded remote order form.
type RemoteSubmission struct {
	SelectedProductIDs []string
	VariantMapping     map[string]string
}

// Products loads the first page of the remote catalog, sorted by title.
func (f *RemoteOrders) Products(ctx context.Context) ([]orders.Product, error) {
	return f.API.ListProducts(ctx, f.ProductPageSize)
}

// List returns the most recent remote orders, newest first.
func (f *RemoteOrders) List(ctx context.Context) ([]orders.Summary, error) {
	return f.API.ListOrders(ctx, f.OrderPageSize)
}

// Create resolves the submission to draft lines and commits them with CommitDraft.
func (f *RemoteOrders) Create(ctx context.Context, sub RemoteSubmission) (orders.ConfirmedOrder, error) {
	confirmed, lines, err := f.create(ctx, sub)
	f.Notifier.Outcome(ctx, orders.VariantRemote, err)
	if err != nil {
		return orders.ConfirmedOrder{}, err
	}
	f.Notifier.Committed(ctx, orders.CommittedEvent{
		OrderID:     confirmed.ID,
		Name:        confirmed.Name,
		Variant:     orders.VariantRemote,
		Total:       confirmed.Total,
		ItemCount:   lines,
		CommittedAt: confirmed.CreatedAt,
	})
	return confirmed, nil
}

func (f *RemoteOrders) create(ctx context.Context, sub RemoteSubmission) (orders.ConfirmedOrder, int, error) {
	asm, err := orders.AssembleDraft(orders.CollectSelection(sub.SelectedProductIDs), sub.VariantMapping)
	if len(asm.Unmatched) > 0 {
		f.Logger.WarnContext(ctx, "dropping products without a variant", "product_ids", asm.Unmatched)
	}
	if err != nil {
		return orders.ConfirmedOrder{}, 0, err
	}
	confirmed, err := CommitDraft(ctx, f.API, asm.Lines, f.Logger)
	return confirmed, len(asm.Lines), err
}

// CommitDraft runs the two-phase remote commit: create a draft order, then
// complete it. Phase two only runs once phase one returned a draft with no
// user errors. A user error aborts with the first message; a draft whose
// completion fails is left on the platform as is. Transport failures are
// logged and returned as *orders.TransportError. Nothing is retried.
func CommitDraft(ctx context.Context, api DraftOrderAPI, lines []orders.DraftLine, logger *slog.Logger) (orders.ConfirmedOrder, error) {
	if logger == nil {
		logger = slog.Default()
	}

	draftID, err := api.CreateDraftOrder(ctx, lines)
	if err != nil {
		return orders.ConfirmedOrder{}, remoteFailure(ctx, logger, "draftOrderCreate", "", err)
	}

	confirmed, err := api.CompleteDraftOrder(ctx, draftID)
	if err != nil {
		return orders.ConfirmedOrder{}, remoteFailure(ctx, logger, "draftOrderComplete", draftID, err)
	}

	logger.InfoContext(ctx, "remote order committed",
		"draft_id", draftID, "order_id", confirmed.ID, "order_name", confirmed.Name, "lines", len(lines))
	return confirmed, nil
}

// remoteFailure logs a failed phase and normalises untyped errors to TransportError.
func remoteFailure(ctx context.Context, logger *slog.Logger, op, draftID string, err error) error {
	var rfe *orders.RemoteFieldError
	if errors.As(err, &rfe) {
		logger.WarnContext(ctx, "remote order rejected",
			"op", op, "draft_id", draftID, "field", rfe.Field, "message", rfe.Message)
		return err
	}

	logger.ErrorContext(ctx, "order creation error", "op", op, "draft_id", draftID, "error", err)
	var te *orders.TransportError
	if errors.As(err, &te) {
		return err
	}
	return &orders.TransportError{Op: op, Err: err}
}
