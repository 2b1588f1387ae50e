package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Assembly is the result of assembling a session order.
type Assembly struct {
	Order Order
	// Unmatched lists selected IDs with no catalog entry. They are dropped
	// from the order rather than rejected.
	Unmatched []string
}

// DraftAssembly is the result of assembling remote draft line items.
type DraftAssembly struct {
	Lines     []DraftLine
	Unmatched []string
}

// NewOrderID returns a time-ordered unique order identifier.
func NewOrderID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Assemble builds an Order from a selection and the current catalog. Line items
// follow catalog order. It performs no I/O.
func Assemble(sel Selection, catalog []Product, now time.Time, newID func() string) (Assembly, error) {
	if len(sel) == 0 {
		return Assembly{}, &ValidationError{Message: MsgEmptySelection}
	}

	known := make(map[string]struct{}, len(catalog))
	items := make([]Product, 0, len(sel))
	total := decimal.Zero
	for _, p := range catalog {
		if _, dup := known[p.ID]; dup {
			continue
		}
		known[p.ID] = struct{}{}
		if !sel.Contains(p.ID) {
			continue
		}
		items = append(items, p)
		total = total.Add(p.Price)
	}

	var unmatched []string
	for _, id := range sel {
		if _, ok := known[id]; !ok {
			unmatched = append(unmatched, id)
		}
	}

	if len(items) == 0 {
		return Assembly{Unmatched: unmatched}, &ValidationError{Message: MsgNothingResolved}
	}

	if newID == nil {
		newID = NewOrderID
	}
	return Assembly{
		Order: Order{
			ID:        newID(),
			Items:     items,
			Total:     total,
			CreatedAt: now.UTC(),
		},
		Unmatched: unmatched,
	}, nil
}

// AssembleDraft resolves selected product IDs to remote variant IDs, one unit each.
// IDs without a variant are dropped and reported as unmatched.
func AssembleDraft(sel Selection, variants map[string]string) (DraftAssembly, error) {
	if len(sel) == 0 {
		return DraftAssembly{}, &ValidationError{Message: MsgEmptySelection}
	}

	var out DraftAssembly
	for _, id := range sel {
		variantID := variants[id]
		if variantID == "" {
			out.Unmatched = append(out.Unmatched, id)
			continue
		}
		out.Lines = append(out.Lines, DraftLine{VariantID: variantID, Quantity: 1})
	}

	if len(out.Lines) == 0 {
		return out, &ValidationError{Message: MsgNothingResolved}
	}
	return out, nil
}
