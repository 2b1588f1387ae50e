package orders

// Summarize projects a session order onto the common display shape.
func Summarize(o Order, currency string) Summary {
	lines := make([]SummaryLine, 0, len(o.Items))
	for _, it := range o.Items {
		lines = append(lines, SummaryLine{Title: it.Name, Amount: it.Price})
	}
	return Summary{
		ID:        o.ID,
		Name:      displayName(o.ID),
		CreatedAt: o.CreatedAt,
		Items:     lines,
		Total:     o.Total,
		Currency:  currency,
	}
}

// displayName is "#" followed by the last four characters of the id.
func displayName(id string) string {
	if len(id) > 4 {
		id = id[len(id)-4:]
	}
	return "#" + id
}

// NewestFirst returns a reversed copy of an append-ordered order list.
func NewestFirst(list []Order) []Order {
	out := make([]Order, len(list))
	for i, o := range list {
		out[len(list)-1-i] = o
	}
	return out
}
