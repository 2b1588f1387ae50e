package orders

import "strings"

// Selection is the ordered, duplicate-free set of product IDs chosen by the user.
type Selection []string

// CollectSelection normalises raw submitted identifiers. Blank values are
// skipped and repeated identifiers collapse to their first occurrence, so a
// product can be ordered at most once. An empty result is valid here.
func CollectSelection(values []string) Selection {
	seen := make(map[string]struct{}, len(values))
	sel := make(Selection, 0, len(values))
	for _, v := range values {
		id := strings.TrimSpace(v)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		sel = append(sel, id)
	}
	return sel
}

// Contains reports whether id was selected.
func (s Selection) Contains(id string) bool {
	for _, v := range s {
		if v == id {
			return true
		}
	}
	return false
}
