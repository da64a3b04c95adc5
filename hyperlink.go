package xlbind

import "strings"

// Hyperlink is a link attached to a cell or range of a sheet.
type Hyperlink struct {
	Ref      string // "B4" or "B4:C4"
	Target   string // URL, or a location such as "Sheet2!A1"
	External bool
	Display  string
	Tooltip  string
}

func (h *Hyperlink) clone() *Hyperlink {
	c := *h
	return &c
}

// HyperlinkValue is a bindable value that writes its display text into the
// cell and attaches the URL as a hyperlink.
type HyperlinkValue struct {
	URL     string
	Display string
}

// String returns the display text for the hyperlink.
func (h HyperlinkValue) String() string {
	if h.Display != "" {
		return h.Display
	}
	return h.URL
}

// NewHyperlink creates a HyperlinkValue. It is available to binding
// expressions as hyperlink(url, display).
func NewHyperlink(url, display string) HyperlinkValue {
	return HyperlinkValue{URL: url, Display: display}
}

// SetHyperlink attaches target to the cell at c, replacing any link on that
// exact cell.
func (s *Sheet) SetHyperlink(c Cell, target, display string) {
	ref := c.String()
	s.RemoveHyperlink(c)
	s.Hyperlinks = append(s.Hyperlinks, &Hyperlink{
		Ref:      ref,
		Target:   target,
		External: isExternalTarget(target),
		Display:  display,
	})
}

// RemoveHyperlink removes the link on the cell at c. The collection becomes
// nil when the last link goes.
func (s *Sheet) RemoveHyperlink(c Cell) {
	ref := c.String()
	s.Hyperlinks = dropEmpty(removeWhere(s.Hyperlinks, func(h *Hyperlink) bool {
		return h.Ref == ref
	}))
}

// isExternalTarget guesses the link type: URLs and mail links leave the
// workbook, everything else is a location inside it.
func isExternalTarget(target string) bool {
	return strings.Contains(target, "://") || strings.HasPrefix(strings.ToLower(target), "mailto:")
}

func removeWhere[T any](items []T, drop func(T) bool) []T {
	out := items[:0]
	for _, it := range items {
		if !drop(it) {
			out = append(out, it)
		}
	}
	clear(items[len(out):])
	return out
}

func dropEmpty[T any](items []T) []T {
	if len(items) == 0 {
		return nil
	}
	return items
}
