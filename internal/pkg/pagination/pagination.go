package pagination

import (
	"fmt"
	"math"
)

// maxVisiblePages is the largest page count rendered without ellipses.
const maxVisiblePages = 5

// LimitOptions are the page sizes offered by the page-size picker.
var LimitOptions = []int{10, 20, 50, 100}

// Meta is the pagination block returned next to every list page.
type Meta struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

// NewMeta derives TotalPages from total and limit.
func NewMeta(total, page, limit int) Meta {
	totalPages := 0
	if limit > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(limit)))
	}
	return Meta{Total: total, Page: page, Limit: limit, TotalPages: totalPages}
}

// Item is one slot in the page-number strip: a page or an ellipsis.
type Item struct {
	Page     int
	Ellipsis bool
}

// Window computes the visible page numbers for current page p out of t pages.
func Window(p, t int) []Item {
	if t <= 0 {
		return nil
	}

	items := make([]Item, 0, maxVisiblePages+2)
	if t <= maxVisiblePages {
		for i := 1; i <= t; i++ {
			items = append(items, Item{Page: i})
		}
		return items
	}

	items = append(items, Item{Page: 1})
	if p > 3 {
		items = append(items, Item{Ellipsis: true})
	}

	start := max(2, p-1)
	end := min(t-1, p+1)
	for i := start; i <= end; i++ {
		items = append(items, Item{Page: i})
	}

	if p < t-2 {
		items = append(items, Item{Ellipsis: true})
	}
	items = append(items, Item{Page: t})

	return dedupe(items)
}

func dedupe(items []Item) []Item {
	out := items[:0]
	for i, item := range items {
		if i > 0 && items[i-1] == item {
			continue
		}
		out = append(out, item)
	}
	return out
}

// Range returns the 1-based index of the first and last item shown on the page.
func (m Meta) Range() (start, end int) {
	if m.Total == 0 {
		return 0, 0
	}
	start = (m.Page-1)*m.Limit + 1
	end = min(start+m.Limit-1, m.Total)
	return start, end
}

// Summary is the page info line under a table.
func (m Meta) Summary() string {
	if m.Total == 0 {
		return "0 results"
	}
	start, end := m.Range()
	return fmt.Sprintf("Showing %d to %d of %d results", start, end, m.Total)
}

// ShowControls reports whether page-number controls are worth rendering.
func (m Meta) ShowControls() bool {
	return m.TotalPages > 1
}

func (m Meta) HasPrev() bool { return m.Page > 1 }

func (m Meta) HasNext() bool { return m.Page < m.TotalPages }
