package listquery

import (
	"maps"
	"net/url"
	"strconv"
)

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// DefaultSortOrder applies when sorting switches to a new key.
const DefaultSortOrder = SortDesc

// Params is the parameter object of one list view. It doubles as the cache key of the fetch.
type Params struct {
	Page      int
	Limit     int
	SortBy    string
	SortOrder SortOrder
	Search    string
	Filters   map[string]string
}

// Clone returns a deep copy so mutators never share the filter map.
func (p Params) Clone() Params {
	p.Filters = maps.Clone(p.Filters)
	return p
}

// Filter returns the value of a filter field, or "" when unset.
func (p Params) Filter(field string) string {
	return p.Filters[field]
}

// Values renders the outgoing query string. Unset search and filters are omitted.
func (p Params) Values() url.Values {
	v := url.Values{}
	if p.Page > 0 {
		v.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		v.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.SortBy != "" {
		v.Set("sortBy", p.SortBy)
	}
	if p.SortOrder != "" {
		v.Set("sortOrder", string(p.SortOrder))
	}
	if p.Search != "" {
		v.Set("search", p.Search)
	}
	for field, value := range p.Filters {
		if value != "" {
			v.Set(field, value)
		}
	}
	return v
}

// Normalize enforces page ≥ 1, limit > 0 and drops empty filter values.
func (p Params) Normalize(defaultLimit int) Params {
	p = p.Clone()
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = defaultLimit
	}
	if p.SortBy != "" && p.SortOrder != SortAsc && p.SortOrder != SortDesc {
		p.SortOrder = DefaultSortOrder
	}
	for field, value := range p.Filters {
		if value == "" {
			delete(p.Filters, field)
		}
	}
	return p
}

// WithSearch sets the search text and returns to the first page.
func (p Params) WithSearch(text string) Params {
	p = p.Clone()
	p.Search = text
	p.Page = 1
	return p
}

// WithSort toggles the direction when key is already the sort key, otherwise sorts by key descending.
func (p Params) WithSort(key string) Params {
	p = p.Clone()
	if p.SortBy == key {
		if p.SortOrder == SortAsc {
			p.SortOrder = SortDesc
		} else {
			p.SortOrder = SortAsc
		}
		return p
	}
	p.SortBy = key
	p.SortOrder = DefaultSortOrder
	return p
}

// WithPage moves to page n, clamped to 1.
func (p Params) WithPage(n int) Params {
	p = p.Clone()
	p.Page = max(n, 1)
	return p
}

// WithLimit changes the page size and returns to the first page. Non-positive sizes are ignored.
func (p Params) WithLimit(n int) Params {
	p = p.Clone()
	if n > 0 {
		p.Limit = n
	}
	p.Page = 1
	return p
}

// WithFilter sets or clears a filter field and returns to the first page.
func (p Params) WithFilter(field, value string) Params {
	p = p.Clone()
	if value == "" {
		delete(p.Filters, field)
	} else {
		if p.Filters == nil {
			p.Filters = make(map[string]string)
		}
		p.Filters[field] = value
	}
	p.Page = 1
	return p
}
