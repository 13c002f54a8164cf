package listquery

import (
	"net/url"
	"strconv"
	"sync"
)

// Controller owns the parameter object of one list view.
type Controller struct {
	mu     sync.RWMutex
	params Params
}

// NewController starts from initial, normalized with defaultLimit.
func NewController(initial Params, defaultLimit int) *Controller {
	return &Controller{params: initial.Normalize(defaultLimit)}
}

// Params returns a copy of the current parameter object.
func (c *Controller) Params() Params {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.params.Clone()
}

func (c *Controller) update(fn func(Params) Params) Params {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.params = fn(c.params)
	return c.params.Clone()
}

// Reset replaces the parameter object wholesale.
func (c *Controller) Reset(p Params) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.params = p.Clone()
}

func (c *Controller) SetSearch(text string) Params {
	return c.update(func(p Params) Params { return p.WithSearch(text) })
}

func (c *Controller) SetSort(key string) Params {
	return c.update(func(p Params) Params { return p.WithSort(key) })
}

// sortTo toggles towards the requested column and direction, so applying
// the same pair twice leaves the params unchanged.
func (c *Controller) sortTo(key string, order SortOrder) {
	if order != SortAsc && order != SortDesc {
		order = DefaultSortOrder
	}
	for range 2 {
		if p := c.Params(); p.SortBy == key && p.SortOrder == order {
			return
		}
		c.SetSort(key)
	}
}

func (c *Controller) SetPage(n int) Params {
	return c.update(func(p Params) Params { return p.WithPage(n) })
}

func (c *Controller) SetLimit(n int) Params {
	return c.update(func(p Params) Params { return p.WithLimit(n) })
}

func (c *Controller) SetFilter(field, value string) Params {
	return c.update(func(p Params) Params { return p.WithFilter(field, value) })
}

// Apply maps query-string actions onto the mutators in a fixed order:
// search, filters, sort, limit, page. Only keys present in q are applied.
func (c *Controller) Apply(q url.Values, filterFields ...string) Params {
	if q.Has("search") {
		c.SetSearch(q.Get("search"))
	}
	for _, field := range filterFields {
		if q.Has(field) {
			c.SetFilter(field, q.Get(field))
		}
	}
	if key := q.Get("sortBy"); key != "" {
		c.sortTo(key, SortOrder(q.Get("sortOrder")))
	}
	if n, err := strconv.Atoi(q.Get("limit")); err == nil {
		c.SetLimit(n)
	}
	if n, err := strconv.Atoi(q.Get("page")); err == nil {
		c.SetPage(n)
	}
	return c.Params()
}
