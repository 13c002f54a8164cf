package querycache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-admin-console/internal/pkg/sse"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultStaleTime    = 30 * time.Second
	DefaultGCTime       = 10 * time.Minute
	DefaultFetchTimeout = 30 * time.Second
)

// Event names published on the hub, on the topic of the affected key.
const (
	EventUpdated     = "query.updated"
	EventInvalidated = "query.invalidated"
)

var ErrTypeMismatch = errors.New("cached value has unexpected type")

// Options controls staleness and eviction of one entry.
type Options struct {
	StaleTime time.Duration
	GCTime    time.Duration
}

// Fetcher loads the value of a key from its backend.
type Fetcher[T any] func(ctx context.Context) (T, error)

// Spec binds a key to the fetcher that fills it.
type Spec[T any] struct {
	Key     Key
	Options Options
	Fetch   Fetcher[T]
}

// Client is the request cache shared by every view of the console.
//
// Every fetch start and every invalidation draws a number from one sequence.
// An entry is served only while its data is newer than its last invalidation,
// and data only replaces data fetched by an older request.
type Client struct {
	mu       sync.Mutex
	entries  map[string]*entry
	seq      uint64
	floor    uint64
	group    singleflight.Group
	hub      *sse.Hub
	defaults Options
	timeout  time.Duration
	now      func() time.Time
}

type entry struct {
	key        Key
	opts       Options
	data       any
	hasData    bool
	err        error
	updatedAt  time.Time
	lastUsed   time.Time
	dataSeq    uint64
	invalidSeq uint64
	observers  int
}

func (e *entry) valid() bool {
	return e.hasData && e.dataSeq > e.invalidSeq
}

type Option func(*Client)

// WithDefaults sets the options used when a Spec leaves them zero.
func WithDefaults(opts Options) Option {
	return func(c *Client) { c.defaults = opts }
}

// WithFetchTimeout bounds every fetch, including background refreshes.
func WithFetchTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

func withClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// NewClient returns an empty cache. hub receives update and invalidation events; nil allocates a private hub.
func NewClient(hub *sse.Hub, opts ...Option) *Client {
	if hub == nil {
		hub = sse.NewHub()
	}
	c := &Client{
		entries:  make(map[string]*entry),
		hub:      hub,
		defaults: Options{StaleTime: DefaultStaleTime, GCTime: DefaultGCTime},
		timeout:  DefaultFetchTimeout,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Hub returns the hub cache events are published on.
func (c *Client) Hub() *sse.Hub {
	return c.hub
}

// Query returns the value for spec.Key. Fresh entries are served from memory;
// stale entries are served and refreshed in the background; missing or
// invalidated entries are fetched before returning. Concurrent fetches of one key are coalesced.
func Query[T any](ctx context.Context, c *Client, spec Spec[T]) (T, error) {
	var zero T
	v, err := c.query(ctx, spec.Key, spec.Options, erase(spec.Fetch))
	if err != nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %s holds %T", ErrTypeMismatch, spec.Key, v)
	}
	return t, nil
}

// Peek returns the cached value for key without fetching. ok is false when the
// entry is missing or invalidated.
func Peek[T any](c *Client, key Key) (value T, ok bool, fresh bool) {
	v, ok, fresh := c.peek(key)
	if !ok {
		return value, false, false
	}
	value, ok = v.(T)
	return value, ok, fresh && ok
}

func erase[T any](fetch Fetcher[T]) func(context.Context) (any, error) {
	return func(ctx context.Context) (any, error) {
		return fetch(ctx)
	}
}

func (c *Client) resolve(opts Options) Options {
	if opts.StaleTime <= 0 {
		opts.StaleTime = c.defaults.StaleTime
	}
	if opts.GCTime <= 0 {
		opts.GCTime = c.defaults.GCTime
	}
	return opts
}

// entryLocked returns the entry for key, creating it if needed. c.mu must be held.
func (c *Client) entryLocked(key Key) *entry {
	id := key.String()
	e, ok := c.entries[id]
	if !ok {
		e = &entry{key: key, opts: c.defaults}
		c.entries[id] = e
	}
	return e
}

func (c *Client) query(ctx context.Context, key Key, opts Options, fetch func(context.Context) (any, error)) (any, error) {
	now := c.now()

	c.mu.Lock()
	e := c.entryLocked(key)
	e.opts = c.resolve(opts)
	e.lastUsed = now
	if e.valid() {
		data := e.data
		stale := now.Sub(e.updatedAt) >= e.opts.StaleTime
		c.mu.Unlock()
		if stale {
			c.refresh(key, fetch)
		}
		return data, nil
	}
	c.mu.Unlock()

	return c.fetch(ctx, key, fetch)
}

// fetch joins or starts the shared flight for key and waits for it or for ctx.
func (c *Client) fetch(ctx context.Context, key Key, fetch func(context.Context) (any, error)) (any, error) {
	ch := c.start(ctx, key, fetch, false)
	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// refresh starts a background fetch for key unless one is already in flight.
func (c *Client) refresh(key Key, fetch func(context.Context) (any, error)) {
	c.start(context.Background(), key, fetch, true)
}

func (c *Client) start(ctx context.Context, key Key, fetch func(context.Context) (any, error), background bool) <-chan singleflight.Result {
	id := key.String()
	return c.group.DoChan(id, func() (any, error) {
		c.mu.Lock()
		c.seq++
		seq := c.seq
		c.mu.Unlock()

		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()

		v, err := fetch(fctx)
		c.store(key, seq, v, err, background)
		return v, err
	})
}

func (c *Client) store(key Key, seq uint64, v any, err error, background bool) {
	c.mu.Lock()
	if seq <= c.floor {
		c.mu.Unlock()
		return
	}
	e := c.entryLocked(key)
	if err != nil {
		e.err = err
		c.mu.Unlock()
		if background {
			slog.Warn("Background refresh failed", "key", key.String(), "error", err)
		}
		return
	}
	if seq <= e.dataSeq {
		c.mu.Unlock()
		slog.Debug("Dropped out-of-order response", "key", key.String(), "seq", seq)
		return
	}
	e.data = v
	e.hasData = true
	e.err = nil
	e.dataSeq = seq
	e.updatedAt = c.now()
	valid := e.valid()
	c.mu.Unlock()

	if valid {
		c.hub.Publish(key.Topic(), sse.Event{Name: EventUpdated, Data: map[string]any{
			"key":        key.String(),
			"background": background,
		}})
	}
}

func (c *Client) peek(key Key) (any, bool, bool) {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key.String()]
	if !ok || !e.valid() {
		return nil, false, false
	}
	e.lastUsed = now
	return e.data, true, now.Sub(e.updatedAt) < e.opts.StaleTime
}

// Invalidate marks every entry addressed by prefix as unservable. In-flight fetches
// of those keys are detached so later reads start a new request.
func (c *Client) Invalidate(prefix Key) int {
	c.mu.Lock()
	c.seq++
	seq := c.seq
	n := 0
	for id, e := range c.entries {
		if e.key.HasPrefix(prefix) {
			e.invalidSeq = seq
			c.group.Forget(id)
			n++
		}
	}
	c.mu.Unlock()

	slog.Debug("Invalidated queries", "prefix", prefix.String(), "count", n)
	c.hub.Publish(prefix.Topic(), sse.Event{Name: EventInvalidated, Data: map[string]any{
		"prefix": prefix.String(),
	}})
	return n
}

// Remove drops the data of one exact key. Responses still in flight for it are never served.
func (c *Client) Remove(key Key) {
	id := key.String()
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[id]
	if !ok {
		return
	}
	c.seq++
	e.invalidSeq = c.seq
	e.data = nil
	e.hasData = false
	e.err = nil
	c.group.Forget(id)
}

// Clear drops every entry. Responses of requests started before the call are
// discarded. Observed keys keep their observer count but lose their data.
func (c *Client) Clear() {
	c.mu.Lock()
	c.floor = c.seq
	kept := make(map[string]*entry)
	for id, e := range c.entries {
		c.group.Forget(id)
		if e.observers > 0 {
			kept[id] = &entry{key: e.key, opts: e.opts, lastUsed: e.lastUsed, observers: e.observers}
		}
	}
	c.entries = kept
	c.mu.Unlock()
	slog.Info("Query cache cleared")
}

// GC evicts entries without observers that were not used within their gc time.
func (c *Client) GC(now time.Time) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for id, e := range c.entries {
		if e.observers > 0 {
			continue
		}
		if now.Sub(e.lastUsed) >= e.opts.GCTime {
			delete(c.entries, id)
			n++
		}
	}
	return n
}

// Len reports the number of entries, including invalidated ones.
func (c *Client) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Client) observe(key Key, delta int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.entryLocked(key)
	e.observers = max(e.observers+delta, 0)
	e.lastUsed = c.now()
}
