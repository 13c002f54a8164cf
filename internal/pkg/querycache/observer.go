package querycache

import (
	"context"
	"sync"
)

// Snapshot is what a view renders from. While a new key is pending, Data holds
// the previous key's value and IsPlaceholder is set.
type Snapshot[T any] struct {
	Key           Key
	Data          T
	HasData       bool
	IsPlaceholder bool
	IsFetching    bool
	Err           error
}

// Observer follows one key at a time on behalf of a view and keeps the last
// data visible while the next key loads. Results for keys the observer has
// moved away from, or that arrive after Close, are discarded.
type Observer[T any] struct {
	client *Client

	mu      sync.Mutex
	spec    *Spec[T]
	gen     uint64
	snap    Snapshot[T]
	done    chan struct{}
	closed  bool
	changed func(Snapshot[T])
}

func NewObserver[T any](client *Client) *Observer[T] {
	done := make(chan struct{})
	close(done)
	return &Observer[T]{client: client, done: done}
}

// OnResult registers fn to run whenever a fetch result is accepted.
func (o *Observer[T]) OnResult(fn func(Snapshot[T])) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.changed = fn
}

// SetQuery switches the observer to spec and starts loading it. The returned
// snapshot is immediately renderable.
func (o *Observer[T]) SetQuery(spec Spec[T]) Snapshot[T] {
	o.mu.Lock()
	if o.closed {
		snap := o.snap
		o.mu.Unlock()
		return snap
	}

	if o.spec == nil || !o.spec.Key.Equal(spec.Key) {
		if o.spec != nil {
			o.client.observe(o.spec.Key, -1)
		}
		o.client.observe(spec.Key, 1)
	}

	o.gen++
	gen := o.gen
	s := spec
	o.spec = &s

	prev := o.snap
	next := Snapshot[T]{Key: spec.Key, IsFetching: true}
	if v, ok, _ := Peek[T](o.client, spec.Key); ok {
		next.Data, next.HasData = v, true
	} else if prev.HasData {
		next.Data, next.HasData, next.IsPlaceholder = prev.Data, true, true
	}
	o.snap = next
	done := make(chan struct{})
	o.done = done
	o.mu.Unlock()

	go o.load(gen, spec, done)
	return next
}

func (o *Observer[T]) load(gen uint64, spec Spec[T], done chan struct{}) {
	defer close(done)

	v, err := Query(context.Background(), o.client, spec)

	o.mu.Lock()
	if o.closed || o.gen != gen {
		o.mu.Unlock()
		return
	}
	snap := Snapshot[T]{Key: spec.Key, Err: err}
	if err == nil {
		snap.Data, snap.HasData = v, true
	} else if o.snap.HasData {
		snap.Data, snap.HasData, snap.IsPlaceholder = o.snap.Data, true, o.snap.IsPlaceholder
	}
	o.snap = snap
	fn := o.changed
	o.mu.Unlock()

	if fn != nil {
		fn(snap)
	}
}

// Snapshot returns the current state, preferring newer cached data for the current key.
func (o *Observer[T]) Snapshot() Snapshot[T] {
	o.mu.Lock()
	defer o.mu.Unlock()

	snap := o.snap
	if o.spec == nil || o.closed {
		return snap
	}
	if v, ok, _ := Peek[T](o.client, o.spec.Key); ok {
		snap.Data, snap.HasData, snap.IsPlaceholder = v, true, false
	}
	return snap
}

// Wait blocks until the pending load finishes or ctx is done, then returns the current snapshot.
func (o *Observer[T]) Wait(ctx context.Context) Snapshot[T] {
	o.mu.Lock()
	done := o.done
	o.mu.Unlock()

	select {
	case <-done:
	case <-ctx.Done():
	}
	return o.Snapshot()
}

// Close detaches the observer. Loads still running complete into the cache only.
func (o *Observer[T]) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return
	}
	o.closed = true
	if o.spec != nil {
		o.client.observe(o.spec.Key, -1)
	}
}
