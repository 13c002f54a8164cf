package listquery

import (
	"sync"
	"time"
)

// DefaultDebounce is the keystroke coalescing interval of search inputs.
const DefaultDebounce = 300 * time.Millisecond

// Debouncer delays a value until no newer value arrives for the configured interval.
// Each Submit cancels the pending timer of the previous one.
type Debouncer[T any] struct {
	delay time.Duration
	fire  func(T)

	mu      sync.Mutex
	seq     uint64
	timer   *time.Timer
	pending chan bool
}

func NewDebouncer[T any](delay time.Duration, fire func(T)) *Debouncer[T] {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Debouncer[T]{delay: delay, fire: fire}
}

// Submit schedules v. The returned channel receives true once v has been fired,
// or false if a later Submit or Cancel superseded it.
func (d *Debouncer[T]) Submit(v T) <-chan bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.supersede()

	d.seq++
	seq := d.seq
	done := make(chan bool, 1)
	d.pending = done
	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		if d.seq != seq {
			d.mu.Unlock()
			return
		}
		d.timer = nil
		d.pending = nil
		d.mu.Unlock()

		d.fire(v)
		done <- true
	})
	return done
}

// Cancel drops the pending value, if any.
func (d *Debouncer[T]) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.supersede()
	d.seq++
}

func (d *Debouncer[T]) supersede() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if d.pending != nil {
		d.pending <- false
		d.pending = nil
	}
}
