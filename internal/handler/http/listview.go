package http

import (
	"context"
	"net/url"
	"time"

	"github.com/cmlabs-hris/hris-admin-console/internal/pkg/listquery"
	"github.com/cmlabs-hris/hris-admin-console/internal/pkg/querycache"
	"github.com/cmlabs-hris/hris-admin-console/internal/pkg/sse"
)

// EventViewUpdated tells a page that the data it showed as pending has arrived.
const EventViewUpdated = "view.updated"

// listView is the server-held state of one list page: its parameter object, the
// observer that keeps the previous page on screen while the next one loads, and
// the search debouncer. The console serves one operator, so each list page has one view.
type listView[T any] struct {
	topic      string
	initial    func() listquery.Params
	filters    []string
	query      func(listquery.Params) querycache.Spec[T]
	validate   func(listquery.Params) error
	renderWait time.Duration

	ctrl   *listquery.Controller
	obs    *querycache.Observer[T]
	search *listquery.Debouncer[string]
}

type listViewConfig[T any] struct {
	Topic      string
	Initial    func() listquery.Params
	Filters    []string
	Query      func(listquery.Params) querycache.Spec[T]
	Validate   func(listquery.Params) error
	Debounce   time.Duration
	RenderWait time.Duration
	Hub        *sse.Hub
}

func newListView[T any](cache *querycache.Client, cfg listViewConfig[T]) *listView[T] {
	initial := cfg.Initial()
	v := &listView[T]{
		topic:      cfg.Topic,
		initial:    cfg.Initial,
		filters:    cfg.Filters,
		query:      cfg.Query,
		validate:   cfg.Validate,
		renderWait: cfg.RenderWait,
		ctrl:       listquery.NewController(initial, initial.Limit),
		obs:        querycache.NewObserver[T](cache),
	}
	v.search = listquery.NewDebouncer(cfg.Debounce, func(text string) {
		v.ctrl.SetSearch(text)
	})
	if cfg.Hub != nil {
		v.obs.OnResult(func(s querycache.Snapshot[T]) {
			cfg.Hub.Publish(cfg.Topic, sse.Event{Name: EventViewUpdated, Data: map[string]any{
				"key": s.Key.String(),
			}})
		})
	}
	return v
}

// Load applies the actions in q, switches the observer to the resulting
// parameters and waits up to the render wait for data. Parameters that fail
// validation are rolled back and returned with the error.
func (v *listView[T]) Load(ctx context.Context, q url.Values) (listquery.Params, querycache.Snapshot[T], error) {
	prev := v.ctrl.Params()
	params := v.ctrl.Apply(q, v.filters...)
	if v.validate != nil {
		if err := v.validate(params); err != nil {
			v.ctrl.Reset(prev)
			return params, v.obs.Snapshot(), err
		}
	}

	snap := v.obs.SetQuery(v.query(params))
	if snap.IsFetching && v.renderWait > 0 {
		waitCtx, cancel := context.WithTimeout(ctx, v.renderWait)
		defer cancel()
		snap = v.obs.Wait(waitCtx)
	}
	return params, snap, nil
}

// Search submits one keystroke. It reports false when a later keystroke
// superseded it or ctx ended first.
func (v *listView[T]) Search(ctx context.Context, text string) bool {
	select {
	case fired := <-v.search.Submit(text):
		return fired
	case <-ctx.Done():
		return false
	}
}

// Params returns the current parameter object.
func (v *listView[T]) Params() listquery.Params {
	return v.ctrl.Params()
}

// Reset returns the view to its initial parameters.
func (v *listView[T]) Reset() {
	v.search.Cancel()
	v.ctrl.Reset(v.initial())
}

// pending reports whether snap shows placeholder or no data while a load is outstanding.
func pending[T any](snap querycache.Snapshot[T]) bool {
	return snap.Err == nil && (snap.IsPlaceholder || (snap.IsFetching && !snap.HasData))
}

// ListViewSettings are the timings shared by every list page.
type ListViewSettings struct {
	SearchDebounce time.Duration
	RenderWait     time.Duration
}
