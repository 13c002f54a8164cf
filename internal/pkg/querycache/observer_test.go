package querycache

import (
	"context"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pageSpec(page string, fetch Fetcher[string]) Spec[string] {
	return Spec[string]{Key: NewKey("employees", "list").With(url.Values{"page": {page}}), Fetch: fetch}
}

func TestObserver_KeepsPreviousDataWhileNextKeyLoads(t *testing.T) {
	c, _ := newTestClient(t)
	obs := NewObserver[string](c)
	defer obs.Close()

	obs.SetQuery(pageSpec("1", counting(new(atomic.Int32), "page-1")))
	snap := obs.Wait(context.Background())
	require.True(t, snap.HasData)
	assert.Equal(t, "page-1", snap.Data)
	assert.False(t, snap.IsPlaceholder)
	assert.False(t, snap.IsFetching)

	release := make(chan struct{})
	snap = obs.SetQuery(pageSpec("2", func(ctx context.Context) (string, error) {
		<-release
		return "page-2", nil
	}))
	assert.True(t, snap.IsPlaceholder)
	assert.True(t, snap.IsFetching)
	assert.Equal(t, "page-1", snap.Data)

	close(release)
	snap = obs.Wait(context.Background())
	assert.Equal(t, "page-2", snap.Data)
	assert.False(t, snap.IsPlaceholder)
}

func TestObserver_CachedKeyIsImmediate(t *testing.T) {
	c, _ := newTestClient(t)
	_, err := Query(context.Background(), c, pageSpec("1", counting(new(atomic.Int32), "page-1")))
	require.NoError(t, err)

	obs := NewObserver[string](c)
	defer obs.Close()

	snap := obs.SetQuery(pageSpec("1", counting(new(atomic.Int32), "unused")))
	assert.True(t, snap.HasData)
	assert.False(t, snap.IsPlaceholder)
	assert.Equal(t, "page-1", snap.Data)
}

func TestObserver_SupersededResultIsDropped(t *testing.T) {
	c, _ := newTestClient(t)
	obs := NewObserver[string](c)
	defer obs.Close()

	var results atomic.Int32
	obs.OnResult(func(Snapshot[string]) { results.Add(1) })

	slowRelease := make(chan struct{})
	obs.SetQuery(pageSpec("1", func(ctx context.Context) (string, error) {
		<-slowRelease
		return "page-1", nil
	}))
	obs.SetQuery(pageSpec("2", counting(new(atomic.Int32), "page-2")))
	snap := obs.Wait(context.Background())
	assert.Equal(t, "page-2", snap.Data)

	close(slowRelease)
	require.Eventually(t, func() bool {
		_, ok, _ := Peek[string](c, pageSpec("1", nil).Key)
		return ok
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, "page-2", obs.Snapshot().Data)
	assert.Equal(t, int32(1), results.Load())
}

func TestObserver_CloseMakesLateResultsNoOp(t *testing.T) {
	c, _ := newTestClient(t)
	obs := NewObserver[string](c)

	var results atomic.Int32
	obs.OnResult(func(Snapshot[string]) { results.Add(1) })

	release := make(chan struct{})
	obs.SetQuery(pageSpec("1", func(ctx context.Context) (string, error) {
		<-release
		return "page-1", nil
	}))
	obs.Close()
	close(release)

	require.Eventually(t, func() bool {
		_, ok, _ := Peek[string](c, pageSpec("1", nil).Key)
		return ok
	}, time.Second, 5*time.Millisecond)

	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, int32(0), results.Load())
	assert.False(t, obs.Snapshot().HasData)
}

func TestObserver_WaitHonoursContext(t *testing.T) {
	c, _ := newTestClient(t)
	obs := NewObserver[string](c)
	defer obs.Close()

	release := make(chan struct{})
	defer close(release)
	obs.SetQuery(pageSpec("1", func(ctx context.Context) (string, error) {
		<-release
		return "page-1", nil
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	snap := obs.Wait(ctx)
	assert.True(t, snap.IsFetching)
	assert.False(t, snap.HasData)
}
