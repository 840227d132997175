// Package query is the read cache between the domain services and the API
// client. Reads are cached per Key, concurrent reads of one key share a
// single backend call, and writes invalidate keys so the next read refetches.
package query

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Status is the lifecycle state of a cached key.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Fetcher loads the value for a key.
type Fetcher func(ctx context.Context) (any, error)

type entry struct {
	key        Key
	data       any
	hasData    bool
	err        error
	updatedAt  time.Time
	stale      bool
	generation uint64
	inflight   int
}

// Client caches fetched data by key.
type Client struct {
	mu        sync.Mutex
	entries   map[string]*entry
	group     singleflight.Group
	staleTime time.Duration
	now       func() time.Time
	log       *zap.Logger
}

// NewClient creates a cache. Data younger than staleTime is served without a
// backend call; staleTime <= 0 refetches on every read.
func NewClient(staleTime time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		entries:   make(map[string]*entry),
		staleTime: staleTime,
		now:       time.Now,
		log:       logger.Named("query"),
	}
}

func (c *Client) entryLocked(key Key) *entry {
	id := key.String()
	e, ok := c.entries[id]
	if !ok {
		e = &entry{key: key}
		c.entries[id] = e
	}
	return e
}

func (c *Client) freshLocked(e *entry) bool {
	if !e.hasData || e.err != nil || e.stale || c.staleTime <= 0 {
		return false
	}
	return c.now().Sub(e.updatedAt) < c.staleTime
}

// flight is the outcome of one backend call together with the generation
// the entry had when the call started.
type flight struct {
	data any
	gen  uint64
}

// Fetch returns cached data for key when fresh. Otherwise it calls fn, at
// most once at a time per key: concurrent callers wait for the same call and
// receive its result. A caller that arrives after an invalidation waits for
// the running call and then fetches again, so it never sees data older than
// the invalidation. The shared call does not observe the callers'
// cancellation; a caller whose ctx ends stops waiting and gets ctx.Err()
// while the call runs to completion and fills the cache.
func (c *Client) Fetch(ctx context.Context, key Key, fn Fetcher) (any, error) {
	id := key.String()
	for {
		c.mu.Lock()
		e := c.entryLocked(key)
		if c.freshLocked(e) {
			data := e.data
			c.mu.Unlock()
			cacheHits.WithLabelValues(key.Resource()).Inc()
			return data, nil
		}
		want := e.generation
		c.mu.Unlock()

		ch := c.group.DoChan(id, func() (any, error) {
			return c.run(ctx, e, key, fn)
		})

		var r singleflight.Result
		select {
		case r = <-ch:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		f, _ := r.Val.(flight)
		if f.gen < want {
			// joined a call that started before the invalidation seen above
			continue
		}
		if r.Err != nil {
			c.log.Debug("query fetch failed", zap.String("key", id), zap.Bool("shared", r.Shared), zap.Error(r.Err))
		}
		return f.data, r.Err
	}
}

func (c *Client) run(ctx context.Context, e *entry, key Key, fn Fetcher) (any, error) {
	c.mu.Lock()
	e.inflight++
	gen := e.generation
	c.mu.Unlock()

	fetches.WithLabelValues(key.Resource()).Inc()
	data, err := fn(context.WithoutCancel(ctx))

	c.mu.Lock()
	defer c.mu.Unlock()
	e.inflight--
	if e.generation != gen {
		// invalidated while in flight; callers get the result but the
		// entry stays stale
		return flight{data: data, gen: gen}, err
	}
	if err != nil {
		e.err = err
		return flight{gen: gen}, err
	}
	e.data = data
	e.hasData = true
	e.err = nil
	e.stale = false
	e.updatedAt = c.now()
	return flight{data: data, gen: gen}, nil
}

// Invalidate marks every key starting with prefix as stale so the next read
// refetches. It returns the number of keys affected.
func (c *Client) Invalidate(prefix Key) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, e := range c.entries {
		if e.key.HasPrefix(prefix) {
			e.stale = true
			e.generation++
			n++
		}
	}
	invalidations.WithLabelValues(prefix.Resource()).Inc()
	c.log.Debug("query invalidated", zap.String("prefix", prefix.String()), zap.Int("keys", n))
	return n
}

// Snapshot is the observable state of one key.
type Snapshot struct {
	Data      any
	Err       error
	Status    Status
	IsLoading bool
	IsStale   bool
	UpdatedAt time.Time
}

// State returns the current snapshot for key without fetching.
func (c *Client) State(key Key) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key.String()]
	if !ok {
		return Snapshot{Status: StatusIdle, IsStale: true}
	}
	s := Snapshot{
		Data:      e.data,
		Err:       e.err,
		IsLoading: e.inflight > 0,
		IsStale:   !c.freshLocked(e),
		UpdatedAt: e.updatedAt,
	}
	switch {
	case s.IsLoading && !e.hasData:
		s.Status = StatusLoading
	case e.err != nil:
		s.Status = StatusError
	case e.hasData:
		s.Status = StatusSuccess
	default:
		s.Status = StatusIdle
	}
	return s
}

// Result is the typed outcome of a read.
type Result[T any] struct {
	Data      T
	IsLoading bool
	Err       error
}

// Query reads key through c. On error, Data holds the last successfully
// fetched value, if any. When ctx ends while the fetch is still in flight the
// result is loading rather than failed.
func Query[T any](ctx context.Context, c *Client, key Key, fn func(context.Context) (T, error)) Result[T] {
	v, err := c.Fetch(ctx, key, func(ctx context.Context) (any, error) {
		return fn(ctx)
	})
	if err != nil {
		snap := c.State(key)
		res := Result[T]{Err: err}
		if prev, ok := snap.Data.(T); ok {
			res.Data = prev
		}
		if ctx.Err() != nil && snap.IsLoading {
			res.Err = nil
			res.IsLoading = true
		}
		return res
	}
	data, _ := v.(T)
	return Result[T]{Data: data}
}

// Mutate runs a write and, only when it succeeds, invalidates keys.
// There is no optimistic update; readers see fresh data after refetching.
func Mutate[T any](ctx context.Context, c *Client, fn func(context.Context) (T, error), invalidate ...Key) (T, error) {
	out, err := fn(ctx)
	if err != nil {
		return out, err
	}
	for _, k := range invalidate {
		c.Invalidate(k)
	}
	return out, nil
}
