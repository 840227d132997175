package query

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counting(calls *atomic.Int32, v any) Fetcher {
	return func(context.Context) (any, error) {
		calls.Add(1)
		return v, nil
	}
}

func TestFetch_ConcurrentReadsShareOneCall(t *testing.T) {
	c := NewClient(time.Minute, nil)
	var calls atomic.Int32
	release := make(chan struct{})
	started := make(chan struct{})
	var once sync.Once
	fn := func(context.Context) (any, error) {
		calls.Add(1)
		once.Do(func() { close(started) })
		<-release
		return []string{"a", "b"}, nil
	}

	results := make([]any, 2)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0], _ = c.Fetch(context.Background(), Key{"employees"}, fn)
	}()
	<-started
	wg.Add(1)
	go func() {
		defer wg.Done()
		results[1], _ = c.Fetch(context.Background(), Key{"employees"}, fn)
	}()
	// let the second caller join the flight
	require.Eventually(t, func() bool { return c.State(Key{"employees"}).IsLoading }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, results[0], results[1])
}

func TestFetch_FreshDataIsServedFromCache(t *testing.T) {
	c := NewClient(time.Minute, nil)
	var calls atomic.Int32

	for i := 0; i < 3; i++ {
		v, err := c.Fetch(context.Background(), Key{"employees"}, counting(&calls, 5))
		require.NoError(t, err)
		assert.Equal(t, 5, v)
	}
	assert.Equal(t, int32(1), calls.Load())
}

func TestFetch_StaleDataRefetches(t *testing.T) {
	c := NewClient(time.Minute, nil)
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	var calls atomic.Int32

	_, _ = c.Fetch(context.Background(), Key{"employees"}, counting(&calls, 1))
	now = now.Add(2 * time.Minute)
	_, _ = c.Fetch(context.Background(), Key{"employees"}, counting(&calls, 1))

	assert.Equal(t, int32(2), calls.Load())
}

func TestInvalidate_NextReadRefetchesOnce(t *testing.T) {
	c := NewClient(time.Minute, nil)
	var calls atomic.Int32
	ctx := context.Background()

	_, _ = c.Fetch(ctx, Key{"attendance", 3}, counting(&calls, 1))
	_, _ = c.Fetch(ctx, Key{"attendance", "all"}, counting(&calls, 1))
	_, _ = c.Fetch(ctx, Key{"employees"}, counting(&calls, 1))
	require.Equal(t, int32(3), calls.Load())

	n := c.Invalidate(Key{"attendance"})
	assert.Equal(t, 2, n)
	assert.True(t, c.State(Key{"attendance", 3}).IsStale)
	assert.False(t, c.State(Key{"employees"}).IsStale)

	_, _ = c.Fetch(ctx, Key{"attendance", 3}, counting(&calls, 2))
	_, _ = c.Fetch(ctx, Key{"attendance", 3}, counting(&calls, 2))
	assert.Equal(t, int32(4), calls.Load())
}

func TestInvalidate_DuringFlightLeavesEntryStale(t *testing.T) {
	c := NewClient(time.Minute, nil)
	release := make(chan struct{})
	started := make(chan struct{})
	done := make(chan struct{})

	go func() {
		defer close(done)
		v, err := c.Fetch(context.Background(), Key{"employees"}, func(context.Context) (any, error) {
			close(started)
			<-release
			return "old", nil
		})
		assert.NoError(t, err)
		assert.Equal(t, "old", v)
	}()
	<-started
	c.Invalidate(Key{"employees"})
	close(release)
	<-done

	var calls atomic.Int32
	v, err := c.Fetch(context.Background(), Key{"employees"}, counting(&calls, "new"))
	require.NoError(t, err)
	assert.Equal(t, "new", v)
	assert.Equal(t, int32(1), calls.Load())
}

func TestInvalidate_ReadAfterInvalidationWaitsForRunningCall(t *testing.T) {
	c := NewClient(time.Minute, nil)
	var calls, active, maxActive atomic.Int32
	releases := []chan struct{}{make(chan struct{}), make(chan struct{})}
	started := make(chan struct{}, 2)
	fn := func(context.Context) (any, error) {
		n := calls.Add(1)
		cur := active.Add(1)
		for {
			prev := maxActive.Load()
			if cur <= prev || maxActive.CompareAndSwap(prev, cur) {
				break
			}
		}
		started <- struct{}{}
		<-releases[n-1]
		active.Add(-1)
		return n, nil
	}

	first := make(chan any, 1)
	go func() {
		v, _ := c.Fetch(context.Background(), Key{"employees"}, fn)
		first <- v
	}()
	<-started
	c.Invalidate(Key{"employees"})

	second := make(chan any, 1)
	go func() {
		v, _ := c.Fetch(context.Background(), Key{"employees"}, fn)
		second <- v
	}()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())

	close(releases[0])
	assert.Equal(t, int32(1), <-first)
	<-started
	close(releases[1])
	assert.Equal(t, int32(2), <-second)

	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, int32(1), maxActive.Load())
	assert.False(t, c.State(Key{"employees"}).IsStale)
}

func TestFetch_ErrorIsNotFresh(t *testing.T) {
	c := NewClient(time.Minute, nil)
	boom := errors.New("boom")
	var calls atomic.Int32

	_, err := c.Fetch(context.Background(), Key{"employees"}, func(context.Context) (any, error) {
		calls.Add(1)
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
	s := c.State(Key{"employees"})
	assert.Equal(t, StatusError, s.Status)
	assert.ErrorIs(t, s.Err, boom)

	v, err := c.Fetch(context.Background(), Key{"employees"}, counting(&calls, "ok"))
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, StatusSuccess, c.State(Key{"employees"}).Status)
}

func TestQuery_CallerTimeoutReportsLoadingAndFetchCompletes(t *testing.T) {
	c := NewClient(time.Minute, nil)
	release := make(chan struct{})
	var calls atomic.Int32
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	res := Query(ctx, c, Key{"employees"}, func(ctx context.Context) (string, error) {
		calls.Add(1)
		<-release
		return "ok", ctx.Err()
	})

	assert.True(t, res.IsLoading)
	assert.NoError(t, res.Err)
	close(release)
	require.Eventually(t, func() bool {
		return c.State(Key{"employees"}).Status == StatusSuccess
	}, time.Second, time.Millisecond)

	v, err := c.Fetch(context.Background(), Key{"employees"}, counting(&calls, "other"))
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
	assert.Equal(t, int32(1), calls.Load())
}

func TestQuery_ErrorKeepsPreviousData(t *testing.T) {
	c := NewClient(0, nil)
	ctx := context.Background()

	res := Query(ctx, c, Key{"employees"}, func(context.Context) ([]int, error) { return []int{1, 2}, nil })
	require.NoError(t, res.Err)
	assert.Equal(t, []int{1, 2}, res.Data)

	res = Query(ctx, c, Key{"employees"}, func(context.Context) ([]int, error) { return nil, errors.New("down") })
	assert.EqualError(t, res.Err, "down")
	assert.Equal(t, []int{1, 2}, res.Data)
}

func TestMutate_InvalidatesOnlyOnSuccess(t *testing.T) {
	c := NewClient(time.Minute, nil)
	ctx := context.Background()
	var calls atomic.Int32
	_, _ = c.Fetch(ctx, Key{"employees"}, counting(&calls, 1))

	_, err := Mutate(ctx, c, func(context.Context) (int, error) { return 0, errors.New("rejected") }, Key{"employees"})
	require.Error(t, err)
	assert.False(t, c.State(Key{"employees"}).IsStale)

	out, err := Mutate(ctx, c, func(context.Context) (int, error) { return 7, nil }, Key{"employees"})
	require.NoError(t, err)
	assert.Equal(t, 7, out)
	assert.True(t, c.State(Key{"employees"}).IsStale)
}

func TestKey(t *testing.T) {
	k := Key{"attendance", 3}
	assert.Equal(t, "attendance/3", k.String())
	assert.Equal(t, "attendance", k.Resource())
	assert.True(t, k.HasPrefix(Key{"attendance"}))
	assert.True(t, k.HasPrefix(Key{"attendance", 3}))
	assert.False(t, k.HasPrefix(Key{"attendance", 4}))
	assert.False(t, Key{"attendance"}.HasPrefix(k))
}
