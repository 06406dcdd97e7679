package cache

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 8, 3, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func counter(calls *int32, value any) func() any {
	return func() any {
		atomic.AddInt32(calls, 1)
		return value
	}
}

func TestKey(t *testing.T) {
	assert.Equal(t, "spending_by_category_month_all", Key("spending_by_category", "month", ""))
	assert.Equal(t, "quick_week_acct-1", Key("quick", "week", "acct-1"))
	assert.NotEqual(t, Key("quick", "week", ""), Key("quick", "month", ""))
}

func TestGetOrCompute_HitWithinTTL(t *testing.T) {
	clock := newFakeClock()
	memo := New(DefaultTTL, 0, WithClock(clock.Now))
	var calls int32

	first := memo.GetOrCompute("op_all_all", "fp1", counter(&calls, 42))
	clock.Advance(119 * time.Second)
	second := memo.GetOrCompute("op_all_all", "fp1", counter(&calls, 43))

	assert.Equal(t, 42, first)
	assert.Equal(t, 42, second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	stats := memo.Stats()
	assert.Equal(t, 1, stats.Hits)
	assert.Equal(t, 1, stats.Misses)
	assert.Equal(t, 1, stats.Entries)
}

func TestGetOrCompute_ExpiresAtTTL(t *testing.T) {
	clock := newFakeClock()
	memo := New(DefaultTTL, 0, WithClock(clock.Now))
	var calls int32

	memo.GetOrCompute("op", "fp", counter(&calls, "a"))
	clock.Advance(DefaultTTL)
	got := memo.GetOrCompute("op", "fp", counter(&calls, "b"))

	assert.Equal(t, "b", got)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestGetOrCompute_FingerprintChangeRecomputes(t *testing.T) {
	memo := New(DefaultTTL, 0)
	var calls int32

	memo.GetOrCompute("op", "fp1", counter(&calls, 1))
	got := memo.GetOrCompute("op", "fp2", counter(&calls, 2))

	assert.Equal(t, 2, got)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestClear_ForcesRecompute(t *testing.T) {
	memo := New(DefaultTTL, 0)
	var calls int32

	memo.GetOrCompute("op", "fp", counter(&calls, 1))
	memo.Clear()
	assert.Equal(t, 0, memo.Len())

	got := memo.GetOrCompute("op", "fp", counter(&calls, 2))
	assert.Equal(t, 2, got)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	assert.Equal(t, 1, memo.Stats().Clears)
}

func TestClear_DuringComputeDiscardsResult(t *testing.T) {
	memo := New(DefaultTTL, 0)
	var calls int32

	memo.GetOrCompute("op", "fp", func() any {
		atomic.AddInt32(&calls, 1)
		memo.Clear()
		return "stale"
	})
	got := memo.GetOrCompute("op", "fp", counter(&calls, "fresh"))

	assert.Equal(t, "fresh", got)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestMemoize_TypeMismatchIsMiss(t *testing.T) {
	memo := New(DefaultTTL, 0)
	memo.GetOrCompute("op", "fp", func() any { return "not an int" })

	var calls int32
	got := Memoize(memo, "op", "fp", func() int {
		atomic.AddInt32(&calls, 1)
		return 7
	})
	assert.Equal(t, 7, got)

	again := Memoize(memo, "op", "fp", func() int {
		atomic.AddInt32(&calls, 1)
		return 8
	})
	assert.Equal(t, 7, again)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestMemoize_NilMemoComputes(t *testing.T) {
	var memo *Memo
	assert.Equal(t, "x", Memoize(memo, "op", "fp", func() string { return "x" }))
}

func TestGetOrCompute_CoalescesConcurrentMisses(t *testing.T) {
	memo := New(DefaultTTL, 0)
	var calls int32
	release := make(chan struct{})
	started := make(chan struct{})
	var once sync.Once

	compute := func() any {
		atomic.AddInt32(&calls, 1)
		once.Do(func() { close(started) })
		<-release
		return "shared"
	}

	const workers = 8
	results := make([]any, workers)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0] = memo.GetOrCompute("op", "fp", compute)
	}()
	<-started

	for i := 1; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = memo.GetOrCompute("op", "fp", compute)
		}(i)
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	for _, r := range results {
		assert.Equal(t, "shared", r)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestLRUEviction(t *testing.T) {
	memo := New(DefaultTTL, 2)
	var calls int32

	memo.GetOrCompute("a", "fp", counter(&calls, "a"))
	memo.GetOrCompute("b", "fp", counter(&calls, "b"))
	memo.GetOrCompute("a", "fp", counter(&calls, "a")) // refresh a
	memo.GetOrCompute("c", "fp", counter(&calls, "c")) // evicts b

	assert.Equal(t, 2, memo.Len())
	assert.Equal(t, 1, memo.Stats().Evictions)

	memo.GetOrCompute("a", "fp", counter(&calls, "a2"))
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls), "a survives eviction")

	got := memo.GetOrCompute("b", "fp", counter(&calls, "b2"))
	assert.Equal(t, "b2", got)
}

func TestCleanExpired(t *testing.T) {
	clock := newFakeClock()
	memo := New(time.Minute, 0, WithClock(clock.Now))

	memo.GetOrCompute("old", "fp", func() any { return 1 })
	clock.Advance(45 * time.Second)
	memo.GetOrCompute("new", "fp", func() any { return 2 })
	clock.Advance(30 * time.Second)

	assert.Equal(t, 1, memo.CleanExpired())
	assert.Equal(t, 1, memo.Len())
}

func TestNew_DefaultsTTL(t *testing.T) {
	assert.Equal(t, DefaultTTL, New(0, 0).TTL())
	assert.Equal(t, time.Second, New(time.Second, 0).TTL())
}

func TestJanitor(t *testing.T) {
	clock := newFakeClock()
	memo := New(time.Second, 0, WithClock(clock.Now))
	memo.GetOrCompute("op", "fp", func() any { return 1 })
	clock.Advance(2 * time.Second)

	janitor := NewJanitor(nil, memo)
	janitor.Start(5 * time.Millisecond)
	require.Eventually(t, func() bool { return memo.Len() == 0 }, time.Second, 5*time.Millisecond)
	janitor.Stop()
	janitor.Stop()
}

func TestJanitor_StopWithoutStart(t *testing.T) {
	janitor := NewJanitor(nil)
	assert.NotPanics(t, janitor.Stop)
	assert.Equal(t, 0, janitor.Sweep())
}
