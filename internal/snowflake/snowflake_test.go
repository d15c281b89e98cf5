package snowflake

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateUnique(t *testing.T) {
	node := NewNode()

	seen := make(map[int64]struct{})
	var last int64
	for i := 0; i < 10000; i++ {
		id, err := node.Generate()
		require.NoError(t, err, "expected no error on generate")

		_, dup := seen[id]
		require.False(t, dup, "expected id %d to be unique", id)
		seen[id] = struct{}{}

		assert.GreaterOrEqual(t, id, last, "expected ids to be non-decreasing")
		last = id
	}
}

func TestGenerateConcurrent(t *testing.T) {
	node := NewNode()

	const (
		workers = 8
		perWork = 2000
	)

	ids := make(chan int64, workers*perWork)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWork; j++ {
				id, err := node.Generate()
				assert.NoError(t, err, "expected no error on generate")
				ids <- id
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[int64]struct{}, workers*perWork)
	for id := range ids {
		_, dup := seen[id]
		require.False(t, dup, "expected id %d to be unique across goroutines", id)
		seen[id] = struct{}{}
	}
	assert.Len(t, seen, workers*perWork, "expected every call to yield an id")
}

// TestGenerateSequenceExhaustion pins the clock to one millisecond until
// the 12-bit sequence wraps, forcing the wait-for-next-millisecond path.
func TestGenerateSequenceExhaustion(t *testing.T) {
	var (
		mu     sync.Mutex
		millis int64 = Epoch + 1000
		calls  int
	)
	clock := func() int64 {
		mu.Lock()
		defer mu.Unlock()
		calls++
		// Hold the clock still for well over 4096 reads, then let it tick.
		if calls > 5000 {
			millis = Epoch + 1001
		}
		return millis
	}

	node := NewNodeWithClock(clock)

	seen := make(map[int64]struct{})
	for i := 0; i < 4097; i++ {
		id, err := node.Generate()
		require.NoError(t, err, "expected no error on generate %d", i)
		_, dup := seen[id]
		require.False(t, dup, "expected id %d to be unique after sequence wrap", id)
		seen[id] = struct{}{}
	}
}

func TestGenerateClockRegression(t *testing.T) {
	var (
		mu     sync.Mutex
		millis int64 = Epoch + 5000
	)
	clock := func() int64 {
		mu.Lock()
		defer mu.Unlock()
		return millis
	}

	node := NewNodeWithClock(clock)

	_, err := node.Generate()
	require.NoError(t, err, "expected first generate to succeed")

	mu.Lock()
	millis = Epoch + 4000
	mu.Unlock()

	_, err = node.Generate()
	assert.ErrorIs(t, err, ErrClockRegression, "expected clock regression error")

	// Once the clock recovers, generation resumes.
	mu.Lock()
	millis = Epoch + 6000
	mu.Unlock()

	_, err = node.Generate()
	assert.NoError(t, err, "expected generate to recover with the clock")
}

func TestGenerateEncoding(t *testing.T) {
	now := time.Now().UnixMilli()
	node := NewNode()

	id, err := node.Generate()
	require.NoError(t, err, "expected no error on generate")

	ts := (id >> sequenceBits) + Epoch
	assert.InDelta(t, now, ts, 1000, "expected embedded timestamp near current time")
}
