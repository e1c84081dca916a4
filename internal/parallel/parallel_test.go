package parallel

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestFor(t *testing.T) {
	cfg := Config{Enabled: true, NumWorkers: 4, MinChunkSize: 2}

	var counter int64
	n := 1000

	err := For(context.Background(), n, cfg, func(_ context.Context, _ int) error {
		atomic.AddInt64(&counter, 1)
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, int64(n), counter)
}

func TestForChunks_CoversRangeOnce(t *testing.T) {
	cfg := Config{Enabled: true, NumWorkers: 3, MinChunkSize: 2}

	n := 17
	seen := make([]int32, n)
	var mu sync.Mutex
	chunks := 0

	err := ForChunks(context.Background(), n, cfg, func(_ context.Context, start, end int) error {
		mu.Lock()
		chunks++
		mu.Unlock()
		for i := start; i < end; i++ {
			atomic.AddInt32(&seen[i], 1)
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, chunks)
	for i, s := range seen {
		assert.Equal(t, int32(1), s, "index %d", i)
	}
}

func TestFor_Sequential(t *testing.T) {
	cfg := Config{Enabled: false}

	var order []int
	err := For(context.Background(), 5, cfg, func(_ context.Context, i int) error {
		order = append(order, i)
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
}

func TestFor_SmallChunk(t *testing.T) {
	// Small work units fall back to a single chunk.
	cfg := Config{Enabled: true, NumWorkers: 8, MinChunkSize: 10}

	calls := 0
	err := ForChunks(context.Background(), cfg.MinChunkSize-1, cfg, func(_ context.Context, start, end int) error {
		calls++
		assert.Equal(t, 0, start)
		assert.Equal(t, cfg.MinChunkSize-1, end)
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestFor_ErrorStopsWork(t *testing.T) {
	cfg := Config{Enabled: true, NumWorkers: 2, MinChunkSize: 1}
	boom := errors.New("boom")

	err := For(context.Background(), 100, cfg, func(ctx context.Context, i int) error {
		if i == 3 {
			return boom
		}
		return nil
	})

	require.ErrorIs(t, err, boom)
}

func TestFor_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := For(ctx, 10, Config{}, func(_ context.Context, _ int) error {
		t.Fatal("must not run after cancellation")
		return nil
	})

	require.ErrorIs(t, err, context.Canceled)
}

func TestForChunks_Empty(t *testing.T) {
	err := ForChunks(context.Background(), 0, DefaultConfig(), func(context.Context, int, int) error {
		t.Fatal("must not be called")
		return nil
	})
	require.NoError(t, err)
}

func BenchmarkFor(b *testing.B) {
	cfg := DefaultConfig()
	n := 10000

	b.Run("parallel", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			var sum int64
			_ = For(context.Background(), n, cfg, func(_ context.Context, i int) error {
				atomic.AddInt64(&sum, int64(i))
				return nil
			})
		}
	})

	b.Run("sequential", func(b *testing.B) {
		cfgSeq := cfg
		cfgSeq.Enabled = false
		for i := 0; i < b.N; i++ {
			var sum int64
			_ = For(context.Background(), n, cfgSeq, func(_ context.Context, i int) error {
				sum += int64(i)
				return nil
			})
		}
	})
}
