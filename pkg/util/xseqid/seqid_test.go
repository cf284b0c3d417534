package xseqid

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omeyang/dpkit/pkg/storage/xkv"
)

func newTestGenerator(t *testing.T, opts ...Option) (*Generator, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store, err := xkv.NewRedis(client)
	require.NoError(t, err)

	gen, err := New(store, opts...)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = client.Close()
		mr.Close()
	})
	return gen, mr
}

func TestNew_WithNilStore_ReturnsError(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, ErrNilStore)
}

func TestNext_EmptyTag_ReturnsError(t *testing.T) {
	gen, _ := newTestGenerator(t)
	_, err := gen.Next(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyTag)
}

func TestNext_Deterministic(t *testing.T) {
	// 固定时钟：2022-01-01T00:00:01Z，计数器从 1 起
	fixed := time.Unix(Epoch+1, 0).UTC()
	gen, _ := newTestGenerator(t, WithNow(func() time.Time { return fixed }))

	id, err := gen.Next(context.Background(), "order")
	require.NoError(t, err)
	// timestamp=1, counter=1 → 1<<32 | 1
	assert.Equal(t, int64(1)<<32|1, id)
}

func TestNext_CounterKeyUsesUTCDay(t *testing.T) {
	fixed := time.Date(2022, 6, 15, 8, 30, 0, 0, time.UTC)
	gen, mr := newTestGenerator(t, WithNow(func() time.Time { return fixed }))

	_, err := gen.Next(context.Background(), "order")
	require.NoError(t, err)
	assert.True(t, mr.Exists("icr:order:2022:06:15"))
}

func TestNext_DayBoundaryRollsCounter(t *testing.T) {
	current := time.Date(2022, 6, 15, 23, 59, 59, 0, time.UTC)
	var mu sync.Mutex
	gen, _ := newTestGenerator(t, WithNow(func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return current
	}))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := gen.Next(ctx, "order")
		require.NoError(t, err)
	}

	// 跨日后序列号从 1 重新开始
	mu.Lock()
	current = current.Add(time.Second)
	mu.Unlock()

	id, err := gen.Next(ctx, "order")
	require.NoError(t, err)
	parts, err := Decompose(id)
	require.NoError(t, err)
	assert.Equal(t, int64(1), parts.Sequence)
}

func TestNext_MonotonicWithinSecond(t *testing.T) {
	fixed := time.Unix(Epoch+100, 0).UTC()
	gen, _ := newTestGenerator(t, WithNow(func() time.Time { return fixed }))
	ctx := context.Background()

	var prev int64
	for i := 0; i < 100; i++ {
		id, err := gen.Next(ctx, "order")
		require.NoError(t, err)
		require.Greater(t, id, prev)
		prev = id
	}
}

// 多协程并发生成：无重复，且按签发顺序可排序（同秒内由计数器保证）。
func TestNext_ConcurrentNoDuplicates(t *testing.T) {
	fixed := time.Unix(Epoch+100, 0).UTC()
	gen, _ := newTestGenerator(t, WithNow(func() time.Time { return fixed }))
	ctx := context.Background()

	const workers = 8
	const perWorker = 200

	ids := make([][]int64, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				id, err := gen.Next(ctx, "order")
				if err != nil {
					return
				}
				ids[w] = append(ids[w], id)
			}
		}(w)
	}
	wg.Wait()

	seen := make(map[int64]struct{}, workers*perWorker)
	var all []int64
	for w := 0; w < workers; w++ {
		require.Len(t, ids[w], perWorker)
		// 单协程视角严格递增
		assert.True(t, sort.SliceIsSorted(ids[w], func(i, j int) bool { return ids[w][i] < ids[w][j] }))
		for _, id := range ids[w] {
			_, dup := seen[id]
			require.False(t, dup, "duplicate id %d", id)
			seen[id] = struct{}{}
			all = append(all, id)
		}
	}
	assert.Len(t, all, workers*perWorker)
}

// 共享同一计数器的两个生成器之间不会产生重复。
func TestNext_TwoGeneratorsShareCounter(t *testing.T) {
	fixed := time.Unix(Epoch+100, 0).UTC()
	gen1, mr := newTestGenerator(t, WithNow(func() time.Time { return fixed }))

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	store2, err := xkv.NewRedis(client)
	require.NoError(t, err)
	gen2, err := New(store2, WithNow(func() time.Time { return fixed }))
	require.NoError(t, err)

	ctx := context.Background()
	seen := make(map[int64]struct{})
	for i := 0; i < 50; i++ {
		for _, g := range []*Generator{gen1, gen2} {
			id, err := g.Next(ctx, "order")
			require.NoError(t, err)
			_, dup := seen[id]
			require.False(t, dup)
			seen[id] = struct{}{}
		}
	}
}

func TestNext_StoreUnavailable_FailsWithoutFallback(t *testing.T) {
	gen, mr := newTestGenerator(t)
	mr.Close()

	_, err := gen.Next(context.Background(), "order")
	require.Error(t, err)
	assert.ErrorIs(t, err, xkv.ErrStoreUnavailable)
}

func TestDecompose(t *testing.T) {
	_, err := Decompose(0)
	assert.ErrorIs(t, err, ErrInvalidID)

	id := int64(3600)<<32 | 42
	parts, err := Decompose(id)
	require.NoError(t, err)
	assert.Equal(t, time.Unix(Epoch+3600, 0).UTC(), parts.Time)
	assert.Equal(t, int64(42), parts.Sequence)
}
