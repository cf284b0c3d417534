package xcron

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omeyang/dpkit/pkg/storage/xkv"
)

func newRedisLocker(t *testing.T, opts ...RedisLockerOption) (*RedisLocker, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	store, err := xkv.NewRedis(client)
	require.NoError(t, err)
	return NewRedisLocker(store, opts...), mr
}

func TestNoopLocker_AlwaysSucceeds(t *testing.T) {
	locker := NoopLocker()
	ctx := context.Background()

	h1, err := locker.TryLock(ctx, "job", time.Minute)
	require.NoError(t, err)
	require.NotNil(t, h1)

	// 无互斥语义
	h2, err := locker.TryLock(ctx, "job", time.Minute)
	require.NoError(t, err)
	require.NotNil(t, h2)

	assert.Equal(t, "job", h1.Key())
	assert.NoError(t, h1.Renew(ctx, time.Minute))
	assert.NoError(t, h1.Unlock(ctx))
}

func TestRedisLocker_TryLock_SetsKeyWithTTL(t *testing.T) {
	locker, mr := newRedisLocker(t)
	ctx := context.Background()

	handle, err := locker.TryLock(ctx, "warm-shop-cache", time.Minute)
	require.NoError(t, err)
	require.NotNil(t, handle)

	assert.Equal(t, "lock:cron:warm-shop-cache", handle.Key())
	assert.True(t, mr.Exists("lock:cron:warm-shop-cache"))
	assert.Equal(t, time.Minute, mr.TTL("lock:cron:warm-shop-cache"))
}

func TestRedisLocker_TryLock_MutualExclusion(t *testing.T) {
	locker, _ := newRedisLocker(t)
	ctx := context.Background()

	h1, err := locker.TryLock(ctx, "job", time.Minute)
	require.NoError(t, err)
	require.NotNil(t, h1)

	// 第二次获取失败但不是错误
	h2, err := locker.TryLock(ctx, "job", time.Minute)
	require.NoError(t, err)
	assert.Nil(t, h2)

	// 释放后可再次获取
	require.NoError(t, h1.Unlock(ctx))
	h3, err := locker.TryLock(ctx, "job", time.Minute)
	require.NoError(t, err)
	assert.NotNil(t, h3)
}

func TestRedisLocker_TryLock_StoreError(t *testing.T) {
	locker, mr := newRedisLocker(t)
	mr.Close()

	handle, err := locker.TryLock(context.Background(), "job", time.Minute)
	assert.Nil(t, handle)
	assert.ErrorIs(t, err, ErrLockAcquireFailed)
}

func TestRedisLocker_Unlock_OnlyOwner(t *testing.T) {
	locker, mr := newRedisLocker(t)
	ctx := context.Background()

	handle, err := locker.TryLock(ctx, "job", time.Second)
	require.NoError(t, err)
	require.NotNil(t, handle)

	// 锁过期后被别的实例拿走
	mr.FastForward(2 * time.Second)
	other, err := locker.TryLock(ctx, "job", time.Minute)
	require.NoError(t, err)
	require.NotNil(t, other)

	// 旧 handle 不能释放新持有者的锁
	assert.ErrorIs(t, handle.Unlock(ctx), ErrLockNotHeld)
	assert.True(t, mr.Exists("lock:cron:job"))
}

func TestRedisLocker_Renew(t *testing.T) {
	locker, mr := newRedisLocker(t)
	ctx := context.Background()

	handle, err := locker.TryLock(ctx, "job", time.Minute)
	require.NoError(t, err)
	require.NotNil(t, handle)

	require.NoError(t, handle.Renew(ctx, 5*time.Minute))
	assert.Equal(t, 5*time.Minute, mr.TTL("lock:cron:job"))

	// 过期后续期失败
	mr.FastForward(10 * time.Minute)
	assert.ErrorIs(t, handle.Renew(ctx, time.Minute), ErrLockNotHeld)
}

func TestRedisLocker_TwoInstances_OnlyOneRuns(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	newStore := func() xkv.Store {
		c := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		t.Cleanup(func() { _ = c.Close() })
		store, serr := xkv.NewRedis(c)
		require.NoError(t, serr)
		return store
	}
	lockerA := NewRedisLocker(newStore())
	lockerB := NewRedisLocker(newStore())

	ctx := context.Background()
	hA, err := lockerA.TryLock(ctx, "shared-job", time.Minute)
	require.NoError(t, err)
	hB, err := lockerB.TryLock(ctx, "shared-job", time.Minute)
	require.NoError(t, err)

	// 两个实例只有一个拿到锁
	assert.True(t, (hA != nil) != (hB != nil))
}
