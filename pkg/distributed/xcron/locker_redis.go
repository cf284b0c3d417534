package xcron

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/omeyang/dpkit/pkg/storage/xkv"
)

// renewScript 只有持有者才能续期。获取和释放复用 xkv.Store 的
// SetNX / CompareAndDelete，续期没有对应的存储契约，跑脚本实现。
var renewScript = redis.NewScript(`
	if redis.call("GET", KEYS[1]) == ARGV[1] then
		return redis.call("PEXPIRE", KEYS[1], ARGV[2])
	else
		return 0
	end
`)

// RedisLocker 基于 KV 存储的调度器分布式锁。
//
// 互斥靠 SetNX + TTL，释放靠属主校验删除，与缓存重建锁共用同一套
// 存储原语。每次 TryLock 生成独立 token，旧 handle 不会误删或误续
// 新持有者的锁。
//
// 用法：
//
//	kv, _ := xkv.NewRedis(redisClient)
//	scheduler := xcron.New(xcron.WithLocker(xcron.NewRedisLocker(kv)))
type RedisLocker struct {
	store    xkv.Store
	prefix   string
	identity string
}

// redisLockHandle 代表一次成功的锁获取，token 每次独立。
type redisLockHandle struct {
	locker *RedisLocker
	key    string
	token  string
}

// RedisLockerOption 配置 RedisLocker。
type RedisLockerOption func(*RedisLocker)

// WithRedisKeyPrefix 设置锁 key 前缀，默认 "lock:cron:"。
func WithRedisKeyPrefix(prefix string) RedisLockerOption {
	return func(l *RedisLocker) {
		l.prefix = prefix
	}
}

// WithRedisIdentity 设置实例标识，默认 hostname:pid。
// 标识只拼进 token 便于排查，属主校验靠整个 token。
func WithRedisIdentity(identity string) RedisLockerOption {
	return func(l *RedisLocker) {
		l.identity = identity
	}
}

// NewRedisLocker 创建基于 KV 存储的分布式锁。store 为 nil 时 panic。
func NewRedisLocker(store xkv.Store, opts ...RedisLockerOption) *RedisLocker {
	if store == nil {
		panic("xcron: kv store cannot be nil")
	}

	l := &RedisLocker{
		store:    store,
		prefix:   "lock:cron:",
		identity: defaultIdentity(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// TryLock 尝试获取锁（非阻塞）。
// (nil, nil) 表示锁被别的实例持有，不是错误。
func (l *RedisLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (LockHandle, error) {
	fullKey := l.prefix + key
	token := l.identity + ":" + uuid.NewString()

	ok, err := l.store.SetNX(ctx, fullKey, token, ttl)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLockAcquireFailed, err)
	}
	if !ok {
		return nil, nil
	}

	return &redisLockHandle{
		locker: l,
		key:    fullKey,
		token:  token,
	}, nil
}

// Unlock 释放锁，属主校验删除。
func (h *redisLockHandle) Unlock(ctx context.Context) error {
	ok, err := h.locker.store.CompareAndDelete(ctx, h.key, h.token)
	if err != nil {
		return fmt.Errorf("xcron: unlock %s: %w", h.key, err)
	}
	if !ok {
		return ErrLockNotHeld
	}
	return nil
}

// Renew 续期锁，只有持有者能续期。
func (h *redisLockHandle) Renew(ctx context.Context, ttl time.Duration) error {
	result, err := renewScript.Run(ctx, h.locker.store.Client(),
		[]string{h.key}, h.token, ttl.Milliseconds()).Int()
	if err != nil {
		return fmt.Errorf("xcron: renew %s: %w", h.key, err)
	}
	if result == 0 {
		return ErrLockNotHeld
	}
	return nil
}

// Key 返回锁的完整 key（含前缀）。
func (h *redisLockHandle) Key() string {
	return h.key
}

// Identity 返回当前实例标识。
func (l *RedisLocker) Identity() string {
	return l.identity
}

func defaultIdentity() string {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	return fmt.Sprintf("%s:%d", hostname, os.Getpid())
}

var (
	_ Locker     = (*RedisLocker)(nil)
	_ LockHandle = (*redisLockHandle)(nil)
)
