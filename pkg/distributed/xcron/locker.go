package xcron

import (
	"context"
	"errors"
	"time"
)

// Locker 是调度器用的分布式锁：多副本部署时保证同名任务
// 同一时刻只在一个实例上执行。
//
// 实现约定：
//   - TryLock 非阻塞，(nil, nil) 表示锁被别的实例持有，属正常跳过；
//   - 每次成功获取返回独立的 [LockHandle]，handle 之间互不干扰；
//   - 锁必须带 TTL，实例崩溃后锁能自行过期；
//   - 并发安全。
//
// 内置实现：[NoopLocker]（单副本，不加锁）和 [RedisLocker]
// （基于 xkv.Store 的 SetNX 互斥）。
type Locker interface {
	// TryLock 以任务名为 key 尝试获取锁。
	// 返回 err 仅代表锁服务异常；没抢到锁返回 (nil, nil)。
	TryLock(ctx context.Context, key string, ttl time.Duration) (handle LockHandle, err error)
}

// LockHandle 代表一次成功的锁获取。
//
// 每次 TryLock 成功都产出带独立 token 的新 handle，释放和续期
// 只作用于本次获取：锁过期后被别的实例抢走时，旧 handle 的
// Unlock/Renew 返回 [ErrLockNotHeld] 而不会动新持有者的锁。
//
// 调度器内部的用法：
//
//	handle, err := locker.TryLock(ctx, jobName, lockTTL)
//	if err != nil {
//	    return err // 锁服务异常
//	}
//	if handle == nil {
//	    return nil // 别的实例在跑，本轮跳过
//	}
//	defer handle.Unlock(ctx)
type LockHandle interface {
	// Unlock 释放本次获取的锁。
	Unlock(ctx context.Context) error

	// Renew 把锁的 TTL 延长到 ttl，供长任务的续期协程调用。
	Renew(ctx context.Context, ttl time.Duration) error

	// Key 返回锁的 key，用于日志。
	Key() string
}

// ErrLockNotHeld 表示操作的锁已过期或被别的实例持有。
var ErrLockNotHeld = errors.New("xcron: lock not held by this instance")

// ErrLockAcquireFailed 表示锁服务本身异常（区别于没抢到锁）。
var ErrLockAcquireFailed = errors.New("xcron: failed to acquire lock")
