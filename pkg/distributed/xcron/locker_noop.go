package xcron

import (
	"context"
	"time"
)

// NoopLocker 返回不做任何锁定的 Locker，适用于单副本部署。
// 不设置 WithLocker 时调度器默认就用它。
func NoopLocker() Locker {
	return noopLocker{}
}

type noopLocker struct{}

type noopLockHandle struct {
	key string
}

// TryLock 总是成功。
func (noopLocker) TryLock(_ context.Context, key string, _ time.Duration) (LockHandle, error) {
	return noopLockHandle{key: key}, nil
}

func (noopLockHandle) Unlock(context.Context) error { return nil }

func (noopLockHandle) Renew(context.Context, time.Duration) error { return nil }

func (h noopLockHandle) Key() string { return h.key }

var (
	_ Locker     = noopLocker{}
	_ LockHandle = noopLockHandle{}
)
