package xrlock

import (
	"context"
	"errors"
	"time"

	"github.com/go-redsync/redsync/v4"
)

// RedsyncLocker 返回基于 redsync（Redlock 算法）的 LockFunc。
//
// 适用于多 Redis 节点仲裁的部署，锁的获取需过半节点成功。
// key 布局与内置 Mutex 一致（"lock:<name>"），两种实现可以混部期间共存。
// extra 中的 redsync 选项追加在 Expiry/Tries 之后，可覆盖默认值。
func RedsyncLocker(rs *redsync.Redsync, extra ...redsync.Option) LockFunc {
	return func(ctx context.Context, name string, lease time.Duration) (Unlocker, bool, error) {
		if rs == nil {
			return nil, false, ErrNilStore
		}
		if name == "" {
			return nil, false, ErrEmptyName
		}
		if lease <= 0 {
			return nil, false, ErrInvalidLease
		}

		opts := append([]redsync.Option{
			redsync.WithExpiry(lease),
			redsync.WithTries(1),
		}, extra...)
		mutex := rs.NewMutex("lock:"+name, opts...)

		if err := mutex.TryLockContext(ctx); err != nil {
			// 锁被占用是正常情况，与内置 Mutex 保持 (nil, false, nil) 契约
			var taken *redsync.ErrTaken
			if errors.As(err, &taken) || errors.Is(err, redsync.ErrFailed) {
				return nil, false, nil
			}
			return nil, false, err
		}

		unlock := func(ctx context.Context) error {
			ok, err := mutex.UnlockContext(ctx)
			if err != nil {
				if errors.Is(err, redsync.ErrLockAlreadyExpired) {
					return ErrNotOwner
				}
				return err
			}
			if !ok {
				return ErrNotOwner
			}
			return nil
		}
		return unlock, true, nil
	}
}
