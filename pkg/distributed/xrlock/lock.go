package xrlock

import (
	"context"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/omeyang/dpkit/pkg/storage/xkv"
)

// processID 进程标识，进程启动时生成一次。
// Go 没有稳定的"线程 ID"可用，进程级 uuid + 进程内计数器
// 同样保证令牌全局唯一。
var processID = uuid.NewString()

// tokenCounter 进程内令牌计数器。
var tokenCounter atomic.Uint64

// newToken 生成一次加锁的持有者令牌，形如 "<processID>:<counter>"。
func newToken() string {
	return processID + ":" + strconv.FormatUint(tokenCounter.Add(1), 10)
}

// =============================================================================
// Mutex
// =============================================================================

// Mutex 是以名字为粒度的分布式互斥锁。
//
// 一个 Mutex 实例代表一个锁名上的一次（或多次先后的）持有，
// 不支持重入；并发使用同一实例是安全的，但同一实例同时只能有
// 一次成功的 TryLock 未被 Unlock。
type Mutex struct {
	store   xkv.Store
	name    string
	options *Options

	// token 当前持有的令牌，空字符串表示未持有。
	token atomic.Pointer[string]
}

// New 创建指定名字的分布式锁。
// 完整的存储 key 为 "<KeyPrefix><name>"，KeyPrefix 默认 "lock:"。
func New(store xkv.Store, name string, opts ...Option) (*Mutex, error) {
	if store == nil {
		return nil, ErrNilStore
	}
	if name == "" {
		return nil, ErrEmptyName
	}

	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	return &Mutex{
		store:   store,
		name:    name,
		options: options,
	}, nil
}

// Key 返回锁的完整存储 key。
func (m *Mutex) Key() string {
	return m.options.KeyPrefix + m.name
}

// TryLock 尝试获取锁，lease 为租约时长。
// 返回 (false, nil) 表示锁被占用，这是正常情况而非错误。
func (m *Mutex) TryLock(ctx context.Context, lease time.Duration) (bool, error) {
	if lease <= 0 {
		return false, ErrInvalidLease
	}

	token := newToken()
	acquired, err := m.store.SetNX(ctx, m.Key(), token, lease)
	if err != nil {
		return false, err
	}
	if !acquired {
		return false, nil
	}
	m.token.Store(&token)
	return true, nil
}

// Unlock 释放锁。
//
// 通过 CompareAndDelete 保证只删除自己持有的记录：
// 租约到期后被其他调用者重新获取的锁不会被误删，
// 此时返回 ErrNotOwner。未持有锁时返回 ErrNotLocked。
func (m *Mutex) Unlock(ctx context.Context) error {
	tokenPtr := m.token.Swap(nil)
	if tokenPtr == nil {
		return ErrNotLocked
	}

	deleted, err := m.store.CompareAndDelete(ctx, m.Key(), *tokenPtr)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotOwner
	}
	return nil
}

// Token 返回当前持有的令牌，未持有时返回空字符串。
// 用于测试和日志。
func (m *Mutex) Token() string {
	if p := m.token.Load(); p != nil {
		return *p
	}
	return ""
}

// =============================================================================
// LockFunc - 函数式锁接口
// =============================================================================

// Unlocker 释放一次锁获取的函数类型。
type Unlocker func(ctx context.Context) error

// LockFunc 定义获取锁的函数类型，便于上层组件（如缓存客户端）
// 以依赖注入方式接入不同的锁实现。
// 返回 (nil, false, nil) 表示锁被占用。
type LockFunc func(ctx context.Context, name string, lease time.Duration) (Unlocker, bool, error)

// Locker 返回基于本包 Mutex 的 LockFunc。
func Locker(store xkv.Store, opts ...Option) LockFunc {
	return func(ctx context.Context, name string, lease time.Duration) (Unlocker, bool, error) {
		m, err := New(store, name, opts...)
		if err != nil {
			return nil, false, err
		}
		acquired, err := m.TryLock(ctx, lease)
		if err != nil || !acquired {
			return nil, false, err
		}
		return m.Unlock, true, nil
	}
}
