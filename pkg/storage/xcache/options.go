package xcache

import (
	"log/slog"
	"time"

	"github.com/omeyang/dpkit/pkg/distributed/xrlock"
	"github.com/omeyang/dpkit/pkg/util/xpool"
)

// =============================================================================
// 配置选项
// =============================================================================

const (
	// DefaultNegativeTTL 空值标记的默认 TTL。
	DefaultNegativeTTL = 2 * time.Minute

	// DefaultLockTTL 重建锁的默认租约。
	DefaultLockTTL = 10 * time.Second

	// DefaultLockBackoff 互斥模式未拿到锁时的退避间隔。
	DefaultLockBackoff = 50 * time.Millisecond

	// DefaultMaxLockRetries 互斥模式退避重试的封顶次数。
	DefaultMaxLockRetries = 100

	// DefaultLoadTimeout 单次回源（含异步重建）的超时时间。
	DefaultLoadTimeout = 30 * time.Second

	// DefaultRebuildWorkers 异步重建 worker 数量。
	DefaultRebuildWorkers = 10
)

// Options 定义 Client 的配置选项。
type Options struct {
	// NegativeTTL 空值标记的 TTL，默认 2 分钟。
	NegativeTTL time.Duration

	// LockTTL 重建锁租约，默认 10 秒。
	LockTTL time.Duration

	// LockBackoff 互斥模式退避间隔，默认 50ms。
	LockBackoff time.Duration

	// MaxLockRetries 互斥模式退避封顶次数，默认 100。
	// 耗尽后返回 ErrRebuildTimeout。
	MaxLockRetries int

	// LoadTimeout 回源超时，默认 30 秒。
	// 异步重建任务也使用该超时，防止 worker 被慢后端长期占用。
	LoadTimeout time.Duration

	// CachePrefix 缓存 key 的公共前缀，用于推导重建锁名：
	// 锁名 = 去掉该前缀后的 key（锁实现再追加 "lock:"），
	// 例如 cache:shop:1 → lock:shop:1。默认 "cache:"。
	CachePrefix string

	// RebuildWorkers 内建重建池的 worker 数量，默认 10。
	// 注入外部 pool（WithPool）时忽略。
	RebuildWorkers int

	// Logger 用于记录警告和错误日志，默认 slog.Default()。
	Logger *slog.Logger

	now  func() time.Time
	lock xrlock.LockFunc
	pool *xpool.Pool[func()]
}

// Option 定义配置 Client 的函数类型。
type Option func(*Options)

// defaultOptions 返回默认配置。
func defaultOptions() *Options {
	return &Options{
		NegativeTTL:    DefaultNegativeTTL,
		LockTTL:        DefaultLockTTL,
		LockBackoff:    DefaultLockBackoff,
		MaxLockRetries: DefaultMaxLockRetries,
		LoadTimeout:    DefaultLoadTimeout,
		CachePrefix:    "cache:",
		RebuildWorkers: DefaultRebuildWorkers,
		Logger:         slog.Default(),
		now:            time.Now,
	}
}

// WithNegativeTTL 设置空值标记的 TTL。
func WithNegativeTTL(ttl time.Duration) Option {
	return func(o *Options) {
		if ttl > 0 {
			o.NegativeTTL = ttl
		}
	}
}

// WithLockTTL 设置重建锁租约。
func WithLockTTL(ttl time.Duration) Option {
	return func(o *Options) {
		if ttl > 0 {
			o.LockTTL = ttl
		}
	}
}

// WithLockBackoff 设置互斥模式的退避间隔与封顶次数。
func WithLockBackoff(interval time.Duration, maxRetries int) Option {
	return func(o *Options) {
		if interval > 0 {
			o.LockBackoff = interval
		}
		if maxRetries > 0 {
			o.MaxLockRetries = maxRetries
		}
	}
}

// WithLoadTimeout 设置回源超时。
func WithLoadTimeout(timeout time.Duration) Option {
	return func(o *Options) {
		if timeout > 0 {
			o.LoadTimeout = timeout
		}
	}
}

// WithCachePrefix 设置缓存 key 的公共前缀（用于推导锁名）。
func WithCachePrefix(prefix string) Option {
	return func(o *Options) {
		o.CachePrefix = prefix
	}
}

// WithRebuildWorkers 设置内建重建池的 worker 数量。
func WithRebuildWorkers(n int) Option {
	return func(o *Options) {
		if n > 0 {
			o.RebuildWorkers = n
		}
	}
}

// WithLogger 设置自定义 Logger。传入 nil 将被忽略。
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		if logger != nil {
			o.Logger = logger
		}
	}
}

// WithNow 注入时钟函数，用于测试确定性。
func WithNow(now func() time.Time) Option {
	return func(o *Options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithLockFunc 注入外部锁实现（如 xrlock.RedsyncLocker），
// 替代默认的单节点 SETNX 锁。
func WithLockFunc(lock xrlock.LockFunc) Option {
	return func(o *Options) {
		if lock != nil {
			o.lock = lock
		}
	}
}

// WithPool 注入共享的重建 worker pool。
// 注入后 Client.Close 不再负责关闭该 pool。
func WithPool(pool *xpool.Pool[func()]) Option {
	return func(o *Options) {
		if pool != nil {
			o.pool = pool
		}
	}
}
