package xseckill

import (
	"log/slog"
	"time"
)

// =============================================================================
// 配置选项
// =============================================================================

const (
	// DefaultOrderLockTTL 下单防重锁的默认租约。
	// 取业务上限：租约内事务必须完成，否则锁提前失效可能放进
	// 第二个请求（由数据库一人一单校验兜底）。
	DefaultOrderLockTTL = 20 * time.Minute

	// DefaultOrderTag 订单号生成器的默认业务标签。
	DefaultOrderTag = "order"
)

// Options 定义 Service 的配置选项。
type Options struct {
	// OrderLockTTL 下单防重锁租约，默认 20 分钟。
	OrderLockTTL time.Duration

	// OrderTag 订单号业务标签，默认 "order"。
	OrderTag string

	// Logger 用于记录警告日志，默认 slog.Default()。
	Logger *slog.Logger

	now func() time.Time
}

// Option 定义配置 Service 的函数类型。
type Option func(*Options)

// defaultOptions 返回默认配置。
func defaultOptions() *Options {
	return &Options{
		OrderLockTTL: DefaultOrderLockTTL,
		OrderTag:     DefaultOrderTag,
		Logger:       slog.Default(),
		now:          time.Now,
	}
}

// WithOrderLockTTL 设置下单防重锁租约。
func WithOrderLockTTL(ttl time.Duration) Option {
	return func(o *Options) {
		if ttl > 0 {
			o.OrderLockTTL = ttl
		}
	}
}

// WithOrderTag 设置订单号业务标签。
func WithOrderTag(tag string) Option {
	return func(o *Options) {
		if tag != "" {
			o.OrderTag = tag
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
