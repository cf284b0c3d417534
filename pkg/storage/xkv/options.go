package xkv

import (
	"time"

	"github.com/sony/gobreaker/v2"
)

// =============================================================================
// 配置选项
// =============================================================================

// Options 定义 Store 的配置选项。
type Options struct {
	// RetryDelay 瞬时错误重试前的等待时间。
	// 默认 20ms。重试只进行一次，更多的恢复策略交给上层。
	RetryDelay time.Duration

	// BreakerSettings 熔断器配置。
	// 非 nil 时为所有操作挂接 gobreaker 熔断器，存储端持续故障时
	// 快速失败而不是反复等待超时。默认为 nil（不熔断）。
	BreakerSettings *gobreaker.Settings
}

// Option 定义配置 Store 的函数类型。
type Option func(*Options)

// defaultOptions 返回默认配置。
func defaultOptions() *Options {
	return &Options{
		RetryDelay: 20 * time.Millisecond,
	}
}

// WithRetryDelay 设置瞬时错误重试前的等待时间。
func WithRetryDelay(d time.Duration) Option {
	return func(o *Options) {
		if d > 0 {
			o.RetryDelay = d
		}
	}
}

// WithBreaker 挂接熔断器。
// settings.Name 为空时使用 "xkv"。
func WithBreaker(settings gobreaker.Settings) Option {
	return func(o *Options) {
		if settings.Name == "" {
			settings.Name = "xkv"
		}
		o.BreakerSettings = &settings
	}
}
