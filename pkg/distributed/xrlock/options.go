package xrlock

// =============================================================================
// 配置选项
// =============================================================================

// Options 定义锁的配置选项。
type Options struct {
	// KeyPrefix 锁 key 的前缀，默认 "lock:"。
	KeyPrefix string
}

// Option 定义配置锁的函数类型。
type Option func(*Options)

// defaultOptions 返回默认配置。
func defaultOptions() *Options {
	return &Options{
		KeyPrefix: "lock:",
	}
}

// WithKeyPrefix 设置锁 key 前缀。
func WithKeyPrefix(prefix string) Option {
	return func(o *Options) {
		o.KeyPrefix = prefix
	}
}
