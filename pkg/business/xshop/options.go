package xshop

import (
	"log/slog"
	"time"

	"github.com/omeyang/dpkit/pkg/config/xconf"
)

// Options 定义 Service 的配置选项。
type Options struct {
	// ShopTTL 店铺缓存 TTL，默认 30 分钟。
	ShopTTL time.Duration

	// TypeTTL 类型列表缓存 TTL，默认 30 分钟。
	TypeTTL time.Duration

	// Logger 用于记录警告日志，默认 slog.Default()。
	Logger *slog.Logger
}

// Option 定义配置 Service 的函数类型。
type Option func(*Options)

// defaultOptions 返回默认配置，TTL 取 xconf 的内置默认值。
func defaultOptions() *Options {
	defaults := xconf.Default()
	return &Options{
		ShopTTL: defaults.Cache.Shop.TTL,
		TypeTTL: defaults.Cache.ShopType.TTL,
		Logger:  slog.Default(),
	}
}

// WithShopTTL 设置店铺缓存 TTL。
func WithShopTTL(ttl time.Duration) Option {
	return func(o *Options) {
		if ttl > 0 {
			o.ShopTTL = ttl
		}
	}
}

// WithTypeTTL 设置类型列表缓存 TTL。
func WithTypeTTL(ttl time.Duration) Option {
	return func(o *Options) {
		if ttl > 0 {
			o.TypeTTL = ttl
		}
	}
}

// WithSettings 用一份 xconf 参数快照设置全部 TTL。
func WithSettings(s *xconf.Settings) Option {
	return func(o *Options) {
		if s == nil {
			return
		}
		o.ShopTTL = s.Cache.Shop.TTL
		o.TypeTTL = s.Cache.ShopType.TTL
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
