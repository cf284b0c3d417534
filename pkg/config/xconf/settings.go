package xconf

import (
	"fmt"
	"time"
)

// Settings 是全部运行参数的强类型快照。
// 零值不可直接使用，请通过 Default、Load 或 LoadBytes 获取。
type Settings struct {
	Cache   CacheSettings   `koanf:"cache"`
	Login   LoginSettings   `koanf:"login"`
	Lock    LockSettings    `koanf:"lock"`
	Rebuild RebuildSettings `koanf:"rebuild"`
}

// CacheSettings 缓存 TTL 参数。
type CacheSettings struct {
	// Shop 店铺缓存条目。
	Shop Entry `koanf:"shop"`

	// ShopType 店铺类型列表缓存条目。
	ShopType Entry `koanf:"shoptype"`

	// Null 空值标记条目（穿透防护）。
	Null Entry `koanf:"null"`
}

// LoginSettings 登录态 TTL 参数。
type LoginSettings struct {
	// Code 短信验证码条目。
	Code Entry `koanf:"code"`

	// User 登录令牌条目。
	User Entry `koanf:"user"`
}

// LockSettings 分布式锁租约参数。TTL 即租约时长。
type LockSettings struct {
	// Shop 缓存重建锁。
	Shop Entry `koanf:"shop"`

	// Order 下单防重锁。
	Order Entry `koanf:"order"`
}

// RebuildSettings 异步重建参数。
type RebuildSettings struct {
	Pool PoolSettings `koanf:"pool"`
}

// PoolSettings 重建 worker 池参数。
type PoolSettings struct {
	// Size worker 数量。
	Size int `koanf:"size"`
}

// Entry 是带 TTL 的单个参数条目。
type Entry struct {
	TTL time.Duration `koanf:"ttl"`
}

// Default 返回内置默认参数。
func Default() Settings {
	return Settings{
		Cache: CacheSettings{
			Shop:     Entry{TTL: 30 * time.Minute},
			ShopType: Entry{TTL: 30 * time.Minute},
			Null:     Entry{TTL: 2 * time.Minute},
		},
		Login: LoginSettings{
			Code: Entry{TTL: 2 * time.Minute},
			User: Entry{TTL: 30 * time.Minute},
		},
		Lock: LockSettings{
			Shop:  Entry{TTL: 10 * time.Second},
			Order: Entry{TTL: 20 * time.Minute},
		},
		Rebuild: RebuildSettings{
			Pool: PoolSettings{Size: 10},
		},
	}
}

// validate 校验参数合法性。
func (s *Settings) validate() error {
	checks := []struct {
		name string
		ttl  time.Duration
	}{
		{"cache.shop.ttl", s.Cache.Shop.TTL},
		{"cache.shoptype.ttl", s.Cache.ShopType.TTL},
		{"cache.null.ttl", s.Cache.Null.TTL},
		{"login.code.ttl", s.Login.Code.TTL},
		{"login.user.ttl", s.Login.User.TTL},
		{"lock.shop.ttl", s.Lock.Shop.TTL},
		{"lock.order.ttl", s.Lock.Order.TTL},
	}
	for _, c := range checks {
		if c.ttl <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %s", ErrInvalidSetting, c.name, c.ttl)
		}
	}
	if s.Rebuild.Pool.Size <= 0 {
		return fmt.Errorf("%w: rebuild.pool.size must be positive, got %d", ErrInvalidSetting, s.Rebuild.Pool.Size)
	}
	return nil
}
