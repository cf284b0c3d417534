package xkv

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// =============================================================================
// Store 接口定义
// =============================================================================

// Store 定义远端 KV 存储的最小契约。
// 所有方法并发安全；所有方法都可能返回 ErrStoreUnavailable。
type Store interface {
	// Get 读取 key 的值。
	// key 不存在时返回 ("", false, nil)；空字符串 value 返回 ("", true, nil)。
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set 写入 key。ttl <= 0 表示不设置存储层过期时间。
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// SetNX 当 key 不存在时原子写入并设置 ttl，返回是否写入成功。
	SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error)

	// Del 删除 key，返回 key 是否存在。
	Del(ctx context.Context, key string) (bool, error)

	// CompareAndDelete 当 key 的当前值等于 expected 时原子删除。
	// 返回是否删除成功。用于锁的属主校验释放。
	CompareAndDelete(ctx context.Context, key, expected string) (bool, error)

	// Incr 原子自增 key 并返回自增后的值。key 不存在时视作 0。
	Incr(ctx context.Context, key string) (int64, error)

	// Expire 为已存在的 key 设置过期时间，返回 key 是否存在。
	Expire(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Client 返回底层的 redis.UniversalClient。
	// 用于执行契约之外的 Redis 操作（列表、有序集合、GEO 等）。
	Client() redis.UniversalClient
}
