package xcache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/omeyang/dpkit/pkg/distributed/xrlock"
	"github.com/omeyang/dpkit/pkg/storage/xkv"
	"github.com/omeyang/dpkit/pkg/util/xpool"
)

// negativeMarker 是写入 KV 的空值标记。
// 与"键不存在"严格区分：标记命中返回 nil 而不回源。
const negativeMarker = ""

// Client 是基于 xkv.Store 的缓存客户端。
// 封装三种读策略（直通、互斥重建、逻辑过期）以及写后失效的写路径。
// 并发安全，可被多个 goroutine 共享。
type Client struct {
	store xkv.Store
	opts  *Options

	// group 合并同进程内对同一 key 的并发重建。
	group singleflight.Group

	// pool 承载逻辑过期模式的异步重建任务。
	pool    *xpool.Pool[func()]
	ownPool bool

	lock xrlock.LockFunc

	hits      atomic.Int64
	misses    atomic.Int64
	negatives atomic.Int64
	rebuilds  atomic.Int64
	stales    atomic.Int64
}

// Stats 是缓存客户端的运行统计快照。
type Stats struct {
	Hits      int64 // 新鲜命中次数
	Misses    int64 // 未命中（触发回源）次数
	Negatives int64 // 空值标记命中次数
	Rebuilds  int64 // 实际执行回源的次数
	Stales    int64 // 逻辑过期模式下返回陈旧值的次数
}

// New 创建缓存客户端。store 不能为 nil。
func New(store xkv.Store, opts ...Option) (*Client, error) {
	if store == nil {
		return nil, ErrNilStore
	}
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	c := &Client{
		store: store,
		opts:  options,
		lock:  options.lock,
		pool:  options.pool,
	}
	if c.lock == nil {
		c.lock = xrlock.Locker(store)
	}
	if c.pool == nil {
		pool, err := xpool.New(func(task func()) { task() },
			xpool.WithWorkers(options.RebuildWorkers),
			xpool.WithName("xcache-rebuild"),
			xpool.WithLogger(options.Logger),
		)
		if err != nil {
			return nil, fmt.Errorf("xcache: create rebuild pool: %w", err)
		}
		c.pool = pool
		c.ownPool = true
	}
	return c, nil
}

// Set 序列化 value 并以固定 TTL 写入。
func (c *Client) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if key == "" {
		return ErrEmptyKey
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("xcache: marshal value: %w", err)
	}
	return c.store.Set(ctx, key, string(data), ttl)
}

// SetWithLogicalExpire 将 value 连同逻辑过期时间一起写入，不设置存储层 TTL。
// 逻辑过期时间 = 当前时间 + ttl。
func (c *Client) SetWithLogicalExpire(ctx context.Context, key string, value any, ttl time.Duration) error {
	if key == "" {
		return ErrEmptyKey
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("xcache: marshal value: %w", err)
	}
	env := envelope{
		Data:       data,
		ExpireTime: LocalTime(c.opts.now().Add(ttl)),
	}
	raw, err := json.Marshal(&env)
	if err != nil {
		return fmt.Errorf("xcache: marshal envelope: %w", err)
	}
	return c.store.Set(ctx, key, string(raw), 0)
}

// Invalidate 删除缓存键。键不存在不视为错误。
// 与数据库更新配合使用时，先提交数据库变更再调用本方法。
func (c *Client) Invalidate(ctx context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	_, err := c.store.Del(ctx, key)
	return err
}

// Store 暴露底层 KV 存储，供需要非字符串布局（list、zset、geo）
// 的调用方绕过本客户端的 JSON 字符串编码直接操作。
func (c *Client) Store() xkv.Store {
	return c.store
}

// Stats 返回当前统计快照。
func (c *Client) Stats() Stats {
	return Stats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Negatives: c.negatives.Load(),
		Rebuilds:  c.rebuilds.Load(),
		Stales:    c.stales.Load(),
	}
}

// Close 关闭客户端，等待在途的异步重建任务完成。
// 外部注入的 pool 不会被关闭。
func (c *Client) Close() error {
	if c.ownPool {
		c.pool.Close()
	}
	return nil
}

// lockName 从缓存 key 推导重建锁名：去掉公共缓存前缀，
// 例如 cache:shop:1 → shop:1（锁实现再追加自己的前缀）。
func (c *Client) lockName(key string) string {
	return strings.TrimPrefix(key, c.opts.CachePrefix)
}

// detachedLoadContext 为回源创建与调用方取消解耦的 context。
// 携带调用方的 value，但调用方超时或取消不会中断回源，
// 避免首个请求离开后其余等待者拿不到结果。
func (c *Client) detachedLoadContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), c.opts.LoadTimeout)
}
