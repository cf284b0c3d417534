package xcache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// FallbackFunc 是缓存未命中时的回源函数。
// 返回 (nil, nil) 表示后端确认该记录不存在，
// 此时客户端写入空值标记以抵御缓存穿透。
type FallbackFunc[T any] func(ctx context.Context, id string) (*T, error)

// flightResult 是互斥模式下 singleflight 共享的重建结果。
// acquired 为 false 表示本轮没有拿到重建锁，调用方应退避后重试。
type flightResult[T any] struct {
	value    *T
	acquired bool
}

// =============================================================================
// 直通模式
// =============================================================================

// GetWithPassThrough 以直通模式读取：命中直接反序列化返回；
// 空值标记命中返回 (nil, nil)；未命中调用 fallback 回源，
// 结果（或空值标记）写回缓存后返回。
//
// 回源不加锁，高并发下同一 key 可能多次回源；
// 需要防击穿时使用 GetWithMutex 或 GetWithLogicalExpire。
func GetWithPassThrough[T any](ctx context.Context, c *Client, keyPrefix, id string, ttl time.Duration, fallback FallbackFunc[T]) (*T, error) {
	if fallback == nil {
		return nil, ErrNilFallback
	}
	key := keyPrefix + id
	if key == "" {
		return nil, ErrEmptyKey
	}

	raw, ok, err := c.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if ok {
		if raw == negativeMarker {
			c.negatives.Add(1)
			return nil, nil
		}
		if value, derr := decodeValue[T](key, raw); derr == nil {
			c.hits.Add(1)
			return value, nil
		} else {
			// 损坏的值当未命中处理，回源后覆盖。
			c.opts.Logger.WarnContext(ctx, "cache value corrupt", "key", key, "error", derr)
		}
	}

	c.misses.Add(1)
	c.rebuilds.Add(1)
	value, err := fallback(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("xcache: load %s: %w", key, err)
	}
	if value == nil {
		if serr := c.store.Set(ctx, key, negativeMarker, c.opts.NegativeTTL); serr != nil {
			c.opts.Logger.WarnContext(ctx, "cache negative set failed", "key", key, "error", serr)
		}
		return nil, nil
	}
	if serr := c.Set(ctx, key, value, ttl); serr != nil {
		c.opts.Logger.WarnContext(ctx, "cache set failed", "key", key, "error", serr)
	}
	return value, nil
}

// =============================================================================
// 互斥重建模式
// =============================================================================

// GetWithMutex 以互斥重建模式读取：未命中时先竞争分布式重建锁，
// 拿到锁的调用方回源并写回，其余调用方退避重试读缓存。
// 同进程内对同一 key 的竞争先经 singleflight 合并，只有一个
// goroutine 真正去拿分布式锁。退避次数耗尽返回 ErrRebuildTimeout。
func GetWithMutex[T any](ctx context.Context, c *Client, keyPrefix, id string, ttl time.Duration, fallback FallbackFunc[T]) (*T, error) {
	if fallback == nil {
		return nil, ErrNilFallback
	}
	key := keyPrefix + id
	if key == "" {
		return nil, ErrEmptyKey
	}

	for attempt := 0; ; attempt++ {
		raw, ok, err := c.store.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		if ok {
			if raw == negativeMarker {
				c.negatives.Add(1)
				return nil, nil
			}
			if value, derr := decodeValue[T](key, raw); derr == nil {
				c.hits.Add(1)
				return value, nil
			} else {
				c.opts.Logger.WarnContext(ctx, "cache value corrupt", "key", key, "error", derr)
			}
		}
		c.misses.Add(1)

		result, err := rebuildWithLock(ctx, c, key, id, ttl, fallback)
		if err != nil {
			return nil, err
		}
		if result.acquired {
			return result.value, nil
		}

		// 没拿到锁：退避后重读，别人可能已经重建完。
		if attempt >= c.opts.MaxLockRetries {
			return nil, fmt.Errorf("%w: key %s", ErrRebuildTimeout, key)
		}
		timer := time.NewTimer(c.opts.LockBackoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

// rebuildWithLock 在 singleflight 内竞争分布式锁并重建。
// 回源使用与调用方取消解耦的 context，保证共享结果对所有
// 等待者有效；调用方取消只影响它自己的等待。
func rebuildWithLock[T any](ctx context.Context, c *Client, key, id string, ttl time.Duration, fallback FallbackFunc[T]) (flightResult[T], error) {
	ch := c.group.DoChan(key, func() (any, error) {
		loadCtx, cancel := c.detachedLoadContext(ctx)
		defer cancel()

		unlock, acquired, err := c.lock(loadCtx, c.lockName(key), c.opts.LockTTL)
		if err != nil {
			return nil, err
		}
		if !acquired {
			return flightResult[T]{}, nil
		}
		defer func() {
			if uerr := unlock(loadCtx); uerr != nil {
				c.opts.Logger.WarnContext(loadCtx, "rebuild unlock failed", "key", key, "error", uerr)
			}
		}()

		// 二次检查：排队期间别的进程可能已经重建完。
		raw, ok, err := c.store.Get(loadCtx, key)
		if err != nil {
			return nil, err
		}
		if ok {
			if raw == negativeMarker {
				return flightResult[T]{acquired: true}, nil
			}
			if value, derr := decodeValue[T](key, raw); derr == nil {
				return flightResult[T]{value: value, acquired: true}, nil
			}
			// 损坏的值继续走回源覆盖。
		}

		c.rebuilds.Add(1)
		value, err := fallback(loadCtx, id)
		if err != nil {
			return nil, fmt.Errorf("xcache: load %s: %w", key, err)
		}
		if value == nil {
			if serr := c.store.Set(loadCtx, key, negativeMarker, c.opts.NegativeTTL); serr != nil {
				c.opts.Logger.WarnContext(loadCtx, "cache negative set failed", "key", key, "error", serr)
			}
			return flightResult[T]{acquired: true}, nil
		}
		if serr := c.Set(loadCtx, key, value, ttl); serr != nil {
			c.opts.Logger.WarnContext(loadCtx, "cache set failed", "key", key, "error", serr)
		}
		return flightResult[T]{value: value, acquired: true}, nil
	})

	select {
	case <-ctx.Done():
		return flightResult[T]{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return flightResult[T]{}, res.Err
		}
		return res.Val.(flightResult[T]), nil
	}
}

// =============================================================================
// 逻辑过期模式
// =============================================================================

// GetWithLogicalExpire 以逻辑过期模式读取，适用于提前预热的热点数据。
// 键不存在视为记录不存在，返回 (nil, nil)，不回源；
// 命中且逻辑上未过期直接返回；已过期则竞争重建锁：
// 拿到锁且二次检查发现信封已被别的进程刷新时直接返回新鲜值，
// 仍过期才返回陈旧值并把重建任务提交到 worker 池异步执行。
// 读路径永不因重建而阻塞。
func GetWithLogicalExpire[T any](ctx context.Context, c *Client, keyPrefix, id string, ttl time.Duration, fallback FallbackFunc[T]) (*T, error) {
	if fallback == nil {
		return nil, ErrNilFallback
	}
	key := keyPrefix + id
	if key == "" {
		return nil, ErrEmptyKey
	}

	raw, ok, err := c.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if !ok {
		c.misses.Add(1)
		return nil, nil
	}
	env, err := parseEnvelope(raw)
	if err != nil {
		// 损坏的信封当不存在处理：热点数据等待下一次预热。
		c.opts.Logger.WarnContext(ctx, "cache envelope corrupt", "key", key, "error", err)
		c.misses.Add(1)
		return nil, nil
	}
	var value T
	if err := json.Unmarshal(env.Data, &value); err != nil {
		c.opts.Logger.WarnContext(ctx, "cache value corrupt", "key", key, "error", err)
		c.misses.Add(1)
		return nil, nil
	}
	if env.fresh(c.opts.now()) {
		c.hits.Add(1)
		return &value, nil
	}

	// 陈旧：竞争重建锁。拿到锁后的二次检查可能发现别的进程
	// 已经刷新完，此时调用方直接拿到新鲜值；仍过期才交给后台重建。
	freshEnv := c.scheduleRebuild(ctx, key, id, ttl, func(loadCtx context.Context, id string) (any, error) {
		v, ferr := fallback(loadCtx, id)
		if ferr != nil || v == nil {
			return nil, ferr
		}
		return v, nil
	})
	if freshEnv != nil {
		var fresh T
		if uerr := json.Unmarshal(freshEnv.Data, &fresh); uerr != nil {
			c.opts.Logger.WarnContext(ctx, "cache value corrupt", "key", key, "error", uerr)
		} else {
			c.hits.Add(1)
			return &fresh, nil
		}
	}
	c.stales.Add(1)
	return &value, nil
}

// rebuilder 是类型擦除后的回源函数，返回 nil 表示记录已不存在。
type rebuilder func(ctx context.Context, id string) (any, error)

// scheduleRebuild 竞争重建锁并把重建任务投递到 worker 池。
// 拿到锁后先做同步二次检查：排队拿锁期间别的进程可能已经刷新完，
// 此时放锁并返回新鲜信封，不投递任务；仍过期才异步重建。
// 锁竞争失败、KV 异常或队列已满都只记日志，不影响读路径。
func (c *Client) scheduleRebuild(ctx context.Context, key, id string, ttl time.Duration, load rebuilder) *envelope {
	unlock, acquired, err := c.lock(ctx, c.lockName(key), c.opts.LockTTL)
	if err != nil {
		c.opts.Logger.WarnContext(ctx, "rebuild lock failed", "key", key, "error", err)
		return nil
	}
	if !acquired {
		return nil
	}

	// 二次检查：拿锁前可能已有别的进程刷新过。
	if raw, ok, gerr := c.store.Get(ctx, key); gerr == nil && ok {
		if env, perr := parseEnvelope(raw); perr == nil && env.fresh(c.opts.now()) {
			if uerr := unlock(ctx); uerr != nil {
				c.opts.Logger.WarnContext(ctx, "rebuild unlock failed", "key", key, "error", uerr)
			}
			return env
		}
	}

	task := func() {
		loadCtx, cancel := c.detachedLoadContext(context.Background())
		defer cancel()
		defer func() {
			if uerr := unlock(loadCtx); uerr != nil {
				c.opts.Logger.Warn("rebuild unlock failed", "key", key, "error", uerr)
			}
		}()

		value, lerr := load(loadCtx, id)
		if lerr != nil {
			c.opts.Logger.Error("cache rebuild failed", "key", key, "error", lerr)
			return
		}
		if value == nil {
			// 后端记录已删除：同步清掉缓存，避免永久陈旧。
			if _, derr := c.store.Del(loadCtx, key); derr != nil {
				c.opts.Logger.Warn("cache delete failed", "key", key, "error", derr)
			}
			return
		}
		c.rebuilds.Add(1)
		if serr := c.SetWithLogicalExpire(loadCtx, key, value, ttl); serr != nil {
			c.opts.Logger.Warn("cache refresh failed", "key", key, "error", serr)
		}
	}

	if serr := c.pool.Submit(task); serr != nil {
		// 队列满时立刻放锁，避免锁占到租约到期才释放。
		if uerr := unlock(ctx); uerr != nil {
			c.opts.Logger.WarnContext(ctx, "rebuild unlock failed", "key", key, "error", uerr)
		}
		c.opts.Logger.WarnContext(ctx, "rebuild submit rejected", "key", key, "error", serr)
	}
	return nil
}

func decodeValue[T any](key, raw string) (*T, error) {
	var value T
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		return nil, fmt.Errorf("xcache: decode %s: %w", key, err)
	}
	return &value, nil
}
