package xkv

import (
	"context"
	"errors"
	"fmt"
	"time"

	retry "github.com/avast/retry-go/v5"
	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker/v2"
)

// compareDeleteScript 属主校验删除的 Lua 脚本。
// 返回 1 表示删除成功，0 表示 key 不存在或值不匹配。
var compareDeleteScript = redis.NewScript(`
	if redis.call("GET", KEYS[1]) == ARGV[1] then
		return redis.call("DEL", KEYS[1])
	else
		return 0
	end
`)

// NewRedis 创建基于 go-redis 的 Store 实例。
// client 必须是已初始化的 redis.UniversalClient，生命周期由调用方管理。
func NewRedis(client redis.UniversalClient, opts ...Option) (Store, error) {
	if client == nil {
		return nil, ErrNilClient
	}

	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	s := &redisStore{
		client:  client,
		options: options,
	}
	if options.BreakerSettings != nil {
		s.breaker = gobreaker.NewCircuitBreaker[any](*options.BreakerSettings)
	}
	return s, nil
}

// redisStore 实现 Store 接口。
type redisStore struct {
	client  redis.UniversalClient
	options *Options
	breaker *gobreaker.CircuitBreaker[any]
}

func (s *redisStore) Get(ctx context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, ErrEmptyKey
	}
	value, err := execute(ctx, s, func() (string, error) {
		return s.client.Get(ctx, key).Result()
	})
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, err
	}
	return value, true, nil
}

func (s *redisStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if key == "" {
		return ErrEmptyKey
	}
	if ttl < 0 {
		ttl = 0
	}
	_, err := execute(ctx, s, func() (struct{}, error) {
		return struct{}{}, s.client.Set(ctx, key, value, ttl).Err()
	})
	return err
}

func (s *redisStore) SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	if key == "" {
		return false, ErrEmptyKey
	}
	return execute(ctx, s, func() (bool, error) {
		return s.client.SetNX(ctx, key, value, ttl).Result()
	})
}

func (s *redisStore) Del(ctx context.Context, key string) (bool, error) {
	if key == "" {
		return false, ErrEmptyKey
	}
	n, err := execute(ctx, s, func() (int64, error) {
		return s.client.Del(ctx, key).Result()
	})
	return n > 0, err
}

func (s *redisStore) CompareAndDelete(ctx context.Context, key, expected string) (bool, error) {
	if key == "" {
		return false, ErrEmptyKey
	}
	n, err := execute(ctx, s, func() (int64, error) {
		return compareDeleteScript.Run(ctx, s.client, []string{key}, expected).Int64()
	})
	return n == 1, err
}

func (s *redisStore) Incr(ctx context.Context, key string) (int64, error) {
	if key == "" {
		return 0, ErrEmptyKey
	}
	return execute(ctx, s, func() (int64, error) {
		return s.client.Incr(ctx, key).Result()
	})
}

func (s *redisStore) Expire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	if key == "" {
		return false, ErrEmptyKey
	}
	return execute(ctx, s, func() (bool, error) {
		return s.client.Expire(ctx, key, ttl).Result()
	})
}

func (s *redisStore) Client() redis.UniversalClient {
	return s.client
}

// =============================================================================
// 执行封装：熔断 + 单次重试
// =============================================================================

// execute 以统一的错误策略执行一次存储操作：
// 先经过熔断器（如果配置），瞬时错误最多重试一次，
// 仍失败则包装为 ErrStoreUnavailable。
func execute[T any](ctx context.Context, s *redisStore, op func() (T, error)) (T, error) {
	run := op
	if s.breaker != nil {
		run = func() (T, error) {
			result, err := s.breaker.Execute(func() (any, error) {
				return op()
			})
			if err != nil {
				var zero T
				return zero, err
			}
			return result.(T), nil
		}
	}

	value, err := retry.NewWithData[T](
		retry.Context(ctx),
		retry.Attempts(2),
		retry.Delay(s.options.RetryDelay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(isTransient),
	).Do(run)
	if err != nil && shouldWrapUnavailable(err) {
		return value, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return value, err
}

// shouldWrapUnavailable 判断错误是否应包装为 ErrStoreUnavailable。
// 熔断器打开与瞬时错误一样属于"存储端不可用"，一并包装；
// redis.Nil 和 context 错误保持原样供调用方判别。
func shouldWrapUnavailable(err error) bool {
	if errors.Is(err, redis.Nil) {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return true
}

// isTransient 判断错误是否是值得重试的瞬时 I/O 错误。
// redis.Nil（key 不存在）、context 取消/超时和熔断器打开都不重试。
func isTransient(err error) bool {
	if err == nil || errors.Is(err, redis.Nil) {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return false
	}
	return true
}
