package xshop

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/omeyang/dpkit/internal/rediskey"
	"github.com/omeyang/dpkit/pkg/storage/xcache"
)

// Service 是店铺查询与更新服务。并发安全。
type Service struct {
	store ShopStore
	cache *xcache.Client
	opts  *Options
}

// New 创建店铺服务。
func New(store ShopStore, cache *xcache.Client, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, ErrNilStore
	}
	if cache == nil {
		return nil, ErrNilCache
	}

	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}
	return &Service{
		store: store,
		cache: cache,
		opts:  options,
	}, nil
}

// fallback 返回按 ID 回源店铺的 FallbackFunc。
// 闭包捕获 int64 的 id，字符串形参只是缓存层的 key 片段。
func (s *Service) fallback(id int64) xcache.FallbackFunc[Shop] {
	return func(ctx context.Context, _ string) (*Shop, error) {
		return s.store.GetShop(ctx, id)
	}
}

// QueryByID 查询店铺，走逻辑过期策略。
// 适用于预热过的热点店铺：读路径永不因重建阻塞。
// 未预热的店铺返回 (nil, nil)，调用方可回退到 QueryByIDMutex。
func (s *Service) QueryByID(ctx context.Context, id int64) (*Shop, error) {
	if id <= 0 {
		return nil, ErrMissingID
	}
	return xcache.GetWithLogicalExpire(ctx, s.cache,
		rediskey.CacheShopPrefix, strconv.FormatInt(id, 10),
		s.opts.ShopTTL, s.fallback(id))
}

// QueryByIDMutex 查询店铺，走互斥重建策略。
// 未命中时恰有一个调用方回源，其余退避等待，适合未预热的数据。
func (s *Service) QueryByIDMutex(ctx context.Context, id int64) (*Shop, error) {
	if id <= 0 {
		return nil, ErrMissingID
	}
	return xcache.GetWithMutex(ctx, s.cache,
		rediskey.CacheShopPrefix, strconv.FormatInt(id, 10),
		s.opts.ShopTTL, s.fallback(id))
}

// QueryByIDPassThrough 查询店铺，走直通策略。
// 只有空值标记防穿透，没有击穿防护，适合低频访问的数据。
func (s *Service) QueryByIDPassThrough(ctx context.Context, id int64) (*Shop, error) {
	if id <= 0 {
		return nil, ErrMissingID
	}
	return xcache.GetWithPassThrough(ctx, s.cache,
		rediskey.CacheShopPrefix, strconv.FormatInt(id, 10),
		s.opts.ShopTTL, s.fallback(id))
}

// QueryTypeList 查询店铺分类列表，整表缓存。
// 布局是 redis list：每个元素一条 JSON 编码的分类，不走缓存客户端的
// 字符串编码，通过底层存储的 Client 直接读写。
func (s *Service) QueryTypeList(ctx context.Context) ([]ShopType, error) {
	rdb := s.cache.Store().Client()
	cached, err := rdb.LRange(ctx, rediskey.CacheShopTypeKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("xshop: read type list cache: %w", err)
	}
	if types, ok := decodeTypeList(cached); ok {
		if len(types) > 0 {
			return types, nil
		}
	} else {
		s.opts.Logger.WarnContext(ctx, "shop type cache corrupt",
			"key", rediskey.CacheShopTypeKey)
	}

	types, err := s.store.ListTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("xshop: list shop types: %w", err)
	}
	s.cacheTypeList(ctx, rdb, types)
	return types, nil
}

// decodeTypeList 解码 list 缓存，任一元素损坏即整体视作未命中。
func decodeTypeList(cached []string) ([]ShopType, bool) {
	types := make([]ShopType, 0, len(cached))
	for _, raw := range cached {
		var st ShopType
		if err := json.Unmarshal([]byte(raw), &st); err != nil {
			return nil, false
		}
		types = append(types, st)
	}
	return types, true
}

// cacheTypeList 把分类列表批量左推进 list。写入是 best-effort，
// 失败记 WARN 不影响业务返回。逆序推入使 LRange 读出顺序与回源一致。
func (s *Service) cacheTypeList(ctx context.Context, rdb redis.UniversalClient, types []ShopType) {
	if len(types) == 0 {
		return
	}
	vals := make([]any, 0, len(types))
	for i := len(types) - 1; i >= 0; i-- {
		raw, err := json.Marshal(types[i])
		if err != nil {
			s.opts.Logger.WarnContext(ctx, "encode shop type failed",
				"id", types[i].ID, "error", err)
			return
		}
		vals = append(vals, raw)
	}
	pipe := rdb.TxPipeline()
	pipe.Del(ctx, rediskey.CacheShopTypeKey)
	pipe.LPush(ctx, rediskey.CacheShopTypeKey, vals...)
	pipe.Expire(ctx, rediskey.CacheShopTypeKey, s.opts.TypeTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		s.opts.Logger.WarnContext(ctx, "cache shop type list failed",
			"key", rediskey.CacheShopTypeKey, "error", err)
	}
}

// Update 更新店铺：先提交数据库变更，再删除缓存。
// 顺序不可颠倒，否则并发读可能把旧值重新灌进缓存。
func (s *Service) Update(ctx context.Context, shop *Shop) error {
	if shop == nil || shop.ID <= 0 {
		return ErrMissingID
	}
	if err := s.store.UpdateShop(ctx, shop); err != nil {
		return fmt.Errorf("xshop: update shop %d: %w", shop.ID, err)
	}
	if err := s.cache.Invalidate(ctx, rediskey.CacheShop(shop.ID)); err != nil {
		return fmt.Errorf("xshop: invalidate shop %d: %w", shop.ID, err)
	}
	return nil
}

// WarmUp 把店铺以逻辑过期信封预热进缓存。
// 不存在的店铺记入返回错误但不中断其余预热。
func (s *Service) WarmUp(ctx context.Context, ids ...int64) error {
	var errs []error
	for _, id := range ids {
		if err := s.warmOne(ctx, id); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *Service) warmOne(ctx context.Context, id int64) error {
	shop, err := s.store.GetShop(ctx, id)
	if err != nil {
		return fmt.Errorf("xshop: warm up shop %d: %w", id, err)
	}
	if shop == nil {
		return fmt.Errorf("%w: id %d", ErrShopNotFound, id)
	}
	if err := s.cache.SetWithLogicalExpire(ctx, rediskey.CacheShop(id), shop, s.opts.ShopTTL); err != nil {
		return fmt.Errorf("xshop: warm up shop %d: %w", id, err)
	}
	return nil
}
