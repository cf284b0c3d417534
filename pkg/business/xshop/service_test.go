package xshop

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omeyang/dpkit/pkg/storage/xcache"
	"github.com/omeyang/dpkit/pkg/storage/xkv"
)

// fakeShopStore 内存版 ShopStore，记录回源次数。
type fakeShopStore struct {
	mu       sync.Mutex
	shops    map[int64]*Shop
	types     []ShopType
	getCalls  atomic.Int64
	listCalls atomic.Int64
}

func newFakeShopStore(shops ...*Shop) *fakeShopStore {
	s := &fakeShopStore{shops: make(map[int64]*Shop)}
	for _, shop := range shops {
		clone := *shop
		s.shops[shop.ID] = &clone
	}
	return s
}

func (s *fakeShopStore) GetShop(_ context.Context, id int64) (*Shop, error) {
	s.getCalls.Add(1)
	s.mu.Lock()
	defer s.mu.Unlock()
	shop, ok := s.shops[id]
	if !ok {
		return nil, nil
	}
	clone := *shop
	return &clone, nil
}

func (s *fakeShopStore) ListTypes(_ context.Context) ([]ShopType, error) {
	s.listCalls.Add(1)
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ShopType(nil), s.types...), nil
}

func (s *fakeShopStore) UpdateShop(_ context.Context, shop *Shop) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *shop
	s.shops[shop.ID] = &clone
	return nil
}

func newTestService(t *testing.T, store *fakeShopStore, opts ...Option) (*Service, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{
		Addr:         mr.Addr(),
		DialTimeout:  100 * time.Millisecond,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})
	t.Cleanup(func() { _ = rdb.Close() })

	kv, err := xkv.NewRedis(rdb)
	require.NoError(t, err)
	cache, err := xcache.New(kv)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cache.Close() })

	svc, err := New(store, cache, opts...)
	require.NoError(t, err)
	return svc, mr
}

func TestNew_Validation(t *testing.T) {
	_, err := New(nil, nil)
	assert.ErrorIs(t, err, ErrNilStore)
	_, err = New(newFakeShopStore(), nil)
	assert.ErrorIs(t, err, ErrNilCache)
}

func TestQueryByID_RejectsBadID(t *testing.T) {
	svc, _ := newTestService(t, newFakeShopStore())
	for _, query := range []func(context.Context, int64) (*Shop, error){
		svc.QueryByID, svc.QueryByIDMutex, svc.QueryByIDPassThrough,
	} {
		_, err := query(context.Background(), 0)
		assert.ErrorIs(t, err, ErrMissingID)
	}
}

func TestQueryByIDMutex_LoadsAndCaches(t *testing.T) {
	store := newFakeShopStore(&Shop{ID: 1, Name: "面馆", TypeID: 2})
	svc, mr := newTestService(t, store)
	ctx := context.Background()

	shop, err := svc.QueryByIDMutex(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, shop)
	assert.Equal(t, "面馆", shop.Name)
	assert.True(t, mr.Exists("cache:shop:1"))

	// 第二次命中缓存，不再回源
	calls := store.getCalls.Load()
	shop, err = svc.QueryByIDMutex(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, shop)
	assert.Equal(t, calls, store.getCalls.Load())
}

func TestQueryByIDPassThrough_AbsentShopCachesNegative(t *testing.T) {
	store := newFakeShopStore()
	svc, mr := newTestService(t, store)
	ctx := context.Background()

	shop, err := svc.QueryByIDPassThrough(ctx, 404)
	require.NoError(t, err)
	assert.Nil(t, shop)

	// 空值标记写入，第二次不回源
	raw, err := mr.Get("cache:shop:404")
	require.NoError(t, err)
	assert.Equal(t, "", raw)

	calls := store.getCalls.Load()
	shop, err = svc.QueryByIDPassThrough(ctx, 404)
	require.NoError(t, err)
	assert.Nil(t, shop)
	assert.Equal(t, calls, store.getCalls.Load())
}

func TestQueryByID_NotWarmedReturnsNil(t *testing.T) {
	store := newFakeShopStore(&Shop{ID: 1, Name: "面馆"})
	svc, _ := newTestService(t, store)

	// 逻辑过期模式把未预热视为不存在，不回源
	shop, err := svc.QueryByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Nil(t, shop)
	assert.Equal(t, int64(0), store.getCalls.Load())
}

func TestQueryByID_AfterWarmUp(t *testing.T) {
	store := newFakeShopStore(&Shop{ID: 1, Name: "面馆"})
	svc, _ := newTestService(t, store)
	ctx := context.Background()

	require.NoError(t, svc.WarmUp(ctx, 1))

	shop, err := svc.QueryByID(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, shop)
	assert.Equal(t, "面馆", shop.Name)
}

func TestWarmUp_MissingShop(t *testing.T) {
	store := newFakeShopStore(&Shop{ID: 1, Name: "面馆"})
	svc, mr := newTestService(t, store)

	err := svc.WarmUp(context.Background(), 1, 404)
	assert.ErrorIs(t, err, ErrShopNotFound)
	// 存在的店铺照常预热
	assert.True(t, mr.Exists("cache:shop:1"))
	assert.False(t, mr.Exists("cache:shop:404"))
}

func TestQueryTypeList_CachesAsList(t *testing.T) {
	store := newFakeShopStore()
	store.types = []ShopType{
		{ID: 1, Name: "美食", Sort: 1},
		{ID: 2, Name: "KTV", Sort: 2},
	}
	svc, mr := newTestService(t, store)
	ctx := context.Background()

	types, err := svc.QueryTypeList(ctx)
	require.NoError(t, err)
	require.Len(t, types, 2)
	assert.Equal(t, "美食", types[0].Name)

	// list 布局：每个元素一条 JSON 分类，顺序与回源一致
	elems, lerr := mr.List("cache:shop-type")
	require.NoError(t, lerr)
	require.Len(t, elems, 2)
	assert.JSONEq(t, `{"id":1,"name":"美食","icon":"","sort":1}`, elems[0])
	assert.JSONEq(t, `{"id":2,"name":"KTV","icon":"","sort":2}`, elems[1])

	// 第二次读命中缓存，不再回源
	_, err = svc.QueryTypeList(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), store.listCalls.Load())
}

func TestQueryTypeList_CorruptElementRebuilds(t *testing.T) {
	store := newFakeShopStore()
	store.types = []ShopType{{ID: 1, Name: "美食", Sort: 1}}
	svc, mr := newTestService(t, store)
	ctx := context.Background()

	_, err := mr.Lpush("cache:shop-type", "{broken")
	require.NoError(t, err)

	// 损坏元素视作未命中，回源并覆盖缓存
	types, err := svc.QueryTypeList(ctx)
	require.NoError(t, err)
	require.Len(t, types, 1)

	elems, lerr := mr.List("cache:shop-type")
	require.NoError(t, lerr)
	require.Len(t, elems, 1)
	assert.JSONEq(t, `{"id":1,"name":"美食","icon":"","sort":1}`, elems[0])
}

func TestUpdate_WritesDBThenInvalidates(t *testing.T) {
	store := newFakeShopStore(&Shop{ID: 1, Name: "旧名"})
	svc, mr := newTestService(t, store)
	ctx := context.Background()

	// 先填充缓存
	_, err := svc.QueryByIDMutex(ctx, 1)
	require.NoError(t, err)
	require.True(t, mr.Exists("cache:shop:1"))

	require.NoError(t, svc.Update(ctx, &Shop{ID: 1, Name: "新名"}))

	// 缓存被删除，下次查询读到新值
	assert.False(t, mr.Exists("cache:shop:1"))
	shop, err := svc.QueryByIDMutex(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "新名", shop.Name)
}

func TestUpdate_RejectsMissingID(t *testing.T) {
	svc, _ := newTestService(t, newFakeShopStore())
	assert.ErrorIs(t, svc.Update(context.Background(), nil), ErrMissingID)
	assert.ErrorIs(t, svc.Update(context.Background(), &Shop{}), ErrMissingID)
}
