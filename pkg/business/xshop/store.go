package xshop

import "context"

// ShopStore 是店铺数据的持久化接口，由调用方实现。
type ShopStore interface {
	// GetShop 加载店铺。不存在时返回 (nil, nil)。
	GetShop(ctx context.Context, id int64) (*Shop, error)

	// ListTypes 返回全部店铺分类，按 Sort 升序。
	ListTypes(ctx context.Context) ([]ShopType, error)

	// UpdateShop 更新店铺。
	UpdateShop(ctx context.Context, shop *Shop) error
}
