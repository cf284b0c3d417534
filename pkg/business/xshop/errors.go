package xshop

import "errors"

var (
	// ErrNilStore 表示 ShopStore 为 nil。
	ErrNilStore = errors.New("xshop: nil shop store")

	// ErrNilCache 表示缓存客户端为 nil。
	ErrNilCache = errors.New("xshop: nil cache client")

	// ErrMissingID 表示店铺 ID 缺失或非法。
	ErrMissingID = errors.New("xshop: missing shop id")

	// ErrShopNotFound 表示店铺不存在。
	ErrShopNotFound = errors.New("xshop: shop not found")
)
