package xseckill

import "errors"

// 构造参数错误。
var (
	// ErrNilStore 表示 VoucherStore 为 nil。
	ErrNilStore = errors.New("xseckill: nil voucher store")

	// ErrNilTx 表示 TxRunner 为 nil。
	ErrNilTx = errors.New("xseckill: nil tx runner")

	// ErrNilGenerator 表示订单号生成器为 nil。
	ErrNilGenerator = errors.New("xseckill: nil id generator")

	// ErrNilLocker 表示锁工厂为 nil。
	ErrNilLocker = errors.New("xseckill: nil locker")
)

// 下单准入错误，逐项对应管线的一个拒绝出口。
var (
	// ErrVoucherNotFound 表示券不存在。
	ErrVoucherNotFound = errors.New("xseckill: voucher not found")

	// ErrSaleNotStarted 表示活动尚未开始。
	ErrSaleNotStarted = errors.New("xseckill: sale not started")

	// ErrSaleEnded 表示活动已结束。
	ErrSaleEnded = errors.New("xseckill: sale ended")

	// ErrOutOfStock 表示库存不足。
	ErrOutOfStock = errors.New("xseckill: out of stock")

	// ErrAlreadyPurchased 表示该用户已对此券下过单。
	ErrAlreadyPurchased = errors.New("xseckill: already purchased")

	// ErrDuplicateRequest 表示同一用户的下单请求正在处理中。
	ErrDuplicateRequest = errors.New("xseckill: duplicate request in flight")
)
