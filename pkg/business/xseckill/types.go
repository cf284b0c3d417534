package xseckill

import "time"

// Voucher 是一张秒杀券的当前状态。
type Voucher struct {
	// ID 券 ID。
	ID int64

	// Stock 剩余库存。
	Stock int64

	// BeginTime 活动开始时间。
	BeginTime time.Time

	// EndTime 活动结束时间。
	EndTime time.Time
}

// Order 是一笔秒杀订单。
type Order struct {
	// ID 全局订单号，由 xseqid 生成。
	ID int64

	// UserID 下单用户。
	UserID int64

	// VoucherID 关联的券。
	VoucherID int64

	// CreatedAt 下单时间。
	CreatedAt time.Time
}
