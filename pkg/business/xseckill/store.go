package xseckill

import "context"

// VoucherStore 是券与订单的持久化接口，由调用方实现（通常落在
// 关系型数据库上）。在 TxRunner 开启的事务内被调用时，实现应从
// ctx 中取出事务句柄执行。
type VoucherStore interface {
	// GetVoucher 加载券。不存在时返回 (nil, nil)。
	GetVoucher(ctx context.Context, voucherID int64) (*Voucher, error)

	// DecrementStock 条件扣减一件库存，仅当剩余库存大于零时生效。
	// 返回是否扣减成功。等价于
	// UPDATE voucher SET stock = stock - 1 WHERE id = ? AND stock > 0。
	DecrementStock(ctx context.Context, voucherID int64) (bool, error)

	// HasOrder 查询用户是否已对该券下过单。
	HasOrder(ctx context.Context, userID, voucherID int64) (bool, error)

	// CreateOrder 写入订单。
	CreateOrder(ctx context.Context, order *Order) error
}

// TxRunner 提供数据库事务语义。fn 返回非 nil 错误时回滚，
// 否则提交；InTx 返回提交（或回滚）完成后的最终错误。
type TxRunner interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// TxFunc 把函数适配成 TxRunner，便于测试或无事务场景。
type TxFunc func(ctx context.Context, fn func(ctx context.Context) error) error

// InTx 实现 TxRunner。
func (f TxFunc) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return f(ctx, fn)
}
