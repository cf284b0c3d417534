package xseckill

import (
	"context"
	"fmt"

	"github.com/omeyang/dpkit/internal/rediskey"
	"github.com/omeyang/dpkit/pkg/context/xuser"
	"github.com/omeyang/dpkit/pkg/distributed/xrlock"
	"github.com/omeyang/dpkit/pkg/util/xseqid"
)

// Service 是秒杀下单服务。并发安全。
type Service struct {
	store VoucherStore
	tx    TxRunner
	ids   *xseqid.Generator
	lock  xrlock.LockFunc
	opts  *Options
}

// New 创建秒杀下单服务。四个协作方都不能为 nil。
func New(store VoucherStore, tx TxRunner, ids *xseqid.Generator, lock xrlock.LockFunc, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, ErrNilStore
	}
	if tx == nil {
		return nil, ErrNilTx
	}
	if ids == nil {
		return nil, ErrNilGenerator
	}
	if lock == nil {
		return nil, ErrNilLocker
	}

	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}
	return &Service{
		store: store,
		tx:    tx,
		ids:   ids,
		lock:  lock,
		opts:  options,
	}, nil
}

// SeckillVoucher 执行一次秒杀下单，成功返回订单号。
// 当前用户从 ctx 中取出（xuser.WithUser 注入）。
// 拒绝原因通过哨兵错误区分：ErrSaleNotStarted、ErrSaleEnded、
// ErrOutOfStock、ErrAlreadyPurchased、ErrDuplicateRequest。
func (s *Service) SeckillVoucher(ctx context.Context, voucherID int64) (int64, error) {
	userID, err := xuser.UserID(ctx)
	if err != nil {
		return 0, err
	}

	voucher, err := s.store.GetVoucher(ctx, voucherID)
	if err != nil {
		return 0, fmt.Errorf("xseckill: load voucher %d: %w", voucherID, err)
	}
	if voucher == nil {
		return 0, ErrVoucherNotFound
	}

	// 时间窗与余量的快速预检，真正的扣减判定在事务里
	now := s.opts.now()
	if now.Before(voucher.BeginTime) {
		return 0, ErrSaleNotStarted
	}
	if now.After(voucher.EndTime) {
		return 0, ErrSaleEnded
	}
	if voucher.Stock < 1 {
		return 0, ErrOutOfStock
	}

	// 按用户加锁：同一用户并发请求只放一个进下单流程
	unlock, acquired, err := s.lock(ctx, rediskey.LockOrder(userID), s.opts.OrderLockTTL)
	if err != nil {
		return 0, fmt.Errorf("xseckill: acquire order lock: %w", err)
	}
	if !acquired {
		return 0, ErrDuplicateRequest
	}
	defer func() {
		// defer 保证释放发生在事务提交之后
		if uerr := unlock(ctx); uerr != nil {
			s.opts.Logger.WarnContext(ctx, "order unlock failed",
				"user_id", userID, "error", uerr)
		}
	}()

	return s.createOrder(ctx, userID, voucherID)
}

// createOrder 在防重锁保护下生成订单。
// 一人一单校验、条件扣减和订单写入在同一事务内提交。
// 订单号在扣减成功之后才分配，被拒绝的请求不消耗序号。
func (s *Service) createOrder(ctx context.Context, userID, voucherID int64) (int64, error) {
	var orderID int64
	err := s.tx.InTx(ctx, func(txCtx context.Context) error {
		purchased, herr := s.store.HasOrder(txCtx, userID, voucherID)
		if herr != nil {
			return fmt.Errorf("xseckill: check order: %w", herr)
		}
		if purchased {
			return ErrAlreadyPurchased
		}

		ok, derr := s.store.DecrementStock(txCtx, voucherID)
		if derr != nil {
			return fmt.Errorf("xseckill: decrement stock: %w", derr)
		}
		if !ok {
			return ErrOutOfStock
		}

		var ierr error
		orderID, ierr = s.ids.Next(txCtx, s.opts.OrderTag)
		if ierr != nil {
			return fmt.Errorf("xseckill: next order id: %w", ierr)
		}

		return s.store.CreateOrder(txCtx, &Order{
			ID:        orderID,
			UserID:    userID,
			VoucherID: voucherID,
			CreatedAt: s.opts.now(),
		})
	})
	if err != nil {
		return 0, err
	}
	return orderID, nil
}
