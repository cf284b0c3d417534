// Package xseckill 实现秒杀下单的准入管线。
//
// # 管线顺序
//
// SeckillVoucher 按固定顺序执行：
//
//  1. 从 context 取当前用户（xuser）
//  2. 加载秒杀券，校验活动时间窗与余量
//  3. 以 order:<userID> 为名获取分布式锁（xrlock）
//  4. 锁内校验一人一单
//  5. 事务内条件扣减库存（仅当 stock > 0）并落订单
//  6. 事务提交后才释放锁
//
// 锁的粒度是用户而不是券：同一用户的并发请求只有一个能进入下单
// 流程，不同用户互不影响。锁获取失败立即返回 ErrDuplicateRequest，
// 不排队等待。
//
// # 事务边界
//
// 库存扣减和订单写入必须在同一事务中提交，由调用方注入的 TxRunner
// 承担事务语义。锁的释放发生在事务提交之后，保证锁保护的判定
// （一人一单）在并发下不会被未提交的数据欺骗。
//
// # 订单号
//
// 订单 ID 由 xseqid 生成，全局单调、按天分桶，可按时间排序。
package xseckill
