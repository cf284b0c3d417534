// Package xrlock 提供基于 KV 存储的分布式互斥锁。
//
// # 语义
//
// 锁记录存储在 "lock:<name>"，value 为持有者令牌（进程标识 + 进程内计数器）。
// 持有锁 ⇔ 记录存在且值等于自己的令牌。释放必须经过属主校验
// （CompareAndDelete），租约到期后被他人重新获取的锁不会被误删。
//
// 获取失败（锁被占用）返回 (false, nil) 而不是错误；
// 释放遇到属主不匹配返回 ErrNotOwner，调用方通常记录日志后吞掉，
// 租约保证了污染时间有上界。
//
// # 一致性边界
//
// 这是 best-effort 互斥：单存储节点、无 fencing token，
// 租约到期后临界区可能出现短暂重叠。需要多节点仲裁时，
// 通过 RedsyncLocker 换用 redsync（Redlock）实现，接口不变。
package xrlock
