// Package xkv 提供对远端 key-value 存储的最小契约封装。
//
// # 设计理念
//
// 上层组件（缓存客户端、分布式锁、ID 生成器）只依赖 Store 接口中
// 极窄的原子操作集合：GET、SET、SETNX、DEL、CompareAndDelete、INCR、EXPIRE。
// 这使得并发语义集中在一处验证，也便于在测试中用 miniredis 完整覆盖。
//
// # 错误模型
//
//   - 瞬时 I/O 错误在适配器内最多重试一次（avast/retry-go），
//     仍失败则包装为 ErrStoreUnavailable 向上抛出；
//   - key 不存在不是错误，Get 以 (value, false, nil) 表达，
//     空字符串 value 与 key 缺失是两种不同状态；
//   - 值损坏（反序列化失败）由调用方判定，适配器不感知 value 语义。
//
// # 熔断
//
// 通过 WithBreaker 可以为所有操作挂接 sony/gobreaker 熔断器，
// 默认关闭。建议调用方在 redis.Options 上设置 ≤200ms 的单次调用超时。
package xkv
