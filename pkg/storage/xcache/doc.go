// Package xcache 提供带类型的缓存客户端，在单个 KV 存储之上
// 组合三种缓存一致性策略。
//
// # 读策略
//
// 按调用点选择，三者可在同一个 Client 上混用：
//
//   - GetWithPassThrough：空值缓存防穿透。回源取不到数据时写入
//     短 TTL 的空字符串标记，负向 TTL 窗口内不再打到后端。
//     适用于低流量 key，不做防击穿。
//   - GetWithMutex：互斥重建防击穿。重建锁保证所有共享存储的
//     调用方中同一 key 同时至多一次重建；未拿到锁的调用方以
//     50ms 退避轮询缓存（有封顶）。进程内另以 singleflight 合并。
//     适用于中等流量、不能容忍脏读的 key。
//   - GetWithLogicalExpire：逻辑过期 + 异步刷新。value 以信封
//     {"data":...,"expireTime":...} 存储且不设存储层 TTL。过期后
//     读路径竞争重建锁：拿到锁且二次检查发现信封已被别的进程刷新
//     时直接返回新鲜值，仍过期才交给后台 worker pool 重建并返回
//     旧值。缓存缺失直接返回 absent——热点 key 必须先经
//     SetWithLogicalExpire 预热。
//     适用于热点 key，读路径永不阻塞在重建上。
//
// # 写路径
//
// 调用方必须先更新数据库、再 Invalidate 缓存（write-then-invalidate），
// 否则可能把旧值长期缓存。
//
// # 错误模型
//
//   - 存储端不可用（xkv.ErrStoreUnavailable）向上抛出，由调用方决定
//     是否绕过缓存直连后端；
//   - 值损坏（JSON 解析失败）视作未命中并记录 WARN；
//   - 缓存写入失败是 best-effort，记录 WARN 不影响业务返回；
//   - 后台重建失败记录日志并计数，旧值继续可读直到下次尝试。
package xcache
