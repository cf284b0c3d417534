// Package xpool 提供带运行统计的泛型 worker pool。
//
// 缓存逻辑过期重建等后台任务通过 Submit 投递，由固定数量的 worker
// 异步执行。主要特性：
//   - 泛型任务类型，New 创建后自动启动
//   - 可配置 worker 数量（默认 10）与队列容量（默认 1024）
//   - Submit 永不阻塞：队列满返回 ErrQueueFull，已关闭返回 ErrPoolStopped
//   - Stats() 暴露队列深度、提交/拒绝/完成/panic 计数，便于监控接入
//   - panic 恢复：单个任务失败不影响 pool，记录日志后丢弃
//   - Close 优雅关闭：拒绝新任务，处理完队列中的剩余任务后返回
//
// 任务一旦提交即不可取消，要么完成、要么失败（记录日志）。
// Close 不可在任务内部调用，否则会死锁。
package xpool
