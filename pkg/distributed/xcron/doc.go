// Package xcron 提供带分布式锁的定时任务调度。
//
// xcron 基于 [robfig/cron/v3] 构建，增加分布式锁支持，
// 保证多副本部署时同一任务同一时刻只在一个实例上执行。
// 典型用途是缓存预热、数据对账这类"集群里跑一份就够"的周期任务。
//
// # 基本用法
//
//	scheduler := xcron.New()
//	scheduler.AddFunc("@every 1m", func(ctx context.Context) error {
//	    return doSomething(ctx)
//	}, xcron.WithName("my-task"))
//	scheduler.Start()
//	defer func() { <-scheduler.Stop().Done() }()
//
// # 多副本
//
//	kv, _ := xkv.NewRedis(redisClient)
//	scheduler := xcron.New(xcron.WithLocker(xcron.NewRedisLocker(kv)))
//
// 配置了分布式锁的任务必须通过 WithName 设置任务名，任务名即锁名。
// 锁在任务执行期间自动续期，续期失败会取消任务的 context，
// 防止锁过期后出现并发执行。
//
// # 失败重试
//
// WithRetry 为任务配置固定间隔重试，底层使用 retry-go。
// 重试耗时计入任务超时（WithTimeout）。
//
// [robfig/cron/v3]: https://github.com/robfig/cron
package xcron
