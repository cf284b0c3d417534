package xcron

import (
	"context"

	"github.com/robfig/cron/v3"
)

// Scheduler 是带分布式锁的任务调度器。用 [New] 创建默认实现。
//
// 典型用途是缓存预热这类"集群里跑一份就够"的周期任务：
//
//	id, _ := scheduler.AddFunc("0 3 * * *", func(ctx context.Context) error {
//	    return svc.WarmUp(ctx, hotShopIDs...)
//	}, xcron.WithName("warm-shop-cache"), xcron.WithTimeout(time.Minute))
type Scheduler interface {
	// AddFunc 注册函数任务并返回 JobID。
	// spec 是 cron 表达式（分钟级五段式或 "@every 1m" 这类描述符），
	// cmd 通过传入的 context 感知超时与锁丢失。
	AddFunc(spec string, cmd func(ctx context.Context) error, opts ...JobOption) (JobID, error)

	// AddJob 注册实现 [Job] 接口的任务。
	AddJob(spec string, job Job, opts ...JobOption) (JobID, error)

	// Remove 按 JobID 移除任务。正在执行的一次不受影响。
	Remove(id JobID)

	// Start 启动调度（非阻塞，幂等）。
	Start()

	// Stop 停止接收新一轮调度。
	// 返回的 context 在所有在途任务结束后 Done，调用方用它等待收尾：
	//
	//	<-scheduler.Stop().Done()
	Stop() context.Context

	// Cron 暴露底层 *cron.Cron，供注册不走锁包装的原生任务。
	Cron() *cron.Cron

	// Entries 返回当前注册的全部任务。
	Entries() []cron.Entry

	// Stats 返回执行统计。返回值并发安全，任务执行期间可随时读取。
	Stats() *Stats
}
