package xcron

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
)

// JobID 任务唯一标识，直接复用 cron.EntryID。
// 用于后续移除任务或查询任务状态。
type JobID = cron.EntryID

// Job 定时任务接口。
// 实现此接口以定义任务执行逻辑。
type Job interface {
	// Run 执行任务。
	// ctx 包含超时控制，任务应响应 ctx.Done()。
	// 返回 error 表示任务执行失败，会被记录到日志。
	Run(ctx context.Context) error
}

// JobFunc 函数适配器，将普通函数转换为 [Job] 接口。
//
// 用法：
//
//	var job Job = JobFunc(func(ctx context.Context) error {
//	    return doSomething(ctx)
//	})
type JobFunc func(ctx context.Context) error

// Run 实现 [Job] 接口。
func (f JobFunc) Run(ctx context.Context) error {
	return f(ctx)
}

// Hook 任务执行钩子接口。
//
// 用于在任务执行前后注入自定义逻辑，如日志、指标、告警。
// 可以通过 [WithHook] 或 [WithHooks] 配置多个钩子，按添加顺序执行。
//
// 执行时机：
//   - BeforeJob: 在获取锁之后、执行任务之前调用
//   - AfterJob: 在任务执行完成后调用（无论成功或失败）
type Hook interface {
	// BeforeJob 在任务执行前调用。
	// 返回的 context 将传递给任务执行和后续钩子，
	// 可用于注入请求 ID、跟踪信息等。
	BeforeJob(ctx context.Context, name string) context.Context

	// AfterJob 在任务执行后调用。
	// duration 为执行耗时（包含重试时间）；err 为 nil 表示成功。
	// 即使任务 panic，此方法也会被调用（err 是 panic 包装的错误）。
	AfterJob(ctx context.Context, name string, duration time.Duration, err error)
}

// HookFunc 函数适配器，将函数对转换为 [Hook] 接口。
//
// 用法：
//
//	hook := xcron.HookFunc{
//	    After: func(ctx context.Context, name string, d time.Duration, err error) {
//	        log.Printf("job %s finished in %v, error: %v", name, d, err)
//	    },
//	}
type HookFunc struct {
	// Before 任务执行前调用，可为 nil
	Before func(ctx context.Context, name string) context.Context
	// After 任务执行后调用，可为 nil
	After func(ctx context.Context, name string, duration time.Duration, err error)
}

// BeforeJob 实现 [Hook] 接口。
func (h HookFunc) BeforeJob(ctx context.Context, name string) context.Context {
	if h.Before != nil {
		return h.Before(ctx, name)
	}
	return ctx
}

// AfterJob 实现 [Hook] 接口。
func (h HookFunc) AfterJob(ctx context.Context, name string, duration time.Duration, err error) {
	if h.After != nil {
		h.After(ctx, name, duration, err)
	}
}
