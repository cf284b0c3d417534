package xshop

import (
	"context"
	"errors"
	"time"

	"github.com/omeyang/dpkit/pkg/distributed/xcron"
)

// WarmerJobName 是预热任务的任务名，同时用作分布式锁名。
const WarmerJobName = "warm-shop-cache"

// DefaultWarmSpec 默认每十分钟预热一次。
const DefaultWarmSpec = "@every 10m"

// IDSource 提供待预热的店铺 ID 列表。
// 每轮预热调用一次，热点集合可以动态变化。
type IDSource func(ctx context.Context) ([]int64, error)

// StaticIDs 把固定的 ID 列表适配成 IDSource。
func StaticIDs(ids ...int64) IDSource {
	return func(context.Context) ([]int64, error) {
		return ids, nil
	}
}

// Warmer 周期性预热热点店铺缓存。
// 调度和多副本互斥由 xcron 承担：配置了分布式锁的调度器
// 保证同一时刻整个集群只有一个实例在预热。
type Warmer struct {
	scheduler xcron.Scheduler
	jobID     xcron.JobID
	ownSched  bool
}

// WarmerOptions 定义 Warmer 的配置。
type WarmerOptions struct {
	// Spec cron 表达式，默认每十分钟。
	Spec string

	// Timeout 单轮预热的超时，默认 1 分钟。
	Timeout time.Duration

	// Scheduler 复用外部调度器。不设置时 Warmer 自建一个
	// 无锁调度器（单副本场景）。
	Scheduler xcron.Scheduler

	// Immediate 注册后立即预热一次，默认关闭。
	Immediate bool
}

// WarmerOption 定义配置 Warmer 的函数类型。
type WarmerOption func(*WarmerOptions)

// WithWarmSpec 设置预热周期的 cron 表达式。
func WithWarmSpec(spec string) WarmerOption {
	return func(o *WarmerOptions) {
		if spec != "" {
			o.Spec = spec
		}
	}
}

// WithWarmTimeout 设置单轮预热超时。
func WithWarmTimeout(timeout time.Duration) WarmerOption {
	return func(o *WarmerOptions) {
		if timeout > 0 {
			o.Timeout = timeout
		}
	}
}

// WithScheduler 复用外部 xcron 调度器（通常配了分布式锁）。
// 注入后 Warmer 的 Stop 不再停掉该调度器。
func WithScheduler(scheduler xcron.Scheduler) WarmerOption {
	return func(o *WarmerOptions) {
		if scheduler != nil {
			o.Scheduler = scheduler
		}
	}
}

// WithImmediateWarm 注册后立即预热一次。
func WithImmediateWarm() WarmerOption {
	return func(o *WarmerOptions) {
		o.Immediate = true
	}
}

// ErrNilIDSource 表示 IDSource 为 nil。
var ErrNilIDSource = errors.New("xshop: nil id source")

// NewWarmer 创建并启动预热器。
func NewWarmer(svc *Service, ids IDSource, opts ...WarmerOption) (*Warmer, error) {
	if svc == nil {
		return nil, ErrNilStore
	}
	if ids == nil {
		return nil, ErrNilIDSource
	}

	options := &WarmerOptions{
		Spec:    DefaultWarmSpec,
		Timeout: time.Minute,
	}
	for _, opt := range opts {
		opt(options)
	}

	w := &Warmer{scheduler: options.Scheduler}
	if w.scheduler == nil {
		w.scheduler = xcron.New(xcron.WithLogger(svc.opts.Logger))
		w.ownSched = true
	}

	jobOpts := []xcron.JobOption{
		xcron.WithName(WarmerJobName),
		xcron.WithTimeout(options.Timeout),
	}
	if options.Immediate {
		jobOpts = append(jobOpts, xcron.WithImmediate())
	}

	jobID, err := w.scheduler.AddFunc(options.Spec, func(ctx context.Context) error {
		hot, ierr := ids(ctx)
		if ierr != nil {
			return ierr
		}
		return svc.WarmUp(ctx, hot...)
	}, jobOpts...)
	if err != nil {
		return nil, err
	}
	w.jobID = jobID

	if w.ownSched {
		w.scheduler.Start()
	}
	return w, nil
}

// Stop 停止预热器。自建调度器会被优雅停止（等待在途预热完成）；
// 外部注入的调度器只移除预热任务。
func (w *Warmer) Stop() {
	if w.ownSched {
		<-w.scheduler.Stop().Done()
		return
	}
	w.scheduler.Remove(w.jobID)
}
