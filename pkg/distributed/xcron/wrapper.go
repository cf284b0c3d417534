package xcron

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/avast/retry-go/v5"
)

// jobWrapper 包装原始任务，添加锁、超时、重试等能力。
// 实现 cron.Job 接口，以便被 robfig/cron 调度。
type jobWrapper struct {
	job     Job
	opts    *jobOptions
	locker  Locker
	logger  *slog.Logger
	stats   *Stats
	baseCtx context.Context // 立即执行任务使用可取消的基础上下文
}

// renewHandle 保存单次任务执行的锁续期状态。
// 每次 Run() 独立创建，避免并发执行间的竞态。
type renewHandle struct {
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	lockHandle LockHandle
}

// newJobWrapper 创建任务包装器
func newJobWrapper(job Job, locker Locker, logger *slog.Logger, stats *Stats, opts *jobOptions) *jobWrapper {
	return &jobWrapper{
		job:     job,
		opts:    opts,
		locker:  locker,
		logger:  logger,
		stats:   stats,
		baseCtx: context.Background(),
	}
}

// Run 实现 cron.Job 接口
func (w *jobWrapper) Run() {
	startTime := time.Now()

	// 可取消的任务上下文，用于续期失败时中止任务
	taskCtx, taskCancel := context.WithCancel(w.baseCtx)
	defer taskCancel()

	// 1. 尝试获取锁（如果配置了任务名）
	rh := w.tryAcquireLock(taskCtx, taskCancel)
	if rh == nil && w.needsLock() {
		if w.stats != nil {
			w.stats.recordSkip(w.opts.name)
		}
		return
	}

	// 2. 超时控制
	if w.opts.timeout > 0 {
		var cancel context.CancelFunc
		taskCtx, cancel = context.WithTimeout(taskCtx, w.opts.timeout)
		defer cancel()
	}

	// 3. 执行钩子 BeforeJob（正序）
	taskCtx = w.runBeforeHooks(taskCtx)

	// 4. 执行任务（可能带重试）
	err := w.executeJob(taskCtx, rh)
	duration := time.Since(startTime)

	// 5. 执行钩子 AfterJob（逆序，类似 defer）
	w.runAfterHooks(taskCtx, duration, err)

	// 6. 记录统计与日志
	if w.stats != nil {
		w.stats.recordExecution(w.opts.name, duration, err)
	}
	if err != nil {
		w.logger.Error("job failed", "job", w.opts.name, "error", err)
	} else {
		w.logger.Debug("job completed", "job", w.opts.name, "duration", duration)
	}
}

// needsLock 判断该任务是否需要分布式锁。
func (w *jobWrapper) needsLock() bool {
	if w.opts.name == "" || w.locker == nil {
		return false
	}
	_, isNoop := w.locker.(noopLocker)
	return !isNoop
}

// tryAcquireLock 尝试获取分布式锁。
// 返回 renewHandle 用于后续停止续期；不需要锁或获取失败返回 nil。
// taskCancel 用于在续期失败时取消任务执行。
func (w *jobWrapper) tryAcquireLock(ctx context.Context, taskCancel context.CancelFunc) *renewHandle {
	if w.opts.name == "" || w.locker == nil {
		return nil
	}

	// 锁获取超时，防止底层存储响应慢导致 goroutine 长时间阻塞
	lockCtx := ctx
	if w.opts.lockTimeout > 0 {
		var cancel context.CancelFunc
		lockCtx, cancel = context.WithTimeout(ctx, w.opts.lockTimeout)
		defer cancel()
	}

	handle, err := w.locker.TryLock(lockCtx, w.opts.name, w.opts.lockTTL)
	if err != nil {
		w.logger.Warn("failed to acquire lock", "job", w.opts.name, "error", err)
		return nil
	}
	if handle == nil {
		w.logger.Debug("lock not acquired, skipping", "job", w.opts.name)
		return nil
	}

	return w.startRenew(ctx, taskCancel, handle)
}

// executeJob 执行任务（可能带重试），并保证释放锁。
func (w *jobWrapper) executeJob(ctx context.Context, rh *renewHandle) error {
	if rh != nil && rh.lockHandle != nil {
		defer func() {
			w.stopRenew(rh)
			// 独立 context 释放锁，避免任务取消导致释放失败
			unlockCtx, unlockCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer unlockCancel()
			if err := rh.lockHandle.Unlock(unlockCtx); err != nil {
				w.logger.Warn("failed to release lock", "job", w.opts.name, "error", err)
			}
		}()
	}

	run := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("xcron: job %s panicked: %v", w.opts.name, r)
			}
		}()
		return w.job.Run(ctx)
	}

	if w.opts.retryAttempts > 1 {
		return retry.New(
			retry.Context(ctx),
			retry.Attempts(w.opts.retryAttempts),
			retry.Delay(w.opts.retryDelay),
			retry.DelayType(retry.FixedDelay),
			retry.LastErrorOnly(true),
			retry.OnRetry(func(attempt uint, err error) {
				w.logger.Warn("job failed, will retry",
					"job", w.opts.name, "attempt", attempt, "error", err)
			}),
		).Do(run)
	}
	return run()
}

// startRenew 启动锁续期协程，返回用于停止的 handle。
// 续期失败时取消任务执行，防止锁过期后并发执行。
func (w *jobWrapper) startRenew(ctx context.Context, taskCancel context.CancelFunc, lockHandle LockHandle) *renewHandle {
	// 续期间隔为 TTL 的 1/3
	interval := w.opts.lockTTL / 3
	if interval < time.Second {
		interval = time.Second
	}

	renewCtx, cancel := context.WithCancel(ctx)
	rh := &renewHandle{
		cancel:     cancel,
		lockHandle: lockHandle,
	}
	rh.wg.Add(1)

	go func() {
		defer rh.wg.Done()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-renewCtx.Done():
				return
			case <-ticker.C:
				if err := lockHandle.Renew(renewCtx, w.opts.lockTTL); err != nil {
					w.logger.Error("lock renewal failed, canceling task",
						"job", w.opts.name, "error", err)
					taskCancel()
					return
				}
			}
		}
	}()

	return rh
}

// stopRenew 停止锁续期
func (w *jobWrapper) stopRenew(rh *renewHandle) {
	if rh == nil || rh.cancel == nil {
		return
	}
	rh.cancel()
	rh.wg.Wait()
}

// runBeforeHooks 执行 BeforeJob 钩子（正序）
func (w *jobWrapper) runBeforeHooks(ctx context.Context) context.Context {
	for _, hook := range w.opts.hooks {
		ctx = hook.BeforeJob(ctx, w.opts.name)
	}
	return ctx
}

// runAfterHooks 执行 AfterJob 钩子（逆序，类似 defer）
func (w *jobWrapper) runAfterHooks(ctx context.Context, duration time.Duration, err error) {
	for i := len(w.opts.hooks) - 1; i >= 0; i-- {
		w.opts.hooks[i].AfterJob(ctx, w.opts.name, duration, err)
	}
}
