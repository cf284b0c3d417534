package xcron

import (
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// ===================== Scheduler Options =====================

// schedulerOptions 调度器配置
type schedulerOptions struct {
	locker   Locker         // 默认分布式锁
	logger   *slog.Logger   // 日志记录器
	location *time.Location // 时区
	parser   cron.Parser    // cron 表达式解析器
}

// defaultSchedulerOptions 返回默认配置
func defaultSchedulerOptions() *schedulerOptions {
	return &schedulerOptions{
		locker:   NoopLocker(),
		logger:   slog.Default(),
		location: time.Local,
		parser:   cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor),
	}
}

// SchedulerOption 调度器配置选项
type SchedulerOption func(*schedulerOptions)

// WithLocker 设置默认分布式锁。
//
// 所有任务默认使用此锁，除非任务通过 [WithJobLocker] 单独指定。
// 不设置时默认使用 [NoopLocker]。
func WithLocker(locker Locker) SchedulerOption {
	return func(o *schedulerOptions) {
		if locker != nil {
			o.locker = locker
		}
	}
}

// WithLogger 设置日志记录器。传入 nil 将被忽略。
func WithLogger(logger *slog.Logger) SchedulerOption {
	return func(o *schedulerOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithLocation 设置时区。
//
// cron 表达式中的时间将按此时区解释。默认使用本地时区。
func WithLocation(loc *time.Location) SchedulerOption {
	return func(o *schedulerOptions) {
		if loc != nil {
			o.location = loc
		}
	}
}

// WithParser 自定义 cron 表达式解析器。
func WithParser(parser cron.Parser) SchedulerOption {
	return func(o *schedulerOptions) {
		o.parser = parser
	}
}

// WithSeconds 启用秒级精度。
//
// 默认 cron 表达式最小精度为分钟，使用此选项后支持秒级：
//
//	scheduler := xcron.New(xcron.WithSeconds())
//	scheduler.AddFunc("*/5 * * * * *", task) // 每 5 秒执行
func WithSeconds() SchedulerOption {
	return func(o *schedulerOptions) {
		o.parser = cron.NewParser(
			cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
		)
	}
}

// ===================== Job Options =====================

// MinLockTTL 是锁 TTL 的最小值。
// 续期间隔为 TTL/3，为保证续期能在锁过期前执行，TTL 至少需要 3 秒。
const MinLockTTL = 3 * time.Second

// jobOptions 任务配置
type jobOptions struct {
	name          string        // 任务名（用作锁 key）
	locker        Locker        // 任务级锁（覆盖全局）
	lockTTL       time.Duration // 锁超时时间
	lockTimeout   time.Duration // 锁获取超时时间
	timeout       time.Duration // 执行超时时间
	retryAttempts uint          // 重试次数上限（含首次执行）
	retryDelay    time.Duration // 重试间隔
	immediate     bool          // 是否立即执行一次
	hooks         []Hook        // 执行钩子
}

// defaultJobOptions 返回默认任务配置
func defaultJobOptions() *jobOptions {
	return &jobOptions{
		lockTTL:     5 * time.Minute,
		lockTimeout: 5 * time.Second, // 防止底层存储响应慢时长时间阻塞
		retryDelay:  time.Second,
	}
}

// JobOption 任务配置选项
type JobOption func(*jobOptions)

// WithName 设置任务名。
//
// 任务名用作分布式锁的 key，在同一调度器内必须唯一。
// 配置了分布式锁（非 NoopLocker）而未设置任务名的任务会跳过加锁。
func WithName(name string) JobOption {
	return func(o *jobOptions) {
		o.name = name
	}
}

// WithJobLocker 设置任务级分布式锁，覆盖调度器级别的默认锁。
//
// 用法：
//
//	// 全局使用 Redis 锁，但这个任务不需要锁
//	scheduler.AddFunc("@every 1s", localTask, xcron.WithJobLocker(xcron.NoopLocker()))
func WithJobLocker(locker Locker) JobOption {
	return func(o *jobOptions) {
		o.locker = locker
	}
}

// WithLockTTL 设置锁超时时间。
//
// 锁在此时间后自动过期，防止任务崩溃导致死锁。
// 应设置为大于任务最大执行时间的值。默认 5 分钟。
// 最小值为 [MinLockTTL]（3秒），小于此值会被自动调整。
// 对于长时间运行的任务，xcron 会自动续期锁。
func WithLockTTL(ttl time.Duration) JobOption {
	return func(o *jobOptions) {
		if ttl > 0 {
			if ttl < MinLockTTL {
				ttl = MinLockTTL
			}
			o.lockTTL = ttl
		}
	}
}

// WithLockTimeout 设置锁获取超时时间。默认 5 秒。
func WithLockTimeout(timeout time.Duration) JobOption {
	return func(o *jobOptions) {
		if timeout > 0 {
			o.lockTimeout = timeout
		}
	}
}

// WithTimeout 设置任务执行超时。
//
// 任务执行超过此时间将被取消（ctx.Done()）。默认无超时。
// 重试耗时计入超时。
func WithTimeout(timeout time.Duration) JobOption {
	return func(o *jobOptions) {
		if timeout > 0 {
			o.timeout = timeout
		}
	}
}

// WithRetry 设置失败重试。
//
// attempts 为总尝试次数（含首次执行），delay 为固定重试间隔。
//
// 用法：
//
//	scheduler.AddFunc("@every 1m", task,
//	    xcron.WithName("my-task"),
//	    xcron.WithRetry(3, 2*time.Second),
//	)
func WithRetry(attempts uint, delay time.Duration) JobOption {
	return func(o *jobOptions) {
		if attempts > 1 {
			o.retryAttempts = attempts
		}
		if delay > 0 {
			o.retryDelay = delay
		}
	}
}

// WithImmediate 设置任务在注册后立即执行一次。
//
// 立即执行会应用同样的锁、超时、重试逻辑；执行是异步的，
// 不会阻塞 AddFunc/AddJob 返回。失败不影响后续按计划调度。
//
// 典型场景：缓存预热任务注册时先预热一次。
func WithImmediate() JobOption {
	return func(o *jobOptions) {
		o.immediate = true
	}
}

// WithHook 添加单个任务执行钩子。
//
// 可多次调用以添加多个钩子。
// 执行顺序：BeforeJob 正序，AfterJob 逆序（类似 defer）。
func WithHook(hook Hook) JobOption {
	return func(o *jobOptions) {
		if hook != nil {
			o.hooks = append(o.hooks, hook)
		}
	}
}

// WithHooks 批量添加任务执行钩子，等同于多次调用 [WithHook]。
func WithHooks(hooks ...Hook) JobOption {
	return func(o *jobOptions) {
		for _, hook := range hooks {
			if hook != nil {
				o.hooks = append(o.hooks, hook)
			}
		}
	}
}
