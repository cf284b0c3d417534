package xpool

import "log/slog"

// Option 定义 Pool 的可选配置函数类型。
type Option func(*options)

type options struct {
	workers   int
	queueSize int
	logger    *slog.Logger
	name      string
}

func defaultOptions() options {
	return options{
		workers:   defaultWorkers,
		queueSize: defaultQueueSize,
		logger:    slog.Default(),
	}
}

// WithWorkers 设置 worker 数量。非正值被忽略，保持默认值 10。
func WithWorkers(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.workers = n
		}
	}
}

// WithQueueSize 设置任务队列容量。非正值被忽略，保持默认值 1024。
func WithQueueSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.queueSize = n
		}
	}
}

// WithLogger 设置自定义日志记录器。
// 默认使用 slog.Default()。传入 nil 将被忽略，保持使用默认值。
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithName 设置 pool 名称，用于在多实例场景下区分日志来源。
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}
