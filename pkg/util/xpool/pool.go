package xpool

import (
	"log/slog"
	"sync"
	"sync/atomic"
)

const (
	defaultWorkers   = 10
	defaultQueueSize = 1024
)

// Stats 表示 pool 的运行统计快照。
type Stats struct {
	// Workers worker 数量。
	Workers int
	// QueueDepth 当前排队中的任务数。
	QueueDepth int
	// Submitted 累计成功提交的任务数。
	Submitted uint64
	// Rejected 累计被拒绝的任务数（队列满或 pool 已关闭）。
	Rejected uint64
	// Completed 累计执行完成的任务数（含 panic 的任务）。
	Completed uint64
	// Panics 累计 panic 恢复次数。
	Panics uint64
}

// Pool 是泛型 worker pool。并发安全。
type Pool[T any] struct {
	workers int
	handler func(T)
	logger  *slog.Logger
	name    string

	queue    chan T
	wg       sync.WaitGroup
	stopOnce sync.Once
	stopped  chan struct{}

	submitted atomic.Uint64
	rejected  atomic.Uint64
	completed atomic.Uint64
	panics    atomic.Uint64
}

// New 创建并启动 worker pool。
//
// handler 为任务处理函数，不能为 nil。
// workers/queueSize 未设置或非法时使用默认值（10 / 1024）。
func New[T any](handler func(T), opts ...Option) (*Pool[T], error) {
	if handler == nil {
		return nil, ErrNilHandler
	}

	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	p := &Pool[T]{
		workers: options.workers,
		handler: handler,
		logger:  options.logger,
		name:    options.name,
		queue:   make(chan T, options.queueSize),
		stopped: make(chan struct{}),
	}
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p, nil
}

// worker 只从 queue 读取任务，不监听 stopped 信号，
// 保证 Close 时能把队列中的剩余任务处理完（优雅关闭）。
func (p *Pool[T]) worker() {
	defer p.wg.Done()
	for task := range p.queue {
		p.run(task)
	}
}

// run 执行单个任务并恢复 panic。
func (p *Pool[T]) run(task T) {
	defer func() {
		p.completed.Add(1)
		if r := recover(); r != nil {
			p.panics.Add(1)
			p.logger.Error("xpool: task panic recovered", "pool", p.name, "panic", r)
		}
	}()
	p.handler(task)
}

// Submit 提交任务。永不阻塞：
// pool 已关闭返回 ErrPoolStopped，队列满返回 ErrQueueFull。
func (p *Pool[T]) Submit(task T) (err error) {
	// Close 与 Submit 并发时存在 stopped 已关闭、queue 尚未关闭的
	// 极短窗口，select 可能选中发送分支后 panic，在此兜底。
	defer func() {
		if r := recover(); r != nil {
			p.rejected.Add(1)
			err = ErrPoolStopped
		}
	}()

	select {
	case <-p.stopped:
		p.rejected.Add(1)
		return ErrPoolStopped
	default:
	}

	select {
	case <-p.stopped:
		p.rejected.Add(1)
		return ErrPoolStopped
	case p.queue <- task:
		p.submitted.Add(1)
		return nil
	default:
		p.rejected.Add(1)
		p.logger.Warn("xpool: queue full, task rejected", "pool", p.name)
		return ErrQueueFull
	}
}

// Close 关闭 pool：拒绝新任务，等待队列中的剩余任务全部执行完成。
// 幂等。
func (p *Pool[T]) Close() {
	p.stopOnce.Do(func() {
		close(p.stopped)
		close(p.queue)
		p.wg.Wait()
	})
}

// Stats 返回运行统计快照。
func (p *Pool[T]) Stats() Stats {
	return Stats{
		Workers:    p.workers,
		QueueDepth: len(p.queue),
		Submitted:  p.submitted.Load(),
		Rejected:   p.rejected.Load(),
		Completed:  p.completed.Load(),
		Panics:     p.panics.Load(),
	}
}
