package xcron

import (
	"sync"
	"sync/atomic"
	"time"
)

// Stats 提供任务执行统计信息。
// 线程安全，可在任务执行期间安全读取。
type Stats struct {
	totalExecutions atomic.Int64
	successCount    atomic.Int64
	failureCount    atomic.Int64
	skipCount       atomic.Int64 // 因锁获取失败跳过的次数

	mu           sync.RWMutex
	lastExecTime time.Time
	lastDuration time.Duration
	lastError    error

	jobStats sync.Map // map[string]*JobStats
}

// JobStats 单个任务的执行统计。
type JobStats struct {
	Name            string
	totalExecutions atomic.Int64
	successCount    atomic.Int64
	failureCount    atomic.Int64
	skipCount       atomic.Int64
}

// newStats 创建新的统计实例。
func newStats() *Stats {
	return &Stats{}
}

// TotalExecutions 返回总执行次数。
func (s *Stats) TotalExecutions() int64 {
	return s.totalExecutions.Load()
}

// SuccessCount 返回成功执行次数。
func (s *Stats) SuccessCount() int64 {
	return s.successCount.Load()
}

// FailureCount 返回失败执行次数。
func (s *Stats) FailureCount() int64 {
	return s.failureCount.Load()
}

// SkipCount 返回因锁获取失败跳过的次数。
func (s *Stats) SkipCount() int64 {
	return s.skipCount.Load()
}

// LastExecTime 返回最后一次执行时间。
func (s *Stats) LastExecTime() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastExecTime
}

// LastDuration 返回最后一次执行耗时。
func (s *Stats) LastDuration() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastDuration
}

// LastError 返回最后一次执行错误（nil 表示成功）。
func (s *Stats) LastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastError
}

// JobStats 返回指定任务的统计，任务从未执行过时返回 nil。
func (s *Stats) JobStats(name string) *JobStats {
	if v, ok := s.jobStats.Load(name); ok {
		return v.(*JobStats)
	}
	return nil
}

// TotalExecutions 返回该任务的总执行次数。
func (j *JobStats) TotalExecutions() int64 {
	return j.totalExecutions.Load()
}

// SuccessCount 返回该任务的成功次数。
func (j *JobStats) SuccessCount() int64 {
	return j.successCount.Load()
}

// FailureCount 返回该任务的失败次数。
func (j *JobStats) FailureCount() int64 {
	return j.failureCount.Load()
}

// SkipCount 返回该任务因锁获取失败跳过的次数。
func (j *JobStats) SkipCount() int64 {
	return j.skipCount.Load()
}

// recordExecution 记录一次执行结果。
func (s *Stats) recordExecution(name string, duration time.Duration, err error) {
	s.totalExecutions.Add(1)
	if err != nil {
		s.failureCount.Add(1)
	} else {
		s.successCount.Add(1)
	}

	s.mu.Lock()
	s.lastExecTime = time.Now()
	s.lastDuration = duration
	s.lastError = err
	s.mu.Unlock()

	if name != "" {
		js := s.forJob(name)
		js.totalExecutions.Add(1)
		if err != nil {
			js.failureCount.Add(1)
		} else {
			js.successCount.Add(1)
		}
	}
}

// recordSkip 记录一次因锁获取失败的跳过。
func (s *Stats) recordSkip(name string) {
	s.skipCount.Add(1)
	if name != "" {
		s.forJob(name).skipCount.Add(1)
	}
}

func (s *Stats) forJob(name string) *JobStats {
	if v, ok := s.jobStats.Load(name); ok {
		return v.(*JobStats)
	}
	v, _ := s.jobStats.LoadOrStore(name, &JobStats{Name: name})
	return v.(*JobStats)
}
