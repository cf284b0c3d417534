package xcache

import "errors"

var (
	// ErrNilStore 表示传入的存储实例为 nil。
	ErrNilStore = errors.New("xcache: nil store")

	// ErrNilFallback 表示回源函数为 nil。
	ErrNilFallback = errors.New("xcache: nil fallback function")

	// ErrEmptyKey 表示缓存 key（前缀 + id 拼接后）为空字符串。
	ErrEmptyKey = errors.New("xcache: empty key")

	// ErrRebuildTimeout 表示互斥重建模式下等待重建锁的退避重试
	// 次数耗尽。通常意味着持锁方的回源长期不返回。
	ErrRebuildTimeout = errors.New("xcache: rebuild lock wait exhausted")
)
