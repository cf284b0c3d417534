package xkv

import "errors"

var (
	// ErrNilClient 表示传入的 redis 客户端为 nil。
	ErrNilClient = errors.New("xkv: nil client")

	// ErrEmptyKey 表示传入的 key 为空字符串。
	// 空 key 在 Redis 中合法但几乎总是使用错误，在入口处 fail-fast。
	ErrEmptyKey = errors.New("xkv: empty key")

	// ErrStoreUnavailable 表示存储端 I/O 失败且重试一次后仍未恢复。
	// 使用 errors.Is 判断，原始错误通过 %w 链保留。
	ErrStoreUnavailable = errors.New("xkv: store unavailable")
)
