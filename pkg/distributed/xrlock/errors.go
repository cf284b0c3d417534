package xrlock

import "errors"

var (
	// ErrNilStore 表示传入的存储实例为 nil。
	ErrNilStore = errors.New("xrlock: nil store")

	// ErrEmptyName 表示锁名为空字符串。
	ErrEmptyName = errors.New("xrlock: empty lock name")

	// ErrInvalidLease 表示租约时长无效（必须为正）。
	ErrInvalidLease = errors.New("xrlock: lease must be positive")

	// ErrNotLocked 表示当前 Mutex 未持有锁（未获取或已释放）。
	ErrNotLocked = errors.New("xrlock: not locked")

	// ErrNotOwner 表示释放时锁记录的属主不是自己。
	// 通常意味着租约已到期且锁被其他调用者重新获取，
	// 属于预期内的竞态，调用方记录日志后继续即可。
	ErrNotOwner = errors.New("xrlock: lock owned by someone else")
)
