package xseqid

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/omeyang/dpkit/internal/rediskey"
	"github.com/omeyang/dpkit/pkg/storage/xkv"
)

// =============================================================================
// 错误与常量
// =============================================================================

var (
	// ErrNilStore 表示传入的存储实例为 nil。
	ErrNilStore = errors.New("xseqid: nil store")

	// ErrEmptyTag 表示业务 tag 为空字符串。
	ErrEmptyTag = errors.New("xseqid: empty tag")

	// ErrInvalidID 表示 ID 值无效（非正数）。
	ErrInvalidID = errors.New("xseqid: invalid id")

	// ErrTimeOverflow 表示时间分量超出 31 位可表示范围。
	// 这是不可恢复的错误，意味着 epoch 需要整体迁移。
	ErrTimeOverflow = errors.New("xseqid: time component overflow")
)

const (
	// Epoch 时间分量的起点：2022-01-01T00:00:00Z 的 Unix 秒。
	Epoch int64 = 1640995200

	// sequenceBits 序列号位数。
	sequenceBits = 32

	// maxTimestamp 31 位时间分量的最大值。
	maxTimestamp = int64(1)<<31 - 1

	// dayLayout 计数器 key 中 UTC 日期的格式。
	dayLayout = "2006:01:02"
)

// =============================================================================
// Generator
// =============================================================================

// Generator 全局单调 ID 生成器。所有方法并发安全。
type Generator struct {
	store xkv.Store
	now   func() time.Time
}

// New 创建 ID 生成器。
func New(store xkv.Store, opts ...Option) (*Generator, error) {
	if store == nil {
		return nil, ErrNilStore
	}

	g := &Generator{
		store: store,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Next 生成 tag 业务域内的下一个全局唯一 ID。
//
// 确定性：给定时钟时刻与计数器值，输出可复现。
// 存储不可达时返回错误，绝不退化为本地序列。
func (g *Generator) Next(ctx context.Context, tag string) (int64, error) {
	if tag == "" {
		return 0, ErrEmptyTag
	}

	now := g.now().UTC()
	timestamp := now.Unix() - Epoch
	if timestamp < 0 || timestamp > maxTimestamp {
		return 0, fmt.Errorf("%w: %s", ErrTimeOverflow, now.Format(time.RFC3339))
	}

	count, err := g.store.Incr(ctx, rediskey.SeqCounter(tag, now.Format(dayLayout)))
	if err != nil {
		return 0, fmt.Errorf("xseqid: increment counter: %w", err)
	}

	return timestamp<<sequenceBits | count, nil
}

// =============================================================================
// 解析
// =============================================================================

// Components 表示 ID 分解后的各组成部分。
type Components struct {
	// ID 原始 ID 值。
	ID int64
	// Time ID 签发时刻（UTC，秒精度）。
	Time time.Time
	// Sequence 当日序列号（32 位分量）。
	Sequence int64
}

// Decompose 分解 ID。纯函数，无需生成器实例。
func Decompose(id int64) (Components, error) {
	if id <= 0 {
		return Components{}, fmt.Errorf("%w: value must be positive, got %d", ErrInvalidID, id)
	}
	return Components{
		ID:       id,
		Time:     time.Unix(id>>sequenceBits+Epoch, 0).UTC(),
		Sequence: id & (int64(1)<<sequenceBits - 1),
	}, nil
}
