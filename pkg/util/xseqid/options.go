package xseqid

import "time"

// Option 定义配置 Generator 的函数类型。
type Option func(*Generator)

// WithNow 注入时钟函数，用于测试确定性。
// 传入 nil 保持默认 time.Now。
func WithNow(now func() time.Time) Option {
	return func(g *Generator) {
		if now != nil {
			g.now = now
		}
	}
}
