// Package xseqid 提供基于 KV 计数器的全局单调 ID 生成器。
//
// # 位布局
//
//	[1 位符号 = 0][31 位：自 2022-01-01T00:00:00Z 起的秒数][32 位：序列号]
//
// 序列号来自 KV 存储上按 (业务 tag, UTC 日) 分桶的原子计数器
// （key 形如 icr:order:2022:01:01），天然在日界自动归零。
// 同一秒内由单个生成器产生的 ID 严格递增；多个生成器共享计数器，
// 互相不会产生重复。
//
// # 与本地序列方案的取舍
//
// 不提供本地计数器兜底：两个节点各自兜底必然可能撞号。
// KV 存储不可达时直接失败，由调用方决定重试或放弃。
package xseqid
