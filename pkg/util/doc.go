// Package util 提供通用工具相关的子包。
//
// 子包列表：
//   - xpool: 泛型 Worker Pool，可配置 worker/队列大小、优雅关闭
//   - xseqid: 基于 Redis 计数器的单调递增 64 位 ID 生成器
//
// 设计原则：
//   - 泛型优先，避免 interface{} 断言
//   - 并发安全，提供可观测的运行统计
package util
