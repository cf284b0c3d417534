// Package storage 提供数据存储相关的子包。
//
// 子包列表：
//   - xkv: Redis KV 访问层，带重试与可选熔断
//   - xcache: 缓存客户端，支持空值缓存、互斥重建与逻辑过期
//
// 设计原则：
//   - 提供统一的接口抽象，便于测试替换
//   - 缺失与空串严格区分
//   - 失败路径显式返回错误，不静默吞掉
package storage
