// Package xshop 实现店铺查询与更新的缓存门面。
//
// # 读路径
//
// QueryByID 默认走逻辑过期策略（热点数据预热后读路径永不阻塞），
// 同时提供 QueryByIDMutex（互斥重建，强一致回源）和
// QueryByIDPassThrough（直通，无击穿防护）两个变体供调用方按
// 数据特征选择。QueryTypeList 缓存整个类型列表，用 redis list
// 布局（每个元素一条 JSON 编码的分类）直接读写底层存储。
//
// # 写路径
//
// Update 采用先更新数据库、后删除缓存的顺序。删除而不是回写，
// 避免并发写导致缓存落入旧值。
//
// # 预热
//
// WarmUp 把店铺以逻辑过期信封写入缓存。Warmer 基于 xcron 周期性
// 预热热点店铺，配合分布式锁保证多副本只有一个实例在预热。
package xshop
