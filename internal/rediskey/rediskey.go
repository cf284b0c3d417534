// Package rediskey 集中定义整个应用的 Redis key 命名规范。
//
// key 布局是各服务之间的共享契约：即使某些业务面（登录、动态、关注、地理检索）
// 不在本仓库实现，它们的 key 仍在此处登记，避免多处散落造成前缀冲突。
// 所有 value 均为 UTF-8 字符串，除特别注明外使用 JSON 编码。
package rediskey

import "strconv"

// 缓存类 key。
const (
	// CacheShopPrefix 店铺缓存前缀，完整 key 为 cache:shop:<id>。
	// value 为 JSON Shop、空字符串（空值标记）或逻辑过期信封。
	CacheShopPrefix = "cache:shop:"

	// CacheShopTypeKey 店铺类型列表缓存。redis list 布局，
	// 每个元素一条 JSON 编码的分类。
	CacheShopTypeKey = "cache:shop-type"
)

// 登录类 key（由网关/用户服务写入，此处仅登记规范）。
const (
	// LoginCodePrefix 短信验证码，TTL 2 分钟，value 为六位数字字符串。
	LoginCodePrefix = "login:code:"

	// LoginTokenPrefix 登录令牌，TTL 30 分钟滑动，value 为用户 DTO 字段 hash。
	LoginTokenPrefix = "login:token:"
)

// 社交类 key（由动态/关注服务写入，此处仅登记规范）。
const (
	// BlogLikedPrefix 点赞集合，sorted set，member 为 userId，score 为点赞时间戳（ms）。
	BlogLikedPrefix = "blog:liked:"

	// FeedPrefix 收件箱，sorted set，member 为 blogId，score 为发布时间戳（ms）。
	FeedPrefix = "feed:"

	// FollowsPrefix 关注集合，set，member 为被关注的 userId。
	FollowsPrefix = "follows:"

	// ShopGeoPrefix 店铺地理位置，geospatial set，按 typeId 分桶。
	ShopGeoPrefix = "shop:geo:"
)

// 计数器类 key。
const (
	// SeqCounterPrefix 全局 ID 生成器的日计数器前缀，
	// 完整 key 为 icr:<tag>:<yyyy:MM:dd>，value 为 64 位计数器。
	SeqCounterPrefix = "icr:"
)

// CacheShop 返回店铺缓存 key。
func CacheShop(id int64) string {
	return CacheShopPrefix + strconv.FormatInt(id, 10)
}

// LockShop 返回店铺缓存重建锁的锁名（不含 "lock:" 前缀，由锁实现追加）。
func LockShop(id int64) string {
	return "shop:" + strconv.FormatInt(id, 10)
}

// LockOrder 返回一人一单锁的锁名（不含 "lock:" 前缀，由锁实现追加）。
func LockOrder(userID int64) string {
	return "order:" + strconv.FormatInt(userID, 10)
}

// SeqCounter 返回 ID 生成器的日计数器 key，day 形如 "2022:01:01"。
func SeqCounter(tag, day string) string {
	return SeqCounterPrefix + tag + ":" + day
}
