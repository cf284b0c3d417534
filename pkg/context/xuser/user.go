// Package xuser 提供请求级用户身份的 context 传递。
//
// 原有实现通过线程级 holder 保存当前用户；Go 中请求作用域数据
// 统一经由 context.Context 显式传递，生命周期与请求完全一致。
// 网关/拦截器在鉴权后调用 WithUser 注入，业务代码通过 UserID 读取。
package xuser

import (
	"context"
	"errors"
)

// ErrNoUser 表示 context 中没有用户身份。
// 通常意味着调用链上游缺少鉴权注入，属于编程错误。
var ErrNoUser = errors.New("xuser: no user in context")

// UserInfo 请求级用户信息（脱敏后的 DTO 字段）。
type UserInfo struct {
	// ID 用户 ID。
	ID int64
	// NickName 昵称。
	NickName string
	// Icon 头像地址。
	Icon string
}

// contextKey 私有 key 类型，避免与其他包的 context key 冲突。
type contextKey struct{}

// WithUser 返回携带用户信息的派生 context。
func WithUser(ctx context.Context, user UserInfo) context.Context {
	return context.WithValue(ctx, contextKey{}, user)
}

// FromContext 从 context 获取用户信息。
// 第二个返回值表示是否存在。
func FromContext(ctx context.Context) (UserInfo, bool) {
	user, ok := ctx.Value(contextKey{}).(UserInfo)
	return user, ok
}

// UserID 从 context 获取用户 ID。
// 不存在时返回 ErrNoUser。
func UserID(ctx context.Context) (int64, error) {
	user, ok := FromContext(ctx)
	if !ok {
		return 0, ErrNoUser
	}
	return user.ID, nil
}
