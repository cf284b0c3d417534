// Package context 提供上下文与身份管理相关的子包。
//
// 子包列表：
//   - xuser: 请求级用户身份，随 context.Context 传递
//
// 设计原则：
//   - 所有上下文信息通过 context.Context 传递，不使用全局变量
//   - 取值接口区分"未设置"与"零值"
package context
