// Package xconf 提供运行参数的加载与热重载，基于 koanf 实现。
//
// # 设计理念
//
// xconf 把缓存 TTL、锁租约、重建池大小等运行参数收敛为一个强类型的
// Settings 结构：加载时先填默认值，再用文件内容覆盖，最后做合法性校验。
// 调用方拿到的永远是一份完整可用的参数快照，不需要逐项判空。
//
// # 支持的格式
//
//   - YAML（默认，推荐）：.yaml, .yml
//   - JSON：.json
//
// 键布局与参数名一一对应，例如：
//
//	cache:
//	  shop:
//	    ttl: 30m
//	lock:
//	  order:
//	    ttl: 20m
//	rebuild:
//	  pool:
//	    size: 10
//
// # 配置监视
//
// Watch 基于 fsnotify 监视配置文件变更，重新解析为 Settings 后
// 通过回调交给调用方（监视目录而非文件，兼容 vim/emacs 原子写入；
// 内置防抖）。解析或校验失败时保留旧快照，只把错误传给回调。
package xconf
