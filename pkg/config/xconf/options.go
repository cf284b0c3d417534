package xconf

// Options 控制 koanf 解析行为。
type Options struct {
	// Delim 嵌套键的分隔符，如 "cache.shop.ttl"。默认 "."。
	Delim string

	// Tag 反序列化用的结构体标签。默认 "koanf"，
	// 与 [Settings] 上的标签一致，一般不需要改。
	Tag string
}

// Option 按函数式选项模式修改 Options。
type Option func(*Options)

func defaultOptions() *Options {
	return &Options{
		Delim: ".",
		Tag:   "koanf",
	}
}

// WithDelim 设置嵌套键分隔符。空串被忽略。
func WithDelim(delim string) Option {
	return func(o *Options) {
		if delim != "" {
			o.Delim = delim
		}
	}
}

// WithTag 设置反序列化的结构体标签。空串被忽略。
func WithTag(tag string) Option {
	return func(o *Options) {
		if tag != "" {
			o.Tag = tag
		}
	}
}
