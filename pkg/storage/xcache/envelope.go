package xcache

import (
	"encoding/json"
	"fmt"
	"time"
)

// localTimeLayout 信封中 expireTime 的序列化格式：
// 无时区的本地日期时间，与既有数据的 JSON 形态保持兼容。
const localTimeLayout = "2006-01-02T15:04:05"

// LocalTime 是按本地时间、无时区后缀序列化的时间类型。
type LocalTime time.Time

// MarshalJSON 实现 json.Marshaler。
func (t LocalTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(t).Format(localTimeLayout))
}

// UnmarshalJSON 实现 json.Unmarshaler。
// 兼容无时区格式和 RFC3339 两种输入。
func (t *LocalTime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := time.ParseInLocation(localTimeLayout, s, time.Local)
	if err != nil {
		parsed, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return fmt.Errorf("xcache: parse expireTime %q: %w", s, err)
		}
	}
	*t = LocalTime(parsed)
	return nil
}

// Time 返回底层 time.Time。
func (t LocalTime) Time() time.Time {
	return time.Time(t)
}

// envelope 是逻辑过期条目的存储形态。
// 存储层不设 TTL，过期完全由 expireTime 判定；payload 恒定存在。
type envelope struct {
	Data       json.RawMessage `json:"data"`
	ExpireTime LocalTime       `json:"expireTime"`
}

// fresh 判断信封在 now 时刻是否仍然新鲜。
func (e *envelope) fresh(now time.Time) bool {
	return e.ExpireTime.Time().After(now)
}

// parseEnvelope 解析信封 JSON。
func parseEnvelope(raw string) (*envelope, error) {
	var env envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		return nil, err
	}
	if len(env.Data) == 0 {
		return nil, fmt.Errorf("xcache: envelope without data field")
	}
	return &env, nil
}
