package xcache

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalTime_MarshalWithoutZone(t *testing.T) {
	lt := LocalTime(time.Date(2022, 1, 1, 12, 30, 0, 0, time.Local))
	data, err := json.Marshal(lt)
	require.NoError(t, err)
	assert.Equal(t, `"2022-01-01T12:30:00"`, string(data))
}

func TestLocalTime_UnmarshalBothLayouts(t *testing.T) {
	var lt LocalTime
	require.NoError(t, json.Unmarshal([]byte(`"2022-01-01T12:30:00"`), &lt))
	assert.Equal(t, time.Date(2022, 1, 1, 12, 30, 0, 0, time.Local), time.Time(lt))

	// RFC3339 同样可解析
	require.NoError(t, json.Unmarshal([]byte(`"2022-01-01T12:30:00Z"`), &lt))
	assert.True(t, time.Time(lt).Equal(time.Date(2022, 1, 1, 12, 30, 0, 0, time.UTC)))
}

func TestEnvelope_Fresh(t *testing.T) {
	now := time.Now()
	env := &envelope{ExpireTime: LocalTime(now.Add(time.Minute))}
	assert.True(t, env.fresh(now))
	assert.False(t, env.fresh(now.Add(2*time.Minute)))
}

func TestParseEnvelope(t *testing.T) {
	env, err := parseEnvelope(`{"data":{"id":1},"expireTime":"2022-01-01T12:30:00"}`)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1}`, string(env.Data))

	// data 缺失视为损坏
	_, err = parseEnvelope(`{"expireTime":"2022-01-01T12:30:00"}`)
	assert.Error(t, err)

	_, err = parseEnvelope(`not-json`)
	assert.Error(t, err)
}
