package xconf

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testYAML = `
cache:
  shop:
    ttl: 10m
  null:
    ttl: 90s
lock:
  order:
    ttl: 1200s
rebuild:
  pool:
    size: 4
`

func writeTempConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefault_AllFieldsPositive(t *testing.T) {
	s := Default()
	assert.Equal(t, 30*time.Minute, s.Cache.Shop.TTL)
	assert.Equal(t, 30*time.Minute, s.Cache.ShopType.TTL)
	assert.Equal(t, 2*time.Minute, s.Cache.Null.TTL)
	assert.Equal(t, 2*time.Minute, s.Login.Code.TTL)
	assert.Equal(t, 30*time.Minute, s.Login.User.TTL)
	assert.Equal(t, 10*time.Second, s.Lock.Shop.TTL)
	assert.Equal(t, 20*time.Minute, s.Lock.Order.TTL)
	assert.Equal(t, 10, s.Rebuild.Pool.Size)
	require.NoError(t, s.validate())
}

func TestLoad_YAML_OverridesAndKeepsDefaults(t *testing.T) {
	path := writeTempConfig(t, "settings.yaml", testYAML)

	s, err := Load(path)
	require.NoError(t, err)

	// 文件中出现的键被覆盖
	assert.Equal(t, 10*time.Minute, s.Cache.Shop.TTL)
	assert.Equal(t, 90*time.Second, s.Cache.Null.TTL)
	assert.Equal(t, 1200*time.Second, s.Lock.Order.TTL)
	assert.Equal(t, 4, s.Rebuild.Pool.Size)

	// 未出现的键保持默认
	assert.Equal(t, 30*time.Minute, s.Cache.ShopType.TTL)
	assert.Equal(t, 10*time.Second, s.Lock.Shop.TTL)
	assert.Equal(t, 2*time.Minute, s.Login.Code.TTL)
}

func TestLoad_EmptyPath(t *testing.T) {
	_, err := Load("")
	assert.ErrorIs(t, err, ErrEmptyPath)
}

func TestLoad_UnknownExtension(t *testing.T) {
	path := writeTempConfig(t, "settings.toml", "a = 1")
	_, err := Load(path)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, ErrLoadFailed)
}

func TestLoadBytes_JSON(t *testing.T) {
	data := []byte(`{"cache":{"shop":{"ttl":"5m"}},"rebuild":{"pool":{"size":2}}}`)
	s, err := LoadBytes(data, FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, s.Cache.Shop.TTL)
	assert.Equal(t, 2, s.Rebuild.Pool.Size)
}

func TestLoadBytes_EmptyDataYieldsDefaults(t *testing.T) {
	s, err := LoadBytes(nil, FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, Default(), *s)
}

func TestLoadBytes_InvalidFormat(t *testing.T) {
	_, err := LoadBytes([]byte("{}"), Format("toml"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestLoadBytes_ParseError(t *testing.T) {
	_, err := LoadBytes([]byte("{not-json"), FormatJSON)
	assert.ErrorIs(t, err, ErrParseFailed)
}

func TestLoad_RejectsNonPositiveTTL(t *testing.T) {
	path := writeTempConfig(t, "settings.yaml", "cache:\n  shop:\n    ttl: 0s\n")
	_, err := Load(path)
	assert.ErrorIs(t, err, ErrInvalidSetting)
}

func TestLoad_RejectsNonPositivePoolSize(t *testing.T) {
	path := writeTempConfig(t, "settings.yaml", "rebuild:\n  pool:\n    size: -1\n")
	_, err := Load(path)
	assert.ErrorIs(t, err, ErrInvalidSetting)
}
