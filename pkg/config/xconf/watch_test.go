package xconf

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatch_EmptyPath(t *testing.T) {
	_, err := Watch("", nil)
	assert.ErrorIs(t, err, ErrEmptyPath)
}

func TestWatch_InvalidInitialConfig(t *testing.T) {
	path := writeTempConfig(t, "settings.yaml", "cache:\n  shop:\n    ttl: -1s\n")
	_, err := Watch(path, nil)
	assert.ErrorIs(t, err, ErrInvalidSetting)
}

func TestWatch_ReloadsOnChange(t *testing.T) {
	path := writeTempConfig(t, "settings.yaml", testYAML)

	updates := make(chan *Settings, 4)
	w, err := Watch(path, func(s *Settings, err error) {
		if err == nil {
			updates <- s
		}
	}, WithDebounce(10*time.Millisecond))
	require.NoError(t, err)
	defer func() { _ = w.Stop() }()

	w.StartAsync()
	time.Sleep(50 * time.Millisecond) // 等监视循环就绪

	require.NoError(t, os.WriteFile(path, []byte("cache:\n  shop:\n    ttl: 7m\n"), 0o600))

	select {
	case s := <-updates:
		assert.Equal(t, 7*time.Minute, s.Cache.Shop.TTL)
		// 未覆盖的键回落到默认
		assert.Equal(t, 2*time.Minute, s.Cache.Null.TTL)
	case <-time.After(3 * time.Second):
		t.Fatal("no reload observed")
	}
}

func TestWatch_InvalidChangeReportsError(t *testing.T) {
	path := writeTempConfig(t, "settings.yaml", testYAML)

	errs := make(chan error, 4)
	w, err := Watch(path, func(s *Settings, err error) {
		if err != nil {
			errs <- err
		}
	}, WithDebounce(10*time.Millisecond))
	require.NoError(t, err)
	defer func() { _ = w.Stop() }()

	w.StartAsync()
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, os.WriteFile(path, []byte("rebuild:\n  pool:\n    size: 0\n"), 0o600))

	select {
	case err := <-errs:
		assert.ErrorIs(t, err, ErrInvalidSetting)
	case <-time.After(3 * time.Second):
		t.Fatal("no error observed")
	}
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	path := writeTempConfig(t, "settings.yaml", testYAML)

	w, err := Watch(path, nil)
	require.NoError(t, err)

	w.StartAsync()
	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop())
}
