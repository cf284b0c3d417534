package xcron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddFunc_NilJob(t *testing.T) {
	s := New()
	_, err := s.AddFunc("@every 1s", nil)
	assert.ErrorIs(t, err, ErrNilJob)
	_, err = s.AddJob("@every 1s", nil)
	assert.ErrorIs(t, err, ErrNilJob)
}

func TestAddFunc_InvalidSpec(t *testing.T) {
	s := New()
	_, err := s.AddFunc("not-a-spec", func(ctx context.Context) error { return nil })
	assert.Error(t, err)
}

func TestScheduler_RunsJobOnSchedule(t *testing.T) {
	s := New()
	ran := make(chan struct{}, 4)

	_, err := s.AddFunc("@every 100ms", func(ctx context.Context) error {
		select {
		case ran <- struct{}{}:
		default:
		}
		return nil
	}, WithName("tick"))
	require.NoError(t, err)

	s.Start()
	defer func() { <-s.Stop().Done() }()

	select {
	case <-ran:
	case <-time.After(3 * time.Second):
		t.Fatal("job never ran")
	}
}

func TestScheduler_WithImmediate_RunsWithoutStart(t *testing.T) {
	s := New()
	ran := make(chan struct{})

	_, err := s.AddFunc("@every 1h", func(ctx context.Context) error {
		close(ran)
		return nil
	}, WithName("warmup"), WithImmediate())
	require.NoError(t, err)
	defer func() { <-s.Stop().Done() }()

	select {
	case <-ran:
	case <-time.After(3 * time.Second):
		t.Fatal("immediate job never ran")
	}
}

func TestScheduler_WithTimeout_CancelsJob(t *testing.T) {
	s := New()
	observed := make(chan error, 1)

	_, err := s.AddFunc("@every 1h", func(ctx context.Context) error {
		select {
		case <-ctx.Done():
			observed <- ctx.Err()
			return ctx.Err()
		case <-time.After(5 * time.Second):
			observed <- nil
			return nil
		}
	}, WithName("slow"), WithTimeout(50*time.Millisecond), WithImmediate())
	require.NoError(t, err)
	defer func() { <-s.Stop().Done() }()

	select {
	case err := <-observed:
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	case <-time.After(3 * time.Second):
		t.Fatal("job never finished")
	}
}

func TestScheduler_WithRetry_EventuallySucceeds(t *testing.T) {
	s := New()
	var attempts atomic.Int64
	done := make(chan struct{})

	_, err := s.AddFunc("@every 1h", func(ctx context.Context) error {
		if attempts.Add(1) < 3 {
			return errors.New("transient")
		}
		close(done)
		return nil
	}, WithName("flaky"), WithRetry(5, time.Millisecond), WithImmediate())
	require.NoError(t, err)
	defer func() { <-s.Stop().Done() }()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("job never succeeded")
	}
	assert.Equal(t, int64(3), attempts.Load())
}

func TestScheduler_RecoversPanic(t *testing.T) {
	s := New()
	done := make(chan struct{})

	_, err := s.AddFunc("@every 1h", func(ctx context.Context) error {
		defer close(done)
		panic("boom")
	}, WithName("panicky"), WithImmediate())
	require.NoError(t, err)

	<-s.Stop().Done()
	<-done

	// panic 被包装为失败而不是进程崩溃
	assert.Eventually(t, func() bool {
		return s.Stats().FailureCount() == 1
	}, time.Second, 5*time.Millisecond)
}

func TestScheduler_StatsPerJob(t *testing.T) {
	s := New()
	done := make(chan struct{})

	_, err := s.AddFunc("@every 1h", func(ctx context.Context) error {
		close(done)
		return nil
	}, WithName("counted"), WithImmediate())
	require.NoError(t, err)

	<-done
	<-s.Stop().Done()

	js := s.Stats().JobStats("counted")
	require.NotNil(t, js)
	assert.Equal(t, int64(1), js.TotalExecutions())
	assert.Equal(t, int64(1), js.SuccessCount())
	assert.Equal(t, int64(0), js.FailureCount())
}

func TestScheduler_HookOrder(t *testing.T) {
	s := New()
	var order []string
	done := make(chan struct{})

	hook := func(name string) Hook {
		return HookFunc{
			Before: func(ctx context.Context, _ string) context.Context {
				order = append(order, "before-"+name)
				return ctx
			},
			After: func(ctx context.Context, _ string, _ time.Duration, _ error) {
				order = append(order, "after-"+name)
			},
		}
	}

	_, err := s.AddFunc("@every 1h", func(ctx context.Context) error {
		order = append(order, "job")
		close(done)
		return nil
	}, WithName("hooked"), WithHooks(hook("a"), hook("b")), WithImmediate())
	require.NoError(t, err)

	<-done
	<-s.Stop().Done()

	// Before 正序，After 逆序
	assert.Equal(t, []string{"before-a", "before-b", "job", "after-b", "after-a"}, order)
}

func TestScheduler_Remove(t *testing.T) {
	s := New()
	id, err := s.AddFunc("@every 1h", func(ctx context.Context) error { return nil })
	require.NoError(t, err)
	require.Len(t, s.Entries(), 1)

	s.Remove(id)
	assert.Empty(t, s.Entries())
}
