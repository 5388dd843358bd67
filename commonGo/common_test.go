package commonGo

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	logger "github.com/multiversx/mx-chain-logger-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCronJobStarter(t *testing.T) {
	t.Parallel()

	t.Run("calls the handler right away", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		called := make(chan struct{}, 1)
		_ = CronJobStarter(ctx, func(ctx context.Context) {
			select {
			case called <- struct{}{}:
			default:
			}
		}, time.Hour)

		select {
		case <-called:
		case <-time.After(time.Second):
			require.Fail(t, "handler was not called right away")
		}
	})
	t.Run("stops when the context is done", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())

		numCalls := atomic.Int32{}
		done := CronJobStarter(ctx, func(ctx context.Context) {
			numCalls.Add(1)
		}, 10*time.Millisecond)

		require.Eventually(t, func() bool {
			return numCalls.Load() >= 3
		}, 2*time.Second, 5*time.Millisecond)

		cancel()
		select {
		case <-done:
		case <-time.After(time.Second):
			require.Fail(t, "cron job did not stop")
		}

		numAfterStop := numCalls.Load()
		time.Sleep(50 * time.Millisecond)
		assert.Equal(t, numAfterStop, numCalls.Load())
	})
}

func TestReadEnvFile(t *testing.T) {
	t.Run("missing file should error", func(t *testing.T) {
		err := ReadEnvFile(filepath.Join(t.TempDir(), ".env"), map[string]string{"KEY": ""})
		assert.Error(t, err)
	})
	t.Run("missing key should error", func(t *testing.T) {
		envFile := filepath.Join(t.TempDir(), ".env")
		require.NoError(t, os.WriteFile(envFile, []byte("OTHER_DASHBOARD_KEY=1\n"), 0o600))

		err := ReadEnvFile(envFile, map[string]string{"MISSING_DASHBOARD_KEY": ""})
		assert.ErrorContains(t, err, "MISSING_DASHBOARD_KEY is not set in the .env file")
	})
	t.Run("should fill the map", func(t *testing.T) {
		envFile := filepath.Join(t.TempDir(), ".env")
		require.NoError(t, os.WriteFile(envFile, []byte("TEST_METRICS_ENDPOINT=http://127.0.0.1:9/metrics\n"), 0o600))

		m := map[string]string{"TEST_METRICS_ENDPOINT": ""}
		err := ReadEnvFile(envFile, m)
		require.NoError(t, err)
		assert.Equal(t, "http://127.0.0.1:9/metrics", m["TEST_METRICS_ENDPOINT"])
	})
}

func TestAttachFileLogger(t *testing.T) {
	t.Parallel()

	handler, err := AttachFileLogger(logger.GetOrCreate("test"), "logs", "test", false, t.TempDir())
	assert.Nil(t, err)
	assert.Nil(t, handler)
}
