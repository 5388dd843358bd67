package engine

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/iulianpascalau/traffic-dashboard/services/dashboard/common"
	"github.com/iulianpascalau/traffic-dashboard/services/dashboard/testsCommon"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitClosed(t *testing.T, ch <-chan struct{}, timeout time.Duration) {
	select {
	case <-ch:
	case <-time.After(timeout):
		require.Fail(t, "timeout waiting for channel to close")
	}
}

func TestStartPolling_InvalidArguments(t *testing.T) {
	t.Parallel()

	t.Run("nil runner should error", func(t *testing.T) {
		handle, err := StartPolling(nil, time.Second, testEndpoint)

		assert.Nil(t, handle)
		assert.Equal(t, errNilCycleRunner, err)
	})
	t.Run("zero interval should error", func(t *testing.T) {
		handle, err := StartPolling(&testsCommon.CycleRunnerStub{}, 0, testEndpoint)

		assert.Nil(t, handle)
		assert.Equal(t, errInvalidInterval, err)
	})
	t.Run("negative interval should error", func(t *testing.T) {
		handle, err := StartPolling(&testsCommon.CycleRunnerStub{}, -time.Second, testEndpoint)

		assert.Nil(t, handle)
		assert.Equal(t, errInvalidInterval, err)
	})
	t.Run("empty endpoint should error", func(t *testing.T) {
		handle, err := StartPolling(&testsCommon.CycleRunnerStub{}, time.Second, " ")

		assert.Nil(t, handle)
		assert.Equal(t, errEmptyEndpoint, err)
	})
}

func TestStartPolling_RunsImmediately(t *testing.T) {
	t.Parallel()

	called := make(chan string, 1)
	runner := &testsCommon.CycleRunnerStub{
		RunCycleHandler: func(ctx context.Context, endpoint string) common.CycleResult {
			select {
			case called <- endpoint:
			default:
			}
			return common.CycleResult{}
		},
	}

	handle, err := StartPolling(runner, time.Hour, testEndpoint)
	require.NoError(t, err)
	defer CancelPolling(handle)

	assert.Equal(t, testEndpoint, handle.Endpoint())
	assert.Equal(t, time.Hour, handle.Interval())

	select {
	case endpoint := <-called:
		assert.Equal(t, testEndpoint, endpoint)
	case <-time.After(time.Second):
		require.Fail(t, "first cycle did not run right away")
	}
}

func TestStartPolling_RepeatsUntilCancelled(t *testing.T) {
	t.Parallel()

	numCycles := atomic.Int32{}
	runner := &testsCommon.CycleRunnerStub{
		RunCycleHandler: func(ctx context.Context, endpoint string) common.CycleResult {
			numCycles.Add(1)
			return common.CycleResult{}
		},
	}

	handle, err := StartPolling(runner, 10*time.Millisecond, testEndpoint)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return numCycles.Load() >= 3
	}, 2*time.Second, 5*time.Millisecond)

	CancelPolling(handle)
	waitClosed(t, handle.Done(), time.Second)

	numAfterCancel := numCycles.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, numAfterCancel, numCycles.Load())

	// cancelling again is a no-op
	handle.Cancel()
	CancelPolling(nil)
}

func TestStartPolling_InFlightCycleCompletes(t *testing.T) {
	t.Parallel()

	started := make(chan struct{})
	release := make(chan struct{})
	var ctxErrAfterCancel atomic.Value
	completed := atomic.Bool{}
	runner := &testsCommon.CycleRunnerStub{
		RunCycleHandler: func(ctx context.Context, endpoint string) common.CycleResult {
			if completed.Load() {
				return common.CycleResult{}
			}
			close(started)
			<-release
			ctxErrAfterCancel.Store(ctx.Err() == nil)
			completed.Store(true)
			return common.CycleResult{Status: common.CycleRendered}
		},
	}

	handle, err := StartPolling(runner, time.Hour, testEndpoint)
	require.NoError(t, err)

	waitClosed(t, started, time.Second)
	handle.Cancel()
	close(release)

	waitClosed(t, handle.Done(), time.Second)
	assert.True(t, completed.Load())
	assert.Equal(t, true, ctxErrAfterCancel.Load())
}

func TestStartPolling_CyclesDoNotOverlap(t *testing.T) {
	t.Parallel()

	running := atomic.Int32{}
	maxRunning := atomic.Int32{}
	numCycles := atomic.Int32{}
	runner := &testsCommon.CycleRunnerStub{
		RunCycleHandler: func(ctx context.Context, endpoint string) common.CycleResult {
			current := running.Add(1)
			defer running.Add(-1)
			if current > maxRunning.Load() {
				maxRunning.Store(current)
			}

			time.Sleep(30 * time.Millisecond)
			numCycles.Add(1)
			return common.CycleResult{}
		},
	}

	handle, err := StartPolling(runner, 5*time.Millisecond, testEndpoint)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return numCycles.Load() >= 3
	}, 2*time.Second, 5*time.Millisecond)

	handle.Cancel()
	waitClosed(t, handle.Done(), time.Second)

	assert.Equal(t, int32(1), maxRunning.Load())
}
