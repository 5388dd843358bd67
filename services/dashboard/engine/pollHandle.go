package engine

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/iulianpascalau/traffic-dashboard/commonGo"
	"github.com/multiversx/mx-chain-core-go/core/check"
)

// PollHandle is owned by the caller of StartPolling and controls the schedule's lifecycle
type PollHandle struct {
	endpoint   string
	interval   time.Duration
	cancel     context.CancelFunc
	done       <-chan struct{}
	cancelOnce sync.Once
}

// StartPolling runs one cycle right away and then one every interval until the handle is cancelled.
// Cycles never overlap. The endpoint's reachability is not checked here, fetch failures surface per cycle.
func StartPolling(runner CycleRunner, interval time.Duration, endpoint string) (*PollHandle, error) {
	if check.IfNil(runner) {
		return nil, errNilCycleRunner
	}
	if interval <= 0 {
		return nil, errInvalidInterval
	}
	if len(strings.TrimSpace(endpoint)) == 0 {
		return nil, errEmptyEndpoint
	}

	ctx, cancel := context.WithCancel(context.Background())
	handle := &PollHandle{
		endpoint: endpoint,
		interval: interval,
		cancel:   cancel,
	}

	log.Info("starting metrics polling", "endpoint", endpoint, "interval", interval)

	handle.done = commonGo.CronJobStarter(ctx, func(ctx context.Context) {
		// a cycle already started finishes even if the schedule gets cancelled meanwhile
		_ = runner.RunCycle(context.WithoutCancel(ctx), endpoint)
	}, interval)

	return handle, nil
}

// CancelPolling stops the schedule of the provided handle
func CancelPolling(handle *PollHandle) {
	if handle == nil {
		return
	}

	handle.Cancel()
}

// Cancel stops future cycles. A cycle in flight completes and renders. Calling it more than once is a no-op.
func (h *PollHandle) Cancel() {
	h.cancelOnce.Do(func() {
		log.Info("stopping metrics polling", "endpoint", h.endpoint)
		h.cancel()
	})
}

// Done is closed once the schedule stopped and no cycle is running anymore
func (h *PollHandle) Done() <-chan struct{} {
	return h.done
}

// Endpoint returns the polled endpoint
func (h *PollHandle) Endpoint() string {
	return h.endpoint
}

// Interval returns the time between two cycle starts
func (h *PollHandle) Interval() time.Duration {
	return h.interval
}
