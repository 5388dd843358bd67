package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/iulianpascalau/traffic-dashboard/services/dashboard/common"
	"github.com/iulianpascalau/traffic-dashboard/services/dashboard/config"
	"github.com/iulianpascalau/traffic-dashboard/services/dashboard/poller"
	"github.com/iulianpascalau/traffic-dashboard/services/dashboard/renderer"
	"github.com/multiversx/mx-chain-core-go/core/check"
	logger "github.com/multiversx/mx-chain-logger-go"
)

var log = logger.GetOrCreate("engine")

// dashboardEngine runs fetch-decode-render cycles against a surface
type dashboardEngine struct {
	poller             Poller
	surface            Surface
	requestTimeout     time.Duration
	showStaleIndicator bool
	timeHandler        func() time.Time

	mutStatus   sync.Mutex
	lastSuccess time.Time
}

// NewDashboardEngine creates a new engine instance
func NewDashboardEngine(cfg config.Config, p Poller, s Surface) (*dashboardEngine, error) {
	if check.IfNil(p) {
		return nil, errNilPoller
	}
	if check.IfNil(s) {
		return nil, errNilSurface
	}

	requestTimeout := time.Duration(cfg.RequestTimeoutInSeconds) * time.Second
	if requestTimeout <= 0 {
		requestTimeout = config.DefaultRequestTimeoutInSeconds * time.Second
	}

	return &dashboardEngine{
		poller:             p,
		surface:            s,
		requestTimeout:     requestTimeout,
		showStaleIndicator: cfg.ShowStaleIndicator,
		timeHandler:        time.Now,
	}, nil
}

// RunCycle fetches one snapshot and renders it. Failures are logged and absorbed: the surface is
// only written when the snapshot decoded in full.
func (e *dashboardEngine) RunCycle(ctx context.Context, endpoint string) (result common.CycleResult) {
	result = common.CycleResult{
		ID:       uuid.NewString(),
		Endpoint: endpoint,
		Status:   common.CycleFailed,
	}

	defer func() {
		r := recover()
		if r != nil {
			result.Status = common.CycleFailed
			result.Err = fmt.Errorf("cycle panicked: %v", r)
			log.Error("metrics cycle panicked", "cycle", result.ID, "endpoint", endpoint, "panic", r)
		}
	}()

	log.Debug("starting metrics cycle", "cycle", result.ID, "endpoint", endpoint)

	fetchCtx, cancel := context.WithTimeout(ctx, e.requestTimeout)
	defer cancel()

	snapshot, err := e.poller.Fetch(fetchCtx, endpoint)
	if err != nil {
		result.Err = err
		log.Warn("metrics cycle failed, keeping last rendered values",
			"cycle", result.ID, "endpoint", endpoint, "kind", failureKind(err), "error", err)
		e.markStale()
		return result
	}

	writes := renderer.Render(snapshot)
	now := e.timeHandler()
	if e.showStaleIndicator {
		writes = append(writes, renderer.RenderStatus(now, now, false))
	}

	err = e.surface.Apply(writes)
	if err != nil {
		result.Err = err
		log.Error("failed to apply rendered snapshot", "cycle", result.ID, "endpoint", endpoint, "error", err)
		return result
	}

	e.mutStatus.Lock()
	e.lastSuccess = now
	e.mutStatus.Unlock()

	result.Status = common.CycleRendered
	result.Writes = len(writes)
	log.Debug("metrics cycle rendered", "cycle", result.ID, "writes", result.Writes)

	return result
}

func (e *dashboardEngine) markStale() {
	if !e.showStaleIndicator {
		return
	}

	e.mutStatus.Lock()
	lastSuccess := e.lastSuccess
	e.mutStatus.Unlock()

	status := renderer.RenderStatus(lastSuccess, e.timeHandler(), true)
	err := e.surface.Apply([]common.RegionWrite{status})
	if err != nil {
		log.Debug("failed to write stale indicator", "error", err)
	}
}

func failureKind(err error) string {
	var transportErr *poller.TransportError
	var statusErr poller.HTTPStatusError
	var decodeErr *poller.DecodeError

	switch {
	case errors.As(err, &transportErr):
		return "transport"
	case errors.As(err, &statusErr):
		return "http status"
	case errors.As(err, &decodeErr):
		return "decode"
	default:
		return "unknown"
	}
}

// IsInterfaceNil returns true if the value under the interface is nil
func (e *dashboardEngine) IsInterfaceNil() bool {
	return e == nil
}
