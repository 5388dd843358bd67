package engine

import (
	"context"

	"github.com/iulianpascalau/traffic-dashboard/services/dashboard/common"
)

// Poller defines the interface for fetching one metrics snapshot
type Poller interface {
	// Fetch performs one HTTP GET against the endpoint and decodes the body.
	// Transport failures, non-2xx statuses and decode failures are returned as errors.
	Fetch(ctx context.Context, endpoint string) (*common.MetricsSnapshot, error)

	IsInterfaceNil() bool
}

// Surface defines a page made of display regions
type Surface interface {
	// Apply replaces the content of each addressed region. An invalid batch must leave the surface untouched.
	Apply(writes []common.RegionWrite) error

	IsInterfaceNil() bool
}

// CycleRunner is able to run one fetch-decode-render cycle
type CycleRunner interface {
	RunCycle(ctx context.Context, endpoint string) common.CycleResult
	IsInterfaceNil() bool
}
