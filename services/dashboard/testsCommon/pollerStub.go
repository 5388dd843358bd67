package testsCommon

import (
	"context"

	"github.com/iulianpascalau/traffic-dashboard/services/dashboard/common"
)

// PollerStub -
type PollerStub struct {
	FetchHandler func(ctx context.Context, endpoint string) (*common.MetricsSnapshot, error)
}

// Fetch -
func (stub *PollerStub) Fetch(ctx context.Context, endpoint string) (*common.MetricsSnapshot, error) {
	if stub.FetchHandler != nil {
		return stub.FetchHandler(ctx, endpoint)
	}

	return &common.MetricsSnapshot{}, nil
}

// IsInterfaceNil -
func (stub *PollerStub) IsInterfaceNil() bool {
	return stub == nil
}
