package testsCommon

import (
	"context"

	"github.com/iulianpascalau/traffic-dashboard/services/dashboard/common"
)

// CycleRunnerStub -
type CycleRunnerStub struct {
	RunCycleHandler func(ctx context.Context, endpoint string) common.CycleResult
}

// RunCycle -
func (stub *CycleRunnerStub) RunCycle(ctx context.Context, endpoint string) common.CycleResult {
	if stub.RunCycleHandler != nil {
		return stub.RunCycleHandler(ctx, endpoint)
	}

	return common.CycleResult{Endpoint: endpoint, Status: common.CycleRendered}
}

// IsInterfaceNil -
func (stub *CycleRunnerStub) IsInterfaceNil() bool {
	return stub == nil
}
