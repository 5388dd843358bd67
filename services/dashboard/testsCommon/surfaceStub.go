package testsCommon

import "github.com/iulianpascalau/traffic-dashboard/services/dashboard/common"

// SurfaceStub -
type SurfaceStub struct {
	ApplyHandler func(writes []common.RegionWrite) error
}

// Apply -
func (stub *SurfaceStub) Apply(writes []common.RegionWrite) error {
	if stub.ApplyHandler != nil {
		return stub.ApplyHandler(writes)
	}

	return nil
}

// IsInterfaceNil -
func (stub *SurfaceStub) IsInterfaceNil() bool {
	return stub == nil
}
