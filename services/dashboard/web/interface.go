package web

import "github.com/iulianpascalau/traffic-dashboard/services/dashboard/common"

// Document holds the regions served to browsers
type Document interface {
	Apply(writes []common.RegionWrite) error
	Regions() map[common.RegionID]common.RegionContent
	IsInterfaceNil() bool
}
