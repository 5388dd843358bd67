package renderer

import (
	"time"

	"github.com/dustin/go-humanize"
	"github.com/iulianpascalau/traffic-dashboard/services/dashboard/common"
)

const noDataYet = "waiting for first snapshot"

// RenderStatus builds the status region line. lastSuccess is the time of the last rendered
// snapshot, zero if none happened yet.
func RenderStatus(lastSuccess time.Time, now time.Time, stale bool) common.RegionWrite {
	write := common.RegionWrite{
		Region: common.RegionStatus,
		Kind:   common.WriteText,
	}

	switch {
	case lastSuccess.IsZero():
		write.Text = noDataYet
	case stale:
		write.Text = "stale since " + humanize.RelTime(lastSuccess, now, "ago", "from now")
	default:
		write.Text = "updated " + humanize.RelTime(lastSuccess, now, "ago", "from now")
	}

	return write
}
