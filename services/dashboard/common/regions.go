package common

// RegionID addresses a display region of the dashboard page
type RegionID string

// The identifiers below are the contract with the page, they never change
const (
	RegionRequestsPerMinute RegionID = "rpm"
	RegionAvgResponseTime   RegionID = "avg-resp-time"
	RegionTopSourceIPs      RegionID = "top-ips-table"
	RegionMethodDist        RegionID = "method-dist"
	RegionResponseCodes     RegionID = "resp-codes"
	RegionTrend             RegionID = "trend"
	RegionStatus            RegionID = "status"
)

// DisplayRegions lists the snapshot regions in render order
var DisplayRegions = []RegionID{
	RegionRequestsPerMinute,
	RegionAvgResponseTime,
	RegionTopSourceIPs,
	RegionMethodDist,
	RegionResponseCodes,
	RegionTrend,
}

// WriteKind tells a surface what kind of content a region receives
type WriteKind string

const (
	// WriteText replaces the region's single value
	WriteText WriteKind = "text"
	// WriteRows clears a table body and appends the rows
	WriteRows WriteKind = "rows"
	// WriteItems clears a list and appends the items
	WriteItems WriteKind = "items"
)

// RegionWrite fully replaces the content of one region
type RegionWrite struct {
	Region RegionID   `json:"region"`
	Kind   WriteKind  `json:"kind"`
	Text   string     `json:"text,omitempty"`
	Rows   [][]string `json:"rows,omitempty"`
	Items  []string   `json:"items,omitempty"`
}

// RegionContent is the current content of a region as held by a surface
type RegionContent struct {
	Kind  WriteKind  `json:"kind"`
	Text  string     `json:"text"`
	Rows  [][]string `json:"rows"`
	Items []string   `json:"items"`
}
