package common

// SourceIPCount is one ranked entry of the top source IPs list
type SourceIPCount struct {
	SourceIP string `json:"source_ip"`
	Count    int64  `json:"count"`
}

// LabelCount is one entry of a label-keyed distribution, kept in the order it was received
type LabelCount struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
}

// TrendPoint is one minute bucket of the traffic trend
type TrendPoint struct {
	Minute int64 `json:"minute"`
	Count  int64 `json:"count"`
}

// MetricsSnapshot holds one decoded response of the metrics endpoint
type MetricsSnapshot struct {
	RequestsPerMinute         float64
	AvgResponseTime           float64
	TopSourceIPs              []SourceIPCount
	RequestMethodDistribution []LabelCount
	ResponseCodeStatistics    []LabelCount
	TrafficTrendLastHour      []TrendPoint
}

// CycleStatus describes how a fetch-decode-render cycle ended
type CycleStatus string

const (
	// CycleRendered means the snapshot was fetched, decoded and applied
	CycleRendered CycleStatus = "rendered"
	// CycleFailed means the cycle was aborted before any region write
	CycleFailed CycleStatus = "failed"
)

// CycleResult is the outcome of a single cycle
type CycleResult struct {
	ID       string
	Endpoint string
	Status   CycleStatus
	Err      error
	Writes   int
}
