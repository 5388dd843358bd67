package testsCommon

import "github.com/iulianpascalau/traffic-dashboard/services/dashboard/common"

// ScenarioBody is a metrics endpoint response used across tests
const ScenarioBody = `{"requests_per_minute": 42, "avg_response_time": 17.5, "top_source_ips": [{"source_ip":"10.0.0.1","count":5}], "request_method_distribution": {"GET": 9, "POST": 1}, "response_code_statistics": {"200": 8, "500": 2}, "traffic_trend_last_hour": [{"minute":0,"count":3},{"minute":1,"count":7}]}`

// CreateScenarioSnapshot returns the decoded form of ScenarioBody
func CreateScenarioSnapshot() *common.MetricsSnapshot {
	return &common.MetricsSnapshot{
		RequestsPerMinute: 42,
		AvgResponseTime:   17.5,
		TopSourceIPs:      []common.SourceIPCount{{SourceIP: "10.0.0.1", Count: 5}},
		RequestMethodDistribution: []common.LabelCount{
			{Label: "GET", Count: 9},
			{Label: "POST", Count: 1},
		},
		ResponseCodeStatistics: []common.LabelCount{
			{Label: "200", Count: 8},
			{Label: "500", Count: 2},
		},
		TrafficTrendLastHour: []common.TrendPoint{
			{Minute: 0, Count: 3},
			{Minute: 1, Count: 7},
		},
	}
}
