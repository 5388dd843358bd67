package poller

import (
	"errors"

	"github.com/iulianpascalau/traffic-dashboard/services/dashboard/common"
	"github.com/tidwall/gjson"
)

const (
	fieldRequestsPerMinute    = "requests_per_minute"
	fieldAvgResponseTime      = "avg_response_time"
	fieldTopSourceIPs         = "top_source_ips"
	fieldMethodDistribution   = "request_method_distribution"
	fieldResponseCodeStats    = "response_code_statistics"
	fieldTrafficTrendLastHour = "traffic_trend_last_hour"
)

var errMalformedJSON = errors.New("malformed JSON body")
var errNotAnObject = errors.New("JSON body is not an object")

// DecodeSnapshot parses a metrics endpoint body. All six fields are required. Object-valued
// distributions keep the key order found in the document.
func DecodeSnapshot(body []byte) (*common.MetricsSnapshot, error) {
	if !gjson.ValidBytes(body) {
		return nil, &DecodeError{Err: errMalformedJSON}
	}

	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return nil, &DecodeError{Err: errNotAnObject}
	}

	rpm, err := requireField(root, fieldRequestsPerMinute, gjson.Number)
	if err != nil {
		return nil, err
	}
	avg, err := requireField(root, fieldAvgResponseTime, gjson.Number)
	if err != nil {
		return nil, err
	}
	topIPs, err := requireArray(root, fieldTopSourceIPs)
	if err != nil {
		return nil, err
	}
	methods, err := requireObject(root, fieldMethodDistribution)
	if err != nil {
		return nil, err
	}
	codes, err := requireObject(root, fieldResponseCodeStats)
	if err != nil {
		return nil, err
	}
	trend, err := requireArray(root, fieldTrafficTrendLastHour)
	if err != nil {
		return nil, err
	}

	snapshot := &common.MetricsSnapshot{
		RequestsPerMinute:         rpm.Float(),
		AvgResponseTime:           avg.Float(),
		TopSourceIPs:              make([]common.SourceIPCount, 0, len(topIPs)),
		RequestMethodDistribution: labelCounts(methods),
		ResponseCodeStatistics:    labelCounts(codes),
		TrafficTrendLastHour:      make([]common.TrendPoint, 0, len(trend)),
	}

	for _, entry := range topIPs {
		snapshot.TopSourceIPs = append(snapshot.TopSourceIPs, common.SourceIPCount{
			SourceIP: entry.Get("source_ip").String(),
			Count:    entry.Get("count").Int(),
		})
	}
	for _, entry := range trend {
		snapshot.TrafficTrendLastHour = append(snapshot.TrafficTrendLastHour, common.TrendPoint{
			Minute: entry.Get("minute").Int(),
			Count:  entry.Get("count").Int(),
		})
	}

	return snapshot, nil
}

func requireField(root gjson.Result, name string, kind gjson.Type) (gjson.Result, error) {
	result := root.Get(name)
	if !result.Exists() {
		return result, &DecodeError{Err: errFieldNotFound(name)}
	}
	if result.Type != kind {
		return result, &DecodeError{Err: errFieldType{field: name, expected: kind.String()}}
	}

	return result, nil
}

func requireArray(root gjson.Result, name string) ([]gjson.Result, error) {
	result := root.Get(name)
	if !result.Exists() {
		return nil, &DecodeError{Err: errFieldNotFound(name)}
	}
	if !result.IsArray() {
		return nil, &DecodeError{Err: errFieldType{field: name, expected: "array"}}
	}

	return result.Array(), nil
}

func requireObject(root gjson.Result, name string) (gjson.Result, error) {
	result := root.Get(name)
	if !result.Exists() {
		return result, &DecodeError{Err: errFieldNotFound(name)}
	}
	if !result.IsObject() {
		return result, &DecodeError{Err: errFieldType{field: name, expected: "object"}}
	}

	return result, nil
}

// labelCounts walks the object in document order, Go maps would lose it
func labelCounts(object gjson.Result) []common.LabelCount {
	counts := make([]common.LabelCount, 0)
	object.ForEach(func(key, value gjson.Result) bool {
		counts = append(counts, common.LabelCount{
			Label: key.String(),
			Count: value.Int(),
		})
		return true
	})

	return counts
}
