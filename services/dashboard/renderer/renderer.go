package renderer

import (
	"fmt"
	"strconv"

	"github.com/iulianpascalau/traffic-dashboard/services/dashboard/common"
)

// Render maps a snapshot onto the display regions. It has no side effects: the returned writes
// are applied by a surface, each one fully replacing the prior content of its region.
func Render(snapshot *common.MetricsSnapshot) []common.RegionWrite {
	if snapshot == nil {
		return nil
	}

	return []common.RegionWrite{
		{
			Region: common.RegionRequestsPerMinute,
			Kind:   common.WriteText,
			Text:   FormatNumber(snapshot.RequestsPerMinute),
		},
		{
			Region: common.RegionAvgResponseTime,
			Kind:   common.WriteText,
			Text:   FormatFixed2(snapshot.AvgResponseTime),
		},
		{
			Region: common.RegionTopSourceIPs,
			Kind:   common.WriteRows,
			Rows:   topSourceIPRows(snapshot.TopSourceIPs),
		},
		{
			Region: common.RegionMethodDist,
			Kind:   common.WriteItems,
			Items:  labelItems("", snapshot.RequestMethodDistribution),
		},
		{
			Region: common.RegionResponseCodes,
			Kind:   common.WriteItems,
			Items:  labelItems("HTTP ", snapshot.ResponseCodeStatistics),
		},
		{
			Region: common.RegionTrend,
			Kind:   common.WriteItems,
			Items:  trendItems(snapshot.TrafficTrendLastHour),
		},
	}
}

// FormatNumber renders a JSON number the shortest way, integers carry no decimals
func FormatNumber(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// FormatFixed2 renders a number with exactly two decimals
func FormatFixed2(value float64) string {
	return strconv.FormatFloat(value, 'f', 2, 64)
}

func topSourceIPRows(entries []common.SourceIPCount) [][]string {
	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, []string{entry.SourceIP, strconv.FormatInt(entry.Count, 10)})
	}

	return rows
}

func labelItems(prefix string, entries []common.LabelCount) []string {
	items := make([]string, 0, len(entries))
	for _, entry := range entries {
		items = append(items, fmt.Sprintf("%s%s: %d", prefix, entry.Label, entry.Count))
	}

	return items
}

func trendItems(points []common.TrendPoint) []string {
	items := make([]string, 0, len(points))
	for _, point := range points {
		items = append(items, fmt.Sprintf("Minute %d: %d reqs", point.Minute, point.Count))
	}

	return items
}
