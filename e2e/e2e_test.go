package e2e_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/iulianpascalau/traffic-dashboard/services/dashboard/common"
	"github.com/iulianpascalau/traffic-dashboard/services/dashboard/config"
	"github.com/iulianpascalau/traffic-dashboard/services/dashboard/factory"
	logger "github.com/multiversx/mx-chain-logger-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var log = logger.GetOrCreate("e2e-test")

const (
	responseScenario = iota
	responseGarbage
	responseUnavailable
	responseShorterTable
)

const scenarioBody = `{"requests_per_minute": 42, "avg_response_time": 17.5, "top_source_ips": [{"source_ip":"10.0.0.1","count":5},{"source_ip":"10.0.0.2","count":4}], "request_method_distribution": {"GET": 9, "POST": 1}, "response_code_statistics": {"200": 8, "500": 2}, "traffic_trend_last_hour": [{"minute":0,"count":3},{"minute":1,"count":7}]}`

const shorterTableBody = `{"requests_per_minute": 12, "avg_response_time": 1, "top_source_ips": [{"source_ip":"192.168.1.9","count":12}], "request_method_distribution": {"PUT": 12}, "response_code_statistics": {"201": 12}, "traffic_trend_last_hour": [{"minute":0,"count":12}]}`

type regionsResponse struct {
	Regions map[common.RegionID]common.RegionContent `json:"regions"`
}

func fetchRegions(t *testing.T, baseURL string) map[common.RegionID]common.RegionContent {
	resp, err := http.Get(baseURL + "/api/regions")
	require.NoError(t, err)
	defer func() {
		_ = resp.Body.Close()
	}()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var data regionsResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&data))

	return data.Regions
}

func TestE2EFlow(t *testing.T) {
	log.Info("======== 1. Start a mock metrics API that the dashboard will poll")
	mode := atomic.Int32{}
	numRequests := atomic.Int32{}
	mockAPI := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		numRequests.Add(1)
		switch mode.Load() {
		case responseGarbage:
			_, _ = w.Write([]byte("upstream connect error"))
		case responseUnavailable:
			w.WriteHeader(http.StatusServiceUnavailable)
		case responseShorterTable:
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(shorterTableBody))
		default:
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(scenarioBody))
		}
	}))
	defer mockAPI.Close()

	log.Info("======== 2. Start the dashboard with the web surface")
	handler, err := factory.NewComponentsHandler(config.Config{
		EndpointURL:                mockAPI.URL + "/analysis/metrics",
		PollIntervalInMilliseconds: 100,
		RequestTimeoutInSeconds:    1,
		Surface:                    config.SurfaceWeb,
		ListenAddress:              "127.0.0.1:0",
	})
	require.NoError(t, err)
	require.NoError(t, handler.Start())
	defer handler.Close()

	baseURL := "http://" + handler.GetServer().Address()
	doc := handler.GetDocument()

	log.Info("======== 3. Wait for the first render")
	require.Eventually(t, func() bool {
		return doc.NumApplied() >= 1
	}, 3*time.Second, 10*time.Millisecond)

	regions := fetchRegions(t, baseURL)
	assert.Equal(t, "42", regions[common.RegionRequestsPerMinute].Text)
	assert.Equal(t, "17.50", regions[common.RegionAvgResponseTime].Text)
	assert.Equal(t, [][]string{{"10.0.0.1", "5"}, {"10.0.0.2", "4"}}, regions[common.RegionTopSourceIPs].Rows)
	assert.Equal(t, []string{"GET: 9", "POST: 1"}, regions[common.RegionMethodDist].Items)
	assert.Equal(t, []string{"HTTP 200: 8", "HTTP 500: 2"}, regions[common.RegionResponseCodes].Items)
	assert.Equal(t, []string{"Minute 0: 3 reqs", "Minute 1: 7 reqs"}, regions[common.RegionTrend].Items)

	log.Info("======== 4. Connect a browser over websocket")
	conn, _, err := websocket.DefaultDialer.Dial("ws://"+handler.GetServer().Address()+"/ws", nil)
	require.NoError(t, err)
	defer func() {
		_ = conn.Close()
	}()
	_ = conn.SetReadDeadline(time.Now().Add(3 * time.Second))

	var initial struct {
		Type   string               `json:"type"`
		Writes []common.RegionWrite `json:"writes"`
	}
	require.NoError(t, conn.ReadJSON(&initial))
	assert.Equal(t, "writes", initial.Type)
	assert.Len(t, initial.Writes, len(common.DisplayRegions))

	log.Info("======== 5. Failing cycles leave the rendered values untouched")
	for _, failingMode := range []int32{responseGarbage, responseUnavailable} {
		requests := numRequests.Load()
		mode.Store(failingMode)

		// cycles are serialized: once a new request arrived, the cycle started before the switch is done
		require.Eventually(t, func() bool {
			return numRequests.Load() >= requests+1
		}, 3*time.Second, 10*time.Millisecond)
		applied := doc.NumApplied()
		requests = numRequests.Load()

		require.Eventually(t, func() bool {
			return numRequests.Load() >= requests+2
		}, 3*time.Second, 10*time.Millisecond)

		assert.Equal(t, applied, doc.NumApplied())
		assert.Equal(t, regions, fetchRegions(t, baseURL))
	}

	log.Info("======== 6. Recovery renders a shorter table without residual rows")
	mode.Store(responseShorterTable)
	require.Eventually(t, func() bool {
		return doc.Regions()[common.RegionRequestsPerMinute].Text == "12"
	}, 3*time.Second, 10*time.Millisecond)

	regions = fetchRegions(t, baseURL)
	assert.Equal(t, "1.00", regions[common.RegionAvgResponseTime].Text)
	assert.Equal(t, [][]string{{"192.168.1.9", "12"}}, regions[common.RegionTopSourceIPs].Rows)
	assert.Equal(t, []string{"PUT: 12"}, regions[common.RegionMethodDist].Items)
	assert.Equal(t, []string{"HTTP 201: 12"}, regions[common.RegionResponseCodes].Items)
	assert.Equal(t, []string{"Minute 0: 12 reqs"}, regions[common.RegionTrend].Items)

	log.Info("======== 7. Stop polling")
	handler.Close()
	requests := numRequests.Load()
	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, requests, numRequests.Load())
}
