package poller

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/iulianpascalau/traffic-dashboard/services/dashboard/common"
	logger "github.com/multiversx/mx-chain-logger-go"
)

const maxBodySizeInBytes = 8 * 1024 * 1024

var log = logger.GetOrCreate("poller")

type httpPoller struct {
	client *http.Client
}

// NewHTTPPoller creates a new HTTP-based poller with a default timeout
func NewHTTPPoller(timeout time.Duration) *httpPoller {
	return &httpPoller{
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Fetch performs one HTTP GET against the endpoint and decodes the body into a snapshot.
// The returned error is a *TransportError, an HTTPStatusError or a *DecodeError.
func (p *httpPoller) Fetch(ctx context.Context, endpoint string) (*common.MetricsSnapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &TransportError{URL: endpoint, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, &TransportError{URL: endpoint, Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, HTTPStatusError(resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySizeInBytes))
	if err != nil {
		return nil, &TransportError{URL: endpoint, Err: err}
	}

	log.Trace("fetched metrics body", "url", endpoint, "size", len(body))

	return DecodeSnapshot(body)
}

// IsInterfaceNil returns true if the value under the interface is nil
func (p *httpPoller) IsInterfaceNil() bool {
	return p == nil
}
