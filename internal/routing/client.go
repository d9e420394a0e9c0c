package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// HTTPEstimator queries an external routing service for detour estimates.
type HTTPEstimator struct {
	Endpoint string
	Client   *http.Client
}

// NewHTTPEstimator creates an estimator against the given routing endpoint.
// The client timeout is a last line of defense; callers are expected to pass
// a context with their own deadline.
func NewHTTPEstimator(endpoint string) *HTTPEstimator {
	return &HTTPEstimator{
		Endpoint: endpoint,
		Client:   &http.Client{Timeout: 5 * time.Second},
	}
}

// EstimateDetour queries the routing service:
// GET {endpoint}/v1/detour?from={pickup}&stop={stopAddress}
// and expects {"code":"Ok","detour_minutes":N}.
func (e *HTTPEstimator) EstimateDetour(ctx context.Context, pickup, stopAddress string) (Estimate, error) {
	reqURL := fmt.Sprintf("%s/v1/detour?from=%s&stop=%s",
		e.Endpoint, url.QueryEscape(pickup), url.QueryEscape(stopAddress))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return Estimate{}, err
	}

	resp, err := e.Client.Do(req)
	if err != nil {
		return Estimate{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Estimate{}, fmt.Errorf("routing service status %d", resp.StatusCode)
	}

	var out struct {
		Code          string `json:"code"`
		DetourMinutes int    `json:"detour_minutes"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Estimate{}, err
	}
	if out.Code != "Ok" {
		return Estimate{}, fmt.Errorf("routing service: no route (%s)", out.Code)
	}
	if out.DetourMinutes < 0 {
		return Estimate{}, fmt.Errorf("routing service: negative detour %d", out.DetourMinutes)
	}

	return Estimate{DetourMinutes: out.DetourMinutes}, nil
}

var _ Estimator = (*HTTPEstimator)(nil)
