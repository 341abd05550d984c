package telemetry

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/time/rate"

	"github.com/wonny/leoscope/backend/internal/contracts"
	"github.com/wonny/leoscope/backend/pkg/httputil"
	"github.com/wonny/leoscope/backend/pkg/logger"
)

// LiveSource polls the ground station REST endpoint for candidate
// measurements
type LiveSource struct {
	client  *httputil.Client
	url     string
	logger  *logger.Logger
	limiter *rate.Limiter
}

// NewLiveSource creates a live source against the given endpoint.
// Fetches are rate limited to protect the ground station from the
// scheduler, the API and training runners all polling at once.
func NewLiveSource(client *httputil.Client, url string, log *logger.Logger) *LiveSource {
	return &LiveSource{
		client:  client,
		url:     url,
		logger:  log,
		limiter: rate.NewLimiter(rate.Limit(10), 20), // 10 req/s, burst 20
	}
}

// Name identifies this source in logs and cache keys
func (s *LiveSource) Name() string {
	return "live"
}

// measurementResponse is the ground station payload envelope
type measurementResponse struct {
	Measurements []contracts.CandidateMeasurement `json:"measurements"`
}

// Fetch retrieves the current candidate batch from the ground station
func (s *LiveSource) Fetch(ctx context.Context) ([]contracts.CandidateMeasurement, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	resp, err := s.client.Get(ctx, s.url)
	if err != nil {
		return nil, fmt.Errorf("ground station request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ground station returned status %d", resp.StatusCode)
	}

	var payload measurementResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode measurements: %w", err)
	}

	s.logger.WithField("candidates", len(payload.Measurements)).Debug("Live measurement batch fetched")

	return payload.Measurements, nil
}
