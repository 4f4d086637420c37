package market

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"token-trader/internal/domain"
)

// CandidateClient pulls the current candidate batch from an upstream
// discovery service over HTTP. The service owns discovery; this client
// only deserializes its output.
type CandidateClient struct {
	http *resty.Client
}

// NewCandidateClient builds a client against the discovery endpoint.
func NewCandidateClient(baseURL string, timeout time.Duration) *CandidateClient {
	return &CandidateClient{
		http: resty.New().
			SetBaseURL(strings.TrimRight(baseURL, "/")).
			SetTimeout(timeout).
			SetHeader("Accept", "application/json"),
	}
}

// Candidates fetches the batch. An empty batch is not an error.
func (c *CandidateClient) Candidates(ctx context.Context) ([]domain.Candidate, error) {
	var out []domain.Candidate
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/candidates")
	if err != nil {
		return nil, fmt.Errorf("fetch candidates: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("fetch candidates: status %d", resp.StatusCode())
	}
	return out, nil
}

var _ CandidateSource = (*CandidateClient)(nil)
