package risk

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"token-trader/internal/domain"
)

// OracleClient calls a honeypot/tax oracle over HTTP.
type OracleClient struct {
	http *resty.Client
}

// OracleOption customizes an OracleClient.
type OracleOption func(*OracleClient)

// WithOracleTimeout overrides the per-request timeout.
func WithOracleTimeout(d time.Duration) OracleOption {
	return func(c *OracleClient) { c.http.SetTimeout(d) }
}

// NewOracleClient builds a client against the oracle base URL.
func NewOracleClient(baseURL string, opts ...OracleOption) *OracleClient {
	c := &OracleClient{
		http: resty.New().
			SetBaseURL(strings.TrimRight(baseURL, "/")).
			SetTimeout(8 * time.Second).
			SetHeader("Accept", "application/json"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type oracleResponse struct {
	HoneypotResult struct {
		IsHoneypot bool `json:"isHoneypot"`
	} `json:"honeypotResult"`
	SimulationSuccess bool `json:"simulationSuccess"`
	SimulationResult  struct {
		BuyTax  float64 `json:"buyTax"`
		SellTax float64 `json:"sellTax"`
	} `json:"simulationResult"`
	Summary struct {
		Risk string `json:"risk"`
	} `json:"summary"`
	Flags []string `json:"flags"`
}

// Check fetches a safety report. Any transport or server failure comes
// back as an error so the caller can distinguish "unsafe" from "unknown".
func (c *OracleClient) Check(ctx context.Context, tokenAddress string) (*domain.RiskReport, error) {
	var body oracleResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("address", tokenAddress).
		SetResult(&body).
		Get("/v2/IsHoneypot")
	if err != nil {
		return nil, fmt.Errorf("risk check %s: %w", tokenAddress, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("risk check %s: status %d", tokenAddress, resp.StatusCode())
	}

	return &domain.RiskReport{
		IsHoneypot: body.HoneypotResult.IsHoneypot,
		CanSell:    body.SimulationSuccess && !body.HoneypotResult.IsHoneypot,
		BuyTaxPct:  body.SimulationResult.BuyTax,
		SellTaxPct: body.SimulationResult.SellTax,
		RiskLevel:  normalizeLevel(body.Summary.Risk),
		Flags:      body.Flags,
	}, nil
}

func normalizeLevel(s string) string {
	switch strings.ToLower(s) {
	case "low", "very_low":
		return domain.RiskLevelLow
	case "medium":
		return domain.RiskLevelMedium
	case "high":
		return domain.RiskLevelHigh
	case "critical", "honeypot":
		return domain.RiskLevelCritical
	default:
		return domain.RiskLevelMedium
	}
}

var _ Checker = (*OracleClient)(nil)
