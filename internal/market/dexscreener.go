package market

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"

	"token-trader/internal/domain"
)

// DexClient reads token market data from a DexScreener-compatible API.
// When a token trades on multiple pairs, the pair with the deepest
// liquidity wins.
type DexClient struct {
	http *resty.Client
	log  *logrus.Logger
}

// DexOption customizes a DexClient.
type DexOption func(*DexClient)

// WithDexTimeout overrides the per-request timeout.
func WithDexTimeout(d time.Duration) DexOption {
	return func(c *DexClient) { c.http.SetTimeout(d) }
}

// WithDexRetries sets transport-level retry behavior for 5xx and 429.
func WithDexRetries(count int, wait time.Duration) DexOption {
	return func(c *DexClient) {
		c.http.SetRetryCount(count).SetRetryWaitTime(wait)
	}
}

// NewDexClient builds a client against the given base URL.
func NewDexClient(baseURL string, log *logrus.Logger, opts ...DexOption) *DexClient {
	c := &DexClient{
		http: resty.New().
			SetBaseURL(strings.TrimRight(baseURL, "/")).
			SetTimeout(8 * time.Second).
			SetHeader("Accept", "application/json").
			AddRetryCondition(func(r *resty.Response, err error) bool {
				return err != nil || r.StatusCode() >= 500 || r.StatusCode() == 429
			}),
		log: log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type dexPairsResponse struct {
	Pairs []dexPair `json:"pairs"`
}

type dexPair struct {
	PriceUSD  string `json:"priceUsd"`
	Liquidity struct {
		USD float64 `json:"usd"`
	} `json:"liquidity"`
	Volume struct {
		H24 float64 `json:"h24"`
	} `json:"volume"`
	PriceChange struct {
		H1  float64 `json:"h1"`
		H24 float64 `json:"h24"`
	} `json:"priceChange"`
	Txns struct {
		H24 struct {
			Buys  int64 `json:"buys"`
			Sells int64 `json:"sells"`
		} `json:"h24"`
	} `json:"txns"`
}

// Snapshot fetches the current market state of a token. ErrNoMarketData
// means the provider answered but knows no pairs for the address.
func (c *DexClient) Snapshot(ctx context.Context, tokenAddress string) (*domain.MarketSnapshot, error) {
	var body dexPairsResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&body).
		Get("/latest/dex/tokens/" + tokenAddress)
	if err != nil {
		return nil, fmt.Errorf("market snapshot %s: %w", tokenAddress, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("market snapshot %s: status %d", tokenAddress, resp.StatusCode())
	}
	if len(body.Pairs) == 0 {
		return nil, fmt.Errorf("market snapshot %s: %w", tokenAddress, ErrNoMarketData)
	}

	best := body.Pairs[0]
	for _, p := range body.Pairs[1:] {
		if p.Liquidity.USD > best.Liquidity.USD {
			best = p
		}
	}

	price, err := strconv.ParseFloat(best.PriceUSD, 64)
	if err != nil {
		return nil, fmt.Errorf("market snapshot %s: bad priceUsd %q: %w", tokenAddress, best.PriceUSD, err)
	}

	return &domain.MarketSnapshot{
		PriceUSD:       price,
		LiquidityUSD:   best.Liquidity.USD,
		Volume24h:      best.Volume.H24,
		PriceChange1h:  best.PriceChange.H1,
		PriceChange24h: best.PriceChange.H24,
		Buys24h:        best.Txns.H24.Buys,
		Sells24h:       best.Txns.H24.Sells,
	}, nil
}

var _ Feed = (*DexClient)(nil)
