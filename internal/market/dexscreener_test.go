package market

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestDexClientSnapshotPicksDeepestPair(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/latest/dex/tokens/So11111111111111111111111111111111111111112", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"pairs":[
			{"priceUsd":"0.5","liquidity":{"usd":10000},"volume":{"h24":1000},
			 "priceChange":{"h1":1,"h24":2},"txns":{"h24":{"buys":5,"sells":5}}},
			{"priceUsd":"0.000123","liquidity":{"usd":95000},"volume":{"h24":120000},
			 "priceChange":{"h1":6.5,"h24":42},"txns":{"h24":{"buys":800,"sells":300}}}
		]}`)
	}))
	defer srv.Close()

	c := NewDexClient(srv.URL, testLogger())
	snap, err := c.Snapshot(context.Background(), "So11111111111111111111111111111111111111112")
	require.NoError(t, err)

	assert.Equal(t, 0.000123, snap.PriceUSD)
	assert.Equal(t, 95000.0, snap.LiquidityUSD)
	assert.Equal(t, 120000.0, snap.Volume24h)
	assert.Equal(t, 6.5, snap.PriceChange1h)
	assert.Equal(t, 42.0, snap.PriceChange24h)
	assert.Equal(t, int64(800), snap.Buys24h)
	assert.Equal(t, int64(300), snap.Sells24h)
}

func TestDexClientSnapshotNoPairs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"pairs":[]}`)
	}))
	defer srv.Close()

	c := NewDexClient(srv.URL, testLogger())
	_, err := c.Snapshot(context.Background(), "token")
	require.ErrorIs(t, err, ErrNoMarketData)
}

func TestDexClientSnapshotServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewDexClient(srv.URL, testLogger(), WithDexRetries(0, 0))
	_, err := c.Snapshot(context.Background(), "token")
	require.Error(t, err)
}

func TestDexClientRetriesOn5xx(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"pairs":[{"priceUsd":"1.5","liquidity":{"usd":50000},
			"volume":{"h24":60000},"priceChange":{"h1":0,"h24":0},
			"txns":{"h24":{"buys":1,"sells":1}}}]}`)
	}))
	defer srv.Close()

	c := NewDexClient(srv.URL, testLogger(), WithDexRetries(3, time.Millisecond))
	snap, err := c.Snapshot(context.Background(), "token")
	require.NoError(t, err)
	assert.Equal(t, 1.5, snap.PriceUSD)
	assert.Equal(t, 3, calls)
}

func TestCandidateClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/candidates", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `[
			{"token_address":"tokA","symbol":"AAA","fundamentals_score":80,
			 "liquidity":40000,"volume_24h":90000,"created_at":"2026-08-30T10:00:00Z"},
			{"token_address":"tokB","symbol":"BBB","fundamentals_score":65,
			 "liquidity":35000,"volume_24h":51000,"created_at":"2026-08-30T11:30:00Z"}
		]`)
	}))
	defer srv.Close()

	c := NewCandidateClient(srv.URL, 2*time.Second)
	got, err := c.Candidates(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "tokA", got[0].TokenAddress)
	assert.Equal(t, 65.0, got[1].FundamentalsScore)
	assert.Equal(t, time.Date(2026, 8, 30, 11, 30, 0, 0, time.UTC), got[1].CreatedAt)
}
