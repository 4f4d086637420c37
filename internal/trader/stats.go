package trader

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Stats accumulates aggregate performance over the engine's lifetime.
// Counters only; the ledger holds the per-trade truth.
type Stats struct {
	Opened int
	Closed int
	Wins   int
	Losses int

	BestPct  float64
	WorstPct float64
	PnlQuote float64 // realized, quote units

	ExitCounts map[string]int
}

// NewStats returns an empty tracker.
func NewStats() *Stats {
	return &Stats{ExitCounts: make(map[string]int)}
}

// RecordOpen counts a new entry.
func (s *Stats) RecordOpen() { s.Opened++ }

// RecordClose folds one completed round trip into the aggregates.
func (s *Stats) RecordClose(reason string, profitPct, pnlQuote float64) {
	s.Closed++
	s.PnlQuote += pnlQuote
	s.ExitCounts[reason]++

	if profitPct > 0 {
		s.Wins++
	} else {
		s.Losses++
	}
	if s.Closed == 1 || profitPct > s.BestPct {
		s.BestPct = profitPct
	}
	if s.Closed == 1 || profitPct < s.WorstPct {
		s.WorstPct = profitPct
	}
}

// WinRate returns the share of closed trades with positive profit.
func (s *Stats) WinRate() float64 {
	if s.Closed == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.Closed) * 100
}

// Fields renders the tracker for a periodic log line.
func (s *Stats) Fields() logrus.Fields {
	return logrus.Fields{
		"opened":    s.Opened,
		"closed":    s.Closed,
		"win_rate":  fmt.Sprintf("%.1f%%", s.WinRate()),
		"best_pct":  fmt.Sprintf("%.2f", s.BestPct),
		"worst_pct": fmt.Sprintf("%.2f", s.WorstPct),
		"pnl_quote": fmt.Sprintf("%.4f", s.PnlQuote),
		"exits":     s.ExitCounts,
	}
}
