// Package selector ranks entry candidates by momentum and picks the
// best one, honoring cooldowns and token age limits. Momentum is always
// scored from a live market snapshot, never from discovery-time figures.
package selector

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"token-trader/internal/config"
	"token-trader/internal/domain"
	"token-trader/internal/market"
)

// ErrNoCandidate is returned when no candidate survives filtering or
// none yields live market data.
var ErrNoCandidate = errors.New("selector: no eligible candidate")

// Selector scores and ranks candidates.
type Selector struct {
	cfg      config.SelectorConfig
	feed     market.Feed
	cooldown *Cooldown
	log      *logrus.Logger
}

// New builds a Selector sharing the given cooldown registry.
func New(cfg config.SelectorConfig, feed market.Feed, cooldown *Cooldown, log *logrus.Logger) *Selector {
	return &Selector{cfg: cfg, feed: feed, cooldown: cooldown, log: log}
}

// Select fetches a live snapshot for each eligible candidate, scores it,
// and returns the best one with its MomentumScore filled in. Only the
// TopK candidates by FundamentalsScore are considered. Tokens in
// cooldown or older than the age limit are skipped, as are candidates
// whose snapshot fetch fails. Ties break on FundamentalsScore, then on
// the most recent CreatedAt.
func (s *Selector) Select(ctx context.Context, candidates []domain.Candidate, now time.Time) (*domain.Candidate, error) {
	candidates = s.topByFundamentals(candidates)
	maxAge := time.Duration(s.cfg.TokenMaxAgeHours) * time.Hour

	var best *domain.Candidate
	for i := range candidates {
		c := &candidates[i]
		if s.cooldown.Active(c.TokenAddress, now) {
			s.log.WithField("token", c.TokenAddress).Debug("candidate in cooldown, skipped")
			continue
		}
		if maxAge > 0 && now.Sub(c.CreatedAt) > maxAge {
			s.log.WithFields(logrus.Fields{
				"token": c.TokenAddress,
				"age":   now.Sub(c.CreatedAt),
			}).Debug("candidate too old, skipped")
			continue
		}

		snap, err := s.feed.Snapshot(ctx, c.TokenAddress)
		if err != nil {
			s.log.WithField("token", c.TokenAddress).WithError(err).
				Debug("no live market data, candidate skipped")
			continue
		}

		c.MomentumScore = MomentumScore(s.cfg.Momentum, snap)
		if best == nil || beats(c, best) {
			best = c
		}
	}

	if best == nil {
		return nil, ErrNoCandidate
	}
	s.log.WithFields(logrus.Fields{
		"token":    best.TokenAddress,
		"symbol":   best.Symbol,
		"momentum": best.MomentumScore,
	}).Info("candidate selected")
	return best, nil
}

// topByFundamentals truncates the batch to the TopK candidates with the
// highest FundamentalsScore. A TopK of zero disables the cut.
func (s *Selector) topByFundamentals(candidates []domain.Candidate) []domain.Candidate {
	if s.cfg.TopK <= 0 || len(candidates) <= s.cfg.TopK {
		return candidates
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].FundamentalsScore > candidates[j].FundamentalsScore
	})
	return candidates[:s.cfg.TopK]
}

// beats reports whether a ranks strictly ahead of b.
func beats(a, b *domain.Candidate) bool {
	if a.MomentumScore != b.MomentumScore {
		return a.MomentumScore > b.MomentumScore
	}
	if a.FundamentalsScore != b.FundamentalsScore {
		return a.FundamentalsScore > b.FundamentalsScore
	}
	return a.CreatedAt.After(b.CreatedAt)
}
