package selection

import (
	"sort"

	"github.com/wonny/sepa/backend/internal/contracts"
	"github.com/wonny/sepa/backend/pkg/logger"
)

// Candidate is one scored symbol waiting to be ranked
type Candidate struct {
	Symbol contracts.Symbol
	Name   string

	// Input shape only; the ranker never rescores
	HasSeries     bool
	HasStatements bool

	Bundle contracts.ScoreBundle
}

// Usable reports whether the candidate's inputs allow ranking
func (c Candidate) Usable() bool {
	return c.HasSeries && c.HasStatements
}

// Ranker orders scored candidates into a leaderboard
// ⭐ SSOT: 랭킹 로직은 여기서만
type Ranker struct {
	logger *logger.Logger
}

// NewRanker creates a new ranker
func NewRanker(logger *logger.Logger) *Ranker {
	return &Ranker{logger: logger}
}

// Rank sorts candidates by composite score, highest first.
// Ties keep input order. Candidates with an empty price series or an empty
// statement table are excluded, not ranked as 0.
func (r *Ranker) Rank(candidates []Candidate) []contracts.RankedStock {
	ranked := make([]contracts.RankedStock, 0, len(candidates))
	excluded := 0

	for _, c := range candidates {
		if !c.Usable() {
			r.logger.WithFields(map[string]interface{}{
				"code":           c.Symbol.Code,
				"has_series":     c.HasSeries,
				"has_statements": c.HasStatements,
			}).Warn("Excluded from ranking: unusable inputs")
			excluded++
			continue
		}

		name := c.Name
		if name == "" {
			name = c.Symbol.Name
		}
		ranked = append(ranked, contracts.RankedStock{
			Code:   c.Symbol.Code,
			Name:   name,
			Bundle: c.Bundle,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Bundle.Total > ranked[j].Bundle.Total
	})

	for i := range ranked {
		ranked[i].Rank = i + 1
	}

	fields := map[string]interface{}{
		"total_stocks": len(ranked),
		"excluded":     excluded,
	}
	if len(ranked) > 0 {
		fields["top_code"] = ranked[0].Code
		fields["top_score"] = ranked[0].Bundle.Total
	}
	r.logger.WithFields(fields).Info("Ranking completed")

	return ranked
}
