package s2_signals

import "github.com/wonny/sepa/backend/internal/contracts"

// Recommend maps a composite score and filter outcome to a label.
// Buy labels require every filter; hold ignores them.
func Recommend(total float64, filters contracts.FilterResult, cut RecommendationCutoffs) contracts.Recommendation {
	all := filters.AllPassed()
	switch {
	case total >= cut.StrongBuy && all:
		return contracts.RecommendStrongBuy
	case total >= cut.Buy && all:
		return contracts.RecommendBuy
	case total >= cut.Hold:
		return contracts.RecommendHold
	default:
		return contracts.RecommendSell
	}
}
