package brain

import "github.com/wonny/sepa/backend/internal/fundamental"

// PeerRank is the percentile (0-100) of each fundamental metric among the
// stocks of the same run that have statements
type PeerRank struct {
	Peers                 int     `json:"peers"`
	SalesGrowth           float64 `json:"sales_growth"`
	OperatingIncomeGrowth float64 `json:"operating_income_growth"`
	ROE                   float64 `json:"roe"`
	DebtRatio             float64 `json:"debt_ratio"` // 높을수록 부채 많음
}

// PeerRank compares code against its peers. ok is false when code has no statements.
func (r *RunResult) PeerRank(code string) (PeerRank, bool) {
	self, ok := r.Details[code]
	if !ok || !self.HasStatements {
		return PeerRank{}, false
	}

	var sales, opIncome, roe, debt []float64
	for _, d := range r.Details {
		if !d.HasStatements {
			continue
		}
		m := d.Evaluation.Metrics
		sales = append(sales, m.SalesGrowthPct)
		opIncome = append(opIncome, m.OperatingIncomeGrowthPct)
		roe = append(roe, m.ROEPct)
		debt = append(debt, m.DebtRatioPct)
	}

	m := self.Evaluation.Metrics
	return PeerRank{
		Peers:                 len(sales),
		SalesGrowth:           fundamental.PercentileRank(sales, m.SalesGrowthPct),
		OperatingIncomeGrowth: fundamental.PercentileRank(opIncome, m.OperatingIncomeGrowthPct),
		ROE:                   fundamental.PercentileRank(roe, m.ROEPct),
		DebtRatio:             fundamental.PercentileRank(debt, m.DebtRatioPct),
	}, true
}
