package fundamental

import (
	"fmt"

	"github.com/wonny/sepa/backend/internal/contracts"
)

// Thresholds are the SEPA fundamental cut-offs (%)
type Thresholds struct {
	SalesGrowth           float64 `json:"sales_growth"`            // ≥
	OperatingIncomeGrowth float64 `json:"operating_income_growth"` // ≥
	ROE                   float64 `json:"roe"`                     // ≥
	DebtRatio             float64 `json:"debt_ratio"`              // ≤
}

// DefaultThresholds returns the standard SEPA cut-offs
func DefaultThresholds() Thresholds {
	return Thresholds{
		SalesGrowth:           5.0,
		OperatingIncomeGrowth: 10.0,
		ROE:                   8.0,
		DebtRatio:             150.0,
	}
}

// CheckCriteria evaluates each threshold independently
func CheckCriteria(m contracts.FundamentalMetrics, t Thresholds) contracts.FundamentalCriteria {
	return contracts.FundamentalCriteria{
		SalesGrowth:           m.SalesGrowthPct >= t.SalesGrowth,
		OperatingIncomeGrowth: m.OperatingIncomeGrowthPct >= t.OperatingIncomeGrowth,
		ROE:                   m.ROEPct >= t.ROE,
		DebtRatio:             m.DebtRatioPct <= t.DebtRatio,
	}
}

// CriterionStatus is one row of the SEPA fundamental status view
type CriterionStatus struct {
	Key       string  `json:"key"`
	Name      string  `json:"name"`
	Value     float64 `json:"value"`
	Threshold float64 `json:"threshold"`
	Rule      string  `json:"rule"` // "≥ 5%", "≤ 150%"
	Passed    bool    `json:"passed"`
	Margin    float64 `json:"margin"` // 기준 대비 여유 (%p, 음수면 미달)
}

// Status builds the per-criterion view. Without statement data every
// criterion is reported as failed.
func Status(m contracts.FundamentalMetrics, t Thresholds, hasData bool) []CriterionStatus {
	c := CheckCriteria(m, t)
	if !hasData {
		c = contracts.FundamentalCriteria{}
	}

	atLeast := func(key, name string, v, th float64, ok bool) CriterionStatus {
		return CriterionStatus{Key: key, Name: name, Value: v, Threshold: th,
			Rule: fmt.Sprintf("≥ %g%%", th), Passed: ok, Margin: v - th}
	}

	return []CriterionStatus{
		atLeast("sales_growth", "매출액 성장률", m.SalesGrowthPct, t.SalesGrowth, c.SalesGrowth),
		atLeast("operating_income_growth", "영업이익 성장률", m.OperatingIncomeGrowthPct, t.OperatingIncomeGrowth, c.OperatingIncomeGrowth),
		atLeast("roe", "자기자본이익률(ROE)", m.ROEPct, t.ROE, c.ROE),
		{Key: "debt_ratio", Name: "부채비율", Value: m.DebtRatioPct, Threshold: t.DebtRatio,
			Rule: fmt.Sprintf("≤ %g%%", t.DebtRatio), Passed: c.DebtRatio, Margin: t.DebtRatio - m.DebtRatioPct},
	}
}
