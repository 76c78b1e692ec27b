package fundamental

import (
	"fmt"

	"github.com/wonny/sepa/backend/internal/contracts"
	"github.com/wonny/sepa/backend/pkg/logger"
)

// Extractor reads account values from one statement table.
// Only consolidated rows are read; the first matching row wins.
// ⭐ SSOT: 재무제표 → 재무 지표 변환은 여기서만
type Extractor struct {
	table  contracts.StatementTable
	logger *logger.Logger
}

// NewExtractor creates an extractor over table
func NewExtractor(table contracts.StatementTable, log *logger.Logger) *Extractor {
	return &Extractor{table: table, logger: log}
}

// amount is one parsed account line
type amount struct {
	current  float64
	prior    float64
	curOK    bool
	priorOK  bool
	priorRaw string
	found    bool
	warnings []contracts.Warning
}

func (e *Extractor) lookup(account contracts.Account) amount {
	if e.table.IsEmpty() {
		return amount{warnings: []contracts.Warning{{
			Code:    contracts.WarnMissingData,
			Message: "statement table is empty",
		}}}
	}

	for _, row := range e.table.Rows {
		if row.Scope != contracts.ScopeConsolidated || !account.Matches(row.AccountName) {
			continue
		}

		a := amount{found: true, priorRaw: row.PriorAmount}
		a.current, a.curOK = ParseAmount(row.CurrentAmount)
		a.prior, a.priorOK = ParseAmount(row.PriorAmount)
		if !a.curOK {
			a.current = 0
			a.warnings = append(a.warnings, e.malformed(account, row.CurrentAmount))
		}
		return a
	}

	e.logger.WithFields(map[string]interface{}{
		"code":    e.table.Code,
		"account": account.DARTLabel(),
	}).Warn("account not found")

	return amount{warnings: []contracts.Warning{{
		Code:    contracts.WarnMissingData,
		Message: fmt.Sprintf("consolidated account %q not found", account.DARTLabel()),
	}}}
}

func (e *Extractor) malformed(account contracts.Account, text string) contracts.Warning {
	e.logger.WithFields(map[string]interface{}{
		"code":    e.table.Code,
		"account": account.DARTLabel(),
		"amount":  text,
	}).Warn("malformed amount")

	return contracts.Warning{
		Code:    contracts.WarnMalformedAmount,
		Message: fmt.Sprintf("amount %q of %q is not a number", text, account.DARTLabel()),
	}
}

// AccountValue returns the current-period amount of account, or 0 with a warning
func (e *Extractor) AccountValue(account contracts.Account) (float64, []contracts.Warning) {
	a := e.lookup(account)
	return a.current, a.warnings
}

// growth computes the year-over-year growth of one account.
// Both periods must parse, otherwise growth is 0.
func (e *Extractor) growth(account contracts.Account) (float64, []contracts.Warning) {
	a := e.lookup(account)
	if !a.found || !a.curOK {
		return 0, a.warnings
	}
	if !a.priorOK {
		return 0, append(a.warnings, e.malformed(account, a.priorRaw))
	}
	return GrowthRate(a.current, a.prior), a.warnings
}

// Metrics computes the four fundamental metrics.
// Missing or malformed inputs degrade to 0 and are reported as warnings.
func (e *Extractor) Metrics() (contracts.FundamentalMetrics, []contracts.Warning) {
	var m contracts.FundamentalMetrics
	var warnings []contracts.Warning

	if e.table.IsEmpty() {
		e.logger.WithField("code", e.table.Code).Warn("statement table is empty")
		return m, []contracts.Warning{{Code: contracts.WarnMissingData, Message: "statement table is empty"}}
	}

	var w []contracts.Warning
	m.SalesGrowthPct, w = e.growth(contracts.AccountRevenue)
	warnings = append(warnings, w...)

	m.OperatingIncomeGrowthPct, w = e.growth(contracts.AccountOperatingIncome)
	warnings = append(warnings, w...)

	netIncome, w := e.AccountValue(contracts.AccountNetIncome)
	warnings = append(warnings, w...)

	equity, w := e.AccountValue(contracts.AccountTotalEquity)
	warnings = append(warnings, w...)

	liabilities, w := e.AccountValue(contracts.AccountTotalLiabilities)
	warnings = append(warnings, w...)

	if equity == 0 {
		e.logger.WithField("code", e.table.Code).Warn("total equity is zero, ROE and debt ratio set to 0")
		warnings = append(warnings, contracts.Warning{
			Code:    contracts.WarnComputationGuard,
			Message: "total equity is zero; ROE and debt ratio set to 0",
		})
	} else {
		m.ROEPct = netIncome / equity * 100
		m.DebtRatioPct = liabilities / equity * 100
	}

	e.logger.WithFields(map[string]interface{}{
		"code":                    e.table.Code,
		"sales_growth":            m.SalesGrowthPct,
		"operating_income_growth": m.OperatingIncomeGrowthPct,
		"roe":                     m.ROEPct,
		"debt_ratio":              m.DebtRatioPct,
	}).Debug("fundamental metrics")

	return m, warnings
}

// Validate lists the required accounts missing from the consolidated rows
func Validate(table contracts.StatementTable) []contracts.Warning {
	if table.IsEmpty() {
		return []contracts.Warning{{Code: contracts.WarnMissingData, Message: "statement table is empty"}}
	}

	var missing []contracts.Warning
	for _, account := range contracts.RequiredAccounts() {
		found := false
		for _, row := range table.Rows {
			if row.Scope == contracts.ScopeConsolidated && account.Matches(row.AccountName) {
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, contracts.Warning{
				Code:    contracts.WarnMissingData,
				Message: fmt.Sprintf("required account %q missing", account.DARTLabel()),
			})
		}
	}
	return missing
}
