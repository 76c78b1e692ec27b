package contracts

import "strings"

// Scope is the consolidation scope of a statement row
type Scope string

const (
	ScopeConsolidated Scope = "consolidated" // 연결재무제표 (CFS)
	ScopeSeparate     Scope = "separate"     // 별도재무제표 (OFS)
)

// ParseScope maps DART fs_div codes and English names to a Scope.
// Anything unrecognised is treated as separate so it is never read.
func ParseScope(s string) Scope {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cfs", "consolidated", "연결재무제표":
		return ScopeConsolidated
	default:
		return ScopeSeparate
	}
}

// DARTCode returns the fs_div code used by DART
func (s Scope) DARTCode() string {
	if s == ScopeConsolidated {
		return "CFS"
	}
	return "OFS"
}

// StatementRow is one account line of an annual report.
// Amounts keep the thousands-separated text of the source feed.
type StatementRow struct {
	AccountName   string `json:"account_name"`
	Scope         Scope  `json:"scope"`
	CurrentAmount string `json:"current_amount"` // thstrm_amount
	PriorAmount   string `json:"prior_amount"`   // frmtrm_amount
}

// StatementTable is the annual statement of one stock for one fiscal year
// ⭐ SSOT: S0 → S2 재무제표 전달
type StatementTable struct {
	Code string         `json:"code"`
	Year int            `json:"year"`
	Rows []StatementRow `json:"rows"`
}

// IsEmpty reports whether the table has no rows
func (t StatementTable) IsEmpty() bool {
	return len(t.Rows) == 0
}

// Account identifies one of the statement accounts the scoring reads
type Account string

const (
	AccountRevenue          Account = "revenue"
	AccountOperatingIncome  Account = "operating income"
	AccountNetIncome        Account = "net income"
	AccountTotalEquity      Account = "total equity"
	AccountTotalLiabilities Account = "total liabilities"
)

// DARTLabel returns the account_nm used in DART filings
func (a Account) DARTLabel() string {
	switch a {
	case AccountRevenue:
		return "매출액"
	case AccountOperatingIncome:
		return "영업이익"
	case AccountNetIncome:
		return "당기순이익"
	case AccountTotalEquity:
		return "자본총계"
	case AccountTotalLiabilities:
		return "부채총계"
	default:
		return ""
	}
}

// Matches reports whether an account name refers to this account
func (a Account) Matches(name string) bool {
	name = strings.TrimSpace(name)
	return name != "" && (name == string(a) || name == a.DARTLabel())
}

// RequiredAccounts lists the accounts a usable statement table must carry
func RequiredAccounts() []Account {
	return []Account{
		AccountRevenue,
		AccountOperatingIncome,
		AccountNetIncome,
		AccountTotalEquity,
		AccountTotalLiabilities,
	}
}
