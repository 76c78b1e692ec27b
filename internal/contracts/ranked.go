package contracts

import "time"

// RankedStock is one leaderboard row
// ⭐ SSOT: S4 랭킹 결과 전달
type RankedStock struct {
	Code   string      `json:"code"`
	Name   string      `json:"name"`
	Rank   int         `json:"rank"` // 1-based ranking
	Bundle ScoreBundle `json:"scores"`
}

// IsTopRanked checks if the stock is in top N ranks
func (r *RankedStock) IsTopRanked(n int) bool {
	return r.Rank <= n && r.Rank > 0
}

// Leaderboard is the ranked result of one screening run
type Leaderboard struct {
	AsOf   time.Time     `json:"as_of"`
	Stocks []RankedStock `json:"stocks"`
}

// Count returns the number of ranked stocks
func (l *Leaderboard) Count() int {
	return len(l.Stocks)
}

// Find returns the ranked row of a stock code
func (l *Leaderboard) Find(code string) (RankedStock, bool) {
	for _, s := range l.Stocks {
		if s.Code == code {
			return s, true
		}
	}
	return RankedStock{}, false
}

// Top returns the first n rows (all rows when n <= 0)
func (l *Leaderboard) Top(n int) []RankedStock {
	if n <= 0 || n >= len(l.Stocks) {
		return l.Stocks
	}
	return l.Stocks[:n]
}
