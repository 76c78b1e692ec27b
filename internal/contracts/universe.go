package contracts

// Symbol is one stock in the screening universe
type Symbol struct {
	Code     string `json:"code"`
	CorpCode string `json:"corp_code,omitempty"` // DART 고유번호 (없으면 조회)
	Name     string `json:"name,omitempty"`
}

// Universe is the list of stocks to screen
// ⭐ SSOT: 전략 설정 → 오케스트레이터 종목 목록 전달
type Universe struct {
	Symbols []Symbol `json:"symbols"`
}

// Contains checks if a stock code is in the universe
func (u Universe) Contains(code string) bool {
	_, ok := u.Lookup(code)
	return ok
}

// Lookup returns the symbol with the given code
func (u Universe) Lookup(code string) (Symbol, bool) {
	for _, s := range u.Symbols {
		if s.Code == code {
			return s, true
		}
	}
	return Symbol{}, false
}

// Codes returns the stock codes in universe order
func (u Universe) Codes() []string {
	codes := make([]string, len(u.Symbols))
	for i, s := range u.Symbols {
		codes[i] = s.Code
	}
	return codes
}

// Count returns the number of stocks
func (u Universe) Count() int {
	return len(u.Symbols)
}
