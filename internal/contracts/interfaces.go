package contracts

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by providers when no data exists for the request
var ErrNotFound = errors.New("not found")

// Company is the display information of a listed company
type Company struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// PriceProvider supplies daily price history (S0)
// ⭐ SSOT: 가격 데이터 소스 인터페이스 (주입, 전역 상태 없음)
type PriceProvider interface {
	FetchPrices(ctx context.Context, code string, from, to time.Time) (PriceSeries, error)
}

// StatementProvider supplies annual financial statements (S0)
// ⭐ SSOT: 재무제표 데이터 소스 인터페이스
type StatementProvider interface {
	FetchStatements(ctx context.Context, symbol Symbol, year int) (StatementTable, error)
}

// CompanyProvider supplies company display information (S0)
type CompanyProvider interface {
	FetchCompany(ctx context.Context, code string) (Company, error)
}

// DataProvider bundles every input a screening run needs
type DataProvider interface {
	PriceProvider
	StatementProvider
	CompanyProvider
}
