package dart

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/wonny/sepa/backend/internal/contracts"
)

// ReportAnnual is reprt_code of the business (annual) report
const ReportAnnual = "11011"

// StatementResponse represents the fnlttSinglAcnt.json response
type StatementResponse struct {
	status
	List []StatementItem `json:"list"`
}

func (r *StatementResponse) envelope() status { return r.status }

// StatementItem is one account row of a single-company statement
type StatementItem struct {
	RceptNo      string `json:"rcept_no"`  // 접수번호
	BsnsYear     string `json:"bsns_year"` // 사업연도
	StockCode    string `json:"stock_code"`
	ReprtCode    string `json:"reprt_code"`
	AccountNm    string `json:"account_nm"` // 계정명
	FsDiv        string `json:"fs_div"`     // CFS: 연결, OFS: 별도
	FsNm         string `json:"fs_nm"`
	SjDiv        string `json:"sj_div"` // BS: 재무상태표, IS: 손익계산서
	ThstrmNm     string `json:"thstrm_nm"`
	ThstrmAmount string `json:"thstrm_amount"` // 당기
	FrmtrmNm     string `json:"frmtrm_nm"`
	FrmtrmAmount string `json:"frmtrm_amount"` // 전기
}

// FetchStatements fetches the annual key-account statement of a symbol
// ⭐ SSOT: DART 재무제표 호출은 이 함수에서만
func (c *Client) FetchStatements(ctx context.Context, symbol contracts.Symbol, year int) (contracts.StatementTable, error) {
	table := contracts.StatementTable{Code: symbol.Code, Year: year}

	corpCode := symbol.CorpCode
	if corpCode == "" {
		var err error
		corpCode, err = c.ResolveCorpCode(ctx, symbol.Code)
		if err != nil {
			return table, err
		}
	}

	params := url.Values{}
	params.Set("corp_code", corpCode)
	params.Set("bsns_year", strconv.Itoa(year))
	params.Set("reprt_code", ReportAnnual)

	var resp StatementResponse
	if err := c.getJSON(ctx, "fnlttSinglAcnt.json", params, &resp); err != nil {
		return table, fmt.Errorf("statements %s/%d: %w", symbol.Code, year, err)
	}

	table.Rows = toRows(resp.List)

	c.logger.WithFields(map[string]interface{}{
		"stock_code": symbol.Code,
		"corp_code":  corpCode,
		"year":       year,
		"rows":       len(table.Rows),
	}).Debug("Fetched statements")

	return table, nil
}

func toRows(items []StatementItem) []contracts.StatementRow {
	rows := make([]contracts.StatementRow, 0, len(items))
	for _, it := range items {
		rows = append(rows, contracts.StatementRow{
			AccountName:   it.AccountNm,
			Scope:         contracts.ParseScope(it.FsDiv),
			CurrentAmount: it.ThstrmAmount,
			PriorAmount:   it.FrmtrmAmount,
		})
	}
	return rows
}
