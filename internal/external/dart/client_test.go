package dart

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/sepa/backend/internal/contracts"
	"github.com/wonny/sepa/backend/pkg/httputil"
	"github.com/wonny/sepa/backend/pkg/logger"
)

const statementJSON = `{
  "status": "000",
  "message": "정상",
  "list": [
    {"bsns_year": "2024", "stock_code": "000660", "reprt_code": "11011", "account_nm": "매출액", "fs_div": "CFS", "sj_div": "IS", "thstrm_amount": "66,193,000,000,000", "frmtrm_amount": "32,765,700,000,000"},
    {"bsns_year": "2024", "stock_code": "000660", "reprt_code": "11011", "account_nm": "매출액", "fs_div": "OFS", "sj_div": "IS", "thstrm_amount": "1", "frmtrm_amount": "1"},
    {"bsns_year": "2024", "stock_code": "000660", "reprt_code": "11011", "account_nm": "자본총계", "fs_div": "CFS", "sj_div": "BS", "thstrm_amount": "73,000,000,000,000", "frmtrm_amount": "54,000,000,000,000"}
  ]
}`

func corpCodeZip(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create("CORPCODE.xml")
	require.NoError(t, err)
	_, err = f.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?>
<result>
  <list><corp_code>00164779</corp_code><corp_name>SK하이닉스</corp_name><stock_code>000660</stock_code></list>
  <list><corp_code>00126380</corp_code><corp_name>삼성전자</corp_name><stock_code>005930</stock_code></list>
  <list><corp_code>00999999</corp_code><corp_name>비상장</corp_name><stock_code> </stock_code></list>
</result>`))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

type fakeDART struct {
	zip         []byte
	corpHits    atomic.Int32
	lastCorp    atomic.Value
	statementFn func(w http.ResponseWriter, r *http.Request)
}

func (f *fakeDART) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("crtfc_key") != "test-key" {
		if r.URL.Path == "/api/corpCode.xml" {
			fmt.Fprint(w, `<result><status>010</status><message>등록되지 않은 키입니다.</message></result>`)
			return
		}
		fmt.Fprint(w, `{"status":"010","message":"등록되지 않은 키입니다."}`)
		return
	}
	switch r.URL.Path {
	case "/api/corpCode.xml":
		f.corpHits.Add(1)
		w.Write(f.zip)
	case "/api/fnlttSinglAcnt.json":
		f.lastCorp.Store(r.URL.Query().Get("corp_code"))
		if f.statementFn != nil {
			f.statementFn(w, r)
			return
		}
		fmt.Fprint(w, statementJSON)
	case "/api/company.json":
		fmt.Fprint(w, `{"status":"000","message":"정상","corp_name":"에스케이하이닉스(주)","stock_name":"SK하이닉스","stock_code":"000660"}`)
	default:
		http.NotFound(w, r)
	}
}

func newTestClient(t *testing.T, key string) (*Client, *fakeDART) {
	t.Helper()
	fake := &fakeDART{zip: corpCodeZip(t)}
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	log := logger.NewNop()
	return NewClientWithHTTP(key, server.URL+"/api", httputil.New(log).DisableRetry(), log), fake
}

func TestFetchStatements(t *testing.T) {
	c, fake := newTestClient(t, "test-key")

	table, err := c.FetchStatements(context.Background(), contracts.Symbol{Code: "000660", CorpCode: "00164779"}, 2024)
	require.NoError(t, err)

	assert.Equal(t, "000660", table.Code)
	assert.Equal(t, 2024, table.Year)
	require.Len(t, table.Rows, 3)
	assert.Equal(t, contracts.StatementRow{
		AccountName:   "매출액",
		Scope:         contracts.ScopeConsolidated,
		CurrentAmount: "66,193,000,000,000",
		PriorAmount:   "32,765,700,000,000",
	}, table.Rows[0])
	assert.Equal(t, contracts.ScopeSeparate, table.Rows[1].Scope)
	assert.Equal(t, int32(0), fake.corpHits.Load(), "configured corp_code skips the lookup")
}

func TestFetchStatements_ResolvesCorpCode(t *testing.T) {
	c, fake := newTestClient(t, "test-key")

	for i := 0; i < 2; i++ {
		_, err := c.FetchStatements(context.Background(), contracts.Symbol{Code: "005930"}, 2024)
		require.NoError(t, err)
	}

	assert.Equal(t, "00126380", fake.lastCorp.Load())
	assert.Equal(t, int32(1), fake.corpHits.Load(), "corp code list is downloaded once")
}

func TestFetchStatements_Errors(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		body  string
		check func(t *testing.T, err error)
	}{
		{
			name: "no data",
			key:  "test-key",
			body: `{"status":"013","message":"조회된 데이타가 없습니다."}`,
			check: func(t *testing.T, err error) {
				assert.True(t, errors.Is(err, contracts.ErrNotFound))
			},
		},
		{
			name: "api error",
			key:  "test-key",
			body: `{"status":"020","message":"요청 제한을 초과하였습니다."}`,
			check: func(t *testing.T, err error) {
				var apiErr *APIError
				require.True(t, errors.As(err, &apiErr))
				assert.Equal(t, "020", apiErr.Status)
			},
		},
		{
			name: "missing key",
			key:  "",
			check: func(t *testing.T, err error) {
				assert.True(t, errors.Is(err, ErrNoAPIKey))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, fake := newTestClient(t, tt.key)
			fake.statementFn = func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, tt.body)
			}

			_, err := c.FetchStatements(context.Background(), contracts.Symbol{Code: "000660", CorpCode: "00164779"}, 2024)
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestResolveCorpCode(t *testing.T) {
	c, _ := newTestClient(t, "test-key")

	code, err := c.ResolveCorpCode(context.Background(), "000660")
	require.NoError(t, err)
	assert.Equal(t, "00164779", code)

	_, err = c.ResolveCorpCode(context.Background(), "999999")
	assert.True(t, errors.Is(err, contracts.ErrNotFound))
}

func TestResolveCorpCode_RejectedKey(t *testing.T) {
	c, _ := newTestClient(t, "wrong-key")

	_, err := c.ResolveCorpCode(context.Background(), "000660")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr), "got %v", err)
	assert.Equal(t, "010", apiErr.Status)
}

func TestParseCorpCodes(t *testing.T) {
	codes, err := parseCorpCodes(corpCodeZip(t))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"000660": "00164779", "005930": "00126380"}, codes)

	_, err = parseCorpCodes([]byte("garbage"))
	assert.Error(t, err)
}

func TestFetchCompany(t *testing.T) {
	c, _ := newTestClient(t, "test-key")

	company, err := c.FetchCompany(context.Background(), "000660")
	require.NoError(t, err)
	assert.Equal(t, contracts.Company{Code: "000660", Name: "SK하이닉스"}, company)
}
