package naver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/sepa/backend/internal/contracts"
)

func TestParseCompanyName(t *testing.T) {
	tests := []struct {
		name    string
		html    string
		want    string
		wantErr bool
	}{
		{
			name: "company heading",
			html: `<html><head><title>ignored : 네이버페이 증권</title></head><body>
				<div class="wrap_company"><h2><a href="#">SK하이닉스</a></h2></div></body></html>`,
			want: "SK하이닉스",
		},
		{
			name: "title fallback",
			html: `<html><head><title>삼성전자 : 네이버페이 증권</title></head><body></body></html>`,
			want: "삼성전자",
		},
		{
			name:    "no name",
			html:    `<html><body><p>empty</p></body></html>`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseCompanyName(strings.NewReader(tt.html))
			if tt.wantErr {
				assert.True(t, errors.Is(err, contracts.ErrNotFound))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFetchCompany(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/item/main.naver", r.URL.Path)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprintf(w, `<div class="wrap_company"><h2><a>%s</a></h2></div>`, "한미반도체")
	})

	company, err := c.FetchCompany(context.Background(), "042700")
	require.NoError(t, err)
	assert.Equal(t, contracts.Company{Code: "042700", Name: "한미반도체"}, company)
}

func TestFetchCompany_NotFoundStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	_, err := c.FetchCompany(context.Background(), "000000")
	assert.Error(t, err)
}
