package dart

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/wonny/sepa/backend/internal/contracts"
)

// corpCodeList is CORPCODE.xml inside the corpCode.xml zip
type corpCodeList struct {
	XMLName xml.Name    `xml:"result"`
	List    []corpEntry `xml:"list"`
}

type corpEntry struct {
	CorpCode  string `xml:"corp_code"`
	CorpName  string `xml:"corp_name"`
	StockCode string `xml:"stock_code"`
}

// errorBody is returned instead of the zip when the request is rejected
type errorBody struct {
	Status  string `xml:"status"`
	Message string `xml:"message"`
}

// ResolveCorpCode maps a 6-digit stock code to DART's 8-digit corp_code.
// The full list is downloaded once per client; a failed download is retried
// on the next call.
func (c *Client) ResolveCorpCode(ctx context.Context, stockCode string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.corpCodes) == 0 {
		codes, err := c.downloadCorpCodes(ctx)
		if err != nil {
			return "", err
		}
		c.corpCodes = codes
	}

	corpCode, ok := c.corpCodes[stockCode]
	if !ok {
		return "", fmt.Errorf("corp_code for %s: %w", stockCode, contracts.ErrNotFound)
	}
	return corpCode, nil
}

func (c *Client) downloadCorpCodes(ctx context.Context) (map[string]string, error) {
	if c.apiKey == "" {
		return nil, ErrNoAPIKey
	}

	body, err := c.http.GetBody(ctx, c.endpoint("corpCode.xml", nil))
	if err != nil {
		return nil, fmt.Errorf("download corp codes: %w", err)
	}

	codes, err := parseCorpCodes(body)
	if err != nil {
		return nil, err
	}

	c.logger.WithField("listed", len(codes)).Info("Loaded DART corp codes")
	return codes, nil
}

// parseCorpCodes reads the zipped corp code list, keeping listed companies only
func parseCorpCodes(body []byte) (map[string]string, error) {
	if !bytes.HasPrefix(body, []byte("PK")) {
		var e errorBody
		if err := xml.Unmarshal(body, &e); err == nil && e.Status != "" {
			return nil, status{Status: e.Status, Message: e.Message}.check()
		}
		return nil, fmt.Errorf("corp code list is not a zip archive")
	}

	zr, err := zip.NewReader(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		return nil, fmt.Errorf("open corp code zip: %w", err)
	}
	if len(zr.File) == 0 {
		return nil, fmt.Errorf("corp code zip is empty")
	}

	f, err := zr.File[0].Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", zr.File[0].Name, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", zr.File[0].Name, err)
	}

	var list corpCodeList
	if err := xml.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("parse corp codes: %w", err)
	}

	codes := make(map[string]string, len(list.List))
	for _, e := range list.List {
		stock := strings.TrimSpace(e.StockCode)
		if stock == "" {
			continue // 비상장
		}
		codes[stock] = strings.TrimSpace(e.CorpCode)
	}
	return codes, nil
}

// CompanyResponse represents the company.json response
type CompanyResponse struct {
	status
	CorpName   string `json:"corp_name"`
	StockName  string `json:"stock_name"`
	StockCode  string `json:"stock_code"`
	IndutyCode string `json:"induty_code"` // 업종코드
}

func (r *CompanyResponse) envelope() status { return r.status }

// FetchCompany fetches the company overview of a stock code
func (c *Client) FetchCompany(ctx context.Context, code string) (contracts.Company, error) {
	corpCode, err := c.ResolveCorpCode(ctx, code)
	if err != nil {
		return contracts.Company{}, err
	}

	params := url.Values{}
	params.Set("corp_code", corpCode)

	var resp CompanyResponse
	if err := c.getJSON(ctx, "company.json", params, &resp); err != nil {
		return contracts.Company{}, fmt.Errorf("company %s: %w", code, err)
	}

	name := resp.StockName
	if name == "" {
		name = resp.CorpName
	}
	if name == "" {
		return contracts.Company{}, fmt.Errorf("company %s has no name: %w", code, contracts.ErrNotFound)
	}
	return contracts.Company{Code: code, Name: name}, nil
}
