package naver

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"

	"github.com/wonny/sepa/backend/internal/contracts"
	"github.com/wonny/sepa/backend/pkg/httputil"
)

// FetchCompany reads the company name from the Naver item page
func (c *Client) FetchCompany(ctx context.Context, code string) (contracts.Company, error) {
	pageURL := fmt.Sprintf("%s/item/main.naver?code=%s", c.baseURL, code)

	resp, err := c.httpClient.Get(ctx, pageURL)
	if err != nil {
		return contracts.Company{}, fmt.Errorf("company %s: %w", code, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return contracts.Company{}, fmt.Errorf("company %s: %w", code, &httputil.StatusError{URL: pageURL, StatusCode: resp.StatusCode})
	}

	// Naver item pages are EUC-KR
	body, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return contracts.Company{}, fmt.Errorf("company %s: decode charset: %w", code, err)
	}

	name, err := parseCompanyName(body)
	if err != nil {
		return contracts.Company{}, fmt.Errorf("company %s: %w", code, err)
	}

	c.logger.WithFields(map[string]interface{}{
		"stock_code": code,
		"name":       name,
	}).Debug("Fetched company")
	return contracts.Company{Code: code, Name: name}, nil
}

// parseCompanyName takes the heading of the company block, falling back to
// the "<name> : ..." page title
func parseCompanyName(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	if name := strings.TrimSpace(doc.Find("div.wrap_company h2 a").First().Text()); name != "" {
		return name, nil
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	if i := strings.Index(title, ":"); i > 0 {
		if name := strings.TrimSpace(title[:i]); name != "" {
			return name, nil
		}
	}

	return "", fmt.Errorf("company name not found: %w", contracts.ErrNotFound)
}
