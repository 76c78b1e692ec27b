package naver

import (
	"strings"

	"github.com/wonny/sepa/backend/pkg/httputil"
	"github.com/wonny/sepa/backend/pkg/logger"
)

const (
	// DefaultBaseURL serves the HTML item pages
	DefaultBaseURL = "https://finance.naver.com"
	// DefaultChartURL serves the siseJson daily chart
	DefaultChartURL = "https://fchart.stock.naver.com"
)

// Client handles communication with Naver Finance
// ⭐ SSOT: Naver Finance API 호출은 이 클라이언트에서만
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
	chartURL   string
}

// NewClient creates a new Naver Finance client. Empty URLs fall back to
// the public endpoints.
func NewClient(httpClient *httputil.Client, baseURL, chartURL string, log *logger.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if chartURL == "" {
		chartURL = DefaultChartURL
	}
	return &Client{
		httpClient: httpClient.WithHeader("Referer", DefaultBaseURL+"/"),
		logger:     log,
		baseURL:    strings.TrimRight(baseURL, "/"),
		chartURL:   strings.TrimRight(chartURL, "/"),
	}
}
