package dart

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/wonny/sepa/backend/internal/contracts"
	"github.com/wonny/sepa/backend/pkg/httputil"
	"github.com/wonny/sepa/backend/pkg/logger"
)

// DefaultBaseURL is the OpenDART API root
const DefaultBaseURL = "https://opendart.fss.or.kr/api"

// DART status codes
const (
	statusOK     = "000"
	statusNoData = "013"
)

// ErrNoAPIKey is returned when the client is used without crtfc_key
var ErrNoAPIKey = errors.New("dart: API key not configured")

// APIError is a non-success status in a DART response body
type APIError struct {
	Status  string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("dart API error: %s - %s", e.Status, e.Message)
}

// Client handles communication with DART (Data Analysis, Retrieval and Transfer System) API
// ⭐ SSOT: DART API 호출은 이 클라이언트에서만
type Client struct {
	http    *httputil.Client
	logger  *logger.Logger
	apiKey  string
	baseURL string

	mu        sync.Mutex
	corpCodes map[string]string // stock_code → corp_code
}

// NewClient creates a new DART API client
// DART API requires legacy TLS configuration (RSA key exchange)
func NewClient(apiKey, baseURL string, log *logger.Logger) *Client {
	return NewClientWithHTTP(apiKey, baseURL, NewHTTPClient(log), log)
}

// NewHTTPClient returns the HTTP client DART needs, for callers that add rate limits
func NewHTTPClient(log *logger.Logger) *httputil.Client {
	return httputil.New(log).
		WithTransport(newLegacyCompatibleTransport()).
		WithTimeout(30*time.Second).
		WithRetry(3, 500*time.Millisecond)
}

// NewClientWithHTTP creates a client on a caller-supplied HTTP client
func NewClientWithHTTP(apiKey, baseURL string, httpClient *httputil.Client, log *logger.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		http:      httpClient,
		logger:    log,
		apiKey:    apiKey,
		baseURL:   strings.TrimRight(baseURL, "/"),
		corpCodes: make(map[string]string),
	}
}

// newLegacyCompatibleTransport creates a transport compatible with legacy TLS servers
// DART server requires RSA key exchange cipher suites which Go 1.22+ no longer offers by default
func newLegacyCompatibleTransport() *http.Transport {
	tlsCfg := &tls.Config{
		MinVersion: tls.VersionTLS12,
		MaxVersion: tls.VersionTLS12,

		// DART server doesn't support ECDHE, so we need RSA key exchange
		CipherSuites: []uint16{
			tls.TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256,
			tls.TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384,
			tls.TLS_ECDHE_RSA_WITH_CHACHA20_POLY1305_SHA256,

			tls.TLS_RSA_WITH_AES_128_GCM_SHA256,
			tls.TLS_RSA_WITH_AES_256_GCM_SHA384,
			tls.TLS_RSA_WITH_AES_128_CBC_SHA,
			tls.TLS_RSA_WITH_AES_256_CBC_SHA,
		},
	}

	return &http.Transport{
		Proxy:             http.ProxyFromEnvironment,
		ForceAttemptHTTP2: false, // Disable HTTP/2 for legacy server compatibility

		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,

		TLSHandshakeTimeout:   10 * time.Second,
		TLSClientConfig:       tlsCfg,
		MaxIdleConns:          20,
		MaxConnsPerHost:       5, // Reduced to avoid overwhelming DART API
		IdleConnTimeout:       90 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
}

// endpoint builds an API URL with crtfc_key plus params
func (c *Client) endpoint(path string, params url.Values) string {
	q := url.Values{}
	for k, v := range params {
		q[k] = v
	}
	q.Set("crtfc_key", c.apiKey)
	return fmt.Sprintf("%s/%s?%s", c.baseURL, path, q.Encode())
}

// status is the envelope every DART JSON response carries
type status struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// check maps a DART status to an error.
// 000 = success, 013 = no data (not found), others = error
func (s status) check() error {
	switch s.Status {
	case statusOK:
		return nil
	case statusNoData:
		return fmt.Errorf("dart: %s: %w", s.Message, contracts.ErrNotFound)
	default:
		return &APIError{Status: s.Status, Message: s.Message}
	}
}

// getJSON calls a DART JSON endpoint and decodes dest after the status check
func (c *Client) getJSON(ctx context.Context, path string, params url.Values, dest interface{ envelope() status }) error {
	if c.apiKey == "" {
		return ErrNoAPIKey
	}
	if err := c.http.GetJSON(ctx, c.endpoint(path, params), dest); err != nil {
		return fmt.Errorf("dart %s: %w", path, err)
	}
	return dest.envelope().check()
}
