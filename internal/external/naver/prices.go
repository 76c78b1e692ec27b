package naver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/wonny/sepa/backend/internal/contracts"
)

var priceRowRe = regexp.MustCompile(`\["(\d{8})",\s*([\d.]+),\s*([\d.]+),\s*([\d.]+),\s*([\d.]+),\s*(\d+)`)

// FetchPrices fetches daily OHLCV bars for a stock from Naver Finance
// ⭐ SSOT: Naver Finance 가격 API 호출은 이 함수에서만
func (c *Client) FetchPrices(ctx context.Context, stockCode string, from, to time.Time) (contracts.PriceSeries, error) {
	series := contracts.PriceSeries{Code: stockCode}

	params := url.Values{}
	params.Set("symbol", stockCode)
	params.Set("requestType", "1")
	params.Set("startTime", from.Format("20060102"))
	params.Set("endTime", to.Format("20060102"))
	params.Set("timeframe", "day")

	body, err := c.httpClient.GetBody(ctx, c.chartURL+"/siseJson.naver?"+params.Encode())
	if err != nil {
		return series, fmt.Errorf("prices %s: %w", stockCode, err)
	}

	bars := parsePriceResponse(string(body))
	if len(bars) == 0 {
		return series, fmt.Errorf("prices %s: no rows: %w", stockCode, contracts.ErrNotFound)
	}
	series.Bars = bars

	c.logger.WithFields(map[string]interface{}{
		"stock_code": stockCode,
		"count":      len(bars),
	}).Debug("Fetched prices")
	return series, nil
}

// parsePriceResponse parses the siseJson body, oldest bar first.
// The body is a JS array literal with single quotes; JSON is tried first and
// a regex scan is the fallback.
func parsePriceResponse(body string) []contracts.Bar {
	body = strings.TrimSpace(body)
	body = strings.ReplaceAll(body, "'", "\"")

	var bars []contracts.Bar
	var rawData [][]interface{}
	if err := json.Unmarshal([]byte(body), &rawData); err == nil {
		bars = parsePriceJSON(rawData)
	} else {
		bars = parsePriceRegex(body)
	}

	sort.SliceStable(bars, func(i, j int) bool {
		return bars[i].Date.Before(bars[j].Date)
	})
	return bars
}

// parsePriceJSON parses JSON array format; the first row is the header
func parsePriceJSON(rawData [][]interface{}) []contracts.Bar {
	var bars []contracts.Bar
	for i, row := range rawData {
		if i == 0 || len(row) < 6 {
			continue
		}

		dateStr, ok := row[0].(string)
		if !ok {
			continue
		}
		tradeDate, err := time.Parse("20060102", strings.TrimSpace(dateStr))
		if err != nil {
			continue
		}

		bars = append(bars, contracts.Bar{
			Date:   tradeDate,
			Open:   toFloat(row[1]),
			High:   toFloat(row[2]),
			Low:    toFloat(row[3]),
			Close:  toFloat(row[4]),
			Volume: int64(toFloat(row[5])),
		})
	}
	return bars
}

// parsePriceRegex parses using regex (fallback)
func parsePriceRegex(body string) []contracts.Bar {
	var bars []contracts.Bar
	for _, match := range priceRowRe.FindAllStringSubmatch(body, -1) {
		tradeDate, err := time.Parse("20060102", match[1])
		if err != nil {
			continue
		}

		volume, _ := strconv.ParseInt(match[6], 10, 64)
		bars = append(bars, contracts.Bar{
			Date:   tradeDate,
			Open:   toFloat(match[2]),
			High:   toFloat(match[3]),
			Low:    toFloat(match[4]),
			Close:  toFloat(match[5]),
			Volume: volume,
		})
	}
	return bars
}

// toFloat converts the loosely typed chart cells to float64
func toFloat(v interface{}) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case int64:
		return float64(val)
	case int:
		return float64(val)
	case string:
		f, _ := strconv.ParseFloat(strings.TrimSpace(val), 64)
		return f
	default:
		return 0
	}
}
