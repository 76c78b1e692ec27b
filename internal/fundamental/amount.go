package fundamental

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount parses a DART amount such as "302,231,360,000,000".
// Empty, "-" and malformed text report ok=false; callers treat that as missing data.
func ParseAmount(text string) (float64, bool) {
	s := strings.TrimSpace(text)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")
	if s == "" || s == "-" {
		return 0, false
	}

	// 회계 표기 (1,234) = -1234
	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, false
	}
	if negative {
		d = d.Neg()
	}

	f, _ := d.Float64()
	return f, true
}

// GrowthRate returns the percentage change from prev to cur; 0 when prev is 0
func GrowthRate(cur, prev float64) float64 {
	if prev == 0 {
		return 0
	}
	return (cur - prev) / math.Abs(prev) * 100
}

// PercentileRank returns the percentile (0-100) of value within values,
// counting ties as half. An empty sample gives 50.
func PercentileRank(values []float64, value float64) float64 {
	if len(values) == 0 {
		return 50
	}

	smaller, equal := 0, 0
	for _, v := range values {
		switch {
		case v < value:
			smaller++
		case v == value:
			equal++
		}
	}

	return (float64(smaller) + 0.5*float64(equal)) / float64(len(values)) * 100
}
