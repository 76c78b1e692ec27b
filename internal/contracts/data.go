package contracts

import (
	"fmt"
	"time"
)

// TradeDate returns the calendar day of t (in t's location) as midnight UTC.
// ⭐ SSOT: Bar.Date 와 as-of 날짜는 모두 이 규칙을 따른다
func TradeDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Bar is one daily OHLCV row. Date is midnight UTC of the trading day.
type Bar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// PriceSeries is the daily price history of one stock, ordered by date
// ⭐ SSOT: S0 → S2 가격 데이터 전달 (스코어링 중 불변)
type PriceSeries struct {
	Code string `json:"code"`
	Bars []Bar  `json:"bars"`
}

// Len returns the number of bars
func (p PriceSeries) Len() int {
	return len(p.Bars)
}

// IsEmpty reports whether the series has no bars
func (p PriceSeries) IsEmpty() bool {
	return len(p.Bars) == 0
}

// Last returns the most recent bar
func (p PriceSeries) Last() (Bar, bool) {
	if len(p.Bars) == 0 {
		return Bar{}, false
	}
	return p.Bars[len(p.Bars)-1], true
}

// Closes returns the close column
func (p PriceSeries) Closes() []float64 {
	out := make([]float64, len(p.Bars))
	for i, b := range p.Bars {
		out[i] = b.Close
	}
	return out
}

// Highs returns the high column
func (p PriceSeries) Highs() []float64 {
	out := make([]float64, len(p.Bars))
	for i, b := range p.Bars {
		out[i] = b.High
	}
	return out
}

// Lows returns the low column
func (p PriceSeries) Lows() []float64 {
	out := make([]float64, len(p.Bars))
	for i, b := range p.Bars {
		out[i] = b.Low
	}
	return out
}

// Volumes returns the volume column as float64
func (p PriceSeries) Volumes() []float64 {
	out := make([]float64, len(p.Bars))
	for i, b := range p.Bars {
		out[i] = float64(b.Volume)
	}
	return out
}

// Until returns the bars dated on or before asOf.
// The backing array is shared; callers must not mutate it.
func (p PriceSeries) Until(asOf time.Time) PriceSeries {
	n := len(p.Bars)
	for n > 0 && p.Bars[n-1].Date.After(asOf) {
		n--
	}
	return PriceSeries{Code: p.Code, Bars: p.Bars[:n]}
}

// Validate checks that dates are strictly increasing
func (p PriceSeries) Validate() error {
	for i := 1; i < len(p.Bars); i++ {
		if !p.Bars[i].Date.After(p.Bars[i-1].Date) {
			return fmt.Errorf("%s: bar %d (%s) is not after bar %d (%s)",
				p.Code, i, p.Bars[i].Date.Format("2006-01-02"),
				i-1, p.Bars[i-1].Date.Format("2006-01-02"))
		}
	}
	return nil
}
