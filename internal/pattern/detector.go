package pattern

import (
	"math"
	"sort"
	"time"

	"github.com/wonny/sepa/backend/internal/contracts"
	"github.com/wonny/sepa/backend/pkg/logger"
)

// Config holds detector parameters
type Config struct {
	VCPWindow                 int     `json:"vcp_window"`
	PocketPivotVolumeMultiple float64 `json:"pocket_pivot_volume_multiple"`
	PocketPivotVolumeWindow   int     `json:"pocket_pivot_volume_window"`
	BollingerWindow           int     `json:"bollinger_window"`
	BollingerStdDev           float64 `json:"bollinger_std_dev"`
	BreakoutVolumeWindow      int     `json:"breakout_volume_window"`
}

// DefaultConfig returns the standard detector parameters
func DefaultConfig() Config {
	return Config{
		VCPWindow:                 20,
		PocketPivotVolumeMultiple: 1.5,
		PocketPivotVolumeWindow:   20,
		BollingerWindow:           20,
		BollingerStdDev:           2.0,
		BreakoutVolumeWindow:      10,
	}
}

const (
	minStrength = 0.1
	maxStrength = 1.0
)

// Detector scans one price series for VCP, pocket pivot and Bollinger breakouts.
// Each scan is an independent pass; a bar may appear in several kinds.
// ⭐ SSOT: 차트 패턴 감지는 여기서만
type Detector struct {
	series     contracts.PriceSeries
	cfg        Config
	indicators Indicators
	closes     []float64
	volumes    []float64
	logger     *logger.Logger
}

// NewDetector precomputes indicators for series
func NewDetector(series contracts.PriceSeries, cfg Config, log *logger.Logger) *Detector {
	return &Detector{
		series:     series,
		cfg:        cfg,
		indicators: ComputeIndicators(series, cfg),
		closes:     series.Closes(),
		volumes:    series.Volumes(),
		logger:     log,
	}
}

// Indicators returns the precomputed indicator series
func (d *Detector) Indicators() Indicators {
	return d.indicators
}

// ratio returns num/den, or 1.0 when den is not positive
func ratio(num, den float64) float64 {
	if den <= 0 {
		return 1.0
	}
	return num / den
}

// clampStrength bounds a strength to [0.1, 1.0]
func clampStrength(v float64) float64 {
	if math.IsNaN(v) || v < minStrength {
		return minStrength
	}
	if v > maxStrength {
		return maxStrength
	}
	return v
}

func (d *Detector) event(kind contracts.PatternKind, i int, strength float64) contracts.PatternEvent {
	b := d.series.Bars[i]
	return contracts.PatternEvent{
		Kind:     kind,
		Date:     b.Date,
		Price:    b.Close,
		Volume:   b.Volume,
		Strength: clampStrength(strength),
	}
}

// DetectVCP flags every window of VCPWindow bars ending at i where price fell
// across the window, rebounded on the last bar, and volume contracted then
// re-expanded.
func (d *Detector) DetectVCP() []contracts.PatternEvent {
	events := []contracts.PatternEvent{}
	w := d.cfg.VCPWindow
	if w < 2 {
		return events
	}

	c, v := d.closes, d.volumes
	for i := w - 1; i < len(c); i++ {
		start := i - w + 1

		priceDecline := c[start] > c[i]
		priceRebound := c[i] > c[i-1]
		volumeDecline := v[start] > v[i-1]
		volumeIncrease := v[i] > v[i-1]

		if !(priceDecline && priceRebound && volumeDecline && volumeIncrease) {
			continue
		}

		volumeRatio := ratio(v[i], v[i-1])
		reboundRatio := ratio(c[i], c[i-1])
		events = append(events, d.event(contracts.PatternVCP, i, 0.5*volumeRatio+0.5*reboundRatio-1.0))
	}
	return events
}

// DetectPocketPivot flags up days on a volume surge that close above the 50-day average
func (d *Detector) DetectPocketPivot() []contracts.PatternEvent {
	events := []contracts.PatternEvent{}
	c, v := d.closes, d.volumes
	ind := d.indicators

	for i := 1; i < len(c); i++ {
		priceUp := c[i] > c[i-1]
		volumeSpike := v[i] > ind.VolMA20[i]*d.cfg.PocketPivotVolumeMultiple
		aboveMA := c[i] > ind.MA50[i]

		if !(priceUp && volumeSpike && aboveMA) {
			continue
		}

		volumeRatio := trailingVolumeRatio(v, i, d.cfg.PocketPivotVolumeWindow)
		priceRatio := ratio(c[i], c[i-1])

		events = append(events, d.event(contracts.PatternPocketPivot, i, (0.6*volumeRatio+0.4*priceRatio-1.0)/3.0))
	}
	return events
}

// DetectBreakout flags closes crossing outside the Bollinger bands
func (d *Detector) DetectBreakout() []contracts.PatternEvent {
	events := []contracts.PatternEvent{}
	c, v := d.closes, d.volumes
	upper, lower := d.indicators.BBUpper, d.indicators.BBLower

	for i := 1; i < len(c); i++ {
		upperCross := c[i] > upper[i] && c[i-1] <= upper[i-1]
		lowerCross := c[i] < lower[i] && c[i-1] >= lower[i-1]
		if !upperCross && !lowerCross {
			continue
		}

		degree := 0.0
		direction := contracts.DirectionUpper
		if upperCross {
			if upper[i] != 0 {
				degree = (c[i] - upper[i]) / upper[i]
			}
		} else {
			direction = contracts.DirectionLower
			if lower[i] != 0 {
				degree = (lower[i] - c[i]) / lower[i]
			}
		}

		volumeRatio := trailingVolumeRatio(v, i, d.cfg.BreakoutVolumeWindow)

		e := d.event(contracts.PatternBreakout, i, degree*5.0+volumeRatio*0.2)
		e.Direction = direction
		events = append(events, e)
	}
	return events
}

// trailingVolumeRatio compares v[i] with the mean of the window bars before i.
// Bars without a full window behind them get 1.0.
func trailingVolumeRatio(v []float64, i, window int) float64 {
	if window <= 0 || i < window {
		return 1.0
	}
	mean, ok := windowMean(v, i-window, i)
	if !ok {
		return 1.0
	}
	return ratio(v[i], mean)
}

// DetectAll runs every scan
func (d *Detector) DetectAll() contracts.PatternSet {
	set := contracts.PatternSet{
		contracts.PatternVCP:         d.DetectVCP(),
		contracts.PatternPocketPivot: d.DetectPocketPivot(),
		contracts.PatternBreakout:    d.DetectBreakout(),
	}

	d.logger.WithFields(map[string]interface{}{
		"code":         d.series.Code,
		"bars":         d.series.Len(),
		"vcp":          len(set[contracts.PatternVCP]),
		"pocket_pivot": len(set[contracts.PatternPocketPivot]),
		"breakout":     len(set[contracts.PatternBreakout]),
	}).Debug("patterns detected")

	return set
}

// Recent returns events dated within windowDays before asOf, newest first,
// at most limit of them. Age is counted in whole days; events after asOf
// are ignored.
func Recent(events []contracts.PatternEvent, asOf time.Time, windowDays, limit int) []contracts.PatternEvent {
	out := make([]contracts.PatternEvent, 0, len(events))
	for _, e := range events {
		age := int(asOf.Sub(e.Date) / (24 * time.Hour))
		if asOf.Before(e.Date) || age > windowDays {
			continue
		}
		out = append(out, e)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
