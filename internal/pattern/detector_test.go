package pattern

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/sepa/backend/internal/contracts"
	"github.com/wonny/sepa/backend/pkg/logger"
)

var start = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func series(closes []float64, volumes []int64) contracts.PriceSeries {
	bars := make([]contracts.Bar, len(closes))
	for i := range closes {
		bars[i] = contracts.Bar{
			Date:   start.AddDate(0, 0, i),
			Open:   closes[i],
			High:   closes[i],
			Low:    closes[i],
			Close:  closes[i],
			Volume: volumes[i],
		}
	}
	return contracts.PriceSeries{Code: "TEST", Bars: bars}
}

func flat(n int, price float64, volume int64) ([]float64, []int64) {
	c := make([]float64, n)
	v := make([]int64, n)
	for i := range c {
		c[i] = price
		v[i] = volume
	}
	return c, v
}

func newDetector(s contracts.PriceSeries) *Detector {
	return NewDetector(s, DefaultConfig(), logger.NewNop())
}

func TestRollingMean(t *testing.T) {
	got := RollingMean([]float64{1, 2, 3, 4}, 2)
	assert.Equal(t, []float64{1, 1.5, 2.5, 3.5}, got)
	assert.Empty(t, RollingMean(nil, 20))
}

func TestRollingStd(t *testing.T) {
	got := RollingStd([]float64{1, 2, 3, 4}, 2)
	require.Len(t, got, 4)
	assert.Equal(t, 0.0, got[0], "single sample gives 0")
	for _, v := range got[1:] {
		assert.InDelta(t, 0.70710678, v, 1e-6)
	}
}

func TestDetectVCP(t *testing.T) {
	closes, volumes := flat(20, 95, 600)
	closes[0], volumes[0] = 100, 1000
	closes[18], volumes[18] = 90, 500
	closes[19], volumes[19] = 92, 800

	events := newDetector(series(closes, volumes)).DetectVCP()

	require.Len(t, events, 1)
	e := events[0]
	assert.Equal(t, contracts.PatternVCP, e.Kind)
	assert.Equal(t, start.AddDate(0, 0, 19), e.Date)
	assert.Equal(t, 92.0, e.Price)
	assert.Equal(t, int64(800), e.Volume)
	assert.InDelta(t, 0.5*1.6+0.5*(92.0/90.0)-1.0, e.Strength, 1e-9)
}

func TestDetectVCP_ShortSeries(t *testing.T) {
	closes, volumes := flat(19, 100, 1000)
	assert.Empty(t, newDetector(series(closes, volumes)).DetectVCP())
}

func TestDetectPocketPivotAndUpperBreakout(t *testing.T) {
	closes, volumes := flat(61, 100, 1000)
	closes[60], volumes[60] = 110, 5000

	d := newDetector(series(closes, volumes))

	pivots := d.DetectPocketPivot()
	require.Len(t, pivots, 1)
	assert.Equal(t, start.AddDate(0, 0, 60), pivots[0].Date)
	assert.InDelta(t, (0.6*5+0.4*1.1-1.0)/3.0, pivots[0].Strength, 1e-9)

	breakouts := d.DetectBreakout()
	require.Len(t, breakouts, 1)
	assert.Equal(t, contracts.DirectionUpper, breakouts[0].Direction)
	assert.Equal(t, 1.0, breakouts[0].Strength)

	assert.Empty(t, d.DetectVCP())
}

func TestDetectPocketPivot_NoFullVolumeWindow(t *testing.T) {
	closes, volumes := flat(6, 100, 1000)
	closes[5], volumes[5] = 110, 5000

	pivots := newDetector(series(closes, volumes)).DetectPocketPivot()

	// fewer than 20 bars behind i: volume ratio 1.0, strength floors at 0.1
	require.Len(t, pivots, 1)
	assert.Equal(t, 0.1, pivots[0].Strength)
}

func TestTrailingVolumeRatio(t *testing.T) {
	v := []float64{100, 100, 100, 100, 0, 0, 300}

	tests := []struct {
		name   string
		i      int
		window int
		want   float64
	}{
		{"full window", 4, 4, 0},
		{"short history", 3, 4, 1.0},
		{"zero mean", 6, 2, 1.0},
		{"mixed window", 6, 4, 300.0 / 50.0},
		{"no window", 6, 0, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, trailingVolumeRatio(v, tt.i, tt.window), 1e-9)
		})
	}
}

func TestDetectLowerBreakout(t *testing.T) {
	closes, volumes := flat(61, 100, 1000)
	closes[60] = 90

	breakouts := newDetector(series(closes, volumes)).DetectBreakout()

	require.Len(t, breakouts, 1)
	assert.Equal(t, contracts.DirectionLower, breakouts[0].Direction)
	assert.InDelta(t, 0.464547, breakouts[0].Strength, 1e-4)
}

func TestDetectAll_EmptySeries(t *testing.T) {
	set := newDetector(contracts.PriceSeries{}).DetectAll()

	for _, kind := range contracts.AllPatternKinds() {
		events, ok := set[kind]
		assert.True(t, ok)
		assert.Empty(t, events)
	}
	assert.Equal(t, 0, set.Count())
}

func TestDetectAll_ZeroVolumeGuard(t *testing.T) {
	closes, volumes := flat(40, 100, 0)
	for i := range closes {
		closes[i] = 100 + float64(i%5)
	}

	set := newDetector(series(closes, volumes)).DetectAll()
	for _, events := range set {
		for _, e := range events {
			assert.GreaterOrEqual(t, e.Strength, 0.1)
			assert.LessOrEqual(t, e.Strength, 1.0)
		}
	}
}

func TestDetectAll_StrengthBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	n := 400
	closes := make([]float64, n)
	volumes := make([]int64, n)
	price := 10000.0
	for i := 0; i < n; i++ {
		price *= 1 + rng.NormFloat64()*0.03
		closes[i] = price
		volumes[i] = int64(500000 + rng.Intn(2000000))
	}

	set := newDetector(series(closes, volumes)).DetectAll()
	require.Greater(t, set.Count(), 0)

	for kind, events := range set {
		for _, e := range events {
			assert.Equal(t, kind, e.Kind)
			assert.GreaterOrEqual(t, e.Strength, 0.1)
			assert.LessOrEqual(t, e.Strength, 1.0)
			if kind == contracts.PatternBreakout {
				assert.Contains(t, []contracts.BreakoutDirection{contracts.DirectionUpper, contracts.DirectionLower}, e.Direction)
			} else {
				assert.Empty(t, e.Direction)
			}
		}
	}
}

func TestIndicators(t *testing.T) {
	closes, volumes := flat(30, 100, 1000)
	ind := newDetector(series(closes, volumes)).Indicators()

	require.Len(t, ind.BBUpper, 30)
	assert.Equal(t, 100.0, ind.BBUpper[29])
	assert.Equal(t, 100.0, ind.BBLower[29])
	assert.Equal(t, 100.0, ind.MA200[29])
	assert.Equal(t, 1000.0, ind.VolMA20[29])
}

func TestRecent(t *testing.T) {
	asOf := time.Date(2025, 3, 31, 15, 30, 0, 0, time.UTC)
	at := func(days int) contracts.PatternEvent {
		return contracts.PatternEvent{Kind: contracts.PatternVCP, Date: asOf.AddDate(0, 0, -days)}
	}
	events := []contracts.PatternEvent{at(40), at(30), at(10), at(2), at(-1)}

	got := Recent(events, asOf, 30, 2)
	require.Len(t, got, 2)
	assert.Equal(t, at(2).Date, got[0].Date)
	assert.Equal(t, at(10).Date, got[1].Date)

	all := Recent(events, asOf, 30, 0)
	assert.Len(t, all, 3, "day 30 is inside the window, day 40 and future events are not")
}
