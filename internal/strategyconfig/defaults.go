package strategyconfig

// Default returns the built-in SEPA strategy: the standard thresholds and
// weights with the semiconductor universe
func Default() *Config {
	return &Config{
		Meta: Meta{
			StrategyID:  "sepa_semiconductor",
			Version:     "1.0.0",
			Timezone:    "Asia/Seoul",
			Description: "SEPA 반도체 종목 스크리닝",
		},
		Universe: Universe{
			HistoryStart: "2020-01-01",
			Symbols:      semiconductorSymbols(),
		},
		Fundamentals: Fundamentals{
			Thresholds: FundamentalThresholds{
				SalesGrowthPctMin:           5,
				OperatingIncomeGrowthPctMin: 10,
				ROEPctMin:                   8,
				DebtRatioPctMax:             150,
			},
			Weights: FundamentalWeights{
				SalesGrowth:           0.3,
				OperatingIncomeGrowth: 0.3,
				ROE:                   0.2,
				DebtRatio:             0.2,
			},
			MinCriteriaPassed: 3,
		},
		Trend: Trend{
			MAWindows:      Windows{Short: 50, Mid: 150, Long: 200},
			SlopeLookbacks: Windows{Short: 5, Mid: 10, Long: 20},
			RangeBars:      250,
			LowMultiple:    1.3,
			HighMultiple:   0.75,
		},
		RelativeStrength: RelativeStrength{
			ShortBars:      65,
			LongBars:       130,
			ShortFullPct:   20,
			LongFullPct:    30,
			ShortWeight:    0.6,
			LongWeight:     0.4,
			FilterMinScore: 0.7,
		},
		Patterns: Patterns{
			VCPWindow:            20,
			PocketPivot:          PocketPivot{VolumeMultiple: 1.5, VolumeWindow: 20},
			Bollinger:            Bollinger{Window: 20, StdDev: 2},
			BreakoutVolumeWindow: 10,
			RecentWindowDays:     30,
			MaxEventsPerKind:     2,
			SecondEventFactor:    0.5,
			Weights:              PatternWeights{VCP: 0.4, PocketPivot: 0.3, Breakout: 0.3},
		},
		Ranking: Ranking{
			WeightsPct:     RankingWeights{Trend: 25, Fundamental: 30, RS: 20, Pattern: 25},
			Recommendation: Cutoffs{StrongBuy: 0.8, Buy: 0.6, Hold: 0.4},
			Selection:      Selection{PassedOnly: true, MinRecommendation: "buy"},
		},
	}
}

func semiconductorSymbols() []Symbol {
	return []Symbol{
		{Code: "005930", CorpCode: "00126380", Name: "삼성전자"},
		{Code: "000660", CorpCode: "00164779", Name: "SK하이닉스"},
		{Code: "000990", Name: "DB하이텍"},
		{Code: "042700", Name: "한미반도체"},
		{Code: "336370", Name: "테스나"},
		{Code: "357780", Name: "솔브레인"},
		{Code: "240810", Name: "원익IPS"},
		{Code: "104830", Name: "원익머트리얼즈"},
		{Code: "069730", Name: "피에스케이"},
		{Code: "033640", Name: "네패스"},
		{Code: "086390", Name: "유니테스트"},
		{Code: "322310", Name: "오로스테크놀로지"},
		{Code: "403870", Name: "HPSP"},
		{Code: "036930", Name: "주성엔지니어링"},
		{Code: "166090", Name: "하나머티리얼즈"},
		{Code: "058470", Name: "리노공업"},
		{Code: "005290", Name: "동진쎄미켐"},
		{Code: "140860", Name: "파크시스템스"},
	}
}
