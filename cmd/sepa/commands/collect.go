package commands

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/sepa/backend/internal/s0_data/collector"
	"github.com/wonny/sepa/backend/internal/s0_data/quality"
)

// collectCmd represents the collect command
var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "가격/재무제표 수집 후 DB 저장",
	Long: `Naver 일봉과 DART 사업보고서를 수집해 DB에 저장합니다.
수집 후 품질 스냅샷(가격 최신성, 이력 길이, 재무 계정 커버리지)을 출력합니다.

DATABASE_URL 이 필요합니다.

Example:
  go run ./cmd/sepa collect
  go run ./cmd/sepa collect --from 2024-01-01 --year 2024
  go run ./cmd/sepa collect --quality-only`,
	RunE: runCollect,
}

var (
	collectFrom        string
	collectTo          string
	collectYear        int
	collectQualityOnly bool
)

func init() {
	rootCmd.AddCommand(collectCmd)

	collectCmd.Flags().StringVar(&collectFrom, "from", "", "가격 시작일 YYYY-MM-DD (기본: 전략 history_start)")
	collectCmd.Flags().StringVar(&collectTo, "to", "", "가격 종료일 YYYY-MM-DD (기본: 오늘)")
	collectCmd.Flags().IntVar(&collectYear, "year", 0, "사업보고서 연도 (기본: 종료일 전년도)")
	collectCmd.Flags().BoolVar(&collectQualityOnly, "quality-only", false, "수집 없이 품질 스냅샷만 출력")
}

func runCollect(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext()
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	gate, err := a.qualityGate()
	if err != nil {
		return err
	}

	to, err := parseAsOf(collectTo, a.location())
	if err != nil {
		return err
	}
	from := a.strategy.HistoryStart()
	if collectFrom != "" {
		if from, err = time.Parse("2006-01-02", collectFrom); err != nil {
			return fmt.Errorf("invalid --from %q: expected YYYY-MM-DD", collectFrom)
		}
	}
	year := collectYear
	if year == 0 {
		year = a.cfg.StatementYearFor(to)
	}

	universe := a.strategy.ToUniverse()

	if !collectQualityOnly {
		col, err := a.collector()
		if err != nil {
			return err
		}

		PrintRunHeader(RunMetadata{
			Title:    "Data Collection",
			AsOf:     fmt.Sprintf("%s ~ %s", from.Format("2006-01-02"), to.Format("2006-01-02")),
			Year:     year,
			Strategy: a.strategy.Meta.StrategyID,
			Symbols:  universe.Count(),
		})

		start := time.Now()
		results, err := col.Collect(ctx, universe, collector.Config{
			Workers: a.cfg.Screen.Workers,
			From:    from,
			To:      to,
			Year:    year,
		})
		if err != nil {
			return err
		}
		printCollectResults(results)
		fmt.Printf("\n✅ Collection completed in %.2fs\n", time.Since(start).Seconds())
	}

	snapshot, err := gate.Check(ctx, universe, to, year)
	if err != nil {
		return fmt.Errorf("quality check: %w", err)
	}
	printQuality(snapshot)
	return nil
}

var collectColumns = []string{"Code", "Name", "Prices", "Statements", "Status"}
var collectWidths = []int{6, 14, 7, 10, 24}

func printCollectResults(results []collector.FetchResult) {
	PrintTableHeader(collectColumns, collectWidths)
	for _, r := range results {
		status := "ok"
		switch {
		case r.Error != nil:
			status = "error: " + r.Error.Error()
		case len(r.Missing) > 0:
			status = "missing " + strings.Join(r.Missing, ",")
		}
		PrintTableRow([]string{
			r.StockCode,
			r.Name,
			fmt.Sprintf("%d", r.PriceCount),
			fmt.Sprintf("%d", r.StatementCount),
			status,
		}, collectWidths)
	}
}

func printQuality(s *quality.Snapshot) {
	fmt.Println()
	PrintDoubleSeparator()
	fmt.Printf("  Data Quality (%s, FY%d)\n", s.Date.Format("2006-01-02"), s.Year)
	PrintSeparator()
	PrintKeyValue("Valid", fmt.Sprintf("%d / %d", s.ValidStocks, s.TotalStocks), 14)
	PrintKeyValue("Score", pct(s.QualityScore), 14)

	keys := make([]string, 0, len(s.Coverage))
	for k := range s.Coverage {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		PrintKeyValue(k, pct(s.Coverage[k]), 14)
	}
	PrintSeparator()
	if s.Passed {
		PrintSuccess("Quality gate passed")
	} else {
		PrintWarning("Quality gate failed: 최신 가격 또는 재무제표 커버리지 부족")
	}
}
