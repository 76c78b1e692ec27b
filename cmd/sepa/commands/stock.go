package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// stockCmd represents the stock command
var stockCmd = &cobra.Command{
	Use:   "stock [code]",
	Short: "종목 상세 점수 조회",
	Long: `스크리닝을 실행하고 한 종목의 점수 구성을 출력합니다.

출력 항목:
- 순위, 종합 점수, 추천 등급
- 추세 템플릿 4개 조건
- 재무 기준 (매출/영업이익 성장률, ROE, 부채비율)
- 13주/26주 수익률
- 감지된 패턴 (VCP, Pocket Pivot, Breakout)

Example:
  go run ./cmd/sepa stock 005930
  go run ./cmd/sepa stock 000660 --as-of 2025-03-14 --json`,
	Args: cobra.ExactArgs(1),
	RunE: runStock,
}

var (
	stockAsOf string
	stockJSON bool
)

func init() {
	rootCmd.AddCommand(stockCmd)

	stockCmd.Flags().StringVar(&stockAsOf, "as-of", "", "기준일 YYYY-MM-DD (기본: 오늘)")
	stockCmd.Flags().BoolVar(&stockJSON, "json", false, "JSON 출력")
}

func runStock(cmd *cobra.Command, args []string) error {
	code := args[0]

	ctx, stop := signalContext()
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	universe := a.orchestrator.Universe()
	if !universe.Contains(code) {
		return fmt.Errorf("stock %s is not in strategy %s", code, a.strategy.Meta.StrategyID)
	}

	result, err := screenOnce(ctx, a, stockAsOf)
	if err != nil {
		return err
	}

	detail, ok := result.Detail(code)
	if !ok {
		return fmt.Errorf("stock %s was not evaluated", code)
	}

	if stockJSON {
		return PrintJSON(detail)
	}

	PrintStockDetail(result, detail, a.engine.Config().Fundamental.Thresholds)
	return nil
}
