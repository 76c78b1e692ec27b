package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/sepa/backend/internal/brain"
	"github.com/wonny/sepa/backend/internal/contracts"
)

// screenCmd represents the screen command
var screenCmd = &cobra.Command{
	Use:   "screen",
	Short: "SEPA 스크리닝 실행 및 리더보드 출력",
	Long: `전략에 등록된 모든 종목을 평가하고 종합 점수 순으로 출력합니다.

이 명령어는:
- 가격/재무제표 로드 (DB → Redis 캐시 → Naver/DART)
- 추세/재무/상대강도/패턴 점수 계산
- 종합 점수 랭킹 및 추천 등급 산출

데이터가 없는 종목은 랭킹에서 제외되고 목록 하단에 표시됩니다.

Example:
  go run ./cmd/sepa screen
  go run ./cmd/sepa screen --top 5 --passed-only
  go run ./cmd/sepa screen --as-of 2025-03-14 --json
  go run ./cmd/sepa screen --save`,
	RunE: runScreen,
}

var (
	screenAsOf       string
	screenTop        int
	screenPassedOnly bool
	screenJSON       bool
	screenSave       bool
)

func init() {
	rootCmd.AddCommand(screenCmd)

	// Flags
	screenCmd.Flags().StringVar(&screenAsOf, "as-of", "", "기준일 YYYY-MM-DD (기본: 오늘)")
	screenCmd.Flags().IntVar(&screenTop, "top", 0, "상위 N개만 출력 (0 = 전체)")
	screenCmd.Flags().BoolVar(&screenPassedOnly, "passed-only", false, "전략 선별 기준 적용 (필터 통과, 최소 추천 등급)")
	screenCmd.Flags().BoolVar(&screenJSON, "json", false, "JSON 출력")
	screenCmd.Flags().BoolVar(&screenSave, "save", false, "리더보드를 DB에 저장")
}

// signalContext returns a context cancelled on Ctrl+C
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// parseAsOf parses --as-of as a trading day. An empty value is today in the
// strategy timezone.
func parseAsOf(raw string, loc *time.Location) (time.Time, error) {
	if raw == "" {
		return contracts.TradeDate(time.Now().In(loc)), nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --as-of %q: expected YYYY-MM-DD", raw)
	}
	return contracts.TradeDate(t), nil
}

// screenOnce runs one screening pass with the CLI flags
func screenOnce(ctx context.Context, a *app, rawAsOf string) (*brain.RunResult, error) {
	asOf, err := parseAsOf(rawAsOf, a.location())
	if err != nil {
		return nil, err
	}
	return a.orchestrator.Run(ctx, a.runConfig(asOf))
}

func runScreen(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext()
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	if screenSave {
		if err := a.requireDB("--save"); err != nil {
			return err
		}
	}

	result, err := screenOnce(ctx, a, screenAsOf)
	if err != nil {
		return err
	}

	// --passed-only applies the strategy selection policy (filters, min recommendation)
	stocks := result.Leaderboard.Stocks
	var rejected map[string]int
	if screenPassedOnly {
		stocks, rejected = a.screener().Screen(stocks)
	}
	if screenTop > 0 && screenTop < len(stocks) {
		stocks = stocks[:screenTop]
	}

	if screenSave {
		if err := a.leaderboards.SaveLeaderboard(ctx, result.Leaderboard); err != nil {
			return fmt.Errorf("save leaderboard: %w", err)
		}
	}

	if screenJSON {
		return PrintJSON(map[string]interface{}{
			"run_id":   result.RunID,
			"as_of":    result.AsOf.Format("2006-01-02"),
			"year":     result.Year,
			"total":    result.Leaderboard.Count(),
			"stocks":   stocks,
			"rejected": rejected,
			"skipped":  result.Skipped,
		})
	}

	PrintRunHeader(RunMetadata{
		RunID:    result.RunID,
		Title:    "SEPA Leaderboard",
		AsOf:     result.AsOf.Format("2006-01-02"),
		Year:     result.Year,
		Strategy: a.strategy.Meta.StrategyID,
		Symbols:  a.orchestrator.Universe().Count(),
	})
	PrintLeaderboard(stocks)
	PrintSeparator()

	for _, code := range result.Skipped {
		name := code
		if d, ok := result.Detail(code); ok {
			name = fmt.Sprintf("%s (%s)", d.Name, code)
		}
		PrintWarning(fmt.Sprintf("%s: 데이터 부족으로 랭킹 제외", name))
	}
	for reason, n := range rejected {
		PrintInfo(fmt.Sprintf("%d개 종목 필터 제외: %s", n, reason))
	}
	if screenSave {
		PrintSuccess("리더보드 저장 완료")
	}

	fmt.Printf("\n✅ %d개 종목 평가 완료 (%.2fs)\n", len(result.Details), result.Duration.Seconds())
	return nil
}
