package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	strategyPath string
	verbose      bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "sepa",
	Short: "SEPA 종목 스크리너 - 추세/재무/상대강도/패턴 종합 점수",
	Long: `SEPA Screener CLI

Minervini SEPA 기준으로 종목을 평가합니다.
가격(Naver)과 사업보고서(DART)를 읽어 4개 점수를 계산하고
종합 점수 순으로 리더보드를 만듭니다.

Usage:
  go run ./cmd/sepa [command]

Examples:
  go run ./cmd/sepa screen
  go run ./cmd/sepa screen --top 5 --passed-only
  go run ./cmd/sepa stock 005930
  go run ./cmd/sepa collect
  go run ./cmd/sepa api
  go run ./cmd/sepa scheduler start
  go run ./cmd/sepa strategy validate config/strategy/sepa_semiconductor.yaml`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&strategyPath, "strategy", "", "strategy YAML (default: STRATEGY_CONFIG or built-in)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
