package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wonny/sepa/backend/internal/strategyconfig"
	"github.com/wonny/sepa/backend/pkg/config"
)

// strategyCmd represents the strategy command
var strategyCmd = &cobra.Command{
	Use:   "strategy",
	Short: "전략 설정 검증/조회",
	Long: `전략 YAML 을 검증하고 정규화된 내용을 출력합니다.

Subcommands:
  validate [path]  - 필수 제약 검증 + 권장 제약 경고
  show [path]      - 기본값이 채워진 전략 출력
  hash [path]      - 전략 해시 (리더보드 재현성 확인용)

경로를 생략하면 --strategy, STRATEGY_CONFIG, 기본 전략 순으로 사용합니다.

Example:
  go run ./cmd/sepa strategy validate config/strategy/sepa_semiconductor.yaml
  go run ./cmd/sepa strategy show`,
}

var (
	strategyValidateCmd = &cobra.Command{
		Use:   "validate [path]",
		Short: "전략 검증",
		Args:  cobra.MaximumNArgs(1),
		RunE:  validateStrategy,
	}

	strategyShowCmd = &cobra.Command{
		Use:   "show [path]",
		Short: "전략 출력 (YAML)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  showStrategy,
	}

	strategyHashCmd = &cobra.Command{
		Use:   "hash [path]",
		Short: "전략 해시",
		Args:  cobra.MaximumNArgs(1),
		RunE:  hashStrategy,
	}
)

func init() {
	rootCmd.AddCommand(strategyCmd)
	strategyCmd.AddCommand(strategyValidateCmd)
	strategyCmd.AddCommand(strategyShowCmd)
	strategyCmd.AddCommand(strategyHashCmd)
}

// loadStrategyArg resolves the strategy from the argument, the flag or the environment
func loadStrategyArg(args []string) (*strategyconfig.Config, string, error) {
	path := strategyPath
	if len(args) > 0 {
		path = args[0]
	}
	if path == "" {
		env, err := config.Load()
		if err != nil {
			return nil, path, fmt.Errorf("load config: %w", err)
		}
		path = env.Screen.StrategyPath
	}

	cfg, err := strategyconfig.LoadOrDefault(path)
	if err != nil {
		return nil, path, err
	}
	if path == "" {
		path = "(built-in)"
	}
	return cfg, path, nil
}

func validateStrategy(cmd *cobra.Command, args []string) error {
	cfg, path, err := loadStrategyArg(args)
	if err != nil {
		return err
	}

	if err := strategyconfig.Validate(cfg); err != nil {
		PrintError(fmt.Sprintf("%s: %v", path, err))
		return err
	}
	PrintSuccess(fmt.Sprintf("%s: %s v%s (%d symbols)", path, cfg.Meta.StrategyID, cfg.Meta.Version, len(cfg.Universe.Symbols)))

	for _, w := range strategyconfig.Warn(cfg) {
		PrintWarning(fmt.Sprintf("[%s] %s", w.Code, w.Message))
	}
	return nil
}

func showStrategy(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadStrategyArg(args)
	if err != nil {
		return err
	}

	out, err := strategyconfig.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(out)
	return err
}

func hashStrategy(cmd *cobra.Command, args []string) error {
	cfg, path, err := loadStrategyArg(args)
	if err != nil {
		return err
	}

	hash, err := strategyconfig.Hash(cfg)
	if err != nil {
		return err
	}
	fmt.Printf("%s  %s\n", hash, path)
	return nil
}
