package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/sepa/backend/internal/api"
	"github.com/wonny/sepa/backend/internal/api/handlers"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "API 서버 시작",
	Long: `REST API 서버를 시작합니다.

이 명령어는:
- 시작 시 1회 스크리닝 실행 (--warmup)
- 리더보드/종목 상세 엔드포인트 제공
- 재실행 및 데이터 수집 트리거 제공

Endpoints:
  GET  /health                        - Health check
  GET  /api/leaderboard               - 최신 리더보드 (?top=N&passed_only=true&date=YYYY-MM-DD)
  POST /api/screen                    - 스크리닝 재실행 ({"as_of": "YYYY-MM-DD"})
  GET  /api/stocks/{code}             - 종목 점수 상세
  GET  /api/stocks/{code}/patterns    - 감지된 패턴 (?all=true)
  GET  /api/stocks/{code}/indicators  - 차트 지표 (?days=250)
  GET  /api/data/quality              - 품질 스냅샷 (DB 필요)
  POST /api/data/collect              - 데이터 수집 트리거 (DB 필요)

Example:
  go run ./cmd/sepa api
  go run ./cmd/sepa api --port 8080 --warmup=false`,
	RunE: runAPIServer,
}

var (
	apiPort   string
	apiWarmup bool
)

func init() {
	rootCmd.AddCommand(apiCmd)

	// Flags
	apiCmd.Flags().StringVar(&apiPort, "port", "", "API 서버 포트 (기본: PORT)")
	apiCmd.Flags().BoolVar(&apiWarmup, "warmup", true, "시작 시 스크리닝 1회 실행")
}

// newHandlers wires the API handlers onto the app
func newHandlers(a *app, store *handlers.ResultStore) (api.Handlers, error) {
	h := api.Handlers{
		Screen: handlers.NewScreenHandler(store, a.orchestrator, a.runConfig, a.screener(), a.log).
			WithRunTimeout(api.ScreenRunTimeout),
		Stock: handlers.NewStockHandler(store, a.engine, a.log),
	}
	if a.db == nil {
		return h, nil
	}
	h.Health = a.db

	col, err := a.collector()
	if err != nil {
		return h, err
	}
	gate, err := a.qualityGate()
	if err != nil {
		return h, err
	}
	h.Data = handlers.NewDataHandler(
		a.orchestrator.Universe(),
		col,
		gate,
		a.strategy.HistoryStart(),
		a.cfg.StatementYearFor,
		a.cfg.Screen.Workers,
		a.log,
	)
	return h, nil
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== SEPA API Server ===")

	ctx, stop := signalContext()
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	// Override port if flag is set
	if apiPort != "" {
		a.cfg.Port = apiPort
	}

	log := a.log
	log.WithFields(map[string]interface{}{
		"port":     a.cfg.Port,
		"env":      a.cfg.Env,
		"strategy": a.strategy.Meta.StrategyID,
		"stocks":   a.orchestrator.Universe().Count(),
	}).Info("Initializing API server")

	store := handlers.NewResultStore(a.cache, log)
	if a.leaderboards != nil {
		store.WithHistory(a.leaderboards)
	}
	h, err := newHandlers(a, store)
	if err != nil {
		return err
	}

	server := api.New(a.cfg, log, api.NewRouter(h, log))

	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	if apiWarmup {
		go func() {
			asOf, _ := parseAsOf("", a.location())
			result, err := a.orchestrator.Run(ctx, a.runConfig(asOf))
			if err != nil {
				log.WithError(err).Error("Warmup screening failed")
				return
			}
			store.Set(ctx, result)
		}()
	}

	log.Info("API server started successfully")
	fmt.Printf("\n✅ Server running on http://localhost:%s\n", a.cfg.Port)
	fmt.Println("\nPress Ctrl+C to stop")

	<-ctx.Done()
	log.Info("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
