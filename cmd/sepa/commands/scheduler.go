package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/sepa/backend/internal/api/handlers"
	"github.com/wonny/sepa/backend/internal/scheduler"
	"github.com/wonny/sepa/backend/internal/scheduler/jobs"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "스케줄러 관리",
	Long: `스케줄러를 시작하거나 작업을 관리합니다.

Subcommands:
  start   - 스케줄러 시작
  list    - 등록된 작업 목록
  run     - 특정 작업 즉시 실행

Example:
  go run ./cmd/sepa scheduler start
  go run ./cmd/sepa scheduler list
  go run ./cmd/sepa scheduler run sepa_screen`,
}

var (
	schedulerStartCmd = &cobra.Command{
		Use:   "start",
		Short: "스케줄러 시작",
		Long: `스케줄러를 시작하고 등록된 모든 작업을 스케줄합니다.

등록되는 작업:
- data_collection: 평일 16:00 (DB 사용 시, COLLECT_SCHEDULE)
- sepa_screen: 평일 16:30 (SCREEN_SCHEDULE)

스크리닝 결과는 Redis 에 미러링되어 API 서버가 읽을 수 있고,
DB 가 있으면 selection.leaderboard 에 저장됩니다.

스케줄러는 Ctrl+C로 종료할 수 있습니다.`,
		RunE: runScheduler,
	}

	schedulerListCmd = &cobra.Command{
		Use:   "list",
		Short: "등록된 작업 목록",
		RunE:  listJobs,
	}

	schedulerRunCmd = &cobra.Command{
		Use:   "run [job_name]",
		Short: "특정 작업 즉시 실행",
		Args:  cobra.ExactArgs(1),
		RunE:  runJob,
	}
)

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerStartCmd)
	schedulerCmd.AddCommand(schedulerListCmd)
	schedulerCmd.AddCommand(schedulerRunCmd)
}

// initScheduler registers the jobs of this deployment
func initScheduler(a *app) (*scheduler.Scheduler, error) {
	sched := scheduler.New(a.log, a.location(),
		scheduler.WithRetry(2, 5*time.Minute),
		scheduler.WithJobTimeout(30*time.Minute),
	)

	// 저장소가 없으면 nil 인터페이스를 넘겨야 함
	var saver jobs.LeaderboardSaver
	if a.leaderboards != nil {
		saver = a.leaderboards
	}
	screenJob := jobs.NewScreenJob(
		a.orchestrator,
		a.runConfig,
		a.cfg.Screen.Schedule,
		handlers.NewResultStore(a.cache, a.log),
		saver,
		a.log,
	)
	if err := sched.AddJob(screenJob); err != nil {
		return nil, err
	}

	if a.db != nil {
		col, err := a.collector()
		if err != nil {
			return nil, err
		}
		collectJob := jobs.NewDataCollectionJob(
			col,
			a.orchestrator.Universe(),
			a.cfg.Screen.CollectCron,
			a.cfg.StatementYearFor,
			a.cfg.Screen.Workers,
			a.log,
		)
		if err := sched.AddJob(collectJob); err != nil {
			return nil, err
		}
	}

	return sched, nil
}

func runScheduler(cmd *cobra.Command, args []string) error {
	fmt.Println("=== SEPA Scheduler ===")

	ctx, stop := signalContext()
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	sched, err := initScheduler(a)
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}

	sched.Start()

	fmt.Println("\n✅ Scheduler started successfully")
	printJobStats(sched)
	fmt.Println("\nPress Ctrl+C to stop")

	<-ctx.Done()

	fmt.Println("\nShutting down scheduler...")
	sched.Stop()
	fmt.Println("Scheduler stopped")

	return nil
}

func listJobs(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext()
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	sched, err := initScheduler(a)
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}

	printJobStats(sched)
	return nil
}

func runJob(cmd *cobra.Command, args []string) error {
	jobName := args[0]

	ctx, stop := signalContext()
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	sched, err := initScheduler(a)
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}

	fmt.Printf("Running job: %s\n", jobName)
	result, err := sched.RunJob(ctx, jobName)
	if err != nil {
		return fmt.Errorf("run job: %w", err)
	}

	if !result.Success {
		PrintError(fmt.Sprintf("%s failed after %.2fs: %s", jobName, result.Duration.Seconds(), result.Error))
		return fmt.Errorf("job %s failed", jobName)
	}
	PrintSuccess(fmt.Sprintf("%s completed in %.2fs", jobName, result.Duration.Seconds()))
	return nil
}

func printJobStats(sched *scheduler.Scheduler) {
	stats := sched.GetJobStats()

	fmt.Println("\nRegistered jobs:")
	for _, jobName := range sched.GetAllJobs() {
		stat := stats[jobName]
		fmt.Printf("📊 %s\n", jobName)
		fmt.Printf("   Schedule: %s\n", stat.Schedule)
		if stat.NextRun != nil {
			fmt.Printf("   Next Run: %s\n", stat.NextRun.Format("2006-01-02 15:04:05"))
		}
	}
}
