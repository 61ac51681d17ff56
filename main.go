package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rodytech/leadgen-demo-data/internal/config"
	"github.com/rodytech/leadgen-demo-data/internal/logger"
	"github.com/rodytech/leadgen-demo-data/internal/pipeline"
	"github.com/rodytech/leadgen-demo-data/internal/scheduler"
	"github.com/rodytech/leadgen-demo-data/internal/svc"

	"github.com/spf13/cobra"
)

var (
	configFile string
	topic      string
	dryRun     bool
	count      int
	exitCode   int
)

var rootCmd = &cobra.Command{
	Use:   "leadgen-demo",
	Short: "Refresh the lead generation demo data",
	Long: `leadgen-demo produces one JSON snapshot per industry for the lead generation demo page.

Each industry is researched through the configured collaborator when available and
falls back to synthetic sample data otherwise. Snapshots older than the retention
window are removed before new ones are written.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          runOnce,
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run the generator on the configured cron schedule",
	RunE:  runSchedule,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "f", "etc/config.yaml", "the config file")

	rootCmd.Flags().StringVarP(&topic, "topic", "t", "", "only process this industry")
	rootCmd.Flags().StringVar(&topic, "industry", "", "alias of --topic")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "generate without sweeping or writing files")
	rootCmd.Flags().IntVar(&count, "count", 0, "prospects per industry (overrides config)")

	rootCmd.AddCommand(scheduleCmd)
}

func setup() (*svc.ServiceContext, error) {
	// 读取配置文件
	c, err := config.LoadFromFile(configFile)
	if err != nil {
		return nil, err
	}

	if err := logger.Setup(c.Log.Dir, c.Log.Level); err != nil {
		logger.Warnf("初始化日志文件失败, %v", err)
	}

	// 创建服务上下文
	return svc.NewServiceContext(c)
}

func runOnce(cmd *cobra.Command, args []string) error {
	svcCtx, err := setup()
	if err != nil {
		return err
	}
	defer svcCtx.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	summary, err := svcCtx.Pipeline.Run(ctx, pipeline.Options{
		Topic:  topic,
		DryRun: dryRun,
		Count:  count,
	})
	if err != nil {
		return err
	}
	exitCode = summary.ExitCode()
	return nil
}

func runSchedule(cmd *cobra.Command, args []string) error {
	svcCtx, err := setup()
	if err != nil {
		return err
	}
	defer svcCtx.Close()

	var ledger scheduler.RunLedger
	if svcCtx.RunModel != nil {
		ledger = svcCtx.RunModel
	}

	// 创建并启动调度器
	schedulerInstance := scheduler.NewScheduler(
		svcCtx.Pipeline,
		ledger,
		&svcCtx.Config.Schedule,
		svcCtx.Config.Location(),
	)
	if err := schedulerInstance.Start(); err != nil {
		return err
	}

	// 等待程序退出
	ch := make(chan os.Signal, 2)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch

	// 优雅关闭
	logger.Infof("正在关闭服务...")
	schedulerInstance.Stop()
	logger.Infof("服务已停止")
	return nil
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		logger.Errorf("运行失败, %v", err)
		os.Exit(1)
	}
	os.Exit(exitCode)
}
