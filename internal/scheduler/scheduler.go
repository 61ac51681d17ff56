package scheduler

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rodytech/leadgen-demo-data/internal/config"
	"github.com/rodytech/leadgen-demo-data/internal/logger"
	"github.com/rodytech/leadgen-demo-data/internal/model"
	"github.com/rodytech/leadgen-demo-data/internal/pipeline"
	"github.com/robfig/cron/v3"
)

// runner 执行一次完整的数据生成（便于测试注入 mock）
type runner interface {
	Run(ctx context.Context, opts pipeline.Options) (*model.RunSummary, error)
}

// RunLedger 记录每日运行状态，用于跳过已完成的运行
type RunLedger interface {
	GetOrCreate(ctx context.Context, runDate time.Time, status model.RunStatus) (*model.Run, error)
	MarkCompleted(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string, errorMsg string) error
}

type Scheduler struct {
	cron     *cron.Cron
	runner   runner
	ledger   RunLedger
	config   *config.Schedule
	location *time.Location
	now      func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
	mu     sync.Mutex
	runMu  sync.Mutex
	wg     sync.WaitGroup
}

// NewScheduler 创建调度器；ledger 为 nil 时每次触发都会执行
func NewScheduler(r runner, ledger RunLedger, cfg *config.Schedule, loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	return &Scheduler{
		cron:     cron.New(cron.WithLocation(loc)),
		runner:   r,
		ledger:   ledger,
		config:   cfg,
		location: loc,
		now:      time.Now,
	}
}

// Start 启动调度器
func (s *Scheduler) Start() error {
	s.mu.Lock()
	s.ctx, s.cancel = context.WithCancel(context.Background())
	ctx := s.ctx
	s.mu.Unlock()

	// 注册每日生成任务
	_, err := s.cron.AddFunc(s.config.Cron, func() { s.runDaily(ctx) })
	if err != nil {
		s.cancel()
		return fmt.Errorf("注册每日生成任务失败: %w", err)
	}

	s.cron.Start()
	logger.Infof("[Scheduler] 调度器已启动，每日生成任务: %s (%s)", s.config.Cron, s.location)

	// 启动时补跑当日任务
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		logger.Infof("[Scheduler] 检查当日运行记录")
		s.runDaily(ctx)
	}()

	return nil
}

// Stop 停止调度器，等待正在执行的任务退出
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()

	ctx := s.cron.Stop()
	<-ctx.Done()
	s.wg.Wait()
	logger.Infof("[Scheduler] 调度器已停止")
}

// runDaily 执行当日的数据生成（cron 触发或启动补跑）
func (s *Scheduler) runDaily(ctx context.Context) {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	select {
	case <-ctx.Done():
		logger.Infof("[Scheduler] 任务已取消，退出")
		return
	default:
	}

	now := s.now().In(s.location)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.location)

	var run *model.Run
	if s.ledger != nil {
		var err error
		run, err = s.ledger.GetOrCreate(ctx, today, model.RunStatusInProgress)
		if err != nil {
			logger.Errorf("[Scheduler] 获取或创建运行记录失败: %v", err)
			return
		}
		if run.Status == model.RunStatusCompleted {
			logger.Infof("[Scheduler] %s 的运行已完成，跳过", run.RunDate)
			return
		}
	}

	logger.Infof("[Scheduler] 开始生成 %s 的演示数据", today.Format("2006-01-02"))
	err := s.execute(ctx)
	if run == nil {
		if err != nil {
			logger.Errorf("[Scheduler] 演示数据生成失败: %v", err)
		}
		return
	}

	if err != nil {
		logger.Errorf("[Scheduler] 演示数据生成失败: %v", err)
		if markErr := s.ledger.MarkFailed(ctx, run.ID, err.Error()); markErr != nil {
			logger.Errorf("[Scheduler] 更新运行记录失败: %v", markErr)
		}
		return
	}
	if markErr := s.ledger.MarkCompleted(ctx, run.ID); markErr != nil {
		logger.Errorf("[Scheduler] 更新运行记录失败: %v", markErr)
		return
	}
	logger.Infof("[Scheduler] 每日生成任务完成")
}

// execute 运行一次数据生成，存在失败行业时返回错误
func (s *Scheduler) execute(ctx context.Context) error {
	summary, err := s.runner.Run(ctx, pipeline.Options{})
	if err != nil {
		return err
	}
	if summary.ExitCode() != 0 {
		return fmt.Errorf("failed topics: %s", strings.Join(summary.FailedTopics, ", "))
	}
	return nil
}
