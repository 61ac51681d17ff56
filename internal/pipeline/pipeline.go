// Package pipeline 按行业依次执行：调研或合成数据、归一化、写入快照，并汇总运行结果。
package pipeline

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rodytech/leadgen-demo-data/internal/catalog"
	"github.com/rodytech/leadgen-demo-data/internal/logger"
	"github.com/rodytech/leadgen-demo-data/internal/model"
	"github.com/rodytech/leadgen-demo-data/internal/research"
)

// snapshotWriter 持久化快照（便于测试注入 mock）
type snapshotWriter interface {
	Write(snapshot *model.TopicSnapshot) (string, error)
}

// sweeper 清理过期快照
type sweeper interface {
	Sweep() (int, error)
}

type generator interface {
	Generate(topic string, count int) *model.TopicSnapshot
}

type normalizer interface {
	Normalize(topic string, raw []model.RawProspect, count int) *model.TopicSnapshot
}

// Options 单次运行参数
type Options struct {
	Topic  string // 为空时处理全部行业
	DryRun bool   // 跳过清理和写入
	Count  int    // > 0 时覆盖配置中的数量
}

type Pipeline struct {
	dataDir    string
	count      int
	topics     []string
	catalog    *catalog.Catalog
	source     research.Source
	generator  generator
	normalizer normalizer
	writer     snapshotWriter
	sweeper    sweeper
}

func NewPipeline(
	dataDir string,
	count int,
	topics []string,
	c *catalog.Catalog,
	source research.Source,
	gen generator,
	norm normalizer,
	writer snapshotWriter,
	sw sweeper,
) *Pipeline {
	return &Pipeline{
		dataDir:    dataDir,
		count:      count,
		topics:     topics,
		catalog:    c,
		source:     source,
		generator:  gen,
		normalizer: norm,
		writer:     writer,
		sweeper:    sw,
	}
}

// Run 执行一次完整运行。只有无法创建数据目录时返回错误，单个行业失败记录在 RunSummary 中。
func (p *Pipeline) Run(ctx context.Context, opts Options) (*model.RunSummary, error) {
	count := p.count
	if opts.Count > 0 {
		count = opts.Count
	}

	logger.Infof("[Pipeline] 开始生成演示数据 (每个行业 %d 条, 调研方式 %s)", count, p.source.Name())

	if err := ensureDir(p.dataDir); err != nil {
		return nil, err
	}

	if !opts.DryRun {
		if _, err := p.sweeper.Sweep(); err != nil {
			logger.Warnf("[Pipeline] 清理过期快照失败: %v", err)
		}
	}

	var topics []catalog.Topic
	if opts.Topic != "" {
		topics = p.catalog.Select([]string{opts.Topic})
	} else {
		topics = p.catalog.Select(p.topics)
	}

	summary := &model.RunSummary{TopicsRequested: len(topics)}
	for _, topic := range topics {
		logger.Infof("[Pipeline] 处理 %s...", topic.DisplayName)

		snapshot, err := p.processTopic(ctx, topic.Key, count, opts.DryRun)
		if err != nil {
			logger.Errorf("[Pipeline] 处理 %s 失败: %v", topic.Key, err)
			summary.FailedTopics = append(summary.FailedTopics, topic.Key)
			continue
		}

		summary.TotalProspects += len(snapshot.Prospects)
		summary.TotalContacts += len(snapshot.Contacts)
		summary.TopicsProcessed++
	}

	logSummary(summary, p.dataDir, opts.DryRun)
	return summary, nil
}

// processTopic 获取单个行业的快照并写入
func (p *Pipeline) processTopic(ctx context.Context, topic string, count int, dryRun bool) (*model.TopicSnapshot, error) {
	snapshot := p.Resolve(ctx, topic, count)

	if dryRun {
		logger.Infof("[Pipeline] [DRY RUN] 将保存 %s 的 %d 个潜在客户", topic, len(snapshot.Prospects))
		return snapshot, nil
	}

	if _, err := p.writer.Write(snapshot); err != nil {
		return nil, err
	}
	return snapshot, nil
}

// Resolve 调研成功时归一化外部数据，否则生成样例数据
func (p *Pipeline) Resolve(ctx context.Context, topic string, count int) *model.TopicSnapshot {
	result := p.source.Fetch(ctx, topic, count)
	switch result.Kind {
	case research.ExternalSuccess:
		logger.Infof("[Pipeline] 已获取 %s 的 %d 条调研记录", topic, len(result.Records))
		return p.normalizer.Normalize(topic, result.Records, count)
	default:
		logger.Debugf("[Pipeline] %s 使用样例数据: %s", topic, result.Reason)
		return p.generator.Generate(topic, count)
	}
}

func ensureDir(dir string) error {
	if _, err := os.Stat(dir); err == nil {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("创建数据目录失败: %w", err)
	}
	logger.Infof("[Pipeline] 已创建数据目录: %s", dir)
	return nil
}

func logSummary(summary *model.RunSummary, dataDir string, dryRun bool) {
	line := strings.Repeat("=", 60)
	logger.Infof("[Pipeline] %s", line)
	logger.Infof("[Pipeline] 数据生成汇总")
	logger.Infof("[Pipeline] 已处理行业: %d/%d", summary.TopicsProcessed, summary.TopicsRequested)
	logger.Infof("[Pipeline] 潜在客户总数: %d", summary.TotalProspects)
	logger.Infof("[Pipeline] 联系人总数: %d", summary.TotalContacts)
	if len(summary.FailedTopics) > 0 {
		logger.Warnf("[Pipeline] 失败的行业: %s", strings.Join(summary.FailedTopics, ", "))
	}
	if dryRun {
		logger.Infof("[Pipeline] [DRY RUN] 未写入任何文件")
	} else {
		logger.Infof("[Pipeline] 数据保存在: %s", dataDir)
	}
	logger.Infof("[Pipeline] %s", line)
}
