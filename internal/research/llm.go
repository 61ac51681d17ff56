package research

import (
	"context"
	"fmt"

	"github.com/rodytech/leadgen-demo-data/internal/logger"
)

// prospectResearcher 通过大模型生成调研输出（便于测试注入 mock）
type prospectResearcher interface {
	ResearchProspects(ctx context.Context, topic, displayName string, count int) (string, error)
}

// LLMSource 使用兼容 OpenAI 的模型代替调研脚本
type LLMSource struct {
	researcher  prospectResearcher
	displayName func(topic string) string
}

func NewLLMSource(researcher prospectResearcher, displayName func(topic string) string) *LLMSource {
	return &LLMSource{researcher: researcher, displayName: displayName}
}

func (s *LLMSource) Name() string { return "llm" }

// Fetch 调用模型并按调研脚本的输出格式校验
func (s *LLMSource) Fetch(ctx context.Context, topic string, count int) Result {
	raw, err := s.researcher.ResearchProspects(ctx, topic, s.displayName(topic), count)
	if err != nil {
		logger.Warnf("[Research] %s 模型调研失败，使用样例数据: %v", topic, err)
		return Unavailable(fmt.Sprintf("llm research failed: %v", err))
	}

	records, err := ParseArtifact([]byte(raw))
	if err != nil {
		logger.Warnf("[Research] %s 模型输出无法解析，使用样例数据: %v", topic, err)
		return Unavailable(fmt.Sprintf("llm output unusable: %v", err))
	}

	logger.Infof("[Research] 模型返回 %s 的 %d 条潜在客户", topic, len(records))
	return Success(records)
}
