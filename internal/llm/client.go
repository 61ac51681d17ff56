package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rodytech/leadgen-demo-data/internal/config"
	"github.com/rodytech/leadgen-demo-data/internal/logger"
	"github.com/sashabaranov/go-openai"
)

// openAIClientInterface 定义 OpenAI 客户端接口，便于测试
type openAIClientInterface interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type Client struct {
	config       *config.LLM
	openaiClient openAIClientInterface
	timeout      time.Duration
}

// defaultTimeout 未配置调研超时时单次请求的超时
const defaultTimeout = 2 * time.Minute

// NewClient 创建客户端；timeout <= 0 时使用 defaultTimeout，transport 为 nil 时使用默认传输层
func NewClient(cfg *config.LLM, timeout time.Duration, transport *http.Transport) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	openaiConfig := openai.DefaultConfig(cfg.APIKey)
	openaiConfig.BaseURL = cfg.BaseURL
	if transport != nil {
		openaiConfig.HTTPClient = &http.Client{Transport: transport}
	}

	return &Client{
		config:       cfg,
		openaiClient: openai.NewClientWithConfig(openaiConfig),
		timeout:      timeout,
	}
}

// Timeout 单次调研请求的超时
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

const researchSystemPrompt = `You research small and mid-sized businesses in Iowa for a B2B lead generation demo.
Return strict JSON only, in this shape:
{"prospects": [{"company_name": "...", "location": "City, IA", "estimated_employees": 45, "website": "https://...", "pain_points": ["...", "..."]}]}
Do not add commentary or markdown.`

// buildResearchPrompt 构造用户提示词
func buildResearchPrompt(topic, displayName string, count int) string {
	return fmt.Sprintf("Industry: %s (%s)\nNumber of prospects: %d\nList plausible businesses with 20-120 employees and 2-3 operational pain points each.",
		displayName, topic, count)
}

// ResearchProspects 请求模型生成调研输出，返回 JSON 字符串
func (c *Client) ResearchProspects(ctx context.Context, topic, displayName string, count int) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model: c.config.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: researchSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildResearchPrompt(topic, displayName, count)},
		},
		Temperature: 0.7,
		MaxTokens:   c.config.MaxTokens,
	}

	logger.Debugf("[LLM] 请求 %s 的调研数据，模型 %s", topic, c.config.Model)
	resp, err := c.openaiClient.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("调用 LLM API 失败: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("LLM API 返回空结果")
	}

	return stripCodeFence(resp.Choices[0].Message.Content), nil
}

// stripCodeFence 去掉模型可能包裹的 ```json 代码块
func stripCodeFence(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content)
}
