package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	ProviderScript = "script"
	ProviderLLM    = "llm"
	ProviderNone   = "none"
)

type Sock5Proxy struct {
	Host               string `yaml:"Host"`
	Port               int32  `yaml:"Port"`
	Enable             bool   `yaml:"Enable"`
	InsecureSkipVerify bool   `yaml:"InsecureSkipVerify"` // 仅用于调试自签名证书的代理
}

type Storage struct {
	DataDir       string `yaml:"DataDir"`       // 快照输出目录
	RetentionDays int    `yaml:"RetentionDays"` // 快照保留天数，默认 3
	Archive       bool   `yaml:"Archive"`       // 是否额外写入带日期的快照副本
}

type Generation struct {
	ProspectsPerTopic int      `yaml:"ProspectsPerTopic"` // 每个行业生成的潜在客户数量，5-10
	Timezone          string   `yaml:"Timezone"`          // 写入快照元数据的时区标签
	Topics            []string `yaml:"Topics"`            // 为空时使用目录中的全部行业
	CatalogFile       string   `yaml:"CatalogFile"`       // 可选，覆盖内置词汇表
}

type Research struct {
	Provider    string        `yaml:"Provider"`    // "script" / "llm" / "none"
	Interpreter string        `yaml:"Interpreter"` // 如 python3
	Script      string        `yaml:"Script"`      // 调研脚本路径
	WorkDir     string        `yaml:"WorkDir"`     // 脚本工作目录
	OutputDir   string        `yaml:"OutputDir"`   // 脚本输出目录，按行业分子目录
	Timeout     time.Duration `yaml:"Timeout"`     // 单次调研超时，超时后回退到样例数据
}

type LLM struct {
	BaseURL   string `yaml:"BaseURL"` // 兼容 OpenAI API 的端点
	APIKey    string `yaml:"APIKey"`
	Model     string `yaml:"Model"`
	MaxTokens int    `yaml:"MaxTokens"`
}

type Schedule struct {
	Cron string `yaml:"Cron"` // cron 表达式，如 "0 6 * * *"
}

type Ledger struct {
	Enable bool   `yaml:"Enable"`
	Path   string `yaml:"Path"` // sqlite 文件路径
}

type Log struct {
	Dir   string `yaml:"Dir"`
	Level string `yaml:"Level"`
}

type Config struct {
	Storage    Storage    `yaml:"Storage"`
	Generation Generation `yaml:"Generation"`
	Research   Research   `yaml:"Research"`
	LLM        LLM        `yaml:"LLM"`
	Sock5Proxy Sock5Proxy `yaml:"Sock5Proxy"`
	Schedule   Schedule   `yaml:"Schedule"`
	Ledger     Ledger     `yaml:"Ledger"`
	Log        Log        `yaml:"Log"`
}

// Default 返回默认配置，与参考数据脚本的常量保持一致
func Default() *Config {
	c := &Config{
		Storage: Storage{Archive: true},
	}
	c.applyDefaults()
	return c
}

// LoadFromFile 读取 YAML 配置；文件不存在时返回默认配置
func LoadFromFile(filename string) (*Config, error) {
	// .env 仅用于补充环境变量，不存在时忽略
	_ = godotenv.Load()

	data, err := os.ReadFile(filename)
	if errors.Is(err, fs.ErrNotExist) {
		c := Default()
		return c, c.Validate()
	}
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse 解析 YAML 内容，支持 ${VAR} 形式的环境变量引用
func Parse(data []byte) (*Config, error) {
	c := Config{Storage: Storage{Archive: true}}
	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), &c); err != nil {
		return nil, err
	}

	c.applyDefaults()

	// 验证配置
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.Storage.DataDir == "" {
		c.Storage.DataDir = "data"
	}
	if c.Storage.RetentionDays == 0 {
		c.Storage.RetentionDays = 3
	}
	if c.Generation.ProspectsPerTopic == 0 {
		c.Generation.ProspectsPerTopic = 7
	}
	if c.Generation.Timezone == "" {
		c.Generation.Timezone = "America/Chicago"
	}
	if c.Research.Provider == "" {
		c.Research.Provider = ProviderScript
	}
	if c.Research.Interpreter == "" {
		c.Research.Interpreter = "python3"
	}
	if c.Research.Script == "" {
		c.Research.Script = "../scripts/research_prospects.py"
	}
	if c.Research.WorkDir == "" {
		c.Research.WorkDir = ".."
	}
	if c.Research.OutputDir == "" {
		c.Research.OutputDir = "../prospects"
	}
	if c.Research.Timeout == 0 {
		c.Research.Timeout = 2 * time.Minute
	}
	if c.LLM.BaseURL == "" {
		c.LLM.BaseURL = "https://api.openai.com/v1"
	}
	if c.LLM.Model == "" {
		c.LLM.Model = "gpt-4o-mini"
	}
	if c.LLM.MaxTokens == 0 {
		c.LLM.MaxTokens = 4000
	}
	if c.Schedule.Cron == "" {
		c.Schedule.Cron = "0 6 * * *"
	}
	if c.Ledger.Path == "" {
		c.Ledger.Path = "state/runs.db"
	}
	if c.Log.Dir == "" {
		c.Log.Dir = "logs"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate 验证配置的有效性
func (c *Config) Validate() error {
	if c.Storage.RetentionDays < 0 {
		return fmt.Errorf("Storage.RetentionDays 必须 >= 0")
	}
	if c.Generation.ProspectsPerTopic < 0 || c.Generation.ProspectsPerTopic > 50 {
		return fmt.Errorf("Generation.ProspectsPerTopic 必须在 0 到 50 之间")
	}
	if _, err := time.LoadLocation(c.Generation.Timezone); err != nil {
		return fmt.Errorf("Generation.Timezone 无效: %w", err)
	}
	for _, topic := range c.Generation.Topics {
		if strings.TrimSpace(topic) == "" {
			return fmt.Errorf("Generation.Topics 不能包含空行业")
		}
	}

	switch c.Research.Provider {
	case ProviderScript, ProviderNone:
	case ProviderLLM:
		if c.LLM.APIKey == "" {
			return fmt.Errorf("LLM.APIKey 不能为空（当 Research.Provider 为 'llm' 时）")
		}
		if c.LLM.MaxTokens <= 0 {
			return fmt.Errorf("LLM.MaxTokens 必须大于 0")
		}
	default:
		return fmt.Errorf("Research.Provider 必须是 'script', 'llm' 或 'none'")
	}
	if c.Research.Timeout < 0 {
		return fmt.Errorf("Research.Timeout 必须 >= 0")
	}

	if c.Sock5Proxy.Enable && c.Sock5Proxy.Host == "" {
		return fmt.Errorf("Sock5Proxy.Host 不能为空（当 Sock5Proxy.Enable 为 true 时）")
	}
	if c.Ledger.Enable && c.Ledger.Path == "" {
		return fmt.Errorf("Ledger.Path 不能为空")
	}
	return nil
}

// Location 返回生成时区；配置已校验，失败时回退到 UTC
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Generation.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
