// Package catalog 保存生成演示数据所需的静态词汇表：行业列表、城市、公司名片段和痛点。
// Catalog 在构造时传入生成器和驱动，运行期间不会被修改。
package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Topic 行业
type Topic struct {
	Key         string `yaml:"Key"`
	DisplayName string `yaml:"DisplayName"`
}

// Vocabulary 行业专属词汇
type Vocabulary struct {
	Prefixes   []string `yaml:"Prefixes"`
	PainPoints []string `yaml:"PainPoints"`
}

type Catalog struct {
	Topics          []Topic               `yaml:"Topics"`
	Cities          []string              `yaml:"Cities"`
	StateCode       string                `yaml:"StateCode"`
	CompanyNames    []string              `yaml:"CompanyNames"`
	CompanySuffixes []string              `yaml:"CompanySuffixes"`
	Vocabularies    map[string]Vocabulary `yaml:"Vocabularies"`
	DefaultTopic    string                `yaml:"DefaultTopic"` // 未知行业回退使用的词汇表
	WebsiteTLD      string                `yaml:"WebsiteTLD"`
	ContactTitle    string                `yaml:"ContactTitle"`
}

// Default 返回内置词汇表的副本
func Default() *Catalog {
	return &Catalog{
		Topics: []Topic{
			{Key: "manufacturing", DisplayName: "Manufacturing"},
			{Key: "agriculture", DisplayName: "Agriculture"},
			{Key: "local-services", DisplayName: "Local Services"},
			{Key: "healthcare", DisplayName: "Healthcare"},
			{Key: "real-estate", DisplayName: "Real Estate"},
		},
		Cities: []string{
			"Des Moines", "Cedar Rapids", "Davenport", "Sioux City",
			"Waterloo", "Dubuque", "Council Bluffs", "Ames", "Iowa City",
		},
		StateCode: "IA",
		CompanyNames: []string{
			"Midwest", "Heartland", "Prairie", "Hawkeye", "Cedar", "River", "Valley", "State", "Iowa", "Central",
		},
		CompanySuffixes: []string{
			"Inc", "LLC", "Company", "Corp", "Industries", "Solutions", "Group", "Manufacturing",
		},
		Vocabularies: map[string]Vocabulary{
			"manufacturing": {
				Prefixes:   []string{"Precision", "Advanced", "Quality", "Metal", "Custom", "Industrial"},
				PainPoints: []string{"staffing shortages", "equipment downtime", "supply chain disruptions"},
			},
			"agriculture": {
				Prefixes:   []string{"Agri", "Farm", "Harvest", "Grain", "Crop", "Field"},
				PainPoints: []string{"seasonal planning", "equipment maintenance", "supply chain management"},
			},
			"healthcare": {
				Prefixes:   []string{"Health", "Care", "Medical", "Wellness", "Clinical"},
				PainPoints: []string{"patient follow-up", "administrative burden", "patient scheduling"},
			},
			"real-estate": {
				Prefixes:   []string{"Premier", "Elite", "Gateway", "Horizon", "Property"},
				PainPoints: []string{"lead generation", "property showings", "client communication"},
			},
			"local-services": {
				Prefixes:   []string{"Expert", "Professional", "Master", "Elite", "Quality"},
				PainPoints: []string{"customer acquisition", "scheduling management", "marketing effectiveness"},
			},
		},
		DefaultTopic: "manufacturing",
		WebsiteTLD:   ".com",
		ContactTitle: "Sales",
	}
}

// LoadFromFile 读取 YAML 词汇表，未填写的字段沿用内置值
func LoadFromFile(filename string) (*Catalog, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	c := Default()
	override := Catalog{}
	if err := yaml.Unmarshal(data, &override); err != nil {
		return nil, err
	}
	c.merge(&override)

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Catalog) merge(o *Catalog) {
	if len(o.Topics) > 0 {
		c.Topics = o.Topics
	}
	if len(o.Cities) > 0 {
		c.Cities = o.Cities
	}
	if o.StateCode != "" {
		c.StateCode = o.StateCode
	}
	if len(o.CompanyNames) > 0 {
		c.CompanyNames = o.CompanyNames
	}
	if len(o.CompanySuffixes) > 0 {
		c.CompanySuffixes = o.CompanySuffixes
	}
	for key, vocab := range o.Vocabularies {
		c.Vocabularies[key] = vocab
	}
	if o.DefaultTopic != "" {
		c.DefaultTopic = o.DefaultTopic
	}
	if o.WebsiteTLD != "" {
		c.WebsiteTLD = o.WebsiteTLD
	}
	if o.ContactTitle != "" {
		c.ContactTitle = o.ContactTitle
	}
}

// Validate 检查生成器依赖的表不为空
func (c *Catalog) Validate() error {
	if len(c.Cities) == 0 {
		return fmt.Errorf("Cities 不能为空")
	}
	if len(c.CompanyNames) == 0 {
		return fmt.Errorf("CompanyNames 不能为空")
	}
	if len(c.CompanySuffixes) == 0 {
		return fmt.Errorf("CompanySuffixes 不能为空")
	}
	fallback, ok := c.Vocabularies[c.DefaultTopic]
	if !ok {
		return fmt.Errorf("DefaultTopic %q 缺少词汇表", c.DefaultTopic)
	}
	if len(fallback.Prefixes) == 0 {
		return fmt.Errorf("DefaultTopic %q 的 Prefixes 不能为空", c.DefaultTopic)
	}
	for key, vocab := range c.Vocabularies {
		if len(vocab.Prefixes) == 0 {
			return fmt.Errorf("行业 %q 的 Prefixes 不能为空", key)
		}
	}
	return nil
}

// Vocabulary 返回行业词汇表，未知行业回退到 DefaultTopic
func (c *Catalog) Vocabulary(key string) Vocabulary {
	if vocab, ok := c.Vocabularies[key]; ok {
		return vocab
	}
	return c.Vocabularies[c.DefaultTopic]
}

// Lookup 按 key 查找行业
func (c *Catalog) Lookup(key string) (Topic, bool) {
	for _, t := range c.Topics {
		if t.Key == key {
			return t, true
		}
	}
	return Topic{}, false
}

// DisplayName 返回行业展示名，未配置时直接使用 key
func (c *Catalog) DisplayName(key string) string {
	if t, ok := c.Lookup(key); ok && t.DisplayName != "" {
		return t.DisplayName
	}
	return key
}

// Select 根据 key 列表挑选行业，保持传入顺序；keys 为空时返回全部行业
func (c *Catalog) Select(keys []string) []Topic {
	if len(keys) == 0 {
		return append([]Topic(nil), c.Topics...)
	}
	topics := make([]Topic, 0, len(keys))
	for _, key := range keys {
		topics = append(topics, Topic{Key: key, DisplayName: c.DisplayName(key)})
	}
	return topics
}
