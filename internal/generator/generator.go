// Package generator 在没有真实调研数据时合成演示用的潜在客户和联系人。
package generator

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/rodytech/leadgen-demo-data/internal/catalog"
	"github.com/rodytech/leadgen-demo-data/internal/model"
)

// Rand 随机源，*math/rand.Rand 满足该接口
type Rand interface {
	Intn(n int) int
	Float64() float64
}

const (
	minEmployees   = 20
	employeeSpread = 100
	minLeadScore   = 60
	leadScoreRange = 30
	// verifiedCutoff 随机数大于该值时联系人视为已验证（约 70%）
	verifiedCutoff = 0.3
)

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]`)

type Generator struct {
	catalog *catalog.Catalog
	rnd     Rand
}

func NewGenerator(c *catalog.Catalog, rnd Rand) *Generator {
	return &Generator{catalog: c, rnd: rnd}
}

// Generate 为行业生成 count 条潜在客户和联系人，count <= 0 时返回空快照
func (g *Generator) Generate(topic string, count int) *model.TopicSnapshot {
	if count < 0 {
		count = 0
	}

	vocab := g.catalog.Vocabulary(topic)
	snapshot := &model.TopicSnapshot{
		Topic:       topic,
		DisplayName: g.catalog.DisplayName(topic),
		Prospects:   make([]model.ProspectRecord, 0, count),
		Contacts:    make([]model.ContactRecord, 0, count),
		Source:      model.SourceSample,
	}

	for i := 0; i < count; i++ {
		prefix := pick(g.rnd, vocab.Prefixes)
		name := pick(g.rnd, g.catalog.CompanyNames)
		suffix := pick(g.rnd, g.catalog.CompanySuffixes)
		company := fmt.Sprintf("%s %s %s", prefix, name, suffix)
		city := pick(g.rnd, g.catalog.Cities)
		employees := g.rnd.Intn(employeeSpread) + minEmployees
		website := Slug(company) + g.catalog.WebsiteTLD

		snapshot.Prospects = append(snapshot.Prospects, model.ProspectRecord{
			Company:    company,
			Location:   fmt.Sprintf("%s, %s", city, g.catalog.StateCode),
			Employees:  fmt.Sprintf("~%d", employees),
			Website:    website,
			LeadScore:  LeadScore(g.rnd),
			PainPoints: g.painPoints(vocab),
		})

		snapshot.Contacts = append(snapshot.Contacts, model.ContactRecord{
			Company:  company,
			Contact:  strings.ToLower(fmt.Sprintf("%s.%s@%s", prefix, name, website)),
			Title:    g.catalog.ContactTitle,
			Verified: Verified(g.rnd),
		})
	}

	return snapshot
}

// painPoints 取词汇表前 2 或 3 个痛点，保持原有顺序
func (g *Generator) painPoints(vocab catalog.Vocabulary) []string {
	k := g.rnd.Intn(2) + 2
	if k > len(vocab.PainPoints) {
		k = len(vocab.PainPoints)
	}
	return append([]string{}, vocab.PainPoints[:k]...)
}

// Slug 小写后去掉所有非字母数字字符
func Slug(s string) string {
	return nonAlphanumeric.ReplaceAllString(strings.ToLower(s), "")
}

// LeadScore 返回 [60, 90) 之间的线索评分
func LeadScore(rnd Rand) int {
	return rnd.Intn(leadScoreRange) + minLeadScore
}

// Verified 以约 70% 的概率返回 true
func Verified(rnd Rand) bool {
	return rnd.Float64() > verifiedCutoff
}

func pick(rnd Rand, items []string) string {
	if len(items) == 0 {
		return ""
	}
	return items[rnd.Intn(len(items))]
}
