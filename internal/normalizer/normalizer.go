// Package normalizer 将外部调研结果转换为页面使用的快照格式。
package normalizer

import (
	"fmt"
	"strings"

	"github.com/rodytech/leadgen-demo-data/internal/catalog"
	"github.com/rodytech/leadgen-demo-data/internal/generator"
	"github.com/rodytech/leadgen-demo-data/internal/model"
)

type Normalizer struct {
	catalog *catalog.Catalog
	rnd     generator.Rand
}

func NewNormalizer(c *catalog.Catalog, rnd generator.Rand) *Normalizer {
	return &Normalizer{catalog: c, rnd: rnd}
}

// Normalize 截取前 count 条调研记录并生成对应的联系人。
// 外部评分被丢弃，线索评分重新随机生成。
func (n *Normalizer) Normalize(topic string, raw []model.RawProspect, count int) *model.TopicSnapshot {
	if count < 0 {
		count = 0
	}
	if len(raw) > count {
		raw = raw[:count]
	}

	snapshot := &model.TopicSnapshot{
		Topic:       topic,
		DisplayName: n.catalog.DisplayName(topic),
		Prospects:   make([]model.ProspectRecord, 0, len(raw)),
		Contacts:    make([]model.ContactRecord, 0, len(raw)),
		Source:      model.SourceGenerated,
	}

	for _, p := range raw {
		painPoints := p.PainPoints
		if painPoints == nil {
			painPoints = []string{}
		}
		snapshot.Prospects = append(snapshot.Prospects, model.ProspectRecord{
			Company:    p.CompanyName,
			Location:   p.Location,
			Employees:  fmt.Sprintf("~%s", p.EstimatedEmployees),
			Website:    stripProtocol(p.Website),
			LeadScore:  generator.LeadScore(n.rnd),
			PainPoints: painPoints,
		})
	}

	// 联系人单独生成，verified 与潜在客户的随机数无关
	for _, p := range raw {
		snapshot.Contacts = append(snapshot.Contacts, model.ContactRecord{
			Company:  p.CompanyName,
			Contact:  GuessContactEmail(p.Website),
			Title:    n.catalog.ContactTitle,
			Verified: generator.Verified(n.rnd),
		})
	}

	return snapshot
}

// GuessContactEmail 根据网站域名推测联系邮箱
func GuessContactEmail(website string) string {
	return "info@" + Domain(website)
}

// Domain 去掉协议、末尾斜杠和路径
func Domain(website string) string {
	domain := stripScheme(website)
	domain = strings.TrimSuffix(domain, "/")
	if i := strings.Index(domain, "/"); i >= 0 {
		domain = domain[:i]
	}
	return domain
}

// stripProtocol 各去掉一次 https:// 和 http://，与展示数据保持一致
func stripProtocol(website string) string {
	website = strings.Replace(website, "https://", "", 1)
	return strings.Replace(website, "http://", "", 1)
}

func stripScheme(website string) string {
	if strings.HasPrefix(website, "https://") {
		return website[len("https://"):]
	}
	return strings.TrimPrefix(website, "http://")
}
