package model

import "time"

// SourceKind 快照数据来源
type SourceKind string

const (
	SourceGenerated SourceKind = "generated" // 外部调研成功
	SourceSample    SourceKind = "sample"    // 合成样例数据
)

// GeneratedAtLayout 与浏览器端 Date.toISOString 输出一致
const GeneratedAtLayout = "2006-01-02T15:04:05.000Z07:00"

// ProspectRecord 潜在客户
type ProspectRecord struct {
	Company    string   `json:"company" validate:"required"`
	Location   string   `json:"location"`
	Employees  string   `json:"employees"`
	Website    string   `json:"website"`
	LeadScore  int      `json:"leadScore" validate:"min=0,max=100"`
	PainPoints []string `json:"painPoints"`
}

// ContactRecord 联系人，与 ProspectRecord 按下标一一对应
type ContactRecord struct {
	Company  string `json:"company" validate:"required"`
	Contact  string `json:"contact"`
	Title    string `json:"title"`
	Verified bool   `json:"verified"`
}

// Metadata 快照元数据
type Metadata struct {
	GeneratedAt      string     `json:"generated_at"`
	Timezone         string     `json:"timezone"`
	ProspectsFound   int        `json:"prospects_found"`
	ContactsVerified int        `json:"contacts_verified"`
	Industry         string     `json:"industry"`
	DataSource       SourceKind `json:"data_source"`
	Origin           SourceKind `json:"origin"`
}

// TopicSnapshot 单个行业一次运行的结果，每次运行整体替换
type TopicSnapshot struct {
	Topic       string           `json:"industry" validate:"required"`
	DisplayName string           `json:"displayName"`
	Prospects   []ProspectRecord `json:"prospects" validate:"dive"`
	Contacts    []ContactRecord  `json:"contacts" validate:"dive"`
	Metadata    *Metadata        `json:"metadata,omitempty"`
	Source      SourceKind       `json:"-"`
}

// VerifiedContacts 统计已验证联系人数量
func (s *TopicSnapshot) VerifiedContacts() int {
	n := 0
	for _, c := range s.Contacts {
		if c.Verified {
			n++
		}
	}
	return n
}

// Stamp 根据快照自身内容生成元数据
func (s *TopicSnapshot) Stamp(now time.Time, timezone string) {
	s.Metadata = &Metadata{
		GeneratedAt:      now.UTC().Format(GeneratedAtLayout),
		Timezone:         timezone,
		ProspectsFound:   len(s.Prospects),
		ContactsVerified: s.VerifiedContacts(),
		Industry:         s.Topic,
		DataSource:       SourceGenerated,
		Origin:           s.Source,
	}
}

// RunSummary 一次运行的汇总，仅在运行期间存在
type RunSummary struct {
	TopicsRequested int
	TopicsProcessed int
	TotalProspects  int
	TotalContacts   int
	FailedTopics    []string
}

// ExitCode 全部行业成功时返回 0，否则返回 1
func (r *RunSummary) ExitCode() int {
	if len(r.FailedTopics) > 0 {
		return 1
	}
	return 0
}
