package generator

import (
	"math/rand"
	"testing"

	"github.com/rodytech/leadgen-demo-data/internal/catalog"
	"github.com/rodytech/leadgen-demo-data/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedRand 按顺序返回预设的随机数
type scriptedRand struct {
	ints   []int
	floats []float64
}

func (r *scriptedRand) Intn(n int) int {
	v := r.ints[0]
	r.ints = r.ints[1:]
	return v % n
}

func (r *scriptedRand) Float64() float64 {
	v := r.floats[0]
	r.floats = r.floats[1:]
	return v
}

func TestGenerate_Deterministic(t *testing.T) {
	rnd := &scriptedRand{
		// prefix, name, suffix, city, employees, leadScore, painPoints
		ints:   []int{0, 0, 0, 0, 25, 10, 1, 3, 9, 7, 8, 0, 29, 0},
		floats: []float64{0.9, 0.3},
	}
	g := NewGenerator(catalog.Default(), rnd)

	got := g.Generate("manufacturing", 2)

	require.Len(t, got.Prospects, 2)
	require.Len(t, got.Contacts, 2)
	assert.Equal(t, model.SourceSample, got.Source)
	assert.Equal(t, "Manufacturing", got.DisplayName)

	assert.Equal(t, model.ProspectRecord{
		Company:    "Precision Midwest Inc",
		Location:   "Des Moines, IA",
		Employees:  "~45",
		Website:    "precisionmidwestinc.com",
		LeadScore:  70,
		PainPoints: []string{"staffing shortages", "equipment downtime", "supply chain disruptions"},
	}, got.Prospects[0])
	assert.Equal(t, model.ContactRecord{
		Company:  "Precision Midwest Inc",
		Contact:  "precision.midwest@precisionmidwestinc.com",
		Title:    "Sales",
		Verified: true,
	}, got.Contacts[0])

	assert.Equal(t, model.ProspectRecord{
		Company:    "Metal Central Manufacturing",
		Location:   "Iowa City, IA",
		Employees:  "~20",
		Website:    "metalcentralmanufacturing.com",
		LeadScore:  89,
		PainPoints: []string{"staffing shortages", "equipment downtime"},
	}, got.Prospects[1])
	// 0.3 不大于阈值，视为未验证
	assert.False(t, got.Contacts[1].Verified)
	assert.Equal(t, "metal.central@metalcentralmanufacturing.com", got.Contacts[1].Contact)
}

func TestGenerate_Counts(t *testing.T) {
	g := NewGenerator(catalog.Default(), rand.New(rand.NewSource(42)))

	for _, topic := range []string{"manufacturing", "agriculture", "local-services", "healthcare", "real-estate", "aerospace"} {
		for _, n := range []int{0, 1, 7, 10} {
			got := g.Generate(topic, n)
			require.Len(t, got.Prospects, n)
			require.Len(t, got.Contacts, n)
			for i := range got.Prospects {
				assert.Equal(t, got.Prospects[i].Company, got.Contacts[i].Company)
				assert.GreaterOrEqual(t, got.Prospects[i].LeadScore, 60)
				assert.Less(t, got.Prospects[i].LeadScore, 90)
				assert.Contains(t, []int{2, 3}, len(got.Prospects[i].PainPoints))
			}
		}
	}
}

func TestGenerate_NegativeCount(t *testing.T) {
	g := NewGenerator(catalog.Default(), rand.New(rand.NewSource(1)))
	got := g.Generate("healthcare", -3)
	assert.Empty(t, got.Prospects)
	assert.Empty(t, got.Contacts)
}

func TestGenerate_UnknownTopicUsesManufacturing(t *testing.T) {
	c := catalog.Default()
	g := NewGenerator(c, rand.New(rand.NewSource(7)))

	got := g.Generate("aerospace", 20)
	assert.Equal(t, "aerospace", got.DisplayName)

	prefixes := c.Vocabularies["manufacturing"].Prefixes
	pool := c.Vocabularies["manufacturing"].PainPoints
	for _, p := range got.Prospects {
		assert.Contains(t, prefixes, firstWord(p.Company))
		assert.Equal(t, pool[:len(p.PainPoints)], p.PainPoints)
	}
}

func TestGenerate_VerifiedRate(t *testing.T) {
	g := NewGenerator(catalog.Default(), rand.New(rand.NewSource(2026)))
	got := g.Generate("healthcare", 10000)

	rate := float64(got.VerifiedContacts()) / float64(len(got.Contacts))
	assert.InDelta(t, 0.7, rate, 0.03)
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "agrihawkeyellc", Slug("Agri Hawkeye LLC"))
	assert.Equal(t, "abc123", Slug("A.B-C 1_2/3!"))
}

func firstWord(s string) string {
	for i, r := range s {
		if r == ' ' {
			return s[:i]
		}
	}
	return s
}
