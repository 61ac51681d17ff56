package normalizer

import (
	"encoding/json"
	"math/rand"
	"testing"

	"github.com/rodytech/leadgen-demo-data/internal/catalog"
	"github.com/rodytech/leadgen-demo-data/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

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

func TestNormalize(t *testing.T) {
	var artifact model.ResearchArtifact
	require.NoError(t, json.Unmarshal([]byte(`{"prospects":[
		{"company_name":"Cedar Valley Clinic","location":"Waterloo, IA","estimated_employees":45,"website":"https://cedarvalleyclinic.com/about","pain_points":["patient scheduling"]},
		{"company_name":"River Health","location":"Ames, IA","estimated_employees":"50-80","website":"http://riverhealth.org/"}
	]}`), &artifact))

	n := NewNormalizer(catalog.Default(), &scriptedRand{ints: []int{5, 29}, floats: []float64{0.31, 0.1}})
	got := n.Normalize("healthcare", artifact.Prospects, 7)

	assert.Equal(t, "Healthcare", got.DisplayName)
	assert.Equal(t, model.SourceGenerated, got.Source)
	require.Len(t, got.Prospects, 2)
	require.Len(t, got.Contacts, 2)

	assert.Equal(t, model.ProspectRecord{
		Company:    "Cedar Valley Clinic",
		Location:   "Waterloo, IA",
		Employees:  "~45",
		Website:    "cedarvalleyclinic.com/about",
		LeadScore:  65,
		PainPoints: []string{"patient scheduling"},
	}, got.Prospects[0])
	assert.Equal(t, "~50-80", got.Prospects[1].Employees)
	assert.Equal(t, "riverhealth.org/", got.Prospects[1].Website)
	assert.Equal(t, 89, got.Prospects[1].LeadScore)
	assert.Equal(t, []string{}, got.Prospects[1].PainPoints)

	assert.Equal(t, model.ContactRecord{
		Company:  "Cedar Valley Clinic",
		Contact:  "info@cedarvalleyclinic.com",
		Title:    "Sales",
		Verified: true,
	}, got.Contacts[0])
	assert.Equal(t, "info@riverhealth.org", got.Contacts[1].Contact)
	assert.False(t, got.Contacts[1].Verified)
}

func TestNormalize_TruncatesToCount(t *testing.T) {
	raw := make([]model.RawProspect, 12)
	for i := range raw {
		raw[i] = model.RawProspect{CompanyName: string(rune('A' + i)), Website: "example.com"}
	}

	n := NewNormalizer(catalog.Default(), rand.New(rand.NewSource(3)))
	got := n.Normalize("agriculture", raw, 7)

	require.Len(t, got.Prospects, 7)
	require.Len(t, got.Contacts, 7)
	for i := range got.Prospects {
		assert.Equal(t, raw[i].CompanyName, got.Prospects[i].Company)
		assert.Equal(t, got.Prospects[i].Company, got.Contacts[i].Company)
		assert.GreaterOrEqual(t, got.Prospects[i].LeadScore, 60)
		assert.Less(t, got.Prospects[i].LeadScore, 90)
	}

	assert.Empty(t, n.Normalize("agriculture", raw, 0).Prospects)
}

func TestDomain(t *testing.T) {
	tests := []struct {
		website string
		want    string
	}{
		{"https://example.com", "example.com"},
		{"http://example.com/", "example.com"},
		{"example.com/contact/us", "example.com"},
		{"https://shop.example.com/", "shop.example.com"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.website, func(t *testing.T) {
			assert.Equal(t, tt.want, Domain(tt.website))
		})
	}
}
