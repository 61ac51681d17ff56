package research

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rodytech/leadgen-demo-data/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArtifact(t *testing.T) {
	data := []byte(`{"prospects":[
		{"company_name":"Grain Valley Co-op","location":"Ames, IA","estimated_employees":60,"website":"https://grainvalley.coop","pain_points":["seasonal planning"]},
		{"company_name":"Field State LLC","location":"Dubuque, IA","estimated_employees":"~40","website":"fieldstate.com"}
	]}`)

	got, err := ParseArtifact(data)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, model.RawProspect{
		CompanyName:        "Grain Valley Co-op",
		Location:           "Ames, IA",
		EstimatedEmployees: "60",
		Website:            "https://grainvalley.coop",
		PainPoints:         []string{"seasonal planning"},
	}, got[0])
	assert.Equal(t, model.EmployeeEstimate("~40"), got[1].EstimatedEmployees)
	assert.Nil(t, got[1].PainPoints)
}

func TestParseArtifact_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"不是 JSON", `not json`},
		{"缺少 prospects", `{"results":[]}`},
		{"prospects 不是数组", `{"prospects":{}}`},
		{"缺少 website", `{"prospects":[{"company_name":"A","location":"B","estimated_employees":1}]}`},
		{"员工数类型错误", `{"prospects":[{"company_name":"A","location":"B","estimated_employees":true,"website":"a.com"}]}`},
		{"痛点类型错误", `{"prospects":[{"company_name":"A","location":"B","estimated_employees":1,"website":"a.com","pain_points":[1]}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseArtifact([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestParseArtifact_SchemaErrorFields(t *testing.T) {
	_, err := ParseArtifact([]byte(`{"prospects":[{"location":"B","estimated_employees":1,"website":"a.com"}]}`))
	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.NotEmpty(t, schemaErr.Fields)
	assert.Contains(t, err.Error(), "company_name")
}

func TestLatestArtifact(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"2026-10-16-prospects.json",
		"2026-10-18-prospects.json",
		"2026-10-17-prospects.json",
		"2026-10-19-notes.json",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(`{}`), 0644))
	}

	got, err := LatestArtifact(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "2026-10-18-prospects.json"), got)
}

func TestLatestArtifact_Missing(t *testing.T) {
	_, err := LatestArtifact(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)

	_, err = LatestArtifact(t.TempDir())
	assert.Error(t, err)
}
