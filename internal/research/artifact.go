package research

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rodytech/leadgen-demo-data/internal/model"
	"github.com/xeipuuv/gojsonschema"
)

// ArtifactSuffix 调研脚本输出文件的后缀，文件名以日期开头
const ArtifactSuffix = "-prospects.json"

const artifactSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["prospects"],
  "properties": {
    "prospects": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["company_name", "location", "estimated_employees", "website"],
        "properties": {
          "company_name": {"type": "string", "minLength": 1},
          "location": {"type": "string"},
          "estimated_employees": {"type": ["number", "string"]},
          "website": {"type": "string"},
          "pain_points": {"type": "array", "items": {"type": "string"}}
        }
      }
    }
  }
}`

var artifactSchemaLoader = gojsonschema.NewStringLoader(artifactSchema)

// SchemaError 调研输出不符合约定格式
type SchemaError struct {
	Fields []string
}

func (e *SchemaError) Error() string {
	return "artifact schema validation failed: " + strings.Join(e.Fields, "; ")
}

// ParseArtifact 校验并解析调研输出
func ParseArtifact(data []byte) ([]model.RawProspect, error) {
	result, err := gojsonschema.Validate(artifactSchemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, fmt.Errorf("parse artifact: %w", err)
	}
	if !result.Valid() {
		fields := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			fields = append(fields, fmt.Sprintf("%s: %s", desc.Field(), desc.Description()))
		}
		return nil, &SchemaError{Fields: fields}
	}

	var artifact model.ResearchArtifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("decode artifact: %w", err)
	}
	return artifact.Prospects, nil
}

// LatestArtifact 返回目录中文件名字典序最大的调研输出
func LatestArtifact(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ArtifactSuffix) {
			continue
		}
		names = append(names, entry.Name())
	}
	if len(names) == 0 {
		return "", fmt.Errorf("no %s file in %s", ArtifactSuffix, dir)
	}

	sort.Strings(names)
	return filepath.Join(dir, names[len(names)-1]), nil
}

// LoadLatestArtifact 读取并解析目录中最新的调研输出
func LoadLatestArtifact(dir string) ([]model.RawProspect, string, error) {
	path, err := LatestArtifact(dir)
	if err != nil {
		return nil, "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, err
	}
	records, err := ParseArtifact(data)
	return records, path, err
}
