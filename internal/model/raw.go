package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// EmployeeEstimate 调研输出中的员工数，可能是数字也可能是字符串
type EmployeeEstimate string

func (e *EmployeeEstimate) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*e = EmployeeEstimate(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("estimated_employees 必须是数字或字符串: %w", err)
	}
	*e = EmployeeEstimate(n.String())
	return nil
}

// RawProspect 外部调研脚本输出的一条记录
type RawProspect struct {
	CompanyName        string           `json:"company_name"`
	Location           string           `json:"location"`
	EstimatedEmployees EmployeeEstimate `json:"estimated_employees"`
	Website            string           `json:"website"`
	PainPoints         []string         `json:"pain_points,omitempty"`
}

// ResearchArtifact 调研脚本写出的文件内容
type ResearchArtifact struct {
	Prospects []RawProspect `json:"prospects"`
}
