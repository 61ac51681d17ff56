// Package research 从外部调研协作者获取真实的潜在客户数据。
// 协作者不可用时不会返回错误，而是返回 ExternalUnavailable，由调用方回退到合成数据。
package research

import (
	"context"

	"github.com/rodytech/leadgen-demo-data/internal/model"
)

// Kind 调研结果类型
type Kind int

const (
	ExternalUnavailable Kind = iota
	ExternalSuccess
)

func (k Kind) String() string {
	if k == ExternalSuccess {
		return "success"
	}
	return "unavailable"
}

// Result 调研结果：成功时携带原始记录，不可用时携带原因
type Result struct {
	Kind    Kind
	Records []model.RawProspect
	Reason  string
}

// Success 构造成功结果
func Success(records []model.RawProspect) Result {
	return Result{Kind: ExternalSuccess, Records: records}
}

// Unavailable 构造不可用结果
func Unavailable(reason string) Result {
	return Result{Kind: ExternalUnavailable, Reason: reason}
}

// Source 外部调研协作者
type Source interface {
	Name() string
	Fetch(ctx context.Context, topic string, count int) Result
}

// NoneSource 不做外部调研，始终返回不可用
type NoneSource struct{}

func (NoneSource) Name() string { return "none" }

func (NoneSource) Fetch(ctx context.Context, topic string, count int) Result {
	return Unavailable("external research disabled")
}
