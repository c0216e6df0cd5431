package dto

import (
	"github.com/scooter7/credo-etl/internal/model"
	"github.com/scooter7/credo-etl/internal/pipeline"
	"github.com/scooter7/credo-etl/internal/transform"
)

// ── 标准化 / 分析模块 DTO ──

// TransformRequest 标准化请求；lookup_file 为空时自动识别对照表
type TransformRequest struct {
	LookupFile    string                   `json:"lookup_file"`
	LookupSheet   string                   `json:"lookup_sheet"`
	LookupColumns *transform.LookupColumns `json:"lookup_columns"`
}

// TransformResponse 标准化结果
type TransformResponse struct {
	*pipeline.TransformReport
	Tables []string `json:"tables"`
}

// AnalyzeRequest 分析请求；standard_hours_per_week 为 0 时使用配置值
type AnalyzeRequest struct {
	StandardHoursPerWeek float64 `json:"standard_hours_per_week" binding:"omitempty,gt=0,lte=80"`
	IncludeUndatedRows   *bool   `json:"include_undated_rows"`
}

// AnalyzeResponse 分析结果概览
type AnalyzeResponse struct {
	StandardHours       float64                    `json:"standard_hours"`
	Rooms               int                        `json:"rooms"`
	RoomConflicts       int                        `json:"room_conflicts"`
	InstructorConflicts int                        `json:"instructor_conflicts"`
	Summary             []model.UtilizationSummary `json:"utilization_summary"`
}

// SummaryRequest 文字摘要请求
type SummaryRequest struct {
	Notes string `json:"notes" binding:"max=2000"`
}

// SummaryResponse 文字摘要
type SummaryResponse struct {
	Model string `json:"model"`
	Text  string `json:"text"`
}
