package dto

import "github.com/scooter7/credo-etl/internal/ingest"

// ── 会话模块 DTO ──

// SessionCreatedResponse 创建会话响应
type SessionCreatedResponse struct {
	ID        string `json:"id"`
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
}

// FileResponse 已上传文件概览
type FileResponse struct {
	Name     string             `json:"name"`
	Kind     string             `json:"kind"`
	Sheets   []ingest.SheetInfo `json:"sheets"`
	TextSize int                `json:"text_size,omitempty"` // 文档文本字节数
	Warnings []string           `json:"warnings,omitempty"`
}

// SessionStatusResponse 会话状态
type SessionStatusResponse struct {
	ID          string         `json:"id"`
	Files       []FileResponse `json:"files"`
	Tables      []string       `json:"tables"` // 已生成的数据表
	Transformed bool           `json:"transformed"`
	Analyzed    bool           `json:"analyzed"`
	CreatedAt   string         `json:"created_at"`
	UpdatedAt   string         `json:"updated_at"`
}
