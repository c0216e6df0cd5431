package errors

import "errors"

// ── 跨模块共享错误 ──

var (
	// ErrSessionNotFound 会话不存在或已被丢弃
	ErrSessionNotFound = errors.New("会话不存在")
	// ErrSessionExpired 会话已过期（缓存 TTL 到期）
	ErrSessionExpired = errors.New("会话已过期，请重新创建")
)
