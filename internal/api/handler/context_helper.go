package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/scooter7/credo-etl/pkg/response"
)

// MustGetSessionID 从 Gin 上下文中安全提取 session_id。
// 如果会话令牌中间件未注入 session_id，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetSessionID(c *gin.Context) (string, bool) {
	v, exists := c.Get("session_id")
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return s, true
}
