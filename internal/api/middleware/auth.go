package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/scooter7/credo-etl/pkg/jwt"
	"github.com/scooter7/credo-etl/pkg/response"
)

// SessionAuth 会话令牌认证中间件
// 从 Authorization: Bearer <token> 中提取会话令牌，令牌必须属于路径中的 :id 会话
func SessionAuth(jwtMgr *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, 10002, "缺少认证头")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, 10002, "认证头格式无效")
			c.Abort()
			return
		}

		claims, err := jwtMgr.ParseToken(parts[1])
		if err != nil {
			response.Unauthorized(c, 10002, "会话令牌无效或已过期")
			c.Abort()
			return
		}

		if claims.TokenType != "session" {
			response.Unauthorized(c, 10002, "令牌类型无效")
			c.Abort()
			return
		}

		if id := c.Param("id"); id != "" && id != claims.SessionID {
			response.Forbidden(c, 10003, "令牌与会话不匹配")
			c.Abort()
			return
		}

		c.Set("session_id", claims.SessionID)

		c.Next()
	}
}
