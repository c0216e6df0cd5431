package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/scooter7/credo-etl/config"
	"github.com/scooter7/credo-etl/internal/api/handler"
	"github.com/scooter7/credo-etl/internal/api/middleware"
	"github.com/scooter7/credo-etl/pkg/jwt"
)

const (
	jsonBodyLimit   = 1 << 20
	defaultUploadMB = 20
)

// Setup 初始化并返回 Gin 路由引擎
// limiter 为 nil（未配置 Redis）时不启用限流
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, limiter middleware.RateLimiter, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	uploadMB := cfg.Server.MaxUploadMB
	if uploadMB <= 0 {
		uploadMB = defaultUploadMB
	}

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 创建会话无需令牌
		v1.POST("/sessions",
			middleware.RateLimit(limiter, 30, time.Minute),
			middleware.BodyLimit(jsonBodyLimit),
			h.Session.Create,
		)

		// 分析历史（run_history 关闭时返回 503）
		v1.GET("/runs", h.Run.List)

		// 需要会话令牌的路由
		sessions := v1.Group("/sessions/:id")
		sessions.Use(middleware.SessionAuth(jwtMgr))
		{
			sessions.GET("", h.Session.Get)
			sessions.DELETE("", h.Session.Delete)
			sessions.POST("/files",
				middleware.RateLimit(limiter, 60, time.Minute),
				middleware.BodyLimit(int64(uploadMB)<<20),
				h.Session.Upload,
			)
			sessions.POST("/transform", middleware.BodyLimit(jsonBodyLimit), h.Session.Transform)
			sessions.POST("/analyze", middleware.BodyLimit(jsonBodyLimit), h.Session.Analyze)
			sessions.GET("/tables/:name", h.Session.GetTable)
			sessions.GET("/export", h.Session.Export)
			sessions.POST("/summary",
				middleware.RateLimit(limiter, 10, time.Minute),
				middleware.BodyLimit(jsonBodyLimit),
				h.Session.Summary,
			)
		}
	}

	return r
}
