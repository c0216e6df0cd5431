package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/scooter7/credo-etl/config"
	"github.com/scooter7/credo-etl/internal/api/handler"
	"github.com/scooter7/credo-etl/internal/api/middleware"
	"github.com/scooter7/credo-etl/internal/api/router"
	"github.com/scooter7/credo-etl/internal/pipeline"
	"github.com/scooter7/credo-etl/internal/repository"
	"github.com/scooter7/credo-etl/internal/service"
	"github.com/scooter7/credo-etl/internal/transform"
	"github.com/scooter7/credo-etl/pkg/database"
	"github.com/scooter7/credo-etl/pkg/jwt"
	applogger "github.com/scooter7/credo-etl/pkg/logger"
	"github.com/scooter7/credo-etl/pkg/redis"
)

const sweepInterval = 10 * time.Minute

func main() {
	// 1. 加载配置
	cfg, err := config.Load(os.Getenv("SPACE_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("应用启动中...",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
		zap.Bool("run_history", cfg.Feature.RunHistory),
		zap.Bool("ai_summary", cfg.Feature.AISummary),
	)

	rootCtx, stop := context.WithCancel(context.Background())
	defer stop()

	// 3. 会话存储：配置了 Redis 用快照缓存，否则使用进程内存
	var (
		rdb     *redis.Client
		store   pipeline.Store
		limiter middleware.RateLimiter
	)
	if cfg.Redis.Addr != "" {
		rdb, err = redis.NewClient(&cfg.Redis, logger)
		if err != nil {
			logger.Warn("Redis 连接失败，会话降级为进程内存存储", zap.Error(err))
			rdb = nil
		}
	}
	if rdb != nil {
		store = pipeline.NewRedisStore(rdb, cfg.Redis.SessionTTL)
		limiter = rdb
	} else {
		mem := pipeline.NewMemoryStore(cfg.Redis.SessionTTL)
		store = mem
		go sweepSessions(rootCtx, mem, logger)
	}

	// 4. 分析历史（可选）：连接数据库并执行迁移
	var repo *repository.Repository
	if cfg.Feature.RunHistory {
		db, err := database.NewDB(&cfg.Database, logger)
		if err != nil {
			logger.Fatal("数据库连接失败", zap.Error(err))
		}
		sqlDB, err := db.DB()
		if err != nil {
			logger.Fatal("获取底层 sql.DB 失败", zap.Error(err))
		}
		defer sqlDB.Close()
		if err := database.RunMigrations(sqlDB, logger); err != nil {
			logger.Fatal("数据库迁移失败", zap.Error(err))
		}
		repo = repository.NewRepository(db)
		logger.Info("分析历史已启用")
	}

	// 5. 列名同义词
	syn, err := transform.LoadSynonyms(cfg.Analysis.SynonymsFile)
	if err != nil {
		logger.Fatal("加载列名同义词失败", zap.String("path", cfg.Analysis.SynonymsFile), zap.Error(err))
	}

	// 6. 文字摘要生成器（可选）
	var gen service.TextGenerator
	if cfg.Feature.AISummary {
		gemini, err := service.NewGeminiGenerator(rootCtx, &cfg.AI)
		if err != nil {
			logger.Fatal("初始化摘要模型失败", zap.Error(err))
		}
		gen = gemini
	}

	// 7. 依赖注入: Store/Repository → Service → Handler
	jwtMgr := jwt.NewManager(&cfg.Auth)
	svc := service.NewService(cfg, store, repo, jwtMgr, transform.NewNormalizer(syn), gen, logger)
	h := handler.NewHandler(svc)

	// 8. 初始化路由
	engine := router.Setup(cfg, h, jwtMgr, limiter, logger)

	// 9. 启动 HTTP 服务器（优雅关闭）
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP 服务器异常", zap.Error(err))
		}
	}()

	// 10. 监听系统信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("收到关闭信号，开始优雅关闭...", zap.String("signal", sig.String()))
	stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	if rdb != nil {
		rdb.Close()
	}

	logger.Info("服务器已关闭")
}

// sweepSessions 定期清理内存存储中的过期会话
func sweepSessions(ctx context.Context, mem *pipeline.MemoryStore, logger *zap.Logger) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := mem.Sweep(); n > 0 {
				logger.Info("已清理过期会话", zap.Int("count", n))
			}
		}
	}
}
