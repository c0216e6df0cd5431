package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/scooter7/credo-etl/config"
	"github.com/scooter7/credo-etl/internal/pipeline"
	"github.com/scooter7/credo-etl/internal/repository"
	"github.com/scooter7/credo-etl/internal/transform"
	"github.com/scooter7/credo-etl/pkg/jwt"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Session  SessionService
	Analysis AnalysisService
	Export   ExportService
	Summary  SummaryService
	Run      RunService
}

// NewService 创建 Service 聚合
//
// repo 为 nil 时分析历史关闭；gen 为 nil 时文字摘要关闭。
func NewService(
	cfg *config.Config,
	store pipeline.Store,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	normalizer *transform.Normalizer,
	gen TextGenerator,
	logger *zap.Logger,
) *Service {
	locks := pipeline.NewLocks()
	runSvc := NewRunService(repo, cfg.Feature.RunHistory, logger)
	return &Service{
		Session:  NewSessionService(store, locks, jwtMgr, logger),
		Analysis: NewAnalysisService(&cfg.Analysis, normalizer, store, locks, logger),
		Export:   NewExportService(store, runSvc, logger),
		Summary:  NewSummaryService(store, gen, cfg.AI.Timeout, logger),
		Run:      runSvc,
	}
}

// ── 会话读写 ──

// sessionAccess 会话加载与"加锁-读取-修改-保存"流程
type sessionAccess struct {
	store pipeline.Store
	locks *pipeline.Locks
}

func newSessionAccess(store pipeline.Store, locks *pipeline.Locks) *sessionAccess {
	if locks == nil {
		locks = pipeline.NewLocks()
	}
	return &sessionAccess{store: store, locks: locks}
}

func (a *sessionAccess) load(ctx context.Context, id string) (*pipeline.Session, error) {
	return a.store.Get(ctx, id)
}

// update 在会话写锁内执行 fn，成功后保存快照
func (a *sessionAccess) update(ctx context.Context, id string, fn func(s *pipeline.Session) error) (*pipeline.Session, error) {
	unlock := a.locks.Lock(id)
	defer unlock()

	s, err := a.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(s); err != nil {
		return nil, err
	}
	if err := a.store.Save(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}
