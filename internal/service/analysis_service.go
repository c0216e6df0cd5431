package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/scooter7/credo-etl/config"
	"github.com/scooter7/credo-etl/internal/analysis"
	"github.com/scooter7/credo-etl/internal/dto"
	"github.com/scooter7/credo-etl/internal/pipeline"
	"github.com/scooter7/credo-etl/internal/transform"
)

// AnalysisService 标准化与分析业务接口
type AnalysisService interface {
	// Transform 构建课程排课表、校园教室表与派生汇总表
	Transform(ctx context.Context, id string, req *dto.TransformRequest) (*dto.TransformResponse, error)
	// Analyze 计算利用率与冲突
	Analyze(ctx context.Context, id string, req *dto.AnalyzeRequest) (*dto.AnalyzeResponse, error)
	// Table 读取会话中的一张数据表
	Table(ctx context.Context, id, name string) (*pipeline.NamedTable, error)
}

type analysisService struct {
	cfg        *config.AnalysisConfig
	normalizer *transform.Normalizer
	access     *sessionAccess
	logger     *zap.Logger
}

// NewAnalysisService 创建 AnalysisService 实例
func NewAnalysisService(
	cfg *config.AnalysisConfig,
	normalizer *transform.Normalizer,
	store pipeline.Store,
	locks *pipeline.Locks,
	logger *zap.Logger,
) AnalysisService {
	if normalizer == nil {
		normalizer = transform.NewNormalizer(transform.Synonyms{})
	}
	return &analysisService{
		cfg:        cfg,
		normalizer: normalizer,
		access:     newSessionAccess(store, locks),
		logger:     logger,
	}
}

// ────────────────────── Transform ──────────────────────

func (s *analysisService) Transform(ctx context.Context, id string, req *dto.TransformRequest) (*dto.TransformResponse, error) {
	opts := pipeline.TransformOptions{MinScore: s.cfg.LookupMinScore}
	if req != nil {
		opts.Lookup = pipeline.LookupSelection{
			File:    req.LookupFile,
			Sheet:   req.LookupSheet,
			Columns: req.LookupColumns,
		}
	}

	var report *pipeline.TransformReport
	sess, err := s.access.update(ctx, id, func(sess *pipeline.Session) error {
		var err error
		report, err = pipeline.Transform(sess, s.normalizer, opts)
		return err
	})
	if err != nil {
		s.logger.Warn("标准化失败", zap.String("session_id", id), zap.Error(err))
		return nil, err
	}

	s.logger.Info("标准化完成",
		zap.String("session_id", id),
		zap.Int("courses", report.Courses),
		zap.Int("rooms", report.Rooms),
		zap.Strings("warnings", report.Warnings),
	)
	return &dto.TransformResponse{TransformReport: report, Tables: sess.AvailableTables()}, nil
}

// ────────────────────── Analyze ──────────────────────

func (s *analysisService) Analyze(ctx context.Context, id string, req *dto.AnalyzeRequest) (*dto.AnalyzeResponse, error) {
	opts := pipeline.AnalyzeOptions{
		StandardHours: s.cfg.StandardHoursPerWeek,
		Conflicts:     analysis.Options{IncludeUndated: s.cfg.IncludeUndatedRows},
	}
	if req != nil {
		if req.StandardHoursPerWeek > 0 {
			opts.StandardHours = req.StandardHoursPerWeek
		}
		if req.IncludeUndatedRows != nil {
			opts.Conflicts.IncludeUndated = *req.IncludeUndatedRows
		}
	}

	sess, err := s.access.update(ctx, id, func(sess *pipeline.Session) error {
		return pipeline.Analyze(sess, opts)
	})
	if err != nil {
		s.logger.Warn("分析失败", zap.String("session_id", id), zap.Error(err))
		return nil, err
	}

	a := sess.Analysis
	s.logger.Info("分析完成",
		zap.String("session_id", id),
		zap.Float64("standard_hours", a.StandardHours),
		zap.Int("room_conflicts", len(a.RoomConflicts)),
		zap.Int("instructor_conflicts", len(a.InstructorConflicts)),
	)
	return &dto.AnalyzeResponse{
		StandardHours:       a.StandardHours,
		Rooms:               len(a.Utilization),
		RoomConflicts:       len(a.RoomConflicts),
		InstructorConflicts: len(a.InstructorConflicts),
		Summary:             a.UtilizationSummary,
	}, nil
}

// ────────────────────── Table ──────────────────────

func (s *analysisService) Table(ctx context.Context, id, name string) (*pipeline.NamedTable, error) {
	sess, err := s.access.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return sess.Table(name)
}
