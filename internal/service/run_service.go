package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/scooter7/credo-etl/internal/dto"
	"github.com/scooter7/credo-etl/internal/model"
	"github.com/scooter7/credo-etl/internal/pipeline"
	"github.com/scooter7/credo-etl/internal/repository"
)

// ── 分析历史模块业务错误 ──

var (
	ErrRunHistoryDisabled = errors.New("分析历史功能未启用")
)

// RunService 分析历史业务接口
type RunService interface {
	// Record 记录一次已完成分析的会话；功能关闭时直接返回 nil
	Record(ctx context.Context, sess *pipeline.Session) error
	List(ctx context.Context, offset, limit int) ([]dto.RunResponse, int64, error)
	Enabled() bool
}

type runService struct {
	repo    *repository.Repository
	enabled bool
	logger  *zap.Logger
}

// NewRunService 创建 RunService 实例；repo 为 nil 时视为关闭
func NewRunService(repo *repository.Repository, enabled bool, logger *zap.Logger) RunService {
	return &runService{repo: repo, enabled: enabled && repo != nil, logger: logger}
}

func (s *runService) Enabled() bool {
	return s.enabled
}

func (s *runService) Record(ctx context.Context, sess *pipeline.Session) error {
	if !s.enabled {
		return nil
	}
	if !sess.Analyzed() {
		return pipeline.ErrStageNotReady
	}

	names := make([]string, 0, len(sess.Files))
	for _, f := range sess.Files {
		names = append(names, f.Name)
	}
	a := sess.Analysis
	run := &model.AnalysisRun{
		RunID:               uuid.New().String(),
		SessionID:           sess.ID,
		FileNames:           strings.Join(names, ","),
		Courses:             len(sess.Tables.CourseSchedule),
		Rooms:               len(sess.Tables.CampusRooms),
		RoomConflicts:       len(a.RoomConflicts),
		InstructorConflicts: len(a.InstructorConflicts),
		StandardHours:       a.StandardHours,
		AvgUtilizationPct:   averageUtilization(a.Utilization),
	}
	if sess.Lookup != nil {
		run.LookupSheet = sess.Lookup.File + "/" + sess.Lookup.Sheet
	}

	if err := s.repo.AnalysisRun.Create(ctx, run); err != nil {
		s.logger.Error("写入分析历史失败", zap.Error(err))
		return err
	}
	s.logger.Info("分析历史已记录", zap.String("run_id", run.RunID), zap.String("session_id", sess.ID))
	return nil
}

func (s *runService) List(ctx context.Context, offset, limit int) ([]dto.RunResponse, int64, error) {
	if !s.enabled {
		return nil, 0, ErrRunHistoryDisabled
	}
	runs, total, err := s.repo.AnalysisRun.List(ctx, offset, limit)
	if err != nil {
		s.logger.Error("查询分析历史失败", zap.Error(err))
		return nil, 0, err
	}
	out := make([]dto.RunResponse, 0, len(runs))
	for i := range runs {
		out = append(out, toRunResponse(&runs[i]))
	}
	return out, total, nil
}

func averageUtilization(rows []model.Utilization) float64 {
	if len(rows) == 0 {
		return 0
	}
	sum := 0.0
	for _, r := range rows {
		sum += r.UtilizationPct
	}
	return sum / float64(len(rows))
}

func toRunResponse(r *model.AnalysisRun) dto.RunResponse {
	files := []string{}
	if r.FileNames != "" {
		files = strings.Split(r.FileNames, ",")
	}
	return dto.RunResponse{
		ID:                  r.RunID,
		SessionID:           r.SessionID,
		Files:               files,
		Courses:             r.Courses,
		Rooms:               r.Rooms,
		RoomConflicts:       r.RoomConflicts,
		InstructorConflicts: r.InstructorConflicts,
		StandardHours:       r.StandardHours,
		AvgUtilizationPct:   r.AvgUtilizationPct,
		LookupSheet:         r.LookupSheet,
		CreatedAt:           r.CreatedAt.Format(time.RFC3339),
	}
}
