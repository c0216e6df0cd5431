package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/scooter7/credo-etl/internal/model"
)

// AnalysisRunRepository 分析历史数据访问接口
type AnalysisRunRepository interface {
	Create(ctx context.Context, run *model.AnalysisRun) error
	GetByID(ctx context.Context, id string) (*model.AnalysisRun, error)
	List(ctx context.Context, offset, limit int) ([]model.AnalysisRun, int64, error)
	ListBySession(ctx context.Context, sessionID string) ([]model.AnalysisRun, error)
}

type analysisRunRepo struct {
	db *gorm.DB
}

// NewAnalysisRunRepo 创建 AnalysisRunRepository 实例
func NewAnalysisRunRepo(db *gorm.DB) AnalysisRunRepository {
	return &analysisRunRepo{db: db}
}

func (r *analysisRunRepo) Create(ctx context.Context, run *model.AnalysisRun) error {
	return r.db.WithContext(ctx).Create(run).Error
}

func (r *analysisRunRepo) GetByID(ctx context.Context, id string) (*model.AnalysisRun, error) {
	var run model.AnalysisRun
	err := r.db.WithContext(ctx).
		Where("run_id = ?", id).
		First(&run).Error
	if err != nil {
		return nil, err
	}
	return &run, nil
}

func (r *analysisRunRepo) List(ctx context.Context, offset, limit int) ([]model.AnalysisRun, int64, error) {
	var runs []model.AnalysisRun
	var total int64

	db := r.db.WithContext(ctx).Model(&model.AnalysisRun{})

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&runs).Error; err != nil {
		return nil, 0, err
	}

	return runs, total, nil
}

func (r *analysisRunRepo) ListBySession(ctx context.Context, sessionID string) ([]model.AnalysisRun, error) {
	var runs []model.AnalysisRun
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at DESC").
		Find(&runs).Error
	return runs, err
}
