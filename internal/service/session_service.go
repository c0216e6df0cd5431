package service

import (
	"context"
	"errors"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/scooter7/credo-etl/internal/dto"
	"github.com/scooter7/credo-etl/internal/ingest"
	"github.com/scooter7/credo-etl/internal/pipeline"
	"github.com/scooter7/credo-etl/pkg/jwt"
)

// ── 会话模块业务错误 ──

var (
	ErrFileNameEmpty = errors.New("文件名不能为空")
)

// SessionService 会话业务接口
type SessionService interface {
	Create(ctx context.Context) (*dto.SessionCreatedResponse, error)
	Get(ctx context.Context, id string) (*dto.SessionStatusResponse, error)
	Delete(ctx context.Context, id string) error
	// Upload 读取上传文件并登记到会话；同名文件覆盖旧版本
	Upload(ctx context.Context, id, name string, r io.Reader) (*dto.FileResponse, error)
}

type sessionService struct {
	access *sessionAccess
	jwtMgr *jwt.Manager
	logger *zap.Logger
}

// NewSessionService 创建 SessionService 实例
func NewSessionService(store pipeline.Store, locks *pipeline.Locks, jwtMgr *jwt.Manager, logger *zap.Logger) SessionService {
	return &sessionService{access: newSessionAccess(store, locks), jwtMgr: jwtMgr, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *sessionService) Create(ctx context.Context) (*dto.SessionCreatedResponse, error) {
	sess := pipeline.NewSession()
	if err := s.access.store.Save(ctx, sess); err != nil {
		s.logger.Error("保存会话失败", zap.Error(err))
		return nil, err
	}

	token, expiresAt, err := s.jwtMgr.GenerateSessionToken(sess.ID)
	if err != nil {
		s.logger.Error("签发会话令牌失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("会话已创建", zap.String("session_id", sess.ID))
	return &dto.SessionCreatedResponse{
		ID:        sess.ID,
		Token:     token,
		ExpiresAt: expiresAt.Format(time.RFC3339),
	}, nil
}

// ────────────────────── Get / Delete ──────────────────────

func (s *sessionService) Get(ctx context.Context, id string) (*dto.SessionStatusResponse, error) {
	sess, err := s.access.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return toSessionStatus(sess), nil
}

func (s *sessionService) Delete(ctx context.Context, id string) error {
	if err := s.access.store.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("会话已删除", zap.String("session_id", id))
	return nil
}

// ────────────────────── Upload ──────────────────────

func (s *sessionService) Upload(ctx context.Context, id, name string, r io.Reader) (*dto.FileResponse, error) {
	if name == "" {
		return nil, ErrFileNameEmpty
	}

	// 文件解析不持有会话写锁
	f, err := ingest.Load(name, r)
	if err != nil {
		s.logger.Warn("读取上传文件失败", zap.String("session_id", id), zap.String("file", name), zap.Error(err))
		return nil, err
	}

	if _, err := s.access.update(ctx, id, func(sess *pipeline.Session) error {
		sess.AddFile(f)
		return nil
	}); err != nil {
		return nil, err
	}

	s.logger.Info("文件已上传",
		zap.String("session_id", id),
		zap.String("file", f.Name),
		zap.String("kind", string(f.Kind)),
		zap.Int("sheets", len(f.Sheets)),
	)
	resp := toFileResponse(f)
	return &resp, nil
}

// ── 转换辅助 ──

func toFileResponse(f *ingest.File) dto.FileResponse {
	return dto.FileResponse{
		Name:     f.Name,
		Kind:     string(f.Kind),
		Sheets:   ingest.DescribeFile(f),
		TextSize: len(f.Text),
		Warnings: f.Warnings,
	}
}

func toSessionStatus(sess *pipeline.Session) *dto.SessionStatusResponse {
	files := make([]dto.FileResponse, 0, len(sess.Files))
	for _, f := range sess.Files {
		files = append(files, toFileResponse(f))
	}
	return &dto.SessionStatusResponse{
		ID:          sess.ID,
		Files:       files,
		Tables:      sess.AvailableTables(),
		Transformed: sess.Transformed(),
		Analyzed:    sess.Analyzed(),
		CreatedAt:   sess.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   sess.UpdatedAt.Format(time.RFC3339),
	}
}
