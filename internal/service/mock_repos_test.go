package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/scooter7/credo-etl/config"
	"github.com/scooter7/credo-etl/internal/model"
	"github.com/scooter7/credo-etl/internal/pipeline"
	"github.com/scooter7/credo-etl/internal/repository"
	"github.com/scooter7/credo-etl/pkg/jwt"
)

// ── Mock AnalysisRunRepository ──

type mockAnalysisRunRepo struct {
	runs    []*model.AnalysisRun
	failErr error
}

func newMockAnalysisRunRepo() *mockAnalysisRunRepo {
	return &mockAnalysisRunRepo{}
}

func (m *mockAnalysisRunRepo) Create(_ context.Context, run *model.AnalysisRun) error {
	if m.failErr != nil {
		return m.failErr
	}
	run.CreatedAt = time.Now()
	m.runs = append(m.runs, run)
	return nil
}

func (m *mockAnalysisRunRepo) GetByID(_ context.Context, id string) (*model.AnalysisRun, error) {
	for _, r := range m.runs {
		if r.RunID == id {
			return r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAnalysisRunRepo) List(_ context.Context, offset, limit int) ([]model.AnalysisRun, int64, error) {
	var result []model.AnalysisRun
	for i := len(m.runs) - 1; i >= 0; i-- {
		result = append(result, *m.runs[i])
	}
	total := int64(len(result))
	if offset >= len(result) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(result) {
		end = len(result)
	}
	return result[offset:end], total, nil
}

func (m *mockAnalysisRunRepo) ListBySession(_ context.Context, sessionID string) ([]model.AnalysisRun, error) {
	var result []model.AnalysisRun
	for _, r := range m.runs {
		if r.SessionID == sessionID {
			result = append(result, *r)
		}
	}
	return result, nil
}

// ── Mock TextGenerator ──

type mockGenerator struct {
	prompt string
	text   string
	err    error
}

func (m *mockGenerator) Generate(_ context.Context, prompt string) (string, error) {
	m.prompt = prompt
	return m.text, m.err
}

func (m *mockGenerator) Model() string { return "mock-model" }

var errMockGenerate = errors.New("mock generate failure")

// ── 测试数据 ──

const scheduleCSV = `Course Number,Section,Course Title,Dept,Instructor,Start Time,End Time,Days,Bldg,Room,Actual Enrolled
ENG 101,01,Composition I,ENG,Smith,9:00 AM,10:15 AM,TTh,HALL,101,20
ENG 102,01,Composition II,ENG,Jones,9:30 AM,10:45 AM,TR,HALL,101,18
MAT 201,02,Calculus,MAT,Smith,13:00,14:00,MWF,SCI,5,25
`

const roomsCSV = `Building,Room #,ASF,Capacity,Room Type
HALL,101,600,30,Classroom
SCI,5,900,40,Lab
LIB,2,200,,Study
`

func testConfig() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{JWTSecret: "test-secret-key-for-unit-testing", SessionTokenTTL: time.Hour},
		Analysis: config.AnalysisConfig{
			StandardHoursPerWeek: 40,
			LookupMinScore:       2,
			IncludeUndatedRows:   true,
		},
		AI: config.AIConfig{Timeout: time.Second},
	}
}

type testEnv struct {
	svc     *Service
	store   *pipeline.MemoryStore
	runRepo *mockAnalysisRunRepo
	gen     *mockGenerator
}

// setupTestService 组装全部服务；runHistory 控制分析历史开关
func setupTestService(t *testing.T, runHistory bool) *testEnv {
	t.Helper()
	cfg := testConfig()
	cfg.Feature.RunHistory = runHistory

	store := pipeline.NewMemoryStore(time.Hour)
	runRepo := newMockAnalysisRunRepo()
	gen := &mockGenerator{text: "summary"}
	repo := &repository.Repository{AnalysisRun: runRepo}

	svc := NewService(cfg, store, repo, jwt.NewManager(&cfg.Auth), nil, gen, zap.NewNop())
	return &testEnv{svc: svc, store: store, runRepo: runRepo, gen: gen}
}

// newUploadedSession 创建会话并上传排课表与对照表
func (e *testEnv) newUploadedSession(t *testing.T) string {
	t.Helper()
	ctx := context.Background()
	created, err := e.svc.Session.Create(ctx)
	if err != nil {
		t.Fatalf("创建会话失败: %v", err)
	}
	if _, err := e.svc.Session.Upload(ctx, created.ID, "fall.csv", strings.NewReader(scheduleCSV)); err != nil {
		t.Fatalf("上传排课表失败: %v", err)
	}
	if _, err := e.svc.Session.Upload(ctx, created.ID, "rooms.csv", strings.NewReader(roomsCSV)); err != nil {
		t.Fatalf("上传对照表失败: %v", err)
	}
	return created.ID
}

// newAnalyzedSession 完成上传、标准化与分析
func (e *testEnv) newAnalyzedSession(t *testing.T) string {
	t.Helper()
	ctx := context.Background()
	id := e.newUploadedSession(t)
	if _, err := e.svc.Analysis.Transform(ctx, id, nil); err != nil {
		t.Fatalf("标准化失败: %v", err)
	}
	if _, err := e.svc.Analysis.Analyze(ctx, id, nil); err != nil {
		t.Fatalf("分析失败: %v", err)
	}
	return id
}
