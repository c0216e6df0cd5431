package router

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/scooter7/credo-etl/config"
	"github.com/scooter7/credo-etl/internal/api/handler"
	"github.com/scooter7/credo-etl/internal/pipeline"
	"github.com/scooter7/credo-etl/internal/service"
	"github.com/scooter7/credo-etl/pkg/jwt"
)

const scheduleCSV = `Course Number,Section,Course Title,Dept,Instructor,Start Time,End Time,Days,Bldg,Room
ENG 101,01,Composition I,ENG,Smith,9:00 AM,10:15 AM,TTh,HALL,101
ENG 102,01,Composition II,ENG,Jones,9:30 AM,10:45 AM,TR,HALL,101
`

const roomsCSV = `Building,Room #,ASF,Capacity
HALL,101,600,30
`

type envelope struct {
	Code int             `json:"code"`
	Data json.RawMessage `json:"data"`
}

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	cfg := &config.Config{
		Auth:     config.AuthConfig{JWTSecret: "router-test-secret", SessionTokenTTL: time.Hour},
		Analysis: config.AnalysisConfig{StandardHoursPerWeek: 40, LookupMinScore: 2, IncludeUndatedRows: true},
	}
	jwtMgr := jwt.NewManager(&cfg.Auth)
	svc := service.NewService(cfg, pipeline.NewMemoryStore(time.Hour), nil, jwtMgr, nil, nil, zap.NewNop())
	return Setup(cfg, handler.NewHandler(svc), jwtMgr, nil, zap.NewNop())
}

func do(t *testing.T, r *gin.Engine, method, path, token string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func upload(t *testing.T, r *gin.Engine, id, token, name, content string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, _ := mw.CreateFormFile("file", name)
	fw.Write([]byte(content))
	mw.Close()
	return do(t, r, "POST", "/api/v1/sessions/"+id+"/files", token, &buf, mw.FormDataContentType())
}

func TestHealth(t *testing.T) {
	r := setupRouter(t)
	w := do(t, r, "GET", "/health", "", nil, "")
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestSessionRoutes_RequireToken(t *testing.T) {
	r := setupRouter(t)
	w := do(t, r, "GET", "/api/v1/sessions/any", "", nil, "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestRuns_DisabledWithoutRepository(t *testing.T) {
	r := setupRouter(t)
	w := do(t, r, "GET", "/api/v1/runs", "", nil, "")
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", w.Code)
	}
}

func TestFullPipeline(t *testing.T) {
	r := setupRouter(t)

	w := do(t, r, "POST", "/api/v1/sessions", "", nil, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("创建会话期望 201，实际: %d", w.Code)
	}
	var env envelope
	json.Unmarshal(w.Body.Bytes(), &env)
	var created struct {
		ID    string `json:"id"`
		Token string `json:"token"`
	}
	json.Unmarshal(env.Data, &created)
	if created.ID == "" || created.Token == "" {
		t.Fatalf("创建响应缺少 id/token: %s", w.Body.String())
	}

	// 未上传前导出应返回 409
	if w := do(t, r, "GET", "/api/v1/sessions/"+created.ID+"/export", created.Token, nil, ""); w.Code != http.StatusConflict {
		t.Errorf("未标准化导出期望 409，实际: %d", w.Code)
	}

	if w := upload(t, r, created.ID, created.Token, "fall.csv", scheduleCSV); w.Code != http.StatusCreated {
		t.Fatalf("上传排课表期望 201，实际: %d %s", w.Code, w.Body.String())
	}
	if w := upload(t, r, created.ID, created.Token, "rooms.csv", roomsCSV); w.Code != http.StatusCreated {
		t.Fatalf("上传对照表期望 201，实际: %d %s", w.Code, w.Body.String())
	}

	if w := do(t, r, "POST", "/api/v1/sessions/"+created.ID+"/transform", created.Token, nil, ""); w.Code != http.StatusOK {
		t.Fatalf("标准化期望 200，实际: %d %s", w.Code, w.Body.String())
	}
	if w := do(t, r, "POST", "/api/v1/sessions/"+created.ID+"/analyze", created.Token, nil, ""); w.Code != http.StatusOK {
		t.Fatalf("分析期望 200，实际: %d %s", w.Code, w.Body.String())
	}

	w = do(t, r, "GET", "/api/v1/sessions/"+created.ID+"/tables/room_conflicts", created.Token, nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("读取冲突表期望 200，实际: %d", w.Code)
	}
	json.Unmarshal(w.Body.Bytes(), &env)
	var tbl pipeline.NamedTable
	json.Unmarshal(env.Data, &tbl)
	if tbl.Name != pipeline.TableRoomConflicts || len(tbl.Rows) != 2 {
		t.Errorf("期望 2 行教室冲突（T 与 R），实际: %+v", tbl)
	}

	w = do(t, r, "GET", "/api/v1/sessions/"+created.ID+"/export", created.Token, nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("导出期望 200，实际: %d", w.Code)
	}
	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	if err != nil {
		t.Fatalf("导出内容不是有效的 xlsx: %v", err)
	}
	defer f.Close()
	if got := f.GetSheetList(); len(got) != len(pipeline.DeliverableOrder) {
		t.Errorf("期望 %d 个工作表，实际: %v", len(pipeline.DeliverableOrder), got)
	}

	if w := do(t, r, "POST", "/api/v1/sessions/"+created.ID+"/summary", created.Token, nil, ""); w.Code != http.StatusServiceUnavailable {
		t.Errorf("未配置摘要期望 503，实际: %d", w.Code)
	}

	if w := do(t, r, "DELETE", "/api/v1/sessions/"+created.ID, created.Token, nil, ""); w.Code != http.StatusOK {
		t.Errorf("删除期望 200，实际: %d", w.Code)
	}
	if w := do(t, r, "GET", "/api/v1/sessions/"+created.ID, created.Token, nil, ""); w.Code != http.StatusNotFound {
		t.Errorf("删除后查询期望 404，实际: %d", w.Code)
	}
}
