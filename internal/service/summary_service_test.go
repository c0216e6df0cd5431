package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/scooter7/credo-etl/internal/dto"
	"github.com/scooter7/credo-etl/internal/pipeline"
)

func TestSummaryService_Disabled(t *testing.T) {
	svc := NewSummaryService(pipeline.NewMemoryStore(time.Hour), nil, 0, zap.NewNop())

	_, err := svc.Summarize(context.Background(), "any", nil)
	if !errors.Is(err, ErrSummaryDisabled) {
		t.Errorf("期望 ErrSummaryDisabled，实际: %v", err)
	}
}

func TestSummaryService_NotAnalyzed(t *testing.T) {
	env := setupTestService(t, false)
	id := env.newUploadedSession(t)

	_, err := env.svc.Summary.Summarize(context.Background(), id, nil)
	if !errors.Is(err, pipeline.ErrStageNotReady) {
		t.Errorf("期望 ErrStageNotReady，实际: %v", err)
	}
}

func TestSummaryService_Summarize(t *testing.T) {
	env := setupTestService(t, false)
	id := env.newAnalyzedSession(t)

	resp, err := env.svc.Summary.Summarize(context.Background(), id, &dto.SummaryRequest{Notes: "Fall term"})
	if err != nil {
		t.Fatalf("Summarize 应成功: %v", err)
	}
	if resp.Text != "summary" || resp.Model != "mock-model" {
		t.Errorf("响应不符: %+v", resp)
	}

	p := env.gen.prompt
	for _, want := range []string{"Room Conflicts", "Instructor Conflicts", "Utilization", "HALL 101", "Fall term"} {
		if !strings.Contains(p, want) {
			t.Errorf("提示词缺少 %q", want)
		}
	}
	if !strings.Contains(p, "Instructor Conflicts (first 50 rows):\n(none)") {
		t.Error("空冲突表应写为 (none)")
	}
}

func TestSummaryService_GeneratorFailure(t *testing.T) {
	env := setupTestService(t, false)
	env.gen.err = errMockGenerate
	id := env.newAnalyzedSession(t)

	_, err := env.svc.Summary.Summarize(context.Background(), id, nil)
	if !errors.Is(err, ErrSummaryFailed) {
		t.Errorf("期望 ErrSummaryFailed，实际: %v", err)
	}
}

func TestTableCSV_Limit(t *testing.T) {
	tbl := &pipeline.NamedTable{Columns: []string{"Location", "Hours"}}
	for i := 0; i < 60; i++ {
		tbl.Rows = append(tbl.Rows, []interface{}{"R", 1.5})
	}
	out, err := tableCSV(tbl, 50)
	if err != nil {
		t.Fatalf("tableCSV 失败: %v", err)
	}
	if lines := strings.Count(out, "\n"); lines != 51 {
		t.Errorf("期望表头 + 50 行，实际: %d 行", lines)
	}
}
