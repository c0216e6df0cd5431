package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/xuri/excelize/v2"

	"github.com/scooter7/credo-etl/internal/pipeline"
)

// ── ExportWorkbook 测试 ──

func TestExportService_ExportWorkbook_NotReady(t *testing.T) {
	env := setupTestService(t, false)
	id := env.newUploadedSession(t)

	_, _, err := env.svc.Export.ExportWorkbook(context.Background(), id)
	if !errors.Is(err, pipeline.ErrStageNotReady) {
		t.Errorf("期望 ErrStageNotReady，实际: %v", err)
	}
}

func TestExportService_ExportWorkbook_Success(t *testing.T) {
	env := setupTestService(t, true)
	id := env.newAnalyzedSession(t)

	buf, filename, err := env.svc.Export.ExportWorkbook(context.Background(), id)
	if err != nil {
		t.Fatalf("ExportWorkbook 应成功: %v", err)
	}
	if buf == nil || buf.Len() == 0 {
		t.Fatal("buffer 不应为空")
	}
	if !strings.HasSuffix(filename, ".xlsx") {
		t.Errorf("文件名应以 .xlsx 结尾，实际: %s", filename)
	}

	// xlsx 本质为 zip，前两个字节为 "PK"
	if data := buf.Bytes(); len(data) < 2 || data[0] != 'P' || data[1] != 'K' {
		t.Error("输出不是有效的 xlsx (zip) 格式")
	}

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("重新打开工作簿失败: %v", err)
	}
	defer f.Close()

	if diff := cmp.Diff(pipeline.DeliverableOrder, f.GetSheetList()); diff != "" {
		t.Errorf("工作表顺序不符 (-want +got):\n%s", diff)
	}

	rows, err := f.GetRows(pipeline.TableCourseSchedule)
	if err != nil {
		t.Fatalf("读取 Course Schedule 失败: %v", err)
	}
	if len(rows) != 4 || rows[0][0] != "CourseID" || rows[1][0] != "ENG10101" {
		t.Errorf("Course Schedule 内容不符: %v", rows)
	}

	conflicts, _ := f.GetRows(pipeline.TableInstructorConflicts)
	if len(conflicts) != 1 || conflicts[0][0] != "Instructor" {
		t.Errorf("无教师冲突时应只有表头: %v", conflicts)
	}

	if len(env.runRepo.runs) != 1 {
		t.Fatalf("导出成功后应写入 1 条分析历史，实际: %d", len(env.runRepo.runs))
	}
	if run := env.runRepo.runs[0]; run.SessionID != id || run.Courses != 3 || run.RoomConflicts != 2 {
		t.Errorf("分析历史内容不符: %+v", run)
	}
}

func TestExportService_RunFailureDoesNotBlockExport(t *testing.T) {
	env := setupTestService(t, true)
	env.runRepo.failErr = errors.New("db down")
	id := env.newAnalyzedSession(t)

	if _, _, err := env.svc.Export.ExportWorkbook(context.Background(), id); err != nil {
		t.Errorf("历史写入失败不应影响导出: %v", err)
	}
}

func TestWriteDeliverable_EmptyTables(t *testing.T) {
	tables := []*pipeline.NamedTable{
		{Name: "Only Header", Columns: []string{"A", "B"}},
	}
	buf, err := WriteDeliverable(tables)
	if err != nil {
		t.Fatalf("WriteDeliverable 应成功: %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("打开工作簿失败: %v", err)
	}
	defer f.Close()

	if diff := cmp.Diff([]string{"Only Header"}, f.GetSheetList()); diff != "" {
		t.Errorf("默认 Sheet1 应被删除 (-want +got):\n%s", diff)
	}
}
