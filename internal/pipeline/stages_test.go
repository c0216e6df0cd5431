package pipeline

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/scooter7/credo-etl/internal/analysis"
	"github.com/scooter7/credo-etl/internal/ingest"
	"github.com/scooter7/credo-etl/internal/table"
	"github.com/scooter7/credo-etl/internal/transform"
)

// ── 测试数据 ──

func scheduleSheet() *table.Table {
	return table.FromRecords("Fall", [][]string{
		{"Course Number", "Section", "Course Title", "Dept", "Instructor", "Start Time", "End Time", "Days", "Bldg", "Room", "Actual Enrolled"},
		{"ENG101", "01", "Comp I", "ENG", "Smith", "9:00", "10:15", "TTh", "HALL", "101", "20"},
		{"ENG102", "01", "Comp II", "ENG", "Jones", "9:30", "10:45", "TR", "HALL", "101", "18"},
		{"MAT201", "02", "Calculus", "MAT", "Smith", "13:00", "14:00", "MWF", "SCI", "5", "25"},
	})
}

func lookupSheet() *table.Table {
	return table.FromRecords("Rooms", [][]string{
		{"Building", "Room #", "ASF", "Capacity", "Room Type"},
		{"HALL", "101", "600", "30", "Classroom"},
		{"SCI", "5", "900", "40", "Lab"},
		{"LIB", "2", "200", "", "Study"},
	})
}

func newTestSession() *Session {
	s := NewSession()
	s.AddFile(&ingest.File{
		Name:   "campus.xlsx",
		Kind:   ingest.KindWorkbook,
		Sheets: []*table.Table{scheduleSheet(), lookupSheet()},
	})
	return s
}

func transformed(t *testing.T) *Session {
	t.Helper()
	s := newTestSession()
	if _, err := Transform(s, transform.NewNormalizer(transform.Synonyms{}), TransformOptions{}); err != nil {
		t.Fatalf("Transform 失败: %v", err)
	}
	return s
}

// ── Transform ──

func TestTransform_NoFiles(t *testing.T) {
	_, err := Transform(NewSession(), transform.NewNormalizer(transform.Synonyms{}), TransformOptions{})
	if !errors.Is(err, ErrStageNotReady) {
		t.Errorf("期望 ErrStageNotReady，实际: %v", err)
	}
}

func TestTransform_AutoDetectLookup(t *testing.T) {
	s := newTestSession()
	report, err := Transform(s, transform.NewNormalizer(transform.Synonyms{}), TransformOptions{})
	if err != nil {
		t.Fatalf("Transform 失败: %v", err)
	}

	if report.Courses != 3 || report.Rooms != 3 {
		t.Errorf("期望 3 门课程 3 间教室，实际: %d/%d", report.Courses, report.Rooms)
	}
	if diff := cmp.Diff([]string{"campus.xlsx/Fall"}, report.ScheduleSheets); diff != "" {
		t.Errorf("排课源表不符 (-want +got):\n%s", diff)
	}
	if report.Lookup == nil || report.Lookup.Sheet != "Rooms" || report.Lookup.File != "campus.xlsx" || !report.Lookup.Detected {
		t.Fatalf("对照表来源不符: %+v", report.Lookup)
	}
	if report.Lookup.Columns.Room != "Room #" || report.Lookup.Columns.Capacity != "Capacity" {
		t.Errorf("列映射推测不符: %+v", report.Lookup.Columns)
	}
	if len(s.Tables.CampusBuildings) != 3 || len(s.Tables.RoomsInventory) != 3 {
		t.Errorf("派生表行数不符: buildings=%d inventory=%d", len(s.Tables.CampusBuildings), len(s.Tables.RoomsInventory))
	}
	if s.Tables.CourseSchedule[0].CourseID != "ENG10101" || s.Tables.CourseSchedule[0].Days != "TR" {
		t.Errorf("标准化结果不符: %+v", s.Tables.CourseSchedule[0])
	}
}

func TestTransform_LookupNotFoundIsWarning(t *testing.T) {
	s := NewSession()
	s.AddFile(&ingest.File{Name: "fall.csv", Kind: ingest.KindCSV, Sheets: []*table.Table{scheduleSheet()}})

	report, err := Transform(s, transform.NewNormalizer(transform.Synonyms{}), TransformOptions{})
	if err != nil {
		t.Fatalf("缺少对照表不应中断标准化: %v", err)
	}
	if len(report.Warnings) != 1 || report.Lookup != nil {
		t.Errorf("期望 1 条警告且无对照表来源，实际: %+v", report)
	}
	if s.HasRooms() {
		t.Error("不应生成校园教室表")
	}

	err = Analyze(s, AnalyzeOptions{StandardHours: 40})
	if !errors.Is(err, ErrStageNotReady) {
		t.Errorf("缺少教室表时分析应未就绪，实际: %v", err)
	}
}

func TestTransform_ExplicitLookup(t *testing.T) {
	s := newTestSession()
	cols := &transform.LookupColumns{Building: "Building", Room: "Room #", RoomType: "Room Type"}
	report, err := Transform(s, transform.NewNormalizer(transform.Synonyms{}), TransformOptions{
		Lookup: LookupSelection{File: "campus.xlsx", Sheet: "Rooms", Columns: cols},
	})
	if err != nil {
		t.Fatalf("Transform 失败: %v", err)
	}
	if report.Lookup.Detected {
		t.Error("人工指定的对照表不应标记为自动识别")
	}
	// 未映射 Capacity/ASF，座位数与面积为 0
	if r := s.Tables.CampusRooms[0]; r.Stations != 0 || r.ASF != 0 || r.RoomSizeCategory != "A" {
		t.Errorf("未映射字段应为 0，实际: %+v", r)
	}
}

func TestTransform_ExplicitLookupErrors(t *testing.T) {
	n := transform.NewNormalizer(transform.Synonyms{})
	tests := []struct {
		name string
		sel  LookupSelection
		want error
	}{
		{"文件不存在", LookupSelection{File: "missing.xlsx"}, ErrFileNotFound},
		{"工作表不存在", LookupSelection{File: "campus.xlsx", Sheet: "Nope"}, ErrSheetNotFound},
		{"列映射缺失", LookupSelection{File: "campus.xlsx", Sheet: "Rooms", Columns: &transform.LookupColumns{Building: "Building"}}, transform.ErrMissingRoomMapping},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Transform(newTestSession(), n, TransformOptions{Lookup: tt.sel})
			if !errors.Is(err, tt.want) {
				t.Errorf("期望 %v，实际: %v", tt.want, err)
			}
		})
	}
}

func TestTransform_NoScheduleSheet(t *testing.T) {
	s := NewSession()
	s.AddFile(&ingest.File{Name: "rooms.csv", Kind: ingest.KindCSV, Sheets: []*table.Table{lookupSheet()}})

	_, err := Transform(s, transform.NewNormalizer(transform.Synonyms{}), TransformOptions{})
	if !errors.Is(err, transform.ErrEmptySchedule) {
		t.Errorf("期望 ErrEmptySchedule，实际: %v", err)
	}
}

func TestAddFile_InvalidatesTables(t *testing.T) {
	s := transformed(t)
	if err := Analyze(s, AnalyzeOptions{StandardHours: 40}); err != nil {
		t.Fatalf("Analyze 失败: %v", err)
	}

	s.AddFile(&ingest.File{Name: "notes.txt", Kind: ingest.KindDocument, Text: "hello"})
	if s.Transformed() || s.Analyzed() {
		t.Error("新增文件后旧结果应失效")
	}
	if got := s.Documents()["notes.txt"]; got != "hello" {
		t.Errorf("期望文档文本 hello，实际: %q", got)
	}

	// 同名文件覆盖
	s.AddFile(&ingest.File{Name: "notes.txt", Kind: ingest.KindDocument, Text: "v2"})
	if len(s.Files) != 2 {
		t.Errorf("期望 2 个文件，实际: %d", len(s.Files))
	}
}

// ── Analyze ──

func TestAnalyze_RequiresTransform(t *testing.T) {
	err := Analyze(newTestSession(), AnalyzeOptions{StandardHours: 40})
	if !errors.Is(err, ErrStageNotReady) {
		t.Errorf("期望 ErrStageNotReady，实际: %v", err)
	}
}

func TestAnalyze(t *testing.T) {
	s := transformed(t)
	if err := Analyze(s, AnalyzeOptions{StandardHours: 40, Conflicts: analysis.DefaultOptions()}); err != nil {
		t.Fatalf("Analyze 失败: %v", err)
	}

	a := s.Analysis
	if len(a.RoomConflicts) != 2 {
		t.Fatalf("期望 HALL 101 周二/周四各 1 条冲突，实际: %+v", a.RoomConflicts)
	}
	if a.RoomConflicts[0].Day != "T" || a.RoomConflicts[1].Day != "R" {
		t.Errorf("冲突应按星期顺序排列，实际: %s, %s", a.RoomConflicts[0].Day, a.RoomConflicts[1].Day)
	}
	if len(a.InstructorConflicts) != 0 {
		t.Errorf("Smith 的两门课不在同一天，不应冲突: %+v", a.InstructorConflicts)
	}

	want := map[string]float64{"HALL 101": 12.5, "SCI 5": 7.5, "LIB 2": 0}
	for _, u := range a.Utilization {
		if w := want[u.Location]; u.UtilizationPct < w-1e-9 || u.UtilizationPct > w+1e-9 {
			t.Errorf("%s 利用率期望 %.1f，实际: %v", u.Location, w, u.UtilizationPct)
		}
	}
}

func TestAnalyze_NonPositiveHoursClamped(t *testing.T) {
	s := transformed(t)
	if err := Analyze(s, AnalyzeOptions{}); err != nil {
		t.Fatalf("Analyze 失败: %v", err)
	}
	if s.Analysis.StandardHours != 0 {
		t.Errorf("标准学时应原样保留，实际: %v", s.Analysis.StandardHours)
	}
	for _, u := range s.Analysis.Utilization {
		switch u.Location {
		case "HALL 101":
			// 5h / 0.001h × 100
			if u.UtilizationPct < 499999 || u.UtilizationPct > 500001 {
				t.Errorf("HALL 101 期望按 epsilon 计算约 500000%%，实际: %v", u.UtilizationPct)
			}
		case "LIB 2":
			if u.UtilizationPct != 0 {
				t.Errorf("LIB 2 期望 0，实际: %v", u.UtilizationPct)
			}
		}
	}
}
