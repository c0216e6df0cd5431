package pipeline

import (
	"errors"
	"fmt"

	"github.com/scooter7/credo-etl/internal/analysis"
	"github.com/scooter7/credo-etl/internal/table"
	"github.com/scooter7/credo-etl/internal/transform"
)

// LookupSelection 人工指定的对照表；File 为空时自动识别
type LookupSelection struct {
	File    string                   `json:"file"`
	Sheet   string                   `json:"sheet"`   // 为空时取文件第一个工作表
	Columns *transform.LookupColumns `json:"columns"` // 为空时按别名推测
}

// TransformOptions 标准化阶段参数
type TransformOptions struct {
	Lookup   LookupSelection
	MinScore int // 自动识别最低得分，<=0 使用默认值
}

// TransformReport 标准化阶段结果概览
type TransformReport struct {
	ScheduleSheets []string      `json:"schedule_sheets"`
	Courses        int           `json:"courses"`
	Rooms          int           `json:"rooms"`
	Lookup         *LookupSource `json:"lookup,omitempty"`
	Warnings       []string      `json:"warnings,omitempty"`
}

// ═══════════════════════════════════════════════════════════
// Transform：构建标准表与派生表
// ═══════════════════════════════════════════════════════════
//
// 前置：至少上传一个文件。
//  1. 确定对照表：人工指定优先，否则按表头打分自动识别；
//     自动识别失败不中断，只记录警告（后续分析阶段会因缺少教室表而未就绪）
//  2. 收集所有像排课表的工作表（对照表除外），纵向拼接后标准化
//  3. 生成派生汇总表；旧的分析结果作废

func Transform(s *Session, n *transform.Normalizer, opts TransformOptions) (*TransformReport, error) {
	if len(s.Files) == 0 {
		return nil, fmt.Errorf("%w: 尚未上传文件", ErrStageNotReady)
	}

	report := &TransformReport{}

	lookupSheet, source, err := resolveLookup(s, opts)
	switch {
	case errors.Is(err, transform.ErrLookupNotFound):
		report.Warnings = append(report.Warnings, err.Error())
	case err != nil:
		return nil, err
	}

	var sources []*table.Table
	for _, f := range s.Files {
		for _, sh := range f.Sheets {
			if sh == lookupSheet || !transform.IsScheduleSheet(sh) {
				continue
			}
			sources = append(sources, sh)
			report.ScheduleSheets = append(report.ScheduleSheets, f.Name+"/"+sh.Name)
		}
	}

	courses, err := n.CourseSchedule(table.Concat("Course Schedule", sources...))
	if err != nil {
		return nil, err
	}

	tables := &Tables{
		CourseSchedule:      courses,
		AcademicDepartments: transform.BuildAcademicDepartments(courses),
		CourseInstructors:   transform.BuildCourseInstructors(courses),
	}

	if lookupSheet != nil {
		var cols transform.LookupColumns
		tables.CampusRooms, cols, err = n.CampusRoomsFromSheet(lookupSheet, opts.Lookup.Columns)
		if err != nil {
			return nil, err
		}
		source.Columns = cols
		tables.CampusBuildings = transform.BuildCampusBuildings(tables.CampusRooms)
		tables.RoomsInventory = transform.BuildRoomsInventory(tables.CampusRooms)
		report.Lookup = source
	}

	s.Tables = tables
	s.Lookup = report.Lookup
	s.Analysis = nil
	s.touch()

	report.Courses = len(courses)
	report.Rooms = len(tables.CampusRooms)
	return report, nil
}

// resolveLookup 返回对照表及其来源；自动识别失败时返回 ErrLookupNotFound
func resolveLookup(s *Session, opts TransformOptions) (*table.Table, *LookupSource, error) {
	sel := opts.Lookup
	if sel.File != "" {
		f, ok := s.File(sel.File)
		if !ok {
			return nil, nil, fmt.Errorf("%w: %s", ErrFileNotFound, sel.File)
		}
		var sh *table.Table
		if sel.Sheet == "" {
			if len(f.Sheets) > 0 {
				sh = f.Sheets[0]
			}
		} else {
			sh, _ = f.Sheet(sel.Sheet)
		}
		if sh == nil {
			return nil, nil, fmt.Errorf("%w: %s/%s", ErrSheetNotFound, sel.File, sel.Sheet)
		}
		return sh, &LookupSource{File: f.Name, Sheet: sh.Name, Score: transform.ScoreLookupSheet(sh)}, nil
	}

	// 排课表同样含 Bldg/Room 列，不参与对照表识别
	var candidates []*table.Table
	for _, sh := range s.Sheets() {
		if !transform.IsScheduleSheet(sh) {
			candidates = append(candidates, sh)
		}
	}
	sh, score, err := transform.DetectLookupSheet(candidates, opts.MinScore)
	if err != nil {
		return nil, nil, err
	}
	src := &LookupSource{Sheet: sh.Name, Score: score, Detected: true}
	for _, f := range s.Files {
		for _, candidate := range f.Sheets {
			if candidate == sh {
				src.File = f.Name
			}
		}
	}
	return sh, src, nil
}

// AnalyzeOptions 分析阶段参数
type AnalyzeOptions struct {
	StandardHours float64
	Conflicts     analysis.Options
}

// Analyze 计算利用率与冲突
//
// 前置：课程排课表与校园教室表均已构建。
func Analyze(s *Session, opts AnalyzeOptions) error {
	if !s.Transformed() {
		return fmt.Errorf("%w: 需先完成标准化", ErrStageNotReady)
	}
	if !s.HasRooms() {
		return fmt.Errorf("%w: 缺少校园教室表，请指定楼宇/教室对照表", ErrStageNotReady)
	}

	// 非正值不替换为默认值，由 CalculateUtilization 按 epsilon 下限处理
	hours := opts.StandardHours

	courses := s.Tables.CourseSchedule
	util := analysis.CalculateUtilization(courses, s.Tables.CampusRooms, hours)
	s.Analysis = &Analysis{
		StandardHours:       hours,
		Utilization:         util,
		UtilizationSummary:  analysis.SummarizeUtilization(util),
		RoomConflicts:       analysis.ByLocation(courses, opts.Conflicts),
		InstructorConflicts: analysis.ByInstructor(courses, opts.Conflicts),
	}
	s.touch()
	return nil
}
