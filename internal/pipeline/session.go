// Package pipeline 分析会话及其阶段
//
// 一个 Session 依次经历：上传（文件）→ 标准化（标准表与派生表）→ 分析（利用率与冲突）→ 导出。
// 每个阶段声明所需的前置数据，缺失时返回 ErrStageNotReady，不做隐式补算。
package pipeline

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/scooter7/credo-etl/internal/ingest"
	"github.com/scooter7/credo-etl/internal/model"
	"github.com/scooter7/credo-etl/internal/table"
	"github.com/scooter7/credo-etl/internal/transform"
)

// ── 会话模块业务错误 ──

var (
	ErrStageNotReady = errors.New("前置阶段尚未完成")
	ErrUnknownTable  = errors.New("未知的数据表名称")
	ErrFileNotFound  = errors.New("会话中不存在该文件")
	ErrSheetNotFound = errors.New("文件中不存在该工作表")
)

// Tables 标准化阶段产出的标准表与派生表
type Tables struct {
	CourseSchedule      []model.Course        `json:"course_schedule"`
	CampusRooms         []model.CampusRoom    `json:"campus_rooms,omitempty"`
	CampusBuildings     []model.Building      `json:"campus_buildings,omitempty"`
	AcademicDepartments []model.Department    `json:"academic_departments"`
	RoomsInventory      []model.RoomInventory `json:"rooms_inventory,omitempty"`
	CourseInstructors   []model.Instructor    `json:"course_instructors"`
}

// Analysis 分析阶段产出
type Analysis struct {
	StandardHours       float64                    `json:"standard_hours"`
	Utilization         []model.Utilization        `json:"utilization"`
	UtilizationSummary  []model.UtilizationSummary `json:"utilization_summary"`
	RoomConflicts       []model.Conflict           `json:"room_conflicts"`
	InstructorConflicts []model.Conflict           `json:"instructor_conflicts"`
}

// LookupSource 校园教室表的来源
type LookupSource struct {
	File     string                  `json:"file"`
	Sheet    string                  `json:"sheet"`
	Score    int                     `json:"score"`
	Detected bool                    `json:"detected"` // true 表示自动识别
	Columns  transform.LookupColumns `json:"columns"`
}

// Session 一次分析会话的完整状态
//
// 会话以快照形式存入 Store；同一会话同一时刻只允许一个阶段写入（见 Locks）。
type Session struct {
	ID        string         `json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	Files     []*ingest.File `json:"files"`
	Tables    *Tables        `json:"tables,omitempty"`
	Lookup    *LookupSource  `json:"lookup,omitempty"`
	Analysis  *Analysis      `json:"analysis,omitempty"`
}

// NewSession 创建空会话
func NewSession() *Session {
	now := time.Now()
	return &Session{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now}
}

// AddFile 登记一个已读取的文件；同名文件覆盖旧版本
//
// 文件变化后已有的标准表与分析结果失效。
func (s *Session) AddFile(f *ingest.File) {
	replaced := false
	for i, old := range s.Files {
		if old.Name == f.Name {
			s.Files[i] = f
			replaced = true
			break
		}
	}
	if !replaced {
		s.Files = append(s.Files, f)
	}
	s.Tables, s.Lookup, s.Analysis = nil, nil, nil
	s.touch()
}

// File 按文件名查找
func (s *Session) File(name string) (*ingest.File, bool) {
	for _, f := range s.Files {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

// Sheets 返回会话中所有文件的全部工作表，按上传顺序
func (s *Session) Sheets() []*table.Table {
	var out []*table.Table
	for _, f := range s.Files {
		out = append(out, f.Sheets...)
	}
	return out
}

// Documents 返回文档类文件的文本
func (s *Session) Documents() map[string]string {
	out := make(map[string]string)
	for _, f := range s.Files {
		if f.Kind == ingest.KindDocument {
			out[f.Name] = f.Text
		}
	}
	return out
}

// Transformed 标准化阶段已完成
func (s *Session) Transformed() bool {
	return s.Tables != nil && len(s.Tables.CourseSchedule) > 0
}

// HasRooms 校园教室表已构建
func (s *Session) HasRooms() bool {
	return s.Tables != nil && len(s.Tables.CampusRooms) > 0
}

// Analyzed 分析阶段已完成
func (s *Session) Analyzed() bool {
	return s.Analysis != nil
}

func (s *Session) touch() {
	s.UpdatedAt = time.Now()
}
