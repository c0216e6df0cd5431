package pipeline

import (
	"fmt"
	"strings"

	"github.com/scooter7/credo-etl/internal/model"
)

// 数据表名称（同时作为导出工作表名）
const (
	TableCourseSchedule      = "Course Schedule"
	TableCampusRooms         = "Campus Rooms"
	TableCampusBuildings     = "Campus Buildings"
	TableAcademicDepartments = "Academic Departments"
	TableRoomsInventory      = "Rooms Inventory"
	TableCourseInstructors   = "Course Instructors"
	TableUtilization         = "Utilization"
	TableUtilizationSummary  = "Utilization Summary"
	TableRoomConflicts       = "Room Conflicts"
	TableInstructorConflicts = "Instructor Conflicts"
)

// DeliverableOrder 导出工作簿的工作表顺序
var DeliverableOrder = []string{
	TableCourseSchedule,
	TableCampusRooms,
	TableCampusBuildings,
	TableAcademicDepartments,
	TableUtilization,
	TableRoomConflicts,
	TableInstructorConflicts,
}

var allTables = []string{
	TableCourseSchedule, TableCampusRooms, TableCampusBuildings, TableAcademicDepartments,
	TableRoomsInventory, TableCourseInstructors, TableUtilization, TableUtilizationSummary,
	TableRoomConflicts, TableInstructorConflicts,
}

// NamedTable 带表头的二维数据，用于 JSON 展示与工作簿导出
type NamedTable struct {
	Name    string          `json:"name"`
	Columns []string        `json:"columns"`
	Rows    [][]interface{} `json:"rows"`
}

type valuer interface {
	Values() []interface{}
}

func newNamedTable[T valuer](name string, columns []string, items []T) *NamedTable {
	rows := make([][]interface{}, 0, len(items))
	for _, it := range items {
		rows = append(rows, it.Values())
	}
	return &NamedTable{Name: name, Columns: columns, Rows: rows}
}

// CanonicalTableName 将 "course-schedule"、"course_schedule" 等写法解析为标准表名
func CanonicalTableName(name string) (string, bool) {
	key := normalizeTableName(name)
	for _, t := range allTables {
		if normalizeTableName(t) == key {
			return t, true
		}
	}
	return "", false
}

func normalizeTableName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.NewReplacer("-", " ", "_", " ").Replace(name)
}

// AvailableTables 当前会话已生成的数据表名称
func (s *Session) AvailableTables() []string {
	out := []string{}
	for _, name := range allTables {
		if _, err := s.Table(name); err == nil {
			out = append(out, name)
		}
	}
	return out
}

// Table 按名称返回数据表；所属阶段未完成时返回 ErrStageNotReady
func (s *Session) Table(name string) (*NamedTable, error) {
	canonical, ok := CanonicalTableName(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTable, name)
	}

	notReady := fmt.Errorf("%w: %s 尚未生成", ErrStageNotReady, canonical)
	t, a := s.Tables, s.Analysis

	switch canonical {
	case TableCourseSchedule, TableAcademicDepartments, TableCourseInstructors:
		if !s.Transformed() {
			return nil, notReady
		}
	case TableCampusRooms, TableCampusBuildings, TableRoomsInventory:
		if !s.HasRooms() {
			return nil, notReady
		}
	default:
		if a == nil {
			return nil, notReady
		}
	}

	switch canonical {
	case TableCourseSchedule:
		return newNamedTable(canonical, model.CourseScheduleColumns, t.CourseSchedule), nil
	case TableCampusRooms:
		return newNamedTable(canonical, model.CampusRoomColumns, t.CampusRooms), nil
	case TableCampusBuildings:
		return newNamedTable(canonical, model.BuildingColumns, t.CampusBuildings), nil
	case TableAcademicDepartments:
		return newNamedTable(canonical, model.DepartmentColumns, t.AcademicDepartments), nil
	case TableRoomsInventory:
		return newNamedTable(canonical, model.RoomInventoryColumns, t.RoomsInventory), nil
	case TableCourseInstructors:
		return newNamedTable(canonical, model.InstructorColumns, t.CourseInstructors), nil
	case TableUtilization:
		return newNamedTable(canonical, model.UtilizationColumns, a.Utilization), nil
	case TableUtilizationSummary:
		return newNamedTable(canonical, model.UtilizationSummaryColumns, a.UtilizationSummary), nil
	case TableRoomConflicts:
		return newNamedTable(canonical, model.ConflictColumns(model.ConflictByLocation), a.RoomConflicts), nil
	default:
		return newNamedTable(canonical, model.ConflictColumns(model.ConflictByInstructor), a.InstructorConflicts), nil
	}
}

// Deliverable 按导出顺序返回七张表；任一表未生成即返回 ErrStageNotReady
func (s *Session) Deliverable() ([]*NamedTable, error) {
	out := make([]*NamedTable, 0, len(DeliverableOrder))
	for _, name := range DeliverableOrder {
		t, err := s.Table(name)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}
