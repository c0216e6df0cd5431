package transform

import (
	"sort"

	"github.com/scooter7/credo-etl/internal/model"
)

// ── 派生汇总表 ──
//
// 均按分组键升序输出；输入为空时返回空切片（非 nil），便于导出空表头。

// BuildCampusBuildings 按楼宇汇总：不同教室数、座位总数、ASF 总和
func BuildCampusBuildings(rooms []model.CampusRoom) []model.Building {
	type acc struct {
		rooms    map[string]bool
		stations int
		asf      float64
	}
	groups := make(map[string]*acc)
	for _, r := range rooms {
		g, ok := groups[r.Bldg]
		if !ok {
			g = &acc{rooms: make(map[string]bool)}
			groups[r.Bldg] = g
		}
		g.rooms[r.Room] = true
		g.stations += r.Stations
		g.asf += r.ASF
	}

	out := make([]model.Building, 0, len(groups))
	for bldg, g := range groups {
		out = append(out, model.Building{
			Bldg:          bldg,
			Rooms:         len(g.rooms),
			TotalStations: g.stations,
			TotalASF:      g.asf,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Bldg < out[j].Bldg })
	return out
}

// BuildAcademicDepartments 按院系汇总：不同教学班数、选课人数总和
func BuildAcademicDepartments(courses []model.Course) []model.Department {
	type acc struct {
		sections map[string]bool
		enrolled int
	}
	groups := make(map[string]*acc)
	for _, c := range courses {
		g, ok := groups[c.Dept]
		if !ok {
			g = &acc{sections: make(map[string]bool)}
			groups[c.Dept] = g
		}
		g.sections[c.CourseID] = true
		g.enrolled += c.ActualEnrolled
	}

	out := make([]model.Department, 0, len(groups))
	for dept, g := range groups {
		out = append(out, model.Department{
			Dept:          dept,
			Sections:      len(g.sections),
			TotalEnrolled: g.enrolled,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Dept < out[j].Dept })
	return out
}

// BuildRoomsInventory 每间教室一行，家具列留空待人工补录
func BuildRoomsInventory(rooms []model.CampusRoom) []model.RoomInventory {
	out := make([]model.RoomInventory, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, model.RoomInventory{RoomID: r.RoomID})
	}
	return out
}

// BuildCourseInstructors 按 (教师, 院系) 汇总不同教学班数
func BuildCourseInstructors(courses []model.Course) []model.Instructor {
	type key struct{ instructor, dept string }
	groups := make(map[key]map[string]bool)
	for _, c := range courses {
		k := key{c.Instructor, c.Dept}
		if groups[k] == nil {
			groups[k] = make(map[string]bool)
		}
		groups[k][c.CourseID] = true
	}

	out := make([]model.Instructor, 0, len(groups))
	for k, sections := range groups {
		out = append(out, model.Instructor{
			Instructor: k.instructor,
			Dept:       k.dept,
			Sections:   len(sections),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Instructor != out[j].Instructor {
			return out[i].Instructor < out[j].Instructor
		}
		return out[i].Dept < out[j].Dept
	})
	return out
}
