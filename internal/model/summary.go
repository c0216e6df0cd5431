package model

// Building 楼宇汇总行：对应 "Campus Buildings"
type Building struct {
	Bldg          string  `json:"bldg"`
	Rooms         int     `json:"rooms"`
	TotalStations int     `json:"total_stations"`
	TotalASF      float64 `json:"total_asf"`
}

// BuildingColumns 导出列顺序
var BuildingColumns = []string{"Bldg", "Rooms", "Total Stations", "Total ASF"}

// Values 按 BuildingColumns 顺序返回单元格值
func (b Building) Values() []interface{} {
	return []interface{}{b.Bldg, b.Rooms, b.TotalStations, b.TotalASF}
}

// Department 院系汇总行：对应 "Academic Departments"
type Department struct {
	Dept          string `json:"dept"`
	Sections      int    `json:"sections"`
	TotalEnrolled int    `json:"total_enrolled"`
}

// DepartmentColumns 导出列顺序
var DepartmentColumns = []string{"Dept", "Sections", "Total Enrolled"}

// Values 按 DepartmentColumns 顺序返回单元格值
func (d Department) Values() []interface{} {
	return []interface{}{d.Dept, d.Sections, d.TotalEnrolled}
}

// Instructor 教师汇总行（Instructor × Dept）
type Instructor struct {
	Instructor string `json:"instructor"`
	Dept       string `json:"dept"`
	Sections   int    `json:"sections"`
	DailyHours string `json:"daily_hours"` // 占位列，人工补录
}

// InstructorColumns 导出列顺序
var InstructorColumns = []string{"Instructor", "Dept", "Sections", "Daily Hours (M-F)"}

// Values 按 InstructorColumns 顺序返回单元格值
func (i Instructor) Values() []interface{} {
	return []interface{}{i.Instructor, i.Dept, i.Sections, i.DailyHours}
}
