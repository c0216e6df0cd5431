package model

// Course 课程排课表行：对应导出工作簿 "Course Schedule"
//
// 每行表示一个教学班的一次排课；CourseID 标识教学班但不唯一标识行
// （同一教学班可能以不同学期/时段重复出现）。
type Course struct {
	CourseID           string `json:"course_id"`
	CourseTitle        string `json:"course_title"`
	Dept               string `json:"dept"`
	Instructor         string `json:"instructor"`
	StartTime          string `json:"start_time"`
	EndTime            string `json:"end_time"`
	Days               string `json:"days"`     // 规范星期码，如 "MWF"
	Location           string `json:"location"` // "{Bldg} {Room}"
	Bldg               string `json:"bldg"`
	Room               string `json:"room"`
	CourseCapacity     int    `json:"course_capacity"`
	ActualEnrolled     int    `json:"actual_enrolled"`
	SeatsInOverallUtil int    `json:"seats_in_overall_stn_utilization"`
	StartDate          string `json:"start_date"`
	EndDate            string `json:"end_date"`
}

// CourseScheduleColumns 导出列顺序
var CourseScheduleColumns = []string{
	"CourseID", "Course Title", "Dept", "Instructor", "Start Time", "End Time",
	"Days", "Location", "Bldg", "Room", "Course Capacity", "Actual Enrolled",
	"Seats in Overall Stn Utilization", "Start Date", "End Date",
}

// Values 按 CourseScheduleColumns 顺序返回单元格值
func (c Course) Values() []interface{} {
	return []interface{}{
		c.CourseID, c.CourseTitle, c.Dept, c.Instructor, c.StartTime, c.EndTime,
		c.Days, c.Location, c.Bldg, c.Room, c.CourseCapacity, c.ActualEnrolled,
		c.SeatsInOverallUtil, c.StartDate, c.EndDate,
	}
}
