package model

// ConflictKey 冲突分组键
type ConflictKey string

const (
	ConflictByLocation   ConflictKey = "Location"
	ConflictByInstructor ConflictKey = "Instructor"
)

// Conflict 同一分组（教室或教师）同一天内两条排课的时间重叠
//
// 时间以 "15:04"（含秒时为 "15:04:05"）格式保存。
type Conflict struct {
	Key       string `json:"key"` // 教室 Location 或教师姓名
	Day       string `json:"day"`
	CourseIDA string `json:"course_id_a"`
	CourseIDB string `json:"course_id_b"`
	StartA    string `json:"start_a"`
	EndA      string `json:"end_a"`
	StartB    string `json:"start_b"`
	EndB      string `json:"end_b"`
}

// ConflictColumns 导出列顺序；首列名称随分组键变化
func ConflictColumns(key ConflictKey) []string {
	return []string{string(key), "Day", "CourseID_A", "CourseID_B", "Start_A", "End_A", "Start_B", "End_B"}
}

// Values 按 ConflictColumns 顺序返回单元格值
func (c Conflict) Values() []interface{} {
	return []interface{}{c.Key, c.Day, c.CourseIDA, c.CourseIDB, c.StartA, c.EndA, c.StartB, c.EndB}
}
