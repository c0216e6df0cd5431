package model

// AnalysisRun 分析历史记录：对应表 analysis_runs
//
// 每次成功导出工作簿时写入一行（需开启 feature.run_history）。
type AnalysisRun struct {
	RunID               string  `gorm:"column:run_id;type:uuid;primaryKey" json:"run_id"`
	SessionID           string  `gorm:"column:session_id;type:varchar(64);not null;index" json:"session_id"`
	FileNames           string  `gorm:"column:file_names;type:text;not null;default:''" json:"file_names"` // 逗号分隔
	Courses             int     `gorm:"column:courses;not null;default:0" json:"courses"`
	Rooms               int     `gorm:"column:rooms;not null;default:0" json:"rooms"`
	RoomConflicts       int     `gorm:"column:room_conflicts;not null;default:0" json:"room_conflicts"`
	InstructorConflicts int     `gorm:"column:instructor_conflicts;not null;default:0" json:"instructor_conflicts"`
	StandardHours       float64 `gorm:"column:standard_hours;not null;default:40" json:"standard_hours"`
	AvgUtilizationPct   float64 `gorm:"column:avg_utilization_pct;not null;default:0" json:"avg_utilization_pct"`
	LookupSheet         string  `gorm:"column:lookup_sheet;type:varchar(255);not null;default:''" json:"lookup_sheet"`
	BaseModel
}

// TableName 表名
func (AnalysisRun) TableName() string {
	return "analysis_runs"
}
