package model

// Utilization 教室利用率行：对应 "Utilization"
type Utilization struct {
	Location              string  `json:"location"`
	Stations              int     `json:"stations"`
	RoomType              string  `json:"room_type"`
	RoomSizeCategory      string  `json:"room_size_category"`
	ScheduledHoursPerWeek float64 `json:"scheduled_hours_per_week"`
	UtilizationPct        float64 `json:"utilization_pct"`
}

// UtilizationColumns 导出列顺序
var UtilizationColumns = []string{
	"Location", "Stations", "Room Type", "Room Size Category", "scheduled_hours_per_week", "utilization_pct",
}

// Values 按 UtilizationColumns 顺序返回单元格值
func (u Utilization) Values() []interface{} {
	return []interface{}{u.Location, u.Stations, u.RoomType, u.RoomSizeCategory, u.ScheduledHoursPerWeek, u.UtilizationPct}
}

// UtilizationSummary 按 (Room Type, Room Size Category) 汇总的利用率
type UtilizationSummary struct {
	RoomType         string  `json:"room_type"`
	RoomSizeCategory string  `json:"room_size_category"`
	Rooms            int     `json:"rooms"`
	AvgUtilPct       float64 `json:"avg_util_pct"`
}

// UtilizationSummaryColumns 导出列顺序
var UtilizationSummaryColumns = []string{"Room Type", "Room Size Category", "Rooms", "Avg Util %"}

// Values 按 UtilizationSummaryColumns 顺序返回单元格值
func (s UtilizationSummary) Values() []interface{} {
	return []interface{}{s.RoomType, s.RoomSizeCategory, s.Rooms, s.AvgUtilPct}
}
