package dto

// ── 分析历史 DTO ──

// RunResponse 分析历史记录
type RunResponse struct {
	ID                  string   `json:"id"`
	SessionID           string   `json:"session_id"`
	Files               []string `json:"files"`
	Courses             int      `json:"courses"`
	Rooms               int      `json:"rooms"`
	RoomConflicts       int      `json:"room_conflicts"`
	InstructorConflicts int      `json:"instructor_conflicts"`
	StandardHours       float64  `json:"standard_hours"`
	AvgUtilizationPct   float64  `json:"avg_utilization_pct"`
	LookupSheet         string   `json:"lookup_sheet"`
	CreatedAt           string   `json:"created_at"`
}
