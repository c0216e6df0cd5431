package analysis

import (
	"math"
	"sort"
	"strings"

	"github.com/scooter7/credo-etl/internal/model"
)

// Epsilon 标准学时下限，避免除零
const Epsilon = 0.001

// DefaultStandardHours 默认每周标准排课学时
const DefaultStandardHours = 40.0

// CalculateUtilization 计算每间教室的周排课学时与利用率
//
// 所有教室均出现在结果中（按 rooms 顺序），未排课的教室学时为 0。
// utilization_pct = 学时 / max(standardHours, Epsilon) × 100。
func CalculateUtilization(schedule []model.Course, rooms []model.CampusRoom, standardHours float64) []model.Utilization {
	out := make([]model.Utilization, 0, len(rooms))
	if len(rooms) == 0 {
		return out
	}

	hours := make(map[string]float64)
	for _, m := range ExpandByDay(schedule) {
		hours[strings.TrimSpace(m.Course.Location)] += m.Hours()
	}

	denom := math.Max(standardHours, Epsilon)
	for _, r := range rooms {
		h := hours[r.RoomID]
		out = append(out, model.Utilization{
			Location:              r.RoomID,
			Stations:              r.Stations,
			RoomType:              r.RoomType,
			RoomSizeCategory:      r.RoomSizeCategory,
			ScheduledHoursPerWeek: h,
			UtilizationPct:        h / denom * 100,
		})
	}
	return out
}

// SummarizeUtilization 按 (Room Type, Room Size Category) 汇总：不同教室数与平均利用率（保留一位小数）
func SummarizeUtilization(rows []model.Utilization) []model.UtilizationSummary {
	type key struct{ roomType, size string }
	type acc struct {
		locations map[string]bool
		sum       float64
		n         int
	}
	groups := make(map[key]*acc)
	for _, u := range rows {
		k := key{u.RoomType, u.RoomSizeCategory}
		g, ok := groups[k]
		if !ok {
			g = &acc{locations: make(map[string]bool)}
			groups[k] = g
		}
		g.locations[u.Location] = true
		g.sum += u.UtilizationPct
		g.n++
	}

	out := make([]model.UtilizationSummary, 0, len(groups))
	for k, g := range groups {
		out = append(out, model.UtilizationSummary{
			RoomType:         k.roomType,
			RoomSizeCategory: k.size,
			Rooms:            len(g.locations),
			AvgUtilPct:       round1(g.sum / float64(g.n)),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].RoomType != out[j].RoomType {
			return out[i].RoomType < out[j].RoomType
		}
		return out[i].RoomSizeCategory < out[j].RoomSizeCategory
	})
	return out
}

func round1(v float64) float64 {
	return math.RoundToEven(v*10) / 10
}
