// Package analysis 在标准化后的课程排课表上做冲突检测与教室利用率计算
package analysis

import (
	"time"

	"github.com/scooter7/credo-etl/internal/daycode"
	"github.com/scooter7/credo-etl/internal/model"
)

// Meeting 按星期展开后的一次上课
type Meeting struct {
	Course model.Course
	Day    string // 单个星期码；Days 为空的课程为 ""
	Start  time.Duration
	End    time.Duration
	Timed  bool // 起止时间均可解析
}

// Hours 上课时长（小时），时间不可解析或为负时记 0
func (m Meeting) Hours() float64 {
	if !m.Timed || m.End <= m.Start {
		return 0
	}
	return (m.End - m.Start).Hours()
}

// ExpandByDay 将每条课程按星期码展开为多条 Meeting
//
// Days 为空的课程保留为一条 Day="" 的记录。返回新切片，不修改入参。
func ExpandByDay(courses []model.Course) []Meeting {
	out := make([]Meeting, 0, len(courses))
	for _, c := range courses {
		start, okStart := ParseClock(c.StartTime)
		end, okEnd := ParseClock(c.EndTime)
		m := Meeting{Course: c, Start: start, End: end, Timed: okStart && okEnd}

		days := daycode.Split(c.Days)
		if len(days) == 0 {
			out = append(out, m)
			continue
		}
		for _, d := range days {
			m.Day = d
			out = append(out, m)
		}
	}
	return out
}
