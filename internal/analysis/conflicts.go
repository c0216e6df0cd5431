package analysis

import (
	"sort"
	"strings"

	"github.com/scooter7/credo-etl/internal/daycode"
	"github.com/scooter7/credo-etl/internal/model"
)

// Options 分析参数
type Options struct {
	// IncludeUndated 为 true 时，Days 为空的课程在 Day="" 分组中参与冲突检测
	IncludeUndated bool
}

// DefaultOptions 默认分析参数
func DefaultOptions() Options {
	return Options{IncludeUndated: true}
}

// ByLocation 教室冲突
func ByLocation(schedule []model.Course, opts Options) []model.Conflict {
	return DetectConflictsWith(schedule, model.ConflictByLocation, opts)
}

// ByInstructor 教师冲突
func ByInstructor(schedule []model.Course, opts Options) []model.Conflict {
	return DetectConflictsWith(schedule, model.ConflictByInstructor, opts)
}

// DetectConflicts 使用默认参数检测冲突
func DetectConflicts(schedule []model.Course, key model.ConflictKey) []model.Conflict {
	return DetectConflictsWith(schedule, key, DefaultOptions())
}

// ═══════════════════════════════════════════════════════════
// DetectConflictsWith：按 (分组键, 星期) 检测时间重叠
// ═══════════════════════════════════════════════════════════
//
// 流程：
//  1. 按星期展开；起止时间不可解析的记录剔除
//  2. 剔除分组键为空的记录
//  3. 按 (键, 星期) 分组，组内按开始时间升序
//  4. 扫描：对每个 i 向后比较 j，start[j] < end[i] 即冲突；
//     遇到首个 start[j] >= end[i] 停止（首尾相接不算冲突）
//
// 输出顺序：分组键升序，其次星期（M T W R F S U），组内按扫描发现顺序。

func DetectConflictsWith(schedule []model.Course, key model.ConflictKey, opts Options) []model.Conflict {
	type groupKey struct{ key, day string }
	groups := make(map[groupKey][]Meeting)
	var order []groupKey

	for _, m := range ExpandByDay(schedule) {
		if !m.Timed {
			continue
		}
		if m.Day == "" && !opts.IncludeUndated {
			continue
		}
		k := strings.TrimSpace(groupValue(m.Course, key))
		if k == "" {
			continue
		}
		gk := groupKey{k, m.Day}
		if _, ok := groups[gk]; !ok {
			order = append(order, gk)
		}
		groups[gk] = append(groups[gk], m)
	}

	sort.Slice(order, func(i, j int) bool {
		if order[i].key != order[j].key {
			return order[i].key < order[j].key
		}
		return dayRank(order[i].day) < dayRank(order[j].day)
	})

	out := make([]model.Conflict, 0)
	for _, gk := range order {
		g := groups[gk]
		sort.SliceStable(g, func(i, j int) bool { return g[i].Start < g[j].Start })

		for i := 0; i < len(g); i++ {
			a := g[i]
			for j := i + 1; j < len(g); j++ {
				b := g[j]
				if b.Start >= a.End {
					break
				}
				out = append(out, model.Conflict{
					Key:       gk.key,
					Day:       gk.day,
					CourseIDA: a.Course.CourseID,
					CourseIDB: b.Course.CourseID,
					StartA:    FormatClock(a.Start),
					EndA:      FormatClock(a.End),
					StartB:    FormatClock(b.Start),
					EndB:      FormatClock(b.End),
				})
			}
		}
	}
	return out
}

func groupValue(c model.Course, key model.ConflictKey) string {
	if key == model.ConflictByInstructor {
		return c.Instructor
	}
	return c.Location
}

// dayRank 星期排序：空码最前，其次按 MTWRFSU，未知字符排最后
func dayRank(day string) int {
	if day == "" {
		return -1
	}
	if i := strings.Index(daycode.Letters, day); i >= 0 {
		return i
	}
	return len(daycode.Letters) + int(day[0])
}
