package transform

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/scooter7/credo-etl/internal/daycode"
	"github.com/scooter7/credo-etl/internal/model"
	"github.com/scooter7/credo-etl/internal/table"
)

var whitespace = regexp.MustCompile(`\s+`)

// scheduleColumns 排课表各字段解析出的列下标，-1 表示未找到
type scheduleColumns struct {
	title, dept, instructor   int
	start, end, timeRange     int
	days                      int
	bldg, room                int
	capacity, enrolled, seats int
	startDate, endDate        int
	dayFlags                  []int
}

// BuildCourseSchedule 使用默认同义词构建课程排课表
func BuildCourseSchedule(raw *table.Table) ([]model.Course, error) {
	return defaultNormalizer.CourseSchedule(raw)
}

// CourseSchedule 将（已拼接的）原始排课表标准化为课程排课表
//
// 课程标识：优先 "课程号 + 班号" 拼接并去除全部空白，否则取组合标识列；
// 两者均无法解析时返回 ErrMissingCourseID。任一行标识为空返回 ErrEmptyCourseID。
func (n *Normalizer) CourseSchedule(raw *table.Table) ([]model.Course, error) {
	if raw.Empty() {
		return nil, ErrEmptySchedule
	}

	ids, err := n.courseIDs(raw)
	if err != nil {
		return nil, err
	}
	cols := n.resolveScheduleColumns(raw)

	out := make([]model.Course, 0, raw.Len())
	for i, row := range raw.Rows {
		if ids[i] == "" {
			return nil, fmt.Errorf("%w: 第 %d 行", ErrEmptyCourseID, i+1)
		}
		get := func(idx int) string {
			if idx < 0 {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}

		c := model.Course{
			CourseID:    ids[i],
			CourseTitle: get(cols.title),
			Dept:        get(cols.dept),
			Instructor:  get(cols.instructor),
			StartTime:   get(cols.start),
			EndTime:     get(cols.end),
			Bldg:        get(cols.bldg),
			Room:        get(cols.room),
			StartDate:   get(cols.startDate),
			EndDate:     get(cols.endDate),
		}

		if cols.timeRange >= 0 {
			c.StartTime, c.EndTime = splitTimeRange(get(cols.timeRange))
		}

		switch {
		case cols.days >= 0:
			c.Days = daycode.Normalize(get(cols.days))
		case len(cols.dayFlags) > 0:
			headers := make([]string, len(cols.dayFlags))
			values := make([]string, len(cols.dayFlags))
			for k, idx := range cols.dayFlags {
				headers[k] = raw.Columns[idx]
				values[k] = row[idx]
			}
			c.Days = daycode.FromFlags(headers, values)
		}

		c.Location = strings.TrimSpace(c.Bldg + " " + c.Room)
		c.CourseCapacity = parseCount(get(cols.capacity))
		c.ActualEnrolled = parseCount(get(cols.enrolled))
		if cols.seats >= 0 {
			c.SeatsInOverallUtil = parseCount(get(cols.seats))
		} else {
			c.SeatsInOverallUtil = c.ActualEnrolled
		}

		out = append(out, c)
	}
	return out, nil
}

// courseIDs 逐行生成课程标识
func (n *Normalizer) courseIDs(raw *table.Table) ([]string, error) {
	courseCol, hasCourse := table.FindColumn(raw, n.syn.CourseNumber)
	sectCol, hasSect := table.FindColumn(raw, n.syn.Section)
	if hasCourse && hasSect {
		ci, si := raw.Index(courseCol), raw.Index(sectCol)
		ids := make([]string, raw.Len())
		for i, row := range raw.Rows {
			joined := strings.TrimSpace(row[ci]) + strings.TrimSpace(row[si])
			ids[i] = whitespace.ReplaceAllString(joined, "")
		}
		return ids, nil
	}

	idCol, ok := table.FindColumn(raw, n.syn.CourseID)
	if !ok {
		return nil, fmt.Errorf("%w（现有列: %s）", ErrMissingCourseID, strings.Join(raw.Columns, ", "))
	}
	idx := raw.Index(idCol)
	ids := make([]string, raw.Len())
	for i, row := range raw.Rows {
		ids[i] = strings.TrimSpace(row[idx])
	}
	return ids, nil
}

func (n *Normalizer) resolveScheduleColumns(raw *table.Table) scheduleColumns {
	find := func(cands []string) int {
		if c, ok := table.FindColumn(raw, cands); ok {
			return raw.Index(c)
		}
		return -1
	}

	cols := scheduleColumns{
		title:      find(n.syn.Title),
		dept:       find(n.syn.Dept),
		instructor: find(n.syn.Instructor),
		start:      find(n.syn.StartTime),
		end:        find(n.syn.EndTime),
		timeRange:  -1,
		days:       find(n.syn.Days),
		bldg:       find(n.syn.Bldg),
		room:       find(n.syn.Room),
		capacity:   find(n.syn.Capacity),
		enrolled:   find(n.syn.Enrolled),
		seats:      find(n.syn.SeatsOverall),
		startDate:  find(n.syn.StartDate),
		endDate:    find(n.syn.EndDate),
	}

	// 起止时间均缺失时，尝试 "9:00AM-10:15AM" 形式的时间段列
	if cols.start < 0 && cols.end < 0 {
		cols.timeRange = find(n.syn.TimeRange)
	}

	if cols.days < 0 {
		for i, h := range raw.Columns {
			if daycode.IsFlagColumn(h) {
				cols.dayFlags = append(cols.dayFlags, i)
			}
		}
	}
	return cols
}

var rangeSeparators = []string{" to ", "\u2013", "\u2014", "-"}

// splitTimeRange 拆分时间段文本；无分隔符时整体作为开始时间
func splitTimeRange(v string) (string, string) {
	for _, sep := range rangeSeparators {
		if i := strings.Index(v, sep); i >= 0 {
			return strings.TrimSpace(v[:i]), strings.TrimSpace(v[i+len(sep):])
		}
	}
	return v, ""
}
