package ingest

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/scooter7/credo-etl/internal/daycode"
	"github.com/scooter7/credo-etl/internal/table"
)

// ── ICS 读取 ────────────────────────────────────────────────
//
// 将 iCalendar (RFC 5545) 的 VEVENT 转为一张原始排课表，交由排课标准化处理：
//   - SUMMARY → CourseID；DESCRIPTION 首行（若有）→ Course Title
//   - ORGANIZER 的 CN 参数（或邮箱）→ Instructor
//   - LOCATION 最后一段 → Room，其余 → Bldg
//   - RRULE BYDAY 给出星期；无 BYDAY 时取 DTSTART 的星期
//   - 同课程同时段同地点的多个事件合并星期
//   - 全天事件（仅日期）跳过
//
// 时间按文件中的钟面时间读取，不做时区换算。
// ─────────────────────────────────────────────────────────────

// CalendarColumns 日历转换后的原始表头
var CalendarColumns = []string{
	"CourseID", "Course Title", "Instructor", "Days", "Start Time", "End Time",
	"Bldg", "Room", "Start Date", "End Date",
}

// calendarEvent ICS 解析中间结构
type calendarEvent struct {
	Summary    string
	Title      string
	Instructor string
	Location   string
	Days       map[string]bool
	StartTime  string
	EndTime    string
	StartDate  string
	EndDate    string
}

var weekdayCodes = map[string]string{
	"MO": "M", "TU": "T", "WE": "W", "TH": "R", "FR": "F", "SA": "S", "SU": "U",
}

// ReadCalendar 解析 ICS 内容为原始排课表
func ReadCalendar(r io.Reader) (*table.Table, error) {
	cal, err := ics.ParseCalendar(r)
	if err != nil {
		return nil, fmt.Errorf("ICS 格式解析失败: %w", err)
	}

	// 阶段 1: 解析所有 VEVENT
	var events []calendarEvent
	for _, comp := range cal.Events() {
		evt, ok := parseVEvent(comp)
		if !ok {
			continue
		}
		events = append(events, evt)
	}

	// 阶段 2: 合并同课程事件的星期
	merged := mergeEvents(events)

	// 阶段 3: 转为原始表
	t := table.New("Calendar", CalendarColumns)
	for _, e := range merged {
		bldg, room := splitLocation(e.Location)
		t.AppendRow([]string{
			e.Summary, e.Title, e.Instructor, joinDays(e.Days), e.StartTime, e.EndTime,
			bldg, room, e.StartDate, e.EndDate,
		})
	}
	return t, nil
}

// parseVEvent 解析单个 VEVENT 组件
func parseVEvent(evt *ics.VEvent) (calendarEvent, bool) {
	summary := propValue(evt, ics.ComponentPropertySummary)
	if summary == "" {
		return calendarEvent{}, false
	}

	dtStart, err := parseICSDateTime(evt, ics.ComponentPropertyDtStart)
	if err != nil {
		return calendarEvent{}, false
	}
	dtEnd, err := parseICSDateTime(evt, ics.ComponentPropertyDtEnd)
	if err != nil {
		d, ok := parseICSDuration(propValue(evt, ics.ComponentProperty(ics.PropertyDuration)))
		if !ok {
			return calendarEvent{}, false
		}
		dtEnd = dtStart.Add(d)
	}

	e := calendarEvent{
		Summary:    summary,
		Title:      firstLine(propValue(evt, ics.ComponentPropertyDescription)),
		Instructor: organizerName(evt),
		Location:   propValue(evt, ics.ComponentPropertyLocation),
		Days:       make(map[string]bool),
		StartTime:  dtStart.Format("15:04"),
		EndTime:    dtEnd.Format("15:04"),
		StartDate:  dtStart.Format("2006-01-02"),
		EndDate:    dtEnd.Format("2006-01-02"),
	}
	if e.Title == "" {
		e.Title = summary
	}

	rule := parseRRule(propValue(evt, ics.ComponentPropertyRrule))
	for _, d := range rule.byDay {
		e.Days[d] = true
	}
	if len(e.Days) == 0 {
		e.Days[goWeekdayToCode(dtStart.Weekday())] = true
	}
	if !rule.until.IsZero() {
		e.EndDate = rule.until.Format("2006-01-02")
	}
	return e, true
}

// rruleParams RRULE 中读取的字段
type rruleParams struct {
	byDay []string
	until time.Time
}

// parseRRule 解析 RRULE（如 FREQ=WEEKLY;BYDAY=MO,WE,FR;UNTIL=20241213T000000Z）
func parseRRule(value string) rruleParams {
	var r rruleParams
	for _, part := range strings.Split(value, ";") {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch strings.ToUpper(kv[0]) {
		case "BYDAY":
			for _, d := range strings.Split(kv[1], ",") {
				// "1MO" "-1FR" 等序数前缀忽略
				d = strings.ToUpper(strings.TrimLeft(strings.TrimSpace(d), "+-0123456789"))
				if code, ok := weekdayCodes[d]; ok {
					r.byDay = append(r.byDay, code)
				}
			}
		case "UNTIL":
			t, err := time.Parse("20060102T150405Z", kv[1])
			if err != nil {
				t, _ = time.Parse("20060102", kv[1])
			}
			r.until = t
		}
	}
	return r
}

// mergeEvents 合并同课程（名称+时段+地点+教师相同）事件的星期与起止日期
func mergeEvents(events []calendarEvent) []calendarEvent {
	type key struct {
		Summary, StartTime, EndTime, Location, Instructor string
	}
	merged := make(map[key]*calendarEvent)
	order := []key{}

	for _, e := range events {
		k := key{e.Summary, e.StartTime, e.EndTime, e.Location, e.Instructor}
		if existing, ok := merged[k]; ok {
			for d := range e.Days {
				existing.Days[d] = true
			}
			if e.StartDate < existing.StartDate {
				existing.StartDate = e.StartDate
			}
			if e.EndDate > existing.EndDate {
				existing.EndDate = e.EndDate
			}
		} else {
			cp := e
			merged[k] = &cp
			order = append(order, k)
		}
	}

	result := make([]calendarEvent, 0, len(merged))
	for _, k := range order {
		result = append(result, *merged[k])
	}
	return result
}

// ── 辅助函数 ──

func propValue(evt *ics.VEvent, name ics.ComponentProperty) string {
	p := evt.GetProperty(name)
	if p == nil {
		return ""
	}
	return strings.TrimSpace(p.Value)
}

// organizerName 优先取 ORGANIZER 的 CN 参数，否则取去掉 mailto: 的地址
func organizerName(evt *ics.VEvent) string {
	p := evt.GetProperty(ics.ComponentPropertyOrganizer)
	if p == nil {
		return ""
	}
	for k, v := range p.ICalParameters {
		if strings.EqualFold(k, "CN") && len(v) > 0 {
			return strings.Trim(strings.TrimSpace(v[0]), `"`)
		}
	}
	v := strings.TrimSpace(p.Value)
	if strings.HasPrefix(strings.ToLower(v), "mailto:") {
		v = v[len("mailto:"):]
	}
	return v
}

// splitLocation "ENG 101" → ("ENG", "101")；仅一段时视为教室号
func splitLocation(loc string) (string, string) {
	fields := strings.Fields(loc)
	switch len(fields) {
	case 0:
		return "", ""
	case 1:
		return "", fields[0]
	}
	return strings.Join(fields[:len(fields)-1], " "), fields[len(fields)-1]
}

func joinDays(days map[string]bool) string {
	var b strings.Builder
	for _, l := range daycode.Letters {
		if days[string(l)] {
			b.WriteRune(l)
		}
	}
	return b.String()
}

func firstLine(s string) string {
	s = strings.ReplaceAll(s, `\n`, "\n")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

func goWeekdayToCode(wd time.Weekday) string {
	return string(daycode.Letters[(int(wd)+6)%7])
}

// parseICSDateTime 从 VEVENT 中解析带时刻的日期时间属性；全天日期视为无效
func parseICSDateTime(evt *ics.VEvent, propName ics.ComponentProperty) (time.Time, error) {
	prop := evt.GetProperty(propName)
	if prop == nil {
		return time.Time{}, fmt.Errorf("missing property %s", propName)
	}
	val := strings.TrimSpace(prop.Value)

	for _, layout := range []string{"20060102T150405Z", "20060102T150405"} {
		if t, err := time.Parse(layout, val); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("无法解析日期时间: %s", val)
}

var icsDuration = regexp.MustCompile(`^P(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?)?$`)

// parseICSDuration 解析 DURATION（如 PT1H15M）
func parseICSDuration(v string) (time.Duration, bool) {
	m := icsDuration.FindStringSubmatch(strings.ToUpper(v))
	if m == nil || v == "P" || v == "PT" {
		return 0, false
	}
	units := []time.Duration{24 * time.Hour, time.Hour, time.Minute, time.Second}
	var d time.Duration
	for i, u := range units {
		if m[i+1] == "" {
			continue
		}
		n, _ := strconv.Atoi(m[i+1])
		d += time.Duration(n) * u
	}
	return d, d > 0
}
