package analysis

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// clockLayouts 可识别的时刻格式（含日期的格式只取时刻部分）
var clockLayouts = []string{
	"15:04",
	"15:04:05",
	"3:04PM",
	"3:04 PM",
	"3:04:05PM",
	"3:04:05 PM",
	"3PM",
	"3 PM",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	time.RFC3339,
	"2006-01-02T15:04Z07:00",
	"01/02/2006 15:04:05",
	"01/02/2006 15:04",
	"1/2/2006 3:04 PM",
	"1/2/06 15:04",
}

// ParseClock 将时刻文本解析为距零点的时长
//
// 支持 24 小时制、带 AM/PM 的 12 小时制、带秒、日期时间串，
// 以及 Excel 的日小数（0 <= v < 1，如 0.375 表示 09:00）。
func ParseClock(s string) (time.Duration, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.ReplaceAll(strings.ReplaceAll(s, "A.M.", "AM"), "P.M.", "PM")
	if s == "" {
		return 0, false
	}

	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Duration(t.Hour())*time.Hour +
				time.Duration(t.Minute())*time.Minute +
				time.Duration(t.Second())*time.Second, true
		}
	}

	if v, err := strconv.ParseFloat(s, 64); err == nil && v >= 0 && v < 1 {
		return (time.Duration(v * float64(24*time.Hour))).Round(time.Second), true
	}
	return 0, false
}

// FormatClock 以 "15:04" 输出时刻，含秒时输出 "15:04:05"
func FormatClock(d time.Duration) string {
	h := int(d / time.Hour)
	m := int(d % time.Hour / time.Minute)
	sec := int(d % time.Minute / time.Second)
	if sec != 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, sec)
	}
	return fmt.Sprintf("%02d:%02d", h, m)
}
