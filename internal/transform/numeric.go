package transform

import (
	"math"
	"strconv"
	"strings"
)

// parseNumber 宽松数值解析：去除千分位逗号，非数值/NaN/Inf 记为 0，负数归零
func parseNumber(s string) float64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// parseCount 宽松整数解析，小数部分截断
func parseCount(s string) int {
	return int(parseNumber(s))
}
