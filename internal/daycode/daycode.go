// Package daycode 将各种星期表示（单词、缩写、标记列）归一化为单字母星期码
//
// 字母表：M T W R F S U（R = 周四，U = 周日）。
package daycode

import (
	"strings"
	"unicode"
)

// Letters 规范星期码字母表，按周一到周日排列
const Letters = "MTWRFSU"

// charAliases 单字符映射
var charAliases = map[rune]rune{
	'm': 'M',
	't': 'T',
	'w': 'W',
	'r': 'R',
	'f': 'F',
	's': 'S',
	'u': 'U',
}

// flagAliases 星期标记列表头 → 星期码
var flagAliases = map[string]string{
	"m": "M", "mon": "M",
	"t": "T", "tu": "T", "tue": "T",
	"w": "W", "wed": "W",
	"r": "R", "th": "R", "thu": "R",
	"f": "F", "fri": "F",
	"s": "S", "sat": "S",
	"u": "U", "sun": "U",
}

// 多字符缩写替换，必须先于单字符映射执行：
// 单独的 "t" 表示周二，而 "th" 表示周四
var abbreviations = []struct{ from, to string }{
	{"thur", "r"},
	{"thu", "r"},
	{"th", "r"},
	{"tue", "t"},
	{"tu", "t"},
}

var stripper = strings.NewReplacer(" ", "", "-", "", "/", "")

// Normalize 将任意星期表示转换为规范星期码
//
// 示例："TTh" → "TR"，"M/W/F" → "MWF"，"" → ""。
// 无法识别的字符转大写后原样保留。
func Normalize(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return ""
	}
	s = stripper.Replace(s)

	// 反复替换直至稳定，保证 Normalize(Normalize(x)) == Normalize(x)
	for {
		next := s
		for _, a := range abbreviations {
			next = strings.ReplaceAll(next, a.from, a.to)
		}
		if next == s {
			break
		}
		s = next
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, ch := range s {
		if alias, ok := charAliases[ch]; ok {
			b.WriteRune(alias)
			continue
		}
		b.WriteRune(unicode.ToUpper(ch))
	}
	return b.String()
}

// IsFlagColumn 判断表头是否为星期标记列（如 "Mon"、"Th"、"U"）
func IsFlagColumn(header string) bool {
	_, ok := flagAliases[strings.ToLower(strings.TrimSpace(header))]
	return ok
}

// FlagLetter 返回标记列对应的星期码
func FlagLetter(header string) string {
	h := strings.ToLower(strings.TrimSpace(header))
	if l, ok := flagAliases[h]; ok {
		return l
	}
	if h == "" {
		return ""
	}
	return strings.ToUpper(h[:1])
}

// IsTruthy 判断标记单元格是否表示"有课"
func IsTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "y", "x", "✓":
		return true
	}
	return false
}

// FromFlags 按列顺序拼接取值为真的标记列对应的星期码
//
// headers 与 values 一一对应。
func FromFlags(headers, values []string) string {
	var b strings.Builder
	for i, h := range headers {
		if i >= len(values) || !IsTruthy(values[i]) {
			continue
		}
		b.WriteString(FlagLetter(h))
	}
	return b.String()
}

// Split 将星期码拆为单个字母（按出现顺序，保留重复）
func Split(code string) []string {
	out := make([]string, 0, len(code))
	for _, ch := range code {
		out = append(out, string(ch))
	}
	return out
}
