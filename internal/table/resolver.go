package table

import "strings"

// FindColumn 在表头中查找与候选名最匹配的列
//
// 匹配顺序（顺序本身影响歧义表头的结果，不可调换）：
//  1. 忽略大小写的精确匹配，按候选名顺序
//  2. 忽略大小写的子串匹配：按表头原始顺序遍历，任一候选名出现在表头中即命中
//
// 未命中返回 ("", false)，是否致命由调用方决定。
// 子串匹配可能误命中（如候选 "Start" 命中 "Start Date"），属已知限制。
func FindColumn(t *Table, candidates []string) (string, bool) {
	if t == nil {
		return "", false
	}

	lowered := make(map[string]string, len(t.Columns))
	for _, c := range t.Columns {
		lowered[strings.ToLower(c)] = c
	}
	for _, cand := range candidates {
		if c, ok := lowered[strings.ToLower(cand)]; ok {
			return c, true
		}
	}

	for _, c := range t.Columns {
		cl := strings.ToLower(c)
		for _, cand := range candidates {
			if strings.Contains(cl, strings.ToLower(cand)) {
				return c, true
			}
		}
	}
	return "", false
}

// LowerColumnSet 返回去空白、小写化后的表头集合
func LowerColumnSet(t *Table) map[string]bool {
	set := make(map[string]bool, len(t.Columns))
	for _, c := range t.Columns {
		set[strings.ToLower(strings.TrimSpace(c))] = true
	}
	return set
}
