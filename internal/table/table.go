package table

import (
	"fmt"
	"strings"
)

// Table 通用二维表：从电子表格/CSV/日历中提取的原始数据
//
// 所有单元格均以字符串保存（与 excelize GetRows 的输出一致），
// 数值与时间在标准化阶段按需解析。Rows 中每一行的长度始终等于 len(Columns)。
type Table struct {
	Name    string     `json:"name"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// New 创建空表
func New(name string, columns []string) *Table {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Table{Name: name, Columns: cols}
}

// FromRecords 由 "表头 + 数据行" 形式的二维数组构建 Table
//
//   - 第一行为表头，表头去除首尾空白
//   - 空表头命名为 "Unnamed: i"，重复表头追加 ".1" ".2" 后缀
//   - 数据行按表头长度补齐/截断
//   - 跳过全空行
func FromRecords(name string, records [][]string) *Table {
	if len(records) == 0 {
		return New(name, nil)
	}

	header := records[0]
	cols := make([]string, len(header))
	seen := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if h == "" {
			h = fmt.Sprintf("Unnamed: %d", i)
		}
		if n, ok := seen[h]; ok {
			seen[h] = n + 1
			h = fmt.Sprintf("%s.%d", h, n+1)
		} else {
			seen[h] = 0
		}
		cols[i] = h
	}

	t := New(name, cols)
	for _, rec := range records[1:] {
		if isBlank(rec) {
			continue
		}
		t.AppendRow(rec)
	}
	return t
}

// AppendRow 追加一行，长度按列数补齐或截断
func (t *Table) AppendRow(values []string) {
	row := make([]string, len(t.Columns))
	copy(row, values)
	t.Rows = append(t.Rows, row)
}

// Len 返回数据行数
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Empty 无表或无数据行
func (t *Table) Empty() bool {
	return t.Len() == 0
}

// Index 返回列名的精确下标，不存在时返回 -1
func (t *Table) Index(col string) int {
	for i, c := range t.Columns {
		if c == col {
			return i
		}
	}
	return -1
}

// Value 读取单元格；列不存在或越界时返回空串
func (t *Table) Value(row int, col string) string {
	idx := t.Index(col)
	if idx < 0 || row < 0 || row >= len(t.Rows) {
		return ""
	}
	return t.Rows[row][idx]
}

// Column 返回整列数据；列不存在时返回 nil
func (t *Table) Column(col string) []string {
	idx := t.Index(col)
	if idx < 0 {
		return nil
	}
	out := make([]string, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r[idx]
	}
	return out
}

// Concat 纵向拼接多张表（行堆叠）
//
// 列名先去除首尾空白，结果列为各表列的并集（按首次出现顺序），
// 某表缺失的列填空串。nil 表被忽略。
func Concat(name string, tables ...*Table) *Table {
	var cols []string
	pos := make(map[string]int)
	labels := make([][]string, len(tables))
	for ti, t := range tables {
		if t == nil {
			continue
		}
		labels[ti] = trimmedLabels(t.Columns)
		for _, c := range labels[ti] {
			if _, ok := pos[c]; !ok {
				pos[c] = len(cols)
				cols = append(cols, c)
			}
		}
	}

	out := New(name, cols)
	for ti, t := range tables {
		if t == nil {
			continue
		}
		mapping := make([]int, len(t.Columns))
		for i, c := range labels[ti] {
			mapping[i] = pos[c]
		}
		for _, r := range t.Rows {
			row := make([]string, len(cols))
			for i, v := range r {
				row[mapping[i]] = v
			}
			out.Rows = append(out.Rows, row)
		}
	}
	return out
}

// trimmedLabels 去除列名首尾空白；同一表内去空白后重名的列追加 ".N" 后缀
func trimmedLabels(columns []string) []string {
	out := make([]string, len(columns))
	seen := make(map[string]int, len(columns))
	for i, c := range columns {
		c = strings.TrimSpace(c)
		if n, ok := seen[c]; ok {
			seen[c] = n + 1
			c = fmt.Sprintf("%s.%d", c, n+1)
		} else {
			seen[c] = 0
		}
		out[i] = c
	}
	return out
}

func isBlank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
