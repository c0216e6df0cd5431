package table

import "testing"

func TestFindColumn(t *testing.T) {
	tests := []struct {
		name       string
		columns    []string
		candidates []string
		want       string
		found      bool
	}{
		{"精确匹配忽略大小写", []string{"course title", "Dept"}, []string{"Course Title"}, "course title", true},
		{"精确匹配优先于子串", []string{"Start Date", "Start"}, []string{"Start"}, "Start", true},
		{"候选顺序决定精确匹配", []string{"Title", "Course Title"}, []string{"Course Title", "Title"}, "Course Title", true},
		{"子串匹配按列顺序", []string{"Primary Instructor Name", "Instructor ID"}, []string{"Instructor"}, "Primary Instructor Name", true},
		{"子串误命中属已知限制", []string{"Start Date"}, []string{"Start Time", "Start"}, "Start Date", true},
		{"无匹配", []string{"Foo", "Bar"}, []string{"Room"}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := New("t", tt.columns)
			got, ok := FindColumn(tbl, tt.candidates)
			if ok != tt.found || got != tt.want {
				t.Errorf("期望 (%q, %v)，实际: (%q, %v)", tt.want, tt.found, got, ok)
			}
		})
	}
}

func TestFindColumn_NilTable(t *testing.T) {
	if _, ok := FindColumn(nil, []string{"Room"}); ok {
		t.Error("nil 表不应命中任何列")
	}
}
