package analysis

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/scooter7/credo-etl/internal/model"
)

func course(id, loc, instructor, days, start, end string) model.Course {
	return model.Course{CourseID: id, Location: loc, Instructor: instructor, Days: days, StartTime: start, EndTime: end}
}

func TestDetectConflicts_OverlapScenario(t *testing.T) {
	schedule := []model.Course{
		course("A1", "ENG 101", "", "M", "09:00", "10:00"),
		course("B1", "ENG 101", "", "M", "09:30", "10:30"),
	}

	got := DetectConflicts(schedule, model.ConflictByLocation)
	want := []model.Conflict{{
		Key: "ENG 101", Day: "M", CourseIDA: "A1", CourseIDB: "B1",
		StartA: "09:00", EndA: "10:00", StartB: "09:30", EndB: "10:30",
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("冲突结果不符 (-want +got):\n%s", diff)
	}
}

func TestDetectConflicts_BackToBack(t *testing.T) {
	schedule := []model.Course{
		course("A1", "ENG 101", "", "MW", "09:00", "10:00"),
		course("B1", "ENG 101", "", "MW", "10:00", "11:00"),
	}
	if got := DetectConflicts(schedule, model.ConflictByLocation); len(got) != 0 {
		t.Errorf("首尾相接不应冲突，实际: %+v", got)
	}
}

func TestDetectConflicts_NoSelfConflictAndTrueOverlap(t *testing.T) {
	schedule := []model.Course{
		course("LONG", "SCI 1", "Lee", "TR", "08:00", "12:00"),
		course("S1", "SCI 1", "Lee", "T", "09:00", "09:50"),
		course("S2", "SCI 1", "Kim", "T", "10:00", "10:50"),
		course("S3", "SCI 1", "Kim", "R", "13:00", "14:00"),
		course("SOLO", "SCI 2", "Ng", "MWF", "08:00", "09:00"),
	}
	got := DetectConflicts(schedule, model.ConflictByLocation)

	// 组内扫描以首个不重叠者为止：LONG×S1、LONG×S2 均冲突，S1×S2 不冲突
	want := []model.Conflict{
		{Key: "SCI 1", Day: "T", CourseIDA: "LONG", CourseIDB: "S1", StartA: "08:00", EndA: "12:00", StartB: "09:00", EndB: "09:50"},
		{Key: "SCI 1", Day: "T", CourseIDA: "LONG", CourseIDB: "S2", StartA: "08:00", EndA: "12:00", StartB: "10:00", EndB: "10:50"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("冲突结果不符 (-want +got):\n%s", diff)
	}

	byID := map[string]model.Course{}
	for _, c := range schedule {
		byID[c.CourseID] = c
	}
	for _, c := range got {
		if c.CourseIDA == c.CourseIDB {
			t.Errorf("不应出现自冲突: %+v", c)
		}
		if !(c.StartA < c.EndB && c.StartB < c.EndA) {
			t.Errorf("冲突记录区间不重叠: %+v", c)
		}
		if byID[c.CourseIDA].Location != byID[c.CourseIDB].Location {
			t.Errorf("冲突双方分组键不同: %+v", c)
		}
	}
}

func TestDetectConflicts_Instructor(t *testing.T) {
	schedule := []model.Course{
		course("X", "A 1", "Smith", "M", "09:00", "10:00"),
		course("Y", "B 2", "Smith", "M", "09:45", "11:00"),
		course("Z", "C 3", " ", "M", "09:00", "10:00"),
	}
	got := ByInstructor(schedule, DefaultOptions())
	if len(got) != 1 || got[0].Key != "Smith" || got[0].CourseIDA != "X" || got[0].CourseIDB != "Y" {
		t.Errorf("教师冲突不符: %+v", got)
	}
	if rooms := ByLocation(schedule, DefaultOptions()); len(rooms) != 0 {
		t.Errorf("不同教室不应产生教室冲突，实际: %+v", rooms)
	}
}

func TestDetectConflicts_DropsUnparseableAndEmptyKey(t *testing.T) {
	schedule := []model.Course{
		course("A", "ENG 101", "", "M", "TBA", "10:00"),
		course("B", "ENG 101", "", "M", "09:00", "10:00"),
		course("C", "", "", "M", "09:00", "10:00"),
		course("D", "", "", "M", "09:00", "10:00"),
	}
	if got := DetectConflicts(schedule, model.ConflictByLocation); len(got) != 0 {
		t.Errorf("期望无冲突，实际: %+v", got)
	}
}

func TestDetectConflicts_UndatedRows(t *testing.T) {
	schedule := []model.Course{
		course("A", "ENG 101", "", "", "09:00", "10:00"),
		course("B", "ENG 101", "", "", "09:30", "10:30"),
	}

	got := ByLocation(schedule, DefaultOptions())
	if len(got) != 1 || got[0].Day != "" {
		t.Errorf("默认应在空星期分组中检测冲突，实际: %+v", got)
	}

	if got := ByLocation(schedule, Options{IncludeUndated: false}); len(got) != 0 {
		t.Errorf("关闭后不应检测无星期记录，实际: %+v", got)
	}
}

func TestDetectConflicts_GroupOrder(t *testing.T) {
	schedule := []model.Course{
		course("Z1", "ZOO 1", "", "M", "09:00", "10:00"),
		course("Z2", "ZOO 1", "", "M", "09:00", "10:00"),
		course("A1", "ART 1", "", "FM", "09:00", "10:00"),
		course("A2", "ART 1", "", "FM", "09:00", "10:00"),
	}
	got := DetectConflicts(schedule, model.ConflictByLocation)

	var keys []string
	for _, c := range got {
		keys = append(keys, c.Key+"/"+c.Day)
	}
	want := []string{"ART 1/M", "ART 1/F", "ZOO 1/M"}
	if diff := cmp.Diff(want, keys); diff != "" {
		t.Errorf("分组顺序不符 (-want +got):\n%s", diff)
	}
}

func TestDetectConflicts_Empty(t *testing.T) {
	got := DetectConflicts(nil, model.ConflictByInstructor)
	if got == nil || len(got) != 0 {
		t.Errorf("空排课表应返回空切片，实际: %v", got)
	}
}
