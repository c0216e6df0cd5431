package transform

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/scooter7/credo-etl/internal/table"
)

func sheet(name string, header ...string) *table.Table {
	return table.New(name, header)
}

func TestScoreLookupSheet(t *testing.T) {
	tests := []struct {
		name string
		t    *table.Table
		want int
	}{
		{"building + room #", sheet("a", "Building", "Room #"), 2},
		{"bldg + room + asf + use", sheet("b", "BLDG", " Room ", "ASF", "Use"), 4},
		{"仅 room type", sheet("c", "Room Type", "SF"), 2},
		{"无特征", sheet("d", "Course", "Days"), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ScoreLookupSheet(tt.t); got != tt.want {
				t.Errorf("期望得分 %d，实际: %d", tt.want, got)
			}
		})
	}
}

func TestDetectLookupSheet(t *testing.T) {
	schedule := sheet("Schedule", "Course", "Days", "Room")
	lookup := sheet("Rooms", "Bldg", "Room", "ASF")
	tie := sheet("Rooms2", "Bldg", "Room", "SF")

	got, score, err := DetectLookupSheet([]*table.Table{schedule, lookup, tie}, 0)
	if err != nil {
		t.Fatalf("DetectLookupSheet 应成功: %v", err)
	}
	if got.Name != "Rooms" || score != 3 {
		t.Errorf("期望 Rooms/3（同分取靠前者），实际: %s/%d", got.Name, score)
	}
}

func TestDetectLookupSheet_BelowThreshold(t *testing.T) {
	weak := sheet("Weak", "ASF", "Room Type")
	_, score, err := DetectLookupSheet([]*table.Table{weak}, 3)
	if !errors.Is(err, ErrLookupNotFound) {
		t.Errorf("期望 ErrLookupNotFound，实际: %v", err)
	}
	if score != 2 {
		t.Errorf("期望最高分 2，实际: %d", score)
	}

	if _, _, err := DetectLookupSheet(nil, 0); !errors.Is(err, ErrLookupNotFound) {
		t.Errorf("无候选表期望 ErrLookupNotFound，实际: %v", err)
	}
}

func TestGuessLookupColumns(t *testing.T) {
	tbl := sheet("s", "Bldg Code", "Number", "Assignable Square Feet", "Seats", "Type", "Registrar Scheduled")
	got := GuessLookupColumns(tbl)
	want := LookupColumns{
		Building:  "Bldg Code",
		Room:      "Number",
		ASF:       "Assignable Square Feet",
		Capacity:  "Seats",
		RoomType:  "Type",
		Registrar: "Registrar Scheduled",
	}
	if got != want {
		t.Errorf("期望 %+v，实际: %+v", want, got)
	}

	// 仅精确匹配："Room Number" 不会命中 "room"
	if got := GuessLookupColumns(sheet("s", "Building", "Room Number")); got.Room != "" {
		t.Errorf("期望 Room 未映射，实际: %q", got.Room)
	}
}

func TestIsScheduleSheet(t *testing.T) {
	if !IsScheduleSheet(sheet("s", "Course", " Start Time ")) {
		t.Error("含 Start Time 的表应识别为排课表")
	}
	if !IsScheduleSheet(sheet("s", "DAYS")) {
		t.Error("含 Days 的表应识别为排课表")
	}
	if IsScheduleSheet(sheet("s", "Building", "Room #")) {
		t.Error("对照表不应识别为排课表")
	}
}

func TestNormalizer_CampusRoomsFromSheet(t *testing.T) {
	raw := table.FromRecords("Rooms", [][]string{
		{"Bldg", "Room", "Stations"},
		{"LIB", "2", "12"},
	})
	rooms, cols, err := defaultNormalizer.CampusRoomsFromSheet(raw, nil)
	if err != nil {
		t.Fatalf("CampusRoomsFromSheet 应成功: %v", err)
	}
	if cols.Capacity != "Stations" {
		t.Errorf("期望 Capacity 映射到 Stations，实际: %q", cols.Capacity)
	}
	if len(rooms) != 1 || rooms[0].RoomID != "LIB 2" || rooms[0].RoomSizeCategory != "A" {
		t.Errorf("教室表不符: %+v", rooms)
	}
}

func TestLoadSynonyms(t *testing.T) {
	path := filepath.Join(t.TempDir(), "synonyms.yaml")
	content := "instructor: [\"Teacher\"]\nlookup:\n  room: [\"space\"]\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("写入临时文件失败: %v", err)
	}

	syn, err := LoadSynonyms(path)
	if err != nil {
		t.Fatalf("LoadSynonyms 应成功: %v", err)
	}
	if len(syn.Instructor) != 1 || syn.Instructor[0] != "Teacher" {
		t.Errorf("期望 Instructor 被覆盖，实际: %v", syn.Instructor)
	}
	if len(syn.Lookup.Room) != 1 || syn.Lookup.Room[0] != "space" {
		t.Errorf("期望 lookup.room 被覆盖，实际: %v", syn.Lookup.Room)
	}
	if len(syn.Days) == 0 || len(syn.Lookup.Building) == 0 {
		t.Error("未覆盖的字段应保留默认值")
	}

	if _, err := LoadSynonyms(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("文件不存在时应返回错误")
	}
}
