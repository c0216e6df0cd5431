package transform

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/scooter7/credo-etl/internal/model"
	"github.com/scooter7/credo-etl/internal/table"
)

func TestSizeCategory(t *testing.T) {
	tests := []struct {
		stations int
		asf      float64
		want     string
	}{
		{15, 0, "A"},
		{16, 0, "B"},
		{25, 9999, "B"},
		{26, 0, "C"},
		{35, 0, "C"},
		{49, 0, "D"},
		{50, 0, "E"},
		{75, 0, "E"},
		{76, 0, "F"},
		{0, 300, "A"},
		{0, 301, "B"},
		{0, 500, "B"},
		{0, 700, "C"},
		{0, 900, "D"},
		{0, 1300, "E"},
		{0, 1300.5, "F"},
		{0, 0, "A"},
	}
	for _, tt := range tests {
		if got := SizeCategory(tt.stations, tt.asf); got != tt.want {
			t.Errorf("SizeCategory(%d, %.1f) 期望 %s，实际: %s", tt.stations, tt.asf, tt.want, got)
		}
	}
}

func TestExtractRoomLookup(t *testing.T) {
	raw := table.FromRecords("Bldg Lookup", [][]string{
		{"Building", "Room #", "ASF", "Capacity", "Space Use", "Registrar"},
		{" ENG ", "101", "650.5", "30", "Classroom", "Y"},
		{"SCI", "B2", "n/a", "", "", ""},
	})
	cols := GuessLookupColumns(raw)

	got, err := ExtractRoomLookup(raw, cols)
	if err != nil {
		t.Fatalf("ExtractRoomLookup 应成功: %v", err)
	}
	want := []model.RoomLookup{
		{Bldg: "ENG", Room: "101", ASF: 650.5, Stations: 30, RoomType: "Classroom", RegistrarFlag: "Y"},
		{Bldg: "SCI", Room: "B2", RoomType: "Unknown"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("对照表提取结果不符 (-want +got):\n%s", diff)
	}
}

func TestExtractRoomLookup_MissingMapping(t *testing.T) {
	raw := table.FromRecords("s", [][]string{{"Building", "Area"}, {"ENG", "100"}})
	_, err := ExtractRoomLookup(raw, GuessLookupColumns(raw))
	if !errors.Is(err, ErrMissingRoomMapping) {
		t.Errorf("期望 ErrMissingRoomMapping，实际: %v", err)
	}

	_, err = ExtractRoomLookup(raw, LookupColumns{Building: "Building", Room: "Nope"})
	if !errors.Is(err, ErrMissingRoomMapping) {
		t.Errorf("映射列不存在时期望 ErrMissingRoomMapping，实际: %v", err)
	}

	if _, err := ExtractRoomLookup(nil, LookupColumns{}); !errors.Is(err, ErrEmptyLookup) {
		t.Errorf("nil 表期望 ErrEmptyLookup，实际: %v", err)
	}
}

func TestBuildCampusRooms(t *testing.T) {
	lookup := []model.RoomLookup{
		{Bldg: "ENG", Room: "101", Stations: 30, ASF: 650, RoomType: "Classroom"},
		{Bldg: "ENG", Room: "101", Stations: 99, RoomType: "Lab"},
		{Bldg: "SCI", Room: "B2", ASF: 301},
		{Bldg: " ", Room: ""},
	}
	got, err := BuildCampusRooms(lookup)
	if err != nil {
		t.Fatalf("BuildCampusRooms 应成功: %v", err)
	}
	want := []model.CampusRoom{
		{RoomID: "ENG 101", Bldg: "ENG", Room: "101", Stations: 30, RoomType: "Classroom", ASF: 650, RoomSizeCategory: "C"},
		{RoomID: "SCI B2", Bldg: "SCI", Room: "B2", RoomType: "Unknown", ASF: 301, RoomSizeCategory: "B"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("校园教室表不符 (-want +got):\n%s", diff)
	}
}

func TestBuildCampusRooms_Empty(t *testing.T) {
	if _, err := BuildCampusRooms(nil); !errors.Is(err, ErrEmptyLookup) {
		t.Errorf("期望 ErrEmptyLookup，实际: %v", err)
	}
}
