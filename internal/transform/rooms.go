package transform

import (
	"fmt"
	"strings"

	"github.com/scooter7/credo-etl/internal/model"
	"github.com/scooter7/credo-etl/internal/table"
)

const defaultRoomType = "Unknown"

// LookupColumns 对照表字段到原始表头的映射，空串表示未映射
type LookupColumns struct {
	Building  string `json:"building"`
	Room      string `json:"room"`
	ASF       string `json:"asf"`
	Capacity  string `json:"capacity"`
	RoomType  string `json:"room_type"`
	Registrar string `json:"registrar"`
}

// ExtractRoomLookup 按列映射从原始对照表提取楼宇/教室记录
//
// Building 与 Room 为必需映射，缺失或在表中不存在时返回 ErrMissingRoomMapping。
// 未映射的 ASF/Capacity 记为 0，Room Type 记为 "Unknown"。
func ExtractRoomLookup(t *table.Table, cols LookupColumns) ([]model.RoomLookup, error) {
	if t.Empty() {
		return nil, ErrEmptyLookup
	}

	bi, ri := indexOf(t, cols.Building), indexOf(t, cols.Room)
	if bi < 0 || ri < 0 {
		return nil, fmt.Errorf("%w（现有列: %s）", ErrMissingRoomMapping, strings.Join(t.Columns, ", "))
	}
	ai, ci := indexOf(t, cols.ASF), indexOf(t, cols.Capacity)
	ti, gi := indexOf(t, cols.RoomType), indexOf(t, cols.Registrar)

	out := make([]model.RoomLookup, 0, t.Len())
	for _, row := range t.Rows {
		get := func(idx int) string {
			if idx < 0 {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}
		rt := get(ti)
		if rt == "" {
			rt = defaultRoomType
		}
		out = append(out, model.RoomLookup{
			Bldg:          get(bi),
			Room:          get(ri),
			ASF:           parseNumber(get(ai)),
			Stations:      parseCount(get(ci)),
			RoomType:      rt,
			RegistrarFlag: get(gi),
		})
	}
	return out, nil
}

// BuildCampusRooms 由对照表记录构建校园教室表
//
// Room ID = "{Bldg} {Room}"；Room ID 为空的行被跳过，重复 Room ID 保留首次出现。
func BuildCampusRooms(lookup []model.RoomLookup) ([]model.CampusRoom, error) {
	if len(lookup) == 0 {
		return nil, ErrEmptyLookup
	}

	seen := make(map[string]bool, len(lookup))
	out := make([]model.CampusRoom, 0, len(lookup))
	for _, l := range lookup {
		bldg, room := strings.TrimSpace(l.Bldg), strings.TrimSpace(l.Room)
		id := strings.TrimSpace(bldg + " " + room)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true

		rt := strings.TrimSpace(l.RoomType)
		if rt == "" {
			rt = defaultRoomType
		}
		stations, asf := l.Stations, l.ASF
		if stations < 0 {
			stations = 0
		}
		if asf < 0 {
			asf = 0
		}
		out = append(out, model.CampusRoom{
			RoomID:           id,
			Bldg:             bldg,
			Room:             room,
			Stations:         stations,
			RoomType:         rt,
			ASF:              asf,
			RoomSizeCategory: SizeCategory(stations, asf),
		})
	}
	if len(out) == 0 {
		return nil, ErrEmptyLookup
	}
	return out, nil
}

// SizeCategory 教室规模分档（A-F）
//
// 座位数 > 0 时按座位数分档，否则按 ASF 分档。
func SizeCategory(stations int, asf float64) string {
	if stations > 0 {
		switch {
		case stations <= 15:
			return "A"
		case stations <= 25:
			return "B"
		case stations <= 35:
			return "C"
		case stations <= 49:
			return "D"
		case stations <= 75:
			return "E"
		}
		return "F"
	}
	switch {
	case asf <= 300:
		return "A"
	case asf <= 500:
		return "B"
	case asf <= 700:
		return "C"
	case asf <= 900:
		return "D"
	case asf <= 1300:
		return "E"
	}
	return "F"
}

func indexOf(t *table.Table, col string) int {
	if col == "" {
		return -1
	}
	return t.Index(col)
}
