package transform

import (
	"fmt"
	"strings"

	"github.com/scooter7/credo-etl/internal/model"
	"github.com/scooter7/credo-etl/internal/table"
)

// DefaultLookupMinScore 自动识别对照表的最低得分
const DefaultLookupMinScore = 2

// ScoreLookupSheet 按表头特征为候选对照表打分
//
//   - 同时含 {building, room #} 或 {bldg, room}：+2
//   - 含 asf 或 sf：+1
//   - 含 space use / room type / use：+1
func ScoreLookupSheet(t *table.Table) int {
	if t == nil {
		return 0
	}
	cols := table.LowerColumnSet(t)
	score := 0
	if (cols["building"] && cols["room #"]) || (cols["bldg"] && cols["room"]) {
		score += 2
	}
	if cols["asf"] || cols["sf"] {
		score++
	}
	if cols["space use"] || cols["room type"] || cols["use"] {
		score++
	}
	return score
}

// DetectLookupSheet 从候选表中选出得分最高的对照表
//
// 同分时取靠前者；最高分低于 minScore 时返回 ErrLookupNotFound，
// 由调用方要求人工指定。minScore <= 0 时使用 DefaultLookupMinScore。
func DetectLookupSheet(sheets []*table.Table, minScore int) (*table.Table, int, error) {
	if minScore <= 0 {
		minScore = DefaultLookupMinScore
	}
	var best *table.Table
	bestScore := -1
	for _, t := range sheets {
		if t == nil {
			continue
		}
		if s := ScoreLookupSheet(t); s > bestScore {
			best, bestScore = t, s
		}
	}
	if best == nil || bestScore < minScore {
		return nil, bestScore, ErrLookupNotFound
	}
	return best, bestScore, nil
}

// GuessLookupColumns 使用默认别名推测对照表列映射
func GuessLookupColumns(t *table.Table) LookupColumns {
	return defaultNormalizer.LookupColumns(t)
}

// LookupColumns 按小写精确别名推测对照表列映射，未命中的字段为空串
func (n *Normalizer) LookupColumns(t *table.Table) LookupColumns {
	byLower := make(map[string]string, len(t.Columns))
	for _, c := range t.Columns {
		key := strings.ToLower(strings.TrimSpace(c))
		if _, ok := byLower[key]; !ok {
			byLower[key] = c
		}
	}
	pickAlias := func(aliases []string) string {
		for _, a := range aliases {
			if c, ok := byLower[strings.ToLower(a)]; ok {
				return c
			}
		}
		return ""
	}

	a := n.syn.Lookup
	return LookupColumns{
		Building:  pickAlias(a.Building),
		Room:      pickAlias(a.Room),
		ASF:       pickAlias(a.ASF),
		Capacity:  pickAlias(a.Capacity),
		RoomType:  pickAlias(a.RoomType),
		Registrar: pickAlias(a.Registrar),
	}
}

// CampusRoomsFromSheet 推测列映射（cols 为 nil 时）并构建校园教室表
func (n *Normalizer) CampusRoomsFromSheet(t *table.Table, cols *LookupColumns) ([]model.CampusRoom, LookupColumns, error) {
	mapping := LookupColumns{}
	if cols != nil {
		mapping = *cols
	} else if t != nil {
		mapping = n.LookupColumns(t)
	}
	lookup, err := ExtractRoomLookup(t, mapping)
	if err != nil {
		return nil, mapping, err
	}
	rooms, err := BuildCampusRooms(lookup)
	if err != nil {
		return nil, mapping, fmt.Errorf("构建校园教室表失败: %w", err)
	}
	return rooms, mapping, nil
}

// IsScheduleSheet 判断原始表是否像排课表：含 times/days/rooms 或 start time/end time 列
func IsScheduleSheet(t *table.Table) bool {
	if t == nil {
		return false
	}
	cols := table.LowerColumnSet(t)
	for _, k := range []string{"times", "days", "rooms", "start time", "end time"} {
		if cols[k] {
			return true
		}
	}
	return false
}
