package model

// RoomLookup 楼宇/教室对照表的原始提取结果
//
// 由 transform.ExtractRoomLookup 在列映射解析后生成，尚未去重与分档。
type RoomLookup struct {
	Bldg          string  `json:"bldg"`
	Room          string  `json:"room"`
	ASF           float64 `json:"asf"`
	Stations      int     `json:"stations"`
	RoomType      string  `json:"room_type"`
	RegistrarFlag string  `json:"registrar_flag,omitempty"`
}

// CampusRoom 校园教室表行：对应导出工作簿 "Campus Rooms"
type CampusRoom struct {
	RoomID           string  `json:"room_id"` // "{Bldg} {Room}"，唯一键
	Bldg             string  `json:"bldg"`
	Room             string  `json:"room"`
	Stations         int     `json:"stations"`
	RoomType         string  `json:"room_type"`
	ASF              float64 `json:"asf"`
	RoomSizeCategory string  `json:"room_size_category"` // A-F
}

// CampusRoomColumns 导出列顺序
var CampusRoomColumns = []string{
	"Room ID", "Bldg", "Room", "Stations", "Room Type", "ASF", "Room Size Category",
}

// Values 按 CampusRoomColumns 顺序返回单元格值
func (r CampusRoom) Values() []interface{} {
	return []interface{}{r.RoomID, r.Bldg, r.Room, r.Stations, r.RoomType, r.ASF, r.RoomSizeCategory}
}

// RoomInventory 教室家具清单行（占位列，由人工补录）
type RoomInventory struct {
	RoomID    string `json:"room_id"`
	Desks     string `json:"desks"`
	Tables    string `json:"tables"`
	Chairs    string `json:"chairs"`
	Computers string `json:"computers"`
	AV        string `json:"av"`
	Wall      string `json:"wall"`
	Other     string `json:"other"`
}

// RoomInventoryColumns 导出列顺序
var RoomInventoryColumns = []string{
	"Room ID", "Desks", "Tables", "Chairs", "Computers", "AV", "Wall", "Other",
}

// Values 按 RoomInventoryColumns 顺序返回单元格值
func (r RoomInventory) Values() []interface{} {
	return []interface{}{r.RoomID, r.Desks, r.Tables, r.Chairs, r.Computers, r.AV, r.Wall, r.Other}
}
