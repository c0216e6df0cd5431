package transform

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Synonyms 各标准字段的候选表头（按优先级排列）
//
// 可通过 YAML 文件覆盖，文件中缺省的字段沿用默认列表：
//
//	instructor: ["Instructor", "Teacher", "Faculty"]
//	lookup:
//	  room: ["room #", "room"]
type Synonyms struct {
	CourseID     []string `yaml:"course_id"`
	CourseNumber []string `yaml:"course_number"`
	Section      []string `yaml:"section"`
	Title        []string `yaml:"title"`
	Dept         []string `yaml:"dept"`
	Instructor   []string `yaml:"instructor"`
	StartTime    []string `yaml:"start_time"`
	EndTime      []string `yaml:"end_time"`
	TimeRange    []string `yaml:"time_range"`
	Days         []string `yaml:"days"`
	Bldg         []string `yaml:"bldg"`
	Room         []string `yaml:"room"`
	Capacity     []string `yaml:"capacity"`
	Enrolled     []string `yaml:"enrolled"`
	SeatsOverall []string `yaml:"seats_overall"`
	StartDate    []string `yaml:"start_date"`
	EndDate      []string `yaml:"end_date"`

	Lookup LookupAliases `yaml:"lookup"`
}

// LookupAliases 对照表列的小写精确别名（仅精确匹配，不做子串匹配）
type LookupAliases struct {
	Building  []string `yaml:"building"`
	Room      []string `yaml:"room"`
	ASF       []string `yaml:"asf"`
	Capacity  []string `yaml:"capacity"`
	RoomType  []string `yaml:"room_type"`
	Registrar []string `yaml:"registrar"`
}

// DefaultSynonyms 内置同义词表
func DefaultSynonyms() Synonyms {
	return Synonyms{
		CourseID: []string{
			"CourseID", "Course Id", "Course", "Course Number", "Course number",
			"CRSID", "COURSE", "Course & Section", "Course/Section", "Course and Section",
		},
		CourseNumber: []string{"Course Number", "Course", "COURSE", "Course number"},
		Section:      []string{"Section", "SEC", "Sections", "Section Number", "Sect"},
		Title:        []string{"Course Title", "Course Name", "Title", "Name"},
		Dept:         []string{"Dept", "Department", "DEPT", "Department Code", "Dept Code"},
		Instructor:   []string{"Instructor", "Instructor(s)", "Faculty", "Professor"},
		StartTime:    []string{"Start Time", "Begin", "Start", "Time Start"},
		EndTime:      []string{"End Time", "End", "Stop", "Time End"},
		TimeRange:    []string{"Times", "Meeting Time", "Time"},
		Days:         []string{"Days", "Day", "Days of Week"},
		Bldg:         []string{"Bldg", "Building", "Bldg Code", "Building Code"},
		Room:         []string{"Room", "Room #", "Rm", "Room Number"},
		Capacity:     []string{"Course Capacity", "Max Capacity", "Max Enroll", "Capacity", "Cap"},
		Enrolled:     []string{"Actual Enrolled", "10D Enroll", "10th D Enroll", "EOT Enroll", "Enroll", "Enrollment"},
		SeatsOverall: []string{"Seats in Overall Stn Utilization", "Seats Overall", "Seats in Overall"},
		StartDate:    []string{"Start Date", "Start", "Begin Date"},
		EndDate:      []string{"End Date", "End"},
		Lookup: LookupAliases{
			Building:  []string{"building", "bldg", "building code", "bldg code"},
			Room:      []string{"room #", "room", "rm", "number"},
			ASF:       []string{"asf", "sf", "area", "assignable square feet"},
			Capacity:  []string{"capacity", "stations", "seats", "seat capacity", "max capacity"},
			RoomType:  []string{"room type", "space use", "use", "type"},
			Registrar: []string{"registrar", "registrar scheduled", "scheduled by registrar"},
		},
	}
}

// Merge 以 o 中非空的列表覆盖 s 的对应字段
func (s Synonyms) Merge(o Synonyms) Synonyms {
	s.CourseID = pick(o.CourseID, s.CourseID)
	s.CourseNumber = pick(o.CourseNumber, s.CourseNumber)
	s.Section = pick(o.Section, s.Section)
	s.Title = pick(o.Title, s.Title)
	s.Dept = pick(o.Dept, s.Dept)
	s.Instructor = pick(o.Instructor, s.Instructor)
	s.StartTime = pick(o.StartTime, s.StartTime)
	s.EndTime = pick(o.EndTime, s.EndTime)
	s.TimeRange = pick(o.TimeRange, s.TimeRange)
	s.Days = pick(o.Days, s.Days)
	s.Bldg = pick(o.Bldg, s.Bldg)
	s.Room = pick(o.Room, s.Room)
	s.Capacity = pick(o.Capacity, s.Capacity)
	s.Enrolled = pick(o.Enrolled, s.Enrolled)
	s.SeatsOverall = pick(o.SeatsOverall, s.SeatsOverall)
	s.StartDate = pick(o.StartDate, s.StartDate)
	s.EndDate = pick(o.EndDate, s.EndDate)

	s.Lookup.Building = pick(o.Lookup.Building, s.Lookup.Building)
	s.Lookup.Room = pick(o.Lookup.Room, s.Lookup.Room)
	s.Lookup.ASF = pick(o.Lookup.ASF, s.Lookup.ASF)
	s.Lookup.Capacity = pick(o.Lookup.Capacity, s.Lookup.Capacity)
	s.Lookup.RoomType = pick(o.Lookup.RoomType, s.Lookup.RoomType)
	s.Lookup.Registrar = pick(o.Lookup.Registrar, s.Lookup.Registrar)
	return s
}

// LoadSynonyms 读取 YAML 同义词文件并与默认值合并
//
// path 为空时直接返回默认值。
func LoadSynonyms(path string) (Synonyms, error) {
	if path == "" {
		return DefaultSynonyms(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Synonyms{}, fmt.Errorf("读取同义词文件失败: %w", err)
	}
	var override Synonyms
	if err := yaml.Unmarshal(data, &override); err != nil {
		return Synonyms{}, fmt.Errorf("解析同义词文件失败: %w", err)
	}
	return DefaultSynonyms().Merge(override), nil
}

func pick(override, base []string) []string {
	if len(override) > 0 {
		return override
	}
	return base
}
