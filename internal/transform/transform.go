// Package transform 将原始表标准化为课程排课表、校园教室表及其派生汇总表
//
// 所有构建函数均为纯函数：输入原始表，输出新的切片，不修改入参。
// 仅课程标识与 Building/Room 映射属于必需字段，缺失即返回错误；
// 其余字段无法解析时退化为空串或 0。
package transform

import "errors"

// ── 标准化模块业务错误 ──

var (
	ErrEmptySchedule      = errors.New("排课源表为空")
	ErrMissingCourseID    = errors.New("缺少课程标识：需提供 Course Number + Section 或组合 CourseID 列")
	ErrEmptyCourseID      = errors.New("存在课程标识为空的行")
	ErrEmptyLookup        = errors.New("楼宇/教室对照表为空")
	ErrMissingRoomMapping = errors.New("缺少 Building/Room 列映射")
	ErrLookupNotFound     = errors.New("未检测到楼宇/教室对照表，请手动选择")
)

// Normalizer 绑定一套列名同义词的标准化器
type Normalizer struct {
	syn Synonyms
}

// NewNormalizer 创建标准化器；未配置的同义词列表使用默认值
func NewNormalizer(syn Synonyms) *Normalizer {
	return &Normalizer{syn: DefaultSynonyms().Merge(syn)}
}

// Synonyms 返回当前生效的同义词配置
func (n *Normalizer) Synonyms() Synonyms {
	return n.syn
}

var defaultNormalizer = NewNormalizer(Synonyms{})
