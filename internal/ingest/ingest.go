// Package ingest 将上传文件读取为通用二维表或文档文本
//
// 支持：Excel 工作簿（.xlsx/.xlsm，每个工作表一张表）、CSV（单表）、
// iCalendar（.ics，VEVENT 转为原始排课表）、纯文本/Markdown（文档文本）、
// PDF（仅登记，不抽取文本）。
package ingest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/scooter7/credo-etl/internal/table"
)

// ── 读取模块业务错误 ──

var (
	ErrUnsupportedFormat = errors.New("不支持的文件格式")
	ErrEmptyFile         = errors.New("文件内容为空")
)

// Kind 文件类别
type Kind string

const (
	KindWorkbook Kind = "excel"
	KindCSV      Kind = "csv"
	KindCalendar Kind = "ics"
	KindDocument Kind = "document"
)

// File 一个已读取的上传文件
type File struct {
	Name     string         `json:"name"`
	Kind     Kind           `json:"kind"`
	Sheets   []*table.Table `json:"sheets,omitempty"`
	Text     string         `json:"text,omitempty"`
	Warnings []string       `json:"warnings,omitempty"`
}

// Sheet 按名称查找工作表
func (f *File) Sheet(name string) (*table.Table, bool) {
	for _, s := range f.Sheets {
		if s.Name == name {
			return s, true
		}
	}
	return nil, false
}

// KindOf 按扩展名判断文件类别
func KindOf(name string) (Kind, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		return KindWorkbook, nil
	case ".csv":
		return KindCSV, nil
	case ".ics":
		return KindCalendar, nil
	case ".txt", ".md", ".pdf":
		return KindDocument, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(name))
}

// Load 读取上传文件内容
func Load(name string, r io.Reader) (*File, error) {
	kind, err := KindOf(name)
	if err != nil {
		return nil, err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("读取文件失败: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyFile, name)
	}

	f := &File{Name: name, Kind: kind}
	switch kind {
	case KindWorkbook:
		f.Sheets, err = ReadWorkbook(bytes.NewReader(data))
	case KindCSV:
		var t *table.Table
		t, err = ReadCSV(strings.TrimSuffix(filepath.Base(name), filepath.Ext(name)), bytes.NewReader(data))
		f.Sheets = []*table.Table{t}
	case KindCalendar:
		var t *table.Table
		t, err = ReadCalendar(bytes.NewReader(data))
		f.Sheets = []*table.Table{t}
	case KindDocument:
		f.Text, f.Warnings = readDocument(name, data)
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

// LoadPath 读取本地文件
func LoadPath(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("打开文件失败: %w", err)
	}
	defer fh.Close()
	return Load(filepath.Base(path), fh)
}

// readDocument 文档文本：txt/md 原样保存，pdf 无抽取后端，返回空文本与提示
func readDocument(name string, data []byte) (string, []string) {
	if strings.EqualFold(filepath.Ext(name), ".pdf") {
		return "", []string{"PDF 文本抽取不可用，已登记文件但未提取内容"}
	}
	return string(data), nil
}

// SheetInfo 工作表结构概览
type SheetInfo struct {
	Sheet          string   `json:"sheet"`
	Rows           int      `json:"rows"`
	Cols           int      `json:"cols"`
	ColumnsPreview []string `json:"columns_preview"`
}

// Describe 返回工作表的行列数与前 10 个列名
func Describe(t *table.Table) SheetInfo {
	preview := t.Columns
	if len(preview) > 10 {
		preview = preview[:10]
	}
	cols := make([]string, len(preview))
	copy(cols, preview)
	return SheetInfo{Sheet: t.Name, Rows: t.Len(), Cols: len(t.Columns), ColumnsPreview: cols}
}

// DescribeFile 返回文件内全部工作表的结构概览
func DescribeFile(f *File) []SheetInfo {
	out := make([]SheetInfo, 0, len(f.Sheets))
	for _, s := range f.Sheets {
		out = append(out, Describe(s))
	}
	return out
}
