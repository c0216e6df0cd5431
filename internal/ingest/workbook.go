package ingest

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/scooter7/credo-etl/internal/table"
)

// ReadWorkbook 读取工作簿的全部工作表（按工作簿中的顺序），首行视为表头
//
// 单元格取显示值（与 GetRows 一致），空工作表返回只有表头或无列的空表。
func ReadWorkbook(r io.Reader) ([]*table.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("无法解析Excel文件: %w", err)
	}
	defer f.Close()

	var sheets []*table.Table
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("读取工作表 %s 失败: %w", name, err)
		}
		sheets = append(sheets, table.FromRecords(name, rows))
	}
	return sheets, nil
}

// ReadCSV 读取 CSV，首行视为表头，允许各行列数不一致
func ReadCSV(name string, r io.Reader) (*table.Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("CSV 解析失败: %w", err)
	}
	return table.FromRecords(name, records), nil
}
