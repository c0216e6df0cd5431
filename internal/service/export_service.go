package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/scooter7/credo-etl/internal/pipeline"
)

// ── 导出模块业务错误 ──

var (
	ErrExportGenerateFail = errors.New("生成 Excel 文件失败")
)

// ExportService 导出业务接口
//
//   - 工作簿包含七张表：Course Schedule、Campus Rooms、Campus Buildings、
//     Academic Departments、Utilization、Room Conflicts、Instructor Conflicts
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
//   - 导出成功后写入分析历史（功能开启时），写入失败只记日志
type ExportService interface {
	ExportWorkbook(ctx context.Context, id string) (*bytes.Buffer, string, error)
}

type exportService struct {
	store  pipeline.Store
	runs   RunService
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(store pipeline.Store, runs RunService, logger *zap.Logger) ExportService {
	return &exportService{store: store, runs: runs, logger: logger}
}

func (s *exportService) ExportWorkbook(ctx context.Context, id string) (*bytes.Buffer, string, error) {
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, "", err
	}
	tables, err := sess.Deliverable()
	if err != nil {
		return nil, "", err
	}

	buf, err := WriteDeliverable(tables)
	if err != nil {
		s.logger.Error("写入 Excel 失败", zap.String("session_id", id), zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	if s.runs != nil {
		if err := s.runs.Record(ctx, sess); err != nil {
			s.logger.Warn("写入分析历史失败", zap.String("session_id", id), zap.Error(err))
		}
	}

	filename := fmt.Sprintf("space_analysis_%s.xlsx", time.Now().Format("20060102"))
	return buf, filename, nil
}

// ═══════════════════════════════════════════════════════════
// WriteDeliverable：按顺序将数据表写为工作簿
// ═══════════════════════════════════════════════════════════
//
// 每张表一个工作表，首行为加粗表头并冻结；列宽按内容估算（上限 50）。
// 空表只写表头。

func WriteDeliverable(tables []*pipeline.NamedTable) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("创建表头样式失败: %w", err)
	}

	for i, t := range tables {
		idx, err := f.NewSheet(t.Name)
		if err != nil {
			return nil, fmt.Errorf("创建工作表 %s 失败: %w", t.Name, err)
		}
		if i == 0 {
			f.SetActiveSheet(idx)
		}
		if err := writeSheet(f, t, headerStyle); err != nil {
			return nil, fmt.Errorf("写入工作表 %s 失败: %w", t.Name, err)
		}
	}
	// 删除默认 Sheet1
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func writeSheet(f *excelize.File, t *pipeline.NamedTable, headerStyle int) error {
	header := make([]interface{}, len(t.Columns))
	widths := make([]int, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c
		widths[i] = utf8.RuneCountInString(c)
	}
	if err := f.SetSheetRow(t.Name, "A1", &header); err != nil {
		return err
	}

	for r, row := range t.Rows {
		values := row
		if err := f.SetSheetRow(t.Name, cell("A", r+2), &values); err != nil {
			return err
		}
		for i, v := range row {
			if i < len(widths) {
				if n := utf8.RuneCountInString(fmt.Sprint(v)); n > widths[i] {
					widths[i] = n
				}
			}
		}
	}

	if len(t.Columns) == 0 {
		return nil
	}
	last := colName(len(t.Columns) - 1)
	if err := f.SetCellStyle(t.Name, "A1", cell(last, 1), headerStyle); err != nil {
		return err
	}
	for i, w := range widths {
		col := colName(i)
		if err := f.SetColWidth(t.Name, col, col, float64(min(w+2, 50))); err != nil {
			return err
		}
	}
	return f.SetPanes(t.Name, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

// ── 辅助函数 ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
