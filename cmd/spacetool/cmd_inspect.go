package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/scooter7/credo-etl/internal/ingest"
	"github.com/scooter7/credo-etl/internal/transform"
)

// ── inspect ──

var inspectJSON bool

var inspectCmd = &cobra.Command{
	Use:   "inspect [file...]",
	Short: "列出文件中各工作表的行列数与表头",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runInspect,
}

// ── detect ──

var detectCmd = &cobra.Command{
	Use:   "detect [file...]",
	Short: "为各工作表打分，识别楼宇/教室对照表",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runDetect,
}

func init() {
	inspectCmd.Flags().BoolVar(&inspectJSON, "json", false, "以 JSON 输出")
}

func runInspect(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	for _, p := range args {
		f, err := ingest.LoadPath(p)
		if err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
		infos := ingest.DescribeFile(f)

		if inspectJSON {
			b, err := json.MarshalIndent(map[string]interface{}{
				"file": f.Name, "kind": f.Kind, "sheets": infos, "warnings": f.Warnings,
			}, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(b))
			continue
		}

		fmt.Fprintf(out, "%s (%s)\n", f.Name, f.Kind)
		for _, info := range infos {
			fmt.Fprintf(out, "  %-24s %5d 行 %3d 列  %s\n", info.Sheet, info.Rows, info.Cols, strings.Join(info.ColumnsPreview, ", "))
		}
		if f.Text != "" {
			fmt.Fprintf(out, "  文本 %d 字节\n", len(f.Text))
		}
		for _, w := range f.Warnings {
			fmt.Fprintln(out, "  警告:", w)
		}
	}
	return nil
}

func runDetect(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	var candidates []string
	for _, p := range args {
		f, err := ingest.LoadPath(p)
		if err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
		for _, t := range f.Sheets {
			score := transform.ScoreLookupSheet(t)
			schedule := transform.IsScheduleSheet(t)
			fmt.Fprintf(out, "%s/%s  得分 %d  排课表 %v\n", f.Name, t.Name, score, schedule)
			if schedule || score < transform.DefaultLookupMinScore {
				continue
			}
			cols := transform.GuessLookupColumns(t)
			fmt.Fprintf(out, "  Building=%q Room=%q ASF=%q Capacity=%q RoomType=%q Registrar=%q\n",
				cols.Building, cols.Room, cols.ASF, cols.Capacity, cols.RoomType, cols.Registrar)
			candidates = append(candidates, f.Name+"/"+t.Name)
		}
	}

	if len(candidates) == 0 {
		return transform.ErrLookupNotFound
	}
	fmt.Fprintln(out, "候选对照表:", strings.Join(candidates, ", "))
	return nil
}
