package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/scooter7/credo-etl/internal/analysis"
	"github.com/scooter7/credo-etl/internal/ingest"
	"github.com/scooter7/credo-etl/internal/pipeline"
	"github.com/scooter7/credo-etl/internal/service"
	"github.com/scooter7/credo-etl/internal/transform"
)

// ── run ──

var runFlags struct {
	out            string
	hours          float64
	synonyms       string
	lookupFile     string
	lookupSheet    string
	minScore       int
	excludeUndated bool
}

var runCmd = &cobra.Command{
	Use:   "run [file...]",
	Short: "标准化、分析并导出七表工作簿",
	Long: `读取全部输入文件，识别排课表与楼宇/教室对照表，
计算教室利用率与教室/教师冲突，写出 xlsx 工作簿。`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRun,
}

func init() {
	f := runCmd.Flags()
	f.StringVarP(&runFlags.out, "out", "o", "deliverable.xlsx", "输出工作簿路径")
	f.Float64Var(&runFlags.hours, "hours", analysis.DefaultStandardHours, "每周标准可用小时数 (0, 80]")
	f.StringVar(&runFlags.synonyms, "synonyms", "", "列名同义词 YAML")
	f.StringVar(&runFlags.lookupFile, "lookup-file", "", "指定对照表文件名（不含目录）")
	f.StringVar(&runFlags.lookupSheet, "lookup-sheet", "", "指定对照表工作表")
	f.IntVar(&runFlags.minScore, "min-score", transform.DefaultLookupMinScore, "对照表自动识别最低得分")
	f.BoolVar(&runFlags.excludeUndated, "exclude-undated", false, "冲突检测忽略 Days 为空的课程")
}

func runRun(cmd *cobra.Command, args []string) error {
	if runFlags.hours <= 0 || runFlags.hours > 80 {
		return fmt.Errorf("--hours 必须在 (0, 80] 之间，实际 %v", runFlags.hours)
	}

	syn, err := transform.LoadSynonyms(runFlags.synonyms)
	if err != nil {
		return err
	}

	sess, err := loadSession(args)
	if err != nil {
		return err
	}

	report, err := pipeline.Transform(sess, transform.NewNormalizer(syn), pipeline.TransformOptions{
		Lookup:   pipeline.LookupSelection{File: runFlags.lookupFile, Sheet: runFlags.lookupSheet},
		MinScore: runFlags.minScore,
	})
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "排课工作表: %v\n课程: %d  教室: %d\n", report.ScheduleSheets, report.Courses, report.Rooms)
	if report.Lookup != nil {
		fmt.Fprintf(out, "对照表: %s/%s (得分 %d)\n", report.Lookup.File, report.Lookup.Sheet, report.Lookup.Score)
	}
	for _, w := range report.Warnings {
		fmt.Fprintln(out, "警告:", w)
	}

	if err := pipeline.Analyze(sess, pipeline.AnalyzeOptions{
		StandardHours: runFlags.hours,
		Conflicts:     analysis.Options{IncludeUndated: !runFlags.excludeUndated},
	}); err != nil {
		return err
	}
	fmt.Fprintf(out, "教室冲突: %d  教师冲突: %d\n", len(sess.Analysis.RoomConflicts), len(sess.Analysis.InstructorConflicts))

	tables, err := sess.Deliverable()
	if err != nil {
		return err
	}
	buf, err := service.WriteDeliverable(tables)
	if err != nil {
		return err
	}
	if err := os.WriteFile(runFlags.out, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("写入 %s 失败: %w", runFlags.out, err)
	}
	logger.Info("工作簿已写出", zap.String("path", runFlags.out), zap.Int("bytes", buf.Len()))
	fmt.Fprintln(out, "已写出:", runFlags.out)
	return nil
}

// loadSession 读取全部输入文件到一个新会话
func loadSession(paths []string) (*pipeline.Session, error) {
	sess := pipeline.NewSession()
	for _, p := range paths {
		f, err := ingest.LoadPath(p)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
		for _, w := range f.Warnings {
			logger.Warn("文件解析警告", zap.String("file", f.Name), zap.String("warning", w))
		}
		sess.AddFile(f)
	}
	return sess, nil
}
