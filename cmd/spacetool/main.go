// Command spacetool 在本地批量执行教学空间分析：
// 读取排课表与楼宇/教室对照表，输出七表分析工作簿。
//
// 用法:
//
//	spacetool run --out deliverable.xlsx fall.xlsx rooms.csv
//	spacetool inspect fall.xlsx
//	spacetool detect rooms.xlsx
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/scooter7/credo-etl/config"
	applogger "github.com/scooter7/credo-etl/pkg/logger"
)

var (
	verbose bool
	logger  = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:           "spacetool",
	Short:         "教学空间利用率与排课冲突分析",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := "warn"
		if verbose {
			level = "debug"
		}
		l, err := applogger.NewLogger(&config.LogConfig{Level: level, Format: "console"})
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "输出调试日志")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(detectCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "错误:", err)
		os.Exit(1)
	}
	_ = logger.Sync()
}
