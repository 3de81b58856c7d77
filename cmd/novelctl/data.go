package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"novel-assistant/internal/wire"
)

var dataTypes string

func parseProjectID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid project id: %s", arg)
	}
	return id, nil
}

func selectedTypes() []string {
	var out []string
	for _, t := range strings.Split(dataTypes, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// statsCmd 项目统计
var statsCmd = &cobra.Command{
	Use:   "stats <project-id>",
	Short: "输出项目各类数据的记录数",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseProjectID(args[0])
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		return withDataLayer(ctx, func(dl *wire.DataLayer) error {
			if _, err := dl.Service.GetProject(ctx, id); err != nil {
				return err
			}
			stats, err := dl.Service.Statistics(ctx, id)
			if err != nil {
				return err
			}
			return printJSON(cmd, stats)
		})
	},
}

// validateCmd 完整性校验
var validateCmd = &cobra.Command{
	Use:   "validate <project-id>",
	Short: "校验项目数据的引用完整性",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseProjectID(args[0])
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		return withDataLayer(ctx, func(dl *wire.DataLayer) error {
			report, err := dl.Service.ValidateIntegrity(ctx, id)
			if err != nil {
				return err
			}
			if err := printJSON(cmd, report); err != nil {
				return err
			}
			if !report.IsValid {
				return fmt.Errorf("project %d has %d integrity issues", id, len(report.Issues))
			}
			return nil
		})
	},
}

// copyCmd 复制项目数据
var copyCmd = &cobra.Command{
	Use:   "copy <src-project-id> <dst-project-id>",
	Short: "把源项目的数据复制到目标项目",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := parseProjectID(args[0])
		if err != nil {
			return err
		}
		dst, err := parseProjectID(args[1])
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		return withDataLayer(ctx, func(dl *wire.DataLayer) error {
			result, err := dl.Service.Copy(ctx, src, dst, selectedTypes())
			if err != nil {
				return err
			}
			if err := printJSON(cmd, result); err != nil {
				return err
			}
			if !result.Success {
				return fmt.Errorf("copy stopped at %s: %s", result.FailedAt, result.Error)
			}
			return nil
		})
	},
}

// clearCmd 清空项目数据
var clearCmd = &cobra.Command{
	Use:   "clear <project-id>",
	Short: "清空项目数据，--types 为空时清空全部类型",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseProjectID(args[0])
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		return withDataLayer(ctx, func(dl *wire.DataLayer) error {
			if _, err := dl.Service.GetProject(ctx, id); err != nil {
				return err
			}
			result := dl.Service.Clear(ctx, id, selectedTypes())
			if err := printJSON(cmd, result); err != nil {
				return err
			}
			if !result.Success {
				return fmt.Errorf("clear stopped at %s: %s", result.FailedAt, result.Error)
			}
			return nil
		})
	},
}

func init() {
	copyCmd.Flags().StringVar(&dataTypes, "types", "", "逗号分隔的数据类型")
	clearCmd.Flags().StringVar(&dataTypes, "types", "", "逗号分隔的数据类型")

	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(copyCmd)
	rootCmd.AddCommand(clearCmd)
}
