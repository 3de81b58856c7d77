package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"novel-assistant/internal/application/projectdata"
	"novel-assistant/internal/domain/entity"
	"novel-assistant/internal/wire"
)

// migrateCmd 建表
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "创建或更新全部数据表",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		return withDataLayer(ctx, func(dl *wire.DataLayer) error {
			if err := dl.DB.AutoMigrate(ctx, dl.Registry); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "migrated %d data types (driver: %s)\n", len(dl.Registry.Keys()), dl.DB.Driver())
			return nil
		})
	},
}

var seedName string

// seedCmd 写入示例项目
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "创建一个带示例设定的项目",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		return withDataLayer(ctx, func(dl *wire.DataLayer) error {
			if err := dl.DB.AutoMigrate(ctx, dl.Registry); err != nil {
				return err
			}
			svc := dl.Service

			project, err := svc.CreateProject(ctx, &projectdata.CreateProjectInput{
				Name:        seedName,
				Title:       seedName,
				ProjectType: entity.ProjectType("xianxia"),
				Summary:     "示例仙侠项目",
			})
			if err != nil {
				return err
			}

			if _, err := svc.Create(ctx, project.ID, "world_setting", map[string]any{
				"name":         "青云界",
				"description":  "灵气充沛的修仙世界",
				"setting_type": "world",
			}); err != nil {
				return err
			}

			ids := make([]any, 0, 2)
			for _, name := range []string{"林风", "苏雪"} {
				out, err := svc.Create(ctx, project.ID, "character", map[string]any{"name": name})
				if err != nil {
					return err
				}
				ids = append(ids, out["id"])
			}

			if _, err := svc.Create(ctx, project.ID, "character_relation", map[string]any{
				"character_a_id": ids[0],
				"character_b_id": ids[1],
				"relation_type":  string(entity.RelationTypeFriend),
			}); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "seeded project %d (%s)\n", project.ID, project.Name)
			return nil
		})
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedName, "name", "青云志", "示例项目名称")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
}
