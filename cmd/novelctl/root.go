package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"novel-assistant/internal/config"
	"novel-assistant/internal/wire"
	"novel-assistant/pkg/logger"
)

var (
	configDir string
	cfg       *config.Config
)

// rootCmd 根命令
var rootCmd = &cobra.Command{
	Use:           "novelctl",
	Short:         "小说项目数据管理工具",
	Long:          `管理小说项目数据：建表、示例数据、统计、完整性校验、复制与清空，以及查看 AI 供应商配置。`,
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()

		loaded, err := config.LoadFrom(configDir)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded

		logger.InitWithWriter(os.Stderr,
			cfg.Observability.Logging.Level,
			cfg.Observability.Logging.Format,
		)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "configs", "配置文件目录")
}

// withDataLayer 初始化数据层并在结束后释放
func withDataLayer(ctx context.Context, fn func(dl *wire.DataLayer) error) error {
	dl, cleanup, err := wire.InitializeDataLayer(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize data layer: %w", err)
	}
	defer cleanup()
	return fn(dl)
}

// printJSON 以缩进 JSON 输出到 stdout
func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
