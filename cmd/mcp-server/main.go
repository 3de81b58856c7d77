// Package main MCP 工具服务入口，通过 stdio 与客户端通信
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"novel-assistant/internal/config"
	"novel-assistant/internal/wire"
	"novel-assistant/pkg/logger"
)

// Version 版本信息，构建时注入
var Version = "dev"

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if cfg.App.Version == "" {
		cfg.App.Version = Version
	}

	// stdout 留给 MCP 协议
	logger.InitWithWriter(os.Stderr,
		cfg.Observability.Logging.Level,
		cfg.Observability.Logging.Format,
	)

	ctx := context.Background()
	srv, cleanup, err := wire.InitializeMCPServer(ctx, cfg)
	if err != nil {
		logger.Fatal(ctx, "failed to initialize mcp server", err)
	}
	defer cleanup()

	logger.Info(ctx, "mcp server starting", "version", cfg.App.Version)
	if err := srv.ServeStdio(); err != nil {
		logger.Error(ctx, "mcp server stopped", err)
	}
}
