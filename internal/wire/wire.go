//go:build wireinject
// +build wireinject

package wire

import (
	"context"

	"github.com/google/wire"

	"novel-assistant/internal/config"
	"novel-assistant/internal/interfaces/http/router"
	"novel-assistant/internal/interfaces/imcp"
)

// DataSet 项目数据提供者集合
var DataSet = wire.NewSet(
	ProvideRegistry,
	ProvideDatabase,
	ProvideRedisClientOptional,
	ProvideStatisticsCache,
	ProvideProjectDataService,
)

// AISet AI 网关与会话提供者集合
var AISet = wire.NewSet(
	ProvideGateway,
	ProvideSessionStore,
)

// RouterSet 路由器提供者集合
var RouterSet = wire.NewSet(
	ProvideRateLimiter,
	ProvideHandlers,
	router.New,
)

// InitializeApp 初始化 API 网关
func InitializeApp(ctx context.Context, cfg *config.Config) (*App, func(), error) {
	wire.Build(
		DataSet,
		AISet,
		RouterSet,
		wire.Struct(new(App), "*"),
	)
	return nil, nil, nil
}

// InitializeDataLayer 初始化项目数据层（用于命令行工具）
func InitializeDataLayer(ctx context.Context, cfg *config.Config) (*DataLayer, func(), error) {
	wire.Build(
		DataSet,
		wire.Struct(new(DataLayer), "DB", "Registry", "Service"),
	)
	return nil, nil, nil
}

// InitializeMCPServer 初始化 MCP 工具服务
func InitializeMCPServer(ctx context.Context, cfg *config.Config) (*imcp.MCPServer, func(), error) {
	wire.Build(
		DataSet,
		AISet,
		ProvideMCPServer,
	)
	return nil, nil, nil
}
