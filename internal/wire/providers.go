// Package wire 提供依赖注入配置
package wire

import (
	"context"

	"novel-assistant/internal/application/aicontext"
	"novel-assistant/internal/application/gateway"
	"novel-assistant/internal/application/projectdata"
	"novel-assistant/internal/config"
	"novel-assistant/internal/domain/entity"
	"novel-assistant/internal/domain/service"
	"novel-assistant/internal/infrastructure/eino/callback"
	"novel-assistant/internal/infrastructure/llm"
	"novel-assistant/internal/infrastructure/persistence/postgres"
	"novel-assistant/internal/infrastructure/persistence/redis"
	"novel-assistant/internal/interfaces/http/handler"
	"novel-assistant/internal/interfaces/http/middleware"
	"novel-assistant/internal/interfaces/http/router"
	"novel-assistant/internal/interfaces/imcp"
	"novel-assistant/pkg/logger"
)

// App API 网关运行所需的组件
type App struct {
	Router   *router.Router
	Sessions *aicontext.SessionStore
	Gateway  *gateway.Gateway
}

// DataLayer 只包含项目数据的依赖容器，供命令行工具使用
type DataLayer struct {
	DB       *postgres.Client
	Registry *entity.Registry
	Service  *projectdata.Service
}

// ProvideRegistry 提供数据类型注册表
func ProvideRegistry() *entity.Registry {
	return entity.DefaultRegistry()
}

// ProvideDatabase 提供数据库客户端，按配置执行 AutoMigrate
func ProvideDatabase(ctx context.Context, cfg *config.Config, registry *entity.Registry) (*postgres.Client, func(), error) {
	client, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	if cfg.Database.AutoMigrate {
		if err := client.AutoMigrate(ctx, registry); err != nil {
			_ = client.Close()
			return nil, nil, err
		}
	}
	cleanup := func() {
		_ = client.Close()
	}
	return client, cleanup, nil
}

// ProvideRedisClientOptional Redis 未启用或不可达时返回 nil，统计缓存与限流随之关闭
func ProvideRedisClientOptional(ctx context.Context, cfg *config.Config) (*redis.Client, func(), error) {
	if !cfg.Cache.Enabled {
		return nil, func() {}, nil
	}
	client, err := redis.NewClient(&cfg.Cache.Redis)
	if err != nil {
		logger.Warn(ctx, "redis not available, statistics cache and rate limiting disabled", "error", err.Error())
		return nil, func() {}, nil
	}
	cleanup := func() {
		_ = client.Close()
	}
	return client, cleanup, nil
}

// ProvideStatisticsCache 提供统计缓存，redis 不可用时为 nil
func ProvideStatisticsCache(client *redis.Client, cfg *config.Config) projectdata.StatisticsCache {
	if client == nil {
		return nil
	}
	return redis.NewStatisticsCache(client, cfg.Cache.StatisticsTTL)
}

// ProvideRateLimiter 提供限流器，redis 不可用时为 nil
func ProvideRateLimiter(client *redis.Client) middleware.RateLimiter {
	if client == nil {
		return nil
	}
	return redis.NewRateLimiter(client)
}

// ProvideProjectDataService 提供项目数据服务
func ProvideProjectDataService(registry *entity.Registry, db *postgres.Client, cache projectdata.StatisticsCache) *projectdata.Service {
	store := postgres.NewEntityStore(db, postgres.NewTxManager(db))
	return projectdata.NewService(registry, postgres.NewProjectRepository(db), store, cache)
}

// ProvideGateway 提供 AI 网关，同时注册 eino 全局回调
func ProvideGateway(ctx context.Context, cfg *config.Config) *gateway.Gateway {
	usage := gateway.NewUsageTracker()
	callback.Init(usage)
	return gateway.New(ctx, llm.NewFactory(), llm.SettingsFromConfig(&cfg.LLM), service.ProviderID(cfg.LLM.DefaultProvider), usage)
}

// ProvideSessionStore 提供 AI 项目上下文会话表
func ProvideSessionStore(svc *projectdata.Service, cfg *config.Config) *aicontext.SessionStore {
	return aicontext.NewSessionStore(svc, aicontext.NewAuditLog(), cfg.Session.IdleTTL)
}

// ProvideHandlers 提供路由处理器集合
func ProvideHandlers(db *postgres.Client, redisClient *redis.Client, gw *gateway.Gateway, svc *projectdata.Service) *router.Handlers {
	return &router.Handlers{
		Health:    handler.NewHealthHandler(db, redisClient),
		AI:        handler.NewAIHandler(gw),
		AIContext: handler.NewAIContextHandler(),
		Project:   handler.NewProjectHandler(svc),
	}
}

// ProvideMCPServer 提供 MCP 服务，stdio 进程使用 default 会话
func ProvideMCPServer(cfg *config.Config, sessions *aicontext.SessionStore, gw *gateway.Gateway) *imcp.MCPServer {
	return imcp.NewMCPServer(cfg.App.Name, cfg.App.Version, sessions.Get(aicontext.DefaultSessionID), gw)
}
