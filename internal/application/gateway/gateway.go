// Package gateway 管理当前激活的 LLM 供应商及各供应商配置
package gateway

import (
	"context"
	"sync"
	"time"

	"novel-assistant/internal/application/thinking"
	"novel-assistant/internal/domain/service"
	"novel-assistant/pkg/errors"
	"novel-assistant/pkg/logger"
	"novel-assistant/pkg/metrics"
	"novel-assistant/pkg/tracer"
)

// ProviderFactory 构建供应商适配器
type ProviderFactory interface {
	Build(ctx context.Context, id service.ProviderID, s service.ProviderSettings) (service.LLMProvider, error)
	Catalog(s service.ProviderSettings) service.ModelCatalog
}

// Gateway 进程级的 AI 网关
// 配置与激活供应商由读写锁保护；调用供应商时只持有快照，不持锁
type Gateway struct {
	factory ProviderFactory
	usage   *UsageTracker

	mu      sync.RWMutex
	active  service.ProviderID
	configs map[service.ProviderID]service.ProviderSettings
	adapter service.LLMProvider
}

// Status 当前网关状态
type Status struct {
	Provider  service.ProviderID `json:"provider"`
	Model     string             `json:"model"`
	Connected bool               `json:"connected"`
	Status    string             `json:"status"`
	Usage     []UsageSummary     `json:"usage"`
}

// New 创建网关并立即构建默认供应商的适配器
// 构建失败只记录日志，网关保持未初始化状态，直到下一次切换或配置更新
func New(ctx context.Context, factory ProviderFactory, configs map[service.ProviderID]service.ProviderSettings, defaultProvider service.ProviderID, usage *UsageTracker) *Gateway {
	if usage == nil {
		usage = NewUsageTracker()
	}
	g := &Gateway{
		factory: factory,
		usage:   usage,
		active:  defaultProvider,
		configs: make(map[service.ProviderID]service.ProviderSettings, len(configs)),
	}
	for _, id := range service.KnownProviders() {
		g.configs[id] = configs[id]
	}

	g.mu.Lock()
	if err := g.rebuildLocked(ctx); err != nil {
		logger.Error(ctx, "failed to initialize AI service", err, "provider", string(defaultProvider))
	}
	g.mu.Unlock()
	return g
}

// rebuildLocked 按当前激活供应商重建适配器，调用方持有写锁
func (g *Gateway) rebuildLocked(ctx context.Context) error {
	g.adapter = nil
	if !service.IsKnownProvider(string(g.active)) {
		return errors.Configuration("unsupported AI provider: %s", g.active)
	}
	adapter, err := g.factory.Build(ctx, g.active, g.configs[g.active])
	if err != nil {
		return err
	}
	g.adapter = adapter
	return nil
}

// SwitchProvider 切换激活供应商并立即重建适配器
// 未知供应商不改变状态；已知供应商缺少配置时激活供应商仍会切换，但网关处于未初始化状态
func (g *Gateway) SwitchProvider(ctx context.Context, id service.ProviderID) error {
	if !service.IsKnownProvider(string(id)) {
		metrics.LLMProviderSwitchTotal.WithLabelValues(string(id), "error").Inc()
		return errors.Configuration("unsupported AI provider: %s", id)
	}

	g.mu.Lock()
	g.active = id
	err := g.rebuildLocked(ctx)
	g.mu.Unlock()

	metrics.LLMProviderSwitchTotal.WithLabelValues(string(id), metrics.StatusLabel(err)).Inc()
	if err != nil {
		logger.Error(ctx, "failed to switch AI provider", err, "provider", string(id))
		return err
	}
	logger.Info(ctx, "AI provider switched", "provider", string(id))
	return nil
}

// UpdateProviderConfig 浅合并配置；目标是激活供应商时重建适配器
func (g *Gateway) UpdateProviderConfig(ctx context.Context, id service.ProviderID, patch service.ProviderSettingsPatch) error {
	if !service.IsKnownProvider(string(id)) {
		return errors.Configuration("unsupported AI provider: %s", id)
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.configs[id] = patch.Apply(g.configs[id])
	if id != g.active {
		return nil
	}
	if err := g.rebuildLocked(ctx); err != nil {
		logger.Error(ctx, "failed to rebuild AI service after config update", err, "provider", string(id))
		return err
	}
	return nil
}

// GetProviderConfig 返回隐藏密钥后的配置副本
func (g *Gateway) GetProviderConfig(id service.ProviderID) (service.ProviderSettings, error) {
	if !service.IsKnownProvider(string(id)) {
		return service.ProviderSettings{}, errors.Configuration("unsupported AI provider: %s", id)
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.configs[id].Masked(), nil
}

// CurrentProvider 当前激活的供应商
func (g *Gateway) CurrentProvider() service.ProviderID {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.active
}

// AvailableProviders 全部支持的供应商
func (g *Gateway) AvailableProviders() []service.ProviderID {
	return service.KnownProviders()
}

// Initialized 是否已有可用的适配器
func (g *Gateway) Initialized() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.adapter != nil
}

type snapshot struct {
	id      service.ProviderID
	model   string
	adapter service.LLMProvider
}

func (g *Gateway) snapshot() snapshot {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return snapshot{id: g.active, model: g.configs[g.active].Model, adapter: g.adapter}
}

// call 在快照上执行一次供应商调用，统一上报指标与追踪
func (g *Gateway) call(ctx context.Context, operation string, fn func(context.Context, service.LLMProvider) (string, error)) (string, error) {
	snap := g.snapshot()
	if snap.adapter == nil {
		return "", errors.NotInitialized()
	}

	if service.OperationFromContext(ctx) == "unknown" {
		ctx = service.WithOperation(ctx, operation)
	}
	ctx = service.WithProvider(ctx, string(snap.id))
	ctx = logger.WithContext(ctx, logger.ProviderKey, string(snap.id))
	ctx, span := tracer.StartWith(ctx, "gateway."+operation, "llm.provider", string(snap.id), "llm.model", snap.model)
	defer span.End()

	start := time.Now()
	out, err := fn(ctx, snap.adapter)
	metrics.LLMCallDuration.WithLabelValues(string(snap.id), snap.model).Observe(time.Since(start).Seconds())
	metrics.LLMCallTotal.WithLabelValues(string(snap.id), snap.model, metrics.StatusLabel(err)).Inc()
	if err != nil {
		tracer.RecordError(span, err)
		logger.Error(ctx, "AI call failed", err, "operation", operation)
		return "", err
	}
	return out, nil
}

// Generate 单轮生成
func (g *Gateway) Generate(ctx context.Context, prompt string, opts service.GenerateOptions) (string, error) {
	return g.call(ctx, "generate", func(ctx context.Context, p service.LLMProvider) (string, error) {
		return p.GenerateText(ctx, prompt, opts)
	})
}

// Chat 多轮对话
func (g *Gateway) Chat(ctx context.Context, messages []service.Message, opts service.GenerateOptions) (string, error) {
	return g.call(ctx, "chat", func(ctx context.Context, p service.LLMProvider) (string, error) {
		return p.ChatComplete(ctx, messages, opts)
	})
}

// GenerateWithThinking 生成并拆分推理链
func (g *Gateway) GenerateWithThinking(ctx context.Context, prompt string, opts service.GenerateOptions) (thinking.Result, error) {
	raw, err := g.Generate(ctx, prompt, opts)
	if err != nil {
		return thinking.Result{}, err
	}
	return thinking.Split(raw), nil
}

// ChatWithThinking 对话并拆分推理链
func (g *Gateway) ChatWithThinking(ctx context.Context, messages []service.Message, opts service.GenerateOptions) (thinking.Result, error) {
	raw, err := g.Chat(ctx, messages, opts)
	if err != nil {
		return thinking.Result{}, err
	}
	return thinking.Split(raw), nil
}

// CheckConnection 未初始化时返回 false
func (g *Gateway) CheckConnection(ctx context.Context) bool {
	snap := g.snapshot()
	if snap.adapter == nil {
		return false
	}
	return snap.adapter.CheckConnection(ctx)
}

// Status 汇总当前供应商、连通性与 token 用量
func (g *Gateway) Status(ctx context.Context) Status {
	snap := g.snapshot()
	connected := g.CheckConnection(ctx)
	status := "disconnected"
	if connected {
		status = "connected"
	}
	return Status{
		Provider:  snap.id,
		Model:     snap.model,
		Connected: connected,
		Status:    status,
		Usage:     g.usage.Snapshot(),
	}
}

func (g *Gateway) ollamaCatalog() service.ModelCatalog {
	g.mu.RLock()
	s := g.configs[service.ProviderOllama]
	g.mu.RUnlock()
	return g.factory.Catalog(s)
}

// ListOllamaModels 使用 Ollama 配置临时构建目录，任何失败都返回空列表
func (g *Gateway) ListOllamaModels(ctx context.Context) []service.OllamaModel {
	models, err := g.ollamaCatalog().ListModels(ctx)
	if err != nil {
		logger.Warn(ctx, "failed to list ollama models", "error", err.Error())
		return []service.OllamaModel{}
	}
	if models == nil {
		return []service.OllamaModel{}
	}
	return models
}

// GetOllamaModelInfo 任何失败都返回 nil
func (g *Gateway) GetOllamaModelInfo(ctx context.Context, name string) map[string]any {
	info, err := g.ollamaCatalog().ModelInfo(ctx, name)
	if err != nil {
		logger.Warn(ctx, "failed to get ollama model info", "model", name, "error", err.Error())
		return nil
	}
	return info
}

// ProbeOllama 直接访问 Ollama 模型列表，返回原始错误供连接诊断使用
func (g *Gateway) ProbeOllama(ctx context.Context) (string, []service.OllamaModel, error) {
	g.mu.RLock()
	s := g.configs[service.ProviderOllama]
	g.mu.RUnlock()

	models, err := g.factory.Catalog(s).ListModels(ctx)
	return s.BaseURL, models, err
}
