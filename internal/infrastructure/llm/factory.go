package llm

import (
	"context"

	"novel-assistant/internal/config"
	"novel-assistant/internal/domain/service"
	"novel-assistant/pkg/errors"
)

// Factory 根据供应商标识与配置构建适配器
type Factory struct{}

// NewFactory 创建适配器工厂
func NewFactory() *Factory {
	return &Factory{}
}

// Build 构建指定供应商的适配器，缺少必需配置时返回 Configuration 错误
func (f *Factory) Build(ctx context.Context, id service.ProviderID, s service.ProviderSettings) (service.LLMProvider, error) {
	switch id {
	case service.ProviderOpenAI, service.ProviderSiliconFlow, service.ProviderGrok,
		service.ProviderZhipu, service.ProviderCustom:
		return NewOpenAICompatProvider(ctx, id, s)
	case service.ProviderClaude:
		return NewClaudeProvider(s)
	case service.ProviderGoogle:
		return NewGoogleProvider(s)
	case service.ProviderOllama:
		return NewOllamaProvider(s), nil
	default:
		return nil, errors.Configuration("unsupported AI provider: %s", id)
	}
}

// Catalog 用 Ollama 配置构建一个临时的模型目录，与当前激活的供应商无关
func (f *Factory) Catalog(s service.ProviderSettings) service.ModelCatalog {
	return NewOllamaProvider(s)
}

// SettingsFromConfig 将配置文件中的供应商配置转换为运行时配置
func SettingsFromConfig(cfg *config.LLMConfig) map[service.ProviderID]service.ProviderSettings {
	out := make(map[service.ProviderID]service.ProviderSettings, len(cfg.Providers))
	for _, id := range service.KnownProviders() {
		pc := cfg.Providers[string(id)]
		out[id] = service.ProviderSettings{
			APIKey:           pc.APIKey,
			BaseURL:          pc.BaseURL,
			Model:            pc.Model,
			MaxTokens:        pc.MaxTokens,
			Temperature:      pc.Temperature,
			TopP:             pc.TopP,
			FrequencyPenalty: pc.FrequencyPenalty,
			PresencePenalty:  pc.PresencePenalty,
			Timeout:          pc.Timeout,
		}
	}
	return out
}
