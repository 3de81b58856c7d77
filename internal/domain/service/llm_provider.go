package service

import (
	"context"
	"time"
)

// ProviderID LLM 供应商标识
type ProviderID string

const (
	ProviderOpenAI      ProviderID = "openai"
	ProviderClaude      ProviderID = "claude"
	ProviderZhipu       ProviderID = "zhipu"
	ProviderSiliconFlow ProviderID = "siliconflow"
	ProviderGoogle      ProviderID = "google"
	ProviderGrok        ProviderID = "grok"
	ProviderOllama      ProviderID = "ollama"
	ProviderCustom      ProviderID = "custom"
)

// KnownProviders 所有支持的供应商，顺序固定
func KnownProviders() []ProviderID {
	return []ProviderID{
		ProviderOpenAI,
		ProviderClaude,
		ProviderZhipu,
		ProviderSiliconFlow,
		ProviderGoogle,
		ProviderGrok,
		ProviderOllama,
		ProviderCustom,
	}
}

// IsKnownProvider 判断是否为支持的供应商
func IsKnownProvider(id string) bool {
	for _, p := range KnownProviders() {
		if string(p) == id {
			return true
		}
	}
	return false
}

// Message 对话消息
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// GenerateOptions 单次调用的生成参数，nil 表示使用供应商配置中的默认值
type GenerateOptions struct {
	MaxTokens        *int     `json:"max_tokens,omitempty"`
	Temperature      *float64 `json:"temperature,omitempty"`
	TopP             *float64 `json:"top_p,omitempty"`
	FrequencyPenalty *float64 `json:"frequency_penalty,omitempty"`
	PresencePenalty  *float64 `json:"presence_penalty,omitempty"`
}

// LLMProvider 单个供应商适配器
// CheckConnection 不返回错误，任何失败都视为不可用
type LLMProvider interface {
	ID() ProviderID
	GenerateText(ctx context.Context, prompt string, opts GenerateOptions) (string, error)
	ChatComplete(ctx context.Context, messages []Message, opts GenerateOptions) (string, error)
	CheckConnection(ctx context.Context) bool
}

// OllamaModel 本地模型概要
type OllamaModel struct {
	Name       string         `json:"name"`
	Size       int64          `json:"size"`
	ModifiedAt string         `json:"modified_at"`
	Digest     string         `json:"digest"`
	Details    map[string]any `json:"details"`
}

// ModelCatalog 能列出本地模型的供应商，目前只有 Ollama
type ModelCatalog interface {
	ListModels(ctx context.Context) ([]OllamaModel, error)
	ModelInfo(ctx context.Context, name string) (map[string]any, error)
}

// ProviderSettings 单个供应商的完整配置
type ProviderSettings struct {
	APIKey           string        `json:"api_key"`
	BaseURL          string        `json:"base_url"`
	Model            string        `json:"model"`
	MaxTokens        int           `json:"max_tokens"`
	Temperature      float64       `json:"temperature"`
	TopP             *float64      `json:"top_p,omitempty"`
	FrequencyPenalty *float64      `json:"frequency_penalty,omitempty"`
	PresencePenalty  *float64      `json:"presence_penalty,omitempty"`
	Timeout          time.Duration `json:"-"`
}

// ProviderSettingsPatch 部分配置更新，nil 字段保持不变
type ProviderSettingsPatch struct {
	APIKey           *string        `json:"api_key,omitempty"`
	BaseURL          *string        `json:"base_url,omitempty"`
	Model            *string        `json:"model,omitempty"`
	MaxTokens        *int           `json:"max_tokens,omitempty"`
	Temperature      *float64       `json:"temperature,omitempty"`
	TopP             *float64       `json:"top_p,omitempty"`
	FrequencyPenalty *float64       `json:"frequency_penalty,omitempty"`
	PresencePenalty  *float64       `json:"presence_penalty,omitempty"`
	Timeout          *time.Duration `json:"-"`
}

// Apply 浅合并补丁，返回新的配置
func (p ProviderSettingsPatch) Apply(s ProviderSettings) ProviderSettings {
	if p.APIKey != nil {
		s.APIKey = *p.APIKey
	}
	if p.BaseURL != nil {
		s.BaseURL = *p.BaseURL
	}
	if p.Model != nil {
		s.Model = *p.Model
	}
	if p.MaxTokens != nil {
		s.MaxTokens = *p.MaxTokens
	}
	if p.Temperature != nil {
		s.Temperature = *p.Temperature
	}
	if p.TopP != nil {
		s.TopP = p.TopP
	}
	if p.FrequencyPenalty != nil {
		s.FrequencyPenalty = p.FrequencyPenalty
	}
	if p.PresencePenalty != nil {
		s.PresencePenalty = p.PresencePenalty
	}
	if p.Timeout != nil {
		s.Timeout = *p.Timeout
	}
	return s
}

// Masked 返回隐藏密钥后的副本
// 长度大于 4 时保留末 4 位，否则全部隐藏
func (s ProviderSettings) Masked() ProviderSettings {
	if s.APIKey == "" {
		return s
	}
	if len(s.APIKey) > 4 {
		s.APIKey = "***" + s.APIKey[len(s.APIKey)-4:]
	} else {
		s.APIKey = "***"
	}
	return s
}
