package dto

import (
	"time"

	"novel-assistant/internal/domain/service"
)

// ChatMessage 对话消息
type ChatMessage struct {
	Role    string `json:"role" binding:"required"`
	Content string `json:"content"`
}

// GenerationParams 可选生成参数，未传的字段沿用供应商配置
type GenerationParams struct {
	MaxTokens        *int     `json:"max_tokens,omitempty" binding:"omitempty,min=1"`
	Temperature      *float64 `json:"temperature,omitempty" binding:"omitempty,min=0,max=2"`
	TopP             *float64 `json:"top_p,omitempty"`
	FrequencyPenalty *float64 `json:"frequency_penalty,omitempty"`
	PresencePenalty  *float64 `json:"presence_penalty,omitempty"`
}

// Options 转换为网关的生成参数
func (p GenerationParams) Options() service.GenerateOptions {
	return service.GenerateOptions{
		MaxTokens:        p.MaxTokens,
		Temperature:      p.Temperature,
		TopP:             p.TopP,
		FrequencyPenalty: p.FrequencyPenalty,
		PresencePenalty:  p.PresencePenalty,
	}
}

// ChatRequest AI 对话请求
type ChatRequest struct {
	Messages  []ChatMessage `json:"messages" binding:"required,min=1,dive"`
	ProjectID *int64        `json:"project_id,omitempty"`
	GenerationParams
}

// ServiceMessages 转换为网关消息
func (r *ChatRequest) ServiceMessages() []service.Message {
	out := make([]service.Message, 0, len(r.Messages))
	for _, m := range r.Messages {
		out = append(out, service.Message{Role: m.Role, Content: m.Content})
	}
	return out
}

// GenerateRequest 创作辅助生成请求
type GenerateRequest struct {
	Prompt      string `json:"prompt" binding:"required"`
	ProjectID   *int64 `json:"project_id,omitempty"`
	ContextType string `json:"context_type,omitempty"`
	GenerationParams
}

// ChatResponse AI 对话响应
type ChatResponse struct {
	Response    string  `json:"response"`
	Thinking    *string `json:"thinking"`
	RawResponse string  `json:"raw_response"`
	Provider    string  `json:"provider"`
	Status      string  `json:"status"`
}

// GenerateResponse 创作辅助生成响应
type GenerateResponse struct {
	Content     string  `json:"content"`
	Thinking    *string `json:"thinking"`
	RawResponse string  `json:"raw_response"`
	Type        string  `json:"type"`
	Provider    string  `json:"provider"`
	Status      string  `json:"status"`
}

// SwitchProviderRequest 切换供应商请求
type SwitchProviderRequest struct {
	Provider string `json:"provider" binding:"required"`
}

// ProviderConfigPatch 供应商配置补丁，timeout 单位为秒
type ProviderConfigPatch struct {
	APIKey           *string  `json:"api_key,omitempty"`
	BaseURL          *string  `json:"base_url,omitempty"`
	Model            *string  `json:"model,omitempty"`
	MaxTokens        *int     `json:"max_tokens,omitempty" binding:"omitempty,min=1"`
	Temperature      *float64 `json:"temperature,omitempty" binding:"omitempty,min=0,max=2"`
	TopP             *float64 `json:"top_p,omitempty"`
	FrequencyPenalty *float64 `json:"frequency_penalty,omitempty"`
	PresencePenalty  *float64 `json:"presence_penalty,omitempty"`
	TimeoutSeconds   *int     `json:"timeout,omitempty" binding:"omitempty,min=1"`
}

// ToPatch 转换为网关的配置补丁
func (p ProviderConfigPatch) ToPatch() service.ProviderSettingsPatch {
	patch := service.ProviderSettingsPatch{
		APIKey:           p.APIKey,
		BaseURL:          p.BaseURL,
		Model:            p.Model,
		MaxTokens:        p.MaxTokens,
		Temperature:      p.Temperature,
		TopP:             p.TopP,
		FrequencyPenalty: p.FrequencyPenalty,
		PresencePenalty:  p.PresencePenalty,
	}
	if p.TimeoutSeconds != nil {
		d := time.Duration(*p.TimeoutSeconds) * time.Second
		patch.Timeout = &d
	}
	return patch
}

// ConfigUpdateRequest 更新供应商配置请求
type ConfigUpdateRequest struct {
	Provider string              `json:"provider" binding:"required"`
	Config   ProviderConfigPatch `json:"config"`
}

// ProviderConfigResponse 对外展示的供应商配置，api_key 已脱敏，timeout 单位为秒
type ProviderConfigResponse struct {
	APIKey           string   `json:"api_key"`
	BaseURL          string   `json:"base_url"`
	Model            string   `json:"model"`
	MaxTokens        int      `json:"max_tokens"`
	Temperature      float64  `json:"temperature"`
	TopP             *float64 `json:"top_p,omitempty"`
	FrequencyPenalty *float64 `json:"frequency_penalty,omitempty"`
	PresencePenalty  *float64 `json:"presence_penalty,omitempty"`
	TimeoutSeconds   int      `json:"timeout"`
}

// NewProviderConfigResponse 由已脱敏的配置构建响应
func NewProviderConfigResponse(s service.ProviderSettings) ProviderConfigResponse {
	return ProviderConfigResponse{
		APIKey:           s.APIKey,
		BaseURL:          s.BaseURL,
		Model:            s.Model,
		MaxTokens:        s.MaxTokens,
		Temperature:      s.Temperature,
		TopP:             s.TopP,
		FrequencyPenalty: s.FrequencyPenalty,
		PresencePenalty:  s.PresencePenalty,
		TimeoutSeconds:   int(s.Timeout / time.Second),
	}
}

// ProvidersResponse 供应商列表
type ProvidersResponse struct {
	Providers []service.ProviderID `json:"providers"`
	Current   service.ProviderID   `json:"current"`
}

// OllamaModelsResponse 本地模型列表
type OllamaModelsResponse struct {
	Models      []service.OllamaModel `json:"models"`
	Count       int                   `json:"count"`
	Status      string                `json:"status"`
	Message     string                `json:"message"`
	Suggestions []string              `json:"suggestions,omitempty"`
}

// OllamaConnectionResponse Ollama 连接测试结果
type OllamaConnectionResponse struct {
	Status      string   `json:"status"`
	Connected   bool     `json:"connected"`
	Message     string   `json:"message"`
	ServiceURL  string   `json:"service_url"`
	ModelsCount int      `json:"models_count"`
	Models      []string `json:"models,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}
