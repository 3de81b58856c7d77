package llm

import (
	"context"
	"net/http"
	"strings"
	"time"

	"novel-assistant/internal/domain/service"
)

const (
	ollamaProbeTimeout   = 10 * time.Second
	ollamaCatalogTimeout = 30 * time.Second
	ollamaGenTimeout     = 120 * time.Second
)

// OllamaProvider 本地 Ollama 适配器，不需要密钥
type OllamaProvider struct {
	settings service.ProviderSettings
	baseURL  string
	client   *jsonClient
}

type ollamaOptions struct {
	Temperature   float64 `json:"temperature"`
	NumPredict    int     `json:"num_predict"`
	TopP          float64 `json:"top_p"`
	RepeatPenalty float64 `json:"repeat_penalty"`
}

type ollamaGenerateRequest struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	Stream  bool          `json:"stream"`
	Options ollamaOptions `json:"options"`
}

type ollamaChatRequest struct {
	Model    string            `json:"model"`
	Messages []service.Message `json:"messages"`
	Stream   bool              `json:"stream"`
	Options  ollamaOptions     `json:"options"`
}

type ollamaTagsResponse struct {
	Models []service.OllamaModel `json:"models"`
}

// NewOllamaProvider 创建 Ollama 适配器
func NewOllamaProvider(s service.ProviderSettings) *OllamaProvider {
	return &OllamaProvider{
		settings: s,
		baseURL:  strings.TrimRight(s.BaseURL, "/"),
		// 超时由每次调用的 context 控制
		client: &jsonClient{id: service.ProviderOllama, http: &http.Client{}},
	}
}

func (p *OllamaProvider) ID() service.ProviderID { return service.ProviderOllama }

// options top_p 缺省 1.0，repeat_penalty = frequency_penalty + 1.0
func (p *OllamaProvider) options(opts service.GenerateOptions) ollamaOptions {
	r := resolve(p.settings, opts)
	o := ollamaOptions{
		Temperature:   r.temperature,
		NumPredict:    r.maxTokens,
		TopP:          1.0,
		RepeatPenalty: 1.0,
	}
	if r.topP != nil {
		o.TopP = *r.topP
	}
	if r.frequencyPenalty != nil {
		o.RepeatPenalty = *r.frequencyPenalty + 1.0
	}
	return o
}

func (p *OllamaProvider) genTimeout() time.Duration {
	if p.settings.Timeout > 0 {
		return p.settings.Timeout
	}
	return ollamaGenTimeout
}

// GenerateText POST /api/generate
func (p *OllamaProvider) GenerateText(ctx context.Context, prompt string, opts service.GenerateOptions) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.genTimeout())
	defer cancel()

	var out struct {
		Response string `json:"response"`
	}
	err := p.client.do(ctx, http.MethodPost, p.baseURL+"/api/generate", ollamaGenerateRequest{
		Model:   p.settings.Model,
		Prompt:  prompt,
		Options: p.options(opts),
	}, &out)
	if err != nil {
		return "", err
	}
	return out.Response, nil
}

// ChatComplete POST /api/chat
func (p *OllamaProvider) ChatComplete(ctx context.Context, messages []service.Message, opts service.GenerateOptions) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.genTimeout())
	defer cancel()

	var out struct {
		Message service.Message `json:"message"`
	}
	err := p.client.do(ctx, http.MethodPost, p.baseURL+"/api/chat", ollamaChatRequest{
		Model:    p.settings.Model,
		Messages: messages,
		Options:  p.options(opts),
	}, &out)
	if err != nil {
		return "", err
	}
	return out.Message.Content, nil
}

// CheckConnection GET /api/tags 返回 2xx 即视为可用
func (p *OllamaProvider) CheckConnection(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, ollamaProbeTimeout)
	defer cancel()
	return p.client.do(ctx, http.MethodGet, p.baseURL+"/api/tags", nil, nil) == nil
}

// ListModels GET /api/tags
func (p *OllamaProvider) ListModels(ctx context.Context) ([]service.OllamaModel, error) {
	ctx, cancel := context.WithTimeout(ctx, ollamaCatalogTimeout)
	defer cancel()

	var out ollamaTagsResponse
	if err := p.client.do(ctx, http.MethodGet, p.baseURL+"/api/tags", nil, &out); err != nil {
		return nil, err
	}
	models := make([]service.OllamaModel, 0, len(out.Models))
	for _, m := range out.Models {
		if m.Details == nil {
			m.Details = map[string]any{}
		}
		models = append(models, m)
	}
	return models, nil
}

// ModelInfo POST /api/show，原样返回 Ollama 的响应
func (p *OllamaProvider) ModelInfo(ctx context.Context, name string) (map[string]any, error) {
	ctx, cancel := context.WithTimeout(ctx, ollamaCatalogTimeout)
	defer cancel()

	var out map[string]any
	if err := p.client.do(ctx, http.MethodPost, p.baseURL+"/api/show", map[string]string{"name": name}, &out); err != nil {
		return nil, err
	}
	return out, nil
}
