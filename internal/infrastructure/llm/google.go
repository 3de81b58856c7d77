package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"novel-assistant/internal/domain/service"
	"novel-assistant/pkg/errors"
)

// GoogleProvider Gemini generateContent 适配器
type GoogleProvider struct {
	settings service.ProviderSettings
	client   *jsonClient
}

type googlePart struct {
	Text string `json:"text"`
}

type googleContent struct {
	Parts []googlePart `json:"parts"`
}

type googleRequest struct {
	Contents         []googleContent        `json:"contents"`
	GenerationConfig googleGenerationConfig `json:"generationConfig"`
}

type googleGenerationConfig struct {
	MaxOutputTokens int      `json:"maxOutputTokens"`
	Temperature     float64  `json:"temperature"`
	TopP            *float64 `json:"topP,omitempty"`
}

type googleResponse struct {
	Candidates []struct {
		Content googleContent `json:"content"`
	} `json:"candidates"`
}

// NewGoogleProvider 创建 Google 适配器
func NewGoogleProvider(s service.ProviderSettings) (*GoogleProvider, error) {
	if s.APIKey == "" {
		return nil, errors.Configuration("google API key is not configured")
	}
	return &GoogleProvider{
		settings: s,
		client: &jsonClient{
			id:   service.ProviderGoogle,
			http: &http.Client{Timeout: s.Timeout},
		},
	}, nil
}

func (p *GoogleProvider) ID() service.ProviderID { return service.ProviderGoogle }

// GenerateText POST {base}/models/{model}:generateContent?key=...
func (p *GoogleProvider) GenerateText(ctx context.Context, prompt string, opts service.GenerateOptions) (string, error) {
	r := resolve(p.settings, opts)
	body := googleRequest{
		Contents: []googleContent{{Parts: []googlePart{{Text: prompt}}}},
		GenerationConfig: googleGenerationConfig{
			MaxOutputTokens: r.maxTokens,
			Temperature:     r.temperature,
			TopP:            opts.TopP,
		},
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		strings.TrimRight(p.settings.BaseURL, "/"), p.settings.Model, url.QueryEscape(p.settings.APIKey))

	var out googleResponse
	if err := p.client.do(ctx, http.MethodPost, endpoint, body, &out); err != nil {
		return "", err
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", errors.UpstreamErr("google", fmt.Errorf("response contains no candidates"))
	}
	return out.Candidates[0].Content.Parts[0].Text, nil
}

// ChatComplete 压平多轮消息后走 GenerateText
func (p *GoogleProvider) ChatComplete(ctx context.Context, messages []service.Message, opts service.GenerateOptions) (string, error) {
	return p.GenerateText(ctx, flattenMessages(messages), opts)
}

func (p *GoogleProvider) CheckConnection(ctx context.Context) bool {
	maxTokens := 10
	_, err := p.GenerateText(ctx, connectionProbePrompt, service.GenerateOptions{MaxTokens: &maxTokens})
	return err == nil
}
