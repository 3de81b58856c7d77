package llm

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"novel-assistant/internal/domain/service"
	"novel-assistant/pkg/errors"
)

// ClaudeProvider Anthropic Messages API 适配器
type ClaudeProvider struct {
	settings service.ProviderSettings
	client   anthropic.Client
}

// NewClaudeProvider 创建 Claude 适配器
// SDK 自带的重试被关闭，失败直接返回给调用方
func NewClaudeProvider(s service.ProviderSettings) (*ClaudeProvider, error) {
	if s.APIKey == "" {
		return nil, errors.Configuration("claude API key is not configured")
	}
	opts := []option.RequestOption{
		option.WithAPIKey(s.APIKey),
		option.WithMaxRetries(0),
	}
	if s.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(strings.TrimRight(s.BaseURL, "/")+"/"))
	}
	if s.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(s.Timeout))
	}
	return &ClaudeProvider{settings: s, client: anthropic.NewClient(opts...)}, nil
}

func (p *ClaudeProvider) ID() service.ProviderID { return service.ProviderClaude }

// GenerateText 调用 {base}/v1/messages，prompt 作为单条 user 消息
func (p *ClaudeProvider) GenerateText(ctx context.Context, prompt string, opts service.GenerateOptions) (string, error) {
	r := resolve(p.settings, opts)
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(p.settings.Model),
		MaxTokens:   int64(r.maxTokens),
		Temperature: anthropic.Float(r.temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}
	if opts.TopP != nil {
		params.TopP = anthropic.Float(*opts.TopP)
	}

	resp, err := p.client.Messages.New(ctx, params)
	if err != nil {
		var apiErr *anthropic.Error
		if stderrors.As(err, &apiErr) {
			return "", errors.Upstream("claude", apiErr.StatusCode, apiErr.Error())
		}
		return "", classify(service.ProviderClaude, err)
	}

	for _, block := range resp.Content {
		if block.Type == "text" {
			return block.AsText().Text, nil
		}
	}
	return "", errors.UpstreamErr("claude", fmt.Errorf("response contains no text block"))
}

// ChatComplete 压平多轮消息后走 GenerateText，角色结构不会传给 Claude
func (p *ClaudeProvider) ChatComplete(ctx context.Context, messages []service.Message, opts service.GenerateOptions) (string, error) {
	return p.GenerateText(ctx, flattenMessages(messages), opts)
}

func (p *ClaudeProvider) CheckConnection(ctx context.Context) bool {
	maxTokens := 10
	_, err := p.GenerateText(ctx, connectionProbePrompt, service.GenerateOptions{MaxTokens: &maxTokens})
	return err == nil
}
