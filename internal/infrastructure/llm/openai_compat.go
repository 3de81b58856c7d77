package llm

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/openai"
	einocb "github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"novel-assistant/internal/domain/service"
	"novel-assistant/pkg/errors"
)

// OpenAICompatProvider 基于 Eino OpenAI ChatModel 的适配器
// 覆盖 openai / siliconflow / grok / zhipu / custom，它们都是 {base}/chat/completions + Bearer 认证
type OpenAICompatProvider struct {
	id       service.ProviderID
	settings service.ProviderSettings
	chat     model.BaseChatModel
	// penalties 为 false 时不下发 frequency/presence penalty（智谱只支持 top_p）
	penalties bool
}

// NewOpenAICompatProvider 创建 OpenAI 兼容适配器
// custom 供应商允许不配置密钥，其余供应商缺少密钥时返回 Configuration 错误
func NewOpenAICompatProvider(ctx context.Context, id service.ProviderID, s service.ProviderSettings) (*OpenAICompatProvider, error) {
	apiKey := s.APIKey
	if apiKey == "" {
		if id != service.ProviderCustom {
			return nil, errors.Configuration("%s API key is not configured", id)
		}
		apiKey = "dummy-key"
	}
	if s.BaseURL == "" {
		return nil, errors.Configuration("%s base_url is not configured", id)
	}
	if s.Model == "" {
		return nil, errors.Configuration("%s model is not configured", id)
	}

	maxTokens := s.MaxTokens
	cfg := &openai.ChatModelConfig{
		APIKey:      apiKey,
		BaseURL:     s.BaseURL,
		Model:       s.Model,
		MaxTokens:   &maxTokens,
		Temperature: ptrFloat32(s.Temperature),
		Timeout:     s.Timeout,
	}
	if s.TopP != nil {
		cfg.TopP = ptrFloat32(*s.TopP)
	}
	penalties := id != service.ProviderZhipu
	if penalties {
		if s.FrequencyPenalty != nil {
			cfg.FrequencyPenalty = ptrFloat32(*s.FrequencyPenalty)
		}
		if s.PresencePenalty != nil {
			cfg.PresencePenalty = ptrFloat32(*s.PresencePenalty)
		}
	}

	chatModel, err := openai.NewChatModel(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create eino chat model for %s: %w", id, err)
	}

	return &OpenAICompatProvider{id: id, settings: s, chat: chatModel, penalties: penalties}, nil
}

func (p *OpenAICompatProvider) ID() service.ProviderID { return p.id }

// GenerateText 将 prompt 包装为单条 user 消息
func (p *OpenAICompatProvider) GenerateText(ctx context.Context, prompt string, opts service.GenerateOptions) (string, error) {
	return p.ChatComplete(ctx, []service.Message{{Role: "user", Content: prompt}}, opts)
}

// ChatComplete 调用 chat/completions
// 供应商返回 reasoning_content 时以 <think> 块拼在正文前，交给推理链处理器拆分
func (p *OpenAICompatProvider) ChatComplete(ctx context.Context, messages []service.Message, opts service.GenerateOptions) (string, error) {
	input := make([]*schema.Message, 0, len(messages))
	for _, m := range messages {
		input = append(input, &schema.Message{Role: schema.RoleType(m.Role), Content: m.Content})
	}

	ctx = einocb.InitCallbacks(ctx, &einocb.RunInfo{
		Name:      string(p.id),
		Type:      "OpenAICompatible",
		Component: components.ComponentOfChatModel,
	})

	out, err := p.chat.Generate(ctx, input, p.modelOptions(opts)...)
	if err != nil {
		return "", classify(p.id, err)
	}
	if out == nil {
		return "", errors.UpstreamErr(string(p.id), fmt.Errorf("empty response"))
	}
	if out.ReasoningContent != "" {
		return "<think>" + out.ReasoningContent + "</think>" + out.Content, nil
	}
	return out.Content, nil
}

// CheckConnection 发送一条极短的生成请求探测连通性
func (p *OpenAICompatProvider) CheckConnection(ctx context.Context) bool {
	maxTokens := 10
	_, err := p.GenerateText(ctx, connectionProbePrompt, service.GenerateOptions{MaxTokens: &maxTokens})
	return err == nil
}

func (p *OpenAICompatProvider) modelOptions(opts service.GenerateOptions) []model.Option {
	r := resolve(p.settings, opts)
	modelOpts := []model.Option{
		model.WithMaxTokens(r.maxTokens),
		model.WithTemperature(float32(r.temperature)),
	}
	if opts.TopP != nil {
		modelOpts = append(modelOpts, model.WithTopP(float32(*opts.TopP)))
	}
	if !p.penalties {
		return modelOpts
	}
	extra := map[string]any{}
	if opts.FrequencyPenalty != nil {
		extra["frequency_penalty"] = *opts.FrequencyPenalty
	}
	if opts.PresencePenalty != nil {
		extra["presence_penalty"] = *opts.PresencePenalty
	}
	if len(extra) > 0 {
		modelOpts = append(modelOpts, openai.WithExtraFields(extra))
	}
	return modelOpts
}
