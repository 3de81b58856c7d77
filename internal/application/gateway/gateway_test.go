package gateway

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"novel-assistant/internal/domain/service"
	"novel-assistant/pkg/errors"
)

type fakeProvider struct {
	id       service.ProviderID
	settings service.ProviderSettings
	reply    string
	err      error
	online   bool

	mu      sync.Mutex
	prompts []string
}

func (p *fakeProvider) ID() service.ProviderID { return p.id }

func (p *fakeProvider) GenerateText(_ context.Context, prompt string, _ service.GenerateOptions) (string, error) {
	p.mu.Lock()
	p.prompts = append(p.prompts, prompt)
	p.mu.Unlock()
	if p.err != nil {
		return "", p.err
	}
	return p.reply, nil
}

func (p *fakeProvider) ChatComplete(ctx context.Context, messages []service.Message, opts service.GenerateOptions) (string, error) {
	return p.GenerateText(ctx, messages[len(messages)-1].Content, opts)
}

func (p *fakeProvider) CheckConnection(context.Context) bool { return p.online }

type fakeCatalog struct {
	models []service.OllamaModel
	info   map[string]any
	err    error
}

func (c *fakeCatalog) ListModels(context.Context) ([]service.OllamaModel, error) {
	return c.models, c.err
}

func (c *fakeCatalog) ModelInfo(context.Context, string) (map[string]any, error) {
	return c.info, c.err
}

type fakeFactory struct {
	mu      sync.Mutex
	built   []*fakeProvider
	reply   string
	catalog *fakeCatalog
}

func (f *fakeFactory) Build(_ context.Context, id service.ProviderID, s service.ProviderSettings) (service.LLMProvider, error) {
	if id != service.ProviderOllama && id != service.ProviderCustom && s.APIKey == "" {
		return nil, errors.Configuration("%s API key is not configured", id)
	}
	p := &fakeProvider{id: id, settings: s, reply: f.reply + "@" + string(id), online: true}
	f.mu.Lock()
	f.built = append(f.built, p)
	f.mu.Unlock()
	return p, nil
}

func (f *fakeFactory) Catalog(service.ProviderSettings) service.ModelCatalog {
	if f.catalog == nil {
		return &fakeCatalog{err: fmt.Errorf("connection refused")}
	}
	return f.catalog
}

func (f *fakeFactory) last() *fakeProvider {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.built[len(f.built)-1]
}

func newTestGateway(t *testing.T, f *fakeFactory) *Gateway {
	t.Helper()
	configs := map[service.ProviderID]service.ProviderSettings{
		service.ProviderOpenAI: {APIKey: "sk-openai-secret", Model: "gpt-3.5-turbo"},
		service.ProviderOllama: {BaseURL: "http://localhost:11434", Model: "qwen2"},
		service.ProviderClaude: {Model: "claude-3-sonnet-20240229"},
	}
	return New(context.Background(), f, configs, service.ProviderOllama, nil)
}

func TestSwitchProviderRoutesSubsequentCalls(t *testing.T) {
	f := &fakeFactory{reply: "ok"}
	g := newTestGateway(t, f)
	ctx := context.Background()

	require.NoError(t, g.SwitchProvider(ctx, service.ProviderOpenAI))
	assert.Equal(t, service.ProviderOpenAI, g.CurrentProvider())

	out, err := g.Generate(ctx, "hello", service.GenerateOptions{})
	require.NoError(t, err)
	assert.Equal(t, "ok@openai", out)
	assert.Equal(t, []string{"hello"}, f.last().prompts)
	assert.Equal(t, service.ProviderOpenAI, f.last().id)
}

func TestSwitchProviderUnknownKeepsState(t *testing.T) {
	g := newTestGateway(t, &fakeFactory{reply: "ok"})
	err := g.SwitchProvider(context.Background(), "bard")
	assert.True(t, errors.IsConfiguration(err))
	assert.Equal(t, service.ProviderOllama, g.CurrentProvider())
	assert.True(t, g.Initialized())
}

func TestSwitchProviderMissingKeyLeavesGatewayUninitialized(t *testing.T) {
	g := newTestGateway(t, &fakeFactory{reply: "ok"})
	ctx := context.Background()

	err := g.SwitchProvider(ctx, service.ProviderClaude)
	assert.True(t, errors.IsConfiguration(err))
	assert.Equal(t, service.ProviderClaude, g.CurrentProvider())
	assert.False(t, g.Initialized())
	assert.False(t, g.CheckConnection(ctx))

	_, err = g.Generate(ctx, "x", service.GenerateOptions{})
	assert.True(t, errors.IsKind(err, errors.CodeServiceUnavailable))
	_, err = g.ChatWithThinking(ctx, []service.Message{{Role: "user", Content: "x"}}, service.GenerateOptions{})
	assert.True(t, errors.IsKind(err, errors.CodeServiceUnavailable))
}

func TestUpdateActiveProviderConfigRebuilds(t *testing.T) {
	f := &fakeFactory{reply: "ok"}
	g := newTestGateway(t, f)
	ctx := context.Background()
	require.NoError(t, g.SwitchProvider(ctx, service.ProviderOpenAI))

	model := "gpt-4o"
	require.NoError(t, g.UpdateProviderConfig(ctx, service.ProviderOpenAI, service.ProviderSettingsPatch{Model: &model}))
	assert.Equal(t, "gpt-4o", f.last().settings.Model)
	assert.Equal(t, "sk-openai-secret", f.last().settings.APIKey)
}

func TestUpdateInactiveProviderDoesNotRebuild(t *testing.T) {
	f := &fakeFactory{reply: "ok"}
	g := newTestGateway(t, f)
	before := len(f.built)

	key := "ant-key-1234"
	require.NoError(t, g.UpdateProviderConfig(context.Background(), service.ProviderClaude, service.ProviderSettingsPatch{APIKey: &key}))
	assert.Len(t, f.built, before)

	cfg, err := g.GetProviderConfig(service.ProviderClaude)
	require.NoError(t, err)
	assert.Equal(t, "***1234", cfg.APIKey)
	assert.Equal(t, "claude-3-sonnet-20240229", cfg.Model)
}

func TestUpdateUnknownProvider(t *testing.T) {
	g := newTestGateway(t, &fakeFactory{})
	err := g.UpdateProviderConfig(context.Background(), "bard", service.ProviderSettingsPatch{})
	assert.True(t, errors.IsConfiguration(err))
	_, err = g.GetProviderConfig("bard")
	assert.True(t, errors.IsConfiguration(err))
}

func TestGetProviderConfigMasksSecret(t *testing.T) {
	g := newTestGateway(t, &fakeFactory{})
	cfg, err := g.GetProviderConfig(service.ProviderOpenAI)
	require.NoError(t, err)
	assert.Equal(t, "***cret", cfg.APIKey)
	assert.NotContains(t, cfg.APIKey, "sk-openai")
}

func TestGenerateWithThinking(t *testing.T) {
	f := &fakeFactory{}
	g := newTestGateway(t, f)
	f.last().reply = "<think>先构思</think>正文"

	res, err := g.GenerateWithThinking(context.Background(), "p", service.GenerateOptions{})
	require.NoError(t, err)
	assert.Equal(t, "正文", res.Content)
	require.NotNil(t, res.Thinking)
	assert.Equal(t, "先构思", *res.Thinking)
	assert.Equal(t, "<think>先构思</think>正文", res.RawResponse)
}

func TestUpstreamErrorPropagates(t *testing.T) {
	f := &fakeFactory{}
	g := newTestGateway(t, f)
	f.last().err = errors.Upstream("ollama", 500, "boom")

	_, err := g.Chat(context.Background(), []service.Message{{Role: "user", Content: "x"}}, service.GenerateOptions{})
	assert.True(t, errors.IsUpstream(err))
}

func TestOllamaPassthroughsSwallowErrors(t *testing.T) {
	g := newTestGateway(t, &fakeFactory{})
	ctx := context.Background()
	models := g.ListOllamaModels(ctx)
	assert.NotNil(t, models)
	assert.Empty(t, models)
	assert.Nil(t, g.GetOllamaModelInfo(ctx, "qwen2"))
}

func TestOllamaPassthroughsIndependentOfActiveProvider(t *testing.T) {
	f := &fakeFactory{reply: "ok", catalog: &fakeCatalog{
		models: []service.OllamaModel{{Name: "qwen2:7b"}},
		info:   map[string]any{"modelfile": "FROM qwen2"},
	}}
	g := newTestGateway(t, f)
	require.NoError(t, g.SwitchProvider(context.Background(), service.ProviderOpenAI))

	models := g.ListOllamaModels(context.Background())
	require.Len(t, models, 1)
	assert.Equal(t, "qwen2:7b", models[0].Name)
	assert.Equal(t, "FROM qwen2", g.GetOllamaModelInfo(context.Background(), "qwen2:7b")["modelfile"])
}

func TestConcurrentSwitchAndGenerate(t *testing.T) {
	f := &fakeFactory{reply: "ok"}
	g := newTestGateway(t, f)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				_ = g.SwitchProvider(ctx, service.ProviderOpenAI)
			} else {
				_ = g.SwitchProvider(ctx, service.ProviderOllama)
			}
		}(i)
		go func() {
			defer wg.Done()
			_, _ = g.Generate(ctx, "x", service.GenerateOptions{})
		}()
	}
	wg.Wait()
	assert.True(t, g.Initialized())
}

func TestStatusReportsUsage(t *testing.T) {
	tracker := NewUsageTracker()
	require.NoError(t, tracker.Record(context.Background(), service.LLMUsageInput{Provider: "openai", Model: "gpt", PromptTokens: 3, CompletionTokens: 4}))
	require.NoError(t, tracker.Record(context.Background(), service.LLMUsageInput{Provider: "openai", Model: "gpt", PromptTokens: 1, CompletionTokens: 1}))
	assert.Error(t, tracker.Record(context.Background(), service.LLMUsageInput{PromptTokens: -1}))

	g := New(context.Background(), &fakeFactory{}, nil, service.ProviderOllama, tracker)
	st := g.Status(context.Background())
	assert.Equal(t, service.ProviderOllama, st.Provider)
	assert.True(t, st.Connected)
	assert.Equal(t, "connected", st.Status)
	require.Len(t, st.Usage, 1)
	assert.Equal(t, 2, st.Usage[0].Calls)
	assert.Equal(t, 4, st.Usage[0].PromptTokens)
}
