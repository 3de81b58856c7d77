package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"novel-assistant/internal/domain/service"
	"novel-assistant/pkg/errors"
)

func settings(baseURL, key, model string) service.ProviderSettings {
	return service.ProviderSettings{
		APIKey:      key,
		BaseURL:     baseURL,
		Model:       model,
		MaxTokens:   2000,
		Temperature: 0.7,
		Timeout:     5 * time.Second,
	}
}

func decodeBody(t *testing.T, r *http.Request) map[string]any {
	t.Helper()
	raw, err := io.ReadAll(r.Body)
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}

func TestOpenAICompatGenerateText(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		got = decodeBody(t, r)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","created":1,"model":"gpt-3.5-turbo",
			"choices":[{"index":0,"message":{"role":"assistant","content":"你好"},"finish_reason":"stop"}],
			"usage":{"prompt_tokens":3,"completion_tokens":2,"total_tokens":5}}`))
	}))
	defer srv.Close()

	p, err := NewOpenAICompatProvider(context.Background(), service.ProviderOpenAI, settings(srv.URL, "sk-test", "gpt-3.5-turbo"))
	require.NoError(t, err)

	maxTokens := 64
	out, err := p.GenerateText(context.Background(), "写一句开场白", service.GenerateOptions{MaxTokens: &maxTokens})
	require.NoError(t, err)
	assert.Equal(t, "你好", out)

	require.NotNil(t, got)
	assert.Equal(t, "gpt-3.5-turbo", got["model"])
	assert.EqualValues(t, 64, got["max_tokens"])
	msgs := got["messages"].([]any)
	require.Len(t, msgs, 1)
	assert.Equal(t, "user", msgs[0].(map[string]any)["role"])
	assert.Equal(t, "写一句开场白", msgs[0].(map[string]any)["content"])
}

func TestOpenAICompatUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"overloaded","type":"server_error"}}`))
	}))
	defer srv.Close()

	p, err := NewOpenAICompatProvider(context.Background(), service.ProviderGrok, settings(srv.URL, "xai-key", "grok-beta"))
	require.NoError(t, err)

	_, err = p.GenerateText(context.Background(), "hi", service.GenerateOptions{})
	require.Error(t, err)
	assert.True(t, errors.IsUpstream(err))
	assert.False(t, p.CheckConnection(context.Background()))
}

func TestOpenAICompatRequiresKeyExceptCustom(t *testing.T) {
	_, err := NewOpenAICompatProvider(context.Background(), service.ProviderSiliconFlow, settings("https://api.siliconflow.cn/v1", "", "deepseek-chat"))
	assert.True(t, errors.IsConfiguration(err))

	p, err := NewOpenAICompatProvider(context.Background(), service.ProviderCustom, settings("http://localhost:9999/v1", "", "local"))
	require.NoError(t, err)
	assert.Equal(t, service.ProviderCustom, p.ID())
}

func TestClaudeGenerateText(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "ant-key", r.Header.Get("x-api-key"))
		assert.NotEmpty(t, r.Header.Get("anthropic-version"))
		got = decodeBody(t, r)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"msg_1","type":"message","role":"assistant","model":"claude-3-sonnet-20240229",
			"content":[{"type":"text","text":"落笔成章"}],"stop_reason":"end_turn",
			"usage":{"input_tokens":5,"output_tokens":4}}`))
	}))
	defer srv.Close()

	p, err := NewClaudeProvider(settings(srv.URL, "ant-key", "claude-3-sonnet-20240229"))
	require.NoError(t, err)

	out, err := p.ChatComplete(context.Background(), []service.Message{
		{Role: "system", Content: "你是写作助手"},
		{Role: "user", Content: "开头"},
	}, service.GenerateOptions{})
	require.NoError(t, err)
	assert.Equal(t, "落笔成章", out)

	msgs := got["messages"].([]any)
	require.Len(t, msgs, 1)
	content := msgs[0].(map[string]any)["content"].([]any)
	assert.Equal(t, "system: 你是写作助手\nuser: 开头", content[0].(map[string]any)["text"])
	assert.EqualValues(t, 2000, got["max_tokens"])
}

func TestClaudeErrorIsUpstreamWithoutRetry(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"overloaded_error","message":"overloaded"}}`))
	}))
	defer srv.Close()

	p, err := NewClaudeProvider(settings(srv.URL, "ant-key", "claude-3-sonnet-20240229"))
	require.NoError(t, err)

	_, err = p.GenerateText(context.Background(), "hi", service.GenerateOptions{})
	require.Error(t, err)
	assert.True(t, errors.IsUpstream(err))
	assert.Equal(t, 1, calls)
}

func TestClaudeRequiresKey(t *testing.T) {
	_, err := NewClaudeProvider(settings("https://api.anthropic.com", "", "m"))
	assert.True(t, errors.IsConfiguration(err))
}

func TestGoogleGenerateText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/gemini-pro:generateContent", r.URL.Path)
		assert.Equal(t, "g-key", r.URL.Query().Get("key"))
		body := decodeBody(t, r)
		cfg := body["generationConfig"].(map[string]any)
		assert.EqualValues(t, 10, cfg["maxOutputTokens"])
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"ok"}]}}]}`))
	}))
	defer srv.Close()

	p, err := NewGoogleProvider(settings(srv.URL, "g-key", "gemini-pro"))
	require.NoError(t, err)
	assert.True(t, p.CheckConnection(context.Background()))
}

func TestGoogleNon2xxCarriesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"API key not valid"}}`))
	}))
	defer srv.Close()

	p, err := NewGoogleProvider(settings(srv.URL, "bad", "gemini-pro"))
	require.NoError(t, err)
	_, err = p.GenerateText(context.Background(), "hi", service.GenerateOptions{})
	require.Error(t, err)
	assert.True(t, errors.IsUpstream(err))
	assert.Contains(t, errors.AsAppError(err).Detail, "API key not valid")
}

func TestGoogleTransportErrorHidesKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := srv.URL
	srv.Close()

	p, err := NewGoogleProvider(settings(base, "sk-SECRET-123456", "gemini-pro"))
	require.NoError(t, err)
	_, err = p.GenerateText(context.Background(), "hi", service.GenerateOptions{})
	require.Error(t, err)
	assert.True(t, errors.IsTransport(err))
	assert.NotContains(t, err.Error(), "sk-SECRET-123456")
	assert.Contains(t, err.Error(), "key=%2A%2A%2A")
}

func TestRedactURL(t *testing.T) {
	assert.Equal(t, "http://h/models/m:generateContent?key=%2A%2A%2A",
		redactURL("http://h/models/m:generateContent?key=abc"))
	assert.Equal(t, "http://h/api/tags", redactURL("http://h/api/tags"))
}

func TestOllamaGenerateAndChat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := decodeBody(t, r)
		assert.Equal(t, false, body["stream"])
		opts := body["options"].(map[string]any)
		switch r.URL.Path {
		case "/api/generate":
			assert.EqualValues(t, 1.0, opts["top_p"])
			assert.EqualValues(t, 1.5, opts["repeat_penalty"])
			_, _ = w.Write([]byte(`{"response":"<think>r</think>生成"}`))
		case "/api/chat":
			assert.EqualValues(t, 300, opts["num_predict"])
			_, _ = w.Write([]byte(`{"message":{"role":"assistant","content":"回复"}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	p := NewOllamaProvider(settings(srv.URL, "", "qwen2"))
	fp := 0.5
	out, err := p.GenerateText(context.Background(), "hi", service.GenerateOptions{FrequencyPenalty: &fp})
	require.NoError(t, err)
	assert.Equal(t, "<think>r</think>生成", out)

	maxTokens := 300
	out, err = p.ChatComplete(context.Background(), []service.Message{{Role: "user", Content: "hi"}}, service.GenerateOptions{MaxTokens: &maxTokens})
	require.NoError(t, err)
	assert.Equal(t, "回复", out)
}

func TestOllamaCatalog(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/tags":
			_, _ = w.Write([]byte(`{"models":[{"name":"qwen2:7b","size":4100000000,"modified_at":"2024-05-01T00:00:00Z","digest":"abc","details":{"family":"qwen2"}},{"name":"llama3"}]}`))
		case "/api/show":
			body := decodeBody(t, r)
			if body["name"] != "qwen2:7b" {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			_, _ = w.Write([]byte(`{"modelfile":"FROM qwen2","parameters":"stop <|im_end|>"}`))
		}
	}))
	defer srv.Close()

	p := NewOllamaProvider(settings(srv.URL, "", "qwen2"))
	assert.True(t, p.CheckConnection(context.Background()))

	models, err := p.ListModels(context.Background())
	require.NoError(t, err)
	require.Len(t, models, 2)
	assert.Equal(t, "qwen2:7b", models[0].Name)
	assert.Equal(t, int64(4100000000), models[0].Size)
	assert.Equal(t, "qwen2", models[0].Details["family"])
	assert.NotNil(t, models[1].Details)

	info, err := p.ModelInfo(context.Background(), "qwen2:7b")
	require.NoError(t, err)
	assert.Equal(t, "FROM qwen2", info["modelfile"])

	_, err = p.ModelInfo(context.Background(), "missing")
	assert.True(t, errors.IsUpstream(err))
}

func TestOllamaUnreachableIsTransport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	p := NewOllamaProvider(settings(url, "", "qwen2"))
	assert.False(t, p.CheckConnection(context.Background()))
	_, err := p.GenerateText(context.Background(), "hi", service.GenerateOptions{})
	assert.True(t, errors.IsTransport(err))
}

func TestFactoryBuild(t *testing.T) {
	f := NewFactory()
	ctx := context.Background()

	p, err := f.Build(ctx, service.ProviderOllama, settings("http://localhost:11434", "", "m"))
	require.NoError(t, err)
	assert.Equal(t, service.ProviderOllama, p.ID())

	_, err = f.Build(ctx, service.ProviderGoogle, settings("https://x", "", "m"))
	assert.True(t, errors.IsConfiguration(err))

	_, err = f.Build(ctx, service.ProviderID("bard"), settings("", "", ""))
	assert.True(t, errors.IsConfiguration(err))
}

func TestFlattenMessages(t *testing.T) {
	assert.Equal(t, "user: a\nassistant: b", flattenMessages([]service.Message{
		{Role: "user", Content: "a"},
		{Role: "assistant", Content: "b"},
	}))
}
