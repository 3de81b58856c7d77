package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"novel-assistant/internal/application/aicontext"
	"novel-assistant/internal/application/gateway"
	"novel-assistant/internal/application/projectdata"
	"novel-assistant/internal/application/thinking"
	"novel-assistant/internal/config"
	"novel-assistant/internal/domain/entity"
	"novel-assistant/internal/domain/service"
	"novel-assistant/internal/infrastructure/persistence/postgres"
	"novel-assistant/internal/infrastructure/persistence/redis"
	"novel-assistant/internal/interfaces/http/handler"
	"novel-assistant/internal/interfaces/http/middleware"
	"novel-assistant/pkg/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeGateway struct {
	connected  bool
	current    service.ProviderID
	lastPrompt string
	lastOpts   service.GenerateOptions
	models     []service.OllamaModel
	configs    map[service.ProviderID]service.ProviderSettings
}

func (f *fakeGateway) AvailableProviders() []service.ProviderID { return service.KnownProviders() }
func (f *fakeGateway) CurrentProvider() service.ProviderID       { return f.current }

func (f *fakeGateway) SwitchProvider(_ context.Context, id service.ProviderID) error {
	if id != service.ProviderOllama && id != service.ProviderClaude {
		return errors.Configuration("不支持的AI提供商: %s", id)
	}
	f.current = id
	return nil
}

func (f *fakeGateway) UpdateProviderConfig(_ context.Context, id service.ProviderID, patch service.ProviderSettingsPatch) error {
	if f.configs == nil {
		f.configs = make(map[service.ProviderID]service.ProviderSettings)
	}
	f.configs[id] = patch.Apply(f.configs[id])
	return nil
}

func (f *fakeGateway) GetProviderConfig(id service.ProviderID) (service.ProviderSettings, error) {
	cfg, ok := f.configs[id]
	if !ok {
		return service.ProviderSettings{Model: "m"}, nil
	}
	return cfg.Masked(), nil
}

func (f *fakeGateway) CheckConnection(context.Context) bool { return f.connected }

func (f *fakeGateway) Status(context.Context) gateway.Status {
	return gateway.Status{Provider: f.current, Connected: f.connected}
}

func (f *fakeGateway) ChatWithThinking(_ context.Context, messages []service.Message, _ service.GenerateOptions) (thinking.Result, error) {
	return thinking.Split("<think>hmm</think>hi " + messages[len(messages)-1].Content), nil
}

func (f *fakeGateway) GenerateWithThinking(_ context.Context, prompt string, opts service.GenerateOptions) (thinking.Result, error) {
	f.lastPrompt = prompt
	f.lastOpts = opts
	return thinking.Split("generated"), nil
}

func (f *fakeGateway) ListOllamaModels(context.Context) []service.OllamaModel { return f.models }

func (f *fakeGateway) GetOllamaModelInfo(_ context.Context, name string) map[string]any {
	for _, m := range f.models {
		if m.Name == name {
			return map[string]any{"name": name}
		}
	}
	return nil
}

func (f *fakeGateway) ProbeOllama(context.Context) (string, []service.OllamaModel, error) {
	return "http://localhost:11434", f.models, nil
}

type testServer struct {
	engine *gin.Engine
	gw     *fakeGateway
	svc    *projectdata.Service
}

func newTestServer(t *testing.T, limiter middleware.RateLimiter, rateLimit config.RateLimitConfig) *testServer {
	t.Helper()
	client, err := postgres.NewClient(&config.DatabaseConfig{
		Driver: postgres.DriverSQLite,
		SQLite: config.SQLiteConfig{Path: ":memory:"},
	})
	require.NoError(t, err)
	registry := entity.DefaultRegistry()
	require.NoError(t, client.AutoMigrate(context.Background(), registry))
	t.Cleanup(func() { _ = client.Close() })

	store := postgres.NewEntityStore(client, postgres.NewTxManager(client))
	svc := projectdata.NewService(registry, postgres.NewProjectRepository(client), store, nil)
	gw := &fakeGateway{connected: true, current: service.ProviderOllama}

	cfg := &config.Config{}
	cfg.App.Name = "novel-assistant-test"
	cfg.Session.Header = middleware.DefaultSessionHeader
	cfg.Security.RateLimit = rateLimit

	r := New(cfg, &Handlers{
		Health:    handler.NewHealthHandler(client, nil),
		AI:        handler.NewAIHandler(gw),
		AIContext: handler.NewAIContextHandler(),
		Project:   handler.NewProjectHandler(svc),
	}, aicontext.NewSessionStore(svc, nil, time.Hour), limiter)

	return &testServer{engine: r.Engine(), gw: gw, svc: svc}
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (s *testServer) do(t *testing.T, method, path string, body any, headers ...string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		_ = json.Unmarshal(w.Body.Bytes(), &env)
	}
	return w, env
}

func (s *testServer) project(t *testing.T, name string) int64 {
	t.Helper()
	w, env := s.do(t, http.MethodPost, "/api/v1/projects", map[string]any{"name": name})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var p struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &p))
	return p.ID
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(t, nil, config.RateLimitConfig{})

	for _, p := range []string{"/health", "/live", "/ready"} {
		w, _ := s.do(t, http.MethodGet, p, nil)
		assert.Equal(t, http.StatusOK, w.Code, p)
	}
}

func TestProjectDataCRUD(t *testing.T) {
	s := newTestServer(t, nil, config.RateLimitConfig{})
	pid := s.project(t, "novel")

	w, env := s.do(t, http.MethodPost, fmt.Sprintf("/api/v1/projects/%d/data/character", pid), map[string]any{"name": "Alice"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &created))
	itemID := int64(created["id"].(float64))

	w, env = s.do(t, http.MethodGet, fmt.Sprintf("/api/v1/projects/%d/data/character", pid), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Equal(t, 1, list.Count)

	w, _ = s.do(t, http.MethodPut, fmt.Sprintf("/api/v1/projects/%d/data/character/%d", pid, itemID), map[string]any{"nickname": "Al"})
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = s.do(t, http.MethodPut, fmt.Sprintf("/api/v1/projects/%d/data/character/%d", pid, 99999), map[string]any{"nickname": "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = s.do(t, http.MethodGet, fmt.Sprintf("/api/v1/projects/%d/data/dragon", pid), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = s.do(t, http.MethodGet, fmt.Sprintf("/api/v1/projects/%d/data", 99999), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, env = s.do(t, http.MethodGet, fmt.Sprintf("/api/v1/projects/%d/statistics", pid), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stats map[string]int64
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.EqualValues(t, 1, stats["character"])

	w, _ = s.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/projects/%d/data/character/%d", pid, itemID), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = s.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/projects/%d/data/character/%d", pid, itemID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = s.do(t, http.MethodGet, "/api/v1/projects/abc/data", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCopyAndClear(t *testing.T) {
	s := newTestServer(t, nil, config.RateLimitConfig{})
	src := s.project(t, "src")
	dst := s.project(t, "dst")

	for _, name := range []string{"A", "B"} {
		w, _ := s.do(t, http.MethodPost, fmt.Sprintf("/api/v1/projects/%d/data/character", src), map[string]any{"name": name})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w, env := s.do(t, http.MethodPost, fmt.Sprintf("/api/v1/projects/%d/copy-to/%d?types=character", src, dst), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var result projectdata.BulkResult
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.True(t, result.Success)
	assert.EqualValues(t, 2, result.Affected["character"])

	w, _ = s.do(t, http.MethodPost, fmt.Sprintf("/api/v1/projects/%d/copy-to/%d", src, 99999), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = s.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/projects/%d/data?types=character", dst), nil)
	require.Equal(t, http.StatusOK, w.Code)

	rows, err := s.svc.GetOne(context.Background(), dst, "character")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestAIContextPerSession(t *testing.T) {
	s := newTestServer(t, nil, config.RateLimitConfig{})
	pid := s.project(t, "novel")

	w, _ := s.do(t, http.MethodGet, "/api/v1/ai/current-project", nil, "X-Session-ID", "a")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = s.do(t, http.MethodPost, fmt.Sprintf("/api/v1/ai/set-project/%d", 99999), nil, "X-Session-ID", "a")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = s.do(t, http.MethodPost, fmt.Sprintf("/api/v1/ai/set-project/%d", pid), nil, "X-Session-ID", "a")
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = s.do(t, http.MethodGet, "/api/v1/ai/current-project", nil, "X-Session-ID", "a")
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = s.do(t, http.MethodGet, "/api/v1/ai/current-project", nil, "X-Session-ID", "b")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = s.do(t, http.MethodPost, "/api/v1/ai/write-data/character", map[string]any{"name": "Zed"}, "X-Session-ID", "a")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, _ = s.do(t, http.MethodPost, "/api/v1/ai/write-data/character?operation=update", map[string]any{"name": "Zed"}, "X-Session-ID", "a")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env := s.do(t, http.MethodPost, "/api/v1/ai/search", map[string]any{"query": "zed"}, "X-Session-ID", "a")
	require.Equal(t, http.StatusOK, w.Code)
	var found struct {
		Results map[string][]map[string]any `json:"results"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &found))
	assert.Len(t, found.Results["character"], 1)

	w, env = s.do(t, http.MethodGet, "/api/v1/ai/operation-log?limit=10", nil, "X-Session-ID", "a")
	require.Equal(t, http.StatusOK, w.Code)
	var logs struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &logs))
	assert.Positive(t, logs.Count)

	w, _ = s.do(t, http.MethodDelete, "/api/v1/ai/operation-log", nil, "X-Session-ID", "a")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAIRoutes(t *testing.T) {
	s := newTestServer(t, nil, config.RateLimitConfig{})

	w, _ := s.do(t, http.MethodPost, "/api/v1/ai/switch-provider", map[string]any{"provider": "nope"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = s.do(t, http.MethodPost, "/api/v1/ai/switch-provider", map[string]any{"provider": "claude"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, service.ProviderClaude, s.gw.current)

	w, env := s.do(t, http.MethodPost, "/api/v1/ai/chat", map[string]any{
		"messages": []map[string]any{{"role": "user", "content": "there"}},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var chat struct {
		Response string  `json:"response"`
		Thinking *string `json:"thinking"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &chat))
	assert.Equal(t, "hi there", chat.Response)
	require.NotNil(t, chat.Thinking)
	assert.Equal(t, "hmm", *chat.Thinking)

	w, _ = s.do(t, http.MethodPost, "/api/v1/ai/generate-character", map[string]any{"prompt": "剑客"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, s.gw.lastPrompt, "剑客")

	s.gw.connected = false
	w, _ = s.do(t, http.MethodPost, "/api/v1/ai/generate-plot", map[string]any{"prompt": "x"})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestAIConfigTimeoutInSeconds(t *testing.T) {
	s := newTestServer(t, nil, config.RateLimitConfig{})

	w, _ := s.do(t, http.MethodPost, "/api/v1/ai/config", map[string]any{
		"provider": "openai",
		"config":   map[string]any{"timeout": 60, "api_key": "sk-abcdef1234"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 60*time.Second, s.gw.configs[service.ProviderOpenAI].Timeout)

	w, env := s.do(t, http.MethodGet, "/api/v1/ai/config/openai", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got struct {
		Config struct {
			APIKey  string `json:"api_key"`
			Timeout int    `json:"timeout"`
		} `json:"config"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, 60, got.Config.Timeout)
	assert.Equal(t, "***1234", got.Config.APIKey)

	w, _ = s.do(t, http.MethodPost, "/api/v1/ai/config", map[string]any{
		"provider": "openai",
		"config":   map[string]any{"timeout": 0},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 60*time.Second, s.gw.configs[service.ProviderOpenAI].Timeout)
}

func TestGenerateKeepsZeroTemperature(t *testing.T) {
	s := newTestServer(t, nil, config.RateLimitConfig{})

	w, _ := s.do(t, http.MethodPost, "/api/v1/ai/generate-setting", map[string]any{"prompt": "x", "temperature": 0})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NotNil(t, s.gw.lastOpts.Temperature)
	assert.Zero(t, *s.gw.lastOpts.Temperature)
	assert.Nil(t, s.gw.lastOpts.MaxTokens)

	w, _ = s.do(t, http.MethodPost, "/api/v1/ai/generate-setting", map[string]any{"prompt": "x"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, s.gw.lastOpts.Temperature)
}

func TestGenerateUnknownKind(t *testing.T) {
	gw := &fakeGateway{connected: true, current: service.ProviderOllama}
	r := gin.New()
	r.POST("/gen", handler.NewAIHandler(gw).Generate(gateway.GenerationKind("poem"), "生成失败"))

	req := httptest.NewRequest(http.MethodPost, "/gen", bytes.NewReader([]byte(`{"prompt":"x"}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Empty(t, gw.lastPrompt)
}

func TestOllamaModelNameWithSlash(t *testing.T) {
	s := newTestServer(t, nil, config.RateLimitConfig{})
	s.gw.models = []service.OllamaModel{{Name: "mollysama/rwkv-7-g1:0.4B"}}

	w, _ := s.do(t, http.MethodGet, "/api/v1/ai/ollama/models/mollysama%2Frwkv-7-g1:0.4B", nil)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, _ = s.do(t, http.MethodGet, "/api/v1/ai/ollama/models/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRateLimitOnLLMRoutes(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClientFromRedis(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))
	s := newTestServer(t, redis.NewRateLimiter(client), config.RateLimitConfig{Enabled: true, RequestsPerSecond: 1})

	body := map[string]any{"prompt": "x"}
	w, _ := s.do(t, http.MethodPost, "/api/v1/ai/generate-setting", body, "X-Session-ID", "writer")
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = s.do(t, http.MethodPost, "/api/v1/ai/generate-setting", body, "X-Session-ID", "writer")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	// 非 LLM 路由不受限
	for i := 0; i < 3; i++ {
		w, _ = s.do(t, http.MethodGet, "/api/v1/ai/providers", nil, "X-Session-ID", "writer")
		assert.Equal(t, http.StatusOK, w.Code)
	}
}
