package handler

import (
	"context"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"novel-assistant/internal/application/gateway"
	"novel-assistant/internal/application/thinking"
	"novel-assistant/internal/domain/service"
	"novel-assistant/internal/interfaces/http/dto"
	"novel-assistant/pkg/logger"
)

const (
	defaultOllamaURL   = "http://localhost:11434"
	defaultOllamaModel = "mollysama/rwkv-7-g1:0.4B"
)

// AIGateway AI 处理器依赖的网关能力
type AIGateway interface {
	AvailableProviders() []service.ProviderID
	CurrentProvider() service.ProviderID
	SwitchProvider(ctx context.Context, id service.ProviderID) error
	UpdateProviderConfig(ctx context.Context, id service.ProviderID, patch service.ProviderSettingsPatch) error
	GetProviderConfig(id service.ProviderID) (service.ProviderSettings, error)
	CheckConnection(ctx context.Context) bool
	Status(ctx context.Context) gateway.Status
	ChatWithThinking(ctx context.Context, messages []service.Message, opts service.GenerateOptions) (thinking.Result, error)
	GenerateWithThinking(ctx context.Context, prompt string, opts service.GenerateOptions) (thinking.Result, error)
	ListOllamaModels(ctx context.Context) []service.OllamaModel
	GetOllamaModelInfo(ctx context.Context, name string) map[string]any
	ProbeOllama(ctx context.Context) (string, []service.OllamaModel, error)
}

// AIHandler AI 助手处理器
type AIHandler struct {
	gw AIGateway
}

// NewAIHandler 创建 AI 助手处理器
func NewAIHandler(gw AIGateway) *AIHandler {
	return &AIHandler{gw: gw}
}

// ListProviders 获取供应商列表
// @Summary 获取 AI 供应商列表
// @Tags AI
// @Produce json
// @Router /api/v1/ai/providers [get]
func (h *AIHandler) ListProviders(c *gin.Context) {
	dto.Success(c, dto.ProvidersResponse{
		Providers: h.gw.AvailableProviders(),
		Current:   h.gw.CurrentProvider(),
	})
}

// SwitchProvider 切换供应商
// @Summary 切换 AI 供应商
// @Tags AI
// @Accept json
// @Produce json
// @Router /api/v1/ai/switch-provider [post]
func (h *AIHandler) SwitchProvider(c *gin.Context) {
	var req dto.SwitchProviderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	if err := h.gw.SwitchProvider(c.Request.Context(), service.ProviderID(req.Provider)); err != nil {
		respondError(c, "切换AI提供商失败", err)
		return
	}
	dto.Success(c, gin.H{"message": "已切换到 " + req.Provider, "provider": req.Provider})
}

// UpdateConfig 更新供应商配置
// @Summary 更新 AI 供应商配置
// @Tags AI
// @Accept json
// @Produce json
// @Router /api/v1/ai/config [post]
func (h *AIHandler) UpdateConfig(c *gin.Context) {
	var req dto.ConfigUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	if err := h.gw.UpdateProviderConfig(c.Request.Context(), service.ProviderID(req.Provider), req.Config.ToPatch()); err != nil {
		respondError(c, "更新AI配置失败", err)
		return
	}
	dto.Success(c, gin.H{"message": req.Provider + " 配置已更新", "provider": req.Provider})
}

// GetConfig 获取隐藏密钥后的供应商配置
// @Summary 获取 AI 供应商配置
// @Tags AI
// @Produce json
// @Router /api/v1/ai/config/{provider} [get]
func (h *AIHandler) GetConfig(c *gin.Context) {
	provider := c.Param("provider")
	cfg, err := h.gw.GetProviderConfig(service.ProviderID(provider))
	if err != nil {
		respondError(c, "获取AI配置失败", err)
		return
	}
	dto.Success(c, gin.H{"provider": provider, "config": dto.NewProviderConfigResponse(cfg)})
}

// Status 获取 AI 服务状态
// @Summary 获取 AI 服务状态
// @Tags AI
// @Produce json
// @Router /api/v1/ai/status [get]
func (h *AIHandler) Status(c *gin.Context) {
	dto.Success(c, h.gw.Status(c.Request.Context()))
}

// OllamaModels 获取本地模型列表，为空时附带排查建议
// @Summary 获取 Ollama 模型列表
// @Tags AI
// @Produce json
// @Router /api/v1/ai/ollama/models [get]
func (h *AIHandler) OllamaModels(c *gin.Context) {
	models := h.gw.ListOllamaModels(c.Request.Context())
	if len(models) == 0 {
		dto.Success(c, dto.OllamaModelsResponse{
			Models:  models,
			Status:  "warning",
			Message: "未检测到本地Ollama模型",
			Suggestions: []string{
				"请确保Ollama服务正在运行: ollama serve",
				"检查Ollama服务地址配置 (默认: " + defaultOllamaURL + ")",
				"下载默认模型: ollama pull " + defaultOllamaModel,
				"查看可用模型: ollama list",
				"检查防火墙是否阻止端口11434",
			},
		})
		return
	}

	resp := dto.OllamaModelsResponse{
		Models:  models,
		Count:   len(models),
		Status:  "success",
		Message: fmt.Sprintf("成功检测到 %d 个本地模型", len(models)),
	}
	hasDefault := false
	for _, m := range models {
		if m.Name == defaultOllamaModel {
			hasDefault = true
			break
		}
	}
	if !hasDefault {
		resp.Suggestions = []string{"建议下载默认模型: ollama pull " + defaultOllamaModel}
	}
	dto.Success(c, resp)
}

// OllamaTestConnection 测试 Ollama 连接
// @Summary 测试 Ollama 连接
// @Tags AI
// @Produce json
// @Router /api/v1/ai/ollama/test-connection [get]
func (h *AIHandler) OllamaTestConnection(c *gin.Context) {
	baseURL, models, err := h.gw.ProbeOllama(c.Request.Context())
	if baseURL == "" {
		baseURL = defaultOllamaURL
	}
	if err != nil {
		logger.Warn(c.Request.Context(), "ollama connection test failed", "error", err.Error())
		dto.Success(c, dto.OllamaConnectionResponse{
			Status:      "error",
			Message:     "无法连接到Ollama服务: " + err.Error(),
			ServiceURL:  baseURL,
			Suggestions: ollamaSuggestions(err.Error()),
		})
		return
	}

	names := make([]string, 0, 5)
	for i, m := range models {
		if i == 5 {
			break
		}
		names = append(names, m.Name)
	}
	dto.Success(c, dto.OllamaConnectionResponse{
		Status:      "success",
		Connected:   true,
		Message:     "Ollama连接正常",
		ServiceURL:  baseURL,
		ModelsCount: len(models),
		Models:      names,
	})
}

// ollamaSuggestions 根据错误信息给出排查建议
func ollamaSuggestions(msg string) []string {
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "connection refused") || strings.Contains(lower, "connect"):
		return []string{
			"Ollama服务未启动，请运行: ollama serve",
			"检查Ollama是否已安装: ollama --version",
			"检查端口11434是否被占用",
		}
	case strings.Contains(lower, "timeout") || strings.Contains(lower, "deadline"):
		return []string{
			"连接超时，请检查Ollama服务状态",
			"重启Ollama服务: 先停止再运行 ollama serve",
		}
	case strings.Contains(lower, "404"):
		return []string{
			"API端点不存在，请检查Ollama版本",
			"更新Ollama到最新版本",
		}
	default:
		return []string{
			"启动Ollama服务: ollama serve",
			"下载模型: ollama pull " + defaultOllamaModel,
			"检查防火墙设置",
		}
	}
}

// OllamaModelInfo 获取模型详情
// @Summary 获取 Ollama 模型详情
// @Tags AI
// @Produce json
// @Router /api/v1/ai/ollama/models/{name} [get]
func (h *AIHandler) OllamaModelInfo(c *gin.Context) {
	name := c.Param("name")
	info := h.gw.GetOllamaModelInfo(c.Request.Context(), name)
	if info == nil {
		dto.NotFound(c, "模型 "+name+" 不存在")
		return
	}
	dto.Success(c, gin.H{"model": info, "status": "success"})
}

// ensureConnected 调用前检查激活供应商的连通性，失败时返回 503
func (h *AIHandler) ensureConnected(c *gin.Context) bool {
	if h.gw.CheckConnection(c.Request.Context()) {
		return true
	}
	dto.ServiceUnavailable(c, fmt.Sprintf("AI服务 (%s) 连接失败，请检查配置和网络连接", h.gw.CurrentProvider()))
	return false
}

// Chat AI 对话
// @Summary AI 对话
// @Tags AI
// @Accept json
// @Produce json
// @Router /api/v1/ai/chat [post]
func (h *AIHandler) Chat(c *gin.Context) {
	var req dto.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	if !h.ensureConnected(c) {
		return
	}

	ctx := service.WithOperation(c.Request.Context(), "chat")
	result, err := h.gw.ChatWithThinking(ctx, req.ServiceMessages(), req.Options())
	if err != nil {
		respondError(c, "AI聊天对话失败", err)
		return
	}
	dto.Success(c, dto.ChatResponse{
		Response:    result.Content,
		Thinking:    result.Thinking,
		RawResponse: result.RawResponse,
		Provider:    string(h.gw.CurrentProvider()),
		Status:      "success",
	})
}

// Generate 返回按生成类型包装提示词的处理函数
func (h *AIHandler) Generate(kind gateway.GenerationKind, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.GenerateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			dto.BadRequest(c, "invalid request body: "+err.Error())
			return
		}
		if !h.ensureConnected(c) {
			return
		}

		prompt, ok := gateway.BuildPrompt(kind, req.Prompt)
		if !ok {
			logger.Error(c.Request.Context(), "generation kind has no prompt template", nil, "kind", kind)
			dto.InternalError(c, "未知的生成类型: "+string(kind))
			return
		}
		ctx := service.WithOperation(c.Request.Context(), string(kind))
		result, err := h.gw.GenerateWithThinking(ctx, prompt, req.Options())
		if err != nil {
			respondError(c, action, err)
			return
		}
		dto.Success(c, dto.GenerateResponse{
			Content:     result.Content,
			Thinking:    result.Thinking,
			RawResponse: result.RawResponse,
			Type:        string(kind),
			Provider:    string(h.gw.CurrentProvider()),
			Status:      "success",
		})
	}
}
