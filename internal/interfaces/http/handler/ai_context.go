package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"novel-assistant/internal/application/aicontext"
	"novel-assistant/internal/interfaces/http/dto"
	"novel-assistant/internal/interfaces/http/middleware"
	"novel-assistant/pkg/errors"
)

// AIContextHandler AI 项目上下文处理器，每个会话持有独立的当前项目
type AIContextHandler struct{}

// NewAIContextHandler 创建 AI 项目上下文处理器
func NewAIContextHandler() *AIContextHandler {
	return &AIContextHandler{}
}

func (h *AIContextHandler) session(c *gin.Context) (*aicontext.Context, bool) {
	ac := middleware.GetAIContext(c)
	if ac == nil {
		dto.InternalError(c, "AI session not configured")
		return nil, false
	}
	return ac, true
}

// SetProject 设置当前项目
// @Summary 设置 AI 当前项目
// @Tags AIContext
// @Router /api/v1/ai/set-project/{id} [post]
func (h *AIContextHandler) SetProject(c *gin.Context) {
	ac, ok := h.session(c)
	if !ok {
		return
	}
	id, ok := bindID(c, "id")
	if !ok {
		return
	}

	if !ac.SetCurrentProject(c.Request.Context(), id) {
		respondError(c, "设置当前项目失败", errors.ProjectNotFound(id))
		return
	}
	dto.Success(c, gin.H{"project_id": id, "message": "当前项目已设置"})
}

// CurrentProject 获取当前项目
// @Summary 获取 AI 当前项目
// @Tags AIContext
// @Router /api/v1/ai/current-project [get]
func (h *AIContextHandler) CurrentProject(c *gin.Context) {
	ac, ok := h.session(c)
	if !ok {
		return
	}
	id, set := ac.CurrentProjectID()
	if !set {
		dto.BadRequest(c, "未设置当前操作项目")
		return
	}
	dto.Success(c, gin.H{"project_id": id})
}

// ReadData 读取当前项目数据
// @Summary AI 读取项目数据
// @Tags AIContext
// @Param data_type query string false "数据类型，为空时读取全部"
// @Router /api/v1/ai/read-data [get]
func (h *AIContextHandler) ReadData(c *gin.Context) {
	ac, ok := h.session(c)
	if !ok {
		return
	}

	data, err := ac.Read(c.Request.Context(), c.Query("data_type"))
	if err != nil {
		respondError(c, "读取项目数据失败", err)
		return
	}
	dto.Success(c, data)
}

// WriteData 写入当前项目数据
// @Summary AI 写入项目数据
// @Tags AIContext
// @Param operation query string false "create 或 update"
// @Router /api/v1/ai/write-data/{type} [post]
func (h *AIContextHandler) WriteData(c *gin.Context) {
	ac, ok := h.session(c)
	if !ok {
		return
	}
	var body dto.WriteDataRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	operation := c.DefaultQuery("operation", aicontext.OperationCreate)
	record, err := ac.Write(c.Request.Context(), c.Param("type"), body, operation)
	if err != nil {
		respondError(c, "写入项目数据失败", err)
		return
	}
	dto.Success(c, record)
}

// BatchWrite 批量写入
// @Summary AI 批量写入项目数据
// @Tags AIContext
// @Router /api/v1/ai/batch-write [post]
func (h *AIContextHandler) BatchWrite(c *gin.Context) {
	ac, ok := h.session(c)
	if !ok {
		return
	}
	var req dto.BatchWriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	result, err := ac.BatchWrite(c.Request.Context(), req.Data)
	if err != nil {
		respondError(c, "批量写入失败", err)
		return
	}
	dto.Success(c, result)
}

// Search 搜索当前项目数据
// @Summary AI 搜索项目数据
// @Tags AIContext
// @Router /api/v1/ai/search [post]
func (h *AIContextHandler) Search(c *gin.Context) {
	ac, ok := h.session(c)
	if !ok {
		return
	}
	var req dto.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	results, err := ac.Search(c.Request.Context(), strings.TrimSpace(req.Query), req.DataTypes)
	if err != nil {
		respondError(c, "搜索项目数据失败", err)
		return
	}
	dto.Success(c, gin.H{"query": req.Query, "results": results})
}

// Context 当前项目上下文快照
// @Summary AI 项目上下文
// @Tags AIContext
// @Router /api/v1/ai/context [get]
func (h *AIContextHandler) Context(c *gin.Context) {
	ac, ok := h.session(c)
	if !ok {
		return
	}

	pc, err := ac.ProjectContext(c.Request.Context())
	if err != nil {
		respondError(c, "获取项目上下文失败", err)
		return
	}
	dto.Success(c, pc)
}

// ValidateOperation 操作预检
// @Summary AI 操作预检
// @Tags AIContext
// @Router /api/v1/ai/validate-operation [post]
func (h *AIContextHandler) ValidateOperation(c *gin.Context) {
	ac, ok := h.session(c)
	if !ok {
		return
	}
	var req dto.ValidateOperationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	dto.Success(c, ac.ValidateOperation(req.Operation, req.DataType, req.Data))
}

// DeleteData 删除当前项目下的记录
// @Summary AI 删除项目数据
// @Tags AIContext
// @Router /api/v1/ai/data/{type}/{item} [delete]
func (h *AIContextHandler) DeleteData(c *gin.Context) {
	ac, ok := h.session(c)
	if !ok {
		return
	}
	itemID, ok := bindID(c, "item")
	if !ok {
		return
	}

	deleted, err := ac.Delete(c.Request.Context(), c.Param("type"), itemID)
	if err != nil {
		respondError(c, "删除项目数据失败", err)
		return
	}
	if !deleted {
		dto.NotFound(c, "记录不存在")
		return
	}
	dto.Success(c, dto.DeletedResponse{Deleted: true})
}

// OperationLog 最近的 AI 操作日志
// @Summary AI 操作日志
// @Tags AIContext
// @Param limit query int false "条数" default(50)
// @Router /api/v1/ai/operation-log [get]
func (h *AIContextHandler) OperationLog(c *gin.Context) {
	ac, ok := h.session(c)
	if !ok {
		return
	}
	limit := dto.BindQueryInt(c, "limit", aicontext.DefaultLogLimit)
	entries := ac.OperationLog(limit)
	dto.Success(c, gin.H{"logs": entries, "count": len(entries)})
}

// ClearOperationLog 清空 AI 操作日志
// @Summary 清空 AI 操作日志
// @Tags AIContext
// @Router /api/v1/ai/operation-log [delete]
func (h *AIContextHandler) ClearOperationLog(c *gin.Context) {
	ac, ok := h.session(c)
	if !ok {
		return
	}
	ac.ClearOperationLog(c.Request.Context())
	dto.Success(c, gin.H{"message": "AI操作日志已清空"})
}
