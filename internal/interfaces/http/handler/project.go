package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"novel-assistant/internal/application/projectdata"
	"novel-assistant/internal/domain/entity"
	"novel-assistant/internal/domain/repository"
	"novel-assistant/internal/interfaces/http/dto"
)

// ProjectHandler 项目与项目数据处理器
type ProjectHandler struct {
	svc *projectdata.Service
}

// NewProjectHandler 创建项目处理器
func NewProjectHandler(svc *projectdata.Service) *ProjectHandler {
	return &ProjectHandler{svc: svc}
}

// ListProjects 获取项目列表
// @Summary 获取项目列表
// @Tags Projects
// @Produce json
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页条数" default(20)
// @Router /api/v1/projects [get]
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	pageReq := dto.BindPage(c)
	filter := &repository.ProjectFilter{
		Status:      entity.ProjectStatus(c.Query("status")),
		ProjectType: entity.ProjectType(c.Query("project_type")),
		Keyword:     strings.TrimSpace(c.Query("keyword")),
	}

	result, err := h.svc.ListProjects(c.Request.Context(), filter, pageReq.Page, pageReq.PageSize)
	if err != nil {
		respondError(c, "获取项目列表失败", err)
		return
	}

	meta := dto.NewPageMeta(result.Page, result.PageSize, int(result.Total))
	dto.SuccessWithPage(c, dto.ProjectListResponse{Projects: result.Items}, meta)
}

// CreateProject 创建项目
// @Summary 创建项目
// @Tags Projects
// @Accept json
// @Produce json
// @Param body body dto.CreateProjectRequest true "项目信息"
// @Router /api/v1/projects [post]
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	var req dto.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	project, err := h.svc.CreateProject(c.Request.Context(), req.ToInput())
	if err != nil {
		respondError(c, "创建项目失败", err)
		return
	}
	dto.Created(c, project)
}

// GetProject 获取项目详情
// @Summary 获取项目详情
// @Tags Projects
// @Produce json
// @Param id path int true "项目 ID"
// @Router /api/v1/projects/{id} [get]
func (h *ProjectHandler) GetProject(c *gin.Context) {
	id, ok := bindID(c, "id")
	if !ok {
		return
	}

	project, err := h.svc.GetProject(c.Request.Context(), id)
	if err != nil {
		respondError(c, "获取项目失败", err)
		return
	}
	dto.Success(c, project)
}

// DeleteProject 软删除项目
// @Summary 删除项目
// @Tags Projects
// @Param id path int true "项目 ID"
// @Router /api/v1/projects/{id} [delete]
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	id, ok := bindID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.DeleteProject(c.Request.Context(), id); err != nil {
		respondError(c, "删除项目失败", err)
		return
	}
	dto.NoContent(c)
}

// GetAllData 获取项目下全部类型的数据
// @Summary 获取项目全部数据
// @Tags ProjectData
// @Produce json
// @Router /api/v1/projects/{id}/data [get]
func (h *ProjectHandler) GetAllData(c *gin.Context) {
	id, ok := bindID(c, "id")
	if !ok {
		return
	}

	data, err := h.svc.GetAll(c.Request.Context(), id)
	if err != nil {
		respondError(c, "获取项目数据失败", err)
		return
	}
	dto.Success(c, data)
}

// GetData 获取项目下某一类型的数据
// @Summary 获取项目某类数据
// @Tags ProjectData
// @Produce json
// @Router /api/v1/projects/{id}/data/{type} [get]
func (h *ProjectHandler) GetData(c *gin.Context) {
	id, ok := bindID(c, "id")
	if !ok {
		return
	}
	dataType := c.Param("type")

	rows, err := h.svc.GetOne(c.Request.Context(), id, dataType)
	if err != nil {
		respondError(c, "获取项目数据失败", err)
		return
	}
	dto.Success(c, gin.H{"data_type": dataType, "items": rows, "count": len(rows)})
}

// CreateData 创建记录
// @Summary 创建项目数据
// @Tags ProjectData
// @Accept json
// @Produce json
// @Router /api/v1/projects/{id}/data/{type} [post]
func (h *ProjectHandler) CreateData(c *gin.Context) {
	id, ok := bindID(c, "id")
	if !ok {
		return
	}
	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	record, err := h.svc.Create(c.Request.Context(), id, c.Param("type"), body)
	if err != nil {
		respondError(c, "创建项目数据失败", err)
		return
	}
	dto.Created(c, record)
}

// UpdateData 更新记录
// @Summary 更新项目数据
// @Tags ProjectData
// @Accept json
// @Produce json
// @Router /api/v1/projects/{id}/data/{type}/{item} [put]
func (h *ProjectHandler) UpdateData(c *gin.Context) {
	id, ok := bindID(c, "id")
	if !ok {
		return
	}
	itemID, ok := bindID(c, "item")
	if !ok {
		return
	}
	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	record, err := h.svc.Update(c.Request.Context(), id, c.Param("type"), itemID, body)
	if err != nil {
		respondError(c, "更新项目数据失败", err)
		return
	}
	if record == nil {
		dto.NotFound(c, "记录不存在")
		return
	}
	dto.Success(c, record)
}

// DeleteData 删除记录
// @Summary 删除项目数据
// @Tags ProjectData
// @Router /api/v1/projects/{id}/data/{type}/{item} [delete]
func (h *ProjectHandler) DeleteData(c *gin.Context) {
	id, ok := bindID(c, "id")
	if !ok {
		return
	}
	itemID, ok := bindID(c, "item")
	if !ok {
		return
	}

	deleted, err := h.svc.Delete(c.Request.Context(), id, c.Param("type"), itemID)
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

// Statistics 项目数据统计
// @Summary 项目数据统计
// @Tags ProjectData
// @Produce json
// @Router /api/v1/projects/{id}/statistics [get]
func (h *ProjectHandler) Statistics(c *gin.Context) {
	id, ok := bindID(c, "id")
	if !ok {
		return
	}
	if _, err := h.svc.GetProject(c.Request.Context(), id); err != nil {
		respondError(c, "获取项目统计失败", err)
		return
	}

	stats, err := h.svc.Statistics(c.Request.Context(), id)
	if err != nil {
		respondError(c, "获取项目统计失败", err)
		return
	}
	dto.Success(c, stats)
}

// ClearData 清空项目数据，types 为空时清空全部类型
// @Summary 清空项目数据
// @Tags ProjectData
// @Param types query string false "逗号分隔的数据类型"
// @Router /api/v1/projects/{id}/data [delete]
func (h *ProjectHandler) ClearData(c *gin.Context) {
	id, ok := bindID(c, "id")
	if !ok {
		return
	}
	if _, err := h.svc.GetProject(c.Request.Context(), id); err != nil {
		respondError(c, "清空项目数据失败", err)
		return
	}

	respondBulk(c, "清空项目数据部分失败", h.svc.Clear(c.Request.Context(), id, dto.BindTypes(c)))
}

// CopyData 复制项目数据到另一个项目
// @Summary 复制项目数据
// @Tags ProjectData
// @Param types query string false "逗号分隔的数据类型"
// @Router /api/v1/projects/{src}/copy-to/{dst} [post]
func (h *ProjectHandler) CopyData(c *gin.Context) {
	src, ok := bindID(c, "id")
	if !ok {
		return
	}
	dst, ok := bindID(c, "dst")
	if !ok {
		return
	}

	result, err := h.svc.Copy(c.Request.Context(), src, dst, dto.BindTypes(c))
	if err != nil {
		respondError(c, "复制项目数据失败", err)
		return
	}
	respondBulk(c, "复制项目数据部分失败", result)
}

// respondBulk 部分失败时返回 500，响应体仍带已完成部分的结果
func respondBulk(c *gin.Context, failMessage string, result *projectdata.BulkResult) {
	if result.Success {
		dto.Success(c, result)
		return
	}
	c.JSON(http.StatusInternalServerError, dto.Response[*projectdata.BulkResult]{
		Code:    http.StatusInternalServerError,
		Message: failMessage,
		Data:    result,
		TraceID: c.GetString("trace_id"),
	})
}

// ValidateData 项目数据完整性检查
// @Summary 项目数据完整性检查
// @Tags ProjectData
// @Produce json
// @Router /api/v1/projects/{id}/validate [get]
func (h *ProjectHandler) ValidateData(c *gin.Context) {
	id, ok := bindID(c, "id")
	if !ok {
		return
	}

	report, err := h.svc.ValidateIntegrity(c.Request.Context(), id)
	if err != nil {
		respondError(c, "项目数据校验失败", err)
		return
	}
	dto.Success(c, report)
}
