package dto

import (
	"novel-assistant/internal/application/projectdata"
	"novel-assistant/internal/domain/entity"
)

// CreateProjectRequest 创建项目请求
type CreateProjectRequest struct {
	Name        string   `json:"name" binding:"required,max=255"`
	Title       string   `json:"title" binding:"max=500"`
	Author      string   `json:"author" binding:"max=100"`
	ProjectType string   `json:"project_type" binding:"omitempty,oneof=fantasy wuxia xianxia scifi modern historical romance mystery horror other"`
	Summary     string   `json:"summary"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

// ToInput 转换为应用层参数
func (r *CreateProjectRequest) ToInput() *projectdata.CreateProjectInput {
	return &projectdata.CreateProjectInput{
		Name:        r.Name,
		Title:       r.Title,
		Author:      r.Author,
		ProjectType: entity.ProjectType(r.ProjectType),
		Summary:     r.Summary,
		Description: r.Description,
		Tags:        r.Tags,
	}
}

// ProjectListResponse 项目列表响应
type ProjectListResponse struct {
	Projects []*entity.Project `json:"projects"`
}

// WriteDataRequest AI 写入请求体即记录本身
type WriteDataRequest map[string]any

// BatchWriteRequest AI 批量写入请求
type BatchWriteRequest struct {
	Data map[string][]map[string]any `json:"data" binding:"required"`
}

// SearchRequest AI 搜索请求
type SearchRequest struct {
	Query     string   `json:"query" binding:"required"`
	DataTypes []string `json:"data_types,omitempty"`
}

// ValidateOperationRequest AI 操作预检请求
type ValidateOperationRequest struct {
	Operation string         `json:"operation" binding:"required"`
	DataType  string         `json:"data_type" binding:"required"`
	Data      map[string]any `json:"data,omitempty"`
}

// DeletedResponse 删除结果
type DeletedResponse struct {
	Deleted bool `json:"deleted"`
}
