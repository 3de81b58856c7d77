// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"novel-assistant/internal/domain/entity"
)

// ProjectFilter 项目过滤条件
type ProjectFilter struct {
	Status      entity.ProjectStatus
	ProjectType entity.ProjectType
	Keyword     string
}

// ProjectRepository 项目仓储接口，所有读取都排除已软删除的项目
type ProjectRepository interface {
	// Create 创建项目
	Create(ctx context.Context, project *entity.Project) error

	// GetByID 根据 ID 获取未删除的项目，不存在时返回 nil
	GetByID(ctx context.Context, id int64) (*entity.Project, error)

	// Exists 项目存在且未被软删除
	Exists(ctx context.Context, id int64) (bool, error)

	// List 获取项目列表
	List(ctx context.Context, filter *ProjectFilter, pagination Pagination) (*PagedResult[*entity.Project], error)

	// SoftDelete 软删除项目，不存在时返回 false
	SoftDelete(ctx context.Context, id int64) (bool, error)
}
