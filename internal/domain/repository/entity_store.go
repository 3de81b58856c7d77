package repository

import (
	"context"

	"novel-assistant/internal/domain/entity"
)

// EntityStore 按描述符访问项目数据，所有操作都以 projectID 限定范围
type EntityStore interface {
	// List 项目下未删除的全部记录
	List(ctx context.Context, d *entity.Descriptor, projectID int64) ([]map[string]any, error)

	// Count 项目下未删除的记录数
	Count(ctx context.Context, d *entity.Descriptor, projectID int64) (int64, error)

	// Create 插入记录，调用方负责写入 project_id
	Create(ctx context.Context, d *entity.Descriptor, record entity.Model) (map[string]any, error)

	// Update 只更新 patch 中的列；记录不存在时返回 nil
	Update(ctx context.Context, d *entity.Descriptor, projectID, id int64, patch map[string]any) (map[string]any, error)

	// Delete 支持软删除的类型置删除标记，否则物理删除；记录不存在时返回 false
	Delete(ctx context.Context, d *entity.Descriptor, projectID, id int64) (bool, error)

	// Purge 物理删除项目下该类型的全部记录，包括已软删除的
	Purge(ctx context.Context, d *entity.Descriptor, projectID int64) (int64, error)
}
