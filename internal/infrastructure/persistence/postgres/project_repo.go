package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"novel-assistant/internal/domain/entity"
	"novel-assistant/internal/domain/repository"
)

// ProjectRepository 项目仓储实现
type ProjectRepository struct {
	client *Client
}

// NewProjectRepository 创建项目仓储
func NewProjectRepository(client *Client) *ProjectRepository {
	return &ProjectRepository{client: client}
}

// Create 创建项目
func (r *ProjectRepository) Create(ctx context.Context, project *entity.Project) error {
	ctx, span := tracer.Start(ctx, "postgres.ProjectRepository.Create")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Create(project).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create project: %w", err)
	}
	return nil
}

// GetByID 根据 ID 获取未删除的项目
func (r *ProjectRepository) GetByID(ctx context.Context, id int64) (*entity.Project, error) {
	ctx, span := tracer.Start(ctx, "postgres.ProjectRepository.GetByID")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var project entity.Project
	if err := db.Where("id = ? AND is_deleted = ?", id, false).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return &project, nil
}

// Exists 项目存在且未被软删除
func (r *ProjectRepository) Exists(ctx context.Context, id int64) (bool, error) {
	ctx, span := tracer.Start(ctx, "postgres.ProjectRepository.Exists")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var count int64
	if err := db.Model(&entity.Project{}).Where("id = ? AND is_deleted = ?", id, false).Count(&count).Error; err != nil {
		span.RecordError(err)
		return false, fmt.Errorf("failed to check project: %w", err)
	}
	return count > 0, nil
}

// List 获取项目列表
func (r *ProjectRepository) List(ctx context.Context, filter *repository.ProjectFilter, pagination repository.Pagination) (*repository.PagedResult[*entity.Project], error) {
	ctx, span := tracer.Start(ctx, "postgres.ProjectRepository.List")
	defer span.End()

	db := getDB(ctx, r.client.db)
	query := db.Model(&entity.Project{}).Where("is_deleted = ?", false)

	// 应用过滤条件
	if filter != nil {
		if filter.Status != "" {
			query = query.Where("status = ?", filter.Status)
		}
		if filter.ProjectType != "" {
			query = query.Where("project_type = ?", filter.ProjectType)
		}
		if filter.Keyword != "" {
			like := "%" + filter.Keyword + "%"
			query = query.Where("name LIKE ? OR title LIKE ?", like, like)
		}
	}

	// 获取总数
	var total int64
	if err := query.Count(&total).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to count projects: %w", err)
	}

	// 获取列表
	var projects []*entity.Project
	if err := query.Order("updated_at DESC, id DESC").
		Offset(pagination.Offset()).
		Limit(pagination.Limit()).
		Find(&projects).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	return repository.NewPagedResult(projects, total, pagination), nil
}

// SoftDelete 软删除项目
func (r *ProjectRepository) SoftDelete(ctx context.Context, id int64) (bool, error) {
	ctx, span := tracer.Start(ctx, "postgres.ProjectRepository.SoftDelete")
	defer span.End()

	db := getDB(ctx, r.client.db)
	res := db.Model(&entity.Project{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Update("is_deleted", true)
	if res.Error != nil {
		span.RecordError(res.Error)
		return false, fmt.Errorf("failed to delete project: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}
