package projectdata

import (
	"context"

	"novel-assistant/internal/domain/entity"
	"novel-assistant/internal/domain/repository"
	"novel-assistant/pkg/errors"
	"novel-assistant/pkg/logger"
)

// CreateProjectInput 创建项目参数
type CreateProjectInput struct {
	Name        string
	Title       string
	Author      string
	ProjectType entity.ProjectType
	Summary     string
	Description string
	Tags        []string
}

// CreateProject 创建项目
func (s *Service) CreateProject(ctx context.Context, in *CreateProjectInput) (*entity.Project, error) {
	p := entity.NewProject(in.Name)
	p.Title = in.Title
	p.Author = in.Author
	p.Summary = in.Summary
	p.Description = in.Description
	p.Tags = in.Tags
	if in.ProjectType != "" {
		p.ProjectType = in.ProjectType
	}
	if err := p.Validate(); err != nil {
		return nil, errors.Validation("%s", err.Error())
	}

	if err := s.projects.Create(ctx, p); err != nil {
		logger.Error(ctx, "failed to create project", err, "name", in.Name)
		return nil, err
	}
	logger.Info(ctx, "project created", "project_id", p.ID, "name", p.Name)
	return p, nil
}

// GetProject 获取未删除的项目
func (s *Service) GetProject(ctx context.Context, id int64) (*entity.Project, error) {
	return s.requireProject(ctx, id)
}

// ProjectExists 项目存在且未被软删除
func (s *Service) ProjectExists(ctx context.Context, id int64) (bool, error) {
	return s.projects.Exists(ctx, id)
}

// ListProjects 分页列出项目
func (s *Service) ListProjects(ctx context.Context, filter *repository.ProjectFilter, page, pageSize int) (*repository.PagedResult[*entity.Project], error) {
	return s.projects.List(ctx, filter, repository.NewPagination(page, pageSize))
}

// DeleteProject 软删除项目，项目数据保留
func (s *Service) DeleteProject(ctx context.Context, id int64) error {
	ok, err := s.projects.SoftDelete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return errors.ProjectNotFound(id)
	}
	s.invalidate(ctx, id)
	logger.Info(ctx, "project deleted", "project_id", id)
	return nil
}
