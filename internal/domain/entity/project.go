package entity

import (
	"fmt"
	"strings"
)

// ProjectType 项目类型
type ProjectType string

const (
	ProjectTypeFantasy    ProjectType = "fantasy"
	ProjectTypeWuxia      ProjectType = "wuxia"
	ProjectTypeXianxia    ProjectType = "xianxia"
	ProjectTypeScifi      ProjectType = "scifi"
	ProjectTypeModern     ProjectType = "modern"
	ProjectTypeHistorical ProjectType = "historical"
	ProjectTypeRomance    ProjectType = "romance"
	ProjectTypeMystery    ProjectType = "mystery"
	ProjectTypeHorror     ProjectType = "horror"
	ProjectTypeOther      ProjectType = "other"
)

// ProjectStatus 项目状态
type ProjectStatus string

const (
	ProjectStatusPlanning  ProjectStatus = "planning"
	ProjectStatusWriting   ProjectStatus = "writing"
	ProjectStatusReviewing ProjectStatus = "reviewing"
	ProjectStatusCompleted ProjectStatus = "completed"
	ProjectStatusPublished ProjectStatus = "published"
	ProjectStatusArchived  ProjectStatus = "archived"
)

// Project 小说项目，所有项目数据的归属边界
type Project struct {
	BaseModel
	Tagged
	Versioned
	Name            string        `json:"name" gorm:"type:varchar(255);not null;index"`
	Title           string        `json:"title" gorm:"type:varchar(500)"`
	Subtitle        string        `json:"subtitle" gorm:"type:varchar(500)"`
	Author          string        `json:"author" gorm:"type:varchar(100)"`
	ProjectType     ProjectType   `json:"project_type" gorm:"type:varchar(32);default:'fantasy'"`
	Status          ProjectStatus `json:"status" gorm:"type:varchar(32);default:'planning'"`
	Summary         string        `json:"summary" gorm:"type:text"`
	Description     string        `json:"description" gorm:"type:text"`
	Outline         string        `json:"outline" gorm:"type:text"`
	WordCount       int           `json:"word_count" gorm:"default:0"`
	ChapterCount    int           `json:"chapter_count" gorm:"default:0"`
	CharacterCount  int           `json:"character_count" gorm:"default:0"`
	Settings        JSONMap       `json:"settings" gorm:"type:json;serializer:json"`
	ProjectMetadata JSONMap       `json:"project_metadata" gorm:"type:json;serializer:json"`
	TemplateID      *int64        `json:"template_id"`
	TemplateName    string        `json:"template_name" gorm:"type:varchar(100)"`
	IsPreset        bool          `json:"is_preset" gorm:"default:false"`
}

// TableName 指定表名
func (Project) TableName() string {
	return "projects"
}

// NewProject 创建新项目
func NewProject(name string) *Project {
	return &Project{
		Name:        name,
		ProjectType: ProjectTypeFantasy,
		Status:      ProjectStatusPlanning,
		Versioned:   Versioned{Version: 1},
		Settings:    JSONMap{},
	}
}

// Validate 名称必填
func (p *Project) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("project name is required")
	}
	return nil
}

// Brief 提供给 AI 的项目摘要
func (p *Project) Brief() map[string]any {
	return map[string]any{
		"id":           p.ID,
		"name":         p.Name,
		"title":        p.Title,
		"author":       p.Author,
		"project_type": p.ProjectType,
		"status":       p.Status,
		"summary":      p.Summary,
		"word_count":   p.WordCount,
		"created_at":   p.CreatedAt,
		"updated_at":   p.UpdatedAt,
	}
}
