// Package entity 定义领域实体
package entity

import (
	"fmt"
	"strings"
	"time"
)

// Model 所有项目数据实体都实现的最小接口
type Model interface {
	TableName() string
	Identity() int64
	ResetIdentity()
	SetProjectID(projectID int64)
	OwnerProjectID() int64
}

// Validator 写入前的字段校验
type Validator interface {
	Validate() error
}

// BaseModel 主键、时间戳与软删除标记
type BaseModel struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
	IsDeleted bool      `json:"is_deleted" gorm:"not null;default:false;index"`
}

// Identity 返回主键
func (b *BaseModel) Identity() int64 { return b.ID }

// ResetIdentity 清空主键与时间戳，复制记录时使用
func (b *BaseModel) ResetIdentity() {
	b.ID = 0
	b.CreatedAt = time.Time{}
	b.UpdatedAt = time.Time{}
	b.IsDeleted = false
}

// ProjectScoped 归属于某个项目的记录
type ProjectScoped struct {
	ProjectID int64 `json:"project_id" gorm:"not null;index"`
}

// SetProjectID 写入归属项目
func (p *ProjectScoped) SetProjectID(projectID int64) { p.ProjectID = projectID }

// OwnerProjectID 归属项目
func (p *ProjectScoped) OwnerProjectID() int64 { return p.ProjectID }

// ProjectBase 项目内命名实体的公共字段
type ProjectBase struct {
	BaseModel
	ProjectScoped
	Name        string `json:"name" gorm:"type:varchar(255);not null"`
	Description string `json:"description" gorm:"type:text"`
}

// Validate 名称必填
func (p *ProjectBase) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("name is required")
	}
	return nil
}

// Versioned 版本信息
type Versioned struct {
	Version         int    `json:"version" gorm:"default:1"`
	VersionNote     string `json:"version_note" gorm:"type:text"`
	ParentVersionID *int64 `json:"parent_version_id"`
}

// Tagged 标签
type Tagged struct {
	Tags []string `json:"tags" gorm:"type:json;serializer:json"`
}

// JSONMap 以 JSON 存储的对象字段
type JSONMap = map[string]any

// JSONList 以 JSON 存储的数组字段
type JSONList = []any
