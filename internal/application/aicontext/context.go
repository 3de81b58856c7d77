// Package aicontext 为 AI 工具调用提供带当前项目状态的数据访问入口
package aicontext

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"novel-assistant/internal/application/projectdata"
	"novel-assistant/internal/domain/entity"
	"novel-assistant/pkg/errors"
	"novel-assistant/pkg/logger"
)

// DataService AI 上下文依赖的项目数据门面
type DataService interface {
	GetProject(ctx context.Context, id int64) (*entity.Project, error)
	GetAll(ctx context.Context, projectID int64) (*projectdata.ProjectData, error)
	GetOne(ctx context.Context, projectID int64, key string) ([]map[string]any, error)
	Create(ctx context.Context, projectID int64, key string, data map[string]any) (map[string]any, error)
	Update(ctx context.Context, projectID int64, key string, id int64, data map[string]any) (map[string]any, error)
	Delete(ctx context.Context, projectID int64, key string, id int64) (bool, error)
	Statistics(ctx context.Context, projectID int64) (map[string]int64, error)
	DataTypes() []string
}

// 写操作类型
const (
	OperationCreate = "create"
	OperationUpdate = "update"
)

var validOperations = map[string]bool{
	"create":      true,
	"read":        true,
	"update":      true,
	"delete":      true,
	"search":      true,
	"batch_write": true,
}

const recentOperationsInContext = 10

// Context 单个会话的 AI 项目上下文
type Context struct {
	data DataService
	log  *AuditLog

	mu        sync.RWMutex
	projectID int64
}

// NewContext 创建 AI 项目上下文，log 为进程共享的操作日志
func NewContext(data DataService, log *AuditLog) *Context {
	if log == nil {
		log = NewAuditLog()
	}
	return &Context{data: data, log: log}
}

// SetCurrentProject 项目存在且未删除时切换当前项目，否则保持不变并返回 false
func (c *Context) SetCurrentProject(ctx context.Context, projectID int64) bool {
	project, err := c.data.GetProject(ctx, projectID)
	if err != nil {
		if !errors.IsProjectNotFound(err) {
			logger.Error(ctx, "failed to load project", err, "project_id", projectID)
		}
		return false
	}

	c.mu.Lock()
	c.projectID = project.ID
	c.mu.Unlock()

	logger.Info(ctx, "AI current project set", "project_id", project.ID, "name", project.Name)
	return true
}

// CurrentProjectID 当前项目 ID，未设置时第二个返回值为 false
func (c *Context) CurrentProjectID() (int64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.projectID, c.projectID != 0
}

func (c *Context) requireProject() (int64, error) {
	id, ok := c.CurrentProjectID()
	if !ok {
		return 0, errors.Configuration("未设置当前操作项目")
	}
	return id, nil
}

func (c *Context) audit(ctx context.Context, operation, dataType string, success bool, kv ...any) {
	entry := AuditEntry{
		Timestamp: time.Now(),
		Operation: operation,
		DataType:  dataType,
		Success:   success,
	}
	if id, ok := c.CurrentProjectID(); ok {
		entry.ProjectID = &id
	}
	if len(kv) > 0 {
		entry.Fields = make(map[string]any, len(kv)/2)
		for i := 0; i+1 < len(kv); i += 2 {
			if k, ok := kv[i].(string); ok {
				entry.Fields[k] = kv[i+1]
			}
		}
	}
	c.log.Append(entry)

	args := append([]any{"operation", operation, "data_type", dataType, "project_id", entry.ProjectID}, kv...)
	if success {
		logger.Info(ctx, "AI operation succeeded", args...)
	} else {
		logger.Warn(ctx, "AI operation failed", args...)
	}
}

// Read 读取当前项目某一类型的数据，dataType 为空时读取全部类型
func (c *Context) Read(ctx context.Context, dataType string) (map[string][]map[string]any, error) {
	projectID, err := c.requireProject()
	if err != nil {
		return nil, err
	}

	label := dataType
	if label == "" {
		label = "all_data"
	}

	var out map[string][]map[string]any
	if dataType == "" {
		var all *projectdata.ProjectData
		all, err = c.data.GetAll(ctx, projectID)
		if err == nil {
			out = all.Data
		}
	} else {
		var rows []map[string]any
		rows, err = c.data.GetOne(ctx, projectID, dataType)
		if err == nil {
			out = map[string][]map[string]any{dataType: rows}
		}
	}

	if err != nil {
		c.audit(ctx, "read", label, false, "error", err.Error())
		return nil, err
	}
	c.audit(ctx, "read", label, true)
	return out, nil
}

// Write 创建或更新记录；更新时 data 必须带 id，且 id 不会作为字段写入
func (c *Context) Write(ctx context.Context, dataType string, data map[string]any, operation string) (map[string]any, error) {
	projectID, err := c.requireProject()
	if err != nil {
		return nil, err
	}
	if operation == "" {
		operation = OperationCreate
	}

	out, err := c.write(ctx, projectID, dataType, data, operation)
	if err != nil {
		c.audit(ctx, "write", dataType, false, "error", err.Error(), "write_operation", operation)
		return nil, err
	}
	c.audit(ctx, "write", dataType, true, "write_operation", operation)
	return out, nil
}

func (c *Context) write(ctx context.Context, projectID int64, dataType string, data map[string]any, operation string) (map[string]any, error) {
	switch operation {
	case OperationCreate:
		return c.data.Create(ctx, projectID, dataType, data)
	case OperationUpdate:
		raw, ok := data["id"]
		if !ok {
			return nil, errors.Validation("更新操作需要提供记录ID")
		}
		id, ok := projectdata.ParseID(raw)
		if !ok {
			return nil, errors.Validation("无效的记录ID: %v", raw)
		}
		patch := make(map[string]any, len(data))
		for k, v := range data {
			if k != "id" {
				patch[k] = v
			}
		}
		out, err := c.data.Update(ctx, projectID, dataType, id, patch)
		if err != nil {
			return nil, err
		}
		if out == nil {
			return nil, errors.EntityNotFound(dataType, id)
		}
		return out, nil
	default:
		return nil, errors.Validation("不支持的操作类型: %s", operation)
	}
}

// Delete 删除当前项目下的记录
func (c *Context) Delete(ctx context.Context, dataType string, id int64) (bool, error) {
	projectID, err := c.requireProject()
	if err != nil {
		return false, err
	}

	ok, err := c.data.Delete(ctx, projectID, dataType, id)
	if err != nil {
		c.audit(ctx, "delete", dataType, false, "error", err.Error(), "item_id", id)
		return false, err
	}
	c.audit(ctx, "delete", dataType, ok, "item_id", id)
	return ok, nil
}

// BatchError 批量写入中单条失败的记录
type BatchError struct {
	Data  map[string]any `json:"data"`
	Error string         `json:"error"`
}

// BatchSummary 批量写入汇总
type BatchSummary struct {
	TotalSuccess int `json:"total_success"`
	TotalErrors  int `json:"total_errors"`
}

// BatchResult 批量写入结果
type BatchResult struct {
	Results map[string][]map[string]any `json:"results"`
	Errors  map[string][]BatchError     `json:"errors"`
	Summary BatchSummary                `json:"summary"`
}

// BatchWrite 逐条写入，带 id 的条目按更新处理；单条失败不影响其余条目
func (c *Context) BatchWrite(ctx context.Context, batch map[string][]map[string]any) (*BatchResult, error) {
	if _, err := c.requireProject(); err != nil {
		return nil, err
	}

	types := make([]string, 0, len(batch))
	for k := range batch {
		types = append(types, k)
	}
	sort.Strings(types)

	result := &BatchResult{
		Results: make(map[string][]map[string]any, len(batch)),
		Errors:  make(map[string][]BatchError, len(batch)),
	}
	for _, dataType := range types {
		result.Results[dataType] = []map[string]any{}
		result.Errors[dataType] = []BatchError{}

		for _, item := range batch[dataType] {
			operation := OperationCreate
			if _, ok := item["id"]; ok {
				operation = OperationUpdate
			}
			out, err := c.Write(ctx, dataType, item, operation)
			if err != nil {
				result.Errors[dataType] = append(result.Errors[dataType], BatchError{Data: item, Error: err.Error()})
				result.Summary.TotalErrors++
				continue
			}
			result.Results[dataType] = append(result.Results[dataType], out)
			result.Summary.TotalSuccess++
		}
	}

	c.audit(ctx, "batch_write", "multiple", result.Summary.TotalErrors == 0,
		"batch_info", fmt.Sprintf("成功: %d, 失败: %d", result.Summary.TotalSuccess, result.Summary.TotalErrors))
	return result, nil
}

// Search 对记录的 JSON 文本做不区分大小写的子串匹配，没有命中的类型不出现在结果中
func (c *Context) Search(ctx context.Context, query string, dataTypes []string) (map[string][]map[string]any, error) {
	projectID, err := c.requireProject()
	if err != nil {
		return nil, err
	}
	if len(dataTypes) == 0 {
		dataTypes = c.data.DataTypes()
	}

	needle := strings.ToLower(query)
	results := make(map[string][]map[string]any)
	for _, dataType := range dataTypes {
		rows, err := c.data.GetOne(ctx, projectID, dataType)
		if err != nil {
			logger.Warn(ctx, "search skipped data type", "data_type", dataType, "error", err.Error())
			continue
		}
		var matches []map[string]any
		for _, row := range rows {
			if strings.Contains(strings.ToLower(searchText(row)), needle) {
				matches = append(matches, row)
			}
		}
		if len(matches) > 0 {
			results[dataType] = matches
		}
	}

	c.audit(ctx, "search", "multiple", true, "query", query)
	return results, nil
}

// searchText 记录的 JSON 文本，保留非 ASCII 字符与 HTML 字符原样
func searchText(row map[string]any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(row); err != nil {
		return ""
	}
	return buf.String()
}

// ProjectContext 供 AI 了解当前项目状态的快照
type ProjectContext struct {
	ProjectInfo        map[string]any   `json:"project_info"`
	Statistics         map[string]int64 `json:"statistics"`
	RecentAIOperations []AuditEntry     `json:"recent_ai_operations"`
	AvailableDataTypes []string         `json:"available_data_types"`
	CurrentTime        time.Time        `json:"current_time"`
}

// ProjectContext 当前项目的信息、统计与最近 10 条 AI 操作
func (c *Context) ProjectContext(ctx context.Context) (*ProjectContext, error) {
	projectID, err := c.requireProject()
	if err != nil {
		return nil, err
	}

	info := map[string]any{}
	project, err := c.data.GetProject(ctx, projectID)
	switch {
	case err == nil:
		if info, err = projectInfo(project); err != nil {
			return nil, err
		}
	case !errors.IsProjectNotFound(err):
		logger.Error(ctx, "failed to build project context", err, "project_id", projectID)
		return nil, err
	}

	stats, err := c.data.Statistics(ctx, projectID)
	if err != nil {
		logger.Error(ctx, "failed to build project context", err, "project_id", projectID)
		return nil, err
	}

	return &ProjectContext{
		ProjectInfo:        info,
		Statistics:         stats,
		RecentAIOperations: c.log.Recent(recentOperationsInContext),
		AvailableDataTypes: c.data.DataTypes(),
		CurrentTime:        time.Now(),
	}, nil
}

func projectInfo(p *entity.Project) (map[string]any, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// OperationCheck 操作预检结果
type OperationCheck struct {
	IsValid  bool     `json:"is_valid"`
	Warnings []string `json:"warnings"`
	Errors   []string `json:"errors"`
}

// ValidateOperation 检查当前项目、数据类型与操作类型，遇到第一个错误即返回
func (c *Context) ValidateOperation(operation, dataType string, data map[string]any) *OperationCheck {
	check := &OperationCheck{IsValid: true, Warnings: []string{}, Errors: []string{}}
	fail := func(msg string) *OperationCheck {
		check.IsValid = false
		check.Errors = append(check.Errors, msg)
		return check
	}

	if _, ok := c.CurrentProjectID(); !ok {
		return fail("未设置当前操作项目")
	}
	known := false
	for _, k := range c.data.DataTypes() {
		if k == dataType {
			known = true
			break
		}
	}
	if !known {
		return fail("不支持的数据类型: " + dataType)
	}
	if !validOperations[operation] {
		return fail("不支持的操作类型: " + operation)
	}
	if operation == OperationUpdate {
		if _, ok := data["id"]; !ok {
			check.Warnings = append(check.Warnings, "更新操作需要提供记录ID")
		}
	}
	return check
}

// OperationLog 最近 limit 条 AI 操作日志
func (c *Context) OperationLog(limit int) []AuditEntry {
	if limit <= 0 {
		limit = DefaultLogLimit
	}
	return c.log.Recent(limit)
}

// ClearOperationLog 清空 AI 操作日志
func (c *Context) ClearOperationLog(ctx context.Context) {
	c.log.Clear()
	logger.Info(ctx, "AI operation log cleared")
}
