// Package projectdata 提供项目级数据隔离的统一读写入口
package projectdata

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"novel-assistant/internal/domain/entity"
	"novel-assistant/internal/domain/repository"
	"novel-assistant/pkg/errors"
	"novel-assistant/pkg/logger"
	"novel-assistant/pkg/metrics"
)

// StatisticsCache 项目统计缓存，未配置 Redis 时为 nil
type StatisticsCache interface {
	GetOrLoad(ctx context.Context, projectID int64, loader func() (map[string]int64, error)) (map[string]int64, error)
	Invalidate(ctx context.Context, projectID int64) error
}

// Service 项目数据门面，本身无状态，可在请求间共享
type Service struct {
	registry *entity.Registry
	projects repository.ProjectRepository
	store    repository.EntityStore
	cache    StatisticsCache
}

// NewService 创建项目数据门面
func NewService(registry *entity.Registry, projects repository.ProjectRepository, store repository.EntityStore, cache StatisticsCache) *Service {
	if registry == nil {
		registry = entity.DefaultRegistry()
	}
	return &Service{registry: registry, projects: projects, store: store, cache: cache}
}

// Registry 当前使用的类型注册表
func (s *Service) Registry() *entity.Registry {
	return s.registry
}

// DataTypes 全部数据类型 key
func (s *Service) DataTypes() []string {
	return s.registry.Keys()
}

// ProjectData getAll 的结果，Errors 记录读取失败的类型
type ProjectData struct {
	Project *entity.Project             `json:"project"`
	Data    map[string][]map[string]any `json:"data"`
	Errors  map[string]string           `json:"errors,omitempty"`
}

func (s *Service) descriptor(key string) (*entity.Descriptor, error) {
	d, ok := s.registry.Lookup(key)
	if !ok {
		return nil, errors.UnknownEntity(key)
	}
	return d, nil
}

func (s *Service) requireProject(ctx context.Context, projectID int64) (*entity.Project, error) {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, errors.ProjectNotFound(projectID)
	}
	return project, nil
}

func record(operation, dataType string, err error) {
	metrics.ProjectDataOperationsTotal.WithLabelValues(operation, dataType, metrics.StatusLabel(err)).Inc()
}

func partial(ctx context.Context, operation, dataType string, err error) {
	metrics.ProjectDataPartialFailures.WithLabelValues(operation, dataType).Inc()
	logger.Warn(ctx, "project data partial failure",
		"operation", operation,
		"data_type", dataType,
		"error", err.Error(),
	)
}

func (s *Service) invalidate(ctx context.Context, projectID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, projectID); err != nil {
		logger.Warn(ctx, "failed to invalidate statistics cache", "project_id", projectID, "error", err.Error())
	}
}

// GetAll 读取项目下全部类型的数据，单个类型失败时以空列表代替
func (s *Service) GetAll(ctx context.Context, projectID int64) (*ProjectData, error) {
	ctx = logger.WithContext(ctx, logger.ProjectIDKey, projectID)
	project, err := s.requireProject(ctx, projectID)
	if err != nil {
		record("get_all", "all", err)
		return nil, err
	}

	out := &ProjectData{
		Project: project,
		Data:    make(map[string][]map[string]any, len(s.registry.Keys())),
	}
	for _, d := range s.registry.All() {
		rows, err := s.store.List(ctx, d, projectID)
		if err != nil {
			partial(ctx, "get_all", d.Key, err)
			if out.Errors == nil {
				out.Errors = make(map[string]string)
			}
			out.Errors[d.Key] = err.Error()
			rows = []map[string]any{}
		}
		out.Data[d.Key] = rows
	}
	record("get_all", "all", nil)
	return out, nil
}

// GetOne 读取项目下某一类型的全部数据
func (s *Service) GetOne(ctx context.Context, projectID int64, key string) ([]map[string]any, error) {
	d, err := s.descriptor(key)
	if err != nil {
		return nil, err
	}
	rows, err := s.store.List(ctx, d, projectID)
	record("get", key, err)
	if err != nil {
		logger.Error(ctx, "failed to read project data", err, "project_id", projectID, "data_type", key)
		return nil, err
	}
	return rows, nil
}

// Create 创建记录，project_id 总是被覆盖为 projectID
func (s *Service) Create(ctx context.Context, projectID int64, key string, data map[string]any) (map[string]any, error) {
	d, err := s.descriptor(key)
	if err != nil {
		return nil, err
	}
	if _, err := s.requireProject(ctx, projectID); err != nil {
		record("create", key, err)
		return nil, err
	}

	m, err := d.FromMap(data)
	if err != nil {
		record("create", key, err)
		return nil, errors.Validation("%s", err.Error())
	}
	m.ResetIdentity()
	m.SetProjectID(projectID)

	out, err := s.store.Create(ctx, d, m)
	record("create", key, err)
	if err != nil {
		logger.Error(ctx, "failed to create project data", err, "project_id", projectID, "data_type", key)
		return nil, err
	}
	s.invalidate(ctx, projectID)
	return out, nil
}

// Update 只应用允许更新的字段；记录不存在时返回 nil
func (s *Service) Update(ctx context.Context, projectID int64, key string, id int64, data map[string]any) (map[string]any, error) {
	d, err := s.descriptor(key)
	if err != nil {
		return nil, err
	}

	out, err := s.store.Update(ctx, d, projectID, id, d.UpdatablePatch(data))
	record("update", key, err)
	if err != nil {
		logger.Error(ctx, "failed to update project data", err, "project_id", projectID, "data_type", key, "id", id)
		return nil, err
	}
	if out != nil {
		s.invalidate(ctx, projectID)
	}
	return out, nil
}

// Delete 软删除或物理删除；记录不在该项目下时返回 false
func (s *Service) Delete(ctx context.Context, projectID int64, key string, id int64) (bool, error) {
	d, err := s.descriptor(key)
	if err != nil {
		return false, err
	}

	ok, err := s.store.Delete(ctx, d, projectID, id)
	record("delete", key, err)
	if err != nil {
		logger.Error(ctx, "failed to delete project data", err, "project_id", projectID, "data_type", key, "id", id)
		return false, err
	}
	if ok {
		s.invalidate(ctx, projectID)
	}
	return ok, nil
}

// Statistics 每种类型的记录数，单个类型失败时计为 0
func (s *Service) Statistics(ctx context.Context, projectID int64) (map[string]int64, error) {
	if s.cache == nil {
		return s.countAll(ctx, projectID), nil
	}
	stats, err := s.cache.GetOrLoad(ctx, projectID, func() (map[string]int64, error) {
		return s.countAll(ctx, projectID), nil
	})
	if err != nil {
		logger.Warn(ctx, "statistics cache unavailable", "project_id", projectID, "error", err.Error())
		return s.countAll(ctx, projectID), nil
	}
	return stats, nil
}

func (s *Service) countAll(ctx context.Context, projectID int64) map[string]int64 {
	stats := make(map[string]int64, len(s.registry.Keys()))
	for _, d := range s.registry.All() {
		n, err := s.store.Count(ctx, d, projectID)
		if err != nil {
			partial(ctx, "statistics", d.Key, err)
			n = 0
		}
		stats[d.Key] = n
	}
	return stats
}

// BulkResult clear/copy 的结果；按类型顺序执行，遇到失败即停止，已完成的类型不回滚
type BulkResult struct {
	Success  bool             `json:"success"`
	Affected map[string]int64 `json:"affected"`
	FailedAt string           `json:"failed_at,omitempty"`
	Error    string           `json:"error,omitempty"`
}

func newBulkResult() *BulkResult {
	return &BulkResult{Success: true, Affected: make(map[string]int64)}
}

func (r *BulkResult) fail(key string, err error) *BulkResult {
	r.Success = false
	r.FailedAt = key
	r.Error = err.Error()
	return r
}

// Clear 物理删除项目下指定类型（为空时全部类型）的记录，未知类型被跳过
func (s *Service) Clear(ctx context.Context, projectID int64, keys []string) *BulkResult {
	result := newBulkResult()
	defer s.invalidate(ctx, projectID)

	for _, d := range s.registry.Select(keys) {
		n, err := s.store.Purge(ctx, d, projectID)
		record("clear", d.Key, err)
		if err != nil {
			logger.Error(ctx, "failed to clear project data", err, "project_id", projectID, "data_type", d.Key)
			return result.fail(d.Key, err)
		}
		result.Affected[d.Key] = n
	}
	return result
}

// 复制时去掉的字段
var copyStripped = []string{"id", "created_at", "updated_at", "is_deleted"}

// Copy 把源项目的指定类型数据复制到目标项目，目标项目必须存在
func (s *Service) Copy(ctx context.Context, srcProjectID, dstProjectID int64, keys []string) (*BulkResult, error) {
	if _, err := s.requireProject(ctx, srcProjectID); err != nil {
		return nil, err
	}
	if _, err := s.requireProject(ctx, dstProjectID); err != nil {
		return nil, err
	}

	result := newBulkResult()
	defer s.invalidate(ctx, dstProjectID)

	for _, d := range s.registry.Select(keys) {
		n, err := s.copyOne(ctx, d, srcProjectID, dstProjectID)
		result.Affected[d.Key] = n
		record("copy", d.Key, err)
		if err != nil {
			logger.Error(ctx, "failed to copy project data", err,
				"source_project_id", srcProjectID,
				"target_project_id", dstProjectID,
				"data_type", d.Key,
			)
			return result.fail(d.Key, err), nil
		}
	}
	return result, nil
}

func (s *Service) copyOne(ctx context.Context, d *entity.Descriptor, src, dst int64) (int64, error) {
	rows, err := s.store.List(ctx, d, src)
	if err != nil {
		return 0, err
	}
	var copied int64
	for _, row := range rows {
		for _, k := range copyStripped {
			delete(row, k)
		}
		m, err := d.FromMap(row)
		if err != nil {
			return copied, err
		}
		m.ResetIdentity()
		m.SetProjectID(dst)
		if _, err := s.store.Create(ctx, d, m); err != nil {
			return copied, err
		}
		copied++
	}
	return copied, nil
}

// ParseID 从 JSON 解码得到的值中取出记录 ID
func ParseID(v any) (int64, bool) {
	switch id := v.(type) {
	case int:
		return int64(id), id > 0
	case int64:
		return id, id > 0
	case float64:
		if id != float64(int64(id)) {
			return 0, false
		}
		return int64(id), id > 0
	case json.Number:
		n, err := id.Int64()
		return n, err == nil && n > 0
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
		return n, err == nil && n > 0
	default:
		return 0, false
	}
}
