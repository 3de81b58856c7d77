package postgres

import (
	"context"
	"fmt"
	"sort"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"novel-assistant/internal/domain/entity"
	"novel-assistant/pkg/errors"
)

// EntityStore 通用项目数据仓储，表与类型由描述符决定
type EntityStore struct {
	client *Client
	tx     *TxManager
}

// NewEntityStore 创建通用项目数据仓储
func NewEntityStore(client *Client, tx *TxManager) *EntityStore {
	return &EntityStore{client: client, tx: tx}
}

func (s *EntityStore) start(ctx context.Context, op string, d *entity.Descriptor) (context.Context, trace.Span) {
	return tracer.Start(ctx, "postgres.EntityStore."+op, trace.WithAttributes(attribute.String("entity.key", d.Key)))
}

// scope 项目范围，软删除类型额外排除已删除记录
func scope(db *gorm.DB, d *entity.Descriptor, projectID int64) *gorm.DB {
	db = db.Where("project_id = ?", projectID)
	if d.SoftDelete {
		db = db.Where("is_deleted = ?", false)
	}
	return db
}

// List 项目下未删除的全部记录
func (s *EntityStore) List(ctx context.Context, d *entity.Descriptor, projectID int64) ([]map[string]any, error) {
	ctx, span := s.start(ctx, "List", d)
	defer span.End()

	db := getDB(ctx, s.client.db)
	rows := d.NewSlice()
	if err := scope(db.Model(d.New()), d, projectID).Order("id ASC").Find(rows).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list %s: %w", d.Key, err)
	}
	return d.ToMaps(rows)
}

// Count 项目下未删除的记录数
func (s *EntityStore) Count(ctx context.Context, d *entity.Descriptor, projectID int64) (int64, error) {
	ctx, span := s.start(ctx, "Count", d)
	defer span.End()

	db := getDB(ctx, s.client.db)
	var count int64
	if err := scope(db.Model(d.New()), d, projectID).Count(&count).Error; err != nil {
		span.RecordError(err)
		return 0, fmt.Errorf("failed to count %s: %w", d.Key, err)
	}
	return count, nil
}

// Create 插入记录
func (s *EntityStore) Create(ctx context.Context, d *entity.Descriptor, record entity.Model) (map[string]any, error) {
	ctx, span := s.start(ctx, "Create", d)
	defer span.End()

	db := getDB(ctx, s.client.db)
	if err := db.Create(record).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to create %s: %w", d.Key, err)
	}
	return d.ToMap(record)
}

// Update 加载记录、合并允许更新的字段并只写回这些列
func (s *EntityStore) Update(ctx context.Context, d *entity.Descriptor, projectID, id int64, patch map[string]any) (map[string]any, error) {
	ctx, span := s.start(ctx, "Update", d)
	defer span.End()

	patch = d.UpdatablePatch(patch)
	var out map[string]any
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		db := getDB(ctx, s.client.db)
		current := d.New()
		if err := scope(db.Where("id = ?", id), d, projectID).First(current).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		if len(patch) == 0 {
			m, err := d.ToMap(current)
			out = m
			return err
		}

		fields, err := d.ToMap(current)
		if err != nil {
			return err
		}
		columns := make([]string, 0, len(patch)+1)
		for k, v := range patch {
			fields[k] = v
			columns = append(columns, k)
		}
		sort.Strings(columns)
		columns = append(columns, "updated_at")

		merged, err := d.FromMap(fields)
		if err != nil {
			return errors.Validation("%s", err.Error())
		}
		if err := db.Model(merged).Select(columns).Updates(merged).Error; err != nil {
			return err
		}

		reloaded := d.New()
		if err := db.Where("id = ?", id).First(reloaded).Error; err != nil {
			return err
		}
		out, err = d.ToMap(reloaded)
		return err
	})
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to update %s: %w", d.Key, err)
	}
	return out, nil
}

// Delete 软删除或物理删除单条记录
func (s *EntityStore) Delete(ctx context.Context, d *entity.Descriptor, projectID, id int64) (bool, error) {
	ctx, span := s.start(ctx, "Delete", d)
	defer span.End()

	db := getDB(ctx, s.client.db)
	var res *gorm.DB
	if d.SoftDelete {
		res = scope(db.Model(d.New()).Where("id = ?", id), d, projectID).Update("is_deleted", true)
	} else {
		res = scope(db.Where("id = ?", id), d, projectID).Delete(d.New())
	}
	if res.Error != nil {
		span.RecordError(res.Error)
		return false, fmt.Errorf("failed to delete %s: %w", d.Key, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// Purge 物理删除项目下该类型的全部记录
func (s *EntityStore) Purge(ctx context.Context, d *entity.Descriptor, projectID int64) (int64, error) {
	ctx, span := s.start(ctx, "Purge", d)
	defer span.End()

	db := getDB(ctx, s.client.db)
	res := db.Where("project_id = ?", projectID).Delete(d.New())
	if res.Error != nil {
		span.RecordError(res.Error)
		return 0, fmt.Errorf("failed to purge %s: %w", d.Key, res.Error)
	}
	return res.RowsAffected, nil
}
