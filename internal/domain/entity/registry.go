package entity

import (
	"encoding/json"
	"fmt"
	"sync"

	"gorm.io/gorm/schema"
)

// 不允许通过更新接口修改的列
var protectedColumns = map[string]bool{
	"id":         true,
	"project_id": true,
	"created_at": true,
	"updated_at": true,
	"is_deleted": true,
}

// Descriptor 一种项目数据类型的描述，注册后不可变
type Descriptor struct {
	Key        string
	Table      string
	SoftDelete bool
	// Updatable 允许更新的列，来自 gorm schema 去掉受保护列
	Updatable []string

	updatable map[string]bool
	newFn     func() Model
	sliceFn   func() any
}

// New 创建一个空记录
func (d *Descriptor) New() Model { return d.newFn() }

// NewSlice 返回指向空切片的指针，供 Find 使用
func (d *Descriptor) NewSlice() any { return d.sliceFn() }

// IsUpdatable 判断列是否允许更新
func (d *Descriptor) IsUpdatable(column string) bool { return d.updatable[column] }

// FromMap 把请求数据解码为记录并做字段校验
func (d *Descriptor) FromMap(data map[string]any) (Model, error) {
	m := d.New()
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("invalid %s payload: %w", d.Key, err)
	}
	if err := json.Unmarshal(raw, m); err != nil {
		return nil, fmt.Errorf("invalid %s payload: %w", d.Key, err)
	}
	if v, ok := m.(Validator); ok {
		if err := v.Validate(); err != nil {
			return nil, fmt.Errorf("invalid %s payload: %w", d.Key, err)
		}
	}
	return m, nil
}

// ToMap 记录转为列名为键的 map
func (d *Descriptor) ToMap(m Model) (map[string]any, error) {
	return toMap[map[string]any](m)
}

// ToMaps 把 NewSlice 得到的切片指针转为 map 列表
func (d *Descriptor) ToMaps(slicePtr any) ([]map[string]any, error) {
	out, err := toMap[[]map[string]any](slicePtr)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []map[string]any{}
	}
	return out, nil
}

// UpdatablePatch 过滤出允许更新的字段
func (d *Descriptor) UpdatablePatch(data map[string]any) map[string]any {
	patch := make(map[string]any, len(data))
	for k, v := range data {
		if d.updatable[k] {
			patch[k] = v
		}
	}
	return patch
}

func toMap[T any](v any) (T, error) {
	var out T
	raw, err := json.Marshal(v)
	if err != nil {
		return out, err
	}
	err = json.Unmarshal(raw, &out)
	return out, err
}

var schemaCache sync.Map

// Describe 以泛型生成描述符，Updatable 从 gorm schema 解析
func Describe[T any, PT interface {
	*T
	Model
}](key string, softDelete bool) *Descriptor {
	sample := PT(new(T))
	s, err := schema.Parse(sample, &schemaCache, schema.NamingStrategy{})
	if err != nil {
		panic(fmt.Sprintf("entity: parse schema for %s: %v", key, err))
	}

	d := &Descriptor{
		Key:        key,
		Table:      sample.TableName(),
		SoftDelete: softDelete,
		updatable:  make(map[string]bool),
		newFn:      func() Model { return PT(new(T)) },
		sliceFn:    func() any { return &[]T{} },
	}
	for _, f := range s.Fields {
		if f.DBName == "" || protectedColumns[f.DBName] {
			continue
		}
		d.Updatable = append(d.Updatable, f.DBName)
		d.updatable[f.DBName] = true
	}
	return d
}

// Registry 固定的项目数据类型表，按注册顺序遍历
type Registry struct {
	order []*Descriptor
	byKey map[string]*Descriptor
}

// NewRegistry 创建注册表，重复的 key 会 panic
func NewRegistry(descriptors ...*Descriptor) *Registry {
	r := &Registry{byKey: make(map[string]*Descriptor, len(descriptors))}
	for _, d := range descriptors {
		if _, dup := r.byKey[d.Key]; dup {
			panic("entity: duplicate descriptor " + d.Key)
		}
		r.order = append(r.order, d)
		r.byKey[d.Key] = d
	}
	return r
}

// Lookup 按 key 查找
func (r *Registry) Lookup(key string) (*Descriptor, bool) {
	d, ok := r.byKey[key]
	return d, ok
}

// Keys 全部 key，按注册顺序
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.order))
	for _, d := range r.order {
		keys = append(keys, d.Key)
	}
	return keys
}

// All 全部描述符，按注册顺序
func (r *Registry) All() []*Descriptor {
	out := make([]*Descriptor, len(r.order))
	copy(out, r.order)
	return out
}

// Select 按给定 key 取描述符，空列表表示全部，未知 key 被跳过
func (r *Registry) Select(keys []string) []*Descriptor {
	if len(keys) == 0 {
		return r.All()
	}
	out := make([]*Descriptor, 0, len(keys))
	for _, k := range keys {
		if d, ok := r.byKey[k]; ok {
			out = append(out, d)
		}
	}
	return out
}

// Models 全部记录类型的零值，供 AutoMigrate 使用
func (r *Registry) Models() []any {
	out := make([]any, 0, len(r.order))
	for _, d := range r.order {
		out = append(out, d.New())
	}
	return out
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// DefaultRegistry 全部 27 种项目数据类型
func DefaultRegistry() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry(
			Describe[WorldSetting]("world_setting", true),
			Describe[CultivationSystem]("cultivation_system", true),
			Describe[Character]("character", true),
			Describe[Faction]("faction", true),
			Describe[Plot]("plot", true),
			Describe[Chapter]("chapter", true),
			Describe[Volume]("volume", true),
			Describe[Timeline]("timeline", true),
			Describe[CharacterRelation]("character_relation", true),
			Describe[FactionRelation]("faction_relation", true),
			Describe[EventAssociation]("event_association", true),
			Describe[PoliticalSystem]("political_system", true),
			Describe[CurrencySystem]("currency_system", true),
			Describe[CommerceSystem]("commerce_system", true),
			Describe[RaceSystem]("race_system", true),
			Describe[MartialArtsSystem]("martial_arts_system", true),
			Describe[EquipmentSystem]("equipment_system", true),
			Describe[PetSystem]("pet_system", true),
			Describe[MapStructure]("map_structure", true),
			Describe[DimensionStructure]("dimension_structure", true),
			Describe[ResourceDistribution]("resource_distribution", true),
			Describe[RaceDistribution]("race_distribution", true),
			Describe[SecretRealmDistribution]("secret_realm_distribution", true),
			Describe[SpiritualTreasureSystem]("spiritual_treasure_system", true),
			Describe[CivilianSystem]("civilian_system", true),
			Describe[JudicialSystem]("judicial_system", true),
			Describe[ProfessionSystem]("profession_system", true),
		)
	})
	return defaultRegistry
}

