package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistryOrder(t *testing.T) {
	keys := DefaultRegistry().Keys()
	require.Len(t, keys, 27)
	assert.Equal(t, "world_setting", keys[0])
	assert.Equal(t, "character", keys[2])
	assert.Equal(t, "character_relation", keys[8])
	assert.Equal(t, "profession_system", keys[26])
}

func TestLookup(t *testing.T) {
	d, ok := DefaultRegistry().Lookup("civilian_system")
	require.True(t, ok)
	assert.Equal(t, "civilian_systems", d.Table)
	assert.True(t, d.SoftDelete)

	_, ok = DefaultRegistry().Lookup("spaceship")
	assert.False(t, ok)
}

func TestUpdatableExcludesProtectedColumns(t *testing.T) {
	d, _ := DefaultRegistry().Lookup("character")
	assert.True(t, d.IsUpdatable("name"))
	assert.True(t, d.IsUpdatable("tags"))
	assert.True(t, d.IsUpdatable("cultivation_level"))
	for _, col := range []string{"id", "project_id", "created_at", "updated_at", "is_deleted"} {
		assert.False(t, d.IsUpdatable(col), col)
	}

	rel, _ := DefaultRegistry().Lookup("character_relation")
	assert.True(t, rel.IsUpdatable("character_a_id"))
	assert.False(t, rel.IsUpdatable("name"))
}

func TestUpdatablePatch(t *testing.T) {
	d, _ := DefaultRegistry().Lookup("faction")
	patch := d.UpdatablePatch(map[string]any{
		"id":         9,
		"project_id": 99,
		"name":       "青云门",
		"unknown":    true,
	})
	assert.Equal(t, map[string]any{"name": "青云门"}, patch)
}

func TestFromMapToMap(t *testing.T) {
	d, _ := DefaultRegistry().Lookup("character")
	m, err := d.FromMap(map[string]any{
		"name":       "Bob",
		"age":        float64(18),
		"tags":       []any{"hero"},
		"abilities":  []any{"sword"},
		"project_id": float64(3),
	})
	require.NoError(t, err)
	assert.EqualValues(t, 3, m.OwnerProjectID())

	out, err := d.ToMap(m)
	require.NoError(t, err)
	assert.Equal(t, "Bob", out["name"])
	assert.EqualValues(t, 18, out["age"])
	assert.Equal(t, []any{"hero"}, out["tags"])
	assert.Contains(t, out, "is_deleted")
}

func TestFromMapRejectsInvalid(t *testing.T) {
	d, _ := DefaultRegistry().Lookup("character")
	_, err := d.FromMap(map[string]any{"description": "no name"})
	assert.Error(t, err)

	_, err = d.FromMap(map[string]any{"name": 42})
	assert.Error(t, err)

	rel, _ := DefaultRegistry().Lookup("character_relation")
	_, err = rel.FromMap(map[string]any{"character_a_id": 1})
	assert.Error(t, err)
}

func TestSelectSkipsUnknown(t *testing.T) {
	ds := DefaultRegistry().Select([]string{"plot", "nope", "volume"})
	require.Len(t, ds, 2)
	assert.Equal(t, "plot", ds[0].Key)
	assert.Equal(t, "volume", ds[1].Key)
	assert.Len(t, DefaultRegistry().Select(nil), 27)
}

func TestToMapsEmpty(t *testing.T) {
	d, _ := DefaultRegistry().Lookup("plot")
	out, err := d.ToMaps(d.NewSlice())
	require.NoError(t, err)
	assert.NotNil(t, out)
	assert.Empty(t, out)
}
