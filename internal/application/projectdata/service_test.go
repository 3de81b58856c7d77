package projectdata

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"novel-assistant/internal/config"
	"novel-assistant/internal/domain/entity"
	"novel-assistant/internal/infrastructure/persistence/postgres"
	"novel-assistant/internal/infrastructure/persistence/redis"
	"novel-assistant/pkg/errors"
)

type fixture struct {
	svc    *Service
	client *postgres.Client
}

func newFixture(t *testing.T, cache StatisticsCache) *fixture {
	t.Helper()
	client, err := postgres.NewClient(&config.DatabaseConfig{
		Driver: postgres.DriverSQLite,
		SQLite: config.SQLiteConfig{Path: ":memory:"},
	})
	require.NoError(t, err)
	registry := entity.DefaultRegistry()
	require.NoError(t, client.AutoMigrate(context.Background(), registry))
	t.Cleanup(func() { _ = client.Close() })

	store := postgres.NewEntityStore(client, postgres.NewTxManager(client))
	svc := NewService(registry, postgres.NewProjectRepository(client), store, cache)
	return &fixture{svc: svc, client: client}
}

func (f *fixture) project(t *testing.T, name string) int64 {
	t.Helper()
	p, err := f.svc.CreateProject(context.Background(), &CreateProjectInput{Name: name})
	require.NoError(t, err)
	return p.ID
}

func (f *fixture) create(t *testing.T, projectID int64, key string, data map[string]any) int64 {
	t.Helper()
	out, err := f.svc.Create(context.Background(), projectID, key, data)
	require.NoError(t, err)
	id, ok := ParseID(out["id"])
	require.True(t, ok)
	return id
}

func TestCreateForcesProjectID(t *testing.T) {
	f := newFixture(t, nil)
	pid := f.project(t, "p")
	other := f.project(t, "other")

	out, err := f.svc.Create(context.Background(), pid, "character", map[string]any{
		"name":       "Bob",
		"project_id": float64(other),
		"id":         float64(12345),
	})
	require.NoError(t, err)
	assert.EqualValues(t, pid, out["project_id"])
	assert.NotEqualValues(t, 12345, out["id"])

	rows, err := f.svc.GetOne(context.Background(), other, "character")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestCreateErrors(t *testing.T) {
	f := newFixture(t, nil)
	pid := f.project(t, "p")
	ctx := context.Background()

	_, err := f.svc.Create(ctx, pid, "dragon", map[string]any{"name": "x"})
	assert.True(t, errors.IsUnknownEntity(err))

	_, err = f.svc.Create(ctx, 9999, "character", map[string]any{"name": "x"})
	assert.True(t, errors.IsProjectNotFound(err))

	_, err = f.svc.Create(ctx, pid, "character", map[string]any{"name": ""})
	assert.True(t, errors.IsValidation(err))
}

func TestUpdateIgnoresIdentityKeys(t *testing.T) {
	f := newFixture(t, nil)
	pid := f.project(t, "p")
	ctx := context.Background()
	id := f.create(t, pid, "character", map[string]any{"name": "Bob", "age": float64(20)})

	out, err := f.svc.Update(ctx, pid, "character", id, map[string]any{
		"name":       "Robert",
		"id":         float64(id + 100),
		"project_id": float64(pid + 100),
	})
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, "Robert", out["name"])
	assert.EqualValues(t, id, out["id"])
	assert.EqualValues(t, pid, out["project_id"])
	assert.EqualValues(t, 20, out["age"])

	missing, err := f.svc.Update(ctx, pid, "character", id+1000, map[string]any{"name": "x"})
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestDeleteScopedToProject(t *testing.T) {
	f := newFixture(t, nil)
	pid := f.project(t, "p")
	other := f.project(t, "other")
	ctx := context.Background()
	id := f.create(t, pid, "faction", map[string]any{"name": "青云门"})

	ok, err := f.svc.Delete(ctx, other, "faction", id)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = f.svc.Delete(ctx, pid, "faction", id)
	require.NoError(t, err)
	assert.True(t, ok)

	rows, err := f.svc.GetOne(ctx, pid, "faction")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestGetAllTolerantToBrokenType(t *testing.T) {
	f := newFixture(t, nil)
	pid := f.project(t, "p")
	f.create(t, pid, "character", map[string]any{"name": "Bob"})
	require.NoError(t, f.client.DB().Migrator().DropTable("factions"))

	out, err := f.svc.GetAll(context.Background(), pid)
	require.NoError(t, err)
	assert.Len(t, out.Data, len(entity.DefaultRegistry().Keys()))
	assert.Len(t, out.Data["character"], 1)
	assert.NotNil(t, out.Data["faction"])
	assert.Empty(t, out.Data["faction"])
	assert.Contains(t, out.Errors, "faction")

	stats, err := f.svc.Statistics(context.Background(), pid)
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats["character"])
	assert.Zero(t, stats["faction"])
}

func TestGetAllMissingProject(t *testing.T) {
	f := newFixture(t, nil)
	pid := f.project(t, "p")
	require.NoError(t, f.svc.DeleteProject(context.Background(), pid))

	_, err := f.svc.GetAll(context.Background(), pid)
	assert.True(t, errors.IsProjectNotFound(err))
}

func TestClearOnlyTouchesSelection(t *testing.T) {
	f := newFixture(t, nil)
	p7 := f.project(t, "seven")
	p8 := f.project(t, "eight")
	ctx := context.Background()

	f.create(t, p7, "character", map[string]any{"name": "a"})
	f.create(t, p7, "character", map[string]any{"name": "b"})
	f.create(t, p7, "faction", map[string]any{"name": "f"})
	f.create(t, p8, "character", map[string]any{"name": "c"})

	result := f.svc.Clear(ctx, p7, []string{"character", "unknown"})
	assert.True(t, result.Success)
	assert.EqualValues(t, 2, result.Affected["character"])

	stats, err := f.svc.Statistics(ctx, p7)
	require.NoError(t, err)
	assert.Zero(t, stats["character"])
	assert.EqualValues(t, 1, stats["faction"])

	stats, err = f.svc.Statistics(ctx, p8)
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats["character"])
}

func TestCopy(t *testing.T) {
	f := newFixture(t, nil)
	src := f.project(t, "src")
	dst := f.project(t, "dst")
	ctx := context.Background()

	f.create(t, src, "character", map[string]any{"name": "a", "tags": []any{"主角"}})
	f.create(t, src, "character", map[string]any{"name": "b"})
	f.create(t, src, "plot", map[string]any{"name": "主线"})

	result, err := f.svc.Copy(ctx, src, dst, []string{"character"})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.EqualValues(t, 2, result.Affected["character"])

	rows, err := f.svc.GetOne(ctx, dst, "character")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, row := range rows {
		assert.EqualValues(t, dst, row["project_id"])
	}

	plots, err := f.svc.GetOne(ctx, dst, "plot")
	require.NoError(t, err)
	assert.Empty(t, plots)

	srcRows, err := f.svc.GetOne(ctx, src, "character")
	require.NoError(t, err)
	assert.Len(t, srcRows, 2)

	_, err = f.svc.Copy(ctx, src, 9999, nil)
	assert.True(t, errors.IsProjectNotFound(err))
}

func TestCopyStopsAtFirstFailure(t *testing.T) {
	f := newFixture(t, nil)
	src := f.project(t, "src")
	dst := f.project(t, "dst")
	ctx := context.Background()

	f.create(t, src, "character", map[string]any{"name": "a"})
	f.create(t, src, "plot", map[string]any{"name": "主线"})
	require.NoError(t, f.client.DB().Migrator().DropTable("factions"))

	result, err := f.svc.Copy(ctx, src, dst, []string{"character", "faction", "plot"})
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "faction", result.FailedAt)
	assert.EqualValues(t, 1, result.Affected["character"])
	assert.NotContains(t, result.Affected, "plot")
}

func TestValidateIntegrity(t *testing.T) {
	f := newFixture(t, nil)
	pid := f.project(t, "p")
	other := f.project(t, "other")
	ctx := context.Background()

	a := f.create(t, pid, "character", map[string]any{"name": "a"})
	b := f.create(t, pid, "character", map[string]any{"name": "b"})
	outsider := f.create(t, other, "character", map[string]any{"name": "x"})

	f.create(t, pid, "character_relation", map[string]any{
		"character_a_id": float64(a), "character_b_id": float64(b), "relation_type": "friend",
	})
	f.create(t, pid, "character_relation", map[string]any{
		"character_a_id": float64(a), "character_b_id": float64(a), "relation_type": "rival",
	})

	report, err := f.svc.ValidateIntegrity(ctx, pid)
	require.NoError(t, err)
	assert.True(t, report.IsValid)
	assert.Empty(t, report.Issues)
	assert.Len(t, report.Warnings, 1)
	assert.EqualValues(t, 2, report.Statistics["character_relation"])

	f.create(t, pid, "character_relation", map[string]any{
		"character_a_id": float64(a), "character_b_id": float64(outsider), "relation_type": "enemy",
	})
	f.create(t, pid, "chapter", map[string]any{"name": "第一章", "volume_id": float64(4242)})

	report, err = f.svc.ValidateIntegrity(ctx, pid)
	require.NoError(t, err)
	assert.False(t, report.IsValid)
	assert.Len(t, report.Issues, 1)
	assert.Len(t, report.Warnings, 2)
}

func TestStatisticsThroughCache(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	cache := redis.NewStatisticsCache(redis.NewClientFromRedis(rdb), time.Minute)

	f := newFixture(t, cache)
	pid := f.project(t, "p")
	ctx := context.Background()

	stats, err := f.svc.Statistics(ctx, pid)
	require.NoError(t, err)
	assert.Zero(t, stats["character"])
	assert.True(t, mr.Exists(redis.ProjectStatisticsKey(pid)))

	f.create(t, pid, "character", map[string]any{"name": "a"})
	assert.False(t, mr.Exists(redis.ProjectStatisticsKey(pid)))

	stats, err = f.svc.Statistics(ctx, pid)
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats["character"])
}

func TestParseID(t *testing.T) {
	cases := []struct {
		in   any
		want int64
		ok   bool
	}{
		{float64(3), 3, true},
		{float64(3.5), 0, false},
		{"12", 12, true},
		{"abc", 0, false},
		{int64(0), 0, false},
		{nil, 0, false},
	}
	for _, tc := range cases {
		got, ok := ParseID(tc.in)
		assert.Equal(t, tc.ok, ok, "%v", tc.in)
		if tc.ok {
			assert.Equal(t, tc.want, got)
		}
	}
}
