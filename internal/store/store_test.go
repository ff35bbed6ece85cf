package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baxromumarov/jobscout/internal/teamlyzer"
)

func openTestStore(t *testing.T) (*Store, *time.Time) {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	clock := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return clock }
	require.NoError(t, s.Migrate(context.Background()))
	return s, &clock
}

func TestOpenPicksDriver(t *testing.T) {
	s, _ := openTestStore(t)
	assert.Equal(t, driverSQLite, s.Driver())
	assert.Equal(t, "file:cache.db?_pragma=busy_timeout(5000)", sqliteDSN("cache.db"))
	assert.Equal(t, "file::memory:", sqliteDSN("file::memory:"))
}

func TestMigrateIsIdempotent(t *testing.T) {
	s, _ := openTestStore(t)
	require.NoError(t, s.Migrate(context.Background()))
}

func TestRebind(t *testing.T) {
	s := &Store{driver: driverPostgres}
	assert.Equal(t, "SELECT a FROM t WHERE x = $1 AND y = $2", s.rebind("SELECT a FROM t WHERE x = ? AND y = ?"))

	s.driver = driverSQLite
	assert.Equal(t, "x = ?", s.rebind("x = ?"))
}

func TestSlugCache(t *testing.T) {
	s, clock := openTestStore(t)
	ctx := context.Background()

	_, hit, err := s.LookupSlug(ctx, "acme", time.Hour)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, s.SaveSlug(ctx, "acme", "acme-sa", true, 0))
	require.NoError(t, s.SaveSlug(ctx, "ghost", "", false, 5))

	entry, hit, err := s.LookupSlug(ctx, "acme", time.Hour)
	require.NoError(t, err)
	require.True(t, hit)
	assert.True(t, entry.Found)
	assert.Equal(t, "acme-sa", entry.Slug)

	entry, hit, err = s.LookupSlug(ctx, "ghost", time.Hour)
	require.NoError(t, err)
	require.True(t, hit)
	assert.False(t, entry.Found)
	assert.Equal(t, 5, entry.Pages)

	*clock = clock.Add(2 * time.Hour)
	_, hit, err = s.LookupSlug(ctx, "acme", time.Hour)
	require.NoError(t, err)
	assert.False(t, hit)

	_, hit, err = s.LookupSlug(ctx, "acme", 0)
	require.NoError(t, err)
	assert.True(t, hit)

	require.NoError(t, s.SaveSlug(ctx, "acme", "acme-new", true, 2))
	entry, hit, err = s.LookupSlug(ctx, "acme", time.Hour)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "acme-new", entry.Slug)
	assert.Equal(t, 2, entry.Pages)
}

func TestProfileCache(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()

	slug := "acme"
	desc := "Software house in Porto"
	in := teamlyzer.EmptyProfile()
	in.Slug = &slug
	in.Rating = teamlyzer.NewRating("3.8")
	in.Description = &desc
	in.Benefits = []string{"Health insurance", "Gym"}
	require.NoError(t, s.SaveProfile(ctx, in))

	out, hit, err := s.LookupProfile(ctx, "acme", time.Hour)
	require.NoError(t, err)
	require.True(t, hit)
	require.NotNil(t, out.Slug)
	assert.Equal(t, "acme", *out.Slug)
	require.NotNil(t, out.Rating)
	assert.Equal(t, 3.8, out.Rating.Value)
	assert.Equal(t, &desc, out.Description)
	assert.Nil(t, out.SalaryRange)
	assert.Equal(t, []string{"Health insurance", "Gym"}, out.Benefits)

	_, hit, err = s.LookupProfile(ctx, "missing", time.Hour)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, s.SaveProfile(ctx, teamlyzer.EmptyProfile()))
}

func TestPruneStale(t *testing.T) {
	s, clock := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveSlug(ctx, "old", "old", true, 3))
	slug := "old"
	p := teamlyzer.EmptyProfile()
	p.Slug = &slug
	require.NoError(t, s.SaveProfile(ctx, p))

	*clock = clock.Add(48 * time.Hour)
	require.NoError(t, s.SaveSlug(ctx, "fresh", "fresh", true, 3))

	n, err := s.PruneStale(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	slugs, profiles, err := s.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, slugs)
	assert.Equal(t, 0, profiles)
}
