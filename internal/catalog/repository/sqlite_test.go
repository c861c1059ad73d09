package repository

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"wallpaper-planner/internal/catalog/models"
	planner "wallpaper-planner/internal/planner/models"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	migrationPath = "../../../migrations/001_init_catalog.sql"
	seedPath      = "../../../catalog.yaml"
)

func openMemory(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestInitSeedsEmptyCatalog(t *testing.T) {
	ctx := context.Background()
	repo := New(openMemory(t))
	require.NoError(t, repo.Init(ctx, migrationPath, seedPath))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 4)
	// INDIVIDUAL sorts before PANORAMA
	assert.Equal(t, planner.SwatchIndividual, list[0].Type)
	assert.Equal(t, planner.SwatchPanorama, list[3].Type)

	mural, err := repo.GetByID(ctx, "forest-mural")
	require.NoError(t, err)
	assert.Equal(t, 50.0, mural.RollWidthCm)
	assert.Equal(t, 6, mural.TotalRolls)
	assert.Equal(t, 280.0, mural.DesignHeightCm)
	assert.NotEmpty(t, mural.CreatedAt)

	// second init neither fails nor duplicates
	require.NoError(t, repo.Init(ctx, migrationPath, seedPath))
	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestInitMissingSeedLeavesCatalogEmpty(t *testing.T) {
	ctx := context.Background()
	repo := New(openMemory(t))
	require.NoError(t, repo.Init(ctx, migrationPath, filepath.Join(t.TempDir(), "none.yaml")))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestInitBadSeed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte("swatches:\n  - name: Broken\n    type: INDIVIDUAL\n"), 0o644))

	repo := New(openMemory(t))
	err := repo.Init(context.Background(), migrationPath, path)
	assert.ErrorIs(t, err, models.ErrInvalidSwatch)
}

func TestUpsertAndGet(t *testing.T) {
	ctx := context.Background()
	repo := New(openMemory(t))
	require.NoError(t, repo.Init(ctx, migrationPath, ""))

	created, err := repo.Upsert(ctx, models.Swatch{Name: "Stripes", Type: planner.SwatchIndividual, WidthCm: 53, LengthM: 10})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	created.LengthM = 15
	updated, err := repo.Upsert(ctx, *created)
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, 15.0, updated.LengthM)

	_, err = repo.Upsert(ctx, models.Swatch{Name: "Flat", Type: planner.SwatchPanorama, RollWidthCm: 50})
	assert.ErrorIs(t, err, models.ErrInvalidSwatch)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
