package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/herbfield/internal/model"
	"github.com/udisondev/herbfield/internal/spawn"
	"github.com/udisondev/herbfield/internal/testutil"
)

func TestHerbRepository(t *testing.T) {
	pool := testutil.SetupTestDB(t)
	repo := NewHerbRepository(pool)
	ctx := context.Background()

	for i, h := range testutil.MeadowHerbs() {
		require.NoError(t, repo.Upsert(ctx, h, i))
	}

	herbs, err := repo.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, herbs, 3)
	assert.Equal(t, "item_licorice", herbs[0].ID())
	assert.Equal(t, "item_ginseng", herbs[1].ID())
	assert.Equal(t, 10.0, herbs[1].Weight())
	assert.Equal(t, "herbs/angelica", herbs[2].Icon())

	// upsert replaces weight in place
	require.NoError(t, repo.Upsert(ctx, model.NewHerbType("item_ginseng", "Ginseng", 25, "herbs/ginseng"), 1))
	require.NoError(t, repo.SetEnabled(ctx, "item_angelica", false))

	table, err := spawn.LoadTable(ctx, repo, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, table.Len())
	assert.InDelta(t, 75.0, table.TotalWeight(), 1e-9)

	assert.Error(t, repo.SetEnabled(ctx, "missing", true))
}

func TestHerbRepository_RejectsNegativeWeight(t *testing.T) {
	pool := testutil.SetupTestDB(t)
	repo := NewHerbRepository(pool)

	err := repo.Upsert(context.Background(), model.NewHerbType("bad", "Bad", -1, ""), 0)
	assert.Error(t, err)
}
