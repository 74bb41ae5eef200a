package spawn

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/herbfield/internal/model"
	"github.com/udisondev/herbfield/internal/testutil"
)

type failingSource struct{}

func (failingSource) LoadAll(context.Context) ([]*model.HerbType, error) {
	return nil, errors.New("connection refused")
}

func TestLoadTable(t *testing.T) {
	src := NewStaticHerbSource(testutil.MeadowHerbs())

	table, err := LoadTable(context.Background(), src, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, table.Len())

	table, err = LoadTable(context.Background(), src, []string{"item_ginseng"})
	require.NoError(t, err)
	assert.Equal(t, 2, table.Len())
	_, ok := table.Lookup("item_ginseng")
	assert.False(t, ok)
	assert.InDelta(t, 80.0, table.TotalWeight(), 1e-9)
}

func TestLoadTable_Errors(t *testing.T) {
	_, err := LoadTable(context.Background(), failingSource{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")

	dup := NewStaticHerbSource([]*model.HerbType{
		model.NewHerbType("a", "A", 1, ""),
		model.NewHerbType("a", "A", 1, ""),
	})
	_, err = LoadTable(context.Background(), dup, nil)
	assert.True(t, IsConfigError(err))
}
