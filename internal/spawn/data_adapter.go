package spawn

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/udisondev/herbfield/internal/model"
)

// HerbSource loads the herb definitions the weighted table is built from.
type HerbSource interface {
	LoadAll(ctx context.Context) ([]*model.HerbType, error)
}

// StaticHerbSource implements HerbSource over an in-memory list (YAML config, tests).
type StaticHerbSource struct {
	herbs []*model.HerbType
}

// NewStaticHerbSource creates a StaticHerbSource adapter.
func NewStaticHerbSource(herbs []*model.HerbType) *StaticHerbSource {
	return &StaticHerbSource{herbs: slices.Clone(herbs)}
}

// LoadAll returns configured herbs.
func (s *StaticHerbSource) LoadAll(_ context.Context) ([]*model.HerbType, error) {
	return slices.Clone(s.herbs), nil
}

// LoadTable loads herbs from source, drops excluded IDs and builds the table.
func LoadTable(ctx context.Context, source HerbSource, exclude []string) (*Table, error) {
	herbs, err := source.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading herb types: %w", err)
	}

	if len(exclude) > 0 {
		herbs = slices.DeleteFunc(herbs, func(h *model.HerbType) bool {
			return h != nil && slices.Contains(exclude, h.ID())
		})
	}

	table, err := NewTable(herbs)
	if err != nil {
		return nil, fmt.Errorf("building herb table: %w", err)
	}

	slog.Info("herb table loaded", "count", table.Len(), "totalWeight", table.TotalWeight(), "excluded", len(exclude))
	return table, nil
}
