package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/herbfield/internal/model"
)

// HerbRepository loads and stores herb definitions (implements spawn.HerbSource).
type HerbRepository struct {
	pool *pgxpool.Pool
}

// NewHerbRepository creates a new herb repository
func NewHerbRepository(pool *pgxpool.Pool) *HerbRepository {
	return &HerbRepository{pool: pool}
}

// LoadAll loads enabled herbs in table order.
func (r *HerbRepository) LoadAll(ctx context.Context) ([]*model.HerbType, error) {
	query := `
		SELECT herb_id, name, weight, icon
		FROM herb_types
		WHERE enabled
		ORDER BY sort_order, herb_id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("loading herb types: %w", err)
	}
	defer rows.Close()

	herbs := make([]*model.HerbType, 0, 16)
	for rows.Next() {
		var (
			id, name, icon string
			weight         float64
		)
		if err := rows.Scan(&id, &name, &weight, &icon); err != nil {
			return nil, fmt.Errorf("scanning herb row: %w", err)
		}
		herbs = append(herbs, model.NewHerbType(id, name, weight, icon))
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating herb rows: %w", err)
	}

	return herbs, nil
}

// Upsert creates or replaces a herb definition at the given sort position.
func (r *HerbRepository) Upsert(ctx context.Context, herb *model.HerbType, sortOrder int) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO herb_types (herb_id, name, weight, icon, sort_order, enabled)
		VALUES ($1, $2, $3, $4, $5, TRUE)
		ON CONFLICT (herb_id) DO UPDATE
		SET name = EXCLUDED.name, weight = EXCLUDED.weight, icon = EXCLUDED.icon,
		    sort_order = EXCLUDED.sort_order, enabled = TRUE
	`, herb.ID(), herb.Name(), herb.Weight(), herb.Icon(), sortOrder)
	if err != nil {
		return fmt.Errorf("upserting herb %q: %w", herb.ID(), err)
	}
	return nil
}

// SetEnabled toggles whether herb takes part in spawning.
func (r *HerbRepository) SetEnabled(ctx context.Context, herbID string, enabled bool) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE herb_types SET enabled = $1 WHERE herb_id = $2`, enabled, herbID)
	if err != nil {
		return fmt.Errorf("updating herb %q: %w", herbID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("updating herb %q: not found", herbID)
	}
	return nil
}
