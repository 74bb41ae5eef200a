package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/herbfield/internal/spawn"
)

// HarvestRepository is the gather ledger (implements spawn.HarvestRecorder).
type HarvestRepository struct {
	pool *pgxpool.Pool
}

// NewHarvestRepository creates a new harvest repository
func NewHarvestRepository(pool *pgxpool.Pool) *HarvestRepository {
	return &HarvestRepository{pool: pool}
}

// Record inserts a harvest record.
func (r *HarvestRepository) Record(ctx context.Context, rec spawn.HarvestRecord) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO harvests (player_id, herb_id, count, x, y, harvested_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, rec.PlayerID, rec.HerbID, rec.Count, rec.Position.X, rec.Position.Y, rec.HarvestedAt)
	if err != nil {
		return fmt.Errorf("recording harvest of %q for player %s: %w", rec.HerbID, rec.PlayerID, err)
	}
	return nil
}

// Totals returns gathered item counts per herb for a player.
func (r *HarvestRepository) Totals(ctx context.Context, playerID string) (map[string]int, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT herb_id, SUM(count)
		FROM harvests
		WHERE player_id = $1
		GROUP BY herb_id
	`, playerID)
	if err != nil {
		return nil, fmt.Errorf("loading harvest totals for player %s: %w", playerID, err)
	}
	defer rows.Close()

	totals := make(map[string]int)
	for rows.Next() {
		var (
			herbID string
			total  int64
		)
		if err := rows.Scan(&herbID, &total); err != nil {
			return nil, fmt.Errorf("scanning harvest total: %w", err)
		}
		totals[herbID] = int(total)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating harvest totals: %w", err)
	}

	return totals, nil
}
