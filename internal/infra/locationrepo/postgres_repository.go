package locationrepo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/weather-advice/internal/domain/advisor"
)

const schema = `
	CREATE TABLE IF NOT EXISTS location_history (
		id           BIGSERIAL PRIMARY KEY,
		name         TEXT NOT NULL DEFAULT '',
		state        TEXT NOT NULL DEFAULT '',
		country      TEXT NOT NULL DEFAULT '',
		display_name TEXT NOT NULL DEFAULT '',
		latitude     DOUBLE PRECISION NOT NULL,
		longitude    DOUBLE PRECISION NOT NULL,
		requested_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	CREATE INDEX IF NOT EXISTS location_history_requested_at_idx ON location_history (requested_at DESC);
`

// PostgresRepository implements advisor.LocationHistory using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// EnsureSchema creates the history table when missing.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure location_history schema: %w", err)
	}
	return nil
}

// Record inserts a history row.
func (r *PostgresRepository) Record(ctx context.Context, loc advisor.Location) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO location_history (name, state, country, display_name, latitude, longitude)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, loc.Name, loc.State, loc.Country, loc.DisplayName, loc.Latitude, loc.Longitude)
	return err
}

// Recent returns the latest rows, newest first.
func (r *PostgresRepository) Recent(ctx context.Context, limit int) ([]advisor.Location, error) {
	if limit <= 0 {
		limit = defaultCapacity
	}
	rows, err := r.pool.Query(ctx, `
		SELECT name, state, country, display_name, latitude, longitude
		FROM location_history
		ORDER BY requested_at DESC, id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scanLocation)
}

func scanLocation(row pgx.CollectableRow) (advisor.Location, error) {
	var loc advisor.Location
	err := row.Scan(&loc.Name, &loc.State, &loc.Country, &loc.DisplayName, &loc.Latitude, &loc.Longitude)
	return loc, err
}

var _ advisor.LocationHistory = (*PostgresRepository)(nil)
