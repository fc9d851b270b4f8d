package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/IamTkle/capstone1-dashboard/internal/domain"
)

// liveStep marks the live snapshot row in region_snapshots
const liveStep = -1

// PostgresRepository implements domain.DatasetRepository
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// LoadRegions reads regions and their snapshots from PostgreSQL
func (r *PostgresRepository) LoadRegions(ctx context.Context) ([]domain.RawRegion, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, label, longitude, latitude
		FROM regions
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to query regions: %w", err)
	}
	defer rows.Close()

	var results []domain.RawRegion
	index := make(map[string]int)
	for rows.Next() {
		var rr domain.RawRegion
		if err := rows.Scan(&rr.ID, &rr.Label, &rr.Longitude, &rr.Latitude); err != nil {
			return nil, fmt.Errorf("postgres: failed to scan region row: %w", err)
		}
		index[rr.ID] = len(results)
		results = append(results, rr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: failed to read regions: %w", err)
	}

	if err := r.loadSnapshots(ctx, results, index); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *PostgresRepository) loadSnapshots(ctx context.Context, regions []domain.RawRegion, index map[string]int) error {
	rows, err := r.pool.Query(ctx, `
		SELECT region_id, step, population, supply, demand
		FROM region_snapshots
		ORDER BY region_id, step
	`)
	if err != nil {
		return fmt.Errorf("postgres: failed to query snapshots: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			regionID string
			step     int
			snap     domain.Snapshot
		)
		if err := rows.Scan(&regionID, &step, &snap.Population, &snap.Supply, &snap.Demand); err != nil {
			return fmt.Errorf("postgres: failed to scan snapshot row: %w", err)
		}
		i, ok := index[regionID]
		if !ok {
			continue
		}
		rr := &regions[i]
		switch {
		case step == liveStep:
			rr.Live = snap
		case step == len(rr.Series):
			rr.Series = append(rr.Series, snap)
		default:
			return fmt.Errorf("postgres: region %q snapshot step %d out of sequence", regionID, step)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("postgres: failed to read snapshots: %w", err)
	}
	return nil
}

// LoadParcels reads the farmland overlay from PostgreSQL
func (r *PostgresRepository) LoadParcels(ctx context.Context) ([]domain.Parcel, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, broad_type, area_ha, geometry
		FROM farmland_parcels
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to query farmland parcels: %w", err)
	}
	defer rows.Close()

	var results []domain.Parcel
	for rows.Next() {
		var p domain.Parcel
		var geometry []byte
		if err := rows.Scan(&p.ID, &p.BroadType, &p.AreaHa, &geometry); err != nil {
			return nil, fmt.Errorf("postgres: failed to scan parcel row: %w", err)
		}
		p.Geometry = geometry
		results = append(results, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: failed to read farmland parcels: %w", err)
	}
	return results, nil
}

// LoadBoundaries reads statistical-area outlines from PostgreSQL
func (r *PostgresRepository) LoadBoundaries(ctx context.Context) ([]domain.Boundary, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, geometry
		FROM boundaries
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to query boundaries: %w", err)
	}
	defer rows.Close()

	var results []domain.Boundary
	for rows.Next() {
		var b domain.Boundary
		var geometry []byte
		if err := rows.Scan(&b.ID, &b.Name, &geometry); err != nil {
			return nil, fmt.Errorf("postgres: failed to scan boundary row: %w", err)
		}
		b.Geometry = geometry
		results = append(results, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: failed to read boundaries: %w", err)
	}
	return results, nil
}

// Health checks database connectivity
func (r *PostgresRepository) Health(ctx context.Context) error {
	if err := r.pool.Ping(ctx); err != nil {
		return fmt.Errorf("postgres: health check failed: %w", err)
	}
	return nil
}
