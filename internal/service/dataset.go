package service

import (
	"context"
	"fmt"
	"log"

	"github.com/IamTkle/capstone1-dashboard/internal/domain"
	"github.com/IamTkle/capstone1-dashboard/internal/metrics"
)

// MapData is everything the layer engine draws from, loaded once at startup
type MapData struct {
	Regions    *domain.Dataset
	Parcels    []domain.Parcel
	Boundaries []domain.Boundary
}

// LoadReport summarises a dataset load
type LoadReport struct {
	Loaded   int
	Rejected []error
}

// BuildDataset parses coordinates and validates the schema invariants.
// Regions with bad coordinates are dropped and reported; a schema mismatch fails the whole load.
func BuildDataset(schema domain.CategorySchema, raw []domain.RawRegion, currentYear int) (*domain.Dataset, LoadReport, error) {
	var report LoadReport
	regions := make([]domain.Region, 0, len(raw))

	for _, rr := range raw {
		pos, err := domain.ParseCoordinate(rr.ID, rr.Longitude, rr.Latitude)
		if err != nil {
			report.Rejected = append(report.Rejected, err)
			continue
		}
		regions = append(regions, domain.Region{
			ID:       rr.ID,
			Label:    rr.Label,
			Position: pos,
			Live:     rr.Live,
			Series:   rr.Series,
		})
	}

	ds, err := domain.NewDataset(schema, regions, currentYear)
	if err != nil {
		return nil, report, err
	}
	report.Loaded = ds.Len()
	return ds, report, nil
}

// LoadMapData reads regions, parcels and boundaries from repo
func LoadMapData(ctx context.Context, repo DataRepository, schema domain.CategorySchema, currentYear int) (*MapData, LoadReport, error) {
	raw, err := repo.LoadRegions(ctx)
	if err != nil {
		return nil, LoadReport{}, fmt.Errorf("dataset: failed to load regions: %w", err)
	}

	ds, report, err := BuildDataset(schema, raw, currentYear)
	if err != nil {
		return nil, report, fmt.Errorf("dataset: %w", err)
	}
	for _, rej := range report.Rejected {
		if domain.IsCoordinateError(rej) {
			log.Printf("Skipping %v", rej)
		}
		metrics.RegionsRejectedTotal.Inc()
	}

	parcels, err := repo.LoadParcels(ctx)
	if err != nil {
		return nil, report, fmt.Errorf("dataset: failed to load farmland parcels: %w", err)
	}
	boundaries, err := repo.LoadBoundaries(ctx)
	if err != nil {
		return nil, report, fmt.Errorf("dataset: failed to load boundaries: %w", err)
	}

	return &MapData{Regions: ds, Parcels: parcels, Boundaries: boundaries}, report, nil
}
