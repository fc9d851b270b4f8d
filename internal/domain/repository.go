package domain

import "context"

// RawRegion is a region record as stored, before coordinates are parsed
type RawRegion struct {
	ID        string
	Label     string
	Longitude string
	Latitude  string
	Live      Snapshot
	Series    []Snapshot
}

// DatasetRepository defines where the map data is loaded from.
// The domain defines the interface; postgres and file sources implement it.
type DatasetRepository interface {
	// LoadRegions returns every region record in a stable order
	LoadRegions(ctx context.Context) ([]RawRegion, error)

	// LoadParcels returns the farmland overlay
	LoadParcels(ctx context.Context) ([]Parcel, error)

	// LoadBoundaries returns the statistical-area outlines
	LoadBoundaries(ctx context.Context) ([]Boundary, error)

	// Health checks source connectivity
	Health(ctx context.Context) error
}
