package postgres

import (
	"context"
	"encoding/json"

	"github.com/IamTkle/capstone1-dashboard/internal/domain"
)

// MockRepository implements domain.DatasetRepository with a small built-in
// Perth dataset for demo mode
type MockRepository struct {
	schema       domain.CategorySchema
	seriesLength int
}

// NewMockRepository creates a new mock repository keyed by schema
func NewMockRepository(schema domain.CategorySchema, seriesLength int) *MockRepository {
	return &MockRepository{schema: schema, seriesLength: seriesLength}
}

var mockSuburbs = []struct {
	id, label, lon, lat string
	population          float64
	supplyBias          float64
}{
	{"perth", "Perth", "115.8605", "-31.9505", 26000, 0.6},
	{"fremantle", "Fremantle", "115.7479", "-32.0569", 29000, 1.1},
	{"joondalup", "Joondalup", "115.7661", "-31.7448", 13000, 0.8},
	{"armadale", "Armadale", "116.0146", "-32.1530", 12000, 1.4},
}

// LoadRegions returns the demo suburbs with deterministic supply and demand
func (r *MockRepository) LoadRegions(ctx context.Context) ([]domain.RawRegion, error) {
	keys := r.schema.Keys()
	regions := make([]domain.RawRegion, 0, len(mockSuburbs))
	for _, s := range mockSuburbs {
		rr := domain.RawRegion{
			ID:        s.id,
			Label:     s.label,
			Longitude: s.lon,
			Latitude:  s.lat,
			Series:    make([]domain.Snapshot, r.seriesLength),
		}
		for step := 0; step < r.seriesLength; step++ {
			growth := 1 + 0.02*float64(step)
			rr.Series[step] = mockSnapshot(keys, s.population*growth, s.supplyBias)
		}
		rr.Live = mockSnapshot(keys, s.population*(1+0.02*float64(r.seriesLength)), s.supplyBias)
		regions = append(regions, rr)
	}
	return regions, nil
}

func mockSnapshot(keys []string, population, supplyBias float64) domain.Snapshot {
	snap := domain.Snapshot{
		Population: float64(int(population)),
		Supply:     make(map[string]float64, len(keys)),
		Demand:     make(map[string]float64, len(keys)),
	}
	for i, k := range keys {
		demand := float64(int(population/100)) / float64(i+1)
		snap.Demand[k] = float64(int(demand))
		snap.Supply[k] = float64(int(demand * supplyBias))
	}
	return snap
}

// LoadParcels returns one parcel per land-use class around Perth
func (r *MockRepository) LoadParcels(ctx context.Context) ([]domain.Parcel, error) {
	return []domain.Parcel{
		{ID: "parcel-1", BroadType: "Vegetables and herbs", AreaHa: 120, Geometry: mockSquare(115.90, -31.80)},
		{ID: "parcel-2", BroadType: "Animals", AreaHa: 340, Geometry: mockSquare(116.05, -31.85)},
		{ID: "parcel-3", BroadType: "Fruits", AreaHa: 80, Geometry: mockSquare(116.00, -32.05)},
		{ID: "parcel-4", BroadType: "Forest", AreaHa: 510, Geometry: mockSquare(116.10, -32.20)},
	}, nil
}

// LoadBoundaries returns a boundary square per demo suburb
func (r *MockRepository) LoadBoundaries(ctx context.Context) ([]domain.Boundary, error) {
	out := make([]domain.Boundary, 0, len(mockSuburbs))
	for _, s := range mockSuburbs {
		pos, err := domain.ParseCoordinate(s.id, s.lon, s.lat)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.Boundary{ID: s.id, Name: s.label, Geometry: mockSquare(pos.Longitude, pos.Latitude)})
	}
	return out, nil
}

// Health always returns nil in mock mode
func (r *MockRepository) Health(ctx context.Context) error {
	return nil
}

func mockSquare(lon, lat float64) json.RawMessage {
	const d = 0.02
	geom := map[string]any{
		"type": "Polygon",
		"coordinates": [][][2]float64{{
			{lon - d, lat - d}, {lon + d, lat - d}, {lon + d, lat + d}, {lon - d, lat + d}, {lon - d, lat - d},
		}},
	}
	b, _ := json.Marshal(geom)
	return b
}
