// Package file loads the map dataset from JSON and GeoJSON files on disk.
package file

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/IamTkle/capstone1-dashboard/internal/domain"
)

// File names looked up inside the dataset directory
const (
	RegionsFile    = "regions.json"
	FarmlandFile   = "farmland.geojson"
	BoundariesFile = "boundaries.geojson"
)

// Repository implements domain.DatasetRepository over a directory
type Repository struct {
	dir string
}

// NewRepository creates a repository reading from dir
func NewRepository(dir string) *Repository {
	return &Repository{dir: dir}
}

type snapshotRecord struct {
	Population float64            `json:"population"`
	Supply     map[string]float64 `json:"supply"`
	Demand     map[string]float64 `json:"demand"`
}

type regionRecord struct {
	ID         json.RawMessage    `json:"id"`
	Suburb     string             `json:"suburb"`
	Longitude  json.RawMessage    `json:"longitude"`
	Latitude   json.RawMessage    `json:"latitude"`
	Population float64            `json:"population"`
	Supply     map[string]float64 `json:"supply"`
	Demand     map[string]float64 `json:"demand"`
	Simulation []snapshotRecord   `json:"simulation"`
}

// LoadRegions decodes regions.json; coordinates may be strings or numbers
func (r *Repository) LoadRegions(ctx context.Context) ([]domain.RawRegion, error) {
	b, err := os.ReadFile(filepath.Join(r.dir, RegionsFile))
	if err != nil {
		return nil, fmt.Errorf("file: failed to read regions: %w", err)
	}

	var records []regionRecord
	if err := json.Unmarshal(b, &records); err != nil {
		return nil, fmt.Errorf("file: failed to decode regions: %w", err)
	}

	out := make([]domain.RawRegion, 0, len(records))
	for i, rec := range records {
		id := rawScalar(rec.ID)
		if id == "" {
			id = rec.Suburb
		}
		if id == "" {
			id = strconv.Itoa(i)
		}
		rr := domain.RawRegion{
			ID:        id,
			Label:     rec.Suburb,
			Longitude: rawScalar(rec.Longitude),
			Latitude:  rawScalar(rec.Latitude),
			Live: domain.Snapshot{
				Population: rec.Population,
				Supply:     rec.Supply,
				Demand:     rec.Demand,
			},
			Series: make([]domain.Snapshot, len(rec.Simulation)),
		}
		for step, s := range rec.Simulation {
			rr.Series[step] = domain.Snapshot(s)
		}
		out = append(out, rr)
	}
	return out, nil
}

// rawScalar turns a JSON string or number into its textual form for later parsing.
// Absent and null values yield "".
func rawScalar(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
	}
	return string(raw)
}

type featureCollection struct {
	Type     string    `json:"type"`
	Features []feature `json:"features"`
}

type feature struct {
	ID         json.RawMessage `json:"id"`
	Properties map[string]any  `json:"properties"`
	Geometry   json.RawMessage `json:"geometry"`
}

// LoadParcels decodes farmland.geojson; a missing file yields no parcels
func (r *Repository) LoadParcels(ctx context.Context) ([]domain.Parcel, error) {
	features, err := r.readFeatures(FarmlandFile)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Parcel, 0, len(features))
	for i, f := range features {
		out = append(out, domain.Parcel{
			ID:        featureID(f, i, "OBJECTID", "id"),
			BroadType: stringProp(f.Properties, "Broad_type"),
			AreaHa:    floatProp(f.Properties, "Area_ha"),
			Geometry:  f.Geometry,
		})
	}
	return out, nil
}

// LoadBoundaries decodes boundaries.geojson; a missing file yields no boundaries
func (r *Repository) LoadBoundaries(ctx context.Context) ([]domain.Boundary, error) {
	features, err := r.readFeatures(BoundariesFile)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Boundary, 0, len(features))
	for i, f := range features {
		name := stringProp(f.Properties, "SA2_NAME11")
		if name == "" {
			name = stringProp(f.Properties, "name")
		}
		out = append(out, domain.Boundary{
			ID:       featureID(f, i, "SA2_MAIN11", "id"),
			Name:     name,
			Geometry: f.Geometry,
		})
	}
	return out, nil
}

// Health checks the dataset directory is readable
func (r *Repository) Health(ctx context.Context) error {
	if _, err := os.Stat(filepath.Join(r.dir, RegionsFile)); err != nil {
		return fmt.Errorf("file: health check failed: %w", err)
	}
	return nil
}

func (r *Repository) readFeatures(name string) ([]feature, error) {
	b, err := os.ReadFile(filepath.Join(r.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("file: failed to read %s: %w", name, err)
	}

	var fc featureCollection
	if err := json.Unmarshal(b, &fc); err != nil {
		return nil, fmt.Errorf("file: failed to decode %s: %w", name, err)
	}
	if fc.Type != "FeatureCollection" {
		return nil, fmt.Errorf("file: %s is a %q, want FeatureCollection", name, fc.Type)
	}
	return fc.Features, nil
}

func featureID(f feature, i int, keys ...string) string {
	if id := rawScalar(f.ID); id != "" {
		return id
	}
	for _, k := range keys {
		switch v := f.Properties[k].(type) {
		case string:
			return v
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return strconv.Itoa(i)
}

func stringProp(props map[string]any, key string) string {
	s, _ := props[key].(string)
	return s
}

func floatProp(props map[string]any, key string) float64 {
	switch v := props[key].(type) {
	case float64:
		return v
	case string:
		f, _ := strconv.ParseFloat(v, 64)
		return f
	default:
		return 0
	}
}
