package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const regionsJSON = `[
  {
    "suburb": "Subiaco",
    "longitude": "115.8265",
    "latitude": "-31.9485",
    "population": 9000,
    "supply": {"meat": 10, "carbs": 5},
    "demand": {"meat": 12, "carbs": 4},
    "simulation": [
      {"population": 8800, "supply": {"meat": 9, "carbs": 5}, "demand": {"meat": 11, "carbs": 4}},
      {"population": 8900, "supply": {"meat": 9, "carbs": 6}, "demand": {"meat": 12, "carbs": 4}}
    ]
  },
  {
    "id": "cottesloe",
    "suburb": "Cottesloe",
    "longitude": 115.7583,
    "latitude": -31.9959,
    "population": 7500,
    "supply": {"meat": 3, "carbs": 3},
    "demand": {"meat": 4, "carbs": 2},
    "simulation": []
  },
  {"longitude": null, "latitude": " -32.1 "},
  {"id": 7, "suburb": "Claremont", "longitude": 115.78, "latitude": -31.98}
]`

const farmlandGeoJSON = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "properties": {"OBJECTID": 17, "Broad_type": "Fruits", "Area_ha": 42.5},
     "geometry": {"type": "Polygon", "coordinates": [[[116,-32],[116.1,-32],[116.1,-32.1],[116,-32]]]}},
    {"type": "Feature", "id": "f-2", "properties": {"Broad_type": "Forest", "Area_ha": "7"}, "geometry": null}
  ]
}`

const boundariesGeoJSON = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "properties": {"SA2_MAIN11": "506011107", "SA2_NAME11": "Subiaco"}, "geometry": null},
    {"type": "Feature", "properties": {"name": "Somewhere"}, "geometry": null}
  ]
}`

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	return dir
}

func TestLoadRegions(t *testing.T) {
	repo := NewRepository(writeFiles(t, map[string]string{RegionsFile: regionsJSON}))

	regions, err := repo.LoadRegions(context.Background())
	require.NoError(t, err)
	require.Len(t, regions, 4)

	subiaco := regions[0]
	assert.Equal(t, "Subiaco", subiaco.ID, "id falls back to the suburb name")
	assert.Equal(t, "Subiaco", subiaco.Label)
	assert.Equal(t, "115.8265", subiaco.Longitude)
	assert.Equal(t, "-31.9485", subiaco.Latitude)
	assert.Equal(t, 9000.0, subiaco.Live.Population)
	assert.Equal(t, 12.0, subiaco.Live.Demand["meat"])
	require.Len(t, subiaco.Series, 2)
	assert.Equal(t, 8900.0, subiaco.Series[1].Population)
	assert.Equal(t, 6.0, subiaco.Series[1].Supply["carbs"])

	cottesloe := regions[1]
	assert.Equal(t, "cottesloe", cottesloe.ID)
	assert.Equal(t, "115.7583", cottesloe.Longitude, "numeric coordinates keep their text")
	assert.Empty(t, cottesloe.Series)

	unnamed := regions[2]
	assert.Equal(t, "2", unnamed.ID, "id falls back to the record index")
	assert.Empty(t, unnamed.Longitude)
	assert.Equal(t, " -32.1 ", unnamed.Latitude)

	claremont := regions[3]
	assert.Equal(t, "7", claremont.ID, "numeric ids keep their text")
	assert.Equal(t, "Claremont", claremont.Label)
}

func TestLoadRegionsErrors(t *testing.T) {
	_, err := NewRepository(t.TempDir()).LoadRegions(context.Background())
	assert.ErrorIs(t, err, os.ErrNotExist)

	repo := NewRepository(writeFiles(t, map[string]string{RegionsFile: `{"not": "a list"}`}))
	_, err = repo.LoadRegions(context.Background())
	assert.ErrorContains(t, err, "failed to decode regions")
}

func TestLoadParcelsAndBoundaries(t *testing.T) {
	repo := NewRepository(writeFiles(t, map[string]string{
		FarmlandFile:   farmlandGeoJSON,
		BoundariesFile: boundariesGeoJSON,
	}))
	ctx := context.Background()

	parcels, err := repo.LoadParcels(ctx)
	require.NoError(t, err)
	require.Len(t, parcels, 2)
	assert.Equal(t, "17", parcels[0].ID)
	assert.Equal(t, "Fruits", parcels[0].BroadType)
	assert.Equal(t, 42.5, parcels[0].AreaHa)
	assert.JSONEq(t, `{"type": "Polygon", "coordinates": [[[116,-32],[116.1,-32],[116.1,-32.1],[116,-32]]]}`, string(parcels[0].Geometry))
	assert.Equal(t, "f-2", parcels[1].ID)
	assert.Equal(t, 7.0, parcels[1].AreaHa)

	boundaries, err := repo.LoadBoundaries(ctx)
	require.NoError(t, err)
	require.Len(t, boundaries, 2)
	assert.Equal(t, "506011107", boundaries[0].ID)
	assert.Equal(t, "Subiaco", boundaries[0].Name)
	assert.Equal(t, "1", boundaries[1].ID)
	assert.Equal(t, "Somewhere", boundaries[1].Name)
}

func TestMissingGeoJSONIsEmpty(t *testing.T) {
	repo := NewRepository(writeFiles(t, map[string]string{RegionsFile: regionsJSON}))
	ctx := context.Background()

	parcels, err := repo.LoadParcels(ctx)
	require.NoError(t, err)
	assert.Empty(t, parcels)

	boundaries, err := repo.LoadBoundaries(ctx)
	require.NoError(t, err)
	assert.Empty(t, boundaries)

	assert.NoError(t, repo.Health(ctx))
	assert.Error(t, NewRepository(t.TempDir()).Health(ctx))
}

func TestRejectsNonFeatureCollection(t *testing.T) {
	repo := NewRepository(writeFiles(t, map[string]string{FarmlandFile: `{"type": "Feature"}`}))

	_, err := repo.LoadParcels(context.Background())
	assert.ErrorContains(t, err, "want FeatureCollection")
}
