package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IamTkle/capstone1-dashboard/internal/domain"
)

type stubRepository struct {
	regions    []domain.RawRegion
	parcels    []domain.Parcel
	boundaries []domain.Boundary
	err        error
}

func (s *stubRepository) LoadRegions(ctx context.Context) ([]domain.RawRegion, error) {
	return s.regions, s.err
}

func (s *stubRepository) LoadParcels(ctx context.Context) ([]domain.Parcel, error) {
	return s.parcels, s.err
}

func (s *stubRepository) LoadBoundaries(ctx context.Context) ([]domain.Boundary, error) {
	return s.boundaries, s.err
}

func (s *stubRepository) Health(ctx context.Context) error { return s.err }

func TestBuildDataset(t *testing.T) {
	schema := testSchema(t)

	t.Run("should drop regions with unparseable coordinates", func(t *testing.T) {
		raw := testRawRegions()
		raw[0].Latitude = "north-ish"

		ds, report, err := BuildDataset(schema, raw, 2021)
		require.NoError(t, err)
		assert.Equal(t, 1, ds.Len())
		assert.Equal(t, 1, report.Loaded)
		require.Len(t, report.Rejected, 1)
		assert.ErrorIs(t, report.Rejected[0], domain.ErrCoordinateParse)

		var cerr *domain.CoordinateParseError
		require.ErrorAs(t, report.Rejected[0], &cerr)
		assert.Equal(t, "townsville", cerr.RegionID)

		_, err = ds.Region("springfield")
		assert.NoError(t, err)
	})

	t.Run("should fail the load on a schema mismatch", func(t *testing.T) {
		raw := testRawRegions()
		raw[1].Series[4].Demand["fish"] = 3

		_, _, err := BuildDataset(schema, raw, 2021)
		assert.ErrorIs(t, err, domain.ErrSchemaMismatch)
	})
}

func TestLoadMapData(t *testing.T) {
	schema := testSchema(t)

	t.Run("should load regions, parcels and boundaries", func(t *testing.T) {
		raw := testRawRegions()
		raw = append(raw, domain.RawRegion{ID: "nowhere", Longitude: "", Latitude: "1", Live: raw[0].Live, Series: raw[0].Series})
		repo := &stubRepository{
			regions:    raw,
			parcels:    []domain.Parcel{{ID: "p1", BroadType: "Animals"}},
			boundaries: []domain.Boundary{{ID: "b1"}, {ID: "b2"}},
		}

		data, report, err := LoadMapData(context.Background(), repo, schema, 2021)
		require.NoError(t, err)
		assert.Equal(t, 2, data.Regions.Len())
		assert.Len(t, report.Rejected, 1)
		assert.Len(t, data.Parcels, 1)
		assert.Len(t, data.Boundaries, 2)
		assert.Equal(t, 2015, data.Regions.EarliestYear())
	})

	t.Run("should surface repository errors", func(t *testing.T) {
		_, _, err := LoadMapData(context.Background(), &stubRepository{err: errors.New("boom")}, schema, 2021)
		assert.ErrorContains(t, err, "boom")
	})
}
