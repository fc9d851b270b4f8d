package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IamTkle/capstone1-dashboard/internal/domain"
)

func TestMetricResolverTotals(t *testing.T) {
	data := testMapData(t)
	m := NewMetricResolver(data.Regions.Schema())
	town := region(t, data, "townsville")

	t.Run("should sum every category on the live snapshot", func(t *testing.T) {
		supply, err := m.Resolve(town, domain.Live, SupplyTotal, "")
		require.NoError(t, err)
		assert.Equal(t, 30.0, supply)

		demand, err := m.Resolve(town, domain.Live, DemandTotal, "")
		require.NoError(t, err)
		assert.Equal(t, 20.0, demand)
	})

	t.Run("should read the indexed series entry", func(t *testing.T) {
		supply, err := m.Resolve(town, 3, SupplyTotal, "")
		require.NoError(t, err)
		assert.Equal(t, 4.0+8.0, supply)

		pop, err := m.Resolve(town, 3, Population, "")
		require.NoError(t, err)
		assert.Equal(t, 1030.0, pop)
	})

	t.Run("should fail at the series length", func(t *testing.T) {
		_, err := m.Resolve(town, domain.TimeIndex(data.Regions.SeriesLength()), SupplyTotal, "")
		assert.ErrorIs(t, err, domain.ErrIndexOutOfRange)
	})
}

func TestMetricResolverCategories(t *testing.T) {
	data := testMapData(t)
	m := NewMetricResolver(data.Regions.Schema())
	town := region(t, data, "townsville")

	v, err := m.Resolve(town, domain.Live, DemandCategory, "meat")
	require.NoError(t, err)
	assert.Equal(t, 15.0, v)

	_, err = m.Resolve(town, domain.Live, SupplyCategory, "fish")
	assert.ErrorIs(t, err, domain.ErrUnknownCategory)

	_, err = m.Resolve(town, domain.Live, SupplyCategory, domain.CategoryAll)
	assert.ErrorIs(t, err, domain.ErrUnknownCategory)

	_, err = m.Resolve(town, domain.Live, MetricKind(99), "")
	assert.Error(t, err)
}

func TestMetricResolverAdditivity(t *testing.T) {
	data := testMapData(t)
	m := NewMetricResolver(data.Regions.Schema())
	keys := data.Regions.Schema().Keys()

	times := []domain.TimeIndex{domain.Live}
	for i := 0; i < data.Regions.SeriesLength(); i++ {
		times = append(times, domain.TimeIndex(i))
	}

	for _, r := range data.Regions.Regions() {
		r := r
		for _, ti := range times {
			for _, kind := range []struct{ total, category MetricKind }{
				{SupplyTotal, SupplyCategory},
				{DemandTotal, DemandCategory},
			} {
				total, err := m.Resolve(&r, ti, kind.total, "")
				require.NoError(t, err)

				var sum float64
				for _, k := range keys {
					v, err := m.Resolve(&r, ti, kind.category, k)
					require.NoError(t, err)
					sum += v
				}
				assert.Equal(t, sum, total, "region %s time %s %s", r.ID, ti, kind.total)

				full, err := m.Cumulative(&r, ti, kind.total, len(keys))
				require.NoError(t, err)
				assert.Equal(t, total, full)
			}
		}
	}
}

func TestMetricResolverCumulative(t *testing.T) {
	data := testMapData(t)
	m := NewMetricResolver(data.Regions.Schema())
	town := region(t, data, "townsville")

	first, err := m.Cumulative(town, domain.Live, SupplyTotal, 1)
	require.NoError(t, err)
	assert.Equal(t, 10.0, first)

	none, err := m.Cumulative(town, domain.Live, DemandTotal, 0)
	require.NoError(t, err)
	assert.Zero(t, none)

	_, err = m.Cumulative(town, domain.Live, SupplyTotal, 3)
	assert.Error(t, err)

	_, err = m.Cumulative(town, domain.Live, SupplyCategory, 1)
	assert.Error(t, err)
}
