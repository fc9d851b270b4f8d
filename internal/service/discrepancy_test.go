package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IamTkle/capstone1-dashboard/internal/domain"
)

func TestDiscrepancy(t *testing.T) {
	data := testMapData(t)
	m := NewMetricResolver(data.Regions.Schema())
	calc := NewDiscrepancyCalculator(m)
	town := region(t, data, "townsville")

	t.Run("should subtract supply from demand for one category", func(t *testing.T) {
		v, err := calc.Discrepancy(town, domain.Live, "meat")
		require.NoError(t, err)
		assert.Equal(t, 5.0, v)
		assert.Equal(t, DeficitColor, DiscrepancyColor(v))
		assert.Equal(t, 5.0, Magnitude(v))
	})

	t.Run("should match the totals for all categories", func(t *testing.T) {
		for _, r := range data.Regions.Regions() {
			r := r
			for ti := domain.Live; int(ti) < data.Regions.SeriesLength(); ti++ {
				v, err := calc.Discrepancy(&r, ti, domain.CategoryAll)
				require.NoError(t, err)

				demand, _ := m.Resolve(&r, ti, DemandTotal, "")
				supply, _ := m.Resolve(&r, ti, SupplyTotal, "")
				assert.Equal(t, demand-supply, v)
			}
		}
	})

	t.Run("should treat surplus and balance as surplus color", func(t *testing.T) {
		v, err := calc.Discrepancy(town, domain.Live, domain.CategoryAll)
		require.NoError(t, err)
		assert.Equal(t, -10.0, v)
		assert.Equal(t, SurplusColor, DiscrepancyColor(v))
		assert.Equal(t, 10.0, Magnitude(v))
		assert.Equal(t, SurplusColor, DiscrepancyColor(0))
	})

	t.Run("should reject unknown categories", func(t *testing.T) {
		_, err := calc.Discrepancy(town, domain.Live, "fish")
		assert.ErrorIs(t, err, domain.ErrUnknownCategory)
	})

	t.Run("should propagate index errors", func(t *testing.T) {
		_, err := calc.Discrepancy(town, 7, "meat")
		assert.ErrorIs(t, err, domain.ErrIndexOutOfRange)
	})
}
