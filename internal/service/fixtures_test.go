package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/IamTkle/capstone1-dashboard/internal/domain"
)

var (
	meatColor  = domain.Color{255, 71, 51, 180}
	carbsColor = domain.Color{189, 140, 132, 180}
)

func testSchema(t *testing.T) domain.CategorySchema {
	t.Helper()
	s, err := domain.NewCategorySchema("test",
		domain.Category{Key: "meat", Label: "Meat", Color: meatColor},
		domain.Category{Key: "carbs", Label: "Grains", Color: carbsColor},
	)
	require.NoError(t, err)
	return s
}

func snapshot(pop, supplyMeat, supplyCarbs, demandMeat, demandCarbs float64) domain.Snapshot {
	return domain.Snapshot{
		Population: pop,
		Supply:     map[string]float64{"meat": supplyMeat, "carbs": supplyCarbs},
		Demand:     map[string]float64{"meat": demandMeat, "carbs": demandCarbs},
	}
}

// testRawRegions returns Townsville (deficit in meat) and Springfield (surplus),
// each with a seven-year series.
func testRawRegions() []domain.RawRegion {
	townsville := domain.RawRegion{
		ID: "townsville", Label: "Townsville", Longitude: "146.8169", Latitude: "-19.2590",
		Live: snapshot(1200, 10, 20, 15, 5),
	}
	springfield := domain.RawRegion{
		ID: "springfield", Label: "Springfield", Longitude: "152.9167", Latitude: "-27.6833",
		Live: snapshot(800, 40, 40, 10, 10),
	}
	for i := 0; i < 7; i++ {
		f := float64(i)
		townsville.Series = append(townsville.Series, snapshot(1000+10*f, 1+f, 2+2*f, 3+3*f, 1))
		springfield.Series = append(springfield.Series, snapshot(500+f, 30, 30, 5+f, 5))
	}
	return []domain.RawRegion{townsville, springfield}
}

func testMapData(t *testing.T) *MapData {
	t.Helper()
	ds, report, err := BuildDataset(testSchema(t), testRawRegions(), 2021)
	require.NoError(t, err)
	require.Empty(t, report.Rejected)
	return &MapData{
		Regions: ds,
		Parcels: []domain.Parcel{
			{ID: "p1", BroadType: "Fruits", AreaHa: 80},
			{ID: "p2", BroadType: "Wheat", AreaHa: 12},
		},
		Boundaries: []domain.Boundary{{ID: "b1", Name: "Townsville"}},
	}
}

func region(t *testing.T, data *MapData, id string) *domain.Region {
	t.Helper()
	r, err := data.Regions.Region(id)
	require.NoError(t, err)
	return r
}

// recordingHost captures dispatcher side effects
type recordingHost struct {
	selected []domain.Region
	tooltips []Tooltip
	hides    int
}

func (h *recordingHost) SelectRegion(r domain.Region) { h.selected = append(h.selected, r) }
func (h *recordingHost) ShowTooltip(t Tooltip)        { h.tooltips = append(h.tooltips, t) }
func (h *recordingHost) HideTooltip()                 { h.hides++ }
