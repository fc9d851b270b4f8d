package service

import (
	"errors"
	"strconv"
	"strings"

	"github.com/IamTkle/capstone1-dashboard/internal/domain"
	"github.com/IamTkle/capstone1-dashboard/internal/metrics"
)

// Layer IDs that do not depend on render parameters
const (
	BoundaryLayerID = "sa2-geojson-layer"
	FarmlandLayerID = "farmland-geojson-layer"
)

const (
	columnDiskResolution = 6
	stackCoverageStep    = 0.03
	outlineWidth         = 100
)

var (
	demandTotalColor = domain.Color{255, 0, 71, 100}
	supplyTotalColor = domain.Color{0, 255, 0, 100}
	columnLineColor  = domain.Color{0, 0, 0, 255}

	farmlandLineColor   = domain.Color{177, 100, 50, 255}
	farmlandDefaultFill = domain.Color{255, 255, 255, 200}
	farmlandFills       = map[string]domain.Color{
		"Vegetables and herbs": {170, 100, 170, 200},
		"Animals":              {255, 100, 100, 200},
		"Fruits":               {255, 140, 0, 200},
		"Forest":               {50, 180, 100, 200},
	}

	populationRamp = []domain.Color{
		{242, 240, 247, 100},
		{218, 218, 235, 125},
		{188, 189, 220, 150},
		{158, 154, 200, 175},
		{117, 107, 177, 200},
		{84, 39, 143, 255},
	}

	boundaryFill      = domain.Color{0, 0, 0, 0}
	boundaryLineColor = domain.Color{120, 70, 50, 60}
	boundaryHighlight = domain.Color{255, 215, 0, 100}
)

// FarmlandColor returns the fill for a land-use classification
func FarmlandColor(broadType string) domain.Color {
	if c, ok := farmlandFills[broadType]; ok {
		return c
	}
	return farmlandDefaultFill
}

// LayerEngine maps render parameters onto an ordered list of layer descriptors
type LayerEngine struct {
	data        *MapData
	metrics     *MetricResolver
	discrepancy *DiscrepancyCalculator
}

// NewLayerEngine creates an engine over loaded map data
func NewLayerEngine(data *MapData) *LayerEngine {
	m := NewMetricResolver(data.Regions.Schema())
	return &LayerEngine{
		data:        data,
		metrics:     m,
		discrepancy: NewDiscrepancyCalculator(m),
	}
}

// Metrics returns the resolver the engine evaluates accessors with
func (e *LayerEngine) Metrics() *MetricResolver { return e.metrics }

// Layers builds a fresh layer list for p. Interaction callbacks are bound to d
// when it is non-nil. Unknown modes yield only the boundary overlay.
func (e *LayerEngine) Layers(p domain.LayerParams, d *Dispatcher) ([]domain.Layer, error) {
	var (
		layers []domain.Layer
		err    error
	)

	switch p.Mode {
	case domain.ModeBoth:
		layers, err = e.totalLayers(p, d)
	case domain.ModeDiscrepancy:
		layers, err = e.discrepancyLayers(p, d)
	case domain.ModeSupply:
		layers, err = e.stackedLayers(p, SupplyTotal, "supply", d)
	case domain.ModeDemand:
		layers, err = e.stackedLayers(p, DemandTotal, "demand", d)
	case domain.ModeFarmland:
		layers = []domain.Layer{e.farmlandLayer()}
	}
	if err != nil {
		metrics.LayerBuildErrorsTotal.WithLabelValues(errorKind(err)).Inc()
		return nil, err
	}

	layers = append(layers, e.boundaryLayer())
	metrics.LayerBuildsTotal.WithLabelValues(modeLabel(p.Mode)).Inc()
	metrics.LayersEmitted.Observe(float64(len(layers)))
	return layers, nil
}

// Minimap builds the overview pair for time t: a population heatmap under a
// scatterplot colored by the sign of the all-category discrepancy. Clicking a
// scatter point selects its region.
func (e *LayerEngine) Minimap(t domain.TimeIndex, d *Dispatcher) ([]domain.Layer, error) {
	if err := e.data.Regions.CheckTimeIndex(t); err != nil {
		metrics.LayerBuildErrorsTotal.WithLabelValues(errorKind(err)).Inc()
		return nil, err
	}

	heatmap := domain.Layer{
		ID:           "population-heatmap-" + t.String(),
		Geometry:     domain.GeometryHeatmap,
		Dataset:      e.data.Regions,
		Opacity:      0.8,
		RadiusPixels: 40,
		ColorRange:   populationRamp,
		Position:     regionPosition,
		Weight:       e.metricAccessor(t, Population),
	}

	scatter := domain.Layer{
		ID:              "scatterplot-layer-" + t.String(),
		Geometry:        domain.GeometryScatter,
		Dataset:         e.data.Regions,
		Pickable:        true,
		Opacity:         0.2,
		RadiusMinPixels: 3,
		RadiusMaxPixels: 5,
		Position:        regionPosition,
		FillColor: func(r *domain.Region) domain.Color {
			v, _ := e.discrepancy.Discrepancy(r, t, domain.CategoryAll)
			c := DiscrepancyColor(v)
			c[3] = 255
			return c
		},
	}
	if d != nil {
		scatter.OnClick = d.OnPick
	}

	layers := []domain.Layer{heatmap, scatter}
	metrics.LayerBuildsTotal.WithLabelValues("minimap").Inc()
	metrics.LayersEmitted.Observe(float64(len(layers)))
	return layers, nil
}

func (e *LayerEngine) totalLayers(p domain.LayerParams, d *Dispatcher) ([]domain.Layer, error) {
	if err := e.data.Regions.CheckTimeIndex(p.Time); err != nil {
		return nil, err
	}

	demand := e.column(layerID(p, "total-demand-column"), p, 0.9)
	demand.FillColor = constantFill(demandTotalColor)
	demand.Elevation = e.metricAccessor(p.Time, DemandTotal)
	e.bindInteractions(&demand, p.Time, d)

	supply := e.column(layerID(p, "total-supply-column"), p, 0.85)
	supply.FillColor = constantFill(supplyTotalColor)
	supply.Elevation = e.metricAccessor(p.Time, SupplyTotal)
	e.bindInteractions(&supply, p.Time, d)

	return []domain.Layer{demand, supply}, nil
}

func (e *LayerEngine) discrepancyLayers(p domain.LayerParams, d *Dispatcher) ([]domain.Layer, error) {
	if err := e.data.Regions.CheckTimeIndex(p.Time); err != nil {
		return nil, err
	}
	if err := e.discrepancy.CheckCategory(p.Category); err != nil {
		return nil, err
	}

	t, category := p.Time, p.Category
	// time index and category are validated above, so the accessors cannot fail
	value := func(r *domain.Region) float64 {
		v, _ := e.discrepancy.Discrepancy(r, t, category)
		return v
	}

	l := e.column(layerID(p, "discrepancy-column", category), p, 0.85)
	l.Elevation = func(r *domain.Region) float64 { return Magnitude(value(r)) }
	l.FillColor = func(r *domain.Region) domain.Color { return DiscrepancyColor(value(r)) }
	e.bindInteractions(&l, t, d)
	return []domain.Layer{l}, nil
}

// stackedLayers emits one layer per category in schema order. Layer k is as tall
// as the first k+1 categories combined, so composited columns read as a stack.
func (e *LayerEngine) stackedLayers(p domain.LayerParams, side MetricKind, sideName string, d *Dispatcher) ([]domain.Layer, error) {
	if err := e.data.Regions.CheckTimeIndex(p.Time); err != nil {
		return nil, err
	}

	categories := e.metrics.schema.Categories()
	layers := make([]domain.Layer, 0, len(categories))
	for k, c := range categories {
		depth := k + 1
		l := e.column(layerID(p, c.Key+"-"+sideName+"-column"), p, 1-stackCoverageStep*float64(k))
		l.FillColor = constantFill(c.Color)
		l.Elevation = e.cumulativeAccessor(p.Time, side, depth)
		if depth == len(categories) {
			e.bindInteractions(&l, p.Time, d)
		}
		layers = append(layers, l)
	}
	return layers, nil
}

func (e *LayerEngine) farmlandLayer() domain.Layer {
	return domain.Layer{
		ID:              FarmlandLayerID,
		Geometry:        domain.GeometryPolygon,
		Parcels:         e.data.Parcels,
		Extruded:        true,
		Pickable:        true,
		AutoHighlight:   true,
		LineColor:       farmlandLineColor,
		LineWidth:       outlineWidth,
		ParcelElevation: func(p *domain.Parcel) float64 { return p.AreaHa },
		ParcelFill:      func(p *domain.Parcel) domain.Color { return FarmlandColor(p.BroadType) },
	}
}

func (e *LayerEngine) boundaryLayer() domain.Layer {
	return domain.Layer{
		ID:             BoundaryLayerID,
		Geometry:       domain.GeometryPolygon,
		Boundaries:     e.data.Boundaries,
		Pickable:       true,
		AutoHighlight:  true,
		HighlightColor: boundaryHighlight,
		BoundaryFill:   boundaryFill,
		LineColor:      boundaryLineColor,
		LineWidth:      outlineWidth,
	}
}

func (e *LayerEngine) column(id string, p domain.LayerParams, coverage float64) domain.Layer {
	return domain.Layer{
		ID:             id,
		Geometry:       domain.GeometryColumn,
		Dataset:        e.data.Regions,
		Coverage:       coverage,
		DiskResolution: columnDiskResolution,
		ElevationScale: p.ElevationScale,
		Radius:         p.Radius,
		Extruded:       true,
		LineColor:      columnLineColor,
		Position:       regionPosition,
	}
}

func (e *LayerEngine) metricAccessor(t domain.TimeIndex, kind MetricKind) func(*domain.Region) float64 {
	return func(r *domain.Region) float64 {
		v, _ := e.metrics.Resolve(r, t, kind, "")
		return v
	}
}

func (e *LayerEngine) cumulativeAccessor(t domain.TimeIndex, side MetricKind, depth int) func(*domain.Region) float64 {
	return func(r *domain.Region) float64 {
		v, _ := e.metrics.Cumulative(r, t, side, depth)
		return v
	}
}

func (e *LayerEngine) bindInteractions(l *domain.Layer, t domain.TimeIndex, d *Dispatcher) {
	l.Pickable = true
	if d == nil {
		return
	}
	l.OnClick = d.OnPick
	l.OnHover = func(info domain.PickInfo) { d.OnHover(info, t) }
}

func regionPosition(r *domain.Region) domain.Coordinate { return r.Position }

func constantFill(c domain.Color) func(*domain.Region) domain.Color {
	return func(*domain.Region) domain.Color { return c }
}

// layerID encodes every parameter that changes a column's appearance so the
// renderer never reuses a stale layer.
func layerID(p domain.LayerParams, prefix string, extra ...string) string {
	parts := append([]string{prefix}, extra...)
	parts = append(parts,
		p.Time.String(),
		strconv.FormatFloat(p.ElevationScale, 'g', -1, 64),
		strconv.FormatFloat(p.Radius, 'g', -1, 64),
		"layer",
	)
	return strings.Join(parts, "-")
}

func modeLabel(m domain.DisplayMode) string {
	switch m {
	case domain.ModeBoth, domain.ModeDiscrepancy, domain.ModeSupply, domain.ModeDemand, domain.ModeFarmland:
		return string(m)
	default:
		return "none"
	}
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, domain.ErrIndexOutOfRange):
		return "index_out_of_range"
	case errors.Is(err, domain.ErrUnknownCategory):
		return "unknown_category"
	default:
		return "other"
	}
}
