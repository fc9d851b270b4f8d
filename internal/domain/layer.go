package domain

// DisplayMode selects which metric layers the map shows
type DisplayMode string

const (
	ModeBoth        DisplayMode = "both"
	ModeDiscrepancy DisplayMode = "diff"
	ModeSupply      DisplayMode = "supply"
	ModeDemand      DisplayMode = "demand"
	ModeFarmland    DisplayMode = "farm"
)

// CategoryAll is the category filter covering every schema category
const CategoryAll = "all"

// LayerParams is everything a render pass depends on
type LayerParams struct {
	Mode           DisplayMode `json:"mode"`
	Category       string      `json:"category"`
	Time           TimeIndex   `json:"time"`
	ElevationScale float64     `json:"elevationScale"`
	Radius         float64     `json:"radius"`
}

// DefaultLayerParams mirrors the initial state of the map controls
func DefaultLayerParams() LayerParams {
	return LayerParams{
		Mode:           ModeBoth,
		Category:       CategoryAll,
		Time:           0,
		ElevationScale: 0.5,
		Radius:         200,
	}
}

// Geometry is the shape family the renderer draws for a layer
type Geometry string

const (
	GeometryColumn  Geometry = "column"
	GeometryPolygon Geometry = "polygon"
	GeometryHeatmap Geometry = "heatmap"
	GeometryScatter Geometry = "scatter"
)

// PickInfo is a pointer event resolved by the renderer to a region
type PickInfo struct {
	Region *Region
	X      float64
	Y      float64
}

// Layer is a render directive for one pass. Column, heatmap and scatter layers
// read Dataset through the region accessors; polygon layers read Parcels or Boundaries.
// Layers are built fresh per parameter change and never mutated.
type Layer struct {
	ID       string
	Geometry Geometry

	Dataset    *Dataset
	Parcels    []Parcel
	Boundaries []Boundary

	Coverage       float64
	DiskResolution int
	ElevationScale float64
	Radius         float64
	Extruded       bool
	Pickable       bool
	AutoHighlight  bool
	HighlightColor Color
	LineColor      Color
	LineWidth      float64

	Opacity         float64
	RadiusPixels    float64
	RadiusMinPixels float64
	RadiusMaxPixels float64
	ColorRange      []Color

	Position  func(r *Region) Coordinate
	Elevation func(r *Region) float64
	FillColor func(r *Region) Color
	Weight    func(r *Region) float64

	ParcelElevation func(p *Parcel) float64
	ParcelFill      func(p *Parcel) Color

	// BoundaryFill is the constant fill of boundary outlines
	BoundaryFill Color

	OnClick func(PickInfo)
	OnHover func(PickInfo)
}
