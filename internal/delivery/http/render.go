package http

import (
	"encoding/json"

	"github.com/IamTkle/capstone1-dashboard/internal/domain"
)

// layerResponse is a layer with its accessors evaluated for every feature
type layerResponse struct {
	ID             string            `json:"id"`
	Geometry       domain.Geometry   `json:"geometry"`
	Coverage       float64           `json:"coverage,omitempty"`
	DiskResolution int               `json:"diskResolution,omitempty"`
	ElevationScale float64           `json:"elevationScale,omitempty"`
	Radius         float64           `json:"radius,omitempty"`
	Extruded       bool              `json:"extruded"`
	Pickable       bool              `json:"pickable"`
	AutoHighlight  bool              `json:"autoHighlight"`
	HighlightColor *domain.Color     `json:"highlightColor,omitempty"`
	LineColor      domain.Color      `json:"lineColor"`
	LineWidth      float64           `json:"lineWidth,omitempty"`
	Opacity        float64           `json:"opacity,omitempty"`
	RadiusPixels   float64           `json:"radiusPixels,omitempty"`
	RadiusMin      float64           `json:"radiusMinPixels,omitempty"`
	RadiusMax      float64           `json:"radiusMaxPixels,omitempty"`
	ColorRange     []domain.Color    `json:"colorRange,omitempty"`
	Features       []featureResponse `json:"features"`
}

type featureResponse struct {
	ID        string             `json:"id"`
	Label     string             `json:"label,omitempty"`
	Position  *domain.Coordinate `json:"position,omitempty"`
	Elevation float64            `json:"elevation"`
	Weight    *float64           `json:"weight,omitempty"`
	FillColor domain.Color       `json:"fillColor"`
	Geometry  json.RawMessage    `json:"geometry,omitempty"`
}

func renderLayers(layers []domain.Layer) []layerResponse {
	out := make([]layerResponse, 0, len(layers))
	for i := range layers {
		out = append(out, renderLayer(&layers[i]))
	}
	return out
}

func renderLayer(l *domain.Layer) layerResponse {
	resp := layerResponse{
		ID:             l.ID,
		Geometry:       l.Geometry,
		Coverage:       l.Coverage,
		DiskResolution: l.DiskResolution,
		ElevationScale: l.ElevationScale,
		Radius:         l.Radius,
		Extruded:       l.Extruded,
		Pickable:       l.Pickable,
		AutoHighlight:  l.AutoHighlight,
		LineColor:      l.LineColor,
		LineWidth:      l.LineWidth,
		Opacity:        l.Opacity,
		RadiusPixels:   l.RadiusPixels,
		RadiusMin:      l.RadiusMinPixels,
		RadiusMax:      l.RadiusMaxPixels,
		ColorRange:     l.ColorRange,
		Features:       []featureResponse{},
	}
	if l.HighlightColor != (domain.Color{}) {
		c := l.HighlightColor
		resp.HighlightColor = &c
	}

	switch {
	case l.Dataset != nil:
		for i := 0; i < l.Dataset.Len(); i++ {
			r := l.Dataset.At(i)
			pos := l.Position(r)
			f := featureResponse{ID: r.ID, Label: r.Label, Position: &pos}
			if l.Elevation != nil {
				f.Elevation = l.Elevation(r)
			}
			if l.FillColor != nil {
				f.FillColor = l.FillColor(r)
			}
			if l.Weight != nil {
				w := l.Weight(r)
				f.Weight = &w
			}
			resp.Features = append(resp.Features, f)
		}
	case l.ParcelFill != nil:
		for i := range l.Parcels {
			p := &l.Parcels[i]
			resp.Features = append(resp.Features, featureResponse{
				ID:        p.ID,
				Label:     p.BroadType,
				Elevation: l.ParcelElevation(p),
				FillColor: l.ParcelFill(p),
				Geometry:  p.Geometry,
			})
		}
	default:
		for _, b := range l.Boundaries {
			resp.Features = append(resp.Features, featureResponse{
				ID:        b.ID,
				Label:     b.Name,
				FillColor: l.BoundaryFill,
				Geometry:  b.Geometry,
			})
		}
	}
	return resp
}
