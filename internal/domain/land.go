package domain

import "encoding/json"

// Parcel is one farmland polygon from the land-use overlay
type Parcel struct {
	ID        string          `json:"id"`
	BroadType string          `json:"broadType"`
	AreaHa    float64         `json:"areaHa"`
	Geometry  json.RawMessage `json:"geometry"`
}

// Boundary is one statistical-area outline drawn on every map
type Boundary struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Geometry json.RawMessage `json:"geometry"`
}
