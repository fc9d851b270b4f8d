package domain

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Coordinate is a WGS84 position in decimal degrees
type Coordinate struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
}

// ParseCoordinate parses string longitude/latitude values as they arrive from the source data
func ParseCoordinate(regionID, longitude, latitude string) (Coordinate, error) {
	lon, err := parseDegrees(longitude, 180)
	if err != nil {
		return Coordinate{}, &CoordinateParseError{RegionID: regionID, Field: "longitude", Value: longitude, Err: err}
	}
	lat, err := parseDegrees(latitude, 90)
	if err != nil {
		return Coordinate{}, &CoordinateParseError{RegionID: regionID, Field: "latitude", Value: latitude, Err: err}
	}
	return Coordinate{Longitude: lon, Latitude: lat}, nil
}

func parseDegrees(s string, limit float64) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(v) > limit {
		return 0, fmt.Errorf("out of range ±%g", limit)
	}
	return v, nil
}

// Snapshot is one supply/demand record, either live or one year of the series
type Snapshot struct {
	Population float64            `json:"population"`
	Supply     map[string]float64 `json:"supply"`
	Demand     map[string]float64 `json:"demand"`
}

// TimeIndex selects the live snapshot (negative) or an offset into the series
type TimeIndex int

// Live selects a region's live snapshot
const Live TimeIndex = -1

// IsLive reports whether t selects the live snapshot
func (t TimeIndex) IsLive() bool { return t < 0 }

func (t TimeIndex) String() string {
	if t.IsLive() {
		return "live"
	}
	return strconv.Itoa(int(t))
}

// Region is one geographic unit with a live snapshot and a yearly series
type Region struct {
	ID       string     `json:"id"`
	Label    string     `json:"label"`
	Position Coordinate `json:"position"`
	Live     Snapshot   `json:"live"`
	Series   []Snapshot `json:"series"`
}

// SnapshotAt returns the snapshot selected by t
func (r *Region) SnapshotAt(t TimeIndex) (*Snapshot, error) {
	if t.IsLive() {
		return &r.Live, nil
	}
	if int(t) >= len(r.Series) {
		return nil, fmt.Errorf("%w: index %d not in [0, %d)", ErrIndexOutOfRange, int(t), len(r.Series))
	}
	return &r.Series[t], nil
}

// Dataset is the immutable set of regions loaded at startup
type Dataset struct {
	schema       CategorySchema
	regions      []Region
	byID         map[string]int
	seriesLength int
	currentYear  int
}

// NewDataset validates the shared-schema invariants and takes ownership of regions
func NewDataset(schema CategorySchema, regions []Region, currentYear int) (*Dataset, error) {
	d := &Dataset{
		schema:      schema,
		regions:     regions,
		byID:        make(map[string]int, len(regions)),
		currentYear: currentYear,
	}
	for i := range regions {
		r := &regions[i]
		if i == 0 {
			d.seriesLength = len(r.Series)
		} else if len(r.Series) != d.seriesLength {
			return nil, fmt.Errorf("%w: region %q has %d series entries, want %d",
				ErrSchemaMismatch, r.ID, len(r.Series), d.seriesLength)
		}
		if err := checkSnapshot(schema, r.ID, "live", &r.Live); err != nil {
			return nil, err
		}
		for step := range r.Series {
			if err := checkSnapshot(schema, r.ID, strconv.Itoa(step), &r.Series[step]); err != nil {
				return nil, err
			}
		}
		if _, dup := d.byID[r.ID]; dup {
			return nil, fmt.Errorf("duplicate region id %q", r.ID)
		}
		d.byID[r.ID] = i
	}
	return d, nil
}

func checkSnapshot(schema CategorySchema, regionID, step string, s *Snapshot) error {
	if !schema.Matches(s.Supply) {
		return fmt.Errorf("%w: region %q snapshot %s supply keys %v, want %v",
			ErrSchemaMismatch, regionID, step, mapKeys(s.Supply), schema.Keys())
	}
	if !schema.Matches(s.Demand) {
		return fmt.Errorf("%w: region %q snapshot %s demand keys %v, want %v",
			ErrSchemaMismatch, regionID, step, mapKeys(s.Demand), schema.Keys())
	}
	return nil
}

func mapKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Schema returns the category schema the dataset was validated against
func (d *Dataset) Schema() CategorySchema { return d.schema }

// Len returns the number of regions
func (d *Dataset) Len() int { return len(d.regions) }

// At returns the i-th region; callers must not mutate it
func (d *Dataset) At(i int) *Region { return &d.regions[i] }

// Regions returns the regions in load order; callers must not mutate them
func (d *Dataset) Regions() []Region { return d.regions }

// Region looks up a region by id
func (d *Dataset) Region(id string) (*Region, error) {
	i, ok := d.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrRegionNotFound, id)
	}
	return &d.regions[i], nil
}

// SeriesLength is the shared length of every region's series
func (d *Dataset) SeriesLength() int { return d.seriesLength }

// LatestYear is the calendar year of the last series entry
func (d *Dataset) LatestYear() int { return d.currentYear }

// EarliestYear is the calendar year of the first series entry
func (d *Dataset) EarliestYear() int {
	if d.seriesLength == 0 {
		return d.currentYear
	}
	return d.currentYear - (d.seriesLength - 1)
}

// TimeIndexForYear maps a calendar year onto the series; years before the series select Live
func (d *Dataset) TimeIndexForYear(year int) TimeIndex {
	earliest := d.EarliestYear()
	if year < earliest {
		return Live
	}
	return TimeIndex(year - earliest)
}

// CheckTimeIndex fails with ErrIndexOutOfRange when t is outside the series
func (d *Dataset) CheckTimeIndex(t TimeIndex) error {
	if t.IsLive() || int(t) < d.seriesLength {
		return nil
	}
	return fmt.Errorf("%w: index %d not in [0, %d)", ErrIndexOutOfRange, int(t), d.seriesLength)
}

// IsCoordinateError reports whether err rejected a single region's location
func IsCoordinateError(err error) bool {
	return errors.Is(err, ErrCoordinateParse)
}
