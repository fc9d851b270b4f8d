package service

import (
	"fmt"

	"github.com/IamTkle/capstone1-dashboard/internal/domain"
)

// MetricKind selects which scalar the resolver reads from a snapshot
type MetricKind int

const (
	SupplyTotal MetricKind = iota
	DemandTotal
	SupplyCategory
	DemandCategory
	Population
)

func (k MetricKind) String() string {
	switch k {
	case SupplyTotal:
		return "supply_total"
	case DemandTotal:
		return "demand_total"
	case SupplyCategory:
		return "supply_category"
	case DemandCategory:
		return "demand_category"
	case Population:
		return "population"
	default:
		return fmt.Sprintf("metric(%d)", int(k))
	}
}

// MetricResolver reads scalar metrics off regions. It holds no mutable state
// and is safe for concurrent use.
type MetricResolver struct {
	schema domain.CategorySchema
	keys   []string
}

// NewMetricResolver creates a resolver bound to a category schema
func NewMetricResolver(schema domain.CategorySchema) *MetricResolver {
	return &MetricResolver{schema: schema, keys: schema.Keys()}
}

// Schema returns the schema the resolver sums over
func (m *MetricResolver) Schema() domain.CategorySchema { return m.schema }

// Resolve returns the metric of kind for region r at time t.
// category is only consulted by SupplyCategory and DemandCategory.
func (m *MetricResolver) Resolve(r *domain.Region, t domain.TimeIndex, kind MetricKind, category string) (float64, error) {
	snap, err := r.SnapshotAt(t)
	if err != nil {
		return 0, err
	}

	switch kind {
	case SupplyTotal:
		return m.sum(snap.Supply, len(m.keys)), nil
	case DemandTotal:
		return m.sum(snap.Demand, len(m.keys)), nil
	case SupplyCategory:
		if !m.schema.Has(category) {
			return 0, fmt.Errorf("%w: %q", domain.ErrUnknownCategory, category)
		}
		return snap.Supply[category], nil
	case DemandCategory:
		if !m.schema.Has(category) {
			return 0, fmt.Errorf("%w: %q", domain.ErrUnknownCategory, category)
		}
		return snap.Demand[category], nil
	case Population:
		return snap.Population, nil
	default:
		return 0, fmt.Errorf("metric: unsupported kind %s", kind)
	}
}

// Cumulative sums the first n categories in schema order for the supply
// (SupplyTotal) or demand (DemandTotal) side. n == schema length equals the total.
func (m *MetricResolver) Cumulative(r *domain.Region, t domain.TimeIndex, side MetricKind, n int) (float64, error) {
	if n < 0 || n > len(m.keys) {
		return 0, fmt.Errorf("metric: cumulative depth %d not in [0, %d]", n, len(m.keys))
	}
	snap, err := r.SnapshotAt(t)
	if err != nil {
		return 0, err
	}
	switch side {
	case SupplyTotal:
		return m.sum(snap.Supply, n), nil
	case DemandTotal:
		return m.sum(snap.Demand, n), nil
	default:
		return 0, fmt.Errorf("metric: cumulative needs a total kind, got %s", side)
	}
}

func (m *MetricResolver) sum(values map[string]float64, n int) float64 {
	var total float64
	for _, k := range m.keys[:n] {
		total += values[k]
	}
	return total
}
