package service

import (
	"fmt"
	"math"

	"github.com/IamTkle/capstone1-dashboard/internal/domain"
)

// Discrepancy colors: positive (demand above supply) is a deficit
var (
	DeficitColor = domain.Color{255, 0, 71, 100}
	SurplusColor = domain.Color{0, 255, 0, 100}
)

// DiscrepancyCalculator derives signed demand-minus-supply values
type DiscrepancyCalculator struct {
	metrics *MetricResolver
}

// NewDiscrepancyCalculator creates a calculator on top of a metric resolver
func NewDiscrepancyCalculator(metrics *MetricResolver) *DiscrepancyCalculator {
	return &DiscrepancyCalculator{metrics: metrics}
}

// CheckCategory fails with ErrUnknownCategory unless category is "all" or a schema key
func (c *DiscrepancyCalculator) CheckCategory(category string) error {
	if category == domain.CategoryAll || c.metrics.schema.Has(category) {
		return nil
	}
	return fmt.Errorf("%w: %q", domain.ErrUnknownCategory, category)
}

// Discrepancy returns demand minus supply for every category ("all") or a single one
func (c *DiscrepancyCalculator) Discrepancy(r *domain.Region, t domain.TimeIndex, category string) (float64, error) {
	if err := c.CheckCategory(category); err != nil {
		return 0, err
	}

	demandKind, supplyKind := DemandCategory, SupplyCategory
	if category == domain.CategoryAll {
		demandKind, supplyKind = DemandTotal, SupplyTotal
	}

	demand, err := c.metrics.Resolve(r, t, demandKind, category)
	if err != nil {
		return 0, err
	}
	supply, err := c.metrics.Resolve(r, t, supplyKind, category)
	if err != nil {
		return 0, err
	}
	return demand - supply, nil
}

// Magnitude is the non-negative size drawn for a discrepancy
func Magnitude(discrepancy float64) float64 {
	return math.Abs(discrepancy)
}

// DiscrepancyColor maps a positive discrepancy to the deficit color, anything else to surplus
func DiscrepancyColor(discrepancy float64) domain.Color {
	if discrepancy > 0 {
		return DeficitColor
	}
	return SurplusColor
}
