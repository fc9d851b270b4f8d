package service

import (
	"strconv"
	"strings"

	"github.com/IamTkle/capstone1-dashboard/internal/domain"
	"github.com/IamTkle/capstone1-dashboard/internal/metrics"
)

// Tooltip is the hover box content and its screen position
type Tooltip struct {
	Visible bool    `json:"visible"`
	Title   string  `json:"title,omitempty"`
	Body    string  `json:"body,omitempty"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
}

// Host receives the side effects of pointer events
type Host interface {
	SelectRegion(r domain.Region)
	ShowTooltip(t Tooltip)
	HideTooltip()
}

// Dispatcher routes renderer pick/hover events to the host
type Dispatcher struct {
	host    Host
	metrics *MetricResolver
}

// NewDispatcher creates a dispatcher; resolver supplies the tooltip population
func NewDispatcher(host Host, resolver *MetricResolver) *Dispatcher {
	return &Dispatcher{host: host, metrics: resolver}
}

// OnPick selects the picked region and dismisses the tooltip. Picking nothing is ignored.
func (d *Dispatcher) OnPick(info domain.PickInfo) {
	if info.Region == nil {
		return
	}
	metrics.PickEventsTotal.Inc()
	d.host.SelectRegion(*info.Region)
	d.host.HideTooltip()
}

// OnHover shows the region tooltip for time t, or hides it when nothing is under the pointer
func (d *Dispatcher) OnHover(info domain.PickInfo, t domain.TimeIndex) {
	if info.Region == nil {
		metrics.HoverEventsTotal.WithLabelValues("hidden").Inc()
		d.host.HideTooltip()
		return
	}

	population, err := d.metrics.Resolve(info.Region, t, Population, "")
	if err != nil {
		metrics.HoverEventsTotal.WithLabelValues("hidden").Inc()
		d.host.HideTooltip()
		return
	}

	metrics.HoverEventsTotal.WithLabelValues("shown").Inc()
	d.host.ShowTooltip(Tooltip{
		Visible: true,
		Title:   strings.ToUpper(info.Region.Label),
		Body:    "Population: " + strconv.FormatFloat(population, 'f', -1, 64),
		X:       info.X,
		Y:       info.Y,
	})
}
