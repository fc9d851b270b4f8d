package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	LayerBuildsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "foodmap_layer_builds_total",
		Help: "Total layer lists built, by display mode",
	}, []string{"mode"})
	LayerBuildErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "foodmap_layer_build_errors_total",
		Help: "Layer builds rejected, by error kind",
	}, []string{"kind"})
	LayersEmitted = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "foodmap_layers_emitted",
		Help:    "Number of layer descriptors per render pass",
		Buckets: []float64{1, 2, 3, 5, 7, 10},
	})
	PickEventsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "foodmap_pick_events_total",
		Help: "Region selections routed to the host",
	})
	HoverEventsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "foodmap_hover_events_total",
		Help: "Hover events by tooltip outcome",
	}, []string{"tooltip"})
	RegionsRejectedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "foodmap_regions_rejected_total",
		Help: "Regions dropped at load time due to unparseable coordinates",
	})
	SessionsActive = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "foodmap_sessions_active",
		Help: "Open map sessions",
	})
)

func init() {
	prometheus.MustRegister(LayerBuildsTotal)
	prometheus.MustRegister(LayerBuildErrorsTotal)
	prometheus.MustRegister(LayersEmitted)
	prometheus.MustRegister(PickEventsTotal)
	prometheus.MustRegister(HoverEventsTotal)
	prometheus.MustRegister(RegionsRejectedTotal)
	prometheus.MustRegister(SessionsActive)
}

// Handler exposes the registered collectors for scraping
func Handler() http.Handler { return promhttp.Handler() }
