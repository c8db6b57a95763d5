package campus

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the in-process collectors on a private registry.
type Metrics struct {
	Registry *prometheus.Registry

	IncidentsLogged    *prometheus.CounterVec
	OverlayRebuilds    prometheus.Counter
	HighlightPasses    prometheus.Counter
	HighlightedObjects prometheus.Gauge
}

func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		IncidentsLogged: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "campus",
			Name:      "incidents_logged_total",
			Help:      "Incidents added through the form, by location.",
		}, []string{"location"}),
		OverlayRebuilds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "campus",
			Name:      "overlay_rebuilds_total",
			Help:      "Full rebuilds of the incident overlay.",
		}),
		HighlightPasses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "campus",
			Name:      "highlight_passes_total",
			Help:      "Location highlight passes.",
		}),
		HighlightedObjects: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "campus",
			Name:      "highlighted_objects",
			Help:      "Scene objects currently highlighted.",
		}),
	}
	m.Registry.MustRegister(m.IncidentsLogged, m.OverlayRebuilds, m.HighlightPasses, m.HighlightedObjects)
	return m
}

type MetricsModule struct{}

func (MetricsModule) Install(app *App, cmd *Commands) {
	m := NewMetrics()
	app.addResources(m)
	app.OnShutdown(func() { m.LogSummary(app.Logger()) })
}

// LogSummary writes every sample at info level.
func (m *Metrics) LogSummary(log Logger) {
	families, err := m.Registry.Gather()
	if err != nil {
		log.Warnf("gather metrics: %v", err)
		return
	}
	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			value := metric.GetCounter().GetValue() + metric.GetGauge().GetValue()
			labels := ""
			for _, lp := range metric.GetLabel() {
				labels += " " + lp.GetName() + "=" + lp.GetValue()
			}
			log.Infof("metric %s%s = %g", mf.GetName(), labels, value)
		}
	}
}
