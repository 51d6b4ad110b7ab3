// Package metrics counts wire traffic for the Prometheus scrape endpoint.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "strands"

// Collector implements the multiplayer client's Recorder on its own
// registry.
type Collector struct {
	registry *prometheus.Registry

	inbound  *prometheus.CounterVec
	outbound *prometheus.CounterVec
	dropped  *prometheus.CounterVec
	linkLost prometheus.Counter
}

// NewCollector creates a collector with Go runtime and process metrics
// registered alongside the wire counters.
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Collector{
		registry: reg,
		inbound: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "wire",
			Name:      "lines_inbound_total",
			Help:      "Lines received from the game server, by tag",
		}, []string{"tag"}),
		outbound: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "wire",
			Name:      "lines_outbound_total",
			Help:      "Lines sent to the game server, by tag",
		}, []string{"tag"}),
		dropped: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "wire",
			Name:      "lines_dropped_total",
			Help:      "Inbound lines ignored, by reason",
		}, []string{"reason"}),
		linkLost: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "link",
			Name:      "lost_total",
			Help:      "Times the server connection was lost",
		}),
	}
}

func (c *Collector) Inbound(tag string) {
	c.inbound.WithLabelValues(tag).Inc()
}

func (c *Collector) Outbound(tag string) {
	c.outbound.WithLabelValues(tag).Inc()
}

func (c *Collector) Dropped(reason string) {
	c.dropped.WithLabelValues(reason).Inc()
}

func (c *Collector) LinkLost() {
	c.linkLost.Inc()
}

// Handler serves the registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}
