// Package metrics holds the prometheus collectors of the storefront.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "storefront"

type Metrics struct {
	catalogLoads     *prometheus.CounterVec
	categoryFallback prometheus.Counter
	cartMutations    *prometheus.CounterVec
	sessions         prometheus.Gauge
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		catalogLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_loads_total",
			Help:      "Catalog snapshot loads by outcome.",
		}, []string{"outcome"}),
		categoryFallback: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "category_image_fallbacks_total",
			Help:      "Category image lookups replaced by the placeholder.",
		}),
		cartMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_mutations_total",
			Help:      "Cart mutations by operation.",
		}, []string{"op"}),
		sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Browser sessions currently held in memory.",
		}),
	}

	if reg != nil {
		reg.MustRegister(m.catalogLoads, m.categoryFallback, m.cartMutations, m.sessions)
	}

	return m
}

func (m *Metrics) CatalogLoad(ok bool) {
	if m == nil {
		return
	}
	outcome := "ok"
	if !ok {
		outcome = "error"
	}
	m.catalogLoads.WithLabelValues(outcome).Inc()
}

func (m *Metrics) CategoryFallback() {
	if m == nil {
		return
	}
	m.categoryFallback.Inc()
}

func (m *Metrics) CartMutation(op string) {
	if m == nil {
		return
	}
	m.cartMutations.WithLabelValues(op).Inc()
}

func (m *Metrics) SessionOpened() {
	if m == nil {
		return
	}
	m.sessions.Inc()
}

func (m *Metrics) SessionClosed() {
	if m == nil {
		return
	}
	m.sessions.Dec()
}
