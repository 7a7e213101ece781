package etims

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contadores de las llamadas a la KRA.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	cache    *prometheus.CounterVec
}

// NewMetrics registra las métricas en reg. Con reg nil las métricas existen pero no se exponen (tests).
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cafeteria",
			Subsystem: "kra",
			Name:      "requests_total",
			Help:      "Llamadas a la API OSCU por endpoint y resultado (resultCd o transport_error)",
		}, []string{"endpoint", "result"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "cafeteria",
			Subsystem: "kra",
			Name:      "request_duration_seconds",
			Help:      "Duración de las llamadas a la API OSCU",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint"}),
		cache: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cafeteria",
			Subsystem: "kra",
			Name:      "cache_lookups_total",
			Help:      "Consultas a la caché de catálogos KRA (hit/miss)",
		}, []string{"kind", "outcome"}),
	}
}

func (m *Metrics) observe(endpoint, result string, seconds float64) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(endpoint, result).Inc()
	m.duration.WithLabelValues(endpoint).Observe(seconds)
}

func (m *Metrics) cacheLookup(kind string, hit bool) {
	if m == nil {
		return
	}
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	m.cache.WithLabelValues(kind, outcome).Inc()
}
