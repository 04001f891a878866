package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Resultados posibles de un request al feed público.
const (
	FeedOK       = "ok"
	FeedNotFound = "not_found"
	FeedError    = "error"
)

// Metrics agrupa los collectors de la app sobre un registry propio (nada de
// registry global, así los tests pueden crear varios).
type Metrics struct {
	registry *prometheus.Registry

	feedRequests  *prometheus.CounterVec
	feedEvents    prometheus.Histogram
	tokensIssued  prometheus.Counter
	httpDurations *prometheus.HistogramVec
}

func New(namespace string) *Metrics {
	if namespace == "" {
		namespace = "petcare"
	}
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		feedRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "calendar_feed_requests_total",
			Help:      "Requests al feed iCalendar público por resultado.",
		}, []string{"result"}),
		feedEvents: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "calendar_feed_events",
			Help:      "Cantidad de VEVENTs por feed renderizado.",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250, 500},
		}),
		tokensIssued: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "calendar_feed_tokens_issued_total",
			Help:      "Tokens de feed emitidos (alta + rotación).",
		}),
		httpDurations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duración de requests HTTP por método y status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "status"}),
	}

	reg.MustRegister(
		m.feedRequests,
		m.feedEvents,
		m.tokensIssued,
		m.httpDurations,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Los métodos aceptan receptor nil para que los services no tengan que chequear.

func (m *Metrics) ObserveFeed(result string, events int) {
	if m == nil {
		return
	}
	m.feedRequests.WithLabelValues(result).Inc()
	if result == FeedOK {
		m.feedEvents.Observe(float64(events))
	}
}

func (m *Metrics) TokenIssued() {
	if m == nil {
		return
	}
	m.tokensIssued.Inc()
}

func (m *Metrics) ObserveHTTP(method string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpDurations.WithLabelValues(method, strconv.Itoa(status)).Observe(d.Seconds())
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
