// Package metrics exposes fitrooms Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"fitrooms/internal/app"
)

// Metrics holds the registered collectors.
//
// Metrics:
//   - fitrooms_http_requests_total{route,method,code}
//   - fitrooms_http_request_duration_seconds{route,method}
//   - fitrooms_daily_logs_submitted_total
//   - fitrooms_rooms_created_total
//   - fitrooms_room_joins_total{result}
//   - fitrooms_rooms_ended_total
type Metrics struct {
	HTTPRequests      *prometheus.CounterVec
	HTTPDuration      *prometheus.HistogramVec
	LogsSubmitted     prometheus.Counter
	RoomsCreatedTotal prometheus.Counter
	RoomJoins         *prometheus.CounterVec
	RoomsEndedTotal   prometheus.Counter

	gatherer prometheus.Gatherer
}

var _ app.Recorder = (*Metrics)(nil)

// New registers the collectors on a fresh registry that also carries the
// Go runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return NewWithRegistry(reg, reg)
}

// NewWithRegistry registers the collectors on reg and serves from g.
func NewWithRegistry(reg prometheus.Registerer, g prometheus.Gatherer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		HTTPRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fitrooms_http_requests_total",
				Help: "Total HTTP requests by route, method and status code",
			},
			[]string{"route", "method", "code"},
		),
		HTTPDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fitrooms_http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route", "method"},
		),
		LogsSubmitted: f.NewCounter(prometheus.CounterOpts{
			Name: "fitrooms_daily_logs_submitted_total",
			Help: "Total daily logs accepted",
		}),
		RoomsCreatedTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "fitrooms_rooms_created_total",
			Help: "Total rooms created",
		}),
		RoomJoins: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fitrooms_room_joins_total",
				Help: "Invite join attempts by result",
			},
			[]string{"result"},
		),
		RoomsEndedTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "fitrooms_rooms_ended_total",
			Help: "Total rooms transitioned to ended",
		}),
		gatherer: g,
	}
}

// ObserveRequest records one finished HTTP request.
func (m *Metrics) ObserveRequest(route, method string, code int, elapsed time.Duration) {
	m.HTTPRequests.WithLabelValues(route, method, strconv.Itoa(code)).Inc()
	m.HTTPDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

func (m *Metrics) LogSubmitted() { m.LogsSubmitted.Inc() }

func (m *Metrics) RoomCreated() { m.RoomsCreatedTotal.Inc() }

func (m *Metrics) RoomJoin(result string) { m.RoomJoins.WithLabelValues(result).Inc() }

func (m *Metrics) RoomsEnded(n int) {
	if n > 0 {
		m.RoomsEndedTotal.Add(float64(n))
	}
}

// Handler serves the exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
