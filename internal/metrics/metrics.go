package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "fabric_cost"

// Metrics is safe to use through a nil pointer; every method is then a no-op.
type Metrics struct {
	registry *prometheus.Registry

	calculations *prometheus.CounterVec
	totalCost    prometheus.Histogram
	syncPushed   prometheus.Counter
	syncFailed   prometheus.Counter
	reports      *prometheus.CounterVec
	chatRequests *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: reg,
		calculations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "calculations_total",
			Help:      "Cost calculations by outcome.",
		}, []string{"outcome"}),
		totalCost: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "total_cost_per_meter",
			Help:      "Total cost per meter of successful calculations.",
			Buckets:   []float64{1, 2, 5, 10, 20, 50, 100},
		}),
		syncPushed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sync_pushed_total",
			Help:      "Records pushed to the remote store.",
		}),
		syncFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sync_failed_total",
			Help:      "Records that could not be pushed after all retries.",
		}),
		reports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reports_total",
			Help:      "Generated reports by format.",
		}, []string{"format"}),
		chatRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chat_requests_total",
			Help:      "Assistant API calls by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
	}

	reg.MustRegister(m.calculations, m.totalCost, m.syncPushed, m.syncFailed, m.reports, m.chatRequests)

	return m
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) CalculationSucceeded(totalCost float64) {
	if m == nil {
		return
	}
	m.calculations.WithLabelValues("ok").Inc()
	m.totalCost.Observe(totalCost)
}

func (m *Metrics) CalculationRejected() {
	if m == nil {
		return
	}
	m.calculations.WithLabelValues("invalid").Inc()
}

func (m *Metrics) SyncPushed(n int) {
	if m == nil {
		return
	}
	m.syncPushed.Add(float64(n))
}

func (m *Metrics) SyncFailed(n int) {
	if m == nil {
		return
	}
	m.syncFailed.Add(float64(n))
}

func (m *Metrics) ReportGenerated(format string) {
	if m == nil {
		return
	}
	m.reports.WithLabelValues(format).Inc()
}

func (m *Metrics) ChatRequest(endpoint string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.chatRequests.WithLabelValues(endpoint, outcome).Inc()
}
