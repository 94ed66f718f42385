package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "meeting_actions"

// Metrics holds the service's Prometheus collectors. A nil *Metrics records nothing.
type Metrics struct {
	registry         *prometheus.Registry
	webhooksReceived *prometheus.CounterVec
	meetingsFinished *prometheus.CounterVec
	actionsExtracted prometheus.Counter
	forwardFailures  *prometheus.CounterVec
	pipelineDuration prometheus.Histogram
	queueDepth       prometheus.Gauge
}

// New registers the collectors on a fresh registry
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		webhooksReceived: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "webhooks_received_total",
			Help:      "Inbound webhooks by source and outcome.",
		}, []string{"source", "outcome"}),
		meetingsFinished: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "meetings_finished_total",
			Help:      "Meetings that left processing, by final status.",
		}, []string{"status"}),
		actionsExtracted: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "actions_extracted_total",
			Help:      "Action items stored after confidence filtering.",
		}),
		forwardFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "forward_failures_total",
			Help:      "Failed best-effort forwards by destination.",
		}, []string{"destination"}),
		pipelineDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pipeline_duration_seconds",
			Help:      "Time from claim to completion or failure of a meeting.",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600},
		}),
		queueDepth: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pipeline_queue_depth",
			Help:      "Meetings waiting in the in-process queue.",
		}),
	}
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// WebhookReceived counts an inbound webhook
func (m *Metrics) WebhookReceived(source, outcome string) {
	if m == nil {
		return
	}
	m.webhooksReceived.WithLabelValues(source, outcome).Inc()
}

// MeetingFinished records the final status and duration of a pipeline run
func (m *Metrics) MeetingFinished(status string, took time.Duration) {
	if m == nil {
		return
	}
	m.meetingsFinished.WithLabelValues(status).Inc()
	m.pipelineDuration.Observe(took.Seconds())
}

// ActionsExtracted counts stored action items
func (m *Metrics) ActionsExtracted(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.actionsExtracted.Add(float64(n))
}

// ForwardFailed counts a failed Slack or Linear forward
func (m *Metrics) ForwardFailed(destination string) {
	if m == nil {
		return
	}
	m.forwardFailures.WithLabelValues(destination).Inc()
}

// SetQueueDepth reports the number of queued meetings
func (m *Metrics) SetQueueDepth(n int) {
	if m == nil {
		return
	}
	m.queueDepth.Set(float64(n))
}
