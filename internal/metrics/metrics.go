// Package metrics defines the Prometheus collectors exported at /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "backpackers"

// Metrics owns a private registry so tests can create as many instances as
// they like without colliding on the global default registry.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
	groupsCreated  *prometheus.CounterVec
	joinRequests   prometheus.Counter
	joinDecisions  *prometheus.CounterVec
	commentsPosted prometheus.Counter
	messagesSent   prometheus.Counter
}

// New registers every collector, plus the Go runtime and process
// collectors, on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route pattern and status code.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		groupsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "groups_created_total",
			Help:      "Groups created, by trip source.",
		}, []string{"source"}),
		joinRequests: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "join_requests_submitted_total",
			Help:      "Join requests accepted as pending.",
		}),
		joinDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "join_decisions_total",
			Help:      "Join request decisions by requested decision and outcome.",
		}, []string{"decision", "outcome"}),
		commentsPosted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "comments_posted_total",
			Help:      "Comments added to discussion threads.",
		}),
		messagesSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_sent_total",
			Help:      "Messages appended to group message logs.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpDuration,
		m.groupsCreated,
		m.joinRequests,
		m.joinDecisions,
		m.commentsPosted,
		m.messagesSent,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry for tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// ObserveHTTP records one finished request. route is the chi route pattern,
// never the raw path, to keep label cardinality bounded.
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// GroupCreated counts a successful creation.
func (m *Metrics) GroupCreated(source string) {
	if m == nil {
		return
	}
	m.groupsCreated.WithLabelValues(source).Inc()
}

// JoinRequestSubmitted counts a new pending request.
func (m *Metrics) JoinRequestSubmitted() {
	if m == nil {
		return
	}
	m.joinRequests.Inc()
}

// JoinDecision counts a decision attempt. outcome is "ok" or the error code
// that stopped it.
func (m *Metrics) JoinDecision(decision, outcome string) {
	if m == nil {
		return
	}
	m.joinDecisions.WithLabelValues(decision, outcome).Inc()
}

// CommentPosted counts a new comment.
func (m *Metrics) CommentPosted() {
	if m == nil {
		return
	}
	m.commentsPosted.Inc()
}

// MessageSent counts an appended message.
func (m *Metrics) MessageSent() {
	if m == nil {
		return
	}
	m.messagesSent.Inc()
}
