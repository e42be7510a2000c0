// Package metrics exposes Prometheus collectors for the ticket service.
package metrics

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"fastighet/internal/domain/shared/events"
)

// Metrics holds the collectors registered for one process.
type Metrics struct {
	EventsPublished   *prometheus.CounterVec
	EventsFailed      *prometheus.CounterVec
	EscalatedTickets  prometheus.Counter
	HTTPRequests      *prometheus.CounterVec
	HTTPDuration      *prometheus.HistogramVec
	NotificationsSent *prometheus.CounterVec
}

// New registers the collectors on reg. Tests pass a fresh registry.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		EventsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fastighet_ticket_events_published_total",
			Help: "Total number of ticket events accepted by the transport",
		}, []string{"event_type"}),
		EventsFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fastighet_ticket_events_failed_total",
			Help: "Total number of ticket events the transport rejected",
		}, []string{"event_type"}),
		EscalatedTickets: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fastighet_tickets_escalated_total",
			Help: "Total number of tickets flagged by the escalation job",
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fastighet_http_requests_total",
			Help: "Total number of HTTP requests by route and status",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fastighet_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		NotificationsSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fastighet_notifications_sent_total",
			Help: "Total number of notification e-mails by outcome",
		}, []string{"outcome"}),
	}

	reg.MustRegister(
		m.EventsPublished,
		m.EventsFailed,
		m.EscalatedTickets,
		m.HTTPRequests,
		m.HTTPDuration,
		m.NotificationsSent,
	)
	return m
}

func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (m *Metrics) AddEscalated(n int) {
	m.EscalatedTickets.Add(float64(n))
}

func (m *Metrics) IncNotification(ok bool) {
	if ok {
		m.NotificationsSent.WithLabelValues("sent").Inc()
		return
	}
	m.NotificationsSent.WithLabelValues("failed").Inc()
}

// InstrumentedPublisher counts outcomes of an underlying publisher.
type InstrumentedPublisher struct {
	next    events.EventPublisher
	metrics *Metrics
}

func NewInstrumentedPublisher(next events.EventPublisher, m *Metrics) *InstrumentedPublisher {
	return &InstrumentedPublisher{next: next, metrics: m}
}

func (p *InstrumentedPublisher) Publish(ctx context.Context, event events.DomainEvent) error {
	if err := p.next.Publish(ctx, event); err != nil {
		p.metrics.EventsFailed.WithLabelValues(event.GetEventType()).Inc()
		return err
	}
	p.metrics.EventsPublished.WithLabelValues(event.GetEventType()).Inc()
	return nil
}
