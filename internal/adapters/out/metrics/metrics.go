// Package metrics exposes Prometheus metrics about order and stage
// throughput and implements ports.OrderChangedPublisher to record them.
package metrics

import (
	"context"
	"net/http"

	"workorders/internal/core/ports"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "workorders"

// Metrics owns a private registry so tests can create as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	OrderChanges       *prometheus.CounterVec
	StageDuration      *prometheus.HistogramVec
	OrderTotalDuration prometheus.Histogram
	StagesInProgress   prometheus.Gauge
	PublishFailures    *prometheus.CounterVec
	StalledStages      prometheus.Gauge
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{registry: registry}

	m.OrderChanges = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_changes_total",
			Help:      "Committed order changes by kind",
		},
		[]string{"kind"},
	)

	m.StageDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Time from start to completion of a stage",
			Buckets:   []float64{60, 300, 900, 3600, 4 * 3600, 8 * 3600, 24 * 3600, 3 * 24 * 3600, 7 * 24 * 3600},
		},
		[]string{"stage"},
	)

	m.OrderTotalDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "order_total_duration_seconds",
			Help:      "Sum of stage durations of completed orders",
			Buckets:   []float64{3600, 8 * 3600, 24 * 3600, 3 * 24 * 3600, 7 * 24 * 3600, 14 * 24 * 3600, 30 * 24 * 3600},
		},
	)

	m.StagesInProgress = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stages_in_progress",
			Help:      "Stages started but not completed since process start",
		},
	)

	m.PublishFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notification_publish_failures_total",
			Help:      "Order change notifications that could not be delivered",
		},
		[]string{"publisher"},
	)

	m.StalledStages = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stalled_stages",
			Help:      "Stages in progress longer than the stall threshold at the last check",
		},
	)

	registry.MustRegister(
		m.OrderChanges,
		m.StageDuration,
		m.OrderTotalDuration,
		m.StagesInProgress,
		m.PublishFailures,
		m.StalledStages,
	)
	return m
}

// Publish records a committed change. It never fails.
func (m *Metrics) Publish(_ context.Context, event ports.OrderChanged) error {
	m.OrderChanges.WithLabelValues(string(event.Kind)).Inc()

	switch event.Kind {
	case ports.StageStarted:
		m.StagesInProgress.Inc()
	case ports.StageCompleted:
		m.StagesInProgress.Dec()
		if event.Order == nil {
			return nil
		}
		stage, err := event.Order.Stage(event.StageIndex)
		if err == nil && stage.Duration() != nil {
			m.StageDuration.WithLabelValues(stage.Name()).Observe(stage.Duration().Seconds())
		}
		if total := event.Order.TotalDuration(); total != nil {
			m.OrderTotalDuration.Observe(total.Seconds())
		}
	case ports.OrderCreated:
	}
	return nil
}

// RecordPublishFailure counts a notification lost by the named publisher.
func (m *Metrics) RecordPublishFailure(publisher string) {
	m.PublishFailures.WithLabelValues(publisher).Inc()
}

// SetStalledStages reports the result of the latest stall check.
func (m *Metrics) SetStalledStages(n int) {
	m.StalledStages.Set(float64(n))
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
