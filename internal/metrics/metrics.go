// Package metrics exposes Prometheus counters for flow and collaborator
// activity.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Flow outcome labels.
const (
	OutcomeSaved     = "saved"
	OutcomeDeclined  = "declined"
	OutcomeCancelled = "cancelled"
	OutcomeFailed    = "failed"
)

type Metrics struct {
	registry *prometheus.Registry

	FlowsStarted       *prometheus.CounterVec
	FlowsFinished      *prometheus.CounterVec
	Unauthorized       prometheus.Counter
	ExtractionFailures prometheus.Counter
	SinkFailures       prometheus.Counter
	MonthChanges       prometheus.Counter
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		FlowsStarted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "spesebot_flows_started_total",
			Help: "Conversation flows started, by flow kind.",
		}, []string{"kind"}),
		FlowsFinished: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "spesebot_flows_finished_total",
			Help: "Conversation flows finished, by flow kind and outcome.",
		}, []string{"kind", "outcome"}),
		Unauthorized: factory.NewCounter(prometheus.CounterOpts{
			Name: "spesebot_unauthorized_total",
			Help: "Events rejected by the authorization gate.",
		}),
		ExtractionFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "spesebot_extraction_failures_total",
			Help: "Receipt extraction attempts that failed.",
		}),
		SinkFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "spesebot_sink_failures_total",
			Help: "Expense append attempts that failed.",
		}),
		MonthChanges: factory.NewCounter(prometheus.CounterOpts{
			Name: "spesebot_month_changes_total",
			Help: "Active month changes.",
		}),
	}
}

// Handler serves the registry in Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
