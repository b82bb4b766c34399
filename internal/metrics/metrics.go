// Package metrics exposes Prometheus instrumentation for the trivia game.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "forgebot"

// NewRegistry creates a Prometheus registry with Go runtime and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return reg
}

// Handler returns an http.Handler that serves Prometheus metrics.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

// GameMetrics holds counters for the webhook command pipeline.
type GameMetrics struct {
	CommandsHandled  *prometheus.CounterVec
	AnswersJudged    *prometheus.CounterVec
	QuestionsFetched *prometheus.CounterVec
}

// NewGameMetrics creates and registers game metrics on the given registry.
func NewGameMetrics(reg prometheus.Registerer) *GameMetrics {
	m := &GameMetrics{
		CommandsHandled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_handled_total",
			Help:      "Total number of webhook commands handled, by command.",
		}, []string{"command"}),
		AnswersJudged: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "answers_judged_total",
			Help:      "Total number of answers judged, by outcome.",
		}, []string{"outcome"}),
		QuestionsFetched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "questions_fetched_total",
			Help:      "Total number of question fetches, by result.",
		}, []string{"result"}),
	}

	reg.MustRegister(m.CommandsHandled, m.AnswersJudged, m.QuestionsFetched)
	return m
}

// Command records a handled webhook command. Safe on a nil receiver so
// instrumentation stays optional in tests.
func (m *GameMetrics) Command(command string) {
	if m == nil {
		return
	}
	m.CommandsHandled.WithLabelValues(command).Inc()
}

// Answer records a judged answer outcome.
func (m *GameMetrics) Answer(outcome string) {
	if m == nil {
		return
	}
	m.AnswersJudged.WithLabelValues(outcome).Inc()
}

// QuestionFetch records a question fetch result.
func (m *GameMetrics) QuestionFetch(result string) {
	if m == nil {
		return
	}
	m.QuestionsFetched.WithLabelValues(result).Inc()
}
