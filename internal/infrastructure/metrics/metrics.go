package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns the application's Prometheus collectors. Each instance has its
// own registry so tests can create as many as they like.
type Metrics struct {
	reg *prometheus.Registry

	requestDuration *prometheus.HistogramVec
	authOutcomes    *prometheus.CounterVec
	answerWrites    *prometheus.CounterVec
	completions     prometheus.Counter
	resets          prometheus.Counter
	casRetries      prometheus.Counter
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)
	return &Metrics{
		reg: reg,
		requestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "questionnaire_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		authOutcomes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "questionnaire_auth_outcomes_total",
			Help: "Credential checks by outcome",
		}, []string{"outcome"}),
		answerWrites: f.NewCounterVec(prometheus.CounterOpts{
			Name: "questionnaire_answer_writes_total",
			Help: "Persisted answer writes by kind",
		}, []string{"kind"}),
		completions: f.NewCounter(prometheus.CounterOpts{
			Name: "questionnaire_completions_total",
			Help: "Aggregates that transitioned to completed",
		}),
		resets: f.NewCounter(prometheus.CounterOpts{
			Name: "questionnaire_resets_total",
			Help: "Aggregates reset to empty",
		}),
		casRetries: f.NewCounter(prometheus.CounterOpts{
			Name: "questionnaire_cas_retries_total",
			Help: "Writes retried after losing a version race",
		}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveRequest(method, route, status string, seconds float64) {
	m.requestDuration.WithLabelValues(method, route, status).Observe(seconds)
}

// AuthOutcome counts one credential check. outcome is "ok" or a failure kind.
func (m *Metrics) AuthOutcome(outcome string) {
	m.authOutcomes.WithLabelValues(outcome).Inc()
}

// AnswerWrite counts a persisted write; kind is "single" or "batch".
func (m *Metrics) AnswerWrite(kind string) {
	m.answerWrites.WithLabelValues(kind).Inc()
}

func (m *Metrics) Completed() { m.completions.Inc() }
func (m *Metrics) Reset()     { m.resets.Inc() }
func (m *Metrics) CASRetry()  { m.casRetries.Inc() }
