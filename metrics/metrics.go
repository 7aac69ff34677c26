// Package metrics records agent and request activity as Prometheus metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spetersoncode/convagent/agent"
)

const namespace = "convagent"

// Tool outcome label values.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Recorder owns a private registry so several recorders can coexist in tests.
// It implements agent.Observer.
type Recorder struct {
	registry *prometheus.Registry

	requests  *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	tools     *prometheus.CounterVec
	turns     prometheus.Counter
	fallbacks prometheus.Counter
	failures  *prometheus.CounterVec
}

// New creates a Recorder with Go runtime and process collectors registered.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Recorder{
		registry: reg,
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Conversion requests received, by endpoint.",
		}, []string{"endpoint"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "Time from request start to the end of its event stream.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"endpoint"}),
		tools: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tool_executions_total",
			Help:      "Tool executions, by tool and outcome.",
		}, []string{"tool", "outcome"}),
		turns: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "agent_turns_total",
			Help:      "Backend calls made by the agent loop.",
		}),
		fallbacks: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stream_fallbacks_total",
			Help:      "Turns that fell back from streaming to a single non-streaming call.",
		}),
		failures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "agent_failures_total",
			Help:      "Conversations that ended in an error, by reason.",
		}, []string{"reason"}),
	}
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// Handler serves the metrics in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// RequestStarted counts a request and returns a func that observes its duration.
func (r *Recorder) RequestStarted(endpoint string) (done func()) {
	r.requests.WithLabelValues(endpoint).Inc()
	start := time.Now()
	return func() {
		r.duration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}
}

func (r *Recorder) TurnStarted() { r.turns.Inc() }

func (r *Recorder) StreamFallback() { r.fallbacks.Inc() }

func (r *Recorder) ToolExecuted(name string, failed bool) {
	outcome := OutcomeSuccess
	if failed {
		outcome = OutcomeError
	}
	r.tools.WithLabelValues(name, outcome).Inc()
}

func (r *Recorder) RunFailed(reason string) { r.failures.WithLabelValues(reason).Inc() }

var _ agent.Observer = (*Recorder)(nil)
