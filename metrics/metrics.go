// Package metrics exposes sampler run statistics as Prometheus metrics.
// cmd/sampler creates and registers the collectors and starts the HTTP
// handler only when metrics are enabled; otherwise it uses Noop.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is the interface the sampler package depends on, so pkg/ijgp
// never imports Prometheus directly. Noop satisfies it for tests and
// library callers who don't want metrics.
type Recorder interface {
	SampleAttempted()
	SampleAccepted()
	PropagationFailed()
	IJGPPass(iterations int, klDivergence float64)
}

// Collectors is the real, registered Recorder implementation.
type Collectors struct {
	samplesAttempted prometheus.Counter
	samplesAccepted  prometheus.Counter
	propagationFails prometheus.Counter
	ijgpIterations   prometheus.Histogram
	ijgpKL           prometheus.Histogram
}

// NewCollectors registers every sampler metric against reg and returns a
// Recorder backed by them. If reg is nil the collectors are created but not
// registered anywhere.
func NewCollectors(reg prometheus.Registerer) *Collectors {
	factory := promauto.With(reg)
	return &Collectors{
		samplesAttempted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "ijgpsampler",
			Name:      "samples_attempted_total",
			Help:      "Number of top-level GetSample invocations started.",
		}),
		samplesAccepted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "ijgpsampler",
			Name:      "samples_accepted_total",
			Help:      "Number of GetSample invocations that returned a full assignment.",
		}),
		propagationFails: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "ijgpsampler",
			Name:      "propagation_failures_total",
			Help:      "Number of GAC propagation calls that emptied a domain.",
		}),
		ijgpIterations: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "ijgpsampler",
			Name:      "ijgp_pass_iterations",
			Help:      "Iterations run per IJGP convergence call.",
			Buckets:   prometheus.LinearBuckets(1, 1, 10),
		}),
		ijgpKL: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "ijgpsampler",
			Name:      "ijgp_final_kl_divergence",
			Help:      "Graph-wide KL divergence at IJGP convergence.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 10, 8),
		}),
	}
}

func (c *Collectors) SampleAttempted()    { c.samplesAttempted.Inc() }
func (c *Collectors) SampleAccepted()     { c.samplesAccepted.Inc() }
func (c *Collectors) PropagationFailed()  { c.propagationFails.Inc() }

func (c *Collectors) IJGPPass(iterations int, klDivergence float64) {
	c.ijgpIterations.Observe(float64(iterations))
	c.ijgpKL.Observe(klDivergence)
}

// Noop discards every observation; the zero value is ready to use.
type Noop struct{}

func (Noop) SampleAttempted()                      {}
func (Noop) SampleAccepted()                       {}
func (Noop) PropagationFailed()                    {}
func (Noop) IJGPPass(iterations int, kl float64)   {}

// Handler returns the HTTP handler cmd/sampler mounts at /metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
