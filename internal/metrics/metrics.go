// Package metrics exposes Prometheus counters for quotes, recorded jobs and
// the margin tiers they land in.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Simplici0/printcost/internal/margin"
)

// Collector holds the application metrics.
type Collector struct {
	quotes             prometheus.Counter
	jobsRecorded       prometheus.Counter
	validationFailures prometheus.Counter
	tiers              *prometheus.CounterVec
	quoteLatency       prometheus.Histogram

	gatherer prometheus.Gatherer
}

// NewCollector registers the metrics on a fresh registry that also carries
// the Go runtime and process collectors.
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return NewCollectorWith(reg, reg)
}

// NewCollectorWith registers the metrics on reg and serves them from g.
func NewCollectorWith(reg prometheus.Registerer, g prometheus.Gatherer) *Collector {
	c := &Collector{
		quotes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "printcost_quotes_total",
			Help: "Total number of cost calculations served",
		}),
		jobsRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "printcost_jobs_recorded_total",
			Help: "Total number of print jobs saved to history",
		}),
		validationFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "printcost_job_validation_failures_total",
			Help: "Total number of job drafts rejected for missing fields",
		}),
		tiers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "printcost_margin_tier_total",
			Help: "Calculations per resulting margin tier",
		}, []string{"tier"}),
		quoteLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "printcost_quote_duration_seconds",
			Help:    "Time spent loading the catalog and calculating a quote",
			Buckets: prometheus.DefBuckets,
		}),
		gatherer: g,
	}

	reg.MustRegister(c.quotes, c.jobsRecorded, c.validationFailures, c.tiers, c.quoteLatency)
	return c
}

// ObserveQuote records one calculation and its tier.
func (c *Collector) ObserveQuote(tier margin.TierID, took time.Duration) {
	c.quotes.Inc()
	c.tiers.WithLabelValues(tier.String()).Inc()
	c.quoteLatency.Observe(took.Seconds())
}

func (c *Collector) ObserveRecorded() {
	c.jobsRecorded.Inc()
}

func (c *Collector) ObserveValidationFailure() {
	c.validationFailures.Inc()
}

// Handler serves the registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{})
}
