// Package metrics exposes Prometheus counters for parse and fetch
// activity.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors for one process.
type Metrics struct {
	StatementsParsed *prometheus.CounterVec
	ParseFailures    *prometheus.CounterVec
	PlaidFetches     *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		StatementsParsed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "finview",
			Name:      "statements_parsed_total",
			Help:      "Statements parsed successfully, by format.",
		}, []string{"format"}),
		ParseFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "finview",
			Name:      "parse_failures_total",
			Help:      "Parse failures, by reason.",
		}, []string{"reason"}),
		PlaidFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "finview",
			Name:      "plaid_fetches_total",
			Help:      "Plaid transaction fetches, by outcome.",
		}, []string{"outcome"}),
	}
	reg.MustRegister(m.StatementsParsed, m.ParseFailures, m.PlaidFetches)
	return m
}
