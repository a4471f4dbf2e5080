package collector

import (
	"github.com/prometheus/client_golang/prometheus"
	"gopkg.in/errgo.v1"
)

type metrics struct {
	ticks     prometheus.Counter
	failures  prometheus.Counter
	stale     prometheus.Counter
	malformed prometheus.Counter
	samples   prometheus.Gauge
}

func newMetrics(r prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "charter_ticks_total",
			Help: "Number of data source requests issued.",
		}),
		failures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "charter_tick_failures_total",
			Help: "Number of data source requests that failed.",
		}),
		stale: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "charter_stale_responses_total",
			Help: "Number of responses discarded because collection had stopped or restarted.",
		}),
		malformed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "charter_malformed_responses_total",
			Help: "Number of responses skipped because they were malformed.",
		}),
		samples: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "charter_samples",
			Help: "Number of samples currently held in each series.",
		}),
	}
	if r == nil {
		return m, nil
	}
	for _, c := range []prometheus.Collector{m.ticks, m.failures, m.stale, m.malformed, m.samples} {
		if err := r.Register(c); err != nil {
			return nil, errgo.Notef(err, "cannot register metrics")
		}
	}
	return m, nil
}
