package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kilianp07/induction/core/events"
	coremetrics "github.com/kilianp07/induction/core/metrics"
)

// PromSink records planning cycles in Prometheus metrics.
type PromSink struct {
	cycles   *prometheus.CounterVec
	duration prometheus.Histogram
	ranked   prometheus.Gauge
	eligible prometheus.Gauge
	scores   *prometheus.GaugeVec
}

// NewPromSink registers cycle metrics on the default Prometheus registerer.
// The Prometheus server should be started separately using StartPromServer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// register adds c to reg, reusing an identical collector registered earlier.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{}
	var err error
	if s.cycles, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "induction_cycles_total",
		Help: "Total number of planning cycles by outcome",
	}, []string{"outcome"})); err != nil {
		return nil, err
	}
	if s.duration, err = register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "induction_cycle_duration_seconds",
		Help:    "Time spent computing a planning cycle",
		Buckets: prometheus.DefBuckets,
	})); err != nil {
		return nil, err
	}
	if s.ranked, err = register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "induction_trains_ranked",
		Help: "Number of trains in the latest ranked list",
	})); err != nil {
		return nil, err
	}
	if s.eligible, err = register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "induction_trains_eligible",
		Help: "Number of eligible trains in the latest ranked list",
	})); err != nil {
		return nil, err
	}
	if s.scores, err = register(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "induction_priority_score",
		Help: "Priority score of each train in the latest cycle",
	}, []string{"train_id"})); err != nil {
		return nil, err
	}
	return s, nil
}

// RecordCycle counts the cycle. Gauges only move on successful cycles.
func (s *PromSink) RecordCycle(ev coremetrics.CycleEvent) error {
	s.cycles.WithLabelValues(ev.Outcome).Inc()
	s.duration.Observe(ev.Duration.Seconds())
	if ev.Outcome == events.OutcomeSuccess {
		s.ranked.Set(float64(ev.Trains))
		s.eligible.Set(float64(ev.Eligible))
	}
	return nil
}

// RecordTrainScores replaces the per-train gauges with the latest cycle.
func (s *PromSink) RecordTrainScores(scores []coremetrics.TrainScore) error {
	s.scores.Reset()
	for _, sc := range scores {
		s.scores.WithLabelValues(sc.TrainID).Set(sc.PriorityScore)
	}
	return nil
}
