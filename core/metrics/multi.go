package metrics

import "errors"

// MultiSink fans out events to multiple sinks.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordCycle forwards the event to every sink and joins their errors.
func (m *MultiSink) RecordCycle(ev CycleEvent) error {
	var errs []error
	for _, s := range m.Sinks {
		if err := s.RecordCycle(ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RecordTrainScores forwards scores to sinks that support them.
func (m *MultiSink) RecordTrainScores(scores []TrainScore) error {
	var errs []error
	for _, s := range m.Sinks {
		if rec, ok := s.(TrainScoreRecorder); ok {
			if err := rec.RecordTrainScores(scores); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
