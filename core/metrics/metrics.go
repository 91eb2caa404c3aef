package metrics

import (
	"time"
)

// CycleEvent summarizes one planning cycle.
type CycleEvent struct {
	CycleID      string
	PlanningTime time.Time
	Trains       int
	Eligible     int
	Duration     time.Duration
	Outcome      string
	Time         time.Time
}

// CycleRecorder records cycle summaries. Every sink implements it.
type CycleRecorder interface {
	RecordCycle(ev CycleEvent) error
}

// MetricsSink records planning cycles for observability purposes.
type MetricsSink interface {
	CycleRecorder
}

// TrainScore is the ranked position of one train in a cycle.
type TrainScore struct {
	CycleID       string
	TrainID       string
	Rank          int
	PriorityScore float64
	Eligible      bool
	ShuntDepth    int
	Time          time.Time
}

// TrainScoreRecorder is implemented by sinks able to record per-train scores.
type TrainScoreRecorder interface {
	RecordTrainScores(scores []TrainScore) error
}

// NopSink implements every recorder with no-op methods.
type NopSink struct{}

func (NopSink) RecordCycle(CycleEvent) error         { return nil }
func (NopSink) RecordTrainScores([]TrainScore) error { return nil }
