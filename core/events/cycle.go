package events

import (
	"time"

	"github.com/kilianp07/induction/core/model"
)

// Cycle outcomes reported to metrics sinks.
const (
	OutcomeSuccess = "success"
	OutcomeInvalid = "invalid_input"
	OutcomeError   = "error"
)

// CycleCompleted is published once per planning cycle. Rows is empty when
// Err is set and must not be modified by subscribers.
type CycleCompleted struct {
	CycleID      string
	PlanningTime time.Time
	GeneratedAt  time.Time
	Duration     time.Duration
	Rows         []model.RankedRow
	Eligible     int
	Outcome      string
	Err          error
}

// Succeeded reports whether the cycle produced a saved snapshot.
func (e CycleCompleted) Succeeded() bool { return e.Outcome == OutcomeSuccess }
