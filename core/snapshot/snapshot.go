// Package snapshot defines the persisted output of a planning cycle.
package snapshot

import (
	"context"
	"errors"
	"time"

	"github.com/kilianp07/induction/core/model"
)

// DefaultTopN is the number of rows served when no limit is given.
const DefaultTopN = 100

// ErrNoSnapshot is returned by Latest before any cycle has been saved.
var ErrNoSnapshot = errors.New("no snapshot available")

// Snapshot is the ranked list produced by one cycle.
type Snapshot struct {
	CycleID      string            `json:"cycle_id"`
	PlanningTime time.Time         `json:"planning_time"`
	GeneratedAt  time.Time         `json:"generated_at"`
	Rows         []model.RankedRow `json:"rows"`
}

// Store persists snapshots. Only the latest one is ever read back.
type Store interface {
	Save(ctx context.Context, s Snapshot) error
	Latest(ctx context.Context) (Snapshot, error)
	Close() error
}

// Top returns the first n rows of s. A non-positive n selects DefaultTopN.
func Top(s Snapshot, n int) []model.RankedRow {
	if n <= 0 {
		n = DefaultTopN
	}
	if n > len(s.Rows) {
		n = len(s.Rows)
	}
	out := make([]model.RankedRow, n)
	copy(out, s.Rows[:n])
	return out
}

// Eligible counts the rows that passed the induction gate.
func (s Snapshot) Eligible() int {
	n := 0
	for _, r := range s.Rows {
		if r.Eligible {
			n++
		}
	}
	return n
}

// TrainIDs returns the first n train ids in rank order.
func (s Snapshot) TrainIDs(n int) []string {
	rows := Top(s, n)
	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = r.TrainID
	}
	return ids
}
