package metrics

import (
	"context"
	"time"

	"github.com/kilianp07/induction/core/events"
	coremetrics "github.com/kilianp07/induction/core/metrics"
	"github.com/kilianp07/induction/infra/logger"
	"github.com/kilianp07/induction/internal/eventbus"
)

// RecordCycle converts a completed cycle into sink calls. Per-train scores are
// exported for the first topN rows of successful cycles only.
func RecordCycle(sink coremetrics.MetricsSink, ev events.CycleCompleted, topN int) error {
	at := ev.GeneratedAt
	if at.IsZero() {
		at = time.Now().UTC()
	}
	if err := sink.RecordCycle(coremetrics.CycleEvent{
		CycleID:      ev.CycleID,
		PlanningTime: ev.PlanningTime,
		Trains:       len(ev.Rows),
		Eligible:     ev.Eligible,
		Duration:     ev.Duration,
		Outcome:      ev.Outcome,
		Time:         at,
	}); err != nil {
		return err
	}
	rec, ok := sink.(coremetrics.TrainScoreRecorder)
	if !ok || !ev.Succeeded() {
		return nil
	}
	rows := ev.Rows
	if topN > 0 && len(rows) > topN {
		rows = rows[:topN]
	}
	scores := make([]coremetrics.TrainScore, len(rows))
	for i, r := range rows {
		scores[i] = coremetrics.TrainScore{
			CycleID:       ev.CycleID,
			TrainID:       r.TrainID,
			Rank:          r.Rank,
			PriorityScore: r.PriorityScore,
			Eligible:      r.Eligible,
			ShuntDepth:    r.ShuntDepth,
			Time:          at,
		}
	}
	return rec.RecordTrainScores(scores)
}

// StartEventCollector subscribes to the event bus and records metrics for
// every completed cycle. It stops when the context is canceled or the bus is
// closed.
func StartEventCollector(ctx context.Context, bus *eventbus.TypedBus[events.CycleCompleted], sink coremetrics.MetricsSink, topN int) {
	if bus == nil || sink == nil {
		return
	}
	log := logger.New("metrics-collector")
	sub := bus.Subscribe()
	go func() {
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				if err := RecordCycle(sink, ev, topN); err != nil {
					log.Warnf("record cycle %s: %v", ev.CycleID, err)
				}
			}
		}
	}()
}
