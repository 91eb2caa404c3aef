package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/induction/core/events"
	coremetrics "github.com/kilianp07/induction/core/metrics"
)

func TestPromSink_RecordCycle(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(reg)
	require.NoError(t, err)

	require.NoError(t, sink.RecordCycle(coremetrics.CycleEvent{
		CycleID: "c1", Trains: 25, Eligible: 19, Duration: 40 * time.Millisecond, Outcome: events.OutcomeSuccess,
	}))
	require.NoError(t, sink.RecordCycle(coremetrics.CycleEvent{
		CycleID: "c2", Duration: time.Millisecond, Outcome: events.OutcomeError,
	}))

	expected := `
# HELP induction_cycles_total Total number of planning cycles by outcome
# TYPE induction_cycles_total counter
induction_cycles_total{outcome="error"} 1
induction_cycles_total{outcome="success"} 1
`
	if err := testutil.CollectAndCompare(sink.cycles, strings.NewReader(expected)); err != nil {
		t.Errorf("unexpected metrics: %v", err)
	}
	assert.Equal(t, 25.0, testutil.ToFloat64(sink.ranked), "failed cycle must not reset gauges")
	assert.Equal(t, 19.0, testutil.ToFloat64(sink.eligible))
	assert.Equal(t, 1, testutil.CollectAndCount(sink.duration))
}

func TestPromSink_RecordTrainScoresReplacesPreviousCycle(t *testing.T) {
	sink, err := NewPromSinkWithRegistry(prometheus.NewRegistry())
	require.NoError(t, err)

	require.NoError(t, sink.RecordTrainScores([]coremetrics.TrainScore{
		{TrainID: "T1", PriorityScore: 0.9}, {TrainID: "T2", PriorityScore: 0.4},
	}))
	require.NoError(t, sink.RecordTrainScores([]coremetrics.TrainScore{{TrainID: "T3", PriorityScore: 1}}))

	expected := `
# HELP induction_priority_score Priority score of each train in the latest cycle
# TYPE induction_priority_score gauge
induction_priority_score{train_id="T3"} 1
`
	if err := testutil.CollectAndCompare(sink.scores, strings.NewReader(expected)); err != nil {
		t.Errorf("unexpected metrics: %v", err)
	}
}

func TestPromSink_ReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	a, err := NewPromSinkWithRegistry(reg)
	require.NoError(t, err)
	b, err := NewPromSinkWithRegistry(reg)
	require.NoError(t, err)
	assert.Same(t, a.cycles, b.cycles)
}
