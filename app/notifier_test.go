package app

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/induction/core/events"
	"github.com/kilianp07/induction/core/model"
	"github.com/kilianp07/induction/infra/mqtt"
	"github.com/kilianp07/induction/internal/eventbus"
)

func cycleEvent(ids ...string) events.CycleCompleted {
	ev := events.CycleCompleted{CycleID: "c-1", PlanningTime: planning, Outcome: events.OutcomeSuccess, Eligible: 1}
	for i, id := range ids {
		ev.Rows = append(ev.Rows, model.RankedRow{Rank: i + 1, TrainID: id})
	}
	return ev
}

func TestNotifier_AnnounceTopTrains(t *testing.T) {
	pub := mqtt.NewMockPublisher()
	n := NewNotifier(pub, "depot/induction/latest", 2)
	require.NoError(t, n.Announce(context.Background(), cycleEvent("T1", "T3", "T2")))

	msgs := pub.Sent()
	require.Len(t, msgs, 1)
	assert.Equal(t, "depot/induction/latest", msgs[0].Topic)
	var a Announcement
	require.NoError(t, json.Unmarshal(msgs[0].Payload, &a))
	assert.Equal(t, "c-1", a.CycleID)
	assert.Equal(t, 3, a.Trains)
	assert.Equal(t, 1, a.Eligible)
	assert.Equal(t, []string{"T1", "T3"}, a.Top)
	assert.True(t, planning.Equal(a.PlanningTime))
}

func TestNotifier_SkipsFailedCycles(t *testing.T) {
	pub := mqtt.NewMockPublisher()
	n := NewNotifier(pub, "t", 10)
	ev := events.CycleCompleted{CycleID: "c-2", Outcome: events.OutcomeError, Err: errors.New("boom")}
	require.NoError(t, n.Announce(context.Background(), ev))
	assert.Empty(t, pub.Sent())
}

func TestNotifier_PublishFailure(t *testing.T) {
	pub := &mqtt.MockPublisher{Fail: true}
	err := NewNotifier(pub, "t", 10).Announce(context.Background(), cycleEvent("T1"))
	assert.Error(t, err)
}

func TestNotifier_StartConsumesBus(t *testing.T) {
	bus := eventbus.NewTyped[events.CycleCompleted]()
	defer bus.Close()
	pub := mqtt.NewMockPublisher()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	NewNotifier(pub, "t", 5).Start(ctx, bus)
	require.Eventually(t, func() bool { return bus.Subscribers() == 1 }, time.Second, 10*time.Millisecond)

	bus.Publish(cycleEvent("T9"))
	assert.Eventually(t, func() bool { return len(pub.Sent()) == 1 }, time.Second, 10*time.Millisecond)

	cancel()
	assert.Eventually(t, func() bool { return bus.Subscribers() == 0 }, time.Second, 10*time.Millisecond)
}

func TestService_NotifiesOverMQTT(t *testing.T) {
	pub := mqtt.NewMockPublisher()
	svc, cfg := newTestService(t, WithPublisher(pub))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	NewNotifier(pub, cfg.MQTT.Topic, cfg.MQTT.TopTrains).Start(ctx, svc.Bus())
	require.Eventually(t, func() bool { return svc.Bus().Subscribers() == 1 }, time.Second, 10*time.Millisecond)

	snap, err := svc.RunCycle(ctx, scenarioTables(t), planning, true)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return len(pub.Sent()) == 1 }, time.Second, 10*time.Millisecond)

	var a Announcement
	require.NoError(t, json.Unmarshal(pub.Sent()[0].Payload, &a))
	assert.Equal(t, snap.CycleID, a.CycleID)
	assert.Equal(t, "depot/induction/latest", pub.Sent()[0].Topic)
}
