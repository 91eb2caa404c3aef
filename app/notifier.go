package app

import (
	"context"
	"encoding/json"
	"time"

	"github.com/kilianp07/induction/core/events"
	coremqtt "github.com/kilianp07/induction/core/mqtt"
	"github.com/kilianp07/induction/infra/logger"
	"github.com/kilianp07/induction/internal/eventbus"
)

// Announcement is the retained message describing the latest snapshot.
type Announcement struct {
	CycleID      string    `json:"cycle_id"`
	PlanningTime time.Time `json:"planning_time"`
	Trains       int       `json:"trains"`
	Eligible     int       `json:"eligible"`
	Top          []string  `json:"top"`
}

// Notifier announces every saved snapshot on an MQTT topic.
type Notifier struct {
	pub   coremqtt.Publisher
	topic string
	topN  int
	log   logger.Logger
}

// NewNotifier creates a Notifier. topN bounds the train ids listed per
// announcement.
func NewNotifier(pub coremqtt.Publisher, topic string, topN int) *Notifier {
	return &Notifier{pub: pub, topic: topic, topN: topN, log: logger.New("notifier")}
}

// Announce publishes the summary of a successful cycle. Other outcomes are
// ignored.
func (n *Notifier) Announce(ctx context.Context, ev events.CycleCompleted) error {
	if !ev.Succeeded() {
		return nil
	}
	a := Announcement{
		CycleID:      ev.CycleID,
		PlanningTime: ev.PlanningTime,
		Trains:       len(ev.Rows),
		Eligible:     ev.Eligible,
		Top:          []string{},
	}
	for i, r := range ev.Rows {
		if n.topN > 0 && i >= n.topN {
			break
		}
		a.Top = append(a.Top, r.TrainID)
	}
	payload, err := json.Marshal(a)
	if err != nil {
		return err
	}
	return n.pub.Publish(ctx, n.topic, payload)
}

// Start consumes cycle events until ctx is canceled or the bus is closed.
func (n *Notifier) Start(ctx context.Context, bus *eventbus.TypedBus[events.CycleCompleted]) {
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
				if err := n.Announce(ctx, ev); err != nil {
					n.log.Errorf("announce cycle %s: %v", ev.CycleID, err)
				}
			}
		}
	}()
}
