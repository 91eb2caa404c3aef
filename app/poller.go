package app

import (
	"context"
	"time"

	"github.com/kilianp07/induction/core/snapshot"
	"github.com/kilianp07/induction/infra/logger"
)

// LocalRunner runs a cycle over the configured data directory.
type LocalRunner interface {
	RunLocal(ctx context.Context, planningTime time.Time) (snapshot.Snapshot, error)
}

// Poller re-ranks the data directory at a fixed interval so the latest
// snapshot follows upstream exports.
type Poller struct {
	runner   LocalRunner
	interval time.Duration
	log      logger.Logger
}

// NewPoller creates a Poller. A non-positive interval defaults to one hour.
func NewPoller(r LocalRunner, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Poller{runner: r, interval: interval, log: logger.New("poller")}
}

// Start runs one cycle immediately, then one per tick, until ctx is canceled.
// Failed cycles are logged and do not stop the loop.
func (p *Poller) Start(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	p.poll(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			p.poll(ctx)
		}
	}
}

func (p *Poller) poll(ctx context.Context) {
	snap, err := p.runner.RunLocal(ctx, time.Time{})
	if err != nil {
		p.log.Errorf("scheduled cycle: %v", err)
		return
	}
	p.log.Debugf("scheduled cycle %s ranked %d trains", snap.CycleID, len(snap.Rows))
}
