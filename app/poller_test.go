package app

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/kilianp07/induction/core/snapshot"
)

type countingRunner struct {
	calls atomic.Int32
	err   error
}

func (r *countingRunner) RunLocal(context.Context, time.Time) (snapshot.Snapshot, error) {
	r.calls.Add(1)
	return snapshot.Snapshot{CycleID: "x"}, r.err
}

func TestPoller_RunsImmediatelyAndOnTick(t *testing.T) {
	r := &countingRunner{err: errors.New("source dir missing")}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- NewPoller(r, 20*time.Millisecond).Start(ctx) }()

	assert.Eventually(t, func() bool { return r.calls.Load() >= 3 }, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("poller did not stop")
	}
}
