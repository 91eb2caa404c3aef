package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/induction/core/metrics"
)

type capture struct {
	mu     sync.Mutex
	bodies []string
}

func (c *capture) server(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		c.mu.Lock()
		c.bodies = append(c.bodies, strings.TrimSpace(string(data)))
		c.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestInfluxSink_RecordCycle(t *testing.T) {
	var c capture
	srv := c.server(t)

	sink := NewInfluxSink(InfluxConfig{URL: srv.URL, Token: "token", Org: "org", Bucket: "bucket"})
	now := time.Now()
	ev := coremetrics.CycleEvent{
		CycleID:  "c1",
		Trains:   25,
		Eligible: 20,
		Duration: 1500 * time.Microsecond,
		Outcome:  "success",
		Time:     now,
	}
	if err := sink.RecordCycle(ev); err != nil {
		t.Fatalf("record error: %v", err)
	}
	p := write.NewPointWithMeasurement("ranking_cycle").
		AddTag("outcome", "success").
		AddTag("component", "priority_engine").
		AddField("cycle_id", "c1").
		AddField("trains", 25).
		AddField("eligible", 20).
		AddField("duration_ms", 1.5).
		SetTime(now)
	expected := strings.TrimSpace(write.PointToLineProtocol(p, time.Nanosecond))
	if len(c.bodies) != 1 || c.bodies[0] != expected {
		t.Errorf("unexpected bodies: %#v", c.bodies)
	}
}

func TestInfluxSink_RecordTrainScores(t *testing.T) {
	var c capture
	srv := c.server(t)

	sink := NewInfluxSink(InfluxConfig{URL: srv.URL + "/api/v2/write", Token: "token", Org: "org", Bucket: "bucket"})
	now := time.Now()
	scores := []coremetrics.TrainScore{
		{CycleID: "c1", TrainID: "T1", Rank: 1, PriorityScore: 0.91234, Eligible: true, ShuntDepth: 0, Time: now},
		{CycleID: "c1", TrainID: "T2", Rank: 2, PriorityScore: 0.1, Eligible: false, ShuntDepth: 3, Time: now},
	}
	if err := sink.RecordTrainScores(scores); err != nil {
		t.Fatalf("record: %v", err)
	}
	var lines []string
	for _, sc := range scores {
		p := write.NewPointWithMeasurement("train_priority").
			AddTag("train_id", sc.TrainID).
			AddTag("eligible", map[bool]string{true: "true", false: "false"}[sc.Eligible]).
			AddField("cycle_id", "c1").
			AddField("rank", sc.Rank).
			AddField("priority_score", round3(sc.PriorityScore)).
			AddField("shunt_depth", sc.ShuntDepth).
			SetTime(now)
		lines = append(lines, strings.TrimSpace(write.PointToLineProtocol(p, time.Nanosecond)))
	}
	if len(c.bodies) != 1 || c.bodies[0] != strings.Join(lines, "\n") {
		t.Errorf("bodies: %#v", c.bodies)
	}

	if err := sink.RecordTrainScores(nil); err != nil {
		t.Fatalf("empty record: %v", err)
	}
	if len(c.bodies) != 1 {
		t.Errorf("empty batch must not write")
	}
}

func TestNewInfluxSinkWithFallback(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			called = true
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
	}))
	defer srv.Close()

	sink := NewInfluxSinkWithFallback(InfluxConfig{URL: srv.URL + "/api/v2/write", Token: "tok", Org: "org", Bucket: "bucket"})
	if _, ok := sink.(*InfluxSink); ok {
		t.Fatalf("expected NopSink on failing health check")
	}
	if !called {
		t.Fatalf("health endpoint not called")
	}
}
