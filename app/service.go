package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/kilianp07/induction/api/ranking"
	"github.com/kilianp07/induction/config"
	"github.com/kilianp07/induction/core/events"
	coremetrics "github.com/kilianp07/induction/core/metrics"
	"github.com/kilianp07/induction/core/model"
	coremqtt "github.com/kilianp07/induction/core/mqtt"
	coreranking "github.com/kilianp07/induction/core/ranking"
	"github.com/kilianp07/induction/core/snapshot"
	"github.com/kilianp07/induction/core/source"
	"github.com/kilianp07/induction/infra/logger"
	"github.com/kilianp07/induction/infra/metrics"
	"github.com/kilianp07/induction/infra/mqtt"
	infrasnapshot "github.com/kilianp07/induction/infra/snapshot"
	"github.com/kilianp07/induction/internal/eventbus"
)

// Service wires the priority engine to the snapshot store, metrics sinks and
// MQTT announcements.
type Service struct {
	cfg       *config.Config
	engine    *coreranking.Engine
	store     snapshot.Store
	sink      coremetrics.MetricsSink
	publisher coremqtt.Publisher
	bus       *eventbus.TypedBus[events.CycleCompleted]
	log       logger.Logger
	now       func() time.Time
}

// Option customizes a Service, mostly for tests.
type Option func(*Service)

// WithStore replaces the configured snapshot backend.
func WithStore(st snapshot.Store) Option { return func(s *Service) { s.store = st } }

// WithSink replaces the configured metrics sinks.
func WithSink(sink coremetrics.MetricsSink) Option { return func(s *Service) { s.sink = sink } }

// WithPublisher replaces the MQTT client.
func WithPublisher(p coremqtt.Publisher) Option { return func(s *Service) { s.publisher = p } }

// WithClock sets the time source used when no planning time is given.
func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

// New creates a Service from the configuration.
func New(cfg *config.Config, opts ...Option) (*Service, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	s := &Service{
		cfg: cfg,
		bus: eventbus.NewTyped[events.CycleCompleted](eventbus.WithBuffer(16)),
		log: logger.New("service"),
		now: func() time.Time { return time.Now().UTC() },
	}
	for _, o := range opts {
		o(s)
	}

	eng, err := coreranking.NewEngine(cfg.Engine.Config, logger.New("engine"))
	if err != nil {
		return nil, err
	}
	s.engine = eng

	if s.store == nil {
		st, err := infrasnapshot.New(cfg.Snapshot)
		if err != nil {
			return nil, fmt.Errorf("snapshot store: %w", err)
		}
		s.store = st
	}
	if s.sink == nil {
		sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
		if err != nil {
			return nil, fmt.Errorf("metrics sink: %w", err)
		}
		s.sink = sink
	}
	if s.publisher == nil && cfg.MQTT.Enabled {
		client, err := mqtt.NewPahoClient(cfg.MQTT)
		if err != nil {
			return nil, fmt.Errorf("mqtt client: %w", err)
		}
		s.publisher = client
	}
	return s, nil
}

// Bus exposes cycle events to additional subscribers.
func (s *Service) Bus() *eventbus.TypedBus[events.CycleCompleted] { return s.bus }

// RunCycle ranks the given tables and saves the result as the latest
// snapshot. A zero planningTime uses the configured one, or now. Nothing is
// saved when any step fails; the outcome is published either way.
func (s *Service) RunCycle(ctx context.Context, t *source.Tables, planningTime time.Time, requireMandatory bool) (snapshot.Snapshot, error) {
	start := time.Now()
	if planningTime.IsZero() {
		planningTime = s.cfg.Engine.Planning(s.now())
	}
	ev := events.CycleCompleted{CycleID: uuid.NewString(), PlanningTime: planningTime.UTC()}

	snap, err := s.runCycle(ctx, t, ev.CycleID, ev.PlanningTime, requireMandatory)
	ev.Duration = time.Since(start)
	ev.GeneratedAt = s.now()
	switch {
	case err == nil:
		ev.Outcome = events.OutcomeSuccess
		ev.Rows = snap.Rows
		ev.Eligible = snap.Eligible()
		ev.GeneratedAt = snap.GeneratedAt
		s.log.Infow("cycle completed", map[string]any{
			"cycle_id": ev.CycleID,
			"trains":   len(snap.Rows),
			"eligible": ev.Eligible,
			"duration": ev.Duration.String(),
		})
	case IsInvalidInput(err):
		ev.Outcome, ev.Err = events.OutcomeInvalid, err
		s.log.Warnf("cycle %s rejected: %v", ev.CycleID, err)
	default:
		ev.Outcome, ev.Err = events.OutcomeError, err
		s.log.Errorf("cycle %s failed: %v", ev.CycleID, err)
	}
	s.bus.Publish(ev)
	return snap, err
}

func (s *Service) runCycle(ctx context.Context, t *source.Tables, id string, planningTime time.Time, requireMandatory bool) (snapshot.Snapshot, error) {
	if t == nil {
		t = source.NewTables()
	}
	if requireMandatory {
		if err := t.RequireMandatory(); err != nil {
			return snapshot.Snapshot{}, err
		}
	}
	res, err := s.engine.Run(ctx, t, planningTime)
	if err != nil {
		return snapshot.Snapshot{}, err
	}
	snap := snapshot.Snapshot{
		CycleID:      id,
		PlanningTime: res.PlanningTime,
		GeneratedAt:  s.now(),
		Rows:         res.Rows(),
	}
	if err := s.store.Save(ctx, snap); err != nil {
		return snapshot.Snapshot{}, fmt.Errorf("save snapshot: %w", err)
	}
	return snap, nil
}

// RunLocal runs one cycle over the configured data directory.
func (s *Service) RunLocal(ctx context.Context, planningTime time.Time) (snapshot.Snapshot, error) {
	t, err := source.LoadDir(s.cfg.Sources.Dir, s.cfg.Sources.FileMap())
	if err != nil {
		return snapshot.Snapshot{}, fmt.Errorf("load %s: %w", s.cfg.Sources.Dir, err)
	}
	return s.RunCycle(ctx, t, planningTime, false)
}

// Latest returns the most recently saved snapshot.
func (s *Service) Latest(ctx context.Context) (snapshot.Snapshot, error) {
	return s.store.Latest(ctx)
}

// Top returns the first n rows of the latest snapshot, or none when no cycle
// has completed yet.
func (s *Service) Top(ctx context.Context, n int) ([]model.RankedRow, error) {
	snap, err := s.store.Latest(ctx)
	if errors.Is(err, snapshot.ErrNoSnapshot) {
		return []model.RankedRow{}, nil
	}
	if err != nil {
		return nil, err
	}
	return snapshot.Top(snap, n), nil
}

// IsInvalidInput reports whether err was caused by the request data rather
// than the service.
func IsInvalidInput(err error) bool {
	var verr *source.ValidationError
	return errors.As(err, &verr) || errors.Is(err, coreranking.ErrNoTrainsFound)
}

// Handler returns the HTTP API served by Run.
func (s *Service) Handler() http.Handler {
	return ranking.NewRouter(s, ranking.Options{
		AllowedOrigins: s.cfg.Server.AllowedOrigins,
		RequestTimeout: s.cfg.Server.RequestTimeout(),
		MaxUploadBytes: s.cfg.Server.MaxUploadBytes(),
		DefaultLimit:   s.cfg.Snapshot.TopN,
		Logger:         logger.New("api"),
	})
}

// Run serves the HTTP API and background consumers until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	metrics.StartEventCollector(ctx, s.bus, s.sink, s.cfg.Metrics.TopScores)
	if s.publisher != nil {
		NewNotifier(s.publisher, s.cfg.MQTT.Topic, s.cfg.MQTT.TopTrains).Start(ctx, s.bus)
	}

	g, ctx := errgroup.WithContext(ctx)
	if addr := s.cfg.Metrics.PrometheusAddr; addr != "" {
		g.Go(func() error {
			if err := metrics.StartPromServer(ctx, addr); err != nil {
				return fmt.Errorf("prom server: %w", err)
			}
			return nil
		})
	}
	if every := s.cfg.Sources.PollInterval(); every > 0 {
		g.Go(func() error { return NewPoller(s, every).Start(ctx) })
	}
	g.Go(func() error { return s.serve(ctx) })
	return g.Wait()
}

func (s *Service) serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Errorf("http shutdown: %v", err)
		}
	}()
	s.log.Infof("listening on %s", s.cfg.Server.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close releases the store, the bus and any broker connection.
func (s *Service) Close() error {
	s.bus.Close()
	if c, ok := s.publisher.(interface{ Disconnect() }); ok {
		c.Disconnect()
	}
	if c, ok := s.sink.(interface{ Close() }); ok {
		c.Close()
	}
	return s.store.Close()
}
