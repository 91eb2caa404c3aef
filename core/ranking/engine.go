package ranking

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kilianp07/induction/core/logger"
	"github.com/kilianp07/induction/core/model"
	"github.com/kilianp07/induction/core/source"
)

// Engine turns one snapshot of input tables into a ranked induction list. It
// holds no state between runs and is safe for concurrent use.
type Engine struct {
	cfg Config
	log logger.Logger
}

// NewEngine validates cfg after applying defaults.
func NewEngine(cfg Config, log logger.Logger) (*Engine, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("ranking config: %w", err)
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Engine{cfg: cfg, log: log}, nil
}

// Config returns the effective configuration.
func (e *Engine) Config() Config { return e.cfg }

// Result is the output of one planning cycle.
type Result struct {
	PlanningTime time.Time
	// Records are in ranked order.
	Records []*model.TrainRecord
	Fleet   Fleet
	Stats   ScoreStats
}

// Rows converts the ranked records to their output form.
func (r *Result) Rows() []model.RankedRow {
	rows := make([]model.RankedRow, len(r.Records))
	for i, rec := range r.Records {
		rows[i] = model.NewRankedRow(i+1, rec)
	}
	return rows
}

// EligibleCount returns how many trains passed the induction gate.
func (r *Result) EligibleCount() int {
	n := 0
	for _, rec := range r.Records {
		if rec.Eligible {
			n++
		}
	}
	return n
}

type features struct {
	fitness  map[string]fitnessFeature
	orders   map[string]workOrderFeature
	branding map[string]float64
	mileage  map[string]mileageFeature
	history  map[string]cleanHistoryFeature
	today    map[string]float64
}

// extract runs the six feature extractors concurrently. Each goroutine reads
// one table and writes its own map.
func (e *Engine) extract(ctx context.Context, t *source.Tables, now time.Time) (features, error) {
	var f features
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		f.fitness = extractFitness(t.Fitness, now)
		return gctx.Err()
	})
	g.Go(func() error {
		f.orders = extractWorkOrders(t.WorkOrders)
		return gctx.Err()
	})
	g.Go(func() error {
		f.branding = extractBranding(t.Branding, now)
		return gctx.Err()
	})
	g.Go(func() error {
		f.mileage = extractMileage(t.Mileage)
		return gctx.Err()
	})
	g.Go(func() error {
		f.history = extractCleaningHistory(t.CleaningHistory, now, e.cfg)
		return gctx.Err()
	})
	g.Go(func() error {
		f.today = extractCleaningToday(t.CleaningSchedule, now, e.cfg)
		return gctx.Err()
	})
	if err := g.Wait(); err != nil {
		return features{}, err
	}
	return f, nil
}

// assemble builds one record per train id, applying each source's default
// where it has no data for the train.
func (e *Engine) assemble(ids []string, f features, positions map[string]string) []*model.TrainRecord {
	records := make([]*model.TrainRecord, len(ids))
	for i, id := range ids {
		r := &model.TrainRecord{TrainID: id}

		fit, ok := f.fitness[id]
		if !ok {
			fit = missingFitness()
		}
		fit.apply(r)

		f.orders[id].apply(r)
		r.BrandingHours = f.branding[id]

		m := f.mileage[id]
		r.CumulativeKm, r.DeltaKm = m.cumulativeKm, m.deltaKm

		h, ok := f.history[id]
		if !ok {
			h = missingCleanHistory(e.cfg)
		}
		r.CleanAgeHours, r.CleanFreshnessRaw = h.ageHours, h.freshness
		r.TodayCleanLoad = f.today[id]

		if pos, ok := positions[id]; ok {
			r.Position, r.HasPosition = pos, true
		}
		records[i] = r
	}
	return records
}

// Run executes a full planning cycle. It fails with ErrNoTrainsFound when no
// source names a train, and never returns a partial result.
func (e *Engine) Run(ctx context.Context, t *source.Tables, planningTime time.Time) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if t == nil {
		t = source.NewTables()
	}
	now := planningTime.UTC()

	ids, err := ResolveTrains(t)
	if err != nil {
		return nil, err
	}
	e.log.Debugf("resolved %d trains from %v", len(ids), t.Present())

	f, err := e.extract(ctx, t, now)
	if err != nil {
		return nil, fmt.Errorf("extract features: %w", err)
	}
	e.log.Debugw("features extracted", map[string]any{
		"certified":      len(f.fitness),
		"open_orders":    len(f.orders),
		"branded":        len(f.branding),
		"with_mileage":   len(f.mileage),
		"cleaned_before": len(f.history),
		"cleaning_today": len(f.today),
	})

	records := e.assemble(ids, f, stablingPositions(t.Stabling, e.log))
	AssignSlots(records, e.log)
	for _, r := range records {
		e.log.Debugf("train %s stabled at %s", r.TrainID, slotLabel(r))
	}

	stats := Score(records, e.cfg)
	Rank(records)

	fleet := ComputeFleet(records)
	for _, r := range records {
		r.Reasons = Explain(r, fleet, e.cfg)
	}

	return &Result{PlanningTime: now, Records: records, Fleet: fleet, Stats: stats}, nil
}
