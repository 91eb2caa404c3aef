package ranking

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/kilianp07/induction/core/model"
)

// ScoreStats are the fleet aggregates the scorer derived for this batch.
type ScoreStats struct {
	MeanKm          float64 `json:"mean_km"`
	MaxAbsDeviation float64 `json:"max_abs_deviation_km"`
	MaxShuntDepth   int     `json:"max_shunt_depth"`
	MinComposite    float64 `json:"min_composite"`
	MaxComposite    float64 `json:"max_composite"`
}

func column(records []*model.TrainRecord, f func(*model.TrainRecord) float64) []float64 {
	out := make([]float64, len(records))
	for i, r := range records {
		out[i] = f(r)
	}
	return out
}

// Score fills every sub-score, the composite priority and eligibility. All
// normalization is relative to the records passed in.
func Score(records []*model.TrainRecord, cfg Config) ScoreStats {
	var stats ScoreStats
	if len(records) == 0 {
		return stats
	}

	fitness := MinMax(column(records, func(r *model.TrainRecord) float64 { return r.FitnessPriorityRaw }))
	jobs := MinMax(column(records, func(r *model.TrainRecord) float64 { return r.OpenWOHours }))
	branding := MinMax(column(records, func(r *model.TrainRecord) float64 { return r.BrandingHours }))
	penalty := MinMax(column(records, func(r *model.TrainRecord) float64 { return r.TodayCleanLoad }))

	km := column(records, func(r *model.TrainRecord) float64 { return r.CumulativeKm })
	stats.MeanKm = stat.Mean(km, nil)
	dev := make([]float64, len(km))
	for i, v := range km {
		dev[i] = math.Abs(v - stats.MeanKm)
	}
	stats.MaxAbsDeviation = math.Max(1, floats.Max(dev))

	for _, r := range records {
		if r.ShuntDepth > stats.MaxShuntDepth {
			stats.MaxShuntDepth = r.ShuntDepth
		}
	}
	depthScale := math.Max(1, float64(stats.MaxShuntDepth))
	alpha, lambda := cfg.cleanUpcomingAlpha(), cfg.shuntLambda()

	for i, r := range records {
		r.FitnessScore = fitness[i]
		r.JobScore = 1 - jobs[i]
		r.BrandingScore = branding[i]
		r.MileageScore = clip(1-dev[i]/stats.MaxAbsDeviation, 0, 1)
		r.CleanTodayPenalty = penalty[i]
		r.CleaningScoreRaw = clip(r.CleanFreshnessRaw*(1-alpha*penalty[i]), 0, 1)
		r.ShuntPenalty = float64(r.ShuntDepth) / depthScale
	}
	cleaning := MinMax(column(records, func(r *model.TrainRecord) float64 { return r.CleaningScoreRaw }))

	w := cfg.Weights
	composite := make([]float64, len(records))
	for i, r := range records {
		r.CleaningScore = cleaning[i]
		r.PriorityScoreRaw = w.Fitness*r.FitnessScore +
			w.Job*r.JobScore +
			w.Branding*r.BrandingScore +
			w.Mileage*r.MileageScore +
			w.Cleaning*r.CleaningScore -
			lambda*r.ShuntPenalty
		composite[i] = r.PriorityScoreRaw
	}
	stats.MinComposite, stats.MaxComposite = floats.Min(composite), floats.Max(composite)

	priority := MinMax(composite)
	for i, r := range records {
		r.PriorityScore = priority[i]
		r.Eligible = r.FitnessDaysLeft > 0 && r.OpenWOHours <= 0
	}
	return stats
}
