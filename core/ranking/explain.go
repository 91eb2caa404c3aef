package ranking

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/kilianp07/induction/core/model"
)

// Fleet aggregates the explainer compares each train against.
type Fleet struct {
	AvgFitnessDays   float64 `json:"avg_fitness_days"`
	AvgBrandingHours float64 `json:"avg_branding_hours"`
	AvgDeltaKm       float64 `json:"avg_delta_km"`
	AvgCleanAge      float64 `json:"avg_clean_age_hours"`
	AvgCleanLoad     float64 `json:"avg_clean_load"`
	// MedianSlot is taken over trains with a parsed slot index only.
	MedianSlot    float64 `json:"median_slot"`
	HasMedianSlot bool    `json:"has_median_slot"`
}

const (
	highBand           = 1.1
	lowBand            = 0.9
	highMileageBand    = 1.2
	lowMileageBand     = 0.8
	staleCleaningHours = 48.0
)

// ComputeFleet derives the per-batch aggregates once per cycle.
func ComputeFleet(records []*model.TrainRecord) Fleet {
	var f Fleet
	if len(records) == 0 {
		return f
	}
	f.AvgFitnessDays = stat.Mean(column(records, func(r *model.TrainRecord) float64 { return float64(r.FitnessDaysLeft) }), nil)
	f.AvgBrandingHours = stat.Mean(column(records, func(r *model.TrainRecord) float64 { return r.BrandingHours }), nil)
	f.AvgDeltaKm = stat.Mean(column(records, func(r *model.TrainRecord) float64 { return r.DeltaKm }), nil)
	f.AvgCleanAge = stat.Mean(column(records, func(r *model.TrainRecord) float64 { return r.CleanAgeHours }), nil)
	f.AvgCleanLoad = stat.Mean(column(records, func(r *model.TrainRecord) float64 { return r.TodayCleanLoad }), nil)

	var slots []float64
	for _, r := range records {
		if r.SlotIdx != nil {
			slots = append(slots, float64(*r.SlotIdx))
		}
	}
	if len(slots) > 0 {
		f.MedianSlot = median(slots)
		f.HasMedianSlot = true
	}
	return f
}

// median averages the two middle values of an even-sized sample.
func median(xs []float64) float64 {
	s := make([]float64, len(xs))
	copy(s, xs)
	sort.Float64s(s)
	n := len(s)
	if n%2 == 1 {
		return s[n/2]
	}
	return (s[n/2-1] + s[n/2]) / 2
}

// Explain lists why a train ranks where it does, each reason paired with a
// recommendation. A train with nothing notable gets a single neutral reason.
//
//nolint:gocyclo
func Explain(r *model.TrainRecord, f Fleet, cfg Config) []model.Reason {
	var out []model.Reason
	add := func(impact model.Impact, rec, format string, args ...any) {
		out = append(out, model.Reason{Impact: impact, Text: fmt.Sprintf(format, args...), Recommendation: rec})
	}

	switch r.FitnessState {
	case model.FitnessExpired:
		add(model.ImpactNegative, "Renew the fitness certificate before induction", "Expired fitness certificate")
	case model.FitnessUnknown:
		add(model.ImpactNegative, "Register a valid fitness certificate; the train cannot be inducted without one", "No fitness certificate on record")
	default:
		days := float64(r.FitnessDaysLeft)
		if r.FitnessDaysLeft == 0 {
			add(model.ImpactNegative, "Renew the fitness certificate today; the train becomes ineligible at expiry",
				"Fitness certificate expires within 24 hours")
		} else if days > f.AvgFitnessDays*highBand {
			add(model.ImpactPositive, "Fitness validity is comfortable; no action needed",
				"Fitness: High days left (%d vs. avg %.1f)", r.FitnessDaysLeft, f.AvgFitnessDays)
		} else if days < f.AvgFitnessDays*lowBand {
			add(model.ImpactNegative, "Plan the fitness renewal inspection soon",
				"Fitness: Low days left (%d vs. avg %.1f)", r.FitnessDaysLeft, f.AvgFitnessDays)
		}
	}

	if r.OpenWOCount > 0 {
		asset := r.FirstOpenAsset
		if asset == "" {
			asset = "unspecified asset"
		}
		add(model.ImpactNegative, "Close the open work orders before induction",
			"Ineligible: Open work order on %s (%g hrs approx.)", asset, r.FirstOpenHours)
	}

	if r.BrandingHours > f.AvgBrandingHours*highBand {
		add(model.ImpactPositive, "Induct to meet contracted branding exposure",
			"Branding: High branding exposure (%.1f hrs vs. avg %.1f)", r.BrandingHours, f.AvgBrandingHours)
	} else if r.BrandingHours < f.AvgBrandingHours*lowBand {
		add(model.ImpactNegative, "No branding commitment pending; suitable as standby",
			"Branding: Low exposure hours (%.1f hrs vs. avg %.1f)", r.BrandingHours, f.AvgBrandingHours)
	}

	if r.DeltaKm > f.AvgDeltaKm*highMileageBand {
		add(model.ImpactNegative, "Rotate to lighter duty to balance fleet wear",
			"Mileage: High recent mileage (%.1f km vs. avg %.1f)", r.DeltaKm, f.AvgDeltaKm)
	} else if r.DeltaKm < f.AvgDeltaKm*lowMileageBand {
		add(model.ImpactPositive, "Good candidate to even out fleet mileage",
			"Mileage: Low recent mileage (%.1f km vs. avg %.1f)", r.DeltaKm, f.AvgDeltaKm)
	}

	switch {
	case r.CleanAgeHours >= cfg.MissingCleanAgeHours:
		add(model.ImpactNegative, "Schedule a cleaning before service", "Cleaning: No completed cleaning on record")
	case r.CleanAgeHours > staleCleaningHours:
		add(model.ImpactNegative, "Schedule a cleaning before service",
			"Cleaning: Long since last cleaning (%.1f hrs ago vs. avg %.1f)", r.CleanAgeHours, f.AvgCleanAge)
	case r.CleanAgeHours < f.AvgCleanAge*lowBand:
		add(model.ImpactPositive, "Cleaning is current; no action needed",
			"Cleaning: Recently cleaned (%.1f hrs ago vs. avg %.1f)", r.CleanAgeHours, f.AvgCleanAge)
	}
	if r.TodayCleanLoad > f.AvgCleanLoad*highBand {
		add(model.ImpactNegative, "Expect reduced availability while cleaning crews are assigned",
			"Cleaning: High load today (%.1f hrs vs. avg %.1f)", r.TodayCleanLoad, f.AvgCleanLoad)
	}

	if r.SlotIdx != nil && f.HasMedianSlot {
		slot := float64(*r.SlotIdx)
		if slot > f.MedianSlot {
			add(model.ImpactNegative, "Move to a forward slot or plan shunting before departure",
				"Stabling: Requires significant shunting (slot %d vs. median %.1f)", *r.SlotIdx, f.MedianSlot)
		} else if slot < f.MedianSlot {
			add(model.ImpactPositive, "Ready for quick extraction",
				"Stabling: Forward position on stabling line - minimal shunting")
		}
	}

	if len(out) == 0 {
		add(model.ImpactNeutral, "No action required", "Balanced performance across all features")
	}
	return out
}
