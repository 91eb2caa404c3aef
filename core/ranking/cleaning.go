package ranking

import (
	"math"
	"time"

	"github.com/kilianp07/induction/core/model"
)

// lastCleaned returns, per train, the end of the most recent job completed at
// or before now.
func lastCleaned(history []model.CleaningJob, now time.Time) map[string]time.Time {
	out := make(map[string]time.Time)
	for _, j := range history {
		if j.ScheduledEnd == nil || j.ScheduledEnd.After(now) {
			continue
		}
		if cur, ok := out[j.TrainID]; !ok || j.ScheduledEnd.After(cur) {
			out[j.TrainID] = *j.ScheduledEnd
		}
	}
	return out
}

type cleanHistoryFeature struct {
	ageHours  float64
	freshness float64
}

// freshness decays linearly from 1 right after a clean to 0 at the horizon.
func freshness(ageHours, horizon float64) float64 {
	return clip(1-math.Min(ageHours, horizon)/horizon, 0, 1)
}

func extractCleaningHistory(history []model.CleaningJob, now time.Time, cfg Config) map[string]cleanHistoryFeature {
	out := make(map[string]cleanHistoryFeature)
	for id, end := range lastCleaned(history, now) {
		age := now.Sub(end).Hours()
		out[id] = cleanHistoryFeature{ageHours: age, freshness: freshness(age, cfg.FreshnessHorizonHours)}
	}
	return out
}

func missingCleanHistory(cfg Config) cleanHistoryFeature {
	return cleanHistoryFeature{
		ageHours:  cfg.MissingCleanAgeHours,
		freshness: freshness(cfg.MissingCleanAgeHours, cfg.FreshnessHorizonHours),
	}
}

// extractCleaningToday sums duration x manpower for jobs starting within the
// window [now, now+window).
func extractCleaningToday(schedule []model.CleaningJob, now time.Time, cfg Config) map[string]float64 {
	end := now.Add(time.Duration(cfg.CleaningWindowHours * float64(time.Hour)))
	out := make(map[string]float64)
	for _, j := range schedule {
		if j.ScheduledStart == nil || j.ScheduledStart.Before(now) || !j.ScheduledStart.Before(end) {
			continue
		}
		out[j.TrainID] += cfg.cleaningDuration(j.CleaningType) * j.ManpowerRequired
	}
	return out
}
