package ranking

import (
	"time"

	"github.com/kilianp07/induction/core/model"
)

// civilDate drops the clock so contracts compare on calendar days.
func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// contractActive reports whether both dates parsed and the planning day lies in
// [start, end].
func contractActive(c model.BrandingContract, day time.Time) bool {
	if c.StartDate == nil || c.EndDate == nil {
		return false
	}
	start, end := civilDate(*c.StartDate), civilDate(*c.EndDate)
	return !day.Before(start) && !day.After(end)
}

// extractBranding sums the daily exposure hours of active contracts per train.
func extractBranding(contracts []model.BrandingContract, now time.Time) map[string]float64 {
	day := civilDate(now)
	out := make(map[string]float64)
	for _, c := range contracts {
		if contractActive(c, day) {
			out[c.TrainID] += c.RequiredExposureHoursPerDay
		}
	}
	return out
}
