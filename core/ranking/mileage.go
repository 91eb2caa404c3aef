package ranking

import "github.com/kilianp07/induction/core/model"

type mileageFeature struct {
	cumulativeKm float64
	deltaKm      float64
}

// newerEntry orders readings by timestamp. Readings without a timestamp count
// as older than any dated one; ties go to the later row.
func newerEntry(candidate, current model.MileageLogEntry) bool {
	switch {
	case candidate.RecordedAt == nil && current.RecordedAt != nil:
		return false
	case candidate.RecordedAt != nil && current.RecordedAt == nil:
		return true
	case candidate.RecordedAt == nil && current.RecordedAt == nil:
		return true
	default:
		return !candidate.RecordedAt.Before(*current.RecordedAt)
	}
}

// extractMileage keeps the latest reading per train.
func extractMileage(entries []model.MileageLogEntry) map[string]mileageFeature {
	latest := make(map[string]model.MileageLogEntry)
	for _, e := range entries {
		cur, ok := latest[e.TrainID]
		if !ok || newerEntry(e, cur) {
			latest[e.TrainID] = e
		}
	}
	out := make(map[string]mileageFeature, len(latest))
	for id, e := range latest {
		out[id] = mileageFeature{cumulativeKm: e.OdometerKm, deltaKm: e.DeltaKm}
	}
	return out
}
