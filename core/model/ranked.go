package model

import "math"

// RankedRow is the externally visible result for one train.
type RankedRow struct {
	Rank            int      `json:"rank"`
	TrainID         string   `json:"train_id"`
	PriorityScore   float64  `json:"priority_score"`
	Eligible        bool     `json:"eligible"`
	FitnessDaysLeft int      `json:"fitness_days_left"`
	FitnessState    string   `json:"fitness_state"`
	OpenWOCount     int      `json:"open_wo_count"`
	OpenWOHours     float64  `json:"open_wo_hours"`
	BrandingHours   float64  `json:"branding_hours"`
	CumulativeKm    float64  `json:"cumulative_km"`
	DeltaKm         float64  `json:"delta_km"`
	CleanAgeHours   float64  `json:"clean_age_hours"`
	TodayCleanLoad  float64  `json:"today_clean_load"`
	LineID          string   `json:"line_id,omitempty"`
	SlotIdx         int      `json:"slot_idx_assigned"`
	ShuntDepth      int      `json:"shunt_depth"`
	FitnessScore    float64  `json:"fitness_score"`
	JobScore        float64  `json:"job_score"`
	BrandingScore   float64  `json:"branding_score"`
	MileageScore    float64  `json:"mileage_score"`
	CleaningScore   float64  `json:"cleaning_score"`
	ShuntPenalty    float64  `json:"shunt_penalty"`
	Reasons         []string `json:"reasons"`
	Recommendations []string `json:"recommendations"`
}

// NewRankedRow converts a scored record into its output form. Scores are rounded
// to four decimals.
func NewRankedRow(rank int, r *TrainRecord) RankedRow {
	row := RankedRow{
		Rank:            rank,
		TrainID:         r.TrainID,
		PriorityScore:   Round(r.PriorityScore, 4),
		Eligible:        r.Eligible,
		FitnessDaysLeft: r.FitnessDaysLeft,
		FitnessState:    r.FitnessState.String(),
		OpenWOCount:     r.OpenWOCount,
		OpenWOHours:     r.OpenWOHours,
		BrandingHours:   r.BrandingHours,
		CumulativeKm:    r.CumulativeKm,
		DeltaKm:         r.DeltaKm,
		CleanAgeHours:   Round(r.CleanAgeHours, 2),
		TodayCleanLoad:  Round(r.TodayCleanLoad, 4),
		LineID:          r.LineID,
		SlotIdx:         r.SlotIdxAssigned,
		ShuntDepth:      r.ShuntDepth,
		FitnessScore:    Round(r.FitnessScore, 4),
		JobScore:        Round(r.JobScore, 4),
		BrandingScore:   Round(r.BrandingScore, 4),
		MileageScore:    Round(r.MileageScore, 4),
		CleaningScore:   Round(r.CleaningScore, 4),
		ShuntPenalty:    Round(r.ShuntPenalty, 4),
		Reasons:         make([]string, 0, len(r.Reasons)),
		Recommendations: make([]string, 0, len(r.Reasons)),
	}
	for _, rs := range r.Reasons {
		row.Reasons = append(row.Reasons, rs.String())
		row.Recommendations = append(row.Recommendations, rs.Recommendation)
	}
	return row
}

// Round rounds v half away from zero to the given number of decimals.
func Round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
