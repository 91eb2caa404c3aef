package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/induction/core/model"
)

func texts(rs []model.Reason) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.String()
	}
	return out
}

func intp(v int) *int { return &v }

func TestComputeFleet(t *testing.T) {
	recs := []*model.TrainRecord{
		{FitnessDaysLeft: 4, BrandingHours: 2, DeltaKm: 100, CleanAgeHours: 10, TodayCleanLoad: 1, SlotIdx: intp(0)},
		{FitnessDaysLeft: 0, BrandingHours: 0, DeltaKm: 300, CleanAgeHours: 30, TodayCleanLoad: 0, SlotIdx: intp(3)},
		{FitnessDaysLeft: 8, BrandingHours: 4, DeltaKm: 200, CleanAgeHours: 20, TodayCleanLoad: 2},
	}
	f := ComputeFleet(recs)
	assert.InDelta(t, 4, f.AvgFitnessDays, 1e-9)
	assert.InDelta(t, 2, f.AvgBrandingHours, 1e-9)
	assert.InDelta(t, 200, f.AvgDeltaKm, 1e-9)
	assert.InDelta(t, 20, f.AvgCleanAge, 1e-9)
	assert.InDelta(t, 1, f.AvgCleanLoad, 1e-9)
	assert.True(t, f.HasMedianSlot)
	assert.Equal(t, 1.5, f.MedianSlot)
}

func TestExplain_BalancedTrain(t *testing.T) {
	r := &model.TrainRecord{FitnessState: model.FitnessValid, FitnessDaysLeft: 5, BrandingHours: 2, DeltaKm: 100, CleanAgeHours: 20, TodayCleanLoad: 1}
	f := Fleet{AvgFitnessDays: 5, AvgBrandingHours: 2, AvgDeltaKm: 100, AvgCleanAge: 20, AvgCleanLoad: 1}
	got := Explain(r, f, DefaultConfig())
	require.Len(t, got, 1)
	assert.Equal(t, "Balanced performance across all features", got[0].Text)
	assert.Equal(t, model.ImpactNeutral, got[0].Impact)
	assert.Equal(t, "No action required", got[0].Recommendation)
}

func TestExplain_ProblemTrain(t *testing.T) {
	r := &model.TrainRecord{
		FitnessState:   model.FitnessExpired,
		OpenWOCount:    1,
		FirstOpenAsset: "brake unit",
		FirstOpenHours: 8,
		BrandingHours:  0,
		DeltaKm:        500,
		CleanAgeHours:  80,
		TodayCleanLoad: 3,
		SlotIdx:        intp(3),
	}
	f := Fleet{AvgFitnessDays: 2, AvgBrandingHours: 2, AvgDeltaKm: 300, AvgCleanAge: 40, AvgCleanLoad: 1, MedianSlot: 1, HasMedianSlot: true}
	got := Explain(r, f, DefaultConfig())
	assert.Equal(t, []string{
		"-Expired fitness certificate",
		"-Ineligible: Open work order on brake unit (8 hrs approx.)",
		"-Branding: Low exposure hours (0.0 hrs vs. avg 2.0)",
		"-Mileage: High recent mileage (500.0 km vs. avg 300.0)",
		"-Cleaning: Long since last cleaning (80.0 hrs ago vs. avg 40.0)",
		"-Cleaning: High load today (3.0 hrs vs. avg 1.0)",
		"-Stabling: Requires significant shunting (slot 3 vs. median 1.0)",
	}, texts(got))
	for _, rs := range got {
		assert.NotEmpty(t, rs.Recommendation)
	}
}

func TestExplain_StrongTrain(t *testing.T) {
	r := &model.TrainRecord{
		FitnessState:    model.FitnessValid,
		FitnessDaysLeft: 20,
		BrandingHours:   6,
		DeltaKm:         50,
		CleanAgeHours:   5,
		SlotIdx:         intp(0),
	}
	f := Fleet{AvgFitnessDays: 10, AvgBrandingHours: 2, AvgDeltaKm: 300, AvgCleanAge: 40, MedianSlot: 1, HasMedianSlot: true}
	got := Explain(r, f, DefaultConfig())
	for _, rs := range got {
		assert.Equal(t, model.ImpactPositive, rs.Impact, rs.Text)
	}
	assert.Contains(t, texts(got), "+Branding: High branding exposure (6.0 hrs vs. avg 2.0)")
	assert.Contains(t, texts(got), "+Stabling: Forward position on stabling line - minimal shunting")
}

func TestExplain_CertificateExpiringToday(t *testing.T) {
	r := &model.TrainRecord{FitnessState: model.FitnessValid, FitnessDaysLeft: 0, BrandingHours: 2, DeltaKm: 100, CleanAgeHours: 20, TodayCleanLoad: 1}
	for _, avg := range []float64{0, 5} {
		f := Fleet{AvgFitnessDays: avg, AvgBrandingHours: 2, AvgDeltaKm: 100, AvgCleanAge: 20, AvgCleanLoad: 1}
		got := Explain(r, f, DefaultConfig())
		require.Len(t, got, 1, "avg %.0f", avg)
		assert.Equal(t, "Fitness certificate expires within 24 hours", got[0].Text)
		assert.Equal(t, model.ImpactNegative, got[0].Impact)
		assert.NotEmpty(t, got[0].Recommendation)
	}
}

func TestExplain_MissingData(t *testing.T) {
	r := &model.TrainRecord{FitnessState: model.FitnessUnknown, CleanAgeHours: 99999}
	got := Explain(r, Fleet{}, DefaultConfig())
	assert.Equal(t, []string{
		"-No fitness certificate on record",
		"-Cleaning: No completed cleaning on record",
	}, texts(got))
}
