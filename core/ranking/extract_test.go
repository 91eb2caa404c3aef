package ranking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/induction/core/model"
)

var planning = time.Date(2025, 9, 1, 21, 0, 0, 0, time.UTC)

func at(d time.Duration) *time.Time {
	t := planning.Add(d)
	return &t
}

func TestExtractFitness_EarliestCertificateGoverns(t *testing.T) {
	certs := []model.FitnessCertificate{
		{TrainID: "T1", ValidTo: at(30 * 24 * time.Hour)},
		{TrainID: "T1", ValidTo: at(5*24*time.Hour + 3*time.Hour)},
		{TrainID: "T1", ValidTo: nil},
	}
	f := extractFitness(certs, planning)["T1"]
	assert.Equal(t, model.FitnessValid, f.state)
	assert.Equal(t, 5, f.daysLeft)
	assert.InDelta(t, 1.0/6.0, f.priorityRaw, 1e-12)
}

func TestExtractFitness_ExpiredAndMissing(t *testing.T) {
	certs := []model.FitnessCertificate{
		{TrainID: "OLD", ValidTo: at(-time.Hour)},
		{TrainID: "BAD", ValidTo: nil},
	}
	got := extractFitness(certs, planning)

	old := got["OLD"]
	assert.Equal(t, model.FitnessExpired, old.state)
	assert.Equal(t, 0, old.daysLeft)
	assert.Equal(t, 0.0, old.priorityRaw)

	_, ok := got["BAD"]
	assert.False(t, ok, "unparsed certificate counts as missing")
	missing := missingFitness()
	assert.Equal(t, 0, missing.daysLeft)
	assert.Equal(t, 1.0, missing.priorityRaw)
	assert.Equal(t, model.FitnessUnknown, missing.state)
}

func TestExtractFitness_SameDayExpiryIsZeroDaysButNotExpired(t *testing.T) {
	f := extractFitness([]model.FitnessCertificate{{TrainID: "T", ValidTo: at(10 * time.Hour)}}, planning)["T"]
	assert.Equal(t, model.FitnessValid, f.state)
	assert.Equal(t, 0, f.daysLeft)
	assert.Equal(t, 1.0, f.priorityRaw)
}

func TestExtractWorkOrders_OnlyOpenStatuses(t *testing.T) {
	orders := []model.WorkOrder{
		{TrainID: "T1", Status: "OPEN", EstimatedHours: 3, Asset: "bogie"},
		{TrainID: "T1", Status: "Reopened", EstimatedHours: 2, Asset: "doors"},
		{TrainID: "T1", Status: "closed", EstimatedHours: 50},
		{TrainID: "T2", Status: "", EstimatedHours: 7},
	}
	got := extractWorkOrders(orders)
	require.Contains(t, got, "T1")
	assert.Equal(t, 2, got["T1"].count)
	assert.Equal(t, 5.0, got["T1"].hours)
	assert.Equal(t, "bogie", got["T1"].firstAsset)
	assert.NotContains(t, got, "T2")
}

func TestExtractBranding_InclusiveActiveWindow(t *testing.T) {
	day := func(y int, m time.Month, d int) *time.Time {
		v := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		return &v
	}
	contracts := []model.BrandingContract{
		{TrainID: "T1", StartDate: day(2025, 8, 1), EndDate: day(2025, 9, 1), RequiredExposureHoursPerDay: 4},
		{TrainID: "T1", StartDate: day(2025, 9, 1), EndDate: day(2025, 9, 30), RequiredExposureHoursPerDay: 1.5},
		{TrainID: "T2", StartDate: day(2025, 9, 2), EndDate: day(2025, 9, 30), RequiredExposureHoursPerDay: 6},
		{TrainID: "T3", StartDate: nil, EndDate: day(2025, 9, 30), RequiredExposureHoursPerDay: 6},
	}
	got := extractBranding(contracts, planning)
	assert.Equal(t, 5.5, got["T1"])
	assert.Zero(t, got["T2"])
	assert.Zero(t, got["T3"])
}

func TestExtractMileage_LatestReadingWins(t *testing.T) {
	entries := []model.MileageLogEntry{
		{TrainID: "T1", RecordedAt: at(-48 * time.Hour), OdometerKm: 1000, DeltaKm: 10},
		{TrainID: "T1", RecordedAt: at(-24 * time.Hour), OdometerKm: 1200, DeltaKm: 200},
		{TrainID: "T1", RecordedAt: nil, OdometerKm: 9999, DeltaKm: 9999},
		{TrainID: "T2", RecordedAt: nil, OdometerKm: 50, DeltaKm: 5},
	}
	got := extractMileage(entries)
	assert.Equal(t, mileageFeature{cumulativeKm: 1200, deltaKm: 200}, got["T1"])
	assert.Equal(t, mileageFeature{cumulativeKm: 50, deltaKm: 5}, got["T2"])
}

func TestExtractCleaningHistory_FreshnessSaturates(t *testing.T) {
	cfg := DefaultConfig()
	history := []model.CleaningJob{
		{TrainID: "T1", ScheduledEnd: at(-40 * time.Hour)},
		{TrainID: "T1", ScheduledEnd: at(-10 * time.Hour)},
		{TrainID: "T1", ScheduledEnd: at(5 * time.Hour)},
		{TrainID: "T2", ScheduledEnd: at(-100 * time.Hour)},
	}
	got := extractCleaningHistory(history, planning, cfg)
	assert.InDelta(t, 10, got["T1"].ageHours, 1e-9)
	assert.InDelta(t, 1-10.0/72.0, got["T1"].freshness, 1e-9)
	assert.Equal(t, 0.0, got["T2"].freshness)

	missing := missingCleanHistory(cfg)
	assert.Equal(t, 99999.0, missing.ageHours)
	assert.Equal(t, 0.0, missing.freshness)
}

func TestExtractCleaningToday_WindowAndDurations(t *testing.T) {
	cfg := DefaultConfig()
	schedule := []model.CleaningJob{
		{TrainID: "T1", ScheduledStart: at(0), CleaningType: model.CleaningHeavy, ManpowerRequired: 2},
		{TrainID: "T1", ScheduledStart: at(23 * time.Hour), CleaningType: "mystery", ManpowerRequired: 4},
		{TrainID: "T1", ScheduledStart: at(24 * time.Hour), CleaningType: model.CleaningHeavy, ManpowerRequired: 10},
		{TrainID: "T1", ScheduledStart: at(-time.Minute), CleaningType: model.CleaningHeavy, ManpowerRequired: 10},
		{TrainID: "T2", ScheduledStart: at(2 * time.Hour), CleaningType: model.CleaningOutside, ManpowerRequired: 1.5},
		{TrainID: "T3", ScheduledStart: nil, CleaningType: model.CleaningHeavy, ManpowerRequired: 1},
	}
	got := extractCleaningToday(schedule, planning, cfg)
	assert.InDelta(t, 3*2+0.25*4, got["T1"], 1e-9)
	assert.InDelta(t, 3.0, got["T2"], 1e-9)
	assert.NotContains(t, got, "T3")
}
