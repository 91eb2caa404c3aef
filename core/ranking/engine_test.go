package ranking

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/induction/core/model"
	"github.com/kilianp07/induction/core/source"
)

// scenarioTables is the three-train fleet: T1 healthy, T2 expired with open
// maintenance, T3 without any fitness record.
func scenarioTables() *source.Tables {
	day := func(offset int) *time.Time {
		v := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
		return &v
	}
	t := source.NewTables()
	t.Fitness = []model.FitnessCertificate{
		{TrainID: "T1", ValidTo: at(5 * 24 * time.Hour)},
		{TrainID: "T2", ValidTo: at(-2 * 24 * time.Hour)},
	}
	t.WorkOrders = []model.WorkOrder{
		{TrainID: "T2", Status: "open", EstimatedHours: 8, Asset: "pantograph"},
	}
	t.Branding = []model.BrandingContract{
		{TrainID: "T1", StartDate: day(-10), EndDate: day(10), RequiredExposureHoursPerDay: 4},
		{TrainID: "T2", StartDate: day(-10), EndDate: day(10), RequiredExposureHoursPerDay: 0},
		{TrainID: "T3", StartDate: day(-10), EndDate: day(10), RequiredExposureHoursPerDay: 2},
	}
	t.Mileage = []model.MileageLogEntry{
		{TrainID: "T1", RecordedAt: at(-time.Hour), OdometerKm: 120000, DeltaKm: 100},
		{TrainID: "T2", RecordedAt: at(-time.Hour), OdometerKm: 150000, DeltaKm: 500},
		{TrainID: "T3", RecordedAt: at(-time.Hour), OdometerKm: 130000, DeltaKm: 300},
	}
	t.CleaningHistory = []model.CleaningJob{
		{TrainID: "T1", ScheduledEnd: at(-10 * time.Hour)},
		{TrainID: "T2", ScheduledEnd: at(-80 * time.Hour)},
		{TrainID: "T3", ScheduledEnd: at(-30 * time.Hour)},
	}
	t.CleaningSchedule = []model.CleaningJob{
		{TrainID: "T2", ScheduledStart: at(2 * time.Hour), CleaningType: model.CleaningHeavy, ManpowerRequired: 2},
	}
	t.Stabling = []model.StablingPosition{
		{TrainID: "T1", Position: "line_1_pos_0"},
		{TrainID: "T2", Position: "line_1_pos_3"},
		{TrainID: "T3", Position: "line_1_pos_1"},
	}
	t.MarkPresent(source.All()...)
	return t
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine(Config{}, nil)
	require.NoError(t, err)
	return e
}

func TestEngine_ThreeTrainScenario(t *testing.T) {
	res, err := newTestEngine(t).Run(context.Background(), scenarioTables(), planning)
	require.NoError(t, err)
	require.Len(t, res.Records, 3)

	byID := map[string]*model.TrainRecord{}
	for _, r := range res.Records {
		byID[r.TrainID] = r
	}
	assert.Equal(t, "T1", res.Records[0].TrainID)
	assert.True(t, byID["T1"].Eligible)
	assert.Equal(t, 5, byID["T1"].FitnessDaysLeft)

	assert.False(t, byID["T2"].Eligible)
	assert.Equal(t, model.FitnessExpired, byID["T2"].FitnessState)
	assert.Equal(t, 8.0, byID["T2"].OpenWOHours)

	assert.False(t, byID["T3"].Eligible)
	assert.Equal(t, 0, byID["T3"].FitnessDaysLeft)
	assert.Equal(t, model.FitnessUnknown, byID["T3"].FitnessState)
	assert.Equal(t, 1.0, byID["T3"].FitnessPriorityRaw)

	assert.Equal(t, 3, byID["T2"].ShuntDepth)
	assert.Equal(t, 1, res.EligibleCount())

	rows := res.Rows()
	assert.Equal(t, 1, rows[0].Rank)
	assert.Equal(t, "T1", rows[0].TrainID)
	assert.Contains(t, rows[1].Reasons[0]+rows[2].Reasons[0], "-Expired fitness certificate")
}

func TestEngine_RowCountMatchesUniverse(t *testing.T) {
	tbl := scenarioTables()
	tbl.Stabling = append(tbl.Stabling, model.StablingPosition{TrainID: "T9", Position: "line_2_pos_0"})
	tbl.CleaningHistory = append(tbl.CleaningHistory, model.CleaningJob{TrainID: "GHOST", ScheduledEnd: at(-time.Hour)})

	ids, err := ResolveTrains(tbl)
	require.NoError(t, err)
	assert.Equal(t, []string{"T1", "T2", "T3", "T9"}, ids)

	res, err := newTestEngine(t).Run(context.Background(), tbl, planning)
	require.NoError(t, err)
	assert.Len(t, res.Records, len(ids))

	var t9 *model.TrainRecord
	for _, r := range res.Records {
		if r.TrainID == "T9" {
			t9 = r
		}
	}
	require.NotNil(t, t9)
	assert.Equal(t, 0.0, t9.BrandingHours)
	assert.Equal(t, 99999.0, t9.CleanAgeHours)
	assert.Equal(t, 0.0, t9.CumulativeKm)
}

func TestEngine_Deterministic(t *testing.T) {
	e := newTestEngine(t)
	a, err := e.Run(context.Background(), scenarioTables(), planning)
	require.NoError(t, err)
	b, err := e.Run(context.Background(), scenarioTables(), planning)
	require.NoError(t, err)

	ja, err := json.Marshal(a.Rows())
	require.NoError(t, err)
	jb, err := json.Marshal(b.Rows())
	require.NoError(t, err)
	assert.Equal(t, string(ja), string(jb))
}

func TestEngine_EmptyUniverse(t *testing.T) {
	tbl := source.NewTables()
	tbl.MarkPresent(source.Fitness)
	_, err := newTestEngine(t).Run(context.Background(), tbl, planning)
	assert.True(t, errors.Is(err, ErrNoTrainsFound))

	_, err = newTestEngine(t).Run(context.Background(), nil, planning)
	assert.True(t, errors.Is(err, ErrNoTrainsFound))
}

func TestEngine_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newTestEngine(t).Run(ctx, scenarioTables(), planning)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewEngineRejectsInvalidConfig(t *testing.T) {
	_, err := NewEngine(Config{ShuntLambda: Float64(-1)}, nil)
	assert.Error(t, err)
}
