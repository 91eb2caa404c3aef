package source

import (
	"encoding/csv"
	"errors"
	"io"
	"strings"

	"github.com/kilianp07/induction/core/model"
)

// records is a parsed CSV body addressed by lower-cased header names.
type records struct {
	cols map[string]int
	rows [][]string
}

func readRecords(r io.Reader) (records, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true
	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return records{cols: map[string]int{}}, nil
	}
	if err != nil {
		return records{}, err
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimPrefix(h, "\ufeff")
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	rows, err := cr.ReadAll()
	if err != nil {
		return records{}, err
	}
	return records{cols: cols, rows: rows}, nil
}

// get returns the trimmed cell for col, or "" when the column or cell is absent.
func (r records) get(row []string, col string) string {
	i, ok := r.cols[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// each calls fn for every row carrying a train id.
func (r records) each(fn func(id string, row []string)) {
	for _, row := range r.rows {
		id := r.get(row, "train_id")
		if id == "" {
			continue
		}
		fn(id, row)
	}
}

func parseFitness(r records) []model.FitnessCertificate {
	var out []model.FitnessCertificate
	r.each(func(id string, row []string) {
		out = append(out, model.FitnessCertificate{
			TrainID: id,
			ValidTo: ParseTime(r.get(row, "valid_to")),
		})
	})
	return out
}

func parseWorkOrders(r records) []model.WorkOrder {
	var out []model.WorkOrder
	r.each(func(id string, row []string) {
		hours, _ := ParseFloat(r.get(row, "estimated_hours"))
		out = append(out, model.WorkOrder{
			TrainID:        id,
			Status:         r.get(row, "status"),
			EstimatedHours: hours,
			Asset:          r.get(row, "asset"),
		})
	})
	return out
}

func parseBranding(r records) []model.BrandingContract {
	var out []model.BrandingContract
	r.each(func(id string, row []string) {
		hours, _ := ParseFloat(r.get(row, "required_exposure_hours_per_day"))
		out = append(out, model.BrandingContract{
			TrainID:                     id,
			StartDate:                   ParseTime(r.get(row, "start_date")),
			EndDate:                     ParseTime(r.get(row, "end_date")),
			RequiredExposureHoursPerDay: hours,
		})
	})
	return out
}

func parseMileage(r records) []model.MileageLogEntry {
	var out []model.MileageLogEntry
	r.each(func(id string, row []string) {
		odo, _ := ParseFloat(r.get(row, "odometer_km"))
		delta, _ := ParseFloat(r.get(row, "delta_km"))
		out = append(out, model.MileageLogEntry{
			TrainID:    id,
			RecordedAt: ParseTime(r.get(row, "recorded_at")),
			OdometerKm: odo,
			DeltaKm:    delta,
		})
	})
	return out
}

func parseCleaning(r records) []model.CleaningJob {
	var out []model.CleaningJob
	r.each(func(id string, row []string) {
		manpower, _ := ParseFloat(r.get(row, "manpower_required"))
		typ := r.get(row, "cleaning_type")
		if typ == "" {
			typ = r.get(row, "type")
		}
		out = append(out, model.CleaningJob{
			TrainID:          id,
			ScheduledStart:   ParseTime(r.get(row, "scheduled_start")),
			ScheduledEnd:     ParseTime(r.get(row, "scheduled_end")),
			CleaningType:     NormalizeCleaningType(typ),
			ManpowerRequired: manpower,
		})
	})
	return out
}

func parseStabling(r records) []model.StablingPosition {
	var out []model.StablingPosition
	r.each(func(id string, row []string) {
		out = append(out, model.StablingPosition{
			TrainID:  id,
			Position: r.get(row, "position"),
		})
	})
	return out
}
