// Package export writes ranked induction lists for operators and downstream
// tools.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/kilianp07/induction/core/model"
)

// ListSeparator joins reasons and recommendations in flat formats.
const ListSeparator = " | "

var csvHeader = []string{
	"rank", "train_id", "priority_score", "eligible",
	"fitness_days_left", "fitness_state", "open_wo_count", "open_wo_hours",
	"branding_hours", "cumulative_km", "delta_km", "clean_age_hours", "today_clean_load",
	"line_id", "slot_idx_assigned", "shunt_depth",
	"fitness_score", "job_score", "branding_score", "mileage_score", "cleaning_score", "shunt_penalty",
	"reasons", "recommendations",
}

// WriteJSON writes the ranked rows to w as an indented JSON array.
func WriteJSON(w io.Writer, rows []model.RankedRow) error {
	if rows == nil {
		rows = []model.RankedRow{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}

func ftoa(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

// WriteCSV writes one line per row with a header.
func WriteCSV(w io.Writer, rows []model.RankedRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			strconv.Itoa(r.Rank), r.TrainID, ftoa(r.PriorityScore), strconv.FormatBool(r.Eligible),
			strconv.Itoa(r.FitnessDaysLeft), r.FitnessState, strconv.Itoa(r.OpenWOCount), ftoa(r.OpenWOHours),
			ftoa(r.BrandingHours), ftoa(r.CumulativeKm), ftoa(r.DeltaKm), ftoa(r.CleanAgeHours), ftoa(r.TodayCleanLoad),
			r.LineID, strconv.Itoa(r.SlotIdx), strconv.Itoa(r.ShuntDepth),
			ftoa(r.FitnessScore), ftoa(r.JobScore), ftoa(r.BrandingScore), ftoa(r.MileageScore), ftoa(r.CleaningScore), ftoa(r.ShuntPenalty),
			strings.Join(r.Reasons, ListSeparator), strings.Join(r.Recommendations, ListSeparator),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteTable renders a compact operator view of the rows.
func WriteTable(w io.Writer, rows []model.RankedRow) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"Rank", "Train", "Score", "Eligible", "Fitness Days", "Open WO h", "Branding h", "Slot", "Reasons"})
	for _, r := range rows {
		slot := strconv.Itoa(r.SlotIdx)
		if r.LineID != "" {
			slot = r.LineID + "/" + slot
		}
		tw.AppendRow(table.Row{
			r.Rank, r.TrainID, strconv.FormatFloat(r.PriorityScore, 'f', 4, 64), r.Eligible,
			r.FitnessDaysLeft, r.OpenWOHours, r.BrandingHours, slot, strings.Join(r.Reasons, "\n"),
		})
	}
	tw.Render()
}
