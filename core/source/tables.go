package source

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/kilianp07/induction/core/model"
)

// SourceName identifies one of the input tables of a planning cycle.
type SourceName string

const (
	Fitness          SourceName = "fitness"
	WorkOrders       SourceName = "work_orders"
	Branding         SourceName = "branding"
	Mileage          SourceName = "mileage"
	CleaningSchedule SourceName = "cleaning_schedule"
	CleaningHistory  SourceName = "cleaning_history"
	Stabling         SourceName = "stabling"
)

// All lists every known source in a stable order.
func All() []SourceName {
	return []SourceName{Fitness, WorkOrders, Branding, Mileage, CleaningSchedule, CleaningHistory, Stabling}
}

// Mandatory lists the sources an upload must provide.
func Mandatory() []SourceName {
	return []SourceName{Fitness, WorkOrders, Branding, Mileage, CleaningSchedule}
}

// aliases maps upload field names and file base names to sources.
var aliases = map[string]SourceName{
	"fitness":                Fitness,
	"fitness_certificates":   Fitness,
	"work_orders":            WorkOrders,
	"work_orders_maximo":     WorkOrders,
	"work_order_maximo":      WorkOrders,
	"branding":               Branding,
	"branding_schedule":      Branding,
	"mileage":                Mileage,
	"mileage_logs":           Mileage,
	"cleaning_schedule":      CleaningSchedule,
	"cleaning_history":       CleaningHistory,
	"cleaning_schedule_prev": CleaningHistory,
	"stabling":               Stabling,
	"stabling_layout":        Stabling,
}

// ParseSourceName resolves a form field or file name such as
// "Fitness Certificates CSV" to its source.
func ParseSourceName(s string) (SourceName, bool) {
	n := strings.ToLower(strings.TrimSpace(s))
	n = strings.TrimSuffix(n, ".csv")
	n = strings.NewReplacer(" ", "_", "-", "_").Replace(n)
	n = strings.TrimSuffix(strings.Trim(n, "_"), "_csv")
	name, ok := aliases[n]
	return name, ok
}

// ValidationError reports mandatory sources missing from a request.
type ValidationError struct {
	Missing []SourceName
}

func (e *ValidationError) Error() string {
	names := make([]string, len(e.Missing))
	for i, m := range e.Missing {
		names[i] = string(m)
	}
	return fmt.Sprintf("missing required sources: %s", strings.Join(names, ", "))
}

// Tables is one snapshot of all input tables. A source is present once it has
// been loaded, even when it holds no rows.
type Tables struct {
	Fitness          []model.FitnessCertificate
	WorkOrders       []model.WorkOrder
	Branding         []model.BrandingContract
	Mileage          []model.MileageLogEntry
	CleaningSchedule []model.CleaningJob
	CleaningHistory  []model.CleaningJob
	Stabling         []model.StablingPosition

	present map[SourceName]bool
}

// NewTables returns an empty snapshot with no source present.
func NewTables() *Tables {
	return &Tables{present: make(map[SourceName]bool)}
}

// Has reports whether the source was supplied.
func (t *Tables) Has(name SourceName) bool { return t.present[name] }

// MarkPresent flags a source as supplied. Loaders call it; tests building tables
// by hand use it too.
func (t *Tables) MarkPresent(names ...SourceName) {
	if t.present == nil {
		t.present = make(map[SourceName]bool)
	}
	for _, n := range names {
		t.present[n] = true
	}
}

// Present lists the supplied sources in stable order.
func (t *Tables) Present() []SourceName {
	var out []SourceName
	for _, n := range All() {
		if t.present[n] {
			out = append(out, n)
		}
	}
	return out
}

// RequireMandatory fails with a ValidationError naming every absent mandatory
// source.
func (t *Tables) RequireMandatory() error {
	var missing []SourceName
	for _, n := range Mandatory() {
		if !t.present[n] {
			missing = append(missing, n)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}

// Load parses CSV content for the named source and replaces its rows.
func (t *Tables) Load(name SourceName, r io.Reader) error {
	recs, err := readRecords(r)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	switch name {
	case Fitness:
		t.Fitness = parseFitness(recs)
	case WorkOrders:
		t.WorkOrders = parseWorkOrders(recs)
	case Branding:
		t.Branding = parseBranding(recs)
	case Mileage:
		t.Mileage = parseMileage(recs)
	case CleaningSchedule:
		t.CleaningSchedule = parseCleaning(recs)
	case CleaningHistory:
		t.CleaningHistory = parseCleaning(recs)
	case Stabling:
		t.Stabling = parseStabling(recs)
	default:
		return fmt.Errorf("unknown source %q", name)
	}
	t.MarkPresent(name)
	return nil
}

// TrainIDs returns the distinct train ids of one source, sorted.
func (t *Tables) TrainIDs(name SourceName) []string {
	seen := make(map[string]struct{})
	add := func(id string) {
		if id != "" {
			seen[id] = struct{}{}
		}
	}
	switch name {
	case Fitness:
		for _, r := range t.Fitness {
			add(r.TrainID)
		}
	case WorkOrders:
		for _, r := range t.WorkOrders {
			add(r.TrainID)
		}
	case Branding:
		for _, r := range t.Branding {
			add(r.TrainID)
		}
	case Mileage:
		for _, r := range t.Mileage {
			add(r.TrainID)
		}
	case CleaningSchedule:
		for _, r := range t.CleaningSchedule {
			add(r.TrainID)
		}
	case CleaningHistory:
		for _, r := range t.CleaningHistory {
			add(r.TrainID)
		}
	case Stabling:
		for _, r := range t.Stabling {
			add(r.TrainID)
		}
	}
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
