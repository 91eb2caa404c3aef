package source

import (
	"math"
	"strings"
	"time"

	"github.com/spf13/cast"

	"github.com/kilianp07/induction/core/model"
)

// ParseTime coerces a cell to a timestamp. Values without a zone are read as
// UTC. Blank or malformed values return nil so downstream defaults apply.
func ParseTime(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	t, err := cast.ToTimeInDefaultLocationE(s, time.UTC)
	if err != nil {
		return nil
	}
	return &t
}

// ParseFloat coerces a cell to a number. Malformed values and NaN yield (0, false).
func ParseFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := cast.ToFloat64E(s)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// NormalizeCleaningType lower-cases the type and joins words with underscores,
// so "Outside Cleaning" becomes outside_cleaning.
func NormalizeCleaningType(s string) model.CleaningType {
	t := strings.ToLower(strings.TrimSpace(s))
	return model.CleaningType(strings.ReplaceAll(t, " ", "_"))
}
