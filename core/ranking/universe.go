package ranking

import (
	"errors"
	"sort"

	"github.com/kilianp07/induction/core/source"
)

// ErrNoTrainsFound aborts a cycle whose sources name no train at all.
var ErrNoTrainsFound = errors.New("no train ids found in provided sources; ensure train_id is present")

// universeSources are the tables contributing train ids. Cleaning history only
// describes trains already known from the current schedule.
var universeSources = []source.SourceName{
	source.Fitness,
	source.WorkOrders,
	source.Branding,
	source.Mileage,
	source.CleaningSchedule,
	source.Stabling,
}

// ResolveTrains returns the sorted union of train ids across the supplied
// sources.
func ResolveTrains(t *source.Tables) ([]string, error) {
	seen := make(map[string]struct{})
	for _, name := range universeSources {
		for _, id := range t.TrainIDs(name) {
			seen[id] = struct{}{}
		}
	}
	if len(seen) == 0 {
		return nil, ErrNoTrainsFound
	}
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
