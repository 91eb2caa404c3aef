package ranking

import (
	"strings"

	"github.com/kilianp07/induction/core/model"
)

type workOrderFeature struct {
	count      int
	hours      float64
	firstAsset string
	firstHours float64
}

// isOpen matches any status containing "open", case-insensitively.
func isOpen(status string) bool {
	return strings.Contains(strings.ToLower(status), "open")
}

// extractWorkOrders sums open maintenance load per train. Trains without open
// orders are absent from the result and default to zero.
func extractWorkOrders(orders []model.WorkOrder) map[string]workOrderFeature {
	out := make(map[string]workOrderFeature)
	for _, o := range orders {
		if !isOpen(o.Status) {
			continue
		}
		f, seen := out[o.TrainID]
		if !seen {
			f.firstAsset = o.Asset
			f.firstHours = o.EstimatedHours
		}
		f.count++
		f.hours += o.EstimatedHours
		out[o.TrainID] = f
	}
	return out
}

func (f workOrderFeature) apply(r *model.TrainRecord) {
	r.OpenWOCount = f.count
	r.OpenWOHours = f.hours
	r.FirstOpenAsset = f.firstAsset
	r.FirstOpenHours = f.firstHours
}
