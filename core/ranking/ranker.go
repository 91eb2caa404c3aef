package ranking

import (
	"sort"

	"github.com/kilianp07/induction/core/model"
)

// Rank orders records eligible first, then by descending priority. The sort is
// stable so equal entries keep their incoming (resolver) order.
func Rank(records []*model.TrainRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if a.Eligible != b.Eligible {
			return a.Eligible
		}
		return a.PriorityScore > b.PriorityScore
	})
}
