package ranking

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/kilianp07/induction/core/logger"
	"github.com/kilianp07/induction/core/model"
)

var positionRe = regexp.MustCompile(`(?i)\bline[_\-]?(\d+)[_\-]?pos[_\-]?(\d+)\b`)

// ParsePosition splits a yard position such as "Line-3_pos-07" into its line id
// ("line_3") and slot index. Unrecognized strings become their own line id with
// no slot.
func ParsePosition(raw string) (string, *int) {
	pid := strings.TrimSpace(raw)
	m := positionRe.FindStringSubmatch(pid)
	if m == nil {
		return pid, nil
	}
	slot, err := strconv.Atoi(m[2])
	if err != nil {
		return pid, nil
	}
	return "line_" + m[1], &slot
}

// stablingPositions keeps the first non-blank position reported for each train.
func stablingPositions(rows []model.StablingPosition, log logger.Logger) map[string]string {
	out := make(map[string]string)
	for _, r := range rows {
		pos := strings.TrimSpace(r.Position)
		if pos == "" {
			continue
		}
		if prev, ok := out[r.TrainID]; ok {
			log.Warnf("train %s has several stabling positions, keeping %q over %q", r.TrainID, prev, pos)
			continue
		}
		out[r.TrainID] = pos
	}
	return out
}

// AssignSlots gives every record a slot index within its stabling group and
// derives shunt depth from it. Records must be in resolver order; that order
// decides which member receives which free slot.
func AssignSlots(records []*model.TrainRecord, log logger.Logger) {
	if log == nil {
		log = logger.NopLogger{}
	}
	byLine := false
	for _, r := range records {
		if r.HasPosition {
			r.LineID, r.SlotIdx = ParsePosition(r.Position)
			if r.LineID != "" {
				byLine = true
			}
		}
	}

	groups := make(map[string][]*model.TrainRecord)
	var keys []string
	for _, r := range records {
		k := groupKey(r, byLine)
		if _, ok := groups[k]; !ok {
			keys = append(keys, k)
		}
		groups[k] = append(groups[k], r)
	}
	sort.Strings(keys)
	for _, k := range keys {
		assignGroup(k, groups[k], log)
	}
	for _, r := range records {
		r.ShuntDepth = r.SlotIdxAssigned
	}
}

// groupKey prefixes the key kind so a train id never collides with a line id.
func groupKey(r *model.TrainRecord, byLine bool) string {
	switch {
	case byLine && r.LineID != "":
		return "line:" + r.LineID
	case r.HasPosition:
		return "pos:" + r.Position
	default:
		return "train:" + r.TrainID
	}
}

func assignGroup(key string, members []*model.TrainRecord, log logger.Logger) {
	used := make(map[int]bool)
	for _, m := range members {
		if m.SlotIdx == nil {
			continue
		}
		if used[*m.SlotIdx] {
			log.Warnf("group %s: slot %d reported by more than one train", key, *m.SlotIdx)
		}
		used[*m.SlotIdx] = true
	}

	if len(used) == 0 {
		ordered := make([]*model.TrainRecord, len(members))
		copy(ordered, members)
		sort.SliceStable(ordered, func(i, j int) bool {
			if ordered[i].Position != ordered[j].Position {
				return ordered[i].Position < ordered[j].Position
			}
			return ordered[i].TrainID < ordered[j].TrainID
		})
		for i, m := range ordered {
			m.SlotIdxAssigned = i
		}
		return
	}

	next := 0
	for _, m := range members {
		if m.SlotIdx != nil {
			m.SlotIdxAssigned = *m.SlotIdx
			continue
		}
		for used[next] {
			next++
		}
		m.SlotIdxAssigned = next
		used[next] = true
	}
}

// slotLabel renders a record's yard placement for logs.
func slotLabel(r *model.TrainRecord) string {
	if r.LineID == "" {
		return fmt.Sprintf("slot %d", r.SlotIdxAssigned)
	}
	return fmt.Sprintf("%s slot %d", r.LineID, r.SlotIdxAssigned)
}
