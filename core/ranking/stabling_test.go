package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/induction/core/model"
)

func TestParsePosition(t *testing.T) {
	cases := []struct {
		raw  string
		line string
		slot int
		ok   bool
	}{
		{"line_1_pos_3", "line_1", 3, true},
		{"LINE-2-POS-07", "line_2", 7, true},
		{"line4pos2", "line_4", 2, true},
		{" Line_10_Pos_0 ", "line_10", 0, true},
		{"IBL bay A", "IBL bay A", 0, false},
		{"line_1", "line_1", 0, false},
	}
	for _, c := range cases {
		line, slot := ParsePosition(c.raw)
		assert.Equal(t, c.line, line, c.raw)
		if !c.ok {
			assert.Nil(t, slot, c.raw)
			continue
		}
		require.NotNil(t, slot, c.raw)
		assert.Equal(t, c.slot, *slot, c.raw)
	}
}

func newRecords(ids ...string) []*model.TrainRecord {
	out := make([]*model.TrainRecord, len(ids))
	for i, id := range ids {
		out[i] = &model.TrainRecord{TrainID: id}
	}
	return out
}

func place(r *model.TrainRecord, pos string) {
	r.Position, r.HasPosition = pos, true
}

func assigned(recs []*model.TrainRecord) []int {
	out := make([]int, len(recs))
	for i, r := range recs {
		out[i] = r.SlotIdxAssigned
	}
	return out
}

func TestAssignSlots_GapFillsInRowOrder(t *testing.T) {
	recs := newRecords("A", "B", "C", "D", "E")
	place(recs[0], "line_1_pos_1")
	place(recs[1], "line_1")
	place(recs[2], "line_1_pos_3")
	place(recs[3], "line_1")
	place(recs[4], "line_1_pos_0")

	AssignSlots(recs, nil)
	assert.Equal(t, []int{1, 2, 3, 4, 0}, assigned(recs))
	for _, r := range recs {
		assert.Equal(t, "line_1", r.LineID)
		assert.Equal(t, r.SlotIdxAssigned, r.ShuntDepth)
	}
}

func TestAssignSlots_NoKnownSlotSortsByPositionThenID(t *testing.T) {
	recs := newRecords("T1", "T2", "T3")
	place(recs[0], "bay")
	place(recs[1], "apron")
	place(recs[2], "bay")
	// Each unparsed string is its own line; join them under one key.
	group := []*model.TrainRecord{recs[2], recs[0], recs[1]}
	assignGroup("pos:yard", group, nil)
	assert.Equal(t, []int{1, 0, 2}, assigned(recs))
}

func TestAssignSlots_NoPositionsGivesSingletons(t *testing.T) {
	recs := newRecords("A", "B", "C")
	AssignSlots(recs, nil)
	assert.Equal(t, []int{0, 0, 0}, assigned(recs))
	for _, r := range recs {
		assert.Equal(t, 0, r.ShuntDepth)
		assert.Empty(t, r.LineID)
	}
}

func TestAssignSlots_UnpositionedTrainsDoNotJoinLines(t *testing.T) {
	recs := newRecords("line_1", "X")
	place(recs[1], "line_1_pos_4")
	AssignSlots(recs, nil)
	assert.Equal(t, 0, recs[0].SlotIdxAssigned)
	assert.Equal(t, 4, recs[1].SlotIdxAssigned)
}

func TestAssignSlots_UniqueWithinLine(t *testing.T) {
	recs := newRecords("A", "B", "C", "D", "E", "F", "G")
	place(recs[0], "line_1_pos_2")
	place(recs[1], "line_1_pos_0")
	place(recs[2], "line_3_pos_1")
	place(recs[3], "line_3")
	place(recs[4], "line_1")
	place(recs[5], "line_3_pos_0")
	place(recs[6], "line_1")
	AssignSlots(recs, nil)

	seen := map[string]map[int]bool{}
	for _, r := range recs {
		if seen[r.LineID] == nil {
			seen[r.LineID] = map[int]bool{}
		}
		assert.False(t, seen[r.LineID][r.SlotIdxAssigned], "duplicate slot on %s", r.LineID)
		seen[r.LineID][r.SlotIdxAssigned] = true
	}
	assert.Equal(t, []int{2, 0, 1, 2, 1, 0, 3}, assigned(recs))
}
