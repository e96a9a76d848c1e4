package pinelabs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mirrorWith(rows ...Row) *Mirror {
	m := NewMirror()
	m.Replace(rows)
	return m
}

func TestMirror_ApplyRemove(t *testing.T) {
	m := mirrorWith(
		Row{Detail: Detail{ID: 1}},
		Row{Detail: Detail{ID: 2}},
		Row{Detail: Detail{ID: 3}},
	)

	m.Apply(Delta{Removed: []int{1, 3}})

	rows := m.Snapshot()
	require.Len(t, rows, 1)
	assert.Equal(t, 2, rows[0].ID)
}

func TestMirror_ApplyAddAndPatch(t *testing.T) {
	m := mirrorWith(Row{Detail: Detail{ID: 1, PosID: "old"}, StoreName: "S", Brand: "B"})

	m.Apply(Delta{
		Added:   []Row{{Detail: Detail{ID: 2, PosID: "new"}}},
		Patched: []Detail{{ID: 1, PosID: "patched", TID: "t", SerialNo: "sn", StoreID: "sid"}},
	})

	rows := m.Snapshot()
	require.Len(t, rows, 2)
	assert.Equal(t, "patched", rows[0].PosID)
	assert.Equal(t, "t", rows[0].TID)
	// Denormalized fields survive field patches.
	assert.Equal(t, "S", rows[0].StoreName)
	assert.Equal(t, "new", rows[1].PosID)
}

func TestMirror_PatchUnknownIDIsNoOp(t *testing.T) {
	m := mirrorWith(Row{Detail: Detail{ID: 1, PosID: "x"}})

	m.Apply(Delta{Patched: []Detail{{ID: 99, PosID: "y"}}})

	rows := m.Snapshot()
	require.Len(t, rows, 1)
	assert.Equal(t, "x", rows[0].PosID)
}

func TestMirror_SnapshotIsCopy(t *testing.T) {
	m := mirrorWith(Row{Detail: Detail{ID: 1, PosID: "x"}})

	snap := m.Snapshot()
	snap[0].PosID = "mutated"

	assert.Equal(t, "x", m.Snapshot()[0].PosID)
}

func TestMirror_Filter(t *testing.T) {
	m := mirrorWith(
		Row{Detail: Detail{ID: 1, MappingID: 10, PosID: "POS-1"}, StoreName: "Acme North", Brand: "Acme"},
		Row{Detail: Detail{ID: 2, MappingID: 11, PosID: "POS-2"}, StoreName: "Other", Brand: "Zed"},
	)

	tests := []struct {
		name string
		term string
		want []int
	}{
		{name: "empty term returns all", term: "", want: []int{1, 2}},
		{name: "matches store name", term: "acme", want: []int{1}},
		{name: "matches pos id", term: "pos-2", want: []int{2}},
		{name: "matches numeric id", term: "11", want: []int{2}},
		{name: "whitespace trimmed", term: "  zed  ", want: []int{2}},
		{name: "no match", term: "missing", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []int
			for _, row := range m.Filter(tt.term) {
				got = append(got, row.ID)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}
