package pinelabs

import (
	"strconv"
	"strings"
	"sync"
)

// Mirror is the in-process display cache of Pine Labs rows. It is kept
// approximately in sync with the store by applying deltas after each
// reconciliation instead of re-fetching. The mirror has one logical
// writer; the mutex only protects against concurrent readers rendering
// while a delta lands.
type Mirror struct {
	mu   sync.RWMutex
	rows []Row
}

func NewMirror() *Mirror {
	return &Mirror{}
}

// Delta is one batch of mirror mutations produced by a reconciliation
// stage: ids removed, rows appended, rows patched in place by id.
type Delta struct {
	Removed []int
	Added   []Row
	Patched []Detail
}

// Apply mutates the mirror to match a committed stage.
func (m *Mirror) Apply(d Delta) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(d.Removed) > 0 {
		removed := make(map[int]struct{}, len(d.Removed))
		for _, id := range d.Removed {
			removed[id] = struct{}{}
		}
		kept := m.rows[:0]
		for _, row := range m.rows {
			if _, ok := removed[row.ID]; !ok {
				kept = append(kept, row)
			}
		}
		m.rows = kept
	}

	m.rows = append(m.rows, d.Added...)

	for _, patch := range d.Patched {
		for i := range m.rows {
			if m.rows[i].ID == patch.ID {
				m.rows[i].PosID = patch.PosID
				m.rows[i].TID = patch.TID
				m.rows[i].SerialNo = patch.SerialNo
				m.rows[i].StoreID = patch.StoreID
				break
			}
		}
	}
}

// Replace swaps the full contents, used on fresh loads and on rollback.
func (m *Mirror) Replace(rows []Row) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = make([]Row, len(rows))
	copy(m.rows, rows)
}

// Snapshot returns a copy of the current contents.
func (m *Mirror) Snapshot() []Row {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rows := make([]Row, len(m.rows))
	copy(rows, m.rows)
	return rows
}

// Filter returns rows whose fields contain the search term,
// case-insensitively. An empty term returns everything.
func (m *Mirror) Filter(term string) []Row {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return m.Snapshot()
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var matched []Row
	for _, row := range m.rows {
		haystack := strings.ToLower(strings.Join([]string{
			strconv.Itoa(row.ID),
			strconv.Itoa(row.MappingID),
			row.StoreName,
			row.Brand,
			row.PosID,
			row.TID,
			row.SerialNo,
			row.StoreID,
		}, " "))
		if strings.Contains(haystack, term) {
			matched = append(matched, row)
		}
	}
	return matched
}

func (m *Mirror) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rows)
}
