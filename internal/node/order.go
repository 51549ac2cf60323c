package node

import "sort"

// Order returns the table's ids sorted by lastHeard, newest first. Missing
// timestamps sort last and ties keep source order. The self node (first id
// in the source) is then moved to the front whatever its age.
func Order(t *Table) []string {
	if t.Len() == 0 {
		return nil
	}

	ids := make([]string, len(t.IDs))
	copy(ids, t.IDs)

	heard := func(id string) int64 {
		r := t.Nodes[id]
		if r == nil || r.LastHeard == nil {
			return 0
		}
		return *r.LastHeard
	}

	sort.SliceStable(ids, func(i, j int) bool {
		return heard(ids[i]) > heard(ids[j])
	})

	self := t.Self()
	out := make([]string, 0, len(ids))
	out = append(out, self)
	for _, id := range ids {
		if id != self {
			out = append(out, id)
		}
	}
	return out
}
