package ijgp

// Journal records, per variable, the values removed by one propagation or
// restriction call so they can be restored on every exit path. The journal
// owns the "pending removal" state rather than the domain itself, so nested
// calls compose by stacking journals (per the package's reversible-mutation
// design: Problem.PropagateAll/PropagateFrom each return a fresh Journal,
// and the sampler keeps one journal per recursion level).
type Journal struct {
	removed map[VarID][]int
}

// NewJournal returns an empty journal.
func NewJournal() *Journal {
	return &Journal{removed: make(map[VarID][]int)}
}

// Record appends value to the removed-values list for id.
func (j *Journal) Record(id VarID, value int) {
	j.removed[id] = append(j.removed[id], value)
}

// RemovedFor returns the values recorded as removed for id.
func (j *Journal) RemovedFor(id VarID) []int {
	return j.removed[id]
}

// IsEmpty reports whether the journal recorded no removals at all.
func (j *Journal) IsEmpty() bool {
	return len(j.removed) == 0
}

// Merge appends another journal's entries into j, preserving order.
func (j *Journal) Merge(other *Journal) {
	if other == nil {
		return
	}
	for id, values := range other.removed {
		j.removed[id] = append(j.removed[id], values...)
	}
}
