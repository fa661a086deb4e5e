package ijgp

import (
	"fmt"
	"sort"
	"strings"
)

// Assignment is a partial or full mapping from variable id to value. For any
// binding (v, x) in a valid Assignment, x must have been a member of v's
// domain at the time it was bound.
type Assignment map[VarID]int

// Bind returns a new Assignment equal to a with (id, value) added.
func (a Assignment) Bind(id VarID, value int) Assignment {
	out := a.Clone()
	out[id] = value
	return out
}

// Unbind returns a new Assignment equal to a with id removed.
func (a Assignment) Unbind(id VarID) Assignment {
	out := a.Clone()
	delete(out, id)
	return out
}

// Lookup returns the bound value for id and whether it is bound.
func (a Assignment) Lookup(id VarID) (value int, ok bool) {
	value, ok = a[id]
	return
}

// Clone returns an independent shallow copy of the assignment.
func (a Assignment) Clone() Assignment {
	out := make(Assignment, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// Has reports whether id is bound in a.
func (a Assignment) Has(id VarID) bool {
	_, ok := a[id]
	return ok
}

func (a Assignment) String() string {
	ids := make([]VarID, 0, len(a))
	for id := range a {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, fmt.Sprintf("%d: %d", id, a[id]))
	}
	return strings.Join(parts, ", ")
}
