package ijgp

// JoinGraph is the result of attaching mini-buckets' scopes and owned
// constraints to nodes and wiring them with separator-labeled edges. Nodes
// are held in a single arena (Nodes) and edges reference targets by index,
// never by pointer, so the graph is free of ownership cycles.
type JoinGraph struct {
	Nodes    []*JoinGraphNode
	Ordering []int // frozen traversal order over Nodes indices
	problem  *Problem
}

// enumerateAssignments calls f once for every combination of values drawn
// from vars' current domains, extending base. Used both to compute messages
// (enumerate the "visible" separator values) and to marginalize out a set
// of variables (enumerate and sum).
func enumerateAssignments(p *Problem, vars []VarID, base Assignment, f func(Assignment)) {
	var rec func(i int, a Assignment)
	rec = func(i int, a Assignment) {
		if i == len(vars) {
			f(a)
			return
		}
		v := vars[i]
		variable := p.VariableByID(v)
		if variable == nil {
			return
		}
		variable.Domain().IterateAscending(func(x int) {
			rec(i+1, a.Bind(v, x))
		})
	}
	rec(0, base)
}

func diffScope(a, b []VarID) []VarID {
	bs := newScopeSet(b)
	var out []VarID
	for _, v := range a {
		if !bs[v] {
			out = append(out, v)
		}
	}
	return out
}

func unionScope(a, b []VarID) []VarID {
	return newScopeSet(a).union(newScopeSet(b)).toSlice()
}

// CreateJoinGraph builds nodes from the problem's schematic mini-bucket
// decomposition at the given ordering and bound: each mini-bucket becomes a
// node owning every original constraint whose scope is a subset of the
// mini-bucket's scope, wired by (a) a pair of directed edges per recorded
// outside-bucket arc, labeled by the two mini-buckets' scope intersection,
// and (b) edges connecting every pair of mini-buckets within one bucket,
// labeled by that bucket's pivot variable. Grounded on
// JoinGraph::createJoinGraph.
func CreateJoinGraph(p *Problem, ordering []VarID, bound int) (*JoinGraph, error) {
	schema, err := p.SchematicMiniBucket(ordering, bound)
	if err != nil {
		return nil, err
	}

	// nodeIndex[bucket][miniBucketIndex] -> index into jg.Nodes
	nodeIndex := make([][]int, len(schema.Buckets))
	jg := &JoinGraph{problem: p}

	for k, mbs := range schema.Buckets {
		nodeIndex[k] = make([]int, len(mbs))
		for i, mb := range mbs {
			idx := len(jg.Nodes)
			jg.Nodes = append(jg.Nodes, newJoinGraphNode(mb.Scope, mb.Constraints))
			nodeIndex[k][i] = idx
		}
	}

	addBidirectional := func(aIdx, bIdx int, separator []VarID) {
		jg.Nodes[aIdx].Edges = append(jg.Nodes[aIdx].Edges, JoinGraphEdge{Target: bIdx, Separator: separator})
		jg.Nodes[bIdx].Edges = append(jg.Nodes[bIdx].Edges, JoinGraphEdge{Target: aIdx, Separator: separator})
	}

	for _, arc := range schema.Arcs {
		fromIdx := nodeIndex[arc.FromBucket][arc.FromIndex]
		toIdx := nodeIndex[arc.ToBucket][arc.ToIndex]
		sepA := jg.Nodes[fromIdx].Scope
		sepB := jg.Nodes[toIdx].Scope
		separator := intersectScope(sepA, sepB)
		addBidirectional(fromIdx, toIdx, separator)
	}

	for k, indices := range nodeIndex {
		pivot := []VarID{ordering[k]}
		for i := 0; i < len(indices); i++ {
			for j := i + 1; j < len(indices); j++ {
				addBidirectional(indices[i], indices[j], pivot)
			}
		}
	}

	for i := range jg.Nodes {
		jg.Ordering = append(jg.Ordering, i)
	}

	return jg, nil
}

func intersectScope(a, b []VarID) []VarID {
	bs := newScopeSet(b)
	var out []VarID
	for _, v := range a {
		if bs[v] {
			out = append(out, v)
		}
	}
	return out
}

// computeMessage computes the outgoing message node n (at index nodeIdx)
// sends along edge e, restricted to the non-evidence part of the separator.
// Per §4.4: marginalized = n.Scope \ (separator ∪ evidence-scope); enumerate
// the visible part of the separator (separator \ evidence), and for each,
// marginalize out the marginalized variables by summing n's evaluation
// (owned constraints × every incoming message except the one from e's
// target) over their domains.
func computeMessage(jg *JoinGraph, nodeIdx int, e JoinGraphEdge, evidence Assignment) *Message {
	n := jg.Nodes[nodeIdx]

	var visible []VarID
	for _, v := range e.Separator {
		if !evidence.Has(v) {
			visible = append(visible, v)
		}
	}

	evidenceScope := make([]VarID, 0, len(evidence))
	for v := range evidence {
		evidenceScope = append(evidenceScope, v)
	}
	marginalized := diffScope(n.Scope, unionScope(e.Separator, evidenceScope))

	msg := NewMessage(visible)
	enumerateAssignments(jg.problem, visible, evidence, func(partial Assignment) {
		sum := 0.0
		enumerateAssignments(jg.problem, marginalized, partial, func(full Assignment) {
			sum += n.evalExcluding(full, e.Target)
		})
		values := make([]int, len(visible))
		for i, v := range visible {
			values[i], _ = partial.Lookup(v)
		}
		msg.Set(values, sum)
	})
	msg.Normalize()
	return msg
}

// ConditionalDistribution returns the unnormalized conditional distribution
// over v's current domain given evidence: find a node whose scope contains
// v, then for each of v's domain values, extend evidence and marginalize
// out the rest of that node's scope (excluding nothing — unlike
// computeMessage, no sender is excluded here since this is a read-out, not
// a message send).
func (jg *JoinGraph) ConditionalDistribution(v VarID, evidence Assignment) map[int]float64 {
	nodeIdx := jg.nodeContaining(v)
	if nodeIdx < 0 {
		return nil
	}
	n := jg.Nodes[nodeIdx]
	variable := jg.problem.VariableByID(v)
	if variable == nil {
		return nil
	}

	dist := make(map[int]float64)
	rest := diffScope(n.Scope, append(append([]VarID{}, v), evidenceScopeOf(evidence)...))

	variable.Domain().IterateAscending(func(x int) {
		extended := evidence.Bind(v, x)
		sum := 0.0
		enumerateAssignments(jg.problem, rest, extended, func(full Assignment) {
			sum += n.evalExcluding(full, -1)
		})
		dist[x] = sum
	})
	return dist
}

func evidenceScopeOf(a Assignment) []VarID {
	out := make([]VarID, 0, len(a))
	for v := range a {
		out = append(out, v)
	}
	return out
}

func (jg *JoinGraph) nodeContaining(v VarID) int {
	for i, n := range jg.Nodes {
		if scopeContains(n.Scope, v) {
			return i
		}
	}
	return -1
}
