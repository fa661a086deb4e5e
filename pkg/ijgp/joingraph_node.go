package ijgp

// JoinGraphEdge is a directed separator between two join-graph nodes,
// referencing its target by index into the owning JoinGraph's node arena
// (per the package's "cyclic references" design: edges are plain integers
// into a node vector, never raw pointers, keeping the property testable
// independent of Go's GC already making pointer cycles safe).
type JoinGraphEdge struct {
	Target    int // index into JoinGraph.Nodes
	Separator []VarID
}

// JoinGraphNode is one cluster of the join graph: a scope (a mini-bucket's
// scope set), the original constraints it owns, its neighbour edges, and
// the incoming-message tables (current and previous generation, kept apart
// for KL-divergence comparison).
type JoinGraphNode struct {
	Scope       []VarID
	Constraints []Constraint
	Edges       []JoinGraphEdge

	current  map[int]*Message // keyed by sender node index
	previous map[int]*Message
}

func newJoinGraphNode(scope []VarID, constraints []Constraint) *JoinGraphNode {
	return &JoinGraphNode{
		Scope:       scope,
		Constraints: constraints,
		current:     make(map[int]*Message),
		previous:    make(map[int]*Message),
	}
}

// SetMessage stores m as the current message from sender, moving whatever
// was previously current into previous (discarding what had been in
// previous).
func (n *JoinGraphNode) SetMessage(sender int, m *Message) {
	n.previous[sender] = n.current[sender]
	n.current[sender] = m
}

// CurrentMessage returns the most recently delivered message from sender,
// or nil.
func (n *JoinGraphNode) CurrentMessage(sender int) *Message { return n.current[sender] }

// PreviousMessage returns the prior generation's message from sender, or
// nil.
func (n *JoinGraphNode) PreviousMessage(sender int) *Message { return n.previous[sender] }

// evalExcluding multiplies n's owned constraints and every current incoming
// message except the one from excludeSender (the "exclude self" rule that
// prevents a node from sending back what it was just told). excludeSender
// of -1 excludes nothing (used by ConditionalDistribution).
func (n *JoinGraphNode) evalExcluding(a Assignment, excludeSender int) float64 {
	product := 1.0
	for _, c := range n.Constraints {
		product *= c.Evaluate(a)
	}
	for sender, m := range n.current {
		if sender == excludeSender || m == nil {
			continue
		}
		product *= m.Evaluate(a)
	}
	return product
}
