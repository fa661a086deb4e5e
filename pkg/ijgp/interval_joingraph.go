package ijgp

import (
	"math/rand"
	"strconv"
	"strings"
)

// MaxValuesFromInterval bounds how many representative values are sampled
// from an interval when approximating a sum over its full domain slice
// during interval-message computation.
const MaxValuesFromInterval = 2

// IntervalMessage is the interval-IJGP analogue of Message: instead of a
// table keyed by exact value tuples, it is keyed by interval tuples (one
// Interval per separator variable), each carrying the aggregated
// probability mass for that interval combination.
type IntervalMessage struct {
	scope []VarID
	table map[string]float64
	ivs   map[string][]Interval // per-separator-variable interval list, keyed by strconv of VarID
}

// NewIntervalMessage creates an empty interval message over scope.
func NewIntervalMessage(scope []VarID) *IntervalMessage {
	return &IntervalMessage{scope: scope, table: make(map[string]float64), ivs: make(map[string][]Interval)}
}

// Scope returns the separator scope.
func (m *IntervalMessage) Scope() []VarID { return m.scope }

// IsSoft reports true: interval messages, like point messages, are soft
// factors that never prune domains.
func (m *IntervalMessage) IsSoft() bool { return true }

func intervalTupleKey(ivs []Interval) string {
	parts := make([]string, len(ivs))
	for i, iv := range ivs {
		parts[i] = strconv.Itoa(iv.Lo) + ":" + strconv.Itoa(iv.Hi)
	}
	return strings.Join(parts, "|")
}

// IntervalFor returns the interval v's value falls within per this
// message's stored per-variable interval list, and whether one was found.
func (m *IntervalMessage) IntervalFor(v VarID, value int) (Interval, bool) {
	for _, iv := range m.ivs[strconv.Itoa(int(v))] {
		if value >= iv.Lo && value < iv.Hi {
			return iv, true
		}
	}
	return Interval{}, false
}

// Evaluate looks up the probability of the interval-tuple containing a's
// restriction to m's scope, divided by the width (Hi-Lo) of the widest
// interval in that combination, giving each value its share of the
// interval's aggregated mass. The divisor is the interval width alone; the
// variables' current domains are not consulted, so values already removed
// from a domain still count toward it. Absent entries evaluate to 1,
// matching Message's "not yet informative" convention.
func (m *IntervalMessage) Evaluate(a Assignment) float64 {
	ivs := make([]Interval, 0, len(m.scope))
	for _, v := range m.scope {
		val, ok := a.Lookup(v)
		if !ok {
			return 1
		}
		iv, found := m.IntervalFor(v, val)
		if !found {
			return 1
		}
		ivs = append(ivs, iv)
	}
	p, ok := m.table[intervalTupleKey(ivs)]
	if !ok {
		return 1
	}
	population := 1
	for _, iv := range ivs {
		if n := iv.length(); n > population {
			population = n
		}
	}
	return p / float64(population)
}

func (m *IntervalMessage) HasSupport(varID VarID, value int, p *Problem, evidence Assignment) bool {
	return true
}

func (m *IntervalMessage) String() string { return "interval-message(scope=" + varIDsString(m.scope) + ")" }

// Normalize divides every table entry by the total mass, or spreads
// uniform mass across entries if total mass was zero.
func (m *IntervalMessage) Normalize() {
	total := 0.0
	for _, p := range m.table {
		total += p
	}
	if total > 0 {
		for k := range m.table {
			m.table[k] /= total
		}
		return
	}
	if len(m.table) == 0 {
		return
	}
	uniform := 1.0 / float64(len(m.table))
	for k := range m.table {
		m.table[k] = uniform
	}
}

// IntervalJoinGraphNode mirrors JoinGraphNode but stores per-sender
// IntervalMessages instead of exact-valued ones.
type IntervalJoinGraphNode struct {
	Scope       []VarID
	Constraints []Constraint
	Edges       []JoinGraphEdge

	current  map[int]*IntervalMessage
	previous map[int]*IntervalMessage
}

// SetMessage stores m as the current interval message from sender.
func (n *IntervalJoinGraphNode) SetMessage(sender int, m *IntervalMessage) {
	n.previous[sender] = n.current[sender]
	n.current[sender] = m
}

// IntervalJoinGraph mirrors JoinGraph but propagates interval-keyed
// messages, sampling representative values from each interval combination
// rather than enumerating every value, so large domains stay tractable.
type IntervalJoinGraph struct {
	Nodes               []*IntervalJoinGraphNode
	Ordering            []int
	problem             *Problem
	MaxDomainIntervals  int
	MaxValuesFromInterval int
	rng                 *rand.Rand
}

// CreateIntervalJoinGraph builds an IntervalJoinGraph with the same node
// and edge topology CreateJoinGraph would produce (grounded on the same
// mini-bucket schema), wrapping each node for interval-message storage.
func CreateIntervalJoinGraph(p *Problem, ordering []VarID, bound, maxDomainIntervals, maxValuesFromInterval int, rng *rand.Rand) (*IntervalJoinGraph, error) {
	base, err := CreateJoinGraph(p, ordering, bound)
	if err != nil {
		return nil, err
	}
	ijg := &IntervalJoinGraph{
		problem:               p,
		Ordering:              base.Ordering,
		MaxDomainIntervals:    maxDomainIntervals,
		MaxValuesFromInterval: maxValuesFromInterval,
		rng:                   rng,
	}
	for _, n := range base.Nodes {
		ijg.Nodes = append(ijg.Nodes, &IntervalJoinGraphNode{
			Scope:       n.Scope,
			Constraints: n.Constraints,
			Edges:       n.Edges,
			current:     make(map[int]*IntervalMessage),
			previous:    make(map[int]*IntervalMessage),
		})
	}
	return ijg, nil
}

// perVariableIntervals returns, for each variable in vars, its current
// node-derived interval table (bounded to MaxDomainIntervals via
// JoinIntervals), for use when enumerating the cartesian product of
// interval combinations.
func (ijg *IntervalJoinGraph) perVariableIntervals(n *IntervalJoinGraphNode, vars []VarID, evidence Assignment) map[VarID][]Interval {
	out := make(map[VarID][]Interval, len(vars))
	for _, v := range vars {
		if val, ok := evidence.Lookup(v); ok {
			out[v] = []Interval{{Lo: val, Hi: val + 1, P: 1}}
			continue
		}
		variable := ijg.problem.VariableByID(v)
		raw := deriveIntervalsForNode(ijg.problem, n, v, evidence)
		raw = AdjustToDomain(raw, variable.Domain())
		joined, err := JoinIntervals(NormalizeIntervals(raw), ijg.MaxDomainIntervals)
		if err != nil || len(joined) == 0 {
			joined = raw
		}
		out[v] = joined
	}
	return out
}

// deriveIntervalsForNode adapts DeriveNodeIntervals to the
// IntervalJoinGraphNode type (same constraint-combination logic).
func deriveIntervalsForNode(p *Problem, n *IntervalJoinGraphNode, v VarID, evidence Assignment) []Interval {
	plain := &JoinGraphNode{Scope: n.Scope, Constraints: n.Constraints}
	return DeriveNodeIntervals(p, plain, v, evidence)
}

// sampleRepresentatives draws up to MaxValuesFromInterval values uniformly
// from d restricted to iv, without replacement, used to approximate a sum
// over the interval's full domain slice.
func sampleRepresentatives(d *Domain, iv Interval, limit int, rng *rand.Rand) []int {
	var values []int
	d.IterateAscending(func(v int) {
		if v >= iv.Lo && v < iv.Hi {
			values = append(values, v)
		}
	})
	if len(values) <= limit {
		return values
	}
	rng.Shuffle(len(values), func(i, j int) { values[i], values[j] = values[j], values[i] })
	return values[:limit]
}

func cartesianIntervalTuples(vars []VarID, table map[VarID][]Interval) [][]Interval {
	if len(vars) == 0 {
		return [][]Interval{{}}
	}
	rest := cartesianIntervalTuples(vars[1:], table)
	var out [][]Interval
	for _, iv := range table[vars[0]] {
		for _, r := range rest {
			combo := append([]Interval{iv}, r...)
			out = append(out, combo)
		}
	}
	return out
}

// computeIntervalMessage computes the outgoing interval message node n
// (index nodeIdx) sends along edge e: the separator's per-variable interval
// tables are enumerated as a cartesian product; for each combination, up to
// MaxValuesFromInterval representative values per separator variable are
// sampled and the node's evaluation (owned constraints and incoming
// messages, excluding the target) is summed over the sampled
// representatives; the sum is not rescaled to the full interval's size.
func computeIntervalMessage(ijg *IntervalJoinGraph, nodeIdx int, e JoinGraphEdge, evidence Assignment) *IntervalMessage {
	n := ijg.Nodes[nodeIdx]

	var visible []VarID
	for _, v := range e.Separator {
		if !evidence.Has(v) {
			visible = append(visible, v)
		}
	}

	perVar := ijg.perVariableIntervals(n, visible, evidence)
	msg := NewIntervalMessage(visible)
	for _, v := range visible {
		msg.ivs[strconv.Itoa(int(v))] = perVar[v]
	}

	variables := make(map[VarID]*Variable, len(visible))
	for _, v := range visible {
		variables[v] = ijg.problem.VariableByID(v)
	}

	for _, combo := range cartesianIntervalTuples(visible, perVar) {
		sum := 0.0
		samples := 1
		for i, v := range visible {
			reps := sampleRepresentatives(variables[v].Domain(), combo[i], ijg.MaxValuesFromInterval, ijg.rng)
			if len(reps) == 0 {
				samples = 0
				break
			}
			samples *= len(reps)
		}
		if samples > 0 {
			sum = aggregateOverRepresentatives(ijg, n, nodeIdx, e.Target, visible, combo, evidence)
		}
		msg.table[intervalTupleKey(combo)] = sum
	}
	msg.Normalize()
	return msg
}

func aggregateOverRepresentatives(ijg *IntervalJoinGraph, n *IntervalJoinGraphNode, nodeIdx, excludeSender int, visible []VarID, combo []Interval, evidence Assignment) float64 {
	var rec func(i int, a Assignment) float64
	rec = func(i int, a Assignment) float64 {
		if i == len(visible) {
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
		v := visible[i]
		variable := ijg.problem.VariableByID(v)
		reps := sampleRepresentatives(variable.Domain(), combo[i], ijg.MaxValuesFromInterval, ijg.rng)
		sum := 0.0
		for _, x := range reps {
			sum += rec(i+1, a.Bind(v, x))
		}
		return sum
	}
	return rec(0, evidence)
}

// RunOnce performs one asynchronous interval-IJGP pass.
func (ijg *IntervalJoinGraph) RunOnce(evidence Assignment) {
	for _, idx := range ijg.Ordering {
		n := ijg.Nodes[idx]
		for _, edge := range n.Edges {
			msg := computeIntervalMessage(ijg, idx, edge, evidence)
			ijg.Nodes[edge.Target].SetMessage(idx, msg)
		}
	}
}

// ConditionalDistribution returns an interval-valued conditional
// distribution for v given evidence: the first node containing v derives
// v's combined interval table from its owned constraints only, adjusted to
// v's current domain and bounded to MaxDomainIntervals. Incoming interval
// messages are not consulted.
func (ijg *IntervalJoinGraph) ConditionalDistribution(v VarID, evidence Assignment) []Interval {
	nodeIdx := -1
	for i, n := range ijg.Nodes {
		if scopeContains(n.Scope, v) {
			nodeIdx = i
			break
		}
	}
	if nodeIdx < 0 {
		return nil
	}
	n := ijg.Nodes[nodeIdx]
	raw := deriveIntervalsForNode(ijg.problem, n, v, evidence)
	variable := ijg.problem.VariableByID(v)
	raw = AdjustToDomain(raw, variable.Domain())
	joined, err := JoinIntervals(NormalizeIntervals(raw), ijg.MaxDomainIntervals)
	if err != nil {
		return raw
	}
	return joined
}
