package ijgp

import (
	"math"
	"strconv"
)

// KL divergence convergence constants, grounded on ijgp.h's constants.
const (
	// MaxKLDivergence substitutes for a zero-denominator comparison: a
	// "message changed from nothing to something" is treated as maximally
	// divergent rather than undefined.
	MaxKLDivergence = 1e10
	// MinKLDivergence is the convergence threshold: once graph-wide KL
	// divergence drops below this, IJGP iteration stops.
	MinKLDivergence = 1e-2
	// klEpsilon guards log(p/q) against a zero q in-range.
	klEpsilon = 1e-10
	// MaxPropagationIterations bounds IJGP passes absent convergence.
	MaxPropagationIterations = 10
)

// Message is a probability table over a join-graph edge's separator scope,
// produced by one node and consumed by its neighbour. It implements
// Constraint so a node's evaluation can uniformly multiply "owned
// constraints" and "incoming messages" without a parallel interface.
type Message struct {
	scope      []VarID
	table      map[string]float64
	normalized bool
}

// NewMessage creates an empty message over scope.
func NewMessage(scope []VarID) *Message {
	return &Message{scope: scope, table: make(map[string]float64)}
}

// Scope returns the separator scope this message is defined over.
func (m *Message) Scope() []VarID { return m.scope }

// IsSoft reports true: messages never prune domains (per §4.4, a message
// is itself a factor, always tolerant of any assignment it has no entry
// for — see Evaluate's fallback).
func (m *Message) IsSoft() bool { return true }

// Set records the probability for one value tuple of m's scope (in scope
// order).
func (m *Message) Set(values []int, p float64) {
	m.table[tupleKey(values)] = p
}

// Get returns the probability recorded for values, or 0 if absent.
func (m *Message) Get(values []int) float64 {
	return m.table[tupleKey(values)]
}

// Evaluate looks up the table entry for a's restriction to m's scope. An
// assignment with no recorded entry is treated as probability 1 (message
// not yet informative about that tuple), matching the "owned constraints
// multiply in" convention where an absent message never zeroes a product.
func (m *Message) Evaluate(a Assignment) float64 {
	values := make([]int, len(m.scope))
	for i, v := range m.scope {
		val, ok := a.Lookup(v)
		if !ok {
			return 1
		}
		values[i] = val
	}
	key := tupleKey(values)
	if p, ok := m.table[key]; ok {
		return p
	}
	return 1
}

// HasSupport always returns true: messages are soft factors.
func (m *Message) HasSupport(varID VarID, value int, p *Problem, evidence Assignment) bool {
	return true
}

func (m *Message) String() string {
	return "message(scope=" + varIDsString(m.scope) + ")"
}

func varIDsString(ids []VarID) string {
	s := "["
	for i, id := range ids {
		if i > 0 {
			s += ","
		}
		s += strconv.Itoa(int(id))
	}
	return s + "]"
}

// Normalize divides every table entry by the total mass; if total mass is
// zero, every entry is set to 1/len(table) instead (uniform fallback). A
// message is immutable after normalization.
func (m *Message) Normalize() {
	total := 0.0
	for _, p := range m.table {
		total += p
	}
	if total > 0 {
		for k := range m.table {
			m.table[k] /= total
		}
	} else if len(m.table) > 0 {
		uniform := 1.0 / float64(len(m.table))
		for k := range m.table {
			m.table[k] = uniform
		}
	}
	m.normalized = true
}

// KLDivergence computes the sum Σ p·log(p/q) between m (new) and prior
// (previous generation of the same message), contributing MaxKLDivergence
// wherever prior has no matching entry (a zero denominator).
func (m *Message) KLDivergence(prior *Message) float64 {
	if prior == nil || len(prior.table) == 0 {
		if len(m.table) == 0 {
			return 0
		}
		return MaxKLDivergence
	}
	sum := 0.0
	for k, p := range m.table {
		if p <= 0 {
			continue
		}
		q, ok := prior.table[k]
		if !ok || q <= klEpsilon {
			sum += MaxKLDivergence
			continue
		}
		sum += p * math.Log(p/q)
	}
	return sum
}
