package ijgp

import (
	"fmt"
	"strconv"
	"strings"
)

// tupleKey renders a value tuple (in scope order) as a comparable map key.
func tupleKey(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

// WCSPConstraint is an n-ary tabular constraint: every tuple not explicitly
// listed in the exception table costs defaultWeight; listed tuples cost
// their recorded weight. A tuple whose weight reaches hardWeight is
// "disallowed" (evaluates to 0, a genuinely hard failure, not Epsilon —
// distinguishing it from the binary/unary variants which keep Epsilon as a
// samplable floor). Grounded on the WCSP textual format's per-constraint
// exception list.
type WCSPConstraint struct {
	scope        []VarID
	defaultW     uint64
	hardWeight   uint64
	maxTupleW    uint64
	weights      map[string]uint64
	disallowed   map[string]bool
	costs        *Costs
}

// NewWCSPConstraint builds a tabular constraint over scope with the given
// default tuple weight and hard-constraint threshold.
func NewWCSPConstraint(scope []VarID, defaultWeight, hardWeight uint64, costs *Costs) *WCSPConstraint {
	return &WCSPConstraint{
		scope:      scope,
		defaultW:   defaultWeight,
		hardWeight: hardWeight,
		maxTupleW:  defaultWeight,
		weights:    make(map[string]uint64),
		disallowed: make(map[string]bool),
		costs:      costs,
	}
}

// AddTuple records an exception weight for a specific tuple (values in
// scope order). Tuples reaching hardWeight become disallowed.
func (c *WCSPConstraint) AddTuple(values []int, weight uint64) {
	key := tupleKey(values)
	c.weights[key] = weight
	if weight > c.maxTupleW {
		c.maxTupleW = weight
	}
	if weight >= c.hardWeight {
		c.disallowed[key] = true
	}
}

func (c *WCSPConstraint) Scope() []VarID { return c.scope }

// DefaultWeight returns the weight assigned to any tuple with no recorded
// exception.
func (c *WCSPConstraint) DefaultWeight() uint64 { return c.defaultW }

// WCSPTuple is one recorded exception-weight tuple, in scope order.
type WCSPTuple struct {
	Values []int
	Weight uint64
}

// Tuples returns every recorded exception tuple, for serialization back to
// the WCSP text format. Order is unspecified.
func (c *WCSPConstraint) Tuples() []WCSPTuple {
	out := make([]WCSPTuple, 0, len(c.weights))
	for key, w := range c.weights {
		var values []int
		for _, s := range strings.Split(key, ",") {
			v, _ := strconv.Atoi(s)
			values = append(values, v)
		}
		out = append(out, WCSPTuple{Values: values, Weight: w})
	}
	return out
}

// IsSoft reports whether every observed tuple weight stays below the hard
// threshold.
func (c *WCSPConstraint) IsSoft() bool { return c.maxTupleW < c.hardWeight }

func (c *WCSPConstraint) weightFor(values []int) uint64 {
	if w, ok := c.weights[tupleKey(values)]; ok {
		return w
	}
	return c.defaultW
}

func (c *WCSPConstraint) Evaluate(a Assignment) float64 {
	values := make([]int, len(c.scope))
	for i, v := range c.scope {
		val, ok := a.Lookup(v)
		if !ok {
			return 1
		}
		values[i] = val
	}
	w := c.weightFor(values)
	if w >= c.hardWeight {
		return 0
	}
	return weightedExponential(2, c.costs.ExpK*float64(w)*-1)
}

// HasSupport scans the scope (excluding the fixed variable) for some
// completion, consistent with current domains and evidence, whose tuple
// weight stays under the hard threshold.
func (c *WCSPConstraint) HasSupport(varID VarID, value int, p *Problem, evidence Assignment) bool {
	if c.IsSoft() {
		return true
	}
	fixed := evidence.Clone()
	fixed[varID] = value
	return c.scanSupport(p, fixed, otherScopeVars(c.scope, varID))
}

func (c *WCSPConstraint) scanSupport(p *Problem, evidence Assignment, remaining []VarID) bool {
	if len(remaining) == 0 {
		values := make([]int, len(c.scope))
		for i, v := range c.scope {
			values[i], _ = evidence.Lookup(v)
		}
		return c.weightFor(values) < c.hardWeight
	}
	v := remaining[0]
	rest := remaining[1:]
	if _, ok := evidence.Lookup(v); ok {
		return c.scanSupport(p, evidence, rest)
	}
	variable := p.VariableByID(v)
	found := false
	variable.Domain().IterateAscending(func(candidate int) {
		if found {
			return
		}
		ext := evidence.Bind(v, candidate)
		if c.scanSupport(p, ext, rest) {
			found = true
		}
	})
	return found
}

func (c *WCSPConstraint) String() string {
	return fmt.Sprintf("wcsp(scope=%v, default=%d, hard=%d)", c.scope, c.defaultW, c.hardWeight)
}
