package ijgp

import "fmt"

// These four variants supplement the distilled specification's terse
// "Intel equality/inequality/intervals-not-equal/equal-to-constant" mention
// with concrete constraints, all sharing the satisfied?->1-or-exponential
// evaluation pattern used throughout the package.

// EqualityConstraint requires |x1 - x2| == x3 (an equality tied to a third
// variable, as opposed to DifferenceConstraint's fixed target).
type EqualityConstraint struct {
	x1, x2, x3 VarID
	weight     int
	costs      *Costs
}

// NewEqualityConstraint builds an |x1-x2|==x3 constraint.
func NewEqualityConstraint(x1, x2, x3 VarID, weight int, costs *Costs) *EqualityConstraint {
	return &EqualityConstraint{x1: x1, x2: x2, x3: x3, weight: weight, costs: costs}
}

func (c *EqualityConstraint) Scope() []VarID { return []VarID{c.x1, c.x2, c.x3} }
func (c *EqualityConstraint) IsSoft() bool   { return c.weight > 0 }

func (c *EqualityConstraint) satisfied(a Assignment) (bool, bool) {
	v1, ok1 := a.Lookup(c.x1)
	v2, ok2 := a.Lookup(c.x2)
	v3, ok3 := a.Lookup(c.x3)
	if !ok1 || !ok2 || !ok3 {
		return false, false
	}
	return absInt(v1-v2) == v3, true
}

func evalSatisfiedPattern(sat, bound bool, weight int, costs *Costs) float64 {
	if !bound {
		return 1
	}
	if weight == 0 {
		if sat {
			return 1
		}
		return Epsilon
	}
	cost, ok := costs.InterferenceCost(weight)
	if !ok {
		if sat {
			return 1
		}
		return Epsilon
	}
	if sat {
		return weightedExponential(costs.ExpRoot, cost)
	}
	return 1
}

func (c *EqualityConstraint) Evaluate(a Assignment) float64 {
	sat, bound := c.satisfied(a)
	return evalSatisfiedPattern(sat, bound, c.weight, c.costs)
}

func (c *EqualityConstraint) HasSupport(varID VarID, value int, p *Problem, evidence Assignment) bool {
	if c.IsSoft() {
		return true
	}
	ext := evidence.Bind(varID, value)
	return scanTernarySupport(p, ext, []VarID{c.x1, c.x2, c.x3}, func(a Assignment) bool {
		sat, bound := c.satisfied(a)
		return !bound || sat
	})
}

func (c *EqualityConstraint) String() string {
	return fmt.Sprintf("|v%d-v%d|==v%d (w=%d)", c.x1, c.x2, c.x3, c.weight)
}

// scanTernarySupport exhaustively searches the unbound members of scope
// (consistent with evidence and current domains) for some completion
// satisfying pred; used by the small-arity Intel constraint variants.
func scanTernarySupport(p *Problem, evidence Assignment, scope []VarID, pred func(Assignment) bool) bool {
	var remaining []VarID
	for _, v := range scope {
		if !evidence.Has(v) {
			remaining = append(remaining, v)
		}
	}
	return scanTernaryRec(p, evidence, remaining, pred)
}

func scanTernaryRec(p *Problem, evidence Assignment, remaining []VarID, pred func(Assignment) bool) bool {
	if len(remaining) == 0 {
		return pred(evidence)
	}
	v := remaining[0]
	rest := remaining[1:]
	variable := p.VariableByID(v)
	if variable == nil {
		return false
	}
	found := false
	variable.Domain().IterateAscending(func(candidate int) {
		if found {
			return
		}
		if scanTernaryRec(p, evidence.Bind(v, candidate), rest, pred) {
			found = true
		}
	})
	return found
}

// InequalityConstraint requires x1 != x2.
type InequalityConstraint struct {
	x1, x2 VarID
	weight int
	costs  *Costs
}

// NewInequalityConstraint builds an x1!=x2 constraint.
func NewInequalityConstraint(x1, x2 VarID, weight int, costs *Costs) *InequalityConstraint {
	return &InequalityConstraint{x1: x1, x2: x2, weight: weight, costs: costs}
}

func (c *InequalityConstraint) Scope() []VarID { return []VarID{c.x1, c.x2} }
func (c *InequalityConstraint) IsSoft() bool   { return c.weight > 0 }

func (c *InequalityConstraint) satisfied(a Assignment) (bool, bool) {
	v1, ok1 := a.Lookup(c.x1)
	v2, ok2 := a.Lookup(c.x2)
	if !ok1 || !ok2 {
		return false, false
	}
	return v1 != v2, true
}

func (c *InequalityConstraint) Evaluate(a Assignment) float64 {
	sat, bound := c.satisfied(a)
	return evalSatisfiedPattern(sat, bound, c.weight, c.costs)
}

func (c *InequalityConstraint) HasSupport(varID VarID, value int, p *Problem, evidence Assignment) bool {
	if c.IsSoft() {
		return true
	}
	other := c.x2
	if varID == c.x2 {
		other = c.x1
	}
	if ov, ok := evidence.Lookup(other); ok {
		return ov != value
	}
	otherVar := p.VariableByID(other)
	if otherVar == nil {
		return false
	}
	d := otherVar.Domain()
	if d.Count() > 1 {
		return true
	}
	return d.Count() == 1 && d.Min() != value
}

func (c *InequalityConstraint) String() string {
	return fmt.Sprintf("v%d!=v%d (w=%d)", c.x1, c.x2, c.weight)
}

// IntervalsNotEqualConstraint requires |x1-x2| != |x3-x4|.
type IntervalsNotEqualConstraint struct {
	x1, x2, x3, x4 VarID
	weight         int
	costs          *Costs
}

// NewIntervalsNotEqualConstraint builds an |x1-x2|!=|x3-x4| constraint.
func NewIntervalsNotEqualConstraint(x1, x2, x3, x4 VarID, weight int, costs *Costs) *IntervalsNotEqualConstraint {
	return &IntervalsNotEqualConstraint{x1: x1, x2: x2, x3: x3, x4: x4, weight: weight, costs: costs}
}

func (c *IntervalsNotEqualConstraint) Scope() []VarID {
	return []VarID{c.x1, c.x2, c.x3, c.x4}
}
func (c *IntervalsNotEqualConstraint) IsSoft() bool { return c.weight > 0 }

func (c *IntervalsNotEqualConstraint) satisfied(a Assignment) (bool, bool) {
	v1, ok1 := a.Lookup(c.x1)
	v2, ok2 := a.Lookup(c.x2)
	v3, ok3 := a.Lookup(c.x3)
	v4, ok4 := a.Lookup(c.x4)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return false, false
	}
	return absInt(v1-v2) != absInt(v3-v4), true
}

func (c *IntervalsNotEqualConstraint) Evaluate(a Assignment) float64 {
	sat, bound := c.satisfied(a)
	return evalSatisfiedPattern(sat, bound, c.weight, c.costs)
}

func (c *IntervalsNotEqualConstraint) HasSupport(varID VarID, value int, p *Problem, evidence Assignment) bool {
	if c.IsSoft() {
		return true
	}
	ext := evidence.Bind(varID, value)
	return scanTernarySupport(p, ext, c.Scope(), func(a Assignment) bool {
		sat, bound := c.satisfied(a)
		return !bound || sat
	})
}

func (c *IntervalsNotEqualConstraint) String() string {
	return fmt.Sprintf("|v%d-v%d|!=|v%d-v%d| (w=%d)", c.x1, c.x2, c.x3, c.x4, c.weight)
}

// EqualToConstantConstraint requires x == k.
type EqualToConstantConstraint struct {
	x      VarID
	k      int
	weight int
	costs  *Costs
}

// NewEqualToConstantConstraint builds an x==k constraint.
func NewEqualToConstantConstraint(x VarID, k, weight int, costs *Costs) *EqualToConstantConstraint {
	return &EqualToConstantConstraint{x: x, k: k, weight: weight, costs: costs}
}

func (c *EqualToConstantConstraint) Scope() []VarID { return []VarID{c.x} }
func (c *EqualToConstantConstraint) IsSoft() bool    { return c.weight > 0 }

func (c *EqualToConstantConstraint) Evaluate(a Assignment) float64 {
	v, ok := a.Lookup(c.x)
	sat := ok && v == c.k
	return evalSatisfiedPattern(sat, ok, c.weight, c.costs)
}

func (c *EqualToConstantConstraint) HasSupport(varID VarID, value int, p *Problem, evidence Assignment) bool {
	if c.IsSoft() {
		return true
	}
	return value == c.k
}

func (c *EqualToConstantConstraint) String() string {
	return fmt.Sprintf("v%d==%d (w=%d)", c.x, c.k, c.weight)
}
