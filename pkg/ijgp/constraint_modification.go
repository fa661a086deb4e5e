package ijgp

import "fmt"

// ModificationConstraint is a unary "prefer default value" constraint: with
// weight 0 it is hard (var must equal defaultValue); with weight > 0 it is
// soft, rewarding assignments that keep var at its default. Grounded on the
// CELAR modification constraint (channel-reassignment penalty).
type ModificationConstraint struct {
	v            VarID
	defaultValue int
	weight       int
	costs        *Costs
}

// NewModificationConstraint builds a unary modification constraint over v.
func NewModificationConstraint(v VarID, defaultValue, weight int, costs *Costs) *ModificationConstraint {
	return &ModificationConstraint{v: v, defaultValue: defaultValue, weight: weight, costs: costs}
}

func (c *ModificationConstraint) Scope() []VarID { return []VarID{c.v} }

func (c *ModificationConstraint) IsSoft() bool { return c.weight > 0 }

func (c *ModificationConstraint) Evaluate(a Assignment) float64 {
	x, ok := a.Lookup(c.v)
	if !ok {
		return 1
	}
	sat := x == c.defaultValue
	if c.weight == 0 {
		if sat {
			return 1
		}
		return Epsilon
	}
	cost, ok := c.costs.MobilityCost(c.weight)
	if !ok {
		if sat {
			return 1
		}
		return Epsilon
	}
	if sat {
		return weightedExponential(c.costs.ExpRoot, cost)
	}
	return 1
}

func (c *ModificationConstraint) HasSupport(varID VarID, value int, p *Problem, evidence Assignment) bool {
	if c.IsSoft() {
		return true
	}
	if value == c.defaultValue {
		return true
	}
	if ov, ok := evidence.Lookup(c.v); ok {
		return ov == c.defaultValue
	}
	return false
}

func (c *ModificationConstraint) String() string {
	return fmt.Sprintf("v%d prefers %d (w=%d)", c.v, c.defaultValue, c.weight)
}
