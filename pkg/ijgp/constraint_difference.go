package ijgp

import "fmt"

// DifferenceOp is the comparison operator a CELAR-style interference
// constraint applies to |x1 - x2|.
type DifferenceOp int

const (
	// OpEQ requires |x1-x2| == target.
	OpEQ DifferenceOp = iota
	// OpLT requires |x1-x2| < target.
	OpLT
	// OpGT requires |x1-x2| > target.
	OpGT
)

func (op DifferenceOp) apply(diff, target int) bool {
	switch op {
	case OpEQ:
		return diff == target
	case OpLT:
		return diff < target
	case OpGT:
		return diff > target
	default:
		return false
	}
}

func (op DifferenceOp) String() string {
	switch op {
	case OpEQ:
		return "="
	case OpLT:
		return "<"
	case OpGT:
		return ">"
	default:
		return "?"
	}
}

// DifferenceConstraint is a binary "CELAR interference" constraint: it
// compares |var1 - var2| against target using op. With weight 0 it is hard
// (satisfied -> 1, violated -> Epsilon); with weight > 0 it is soft and
// evaluates to ExpRoot^costs.InterferenceCost(weight) when satisfied, 1
// otherwise.
type DifferenceConstraint struct {
	var1, var2 VarID
	op         DifferenceOp
	target     int
	weight     int
	costs      *Costs
}

// NewDifferenceConstraint builds a binary difference constraint over var1
// and var2.
func NewDifferenceConstraint(var1, var2 VarID, op DifferenceOp, target, weight int, costs *Costs) *DifferenceConstraint {
	return &DifferenceConstraint{var1: var1, var2: var2, op: op, target: target, weight: weight, costs: costs}
}

func (c *DifferenceConstraint) Scope() []VarID { return []VarID{c.var1, c.var2} }

func (c *DifferenceConstraint) IsSoft() bool { return c.weight > 0 }

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func (c *DifferenceConstraint) satisfied(a Assignment) (bool, bool) {
	x1, ok1 := a.Lookup(c.var1)
	x2, ok2 := a.Lookup(c.var2)
	if !ok1 || !ok2 {
		return false, false
	}
	return c.op.apply(absInt(x1-x2), c.target), true
}

func (c *DifferenceConstraint) Evaluate(a Assignment) float64 {
	sat, bound := c.satisfied(a)
	if !bound {
		return 1
	}
	if c.weight == 0 {
		if sat {
			return 1
		}
		return Epsilon
	}
	cost, ok := c.costs.InterferenceCost(c.weight)
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

// HasSupport implements §4.2's binary-difference support search: soft
// constraints always support; if both ends are evidenced, check directly;
// if only the other end is evidenced, check the operator against the fixed
// difference; otherwise scan the other variable's domain for at least one
// supporting value.
func (c *DifferenceConstraint) HasSupport(varID VarID, value int, p *Problem, evidence Assignment) bool {
	if c.IsSoft() {
		return true
	}
	other := c.var2
	if varID == c.var2 {
		other = c.var1
	}
	if ov, ok := evidence.Lookup(varID); ok && ov != value {
		return false
	}
	if ov, ok := evidence.Lookup(other); ok {
		return c.op.apply(absInt(value-ov), c.target)
	}
	otherVar := p.VariableByID(other)
	if otherVar == nil {
		return false
	}
	found := false
	otherVar.Domain().IterateAscending(func(y int) {
		if !found && c.op.apply(absInt(value-y), c.target) {
			found = true
		}
	})
	return found
}

func (c *DifferenceConstraint) String() string {
	return fmt.Sprintf("|v%d - v%d| %s %d (w=%d)", c.var1, c.var2, c.op, c.target, c.weight)
}
