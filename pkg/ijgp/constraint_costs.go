package ijgp

import "math"

// Costs holds the process-wide weight tables shared by the exponential
// soft-constraint evaluation used throughout this package: an interference
// cost table (CELAR-style binary constraints), a mobility/modification cost
// table (unary "prefer default" constraints), the exponential base EXP_ROOT,
// and the WCSP damping scalar EXP_K. These are passed by reference into a
// Problem at construction rather than kept as package-level globals, per the
// package's "global costs" design: freeze after init, share read-only.
type Costs struct {
	Interference []float64 // indexed by weight-1, CELAR interference constraints
	Mobility     []float64 // indexed by weight-1, CELAR modification constraints
	ExpRoot      float64   // base of the soft-constraint exponential
	ExpK         float64   // damping factor for WCSP tabular constraints
}

// Epsilon is the "smallish chance to infeasible" constant substituted for a
// hard constraint's violated evaluation, keeping every soft/hard evaluation
// strictly positive so products never collapse to exact zero where a
// divide would need to special-case it.
const Epsilon = 1e-25

// DefaultCosts returns the reference cost tables used throughout the
// testable scenarios: EXP_ROOT=1.6 for CELAR-style constraints, EXP_K=0.001
// for WCSP tabular constraints, and small placeholder cost tables an
// implementer is expected to override from a loaded dataset.
func DefaultCosts() *Costs {
	return &Costs{
		Interference: []float64{1, 2, 3, 4},
		Mobility:     []float64{1, 2, 3, 4},
		ExpRoot:      1.6,
		ExpK:         0.001,
	}
}

// weightedExponential returns exp(ln(base) * weight) = base^weight, the
// shared evaluation shape used by every soft constraint variant in this
// package: base raised to a (possibly fractional, possibly negative)
// weight.
func weightedExponential(base, weight float64) float64 {
	return math.Exp(math.Log(base) * weight)
}

// InterferenceCost returns the interference cost for a 1-indexed weight, or
// 0 if out of range (callers treat that as a hard constraint).
func (c *Costs) InterferenceCost(weight int) (cost float64, ok bool) {
	if weight < 1 || weight > len(c.Interference) {
		return 0, false
	}
	return c.Interference[weight-1], true
}

// MobilityCost returns the mobility cost for a 1-indexed weight, or 0 if out
// of range.
func (c *Costs) MobilityCost(weight int) (cost float64, ok bool) {
	if weight < 1 || weight > len(c.Mobility) {
		return 0, false
	}
	return c.Mobility[weight-1], true
}
