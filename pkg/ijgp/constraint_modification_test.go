package ijgp

import "testing"

func TestModificationConstraintHardEvaluate(t *testing.T) {
	c := NewModificationConstraint(1, 5, 0, DefaultCosts())

	if got := c.Evaluate(Assignment{1: 5}); got != 1 {
		t.Errorf("Evaluate at default = %v, want 1", got)
	}
	if got := c.Evaluate(Assignment{1: 7}); got != Epsilon {
		t.Errorf("Evaluate away from default = %v, want Epsilon", got)
	}
	if got := c.Evaluate(Assignment{}); got != 1 {
		t.Errorf("Evaluate unbound = %v, want 1", got)
	}
}

func TestModificationConstraintSoftEvaluate(t *testing.T) {
	costs := DefaultCosts()
	c := NewModificationConstraint(1, 5, 2, costs)

	cost, _ := costs.MobilityCost(2)
	want := weightedExponential(costs.ExpRoot, cost)
	if got := c.Evaluate(Assignment{1: 5}); got != want {
		t.Errorf("Evaluate at default (soft) = %v, want %v", got, want)
	}
	if got := c.Evaluate(Assignment{1: 9}); got != 1 {
		t.Errorf("Evaluate away from default (soft) = %v, want 1", got)
	}
}

func TestModificationConstraintHasSupport(t *testing.T) {
	hard := NewModificationConstraint(1, 5, 0, DefaultCosts())
	variables := []*Variable{NewVariable(1, NewRange(0, 10))}
	p, err := NewProblem(variables, []Constraint{hard}, DefaultCosts())
	if err != nil {
		t.Fatalf("NewProblem: %v", err)
	}

	if !hard.HasSupport(1, 5, p, Assignment{}) {
		t.Error("expected support for the default value itself")
	}
	if hard.HasSupport(1, 9, p, Assignment{}) {
		t.Error("did not expect support for a non-default value with no evidence")
	}

	soft := NewModificationConstraint(1, 5, 2, DefaultCosts())
	if !soft.HasSupport(1, 9, p, Assignment{}) {
		t.Error("soft modification constraints never remove support")
	}
}

func TestModificationConstraintIsSoft(t *testing.T) {
	if NewModificationConstraint(1, 5, 0, DefaultCosts()).IsSoft() {
		t.Error("weight 0 should be hard")
	}
	if !NewModificationConstraint(1, 5, 1, DefaultCosts()).IsSoft() {
		t.Error("weight > 0 should be soft")
	}
}
