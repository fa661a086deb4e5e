package ijgp

import "testing"

func TestWCSPConstraintDefaultAndException(t *testing.T) {
	costs := DefaultCosts()
	c := NewWCSPConstraint([]VarID{1, 2}, 5, 1000, costs)
	c.AddTuple([]int{1, 1}, 0)

	got := c.Evaluate(Assignment{1: 1, 2: 1})
	want := weightedExponential(2, costs.ExpK*0*-1)
	if got != want {
		t.Errorf("Evaluate for exception tuple = %v, want %v", got, want)
	}

	got2 := c.Evaluate(Assignment{1: 2, 2: 2})
	want2 := weightedExponential(2, costs.ExpK*5*-1)
	if got2 != want2 {
		t.Errorf("Evaluate for default tuple = %v, want %v", got2, want2)
	}

	if got := c.Evaluate(Assignment{1: 1}); got != 1 {
		t.Errorf("Evaluate with unbound scope member = %v, want 1", got)
	}
}

func TestWCSPConstraintHardTupleEvaluatesZero(t *testing.T) {
	c := NewWCSPConstraint([]VarID{1, 2}, 0, 100, DefaultCosts())
	c.AddTuple([]int{1, 1}, 100)

	if got := c.Evaluate(Assignment{1: 1, 2: 1}); got != 0 {
		t.Errorf("Evaluate for disallowed tuple = %v, want 0", got)
	}
	if c.IsSoft() {
		t.Error("expected constraint with a hard-weight tuple to report IsSoft()==false")
	}
}

func TestWCSPConstraintIsSoftWhenNoDisallowed(t *testing.T) {
	c := NewWCSPConstraint([]VarID{1, 2}, 5, 100, DefaultCosts())
	c.AddTuple([]int{1, 1}, 10)
	if !c.IsSoft() {
		t.Error("expected constraint with no tuple reaching hardWeight to be soft")
	}
}

func TestWCSPConstraintHasSupport(t *testing.T) {
	c := NewWCSPConstraint([]VarID{1, 2}, 0, 100, DefaultCosts())
	c.AddTuple([]int{1, 1}, 100)

	variables := []*Variable{
		NewVariable(1, NewRange(0, 3)),
		NewVariable(2, NewRange(0, 3)),
	}
	p, err := NewProblem(variables, []Constraint{c}, DefaultCosts())
	if err != nil {
		t.Fatalf("NewProblem: %v", err)
	}

	if !c.HasSupport(1, 2, p, Assignment{}) {
		t.Error("expected support for v1=2: no disallowed tuple starts with 2")
	}

	narrow := NewVariable(2, NewFromValues(0, 3, []int{1}))
	p2, err := NewProblem([]*Variable{variables[0], narrow}, []Constraint{c}, DefaultCosts())
	if err != nil {
		t.Fatalf("NewProblem: %v", err)
	}
	if c.HasSupport(1, 1, p2, Assignment{}) {
		t.Error("did not expect support for v1=1 when v2's only value 1 makes the tuple disallowed")
	}
}

func TestWCSPConstraintTuplesRoundTrip(t *testing.T) {
	c := NewWCSPConstraint([]VarID{1, 2}, 5, 100, DefaultCosts())
	c.AddTuple([]int{3, 4}, 42)

	tuples := c.Tuples()
	if len(tuples) != 1 {
		t.Fatalf("Tuples() returned %d entries, want 1", len(tuples))
	}
	if tuples[0].Weight != 42 {
		t.Errorf("Tuples()[0].Weight = %d, want 42", tuples[0].Weight)
	}
	if len(tuples[0].Values) != 2 || tuples[0].Values[0] != 3 || tuples[0].Values[1] != 4 {
		t.Errorf("Tuples()[0].Values = %v, want [3 4]", tuples[0].Values)
	}
	if c.DefaultWeight() != 5 {
		t.Errorf("DefaultWeight() = %d, want 5", c.DefaultWeight())
	}
}
