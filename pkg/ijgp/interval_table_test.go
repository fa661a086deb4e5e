package ijgp

import "testing"

func TestDeriveIntervalsFavorsSatisfyingValues(t *testing.T) {
	c := NewDifferenceConstraint(1, 2, OpEQ, 3, 0, DefaultCosts())
	v1 := NewVariable(1, NewFromValues(0, 20, []int{10}))
	v2 := NewVariable(2, NewRange(0, 20))
	p, err := NewProblem([]*Variable{v1, v2}, []Constraint{c}, DefaultCosts())
	if err != nil {
		t.Fatalf("NewProblem: %v", err)
	}

	ivs := DeriveIntervals(p, c, 2, Assignment{1: 10})
	var massAt7, massAt8 float64
	for _, iv := range ivs {
		if iv.Lo == 7 {
			massAt7 = iv.P
		}
		if iv.Lo == 8 {
			massAt8 = iv.P
		}
	}
	if massAt7 <= massAt8 {
		t.Errorf("expected v2=7 (satisfies |10-7|=3) to carry more mass than v2=8, got %v vs %v", massAt7, massAt8)
	}
}

func TestDeriveIntervalsZeroMassFallsBackUniform(t *testing.T) {
	c := NewDifferenceConstraint(1, 2, OpEQ, 1000, 0, DefaultCosts())
	v1 := NewVariable(1, NewFromValues(0, 5, []int{2}))
	v2 := NewVariable(2, NewRange(0, 4))
	p, err := NewProblem([]*Variable{v1, v2}, []Constraint{c}, DefaultCosts())
	if err != nil {
		t.Fatalf("NewProblem: %v", err)
	}

	ivs := DeriveIntervals(p, c, 2, Assignment{1: 2})
	if len(ivs) == 0 {
		t.Fatal("expected a uniform fallback table, got none")
	}
	total := 0.0
	for _, iv := range ivs {
		total += iv.P
	}
	if !approxEqual(total, 1.0) {
		t.Errorf("uniform fallback total mass = %v, want 1.0", total)
	}
}

func TestDeriveNodeIntervalsCombinesConstraints(t *testing.T) {
	c1 := NewDifferenceConstraint(1, 2, OpEQ, 3, 0, DefaultCosts())
	c2 := NewInequalityConstraint(2, 3, 0, DefaultCosts())
	v1 := NewVariable(1, NewFromValues(0, 20, []int{10}))
	v2 := NewVariable(2, NewRange(0, 20))
	v3 := NewVariable(3, NewFromValues(0, 20, []int{7}))
	p, err := NewProblem([]*Variable{v1, v2, v3}, []Constraint{c1, c2}, DefaultCosts())
	if err != nil {
		t.Fatalf("NewProblem: %v", err)
	}

	n := &JoinGraphNode{Scope: []VarID{1, 2, 3}, Constraints: []Constraint{c1, c2}}
	ivs := DeriveNodeIntervals(p, n, 2, Assignment{1: 10, 3: 7})

	// both 7 and 13 satisfy |v1-v2|==3, but 7 also violates v2!=v3 (v3=7):
	// the combined table should favor 13 by a wide margin.
	var massAt7, massAt13 float64
	for _, iv := range ivs {
		if iv.Lo == 7 {
			massAt7 = iv.P
		}
		if iv.Lo == 13 {
			massAt13 = iv.P
		}
	}
	if massAt7 >= massAt13 {
		t.Errorf("expected v2=7 (violates v2!=v3=7) to carry far less mass than v2=13, got %v vs %v", massAt7, massAt13)
	}
}

func TestDeriveNodeIntervalsNoOwningConstraintIsUniform(t *testing.T) {
	v1 := NewVariable(1, NewRange(0, 3))
	p, err := NewProblem([]*Variable{v1}, nil, DefaultCosts())
	if err != nil {
		t.Fatalf("NewProblem: %v", err)
	}
	n := &JoinGraphNode{Scope: []VarID{1}}
	ivs := DeriveNodeIntervals(p, n, 1, Assignment{})
	if len(ivs) != 4 {
		t.Fatalf("expected 4 singleton intervals, got %d", len(ivs))
	}
	for _, iv := range ivs {
		if !approxEqual(iv.P, 0.25) {
			t.Errorf("expected uniform 0.25 mass per value, got %v", iv.P)
		}
	}
}
