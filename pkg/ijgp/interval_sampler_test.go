package ijgp

import (
	"math/rand"
	"testing"
)

func TestIntervalSamplerGetSampleProducesValidAssignment(t *testing.T) {
	p := buildSamplerProblem(t)
	cfg := DefaultIntervalSamplerConfig()
	rng := rand.New(rand.NewSource(10))
	s, err := NewIntervalSampler(p, cfg, rng)
	if err != nil {
		t.Fatalf("NewIntervalSampler: %v", err)
	}

	out := Assignment{}
	if !s.GetSample(out) {
		t.Fatal("expected GetSample to succeed on a satisfiable problem")
	}
	if len(out) != 2 {
		t.Fatalf("expected a full assignment over 2 variables, got %v", out)
	}
	if p.Eval(out) <= 0 {
		t.Errorf("sampled assignment %v should satisfy every constraint, Eval=%v", out, p.Eval(out))
	}
	for _, v := range p.Variables() {
		if v.Domain().Count() != 10 {
			t.Errorf("variable %s domain not restored after GetSample, count=%d", v.Name(), v.Domain().Count())
		}
	}
}

func TestIntervalSamplerGetSampleFailsOnUnsatisfiableProblem(t *testing.T) {
	variables := []*Variable{
		NewVariable(1, NewFromValues(0, 3, []int{0})),
		NewVariable(2, NewFromValues(0, 3, []int{0})),
	}
	constraints := []Constraint{
		NewDifferenceConstraint(1, 2, OpEQ, 100, 0, DefaultCosts()),
	}
	p, err := NewProblem(variables, constraints, DefaultCosts())
	if err != nil {
		t.Fatalf("NewProblem: %v", err)
	}
	cfg := DefaultIntervalSamplerConfig()
	rng := rand.New(rand.NewSource(11))
	s, err := NewIntervalSampler(p, cfg, rng)
	if err != nil {
		t.Fatalf("NewIntervalSampler: %v", err)
	}

	out := Assignment{}
	if s.GetSample(out) {
		t.Fatal("expected GetSample to fail: no assignment satisfies |v1-v2|==100 within [0,3)")
	}
}

func TestSampleFromIntervalsEmptyCandidateSet(t *testing.T) {
	cs := &candidateSet{values: map[int]bool{}}
	rng := rand.New(rand.NewSource(12))
	if _, ok := sampleFromIntervals(nil, cs, rng); ok {
		t.Error("expected sampleFromIntervals to fail on an empty candidate set")
	}
}

func TestSampleFromIntervalsFallsBackWhenNoIntervalCoversEligibleValues(t *testing.T) {
	d := NewRange(5, 9)
	cs := newCandidateSet(d)
	rng := rand.New(rand.NewSource(13))
	ivs := []Interval{{Lo: 0, Hi: 3, P: 1}} // disjoint from cs's values
	v, ok := sampleFromIntervals(ivs, cs, rng)
	if !ok {
		t.Fatal("expected fallbackUniform to find a value")
	}
	if v < 5 || v > 9 {
		t.Errorf("fallback value %d outside expected range [5,9]", v)
	}
}

func TestSampleFromIntervalsDrawsWithinMatchingInterval(t *testing.T) {
	d := NewRange(0, 9)
	cs := newCandidateSet(d)
	rng := rand.New(rand.NewSource(14))
	ivs := []Interval{{Lo: 0, Hi: 5, P: 1}, {Lo: 5, Hi: 10, P: 0}}
	v, ok := sampleFromIntervals(ivs, cs, rng)
	if !ok {
		t.Fatal("expected a value to be drawn")
	}
	if v < 0 || v >= 5 {
		t.Errorf("expected the draw to favor [0,5) given P=1 there, got %d", v)
	}
}

func TestFallbackUniformDeterministicOrdering(t *testing.T) {
	cs := &candidateSet{values: map[int]bool{5: true, 1: true, 3: true}}
	rng := rand.New(rand.NewSource(0))
	v, ok := fallbackUniform(cs, rng)
	if !ok {
		t.Fatal("expected fallbackUniform to succeed")
	}
	if v != 1 && v != 3 && v != 5 {
		t.Errorf("fallbackUniform returned %d, want one of {1,3,5}", v)
	}
}

func TestFallbackUniformEmpty(t *testing.T) {
	cs := &candidateSet{values: map[int]bool{}}
	rng := rand.New(rand.NewSource(0))
	if _, ok := fallbackUniform(cs, rng); ok {
		t.Error("expected fallbackUniform to fail on an empty candidate set")
	}
}
