package ijgp

import (
	"math/rand"
	"testing"
)

func buildSamplerProblem(t *testing.T) *Problem {
	t.Helper()
	variables := []*Variable{
		NewVariable(1, NewRange(0, 9)),
		NewVariable(2, NewRange(0, 9)),
	}
	constraints := []Constraint{
		NewDifferenceConstraint(1, 2, OpEQ, 3, 0, DefaultCosts()),
	}
	p, err := NewProblem(variables, constraints, DefaultCosts())
	if err != nil {
		t.Fatalf("NewProblem: %v", err)
	}
	return p
}

func TestSamplerGetSampleProducesValidAssignment(t *testing.T) {
	p := buildSamplerProblem(t)
	cfg := DefaultSamplerConfig()
	rng := rand.New(rand.NewSource(1))
	s, err := NewSampler(p, cfg, rng)
	if err != nil {
		t.Fatalf("NewSampler: %v", err)
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

	// domains must be restored to their original extent after GetSample.
	for _, v := range p.Variables() {
		if v.Domain().Count() != 10 {
			t.Errorf("variable %s domain not restored after GetSample, count=%d", v.Name(), v.Domain().Count())
		}
	}
}

func TestSamplerGetSampleFailsOnUnsatisfiableProblem(t *testing.T) {
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
	cfg := DefaultSamplerConfig()
	rng := rand.New(rand.NewSource(2))
	s, err := NewSampler(p, cfg, rng)
	if err != nil {
		t.Fatalf("NewSampler: %v", err)
	}

	out := Assignment{1: 99}
	if s.GetSample(out) {
		t.Fatal("expected GetSample to fail: no assignment satisfies |v1-v2|==100 within [0,3)")
	}
	if len(out) != 0 {
		t.Errorf("expected out to be cleared on failure, got %v", out)
	}
}

type countingRecorder struct {
	attempted, accepted, propagationFailed int
	ijgpPasses                             int
}

func (r *countingRecorder) SampleAttempted()   { r.attempted++ }
func (r *countingRecorder) SampleAccepted()    { r.accepted++ }
func (r *countingRecorder) PropagationFailed() { r.propagationFailed++ }
func (r *countingRecorder) IJGPPass(iterations int, kl float64) { r.ijgpPasses++ }

func TestSamplerRecorderReceivesCounts(t *testing.T) {
	p := buildSamplerProblem(t)
	cfg := DefaultSamplerConfig()
	rng := rand.New(rand.NewSource(3))
	s, err := NewSampler(p, cfg, rng)
	if err != nil {
		t.Fatalf("NewSampler: %v", err)
	}
	rec := &countingRecorder{}
	s.SetRecorder(rec)

	out := Assignment{}
	if !s.GetSample(out) {
		t.Fatal("expected GetSample to succeed")
	}
	if rec.attempted != 1 {
		t.Errorf("attempted = %d, want 1", rec.attempted)
	}
	if rec.accepted != 1 {
		t.Errorf("accepted = %d, want 1", rec.accepted)
	}
	if rec.ijgpPasses == 0 {
		t.Error("expected at least one IJGP pass to be recorded")
	}
}

func TestSamplerSetRecorderNilRestoresNoop(t *testing.T) {
	p := buildSamplerProblem(t)
	rng := rand.New(rand.NewSource(4))
	s, err := NewSampler(p, DefaultSamplerConfig(), rng)
	if err != nil {
		t.Fatalf("NewSampler: %v", err)
	}
	s.SetRecorder(nil)
	out := Assignment{}
	if !s.GetSample(out) {
		t.Fatal("expected GetSample to still succeed with the no-op recorder")
	}
}

func TestSampleFromDistributionEmptyCandidateSet(t *testing.T) {
	cs := &candidateSet{values: map[int]bool{}}
	d := NewRange(0, 5)
	rng := rand.New(rand.NewSource(5))
	if _, ok := sampleFromDistribution(nil, cs, d, rng); ok {
		t.Error("expected sampleFromDistribution to fail on an empty candidate set")
	}
}

func TestSampleFromDistributionUniformFallback(t *testing.T) {
	d := NewRange(0, 2)
	cs := newCandidateSet(d)
	rng := rand.New(rand.NewSource(6))
	v, ok := sampleFromDistribution(map[int]float64{}, cs, d, rng)
	if !ok {
		t.Fatal("expected a uniform fallback draw to succeed")
	}
	if !d.Has(v) {
		t.Errorf("drawn value %d not in domain", v)
	}
}
