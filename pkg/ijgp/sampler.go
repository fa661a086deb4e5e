package ijgp

import "math/rand"

// SamplerConfig holds the algorithm parameters a Sampler is constructed
// with, grounded on the original sampler constructor's parameter list.
type SamplerConfig struct {
	MaxBucketSize     int     // mini-bucket schematization bound i
	IJGPProbability   float64 // probability of running IJGP on a non-first variable
	MaxIJGPIterations int     // iteration cap for Engine.Propagate
}

// DefaultSamplerConfig returns the reference configuration: bucket size 2,
// IJGP always run (probability 1.0), and the standard 10-iteration cap.
func DefaultSamplerConfig() SamplerConfig {
	return SamplerConfig{MaxBucketSize: 2, IJGPProbability: 1.0, MaxIJGPIterations: MaxPropagationIterations}
}

// Recorder receives counters and histogram observations about sampling
// runs; satisfied by metrics.Collectors and metrics.Noop. A Sampler with no
// Recorder set uses the package's own no-op recorder, so the sampler never
// depends on Prometheus directly.
type Recorder interface {
	SampleAttempted()
	SampleAccepted()
	PropagationFailed()
	IJGPPass(iterations int, klDivergence float64)
}

type noopRecorder struct{}

func (noopRecorder) SampleAttempted()                    {}
func (noopRecorder) SampleAccepted()                     {}
func (noopRecorder) PropagationFailed()                  {}
func (noopRecorder) IJGPPass(iterations int, kl float64) {}

// Sampler draws weighted samples from a Problem's solution space via
// backtracking search, using GAC propagation to prune domains on the
// partial assignment and IJGP's conditional distributions to choose each
// variable's value. The pseudorandom stream is an explicit injected
// dependency (never a package-level global) so sampling is reproducible in
// tests.
type Sampler struct {
	problem  *Problem
	ordering []VarID
	jg       *JoinGraph
	engine   *Engine
	cfg      SamplerConfig
	rng      *rand.Rand
	logger   Logger
	recorder Recorder
}

// NewSampler builds a Sampler over problem: an elimination ordering is
// computed from the primal graph, a join graph is built once at the given
// bucket-size bound, and rng seeds every random choice the sampler makes.
func NewSampler(problem *Problem, cfg SamplerConfig, rng *rand.Rand) (*Sampler, error) {
	g, err := BuildPrimalGraph(problem)
	if err != nil {
		return nil, err
	}
	ordering, err := MinInducedWidthOrdering(g)
	if err != nil {
		return nil, err
	}
	jg, err := CreateJoinGraph(problem, ordering, cfg.MaxBucketSize)
	if err != nil {
		return nil, err
	}
	return &Sampler{
		problem:  problem,
		ordering: ordering,
		jg:       jg,
		engine:   NewEngine(),
		cfg:      cfg,
		rng:      rng,
		recorder: noopRecorder{},
	}, nil
}

// SetLogger attaches a diagnostics logger used by the IJGP engine during
// sampling.
func (s *Sampler) SetLogger(l Logger) {
	s.logger = l
	s.engine.Logger = l
}

// SetRecorder attaches a metrics recorder; passing nil restores the no-op
// default.
func (s *Sampler) SetRecorder(r Recorder) {
	if r == nil {
		r = noopRecorder{}
	}
	s.recorder = r
}

// candidateSet tracks, per recursion level, which of a variable's domain
// values are still eligible to be tried (shrinks permanently within one
// GetSample invocation as tries fail, per §4.6 step 6).
type candidateSet struct {
	values map[int]bool
}

func newCandidateSet(d *Domain) *candidateSet {
	cs := &candidateSet{values: make(map[int]bool)}
	d.IterateAscending(func(v int) { cs.values[v] = true })
	return cs
}

func (cs *candidateSet) remove(v int) { delete(cs.values, v) }
func (cs *candidateSet) empty() bool  { return len(cs.values) == 0 }

// GetSample attempts to draw one full assignment, writing it into out and
// returning whether it succeeded. out is cleared at the start of every
// call, so on failure it is left empty; on failure the problem's domains are
// restored to their pre-call state.
func (s *Sampler) GetSample(out Assignment) bool {
	for k := range out {
		delete(out, k)
	}
	s.recorder.SampleAttempted()
	result, ok := s.getSampleInternal(Assignment{}, 0, true)
	if !ok {
		return false
	}
	s.recorder.SampleAccepted()
	for k, v := range result {
		out[k] = v
	}
	return true
}

// getSampleInternal implements §4.6's recursive step: propagate, maybe run
// IJGP, query the conditional distribution for the next variable, draw a
// value by inverse-CDF (uniform fallback on zero mass), restrict
// reversibly, and recurse — backtracking by permanently discarding the
// tried value from this invocation's candidate set on failure.
func (s *Sampler) getSampleInternal(evidence Assignment, depth int, first bool) (Assignment, bool) {
	if depth == len(s.ordering) {
		return evidence, true
	}

	v := s.ordering[depth]

	var journal *Journal
	var ok bool
	if first {
		journal, ok = s.problem.PropagateAll(evidence)
	} else {
		journal, ok = s.problem.PropagateFrom(s.ordering[depth-1], evidence)
	}
	if !ok {
		s.recorder.PropagationFailed()
		s.problem.Restore(journal)
		return nil, false
	}

	if first || s.rng.Float64() < s.cfg.IJGPProbability {
		iters, kl := s.engine.Propagate(s.jg, evidence, s.cfg.MaxIJGPIterations)
		s.recorder.IJGPPass(iters, kl)
	}

	variable := s.problem.VariableByID(v)
	cs := newCandidateSet(variable.Domain())

	for !cs.empty() {
		dist := s.jg.ConditionalDistribution(v, evidence)
		value, found := sampleFromDistribution(dist, cs, variable.Domain(), s.rng)
		if !found {
			break
		}

		restricted, removed := variable.Domain().RestrictTo(value)
		variable.SetDomain(restricted)

		result, ok := s.getSampleInternal(evidence.Bind(v, value), depth+1, false)
		if ok {
			variable.SetDomain(variable.Domain().Restore(removed))
			s.problem.Restore(journal)
			return result, true
		}

		variable.SetDomain(variable.Domain().Restore(removed))
		cs.remove(value)
	}

	s.problem.Restore(journal)
	return nil, false
}

// sampleFromDistribution draws a value by inverse-CDF over dist restricted
// to cs's still-eligible values; if every eligible value has zero recorded
// mass (dist nil/empty/all-zero), falls back to a uniform draw over the
// eligible values themselves.
func sampleFromDistribution(dist map[int]float64, cs *candidateSet, d *Domain, rng *rand.Rand) (int, bool) {
	if cs.empty() {
		return 0, false
	}

	total := 0.0
	var eligible []int
	d.IterateAscending(func(v int) {
		if cs.values[v] {
			eligible = append(eligible, v)
			total += dist[v]
		}
	})
	if len(eligible) == 0 {
		return 0, false
	}
	if total <= 0 {
		return eligible[rng.Intn(len(eligible))], true
	}

	u := rng.Float64() * total
	cumulative := 0.0
	for _, v := range eligible {
		cumulative += dist[v]
		if u < cumulative {
			return v, true
		}
	}
	return eligible[len(eligible)-1], true
}
