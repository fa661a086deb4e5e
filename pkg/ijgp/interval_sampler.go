package ijgp

import (
	"math/rand"
	"sort"
)

// IntervalSamplerConfig holds the extra parameters the interval-IJGP variant
// needs beyond SamplerConfig: how many intervals a variable's domain may be
// bounded to, and how many representative values a message computation
// samples from each interval.
type IntervalSamplerConfig struct {
	SamplerConfig
	MaxDomainIntervals    int
	MaxValuesFromInterval int
}

// DefaultIntervalSamplerConfig returns the reference configuration layered
// on DefaultSamplerConfig.
func DefaultIntervalSamplerConfig() IntervalSamplerConfig {
	return IntervalSamplerConfig{
		SamplerConfig:         DefaultSamplerConfig(),
		MaxDomainIntervals:    10,
		MaxValuesFromInterval: MaxValuesFromInterval,
	}
}

// IntervalSampler is the interval-IJGP analogue of Sampler: it draws values
// by first sampling an interval from the conditional interval distribution,
// then drawing uniformly within that interval, rather than drawing directly
// from a per-value conditional distribution.
type IntervalSampler struct {
	problem  *Problem
	ordering []VarID
	ijg      *IntervalJoinGraph
	cfg      IntervalSamplerConfig
	rng      *rand.Rand
	logger   Logger
	recorder Recorder
}

// NewIntervalSampler builds an IntervalSampler over problem, mirroring
// NewSampler's construction but building an IntervalJoinGraph instead.
func NewIntervalSampler(problem *Problem, cfg IntervalSamplerConfig, rng *rand.Rand) (*IntervalSampler, error) {
	g, err := BuildPrimalGraph(problem)
	if err != nil {
		return nil, err
	}
	ordering, err := MinInducedWidthOrdering(g)
	if err != nil {
		return nil, err
	}
	ijg, err := CreateIntervalJoinGraph(problem, ordering, cfg.MaxBucketSize, cfg.MaxDomainIntervals, cfg.MaxValuesFromInterval, rng)
	if err != nil {
		return nil, err
	}
	return &IntervalSampler{problem: problem, ordering: ordering, ijg: ijg, cfg: cfg, rng: rng, recorder: noopRecorder{}}, nil
}

// SetLogger attaches a diagnostics logger; the interval join graph itself
// does not log, so this is only retained for interface parity with Sampler.
func (s *IntervalSampler) SetLogger(l Logger) { s.logger = l }

// SetRecorder attaches a metrics recorder; passing nil restores the no-op
// default.
func (s *IntervalSampler) SetRecorder(r Recorder) {
	if r == nil {
		r = noopRecorder{}
	}
	s.recorder = r
}

// GetSample attempts to draw one full assignment via the interval-bounded
// recursive step, writing it into out and reporting success.
func (s *IntervalSampler) GetSample(out Assignment) bool {
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

func (s *IntervalSampler) getSampleInternal(evidence Assignment, depth int, first bool) (Assignment, bool) {
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
		s.ijg.RunOnce(evidence)
	}

	variable := s.problem.VariableByID(v)
	cs := newCandidateSet(variable.Domain())

	for !cs.empty() {
		ivs := s.ijg.ConditionalDistribution(v, evidence)
		value, found := sampleFromIntervals(ivs, cs, s.rng)
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

// sampleFromIntervals draws an interval by inverse-CDF over ivs, then a
// uniform value within it, skipping values no longer in cs. If no interval
// in ivs contains an eligible value, falls back to a uniform draw over all
// of cs's remaining values.
func sampleFromIntervals(ivs []Interval, cs *candidateSet, rng *rand.Rand) (int, bool) {
	if cs.empty() {
		return 0, false
	}

	type candidate struct {
		iv     Interval
		values []int
	}
	var candidates []candidate
	total := 0.0
	for _, iv := range ivs {
		var values []int
		for x := iv.Lo; x < iv.Hi; x++ {
			if cs.values[x] {
				values = append(values, x)
			}
		}
		if len(values) == 0 {
			continue
		}
		candidates = append(candidates, candidate{iv: iv, values: values})
		total += iv.P
	}

	if len(candidates) == 0 {
		return fallbackUniform(cs, rng)
	}
	if total <= 0 {
		c := candidates[rng.Intn(len(candidates))]
		return c.values[rng.Intn(len(c.values))], true
	}

	u := rng.Float64() * total
	cumulative := 0.0
	for _, c := range candidates {
		cumulative += c.iv.P
		if u < cumulative {
			return c.values[rng.Intn(len(c.values))], true
		}
	}
	last := candidates[len(candidates)-1]
	return last.values[rng.Intn(len(last.values))], true
}

func fallbackUniform(cs *candidateSet, rng *rand.Rand) (int, bool) {
	var values []int
	for v := range cs.values {
		values = append(values, v)
	}
	if len(values) == 0 {
		return 0, false
	}
	sort.Ints(values)
	return values[rng.Intn(len(values))], true
}
