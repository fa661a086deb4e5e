package ijgp

// DeriveIntervals computes variable v's per-value probability under
// constraint c (by exhaustively enumerating c's other scope variables'
// current domains and summing c.Evaluate), then converts the per-value
// table into a half-open-interval table by placing every current domain
// value into the singleton interval [x, x+1) with probability p(x)/Σp;
// values with zero mass are kept as zero-probability intervals, not
// dropped. If the total mass is zero (a soft constraint that happened to
// score zero everywhere observable, or a constraint with no informative
// scope left), the result is uniform intervals spanning v's domain instead.
func DeriveIntervals(p *Problem, c Constraint, v VarID, evidence Assignment) []Interval {
	variable := p.VariableByID(v)
	if variable == nil {
		return nil
	}
	rest := otherScopeVars(c.Scope(), v)

	probs := make(map[int]float64)
	total := 0.0
	variable.Domain().IterateAscending(func(x int) {
		ext := evidence.Bind(v, x)
		sum := 0.0
		enumerateAssignments(p, rest, ext, func(full Assignment) {
			sum += c.Evaluate(full)
		})
		probs[x] = sum
		total += sum
	})

	if total <= 0 {
		ivs, _ := UniformIntervals(variable.Domain(), variable.Domain().Count())
		return ivs
	}

	var out []Interval
	variable.Domain().IterateAscending(func(x int) {
		out = append(out, Interval{Lo: x, Hi: x + 1, P: probs[x] / total})
	})
	return out
}

// DeriveNodeIntervals combines every constraint a join-graph node owns that
// references v into one interval table: per-value probabilities are
// multiplied across constraints (each constraint narrows the distribution
// independently), then renormalized into singleton intervals. A node that
// owns no constraint referencing v falls back to a uniform table over v's
// domain.
func DeriveNodeIntervals(p *Problem, n *JoinGraphNode, v VarID, evidence Assignment) []Interval {
	variable := p.VariableByID(v)
	if variable == nil {
		return nil
	}

	var owning []Constraint
	for _, c := range n.Constraints {
		if scopeContains(c.Scope(), v) {
			owning = append(owning, c)
		}
	}
	if len(owning) == 0 {
		ivs, _ := UniformIntervals(variable.Domain(), variable.Domain().Count())
		return ivs
	}

	combined := make(map[int]float64)
	variable.Domain().IterateAscending(func(x int) { combined[x] = 1 })

	for _, c := range owning {
		ivs := DeriveIntervals(p, c, v, evidence)
		perValue := make(map[int]float64, len(ivs))
		for _, iv := range ivs {
			for x := iv.Lo; x < iv.Hi; x++ {
				perValue[x] = iv.P
			}
		}
		for x := range combined {
			if p, ok := perValue[x]; ok {
				combined[x] *= p
			}
		}
	}

	total := 0.0
	for _, p := range combined {
		total += p
	}
	var out []Interval
	if total <= 0 {
		ivs, _ := UniformIntervals(variable.Domain(), variable.Domain().Count())
		return ivs
	}
	variable.Domain().IterateAscending(func(x int) {
		out = append(out, Interval{Lo: x, Hi: x + 1, P: combined[x] / total})
	})
	return out
}
