package ijgp

import "fmt"

// Problem owns every variable and constraint for a single solving/sampling
// run and indexes constraints by the variables they reference. Grounded on
// the teacher's Model container, generalized from a CLP model to a WCSP
// factor-graph container.
type Problem struct {
	variables       []*Variable
	variableIndex   map[VarID]*Variable
	constraints     []Constraint
	constraintsByVar map[VarID][]Constraint
	costs           *Costs
}

// NewProblem builds a Problem from variables and constraints, indexing
// constraints by every variable id in their scope. costs may be nil only if
// no soft constraint in the set needs a Costs table.
func NewProblem(variables []*Variable, constraints []Constraint, costs *Costs) (*Problem, error) {
	p := &Problem{
		variables:        variables,
		variableIndex:    make(map[VarID]*Variable, len(variables)),
		constraints:      constraints,
		constraintsByVar: make(map[VarID][]Constraint),
		costs:            costs,
	}
	for _, v := range variables {
		p.variableIndex[v.ID()] = v
	}
	for _, c := range constraints {
		for _, id := range c.Scope() {
			if _, ok := p.variableIndex[id]; !ok {
				return nil, fmt.Errorf("ijgp: constraint %s: %w (id %d)", c, ErrUnknownVariable, id)
			}
			p.constraintsByVar[id] = append(p.constraintsByVar[id], c)
		}
	}
	return p, nil
}

// Variables returns every variable in the problem, in construction order.
func (p *Problem) Variables() []*Variable { return p.variables }

// Constraints returns every constraint in the problem.
func (p *Problem) Constraints() []Constraint { return p.constraints }

// Costs returns the shared cost tables passed at construction.
func (p *Problem) Costs() *Costs { return p.costs }

// VariableByID returns the variable with the given id, or nil.
func (p *Problem) VariableByID(id VarID) *Variable { return p.variableIndex[id] }

// ConstraintsFor returns every constraint whose scope references id.
func (p *Problem) ConstraintsFor(id VarID) []Constraint { return p.constraintsByVar[id] }

// Validate reports an error if any variable has an empty domain or any
// constraint references an unknown variable (the latter is also checked at
// construction, but re-checked here for problems mutated after construction
// by a loader).
func (p *Problem) Validate() error {
	for _, v := range p.variables {
		if v.Domain().Count() == 0 {
			return fmt.Errorf("ijgp: variable %s: %w", v.Name(), ErrEmptyDomain)
		}
	}
	for _, c := range p.constraints {
		for _, id := range c.Scope() {
			if p.variableIndex[id] == nil {
				return fmt.Errorf("ijgp: constraint %s: %w (id %d)", c, ErrUnknownVariable, id)
			}
		}
	}
	return nil
}

// Eval returns the product of every constraint's evaluation on a. Per
// §4.3, this is the full-assignment score used by the sampler's validity
// property: every constraint must evaluate strictly positive for a.
func (p *Problem) Eval(a Assignment) float64 {
	product := 1.0
	for _, c := range p.constraints {
		product *= c.Evaluate(a)
	}
	return product
}

// arcKey identifies one entry of the GAC worklist: revise variable v against
// constraint c.
type arcKey struct {
	c Constraint
	v VarID
}

// PropagateAll runs full Generalized Arc Consistency from scratch: every
// non-evidence variable in every constraint's scope is enqueued for
// revision. Returns the journal of removed values (restore on every exit
// path) and whether propagation succeeded (false means some domain emptied).
func (p *Problem) PropagateAll(evidence Assignment) (*Journal, bool) {
	queue := make([]arcKey, 0)
	inQueue := make(map[arcKey]bool)
	enqueue := func(c Constraint, v VarID) {
		k := arcKey{c, v}
		if !inQueue[k] {
			inQueue[k] = true
			queue = append(queue, k)
		}
	}
	for _, c := range p.constraints {
		for _, v := range c.Scope() {
			if !evidence.Has(v) {
				enqueue(c, v)
			}
		}
	}
	return p.runPropagation(queue, inQueue, evidence)
}

// PropagateFrom runs incremental GAC restricted to constraints referencing
// changed, used by the sampler after binding one variable.
func (p *Problem) PropagateFrom(changed VarID, evidence Assignment) (*Journal, bool) {
	queue := make([]arcKey, 0)
	inQueue := make(map[arcKey]bool)
	enqueue := func(c Constraint, v VarID) {
		k := arcKey{c, v}
		if !inQueue[k] {
			inQueue[k] = true
			queue = append(queue, k)
		}
	}
	for _, c := range p.ConstraintsFor(changed) {
		for _, v := range otherScopeVars(c.Scope(), changed) {
			if !evidence.Has(v) {
				enqueue(c, v)
			}
		}
	}
	return p.runPropagation(queue, inQueue, evidence)
}

// runPropagation drains the worklist, revising one (constraint, variable)
// arc at a time. A value is erased from a variable's domain when the arc's
// constraint cannot support that value under current domains and evidence;
// erasing re-enqueues the arcs of every constraint that references the
// revised variable. Collecting queue entries into
// a slice with a membership map (rather than mutating a live iterator, as
// the original C++ source's std::set erase-during-iterate did) sidesteps
// the iterator-invalidation concern entirely.
func (p *Problem) runPropagation(queue []arcKey, inQueue map[arcKey]bool, evidence Assignment) (*Journal, bool) {
	j := NewJournal()
	for len(queue) > 0 {
		k := queue[0]
		queue = queue[1:]
		inQueue[k] = false

		variable := p.variableIndex[k.v]
		if variable == nil || evidence.Has(k.v) {
			continue
		}

		var toErase []int
		variable.Domain().IterateAscending(func(x int) {
			if !k.c.HasSupport(k.v, x, p, evidence) {
				toErase = append(toErase, x)
			}
		})
		if len(toErase) == 0 {
			continue
		}

		d := variable.Domain()
		for _, x := range toErase {
			d = d.Erase(x)
			j.Record(k.v, x)
		}
		variable.SetDomain(d)

		if d.Count() == 0 {
			return j, false
		}

		for _, c := range p.ConstraintsFor(k.v) {
			for _, v := range otherScopeVars(c.Scope(), k.v) {
				if evidence.Has(v) {
					continue
				}
				nk := arcKey{c, v}
				if !inQueue[nk] {
					inQueue[nk] = true
					queue = append(queue, nk)
				}
			}
		}
	}
	return j, true
}

// Restore reinserts exactly the values recorded in j, undoing the effects
// of one PropagateAll/PropagateFrom call. Must be called on both the
// success and failure paths so problem state on exit equals state on entry.
func (p *Problem) Restore(j *Journal) {
	if j == nil {
		return
	}
	for id, values := range j.removed {
		v := p.variableIndex[id]
		if v == nil {
			continue
		}
		v.SetDomain(v.Domain().Restore(values))
	}
}
