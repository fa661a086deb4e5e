package ijgp

import "fmt"

// VarID identifies a problem variable.
type VarID int

// Variable is a problem variable: an id paired with a domain. Variable
// values are mutated only through Problem's propagation and the sampler's
// reversible restriction, never in place by callers.
type Variable struct {
	id     VarID
	name   string
	domain *Domain
}

// NewVariable creates a variable with the given id, domain, and an
// autogenerated name.
func NewVariable(id VarID, domain *Domain) *Variable {
	return &Variable{id: id, name: fmt.Sprintf("v%d", id), domain: domain}
}

// NewNamedVariable creates a variable with an explicit debug name.
func NewNamedVariable(id VarID, domain *Domain, name string) *Variable {
	return &Variable{id: id, name: name, domain: domain}
}

// ID returns the variable's stable identifier.
func (v *Variable) ID() VarID { return v.id }

// Name returns the variable's debug name.
func (v *Variable) Name() string { return v.name }

// Domain returns the variable's current domain.
func (v *Variable) Domain() *Domain { return v.domain }

// SetDomain replaces the variable's current domain. Used by Problem during
// propagation and by the sampler during reversible restriction; not part of
// the stable public surface for ordinary callers.
func (v *Variable) SetDomain(d *Domain) { v.domain = d }

func (v *Variable) String() string {
	return fmt.Sprintf("%s=%s", v.name, v.domain.String())
}
