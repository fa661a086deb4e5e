package ijgp

import "errors"

// Sentinel errors for the few fatal configuration conditions the sampler
// core recognizes. "No sample reachable" is deliberately NOT among them: it
// is communicated as a bool return from GetSample, per the package's error
// handling design (programmer errors are fatal; search exhaustion is not an
// error).
var (
	// ErrEmptyDomain is returned when a variable is constructed with, or
	// reduced to, an empty domain outside of a propagation pass.
	ErrEmptyDomain = errors.New("ijgp: variable has empty domain")

	// ErrUnknownVariable is returned when a constraint or ordering
	// references a variable id not present in the problem.
	ErrUnknownVariable = errors.New("ijgp: unknown variable id")

	// ErrConfigInvalid is returned for configuration violations: K<=0 for
	// interval operations, an empty variable ordering, or a mini-bucket
	// size bound below 1.
	ErrConfigInvalid = errors.New("ijgp: invalid configuration")

	// ErrNoSupport names a failed has-support search. No function in this
	// module returns it; the sampler reports failed support through GAC
	// propagation's bool result instead.
	ErrNoSupport = errors.New("ijgp: no supporting value found")
)
