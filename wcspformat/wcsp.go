// Package wcspformat reads and writes the WCSP text format: one line of
// problem header, one line of per-variable domain sizes, then one block per
// constraint (a scope/default-weight/exception-count line followed by that
// many exception-tuple lines). Grounded on load_wcsp_problem in the
// original C++ source's wcsp.cpp.
package wcspformat

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ludekcigler/ijgpsampler/pkg/ijgp"
)

// Header carries the problem-wide values from a WCSP file's first line:
// total variable and constraint counts (the variable count must match the
// domain-size line, or Parse fails; the constraint count is not checked
// against the constraint lines read) and the tuple weight at and above which
// a tuple is a hard-constraint violation.
type Header struct {
	NumVariables       int
	MaxDomainSize      int
	NumConstraints     int
	HardConstraintWeight uint64
}

// Parse reads a WCSP file from r and builds the Problem it describes, whose
// WCSPConstraints all share costs; it also returns the file's Header.
func Parse(r io.Reader, costs *ijgp.Costs) (*ijgp.Problem, Header, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	header, err := parseHeader(scanner)
	if err != nil {
		return nil, header, err
	}

	domains, err := parseDomains(scanner, header.NumVariables)
	if err != nil {
		return nil, header, err
	}

	variables := make([]*ijgp.Variable, len(domains))
	for i, hi := range domains {
		variables[i] = ijgp.NewVariable(ijgp.VarID(i), ijgp.NewRange(0, hi))
	}

	var constraints []ijgp.Constraint
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		c, err := parseConstraintBlock(scanner, line, header.HardConstraintWeight, costs)
		if err != nil {
			return nil, header, err
		}
		constraints = append(constraints, c)
	}
	if err := scanner.Err(); err != nil {
		return nil, header, fmt.Errorf("wcspformat: scan: %w", err)
	}

	p, err := ijgp.NewProblem(variables, constraints, costs)
	if err != nil {
		return nil, header, err
	}
	return p, header, nil
}

func parseHeader(scanner *bufio.Scanner) (Header, error) {
	if !scanner.Scan() {
		return Header{}, fmt.Errorf("wcspformat: missing header line")
	}
	fields := strings.Fields(scanner.Text())
	if len(fields) < 5 {
		return Header{}, fmt.Errorf("wcspformat: header line has %d fields, want at least 5", len(fields))
	}
	numVars, err := strconv.Atoi(fields[1])
	if err != nil {
		return Header{}, fmt.Errorf("wcspformat: header num_variables: %w", err)
	}
	maxDomain, err := strconv.Atoi(fields[2])
	if err != nil {
		return Header{}, fmt.Errorf("wcspformat: header max_domain_size: %w", err)
	}
	numConstraints, err := strconv.Atoi(fields[3])
	if err != nil {
		return Header{}, fmt.Errorf("wcspformat: header num_constraints: %w", err)
	}
	hardWeight, err := strconv.ParseUint(fields[4], 10, 64)
	if err != nil {
		return Header{}, fmt.Errorf("wcspformat: header hard_constraint_weight: %w", err)
	}
	return Header{NumVariables: numVars, MaxDomainSize: maxDomain, NumConstraints: numConstraints, HardConstraintWeight: hardWeight}, nil
}

func parseDomains(scanner *bufio.Scanner, numVariables int) ([]int, error) {
	if !scanner.Scan() {
		return nil, fmt.Errorf("wcspformat: missing domain-size line")
	}
	fields := strings.Fields(scanner.Text())
	domains := make([]int, 0, len(fields))
	for _, f := range fields {
		size, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("wcspformat: domain size %q: %w", f, err)
		}
		if size < 1 {
			return nil, fmt.Errorf("wcspformat: domain size must be at least 1, got %d", size)
		}
		domains = append(domains, size-1)
	}
	if numVariables > 0 && len(domains) != numVariables {
		return nil, fmt.Errorf("wcspformat: header declared %d variables, domain line has %d", numVariables, len(domains))
	}
	return domains, nil
}

func parseConstraintBlock(scanner *bufio.Scanner, headLine string, hardWeight uint64, costs *ijgp.Costs) (*ijgp.WCSPConstraint, error) {
	fields := strings.Fields(headLine)
	if len(fields) < 3 {
		return nil, fmt.Errorf("wcspformat: constraint line has %d fields, want at least 3", len(fields))
	}
	arity, err := strconv.Atoi(fields[0])
	if err != nil {
		return nil, fmt.Errorf("wcspformat: constraint arity: %w", err)
	}
	if len(fields) < arity+3 {
		return nil, fmt.Errorf("wcspformat: constraint declares arity %d but line has %d fields", arity, len(fields))
	}

	scope := make([]ijgp.VarID, arity)
	for i := 0; i < arity; i++ {
		id, err := strconv.Atoi(fields[i+1])
		if err != nil {
			return nil, fmt.Errorf("wcspformat: scope variable: %w", err)
		}
		scope[i] = ijgp.VarID(id)
	}

	defaultWeight, err := strconv.ParseUint(fields[len(fields)-2], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("wcspformat: default weight: %w", err)
	}
	numExceptions, err := strconv.Atoi(fields[len(fields)-1])
	if err != nil {
		return nil, fmt.Errorf("wcspformat: exception count: %w", err)
	}

	c := ijgp.NewWCSPConstraint(scope, defaultWeight, hardWeight, costs)

	for i := 0; i < numExceptions; i++ {
		if !scanner.Scan() {
			return nil, fmt.Errorf("wcspformat: expected %d exception tuples, got %d", numExceptions, i)
		}
		tupleFields := strings.Fields(scanner.Text())
		if len(tupleFields) != arity+1 {
			return nil, fmt.Errorf("wcspformat: exception tuple has %d fields, want %d", len(tupleFields), arity+1)
		}
		values := make([]int, arity)
		for j := 0; j < arity; j++ {
			v, err := strconv.Atoi(tupleFields[j])
			if err != nil {
				return nil, fmt.Errorf("wcspformat: exception tuple value: %w", err)
			}
			values[j] = v
		}
		weight, err := strconv.ParseUint(tupleFields[arity], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("wcspformat: exception tuple weight: %w", err)
		}
		c.AddTuple(values, weight)
	}

	return c, nil
}

// Write serializes p back into the WCSP text format. Every constraint in p
// must be a *ijgp.WCSPConstraint; other constraint types cannot round-trip
// through this format and cause an error.
func Write(w io.Writer, p *ijgp.Problem, hardWeight uint64) error {
	variables := p.Variables()
	domainSizes := make([]string, len(variables))
	for i, v := range variables {
		domainSizes[i] = strconv.Itoa(v.Domain().Max() - v.Domain().Min() + 1)
	}

	constraints := p.Constraints()
	if _, err := fmt.Fprintf(w, "wcsp %d %d %d %d\n", len(variables), maxInt(domainSizes), len(constraints), hardWeight); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, strings.Join(domainSizes, " ")); err != nil {
		return err
	}

	for _, c := range constraints {
		wc, ok := c.(*ijgp.WCSPConstraint)
		if !ok {
			return fmt.Errorf("wcspformat: constraint %s is not a WCSPConstraint and cannot be written", c)
		}
		if err := writeConstraint(w, wc); err != nil {
			return err
		}
	}
	return nil
}

func writeConstraint(w io.Writer, c *ijgp.WCSPConstraint) error {
	scope := c.Scope()
	parts := make([]string, 0, len(scope)+2)
	parts = append(parts, strconv.Itoa(len(scope)))
	for _, v := range scope {
		parts = append(parts, strconv.Itoa(int(v)))
	}
	tuples := c.Tuples()
	parts = append(parts, strconv.FormatUint(c.DefaultWeight(), 10), strconv.Itoa(len(tuples)))
	if _, err := fmt.Fprintln(w, strings.Join(parts, " ")); err != nil {
		return err
	}
	for _, t := range tuples {
		fields := make([]string, 0, len(t.Values)+1)
		for _, v := range t.Values {
			fields = append(fields, strconv.Itoa(v))
		}
		fields = append(fields, strconv.FormatUint(t.Weight, 10))
		if _, err := fmt.Fprintln(w, strings.Join(fields, " ")); err != nil {
			return err
		}
	}
	return nil
}

func maxInt(domainSizes []string) int {
	max := 0
	for _, s := range domainSizes {
		n, _ := strconv.Atoi(s)
		if n > max {
			max = n
		}
	}
	return max
}
