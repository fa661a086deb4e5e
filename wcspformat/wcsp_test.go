package wcspformat

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ludekcigler/ijgpsampler/pkg/ijgp"
)

const sampleWCSP = `wcsp 2 3 1 1000
3 3
2 0 1 5 1
0 0 1000
`

func TestParseHeaderAndDomains(t *testing.T) {
	p, header, err := Parse(strings.NewReader(sampleWCSP), ijgp.DefaultCosts())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if header.NumVariables != 2 || header.MaxDomainSize != 3 || header.NumConstraints != 1 || header.HardConstraintWeight != 1000 {
		t.Fatalf("unexpected header: %+v", header)
	}
	if len(p.Variables()) != 2 {
		t.Fatalf("expected 2 variables, got %d", len(p.Variables()))
	}
	for _, v := range p.Variables() {
		if v.Domain().Count() != 3 {
			t.Errorf("variable %s domain size = %d, want 3", v.Name(), v.Domain().Count())
		}
	}
	if len(p.Constraints()) != 1 {
		t.Fatalf("expected 1 constraint, got %d", len(p.Constraints()))
	}
}

func TestParseExceptionTupleIsHard(t *testing.T) {
	p, _, err := Parse(strings.NewReader(sampleWCSP), ijgp.DefaultCosts())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := p.Eval(ijgp.Assignment{0: 0, 1: 0}); got != 0 {
		t.Errorf("Eval at the disallowed tuple = %v, want 0", got)
	}
	if got := p.Eval(ijgp.Assignment{0: 1, 1: 1}); got <= 0 {
		t.Errorf("Eval at a default-weighted tuple = %v, want > 0", got)
	}
}

func TestParseMissingHeader(t *testing.T) {
	if _, _, err := Parse(strings.NewReader(""), ijgp.DefaultCosts()); err == nil {
		t.Fatal("expected error for an empty input")
	}
}

func TestParseMissingDomainLine(t *testing.T) {
	if _, _, err := Parse(strings.NewReader("wcsp 2 3 1 1000\n"), ijgp.DefaultCosts()); err == nil {
		t.Fatal("expected error for a missing domain-size line")
	}
}

func TestParseDomainCountMismatch(t *testing.T) {
	bad := "wcsp 2 3 0 1000\n3 3 3\n"
	if _, _, err := Parse(strings.NewReader(bad), ijgp.DefaultCosts()); err == nil {
		t.Fatal("expected error when the domain line has more entries than the header declares")
	}
}

func TestParseTruncatedExceptionTuples(t *testing.T) {
	bad := "wcsp 2 3 1 1000\n3 3\n2 0 1 5 2\n0 0 1000\n"
	if _, _, err := Parse(strings.NewReader(bad), ijgp.DefaultCosts()); err == nil {
		t.Fatal("expected error: constraint declares 2 exception tuples but only 1 is present")
	}
}

func TestWriteRoundTrip(t *testing.T) {
	p, _, err := Parse(strings.NewReader(sampleWCSP), ijgp.DefaultCosts())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	var buf bytes.Buffer
	if err := Write(&buf, p, 1000); err != nil {
		t.Fatalf("Write: %v", err)
	}

	p2, header2, err := Parse(&buf, ijgp.DefaultCosts())
	if err != nil {
		t.Fatalf("re-Parse of written output: %v", err)
	}
	if header2.NumVariables != 2 || header2.HardConstraintWeight != 1000 {
		t.Fatalf("round-tripped header mismatch: %+v", header2)
	}
	if len(p2.Variables()) != len(p.Variables()) {
		t.Errorf("round-tripped variable count = %d, want %d", len(p2.Variables()), len(p.Variables()))
	}
	if len(p2.Constraints()) != len(p.Constraints()) {
		t.Errorf("round-tripped constraint count = %d, want %d", len(p2.Constraints()), len(p.Constraints()))
	}
	if got := p2.Eval(ijgp.Assignment{0: 0, 1: 0}); got != 0 {
		t.Errorf("round-tripped Eval at the disallowed tuple = %v, want 0", got)
	}
}

func TestWriteRejectsNonWCSPConstraint(t *testing.T) {
	variables := []*ijgp.Variable{ijgp.NewVariable(1, ijgp.NewRange(0, 2))}
	c := ijgp.NewEqualToConstantConstraint(1, 1, 0, ijgp.DefaultCosts())
	p, err := ijgp.NewProblem(variables, []ijgp.Constraint{c}, ijgp.DefaultCosts())
	if err != nil {
		t.Fatalf("NewProblem: %v", err)
	}

	var buf bytes.Buffer
	if err := Write(&buf, p, 1000); err == nil {
		t.Fatal("expected Write to reject a non-WCSPConstraint constraint")
	}
}
