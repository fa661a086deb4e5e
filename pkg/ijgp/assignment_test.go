package ijgp

import "testing"

func TestAssignmentBindUnbind(t *testing.T) {
	a := Assignment{}
	b := a.Bind(1, 5)

	if a.Has(1) {
		t.Error("Bind must not mutate the receiver")
	}
	if v, ok := b.Lookup(1); !ok || v != 5 {
		t.Errorf("Lookup(1) = (%d, %v), want (5, true)", v, ok)
	}

	c := b.Unbind(1)
	if c.Has(1) {
		t.Error("expected 1 to be unbound")
	}
	if !b.Has(1) {
		t.Error("Unbind must not mutate the receiver")
	}
}

func TestAssignmentCloneIndependence(t *testing.T) {
	a := Assignment{1: 10}
	clone := a.Clone()
	clone[1] = 20

	if a[1] != 10 {
		t.Errorf("mutating a clone must not affect the original, got a[1]=%d", a[1])
	}
}

func TestAssignmentString(t *testing.T) {
	a := Assignment{2: 20, 1: 10}
	if got, want := a.String(), "1: 10, 2: 20"; got != want {
		t.Errorf("String() = %q, want %q (ids should sort ascending)", got, want)
	}
}
