package ijgp

import "testing"

func TestScopeContains(t *testing.T) {
	scope := []VarID{1, 2, 3}
	if !scopeContains(scope, 2) {
		t.Error("expected 2 to be in scope")
	}
	if scopeContains(scope, 5) {
		t.Error("did not expect 5 to be in scope")
	}
}

func TestScopeSubsetOf(t *testing.T) {
	if !scopeSubsetOf([]VarID{1, 2}, []VarID{1, 2, 3}) {
		t.Error("expected {1,2} to be a subset of {1,2,3}")
	}
	if scopeSubsetOf([]VarID{1, 4}, []VarID{1, 2, 3}) {
		t.Error("did not expect {1,4} to be a subset of {1,2,3}")
	}
}

func TestOtherScopeVars(t *testing.T) {
	got := otherScopeVars([]VarID{1, 2, 3}, 2)
	want := []VarID{1, 3}
	if len(got) != len(want) {
		t.Fatalf("otherScopeVars = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("otherScopeVars[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}
