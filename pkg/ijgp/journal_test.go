package ijgp

import "testing"

func TestJournalRecordAndRemovedFor(t *testing.T) {
	j := NewJournal()
	if !j.IsEmpty() {
		t.Fatal("new journal should be empty")
	}

	j.Record(1, 5)
	j.Record(1, 7)
	j.Record(2, 9)

	if j.IsEmpty() {
		t.Error("journal with recordings should not be empty")
	}
	got := j.RemovedFor(1)
	want := []int{5, 7}
	if len(got) != len(want) {
		t.Fatalf("RemovedFor(1) = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("RemovedFor(1)[%d] = %d, want %d", i, got[i], want[i])
		}
	}
	if len(j.RemovedFor(3)) != 0 {
		t.Error("RemovedFor on an untouched id should be empty")
	}
}

func TestJournalMerge(t *testing.T) {
	a := NewJournal()
	a.Record(1, 1)
	b := NewJournal()
	b.Record(1, 2)
	b.Record(2, 3)

	a.Merge(b)

	got := a.RemovedFor(1)
	want := []int{1, 2}
	if len(got) != len(want) {
		t.Fatalf("RemovedFor(1) after merge = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("RemovedFor(1)[%d] = %d, want %d", i, got[i], want[i])
		}
	}
	if len(a.RemovedFor(2)) != 1 {
		t.Error("expected merged entry for id 2")
	}
}

func TestJournalMergeNil(t *testing.T) {
	a := NewJournal()
	a.Record(1, 1)
	a.Merge(nil)
	if len(a.RemovedFor(1)) != 1 {
		t.Error("merging nil should be a no-op")
	}
}
