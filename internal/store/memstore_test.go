package store

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMemStore_SatisfiesStore(t *testing.T) {
	var _ Store = NewMemStore()
	var _ Store = (*SqlStore)(nil)
}

func TestMemStore_RoundTrip(t *testing.T) {
	s := NewMemStore()
	id1, _ := s.SaveRun(&Run{Source: "a.xml"}, sampleRecords)
	id2, _ := s.SaveRun(&Run{Source: "b.xml"}, nil)
	if id1 != 1 || id2 != 2 {
		t.Fatalf("ids = %d, %d; want 1, 2", id1, id2)
	}

	got, _ := s.GetRun(id1)
	if got == nil || got.RecordCount != 3 {
		t.Fatalf("GetRun = %+v", got)
	}
	if missing, _ := s.GetRun(99); missing != nil {
		t.Errorf("GetRun(99) = %+v, want nil", missing)
	}

	recs, _ := s.Records(id1)
	if diff := cmp.Diff(sampleRecords, recs); diff != "" {
		t.Errorf("Records (-want +got):\n%s", diff)
	}

	runs, _ := s.ListRuns(1)
	if len(runs) != 1 || runs[0].Source != "b.xml" {
		t.Errorf("ListRuns(1) = %+v, want newest b.xml", runs)
	}
}
