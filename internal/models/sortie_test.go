package models

import "testing"

func TestMaxID(t *testing.T) {
	d := &SortiesData{Sorties: []Sortie{{ID: 3}, {ID: 15}, {ID: 7}}}
	if got := d.MaxID(); got != 15 {
		t.Fatalf("expected max id 15, got %d", got)
	}

	empty := &SortiesData{}
	if got := empty.MaxID(); got != 0 {
		t.Fatalf("expected max id 0 for empty record, got %d", got)
	}
}

func TestSortByDateIsStable(t *testing.T) {
	d := &SortiesData{Sorties: []Sortie{
		{ID: 1, Date: "2026-03-01"},
		{ID: 2, Date: "2026-01-10"},
		{ID: 3, Date: "2026-01-10"},
	}}
	d.SortByDate()

	want := []int{2, 3, 1}
	for i, id := range want {
		if d.Sorties[i].ID != id {
			t.Fatalf("position %d: expected id %d, got %d", i, id, d.Sorties[i].ID)
		}
	}
}

func TestCloneIsDeep(t *testing.T) {
	km := 42.0
	d := &SortiesData{TargetKm: 250, Sorties: []Sortie{{ID: 1, Km: &km}}}
	c := d.Clone()

	*c.Sorties[0].Km = 99
	c.Sorties[0].ID = 2

	if *d.Sorties[0].Km != 42 {
		t.Fatalf("clone shares km pointer with original")
	}
	if d.Sorties[0].ID != 1 {
		t.Fatalf("clone shares sortie slice with original")
	}
}

func TestDefaultDataSeed(t *testing.T) {
	d := DefaultData()
	if d.TargetKm != 250 {
		t.Fatalf("expected target 250, got %v", d.TargetKm)
	}
	if len(d.Sorties) != 15 {
		t.Fatalf("expected 15 seeded sorties, got %d", len(d.Sorties))
	}
	for _, s := range d.Sorties {
		if s.Km != nil {
			t.Fatalf("seed sortie %d should have no recorded km", s.ID)
		}
	}
	if d.MaxID() != 15 {
		t.Fatalf("expected seed max id 15, got %d", d.MaxID())
	}
}
