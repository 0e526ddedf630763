package stats

import (
	"math"
	"testing"
	"time"

	"github.com/yourusername/tdv-tracker/internal/models"
)

func km(v float64) *float64 { return &v }

func sampleData() *models.SortiesData {
	return &models.SortiesData{
		TargetKm: 250,
		TdvDate:  "2026-06-01",
		Sorties: []models.Sortie{
			{ID: 1, Date: "2026-01-16", Creneau: "13h00-16h30", Km: km(50)},
			{ID: 2, Date: "2026-01-23", Creneau: "13h00-16h30"},
			{ID: 3, Date: "2026-01-30", Creneau: "13h00-16h30", Km: km(30)},
		},
	}
}

func TestTotals(t *testing.T) {
	d := sampleData()

	if got := TotalKm(d); got != 80 {
		t.Fatalf("expected total 80, got %v", got)
	}
	if got := RemainingKm(d); got != 170 {
		t.Fatalf("expected remaining 170, got %v", got)
	}
	if got := ProgressPercent(d); got != 32.0 {
		t.Fatalf("expected progress 32.0, got %v", got)
	}
}

func TestRemainingKmCanGoNegative(t *testing.T) {
	d := &models.SortiesData{
		TargetKm: 100,
		Sorties:  []models.Sortie{{ID: 1, Date: "2026-01-16", Km: km(120)}},
	}
	if got := RemainingKm(d); got != -20 {
		t.Fatalf("overshoot must not be clamped, got %v", got)
	}
}

func TestProgressPercentZeroTarget(t *testing.T) {
	d := &models.SortiesData{TargetKm: 0}
	if got := ProgressPercent(d); !math.IsNaN(got) {
		t.Fatalf("expected NaN for zero target, got %v", got)
	}
}

func TestAverageKm(t *testing.T) {
	d := sampleData()
	if got := AverageKm(d); got != 40 {
		t.Fatalf("expected average 40, got %v", got)
	}

	empty := &models.SortiesData{TargetKm: 250, Sorties: []models.Sortie{{ID: 1, Date: "2026-01-16"}}}
	if got := AverageKm(empty); got != 0 {
		t.Fatalf("expected average 0 with no completed sorties, got %v", got)
	}
}

func TestRemainingPerSortie(t *testing.T) {
	d := sampleData()
	if got := RemainingPerSortie(d); got != 170 {
		t.Fatalf("expected 170 over the single open sortie, got %v", got)
	}

	done := &models.SortiesData{
		TargetKm: 100,
		Sorties:  []models.Sortie{{ID: 1, Date: "2026-01-16", Km: km(60)}},
	}
	if got := RemainingPerSortie(done); got != 0 {
		t.Fatalf("expected 0 when no sortie is open, got %v", got)
	}
}

func TestDaysUntil(t *testing.T) {
	today := time.Date(2026, 5, 29, 15, 30, 0, 0, time.UTC)

	days, err := DaysUntil("2026-06-01", today)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if days != 3 {
		t.Fatalf("expected 3 days, got %d", days)
	}

	days, err = DaysUntil("2026-05-27", today)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if days != -2 {
		t.Fatalf("expected -2 days for a past date, got %d", days)
	}

	if _, err := DaysUntil("not-a-date", today); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestNextSortieIndex(t *testing.T) {
	d := sampleData()
	today := time.Date(2026, 1, 20, 10, 0, 0, 0, time.UTC)

	idx, ok := NextSortieIndex(d, today)
	if !ok || idx != 1 {
		t.Fatalf("expected index 1, got %d (ok=%v)", idx, ok)
	}

	// A sortie happening today still counts as upcoming.
	idx, ok = NextSortieIndex(d, time.Date(2026, 1, 23, 23, 59, 0, 0, time.UTC))
	if !ok || idx != 1 {
		t.Fatalf("expected same-day sortie to be next, got %d (ok=%v)", idx, ok)
	}

	// Past open sorties are skipped; none remain.
	_, ok = NextSortieIndex(d, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC))
	if ok {
		t.Fatalf("expected no upcoming sortie")
	}
}

func TestKmBeforeSortie(t *testing.T) {
	d := sampleData()

	// Only strictly earlier indexes count, regardless of later values.
	if got := KmBeforeSortie(d, 2); got != 200 {
		t.Fatalf("expected 200 before index 2, got %v", got)
	}
	if got := KmBeforeSortie(d, 0); got != 250 {
		t.Fatalf("expected full target before index 0, got %v", got)
	}
}

func TestKmAfterSortie(t *testing.T) {
	d := sampleData()

	after, ok := KmAfterSortie(d, 2)
	if !ok || after != 170 {
		t.Fatalf("expected 170 after index 2, got %v (ok=%v)", after, ok)
	}

	if _, ok := KmAfterSortie(d, 1); ok {
		t.Fatalf("expected not-applicable for a sortie without km")
	}
	if _, ok := KmAfterSortie(d, 99); ok {
		t.Fatalf("expected not-applicable for an out-of-range index")
	}
}

func TestCheckEntry(t *testing.T) {
	// kmBefore=200, entered=50, correct answer 150.
	if !CheckEntry(200, 50, 150.005) {
		t.Fatalf("expected 150.005 to be accepted within tolerance")
	}
	if CheckEntry(200, 50, 150.02) {
		t.Fatalf("expected 150.02 to be rejected")
	}
}

func TestSummarize(t *testing.T) {
	d := sampleData()
	today := time.Date(2026, 1, 20, 8, 0, 0, 0, time.UTC)

	s := Summarize(d, today)
	if s.TotalKm != 80 || s.RemainingKm != 170 || s.ProgressPercent != 32.0 {
		t.Fatalf("unexpected totals: %+v", s)
	}
	if s.CompletedCount != 2 || s.SortieCount != 3 {
		t.Fatalf("unexpected counts: %+v", s)
	}
	if s.NextSortieID == nil || *s.NextSortieID != 2 {
		t.Fatalf("expected next sortie id 2, got %v", s.NextSortieID)
	}
	if !s.Sorties[1].Next {
		t.Fatalf("expected sortie index 1 flagged next")
	}
	if s.Sorties[1].RemainingAfter != nil {
		t.Fatalf("open sortie must have nil remaining_after")
	}
	if s.Sorties[2].RemainingAfter == nil || *s.Sorties[2].RemainingAfter != 170 {
		t.Fatalf("expected remaining_after 170 on index 2, got %v", s.Sorties[2].RemainingAfter)
	}

	// Zero target must serialize as zero progress, not NaN.
	zero := &models.SortiesData{TdvDate: "2026-06-01"}
	if got := Summarize(zero, today).ProgressPercent; got != 0 {
		t.Fatalf("expected 0 progress for zero target, got %v", got)
	}
}
