// Package stats computes the derived progress metrics shown on the dashboard.
// Every function is a pure computation over a record snapshot; nothing here
// touches storage or carries state between calls.
package stats

import (
	"math"
	"time"

	"github.com/yourusername/tdv-tracker/internal/models"
)

// EntryTolerance is the absolute tolerance used when checking a user-supplied
// subtraction result against the computed answer.
const EntryTolerance = 0.01

// TotalKm sums the recorded distances. Sorties without a recorded km
// contribute nothing.
func TotalKm(d *models.SortiesData) float64 {
	total := 0.0
	for _, s := range d.Sorties {
		if s.Km != nil {
			total += *s.Km
		}
	}
	return total
}

// RemainingKm is the distance still to ride toward the target. It goes
// negative when the class overshoots; clamping is left to the display layer.
func RemainingKm(d *models.SortiesData) float64 {
	return d.TargetKm - TotalKm(d)
}

// ProgressPercent returns completion as a percentage of the target. A zero
// target yields NaN; callers must treat that as "no data" rather than let it
// leak into rendered output.
func ProgressPercent(d *models.SortiesData) float64 {
	if d.TargetKm == 0 {
		return math.NaN()
	}
	return 100 * TotalKm(d) / d.TargetKm
}

// CompletedSorties returns the sorties with a recorded distance, in stored order.
func CompletedSorties(d *models.SortiesData) []models.Sortie {
	var out []models.Sortie
	for _, s := range d.Sorties {
		if s.Km != nil {
			out = append(out, s)
		}
	}
	return out
}

// AverageKm is the mean distance over completed sorties, or 0 when none have
// been ridden yet.
func AverageKm(d *models.SortiesData) float64 {
	n := len(CompletedSorties(d))
	if n == 0 {
		return 0
	}
	return TotalKm(d) / float64(n)
}

// RemainingPerSortie spreads the remaining distance over the sorties still to
// ride, or 0 when every sortie already has a distance.
func RemainingPerSortie(d *models.SortiesData) float64 {
	open := 0
	for _, s := range d.Sorties {
		if s.Km == nil {
			open++
		}
	}
	if open == 0 {
		return 0
	}
	return RemainingKm(d) / float64(open)
}

// DaysUntil returns the number of whole days between today and the given
// date, both normalized to midnight. Negative once the date has passed.
func DaysUntil(date string, today time.Time) (int, error) {
	target, err := time.ParseInLocation(models.DateLayout, date, today.Location())
	if err != nil {
		return 0, err
	}
	diff := target.Sub(midnight(today))
	return int(math.Ceil(diff.Hours() / 24)), nil
}

// NextSortieIndex finds the first sortie, in stored date order, that has no
// recorded distance and is not in the past. At most one sortie is "next";
// date ties fall to the earlier stored position. Returns ok=false when every
// remaining sortie is in the past or completed.
func NextSortieIndex(d *models.SortiesData, today time.Time) (int, bool) {
	cutoff := midnight(today)
	for i, s := range d.Sorties {
		if s.Km != nil {
			continue
		}
		date, err := s.DateValue(today.Location())
		if err != nil {
			continue
		}
		if !date.Before(cutoff) {
			return i, true
		}
	}
	return 0, false
}

// KmBeforeSortie is the distance still to ride as of a given sortie: the
// target minus every recorded distance at a strictly earlier stored index.
// This is a prefix over the stored order, so it changes whenever the list is
// re-sorted, and it is the quantity the entry form asks pupils to subtract from.
func KmBeforeSortie(d *models.SortiesData, index int) float64 {
	remaining := d.TargetKm
	for i := 0; i < index && i < len(d.Sorties); i++ {
		if d.Sorties[i].Km != nil {
			remaining -= *d.Sorties[i].Km
		}
	}
	return remaining
}

// KmAfterSortie is KmBeforeSortie minus the sortie's own distance. ok is
// false when the sortie has no recorded distance yet.
func KmAfterSortie(d *models.SortiesData, index int) (float64, bool) {
	if index < 0 || index >= len(d.Sorties) || d.Sorties[index].Km == nil {
		return 0, false
	}
	return KmBeforeSortie(d, index) - *d.Sorties[index].Km, true
}

// CheckEntry verifies the arithmetic a pupil does before a distance is
// recorded: answer should equal kmBefore - entered, within EntryTolerance.
func CheckEntry(kmBefore, entered, answer float64) bool {
	return math.Abs(answer-(kmBefore-entered)) <= EntryTolerance
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
