package stats

import (
	"math"
	"time"

	"github.com/yourusername/tdv-tracker/internal/models"
)

// SortieStatus is one row of the dashboard table: the sortie plus the
// distance left after it (nil until ridden) and whether it is the next one up.
type SortieStatus struct {
	models.Sortie
	RemainingAfter *float64 `json:"remaining_after"`
	Next           bool     `json:"next"`
}

// Summary is the full set of dashboard metrics derived from one record snapshot.
type Summary struct {
	TargetKm           float64        `json:"target_km"`
	TotalKm            float64        `json:"total_km"`
	RemainingKm        float64        `json:"remaining_km"`
	ProgressPercent    float64        `json:"progress_percent"`
	AverageKm          float64        `json:"average_km"`
	RemainingPerSortie float64        `json:"remaining_per_sortie"`
	CompletedCount     int            `json:"completed_count"`
	SortieCount        int            `json:"sortie_count"`
	DaysUntilEvent     int            `json:"days_until_event"`
	NextSortieID       *int           `json:"next_sortie_id"`
	DaysUntilNext      *int           `json:"days_until_next"`
	Sorties            []SortieStatus `json:"sorties"`
}

// Summarize computes every dashboard metric for one record snapshot.
// Undefined quantities (zero target, no completed sorties, unparseable event
// date) come back as zero so the payload always serializes and always renders.
func Summarize(d *models.SortiesData, today time.Time) Summary {
	s := Summary{
		TargetKm:           d.TargetKm,
		TotalKm:            TotalKm(d),
		RemainingKm:        RemainingKm(d),
		AverageKm:          AverageKm(d),
		RemainingPerSortie: RemainingPerSortie(d),
		CompletedCount:     len(CompletedSorties(d)),
		SortieCount:        len(d.Sorties),
	}

	// NaN is not valid JSON; a zero target renders as zero progress.
	if pct := ProgressPercent(d); !math.IsNaN(pct) {
		s.ProgressPercent = pct
	}

	if days, err := DaysUntil(d.TdvDate, today); err == nil {
		s.DaysUntilEvent = days
	}

	nextIdx, hasNext := NextSortieIndex(d, today)
	if hasNext {
		id := d.Sorties[nextIdx].ID
		s.NextSortieID = &id
		if days, err := DaysUntil(d.Sorties[nextIdx].Date, today); err == nil {
			s.DaysUntilNext = &days
		}
	}

	s.Sorties = make([]SortieStatus, len(d.Sorties))
	for i, sortie := range d.Sorties {
		status := SortieStatus{Sortie: sortie, Next: hasNext && i == nextIdx}
		if after, ok := KmAfterSortie(d, i); ok {
			status.RemainingAfter = &after
		}
		s.Sorties[i] = status
	}

	return s
}
