// Package models defines the persisted data shapes for the TDV tracker.
package models

import (
	"sort"
	"time"
)

// DateLayout is the calendar date format used everywhere in the persisted data.
const DateLayout = "2006-01-02"

// Sortie represents one scheduled training outing. Km is nil until the
// outing has been ridden and its distance recorded.
type Sortie struct {
	ID      int      `json:"id" db:"id"`
	Date    string   `json:"date" db:"date" validate:"required,datetime=2006-01-02"`
	Creneau string   `json:"creneau" db:"creneau" validate:"required"`
	Km      *float64 `json:"km" db:"km"`
}

// DateValue parses the sortie date in the given location, normalized to midnight.
func (s Sortie) DateValue(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s.Date, loc)
}

// SortiesData is the full singleton record: the cumulative target, the event
// date, roster metadata and every scheduled sortie.
type SortiesData struct {
	TargetKm  float64  `json:"target_km"`
	TdvDate   string   `json:"tdv_date"`
	ClassName string   `json:"class_name"`
	Teacher   string   `json:"teacher"`
	Sorties   []Sortie `json:"sorties"`
}

// Clone returns a deep copy. Callers hand copies across goroutine boundaries
// (websocket broadcast, webhook notification) so the stored record is never
// shared mutable state.
func (d *SortiesData) Clone() *SortiesData {
	out := *d
	out.Sorties = make([]Sortie, len(d.Sorties))
	for i, s := range d.Sorties {
		out.Sorties[i] = s
		if s.Km != nil {
			km := *s.Km
			out.Sorties[i].Km = &km
		}
	}
	return &out
}

// MaxID returns the highest sortie id in the record, or 0 when empty.
func (d *SortiesData) MaxID() int {
	max := 0
	for _, s := range d.Sorties {
		if s.ID > max {
			max = s.ID
		}
	}
	return max
}

// SortByDate re-sorts the sorties ascending by date. The sort is stable so
// sorties sharing a date keep their existing relative order. ISO dates
// compare correctly as strings.
func (d *SortiesData) SortByDate() {
	sort.SliceStable(d.Sorties, func(i, j int) bool {
		return d.Sorties[i].Date < d.Sorties[j].Date
	})
}
