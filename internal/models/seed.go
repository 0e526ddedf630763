package models

// DefaultData returns the fixed seed record used when a storage backend has
// nothing persisted yet or cannot be read. The dashboard must always have
// something to render, so reads fall back to this rather than failing.
func DefaultData() *SortiesData {
	return &SortiesData{
		TargetKm:  250,
		TdvDate:   "2026-06-01",
		ClassName: "CM1/CM2",
		Teacher:   "Sabrina",
		Sorties: []Sortie{
			{ID: 1, Date: "2026-01-16", Creneau: "13h00-16h30"},
			{ID: 2, Date: "2026-01-23", Creneau: "13h00-16h30"},
			{ID: 3, Date: "2026-01-30", Creneau: "13h00-16h30"},
			{ID: 4, Date: "2026-02-06", Creneau: "13h00-16h30"},
			{ID: 5, Date: "2026-02-27", Creneau: "8h20-16h30"},
			{ID: 6, Date: "2026-03-06", Creneau: "8h20-16h30"},
			{ID: 7, Date: "2026-03-13", Creneau: "8h20-16h30"},
			{ID: 8, Date: "2026-03-20", Creneau: "8h20-16h30"},
			{ID: 9, Date: "2026-03-27", Creneau: "8h20-16h30"},
			{ID: 10, Date: "2026-04-03", Creneau: "8h20-16h30"},
			{ID: 11, Date: "2026-04-23", Creneau: "13h00-16h30"},
			{ID: 12, Date: "2026-04-24", Creneau: "8h20-16h30"},
			{ID: 13, Date: "2026-05-21", Creneau: "13h00-16h30"},
			{ID: 14, Date: "2026-05-22", Creneau: "8h20-16h30"},
			{ID: 15, Date: "2026-05-29", Creneau: "8h20-16h30"},
		},
	}
}
