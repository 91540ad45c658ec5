package csvimport

import (
	"fmt"
	"strings"

	"alcyxob/triplan/internal/domain"
	"alcyxob/triplan/internal/units"
)

// DefaultRPE is used when a row's RPE cell is empty, not a number or
// outside 1..MaxRPE.
const DefaultRPE = 5

// MaxRPE is the top of the perceived-exertion scale.
const MaxRPE = 10

// MappingIncomplete blocks preview and commit until every required field
// points at a column that exists in the upload.
type MappingIncomplete struct {
	Missing []string
}

func (e *MappingIncomplete) Error() string {
	return fmt.Sprintf("mapping incomplete: map %s", strings.Join(e.Missing, ", "))
}

// CheckMapping verifies the five required fields are mapped to known headers.
// A notes mapping is optional but, when set, must also name a known header.
func (u *Upload) CheckMapping(m domain.ColumnMapping) error {
	required := []struct {
		field, column string
	}{
		{"date", m.Date},
		{"sport", m.Sport},
		{"distance_m", m.DistanceM},
		{"duration_s", m.DurationS},
		{"rpe", m.RPE},
	}
	var missing []string
	for _, r := range required {
		if u.ColumnIndex(r.column) < 0 {
			missing = append(missing, r.field)
		}
	}
	if m.Notes != "" && u.ColumnIndex(m.Notes) < 0 {
		missing = append(missing, "notes")
	}
	if len(missing) > 0 {
		return &MappingIncomplete{Missing: missing}
	}
	return nil
}

// Preview transforms the first PreviewRows data rows for inspection.
func (u *Upload) Preview(m domain.ColumnMapping) ([]domain.Workout, error) {
	if err := u.CheckMapping(m); err != nil {
		return nil, err
	}
	rows := u.Rows
	if len(rows) > PreviewRows {
		rows = rows[:PreviewRows]
	}
	return transformRows(u, rows, m), nil
}

// Transform converts every data row. Rows are never rejected here; bad
// cells fall back to defaults and Keep decides what is imported.
func (u *Upload) Transform(m domain.ColumnMapping) ([]domain.Workout, error) {
	if err := u.CheckMapping(m); err != nil {
		return nil, err
	}
	return transformRows(u, u.Rows, m), nil
}

// Committable returns the transformed rows that pass Keep, in file order.
func (u *Upload) Committable(m domain.ColumnMapping) ([]domain.Workout, error) {
	all, err := u.Transform(m)
	if err != nil {
		return nil, err
	}
	return Filter(all), nil
}

type columns struct {
	date, sport, distance, duration, rpe, notes int
}

func transformRows(u *Upload, rows [][]string, m domain.ColumnMapping) []domain.Workout {
	cols := columns{
		date:     u.ColumnIndex(m.Date),
		sport:    u.ColumnIndex(m.Sport),
		distance: u.ColumnIndex(m.DistanceM),
		duration: u.ColumnIndex(m.DurationS),
		rpe:      u.ColumnIndex(m.RPE),
		notes:    u.ColumnIndex(m.Notes),
	}
	out := make([]domain.Workout, 0, len(rows))
	for _, row := range rows {
		out = append(out, transformRow(row, cols))
	}
	return out
}

func transformRow(row []string, cols columns) domain.Workout {
	sport := strings.ToLower(cell(row, cols.sport))
	if sport == "" {
		sport = string(domain.SportRun)
	}
	return domain.Workout{
		Date:      cell(row, cols.date),
		Sport:     domain.Sport(sport),
		DistanceM: units.ParseInt(cell(row, cols.distance), 0),
		DurationS: units.ParseDuration(cell(row, cols.duration)),
		RPE:       rpeOf(cell(row, cols.rpe)),
		Notes:     cell(row, cols.notes),
	}
}

// cell returns row[idx], or "" when the row is short or idx is -1.
func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// rpeOf never returns a value below 1: ParseInt maps zero and signed text to
// the fallback.
func rpeOf(text string) int {
	rpe := units.ParseInt(text, DefaultRPE)
	if rpe > MaxRPE {
		return DefaultRPE
	}
	return rpe
}

// Keep reports whether a transformed row is complete enough to import:
// a date, a known sport, and positive distance and duration.
func Keep(w domain.Workout) bool {
	return w.Date != "" && w.Sport.Valid() && w.DistanceM > 0 && w.DurationS > 0
}

// Filter drops rows that fail Keep without reporting them.
func Filter(workouts []domain.Workout) []domain.Workout {
	kept := make([]domain.Workout, 0, len(workouts))
	for _, w := range workouts {
		if Keep(w) {
			kept = append(kept, w)
		}
	}
	return kept
}
