// Package schedule holds the structural rules of a training plan: what makes
// a set of weeks well-formed, and how sessions move within a day.
package schedule

import (
	"fmt"

	"alcyxob/triplan/internal/domain"
)

// SchemaViolation reports the first structural problem found in a plan,
// with Path pointing at the offending element, e.g.
// "weeks[2].days[1].sessions[0].sport".
type SchemaViolation struct {
	Path   string
	Reason string
}

func (e *SchemaViolation) Error() string {
	return fmt.Sprintf("schema violation at %s: %s", e.Path, e.Reason)
}

func violation(path, format string, args ...any) *SchemaViolation {
	return &SchemaViolation{Path: path, Reason: fmt.Sprintf(format, args...)}
}

// ValidatePlan checks the weeks of a plan. Weeks must be non-empty, week
// ordinals unique and positive, day ordinals unique and positive within
// their week, and every session well-formed.
func ValidatePlan(weeks []domain.Week) error {
	if len(weeks) == 0 {
		return violation("weeks", "at least one week is required")
	}
	seen := make(map[int]int, len(weeks))
	for i, w := range weeks {
		path := fmt.Sprintf("weeks[%d]", i)
		if w.Week <= 0 {
			return violation(path+".week", "week ordinal must be positive, got %d", w.Week)
		}
		if prev, dup := seen[w.Week]; dup {
			return violation(path+".week", "week %d already used by weeks[%d]", w.Week, prev)
		}
		seen[w.Week] = i
		if err := validateWeek(path, w); err != nil {
			return err
		}
	}
	return nil
}

// ValidateWeek checks a single week in isolation.
func ValidateWeek(w domain.Week) error {
	if w.Week <= 0 {
		return violation("week", "week ordinal must be positive, got %d", w.Week)
	}
	return validateWeek("", w)
}

func validateWeek(prefix string, w domain.Week) error {
	seen := make(map[int]int, len(w.Days))
	for j, d := range w.Days {
		path := join(prefix, fmt.Sprintf("days[%d]", j))
		if d.Day <= 0 {
			return violation(path+".day", "day ordinal must be positive, got %d", d.Day)
		}
		if prev, dup := seen[d.Day]; dup {
			return violation(path+".day", "day %d already used by days[%d]", d.Day, prev)
		}
		seen[d.Day] = j
		if err := validateDay(path, d); err != nil {
			return err
		}
	}
	return nil
}

// ValidateDay checks the sessions of one day.
func ValidateDay(d domain.Day) error {
	if d.Day <= 0 {
		return violation("day", "day ordinal must be positive, got %d", d.Day)
	}
	return validateDay("", d)
}

func validateDay(prefix string, d domain.Day) error {
	for k, s := range d.Sessions {
		if err := validateSession(join(prefix, fmt.Sprintf("sessions[%d]", k)), s); err != nil {
			return err
		}
	}
	return nil
}

// ValidateSession checks sport membership and non-negative units.
// Intensity is free text at this level.
func ValidateSession(s domain.Session) error {
	return validateSession("", s)
}

func validateSession(prefix string, s domain.Session) error {
	if !s.Sport.Valid() {
		return violation(join(prefix, "sport"), "sport must be one of swim, bike, run, got %q", s.Sport)
	}
	if s.DistanceM < 0 {
		return violation(join(prefix, "distance_m"), "distance must not be negative, got %d", s.DistanceM)
	}
	if s.DurationS < 0 {
		return violation(join(prefix, "duration_s"), "duration must not be negative, got %d", s.DurationS)
	}
	return nil
}

func join(prefix, elem string) string {
	if prefix == "" {
		return elem
	}
	return prefix + "." + elem
}
