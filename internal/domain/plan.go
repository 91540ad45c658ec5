// internal/domain/plan.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Sport is the discipline of a single session or workout.
type Sport string

const (
	SportSwim Sport = "swim"
	SportBike Sport = "bike"
	SportRun  Sport = "run"
)

// Sports lists the closed set of disciplines in display order.
var Sports = []Sport{SportSwim, SportBike, SportRun}

// Valid reports whether s is one of swim, bike or run.
func (s Sport) Valid() bool {
	switch s {
	case SportSwim, SportBike, SportRun:
		return true
	}
	return false
}

// Intensity describes how hard a session is meant to be.
type Intensity string

const (
	IntensityEasy     Intensity = "easy"
	IntensityModerate Intensity = "moderate"
	IntensityHard     Intensity = "hard"
	IntensityInterval Intensity = "interval"
	IntensityRecovery Intensity = "recovery"
)

// Intensities lists the vocabulary the editor works with.
var Intensities = []Intensity{IntensityEasy, IntensityModerate, IntensityHard, IntensityInterval, IntensityRecovery}

func (i Intensity) Valid() bool {
	for _, known := range Intensities {
		if i == known {
			return true
		}
	}
	return false
}

// Session is one atomic training unit inside a Day.
type Session struct {
	Sport     Sport     `bson:"sport" json:"sport"`
	DistanceM int       `bson:"distance_m" json:"distance_m"` // meters
	DurationS int       `bson:"duration_s" json:"duration_s"` // seconds
	Intensity Intensity `bson:"intensity" json:"intensity"`
	Notes     string    `bson:"notes,omitempty" json:"notes"`
}

// Incomplete is true when the session carries neither a distance nor a duration.
func (s Session) Incomplete() bool {
	return s.DistanceM == 0 && s.DurationS == 0
}

// Day holds the ordered sessions of one day. No sessions means a rest day.
type Day struct {
	Day      int       `bson:"day" json:"day"` // 1-based within the week
	Sessions []Session `bson:"sessions" json:"sessions"`
}

// IsRest reports whether the day has no sessions.
func (d Day) IsRest() bool { return len(d.Sessions) == 0 }

// Week is a 1-based block of (normally seven) days.
type Week struct {
	Week int   `bson:"week" json:"week"`
	Days []Day `bson:"days" json:"days"`
}

// SessionCount totals the sessions across all days of the week.
func (w Week) SessionCount() int {
	n := 0
	for _, d := range w.Days {
		n += len(d.Sessions)
	}
	return n
}

// Plan is a generated multi-week schedule owned by a single athlete.
// Weeks are embedded; the whole slice is replaced on every update.
type Plan struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"userId" json:"user_id"`
	Title     string             `bson:"title" json:"title"`
	Distance  string             `bson:"distance" json:"distance"` // race distance label, e.g. "Olympic"
	Weeks     []Week             `bson:"weeks" json:"weeks"`
	CreatedAt time.Time          `bson:"createdAt" json:"created_at"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updated_at"`
}

// Clone returns a deep copy of the plan so callers can mutate it freely.
func (p Plan) Clone() Plan {
	out := p
	out.Weeks = CloneWeeks(p.Weeks)
	return out
}

// CloneWeeks deep-copies weeks, days and session slices.
func CloneWeeks(weeks []Week) []Week {
	if weeks == nil {
		return nil
	}
	out := make([]Week, len(weeks))
	for i, w := range weeks {
		out[i] = Week{Week: w.Week}
		if w.Days != nil {
			out[i].Days = make([]Day, len(w.Days))
			for j, d := range w.Days {
				out[i].Days[j] = Day{Day: d.Day}
				if d.Sessions != nil {
					out[i].Days[j].Sessions = append([]Session(nil), d.Sessions...)
				}
			}
		}
	}
	return out
}
