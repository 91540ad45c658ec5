package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DateLayout is the calendar-date format workouts are stored and queried with.
const DateLayout = "2006-01-02"

// Workout is a standalone logged training session, independent of any Plan.
type Workout struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID  `bson:"userId" json:"user_id"`
	Date      string              `bson:"date" json:"date"` // YYYY-MM-DD, sortable as a string
	Sport     Sport               `bson:"sport" json:"sport"`
	DistanceM int                 `bson:"distance_m" json:"distance_m"`
	DurationS int                 `bson:"duration_s" json:"duration_s"`
	RPE       int                 `bson:"rpe" json:"rpe"` // 1-10 perceived exertion
	Notes     string              `bson:"notes,omitempty" json:"notes,omitempty"`
	ImportID  *primitive.ObjectID `bson:"importId,omitempty" json:"import_id,omitempty"` // set on rows written by a CSV commit
	CreatedAt time.Time           `bson:"createdAt" json:"created_at"`
	UpdatedAt time.Time           `bson:"updatedAt" json:"updated_at"`
}

// WeekStartOf returns the Monday on or before t as YYYY-MM-DD.
func WeekStartOf(t time.Time) string {
	offset := (int(t.Weekday()) + 6) % 7
	return t.AddDate(0, 0, -offset).Format(DateLayout)
}

// SportTotals aggregates one discipline inside a WeeklySummary.
type SportTotals struct {
	DistanceM int `json:"distance_m"`
	DurationS int `json:"duration_s"`
	Count     int `json:"count"`
}

// WeeklySummary totals an athlete's workouts over seven days starting at WeekStart.
type WeeklySummary struct {
	WeekStart    string                `json:"week_start"`
	TotalDistM   int                   `json:"total_distance_m"`
	TotalDurS    int                   `json:"total_duration_s"`
	WorkoutCount int                   `json:"workout_count"`
	Sports       map[Sport]SportTotals `json:"sports"`
}
