package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AthleteProfile is the onboarding record of a User. Plan generation falls
// back to it when a request carries no profile.
type AthleteProfile struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID        primitive.ObjectID `bson:"userId" json:"user_id"` // unique
	FullName      string             `bson:"fullName" json:"full_name"`
	TrainingLevel string             `bson:"trainingLevel" json:"training_level"`
	SportFocus    string             `bson:"sportFocus" json:"sport_focus"`
	RaceDate      string             `bson:"raceDate" json:"race_date"` // YYYY-MM-DD
	CreatedAt     time.Time          `bson:"createdAt" json:"created_at"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updated_at"`
}
