package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ImportStatus tracks a CSV import through upload, map and commit.
type ImportStatus string

const (
	ImportUploaded   ImportStatus = "uploaded"
	ImportMapped     ImportStatus = "mapped"
	ImportCommitting ImportStatus = "committing" // claimed by one commit; rows may be partially written
	ImportCommitted  ImportStatus = "committed"
)

// ColumnMapping maps logical workout fields to CSV header names.
// Notes is optional; every other field must be set before preview or commit.
type ColumnMapping struct {
	Date      string `bson:"date" json:"date"`
	Sport     string `bson:"sport" json:"sport"`
	DistanceM string `bson:"distance_m" json:"distance_m"`
	DurationS string `bson:"duration_s" json:"duration_s"`
	RPE       string `bson:"rpe" json:"rpe"`
	Notes     string `bson:"notes,omitempty" json:"notes,omitempty"`
}

// ImportJob stores the parsed state of an uploaded CSV between requests.
// The raw file lives in object storage under S3ObjectKey.
type ImportJob struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID        primitive.ObjectID `bson:"userId" json:"user_id"`
	FileName      string             `bson:"fileName" json:"file_name"`
	S3ObjectKey   string             `bson:"s3ObjectKey" json:"-"`
	Size          int64              `bson:"size" json:"size"`
	Headers       []string           `bson:"headers" json:"headers"`
	Rows          [][]string         `bson:"rows" json:"-"`
	Mapping       *ColumnMapping     `bson:"mapping,omitempty" json:"mapping,omitempty"`
	Status        ImportStatus       `bson:"status" json:"status"`
	ImportedCount int                `bson:"importedCount" json:"imported_count"`
	CreatedAt     time.Time          `bson:"createdAt" json:"created_at"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updated_at"`
}
