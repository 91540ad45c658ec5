package mongo

import (
	"alcyxob/triplan/internal/domain"
	"alcyxob/triplan/internal/repository"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const profileCollectionName = "profiles"

// mongoProfileRepository implements repository.ProfileRepository
type mongoProfileRepository struct {
	collection *mongo.Collection
}

// NewMongoProfileRepository creates a new AthleteProfile repository.
func NewMongoProfileRepository(db *mongo.Database) repository.ProfileRepository {
	return &mongoProfileRepository{
		collection: db.Collection(profileCollectionName),
	}
}

// GetByUser returns the profile owned by userID.
func (r *mongoProfileRepository) GetByUser(ctx context.Context, userID primitive.ObjectID) (*domain.AthleteProfile, error) {
	var profile domain.AthleteProfile
	err := r.collection.FindOne(ctx, bson.M{"userId": userID}).Decode(&profile)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// Upsert creates the user's profile or overwrites its fields.
func (r *mongoProfileRepository) Upsert(ctx context.Context, profile *domain.AthleteProfile) (*domain.AthleteProfile, error) {
	if profile.UserID == primitive.NilObjectID {
		return nil, errors.New("profile requires userId")
	}
	now := time.Now().UTC()
	filter := bson.M{"userId": profile.UserID}
	update := bson.M{
		"$set": bson.M{
			"fullName":      profile.FullName,
			"trainingLevel": profile.TrainingLevel,
			"sportFocus":    profile.SportFocus,
			"raceDate":      profile.RaceDate,
			"updatedAt":     now,
		},
		"$setOnInsert": bson.M{
			"createdAt": now,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var stored domain.AthleteProfile
	if err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&stored); err != nil {
		return nil, err
	}
	return &stored, nil
}

// EnsureProfileIndexes creates the one-profile-per-user index.
func EnsureProfileIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(profileCollectionName).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
