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

const importCollectionName = "imports"

// importTTL bounds how long an abandoned import job is kept.
const importTTL = 7 * 24 * time.Hour

// mongoImportRepository implements repository.ImportRepository
type mongoImportRepository struct {
	collection *mongo.Collection
}

// NewMongoImportRepository creates a new ImportJob repository backed by MongoDB.
func NewMongoImportRepository(db *mongo.Database) repository.ImportRepository {
	return &mongoImportRepository{
		collection: db.Collection(importCollectionName),
	}
}

// Create inserts a freshly uploaded import job.
func (r *mongoImportRepository) Create(ctx context.Context, job *domain.ImportJob) (primitive.ObjectID, error) {
	if job.UserID == primitive.NilObjectID || job.S3ObjectKey == "" {
		return primitive.NilObjectID, errors.New("import requires userId and s3ObjectKey")
	}

	job.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	job.CreatedAt = now
	job.UpdatedAt = now
	if job.Status == "" {
		job.Status = domain.ImportUploaded
	}

	result, err := r.collection.InsertOne(ctx, job)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// GetByID retrieves an import job owned by userID.
func (r *mongoImportRepository) GetByID(ctx context.Context, userID, jobID primitive.ObjectID) (*domain.ImportJob, error) {
	var job domain.ImportJob
	err := r.collection.FindOne(ctx, bson.M{"_id": jobID, "userId": userID}).Decode(&job)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &job, nil
}

// SetMapping stores the column mapping and moves the job to the mapped state.
// Jobs that are committing or committed are left alone.
func (r *mongoImportRepository) SetMapping(ctx context.Context, userID, jobID primitive.ObjectID, mapping domain.ColumnMapping) error {
	filter := bson.M{
		"_id":    jobID,
		"userId": userID,
		"status": bson.M{"$in": []domain.ImportStatus{domain.ImportUploaded, domain.ImportMapped}},
	}
	update := bson.M{
		"$set": bson.M{
			"mapping":   mapping,
			"status":    domain.ImportMapped,
			"updatedAt": time.Now().UTC(),
		},
	}
	return r.updateOne(ctx, filter, update)
}

// ClaimCommit flips a mapped job to committing in one FindOneAndUpdate, so
// only one concurrent commit can observe the mapped state.
func (r *mongoImportRepository) ClaimCommit(ctx context.Context, userID, jobID primitive.ObjectID) (*domain.ImportJob, error) {
	filter := bson.M{"_id": jobID, "userId": userID, "status": domain.ImportMapped}
	update := bson.M{
		"$set": bson.M{
			"status":    domain.ImportCommitting,
			"updatedAt": time.Now().UTC(),
		},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var job domain.ImportJob
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&job)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &job, nil
}

// ReleaseCommit hands a claimed job back so the commit can be retried.
func (r *mongoImportRepository) ReleaseCommit(ctx context.Context, userID, jobID primitive.ObjectID) error {
	filter := bson.M{"_id": jobID, "userId": userID, "status": domain.ImportCommitting}
	update := bson.M{
		"$set": bson.M{
			"status":    domain.ImportMapped,
			"updatedAt": time.Now().UTC(),
		},
	}
	return r.updateOne(ctx, filter, update)
}

// MarkCommitted records how many workouts the commit inserted.
func (r *mongoImportRepository) MarkCommitted(ctx context.Context, userID, jobID primitive.ObjectID, imported int) error {
	filter := bson.M{"_id": jobID, "userId": userID, "status": domain.ImportCommitting}
	update := bson.M{
		"$set": bson.M{
			"status":        domain.ImportCommitted,
			"importedCount": imported,
			"updatedAt":     time.Now().UTC(),
		},
	}
	return r.updateOne(ctx, filter, update)
}

func (r *mongoImportRepository) updateOne(ctx context.Context, filter, update bson.M) error {
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureImportIndexes creates necessary indexes for the imports collection.
func EnsureImportIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}},
			Options: options.Index(),
		},
		{
			// Expire stale jobs; the archived file in object storage is kept.
			Keys:    bson.D{{Key: "createdAt", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(int32(importTTL.Seconds())),
		},
	}
	_, err := db.Collection(importCollectionName).Indexes().CreateMany(ctx, indexes)
	return err
}
