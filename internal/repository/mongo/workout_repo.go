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

const workoutCollectionName = "workouts"

// mongoWorkoutRepository implements repository.WorkoutRepository
type mongoWorkoutRepository struct {
	collection *mongo.Collection
}

// NewMongoWorkoutRepository creates a new Workout repository.
func NewMongoWorkoutRepository(db *mongo.Database) repository.WorkoutRepository {
	return &mongoWorkoutRepository{
		collection: db.Collection(workoutCollectionName),
	}
}

// Create inserts a new workout.
func (r *mongoWorkoutRepository) Create(ctx context.Context, workout *domain.Workout) (*domain.Workout, error) {
	if workout.UserID == primitive.NilObjectID || workout.Date == "" {
		return nil, errors.New("workout requires userId and date")
	}
	workout.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	workout.CreatedAt = now
	workout.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, workout); err != nil {
		return nil, err
	}
	return workout, nil
}

// CreateMany inserts every workout with one InsertMany call. Ordered inserts
// stop at the first failure; nothing is returned for a partial write.
func (r *mongoWorkoutRepository) CreateMany(ctx context.Context, workouts []domain.Workout) ([]domain.Workout, error) {
	if len(workouts) == 0 {
		return []domain.Workout{}, nil
	}
	now := time.Now().UTC()
	out := make([]domain.Workout, len(workouts))
	docs := make([]interface{}, len(workouts))
	for i, w := range workouts {
		w.ID = primitive.NewObjectID()
		w.CreatedAt = now
		w.UpdatedAt = now
		out[i] = w
		docs[i] = w
	}

	if _, err := r.collection.InsertMany(ctx, docs); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID retrieves a single workout owned by userID.
func (r *mongoWorkoutRepository) GetByID(ctx context.Context, userID, workoutID primitive.ObjectID) (*domain.Workout, error) {
	var workout domain.Workout
	filter := bson.M{"_id": workoutID, "userId": userID}
	err := r.collection.FindOne(ctx, filter).Decode(&workout)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &workout, nil
}

// List returns the user's workouts inside the filter's date range, most recent date first.
func (r *mongoWorkoutRepository) List(ctx context.Context, userID primitive.ObjectID, filter repository.WorkoutFilter) ([]domain.Workout, error) {
	workouts := []domain.Workout{}
	query := bson.M{"userId": userID}
	dateRange := bson.M{}
	if filter.From != "" {
		dateRange["$gte"] = filter.From
	}
	if filter.To != "" {
		dateRange["$lte"] = filter.To
	}
	if len(dateRange) > 0 {
		query["date"] = dateRange
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, query, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &workouts); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return workouts, nil
}

// Update overwrites the mutable fields of a workout owned by workout.UserID.
func (r *mongoWorkoutRepository) Update(ctx context.Context, workout *domain.Workout) (*domain.Workout, error) {
	if workout.ID == primitive.NilObjectID {
		return nil, errors.New("workout ID is required for update")
	}

	filter := bson.M{"_id": workout.ID, "userId": workout.UserID}
	update := bson.M{
		"$set": bson.M{
			"date":       workout.Date,
			"sport":      workout.Sport,
			"distance_m": workout.DistanceM,
			"duration_s": workout.DurationS,
			"rpe":        workout.RPE,
			"notes":      workout.Notes,
			"updatedAt":  time.Now().UTC(),
		},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated domain.Workout
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &updated, nil
}

// Delete removes a workout owned by userID.
func (r *mongoWorkoutRepository) Delete(ctx context.Context, userID, workoutID primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": workoutID, "userId": userID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// DeleteByImport removes the workouts one CSV commit wrote and reports how many went.
func (r *mongoWorkoutRepository) DeleteByImport(ctx context.Context, userID, importID primitive.ObjectID) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"userId": userID, "importId": importID})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

// EnsureWorkoutIndexes creates necessary indexes. Call during startup.
func EnsureWorkoutIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := []mongo.IndexModel{
		{
			// Date-range listing per user
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "date", Value: -1}},
			Options: options.Index(),
		},
		{
			// Rollback of a failed CSV commit
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "importId", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
	}
	_, err := db.Collection(workoutCollectionName).Indexes().CreateMany(ctx, indexes)
	return err
}
