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

const planCollectionName = "plans"

// mongoPlanRepository implements repository.PlanRepository. Weeks, days and
// sessions are embedded in the plan document so a plan is written atomically.
type mongoPlanRepository struct {
	collection *mongo.Collection
}

// NewMongoPlanRepository creates a new Plan repository.
func NewMongoPlanRepository(db *mongo.Database) repository.PlanRepository {
	return &mongoPlanRepository{
		collection: db.Collection(planCollectionName),
	}
}

// Create inserts a new plan.
func (r *mongoPlanRepository) Create(ctx context.Context, plan *domain.Plan) (*domain.Plan, error) {
	if plan.UserID == primitive.NilObjectID || plan.Title == "" {
		return nil, errors.New("plan requires userId and title")
	}
	plan.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	plan.CreatedAt = now
	plan.UpdatedAt = now
	if plan.Weeks == nil {
		plan.Weeks = []domain.Week{}
	}

	if _, err := r.collection.InsertOne(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// GetByID retrieves a single plan owned by userID.
func (r *mongoPlanRepository) GetByID(ctx context.Context, userID, planID primitive.ObjectID) (*domain.Plan, error) {
	var plan domain.Plan
	filter := bson.M{"_id": planID, "userId": userID}
	err := r.collection.FindOne(ctx, filter).Decode(&plan)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &plan, nil
}

// ListByUser returns the user's plans, newest first.
func (r *mongoPlanRepository) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.Plan, error) {
	plans := []domain.Plan{}
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &plans); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return plans, nil
}

// Update sets title and weeks on the stored plan and returns the updated document.
func (r *mongoPlanRepository) Update(ctx context.Context, userID, planID primitive.ObjectID, title string, weeks []domain.Week) (*domain.Plan, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if title != "" {
		set["title"] = title
	}
	if weeks != nil {
		set["weeks"] = weeks
	}

	filter := bson.M{"_id": planID, "userId": userID}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated domain.Plan
	err := r.collection.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &updated, nil
}

// Delete removes a plan owned by userID.
func (r *mongoPlanRepository) Delete(ctx context.Context, userID, planID primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": planID, "userId": userID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsurePlanIndexes creates necessary indexes. Call during startup.
func EnsurePlanIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := []mongo.IndexModel{
		{
			// Listing a user's plans newest first
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index(),
		},
	}
	_, err := db.Collection(planCollectionName).Indexes().CreateMany(ctx, indexes)
	return err
}
