// Package app wires configuration into repositories and services.
package app

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	mongodrv "go.mongodb.org/mongo-driver/mongo"

	"alcyxob/triplan/internal/config"
	"alcyxob/triplan/internal/generator"
	"alcyxob/triplan/internal/pkg/logger"
	"alcyxob/triplan/internal/repository"
	"alcyxob/triplan/internal/repository/mongo"
	"alcyxob/triplan/internal/repository/redis"
	"alcyxob/triplan/internal/service"
	"alcyxob/triplan/internal/storage"
)

// App holds the live connections and the services built on them.
type App struct {
	Users    repository.UserRepository
	Auth     service.AuthService
	Plans    service.PlanService
	Editor   service.EditorService
	Workouts service.WorkoutService
	Imports  service.ImportService
	Profiles service.ProfileService
	Chat     service.ChatService

	log   *logger.Logger
	mongo *mongodrv.Client
	redis *goredis.Client
}

// New connects to MongoDB, Redis and object storage and builds every service.
// Call Close when done.
func New(ctx context.Context, cfg config.Config, log *logger.Logger) (*App, error) {
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	a := &App{log: log, mongo: dbClient}
	appDB := dbClient.Database(cfg.Database.Name)

	idxCtx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()
	if err := mongo.EnsureIndexes(idxCtx, appDB); err != nil {
		log.Warn("failed to ensure indexes", "error", err)
	}

	rdb, err := redis.NewClient(cfg.Redis)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	a.redis = rdb

	fileStorage, err := storage.NewS3Storage(ctx, cfg.S3, log)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("init s3 storage: %w", err)
	}

	gen, err := generator.NewClient(cfg.Generator, log)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("init generator: %w", err)
	}

	userRepo := mongo.NewMongoUserRepository(appDB)
	planRepo := mongo.NewMongoPlanRepository(appDB)
	workoutRepo := mongo.NewMongoWorkoutRepository(appDB)
	importRepo := mongo.NewMongoImportRepository(appDB)
	profileRepo := mongo.NewMongoProfileRepository(appDB)
	sessions := redis.NewEditorSessionRepository(rdb, cfg.Editor.SessionTTL)

	a.Users = userRepo
	a.Auth = service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration, log)
	a.Profiles = service.NewProfileService(profileRepo, log)
	a.Chat = service.NewChatService(profileRepo, gen, log)
	a.Plans = service.NewPlanService(planRepo, profileRepo, gen, log)
	a.Editor = service.NewEditorService(a.Plans, sessions, log)
	a.Workouts = service.NewWorkoutService(workoutRepo, log)
	a.Imports = service.NewImportService(importRepo, a.Workouts, fileStorage, log)
	return a, nil
}

// Close releases the Redis and MongoDB connections.
func (a *App) Close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.log.Error("failed to close redis", "error", err)
		}
	}
	if a.mongo != nil {
		if err := mongo.DisconnectDB(a.mongo); err != nil {
			a.log.Error("failed to disconnect mongodb", "error", err)
		}
	}
}
