package alertRepo

import (
	"context"
	"fmt"
	"sync"
	"time"

	"lefri/database"
	"lefri/models"
	"lefri/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// AlertRepository is an append-only log of emergency activations.
type AlertRepository interface {
	// ListByUser returns the user's alerts, newest first.
	ListByUser(ctx context.Context, userID string) ([]models.EmergencyAlert, error)
	Create(ctx context.Context, alert *models.EmergencyAlert) error
}

// MongoAlertRepo implements AlertRepository using MongoDB.
type MongoAlertRepo struct {
	coll *mongo.Collection
}

func NewMongoAlertRepo() AlertRepository {
	repo := &MongoAlertRepo{coll: database.Collection("emergency_alerts")}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, err := repo.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
	})
	if err != nil {
		utils.GetLogger().Warn("failed to create alert indexes", zap.Error(err))
	}
	return repo
}

func (r *MongoAlertRepo) ListByUser(ctx context.Context, userID string) ([]models.EmergencyAlert, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}
	defer cursor.Close(ctx)

	out := []models.EmergencyAlert{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode alerts: %w", err)
	}
	return out, nil
}

func (r *MongoAlertRepo) Create(ctx context.Context, a *models.EmergencyAlert) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	a.CreatedAt = time.Now()
	if _, err := r.coll.InsertOne(ctx, a); err != nil {
		return fmt.Errorf("failed to create alert: %w", err)
	}
	return nil
}

// MemoryAlertRepo keeps alerts in process memory.
type MemoryAlertRepo struct {
	mu    sync.RWMutex
	items []models.EmergencyAlert
}

func NewMemoryAlertRepo() *MemoryAlertRepo {
	return &MemoryAlertRepo{}
}

func (r *MemoryAlertRepo) ListByUser(_ context.Context, userID string) ([]models.EmergencyAlert, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []models.EmergencyAlert{}
	for i := len(r.items) - 1; i >= 0; i-- {
		if r.items[i].UserID == userID {
			out = append(out, r.items[i])
		}
	}
	return out, nil
}

func (r *MemoryAlertRepo) Create(_ context.Context, a *models.EmergencyAlert) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	a.CreatedAt = time.Now()
	r.items = append(r.items, *a)
	return nil
}
