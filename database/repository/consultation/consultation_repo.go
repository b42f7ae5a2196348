package consultationRepo

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

// ConsultationRepository is an append-only log of answered questions.
type ConsultationRepository interface {
	// ListByUser returns the user's consultations, newest first.
	ListByUser(ctx context.Context, userID string) ([]models.Consultation, error)
	Create(ctx context.Context, consultation *models.Consultation) error
}

// MongoConsultationRepo implements ConsultationRepository using MongoDB.
type MongoConsultationRepo struct {
	coll *mongo.Collection
}

func NewMongoConsultationRepo() ConsultationRepository {
	repo := &MongoConsultationRepo{coll: database.Collection("consultations")}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, err := repo.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
	})
	if err != nil {
		utils.GetLogger().Warn("failed to create consultation indexes", zap.Error(err))
	}
	return repo
}

func (r *MongoConsultationRepo) ListByUser(ctx context.Context, userID string) ([]models.Consultation, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list consultations: %w", err)
	}
	defer cursor.Close(ctx)

	out := []models.Consultation{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode consultations: %w", err)
	}
	return out, nil
}

func (r *MongoConsultationRepo) Create(ctx context.Context, c *models.Consultation) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	c.CreatedAt = time.Now()
	if _, err := r.coll.InsertOne(ctx, c); err != nil {
		return fmt.Errorf("failed to create consultation: %w", err)
	}
	return nil
}

// MemoryConsultationRepo keeps consultations in process memory.
type MemoryConsultationRepo struct {
	mu    sync.RWMutex
	items []models.Consultation
}

func NewMemoryConsultationRepo() *MemoryConsultationRepo {
	return &MemoryConsultationRepo{}
}

func (r *MemoryConsultationRepo) ListByUser(_ context.Context, userID string) ([]models.Consultation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []models.Consultation{}
	for i := len(r.items) - 1; i >= 0; i-- {
		if r.items[i].UserID == userID {
			out = append(out, r.items[i])
		}
	}
	return out, nil
}

func (r *MemoryConsultationRepo) Create(_ context.Context, c *models.Consultation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	c.CreatedAt = time.Now()
	r.items = append(r.items, *c)
	return nil
}
