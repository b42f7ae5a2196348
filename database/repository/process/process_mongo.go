package processRepo

import (
	"context"
	"errors"
	"fmt"
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

// MongoProcessRepo implements ProcessRepository using MongoDB.
type MongoProcessRepo struct {
	coll *mongo.Collection
}

func NewMongoProcessRepo() ProcessRepository {
	repo := &MongoProcessRepo{coll: database.Collection("legal_processes")}
	if err := repo.ensureIndexes(); err != nil {
		utils.GetLogger().Warn("failed to create process indexes", zap.Error(err))
	}
	return repo
}

func (r *MongoProcessRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "updatedAt", Value: -1}}},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

func (r *MongoProcessRepo) ListByUser(ctx context.Context, userID string) ([]models.LegalProcess, error) {
	opts := options.Find().SetSort(bson.D{{Key: "updatedAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list processes: %w", err)
	}
	defer cursor.Close(ctx)

	processes := []models.LegalProcess{}
	if err := cursor.All(ctx, &processes); err != nil {
		return nil, fmt.Errorf("failed to decode processes: %w", err)
	}
	return processes, nil
}

func (r *MongoProcessRepo) GetByID(ctx context.Context, userID, id string) (*models.LegalProcess, error) {
	var p models.LegalProcess
	if err := r.coll.FindOne(ctx, bson.M{"id": id, "userId": userID}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, database.ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch process %s: %w", id, err)
	}
	return &p, nil
}

func (r *MongoProcessRepo) Create(ctx context.Context, process *models.LegalProcess) error {
	if process.ID == "" {
		process.ID = uuid.New().String()
	}
	now := time.Now()
	process.CreatedAt = now
	process.UpdatedAt = now
	if _, err := r.coll.InsertOne(ctx, process); err != nil {
		return fmt.Errorf("failed to create process: %w", err)
	}
	return nil
}

func (r *MongoProcessRepo) Update(ctx context.Context, process *models.LegalProcess) error {
	process.UpdatedAt = time.Now()
	filter := bson.M{"id": process.ID, "userId": process.UserID}
	res, err := r.coll.ReplaceOne(ctx, filter, process)
	if err != nil {
		return fmt.Errorf("failed to update process %s: %w", process.ID, err)
	}
	if res.MatchedCount == 0 {
		return database.ErrNotFound
	}
	return nil
}

func (r *MongoProcessRepo) Delete(ctx context.Context, userID, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id, "userId": userID})
	if err != nil {
		return fmt.Errorf("failed to delete process %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return database.ErrNotFound
	}
	return nil
}
