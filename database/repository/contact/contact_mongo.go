package contactRepo

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

// MongoContactRepo implements ContactRepository using MongoDB.
type MongoContactRepo struct {
	coll *mongo.Collection
}

func NewMongoContactRepo() ContactRepository {
	repo := &MongoContactRepo{coll: database.Collection("emergency_contacts")}
	if err := repo.ensureIndexes(); err != nil {
		utils.GetLogger().Warn("failed to create contact indexes", zap.Error(err))
	}
	return repo
}

func (r *MongoContactRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "userId", Value: 1}}},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

func (r *MongoContactRepo) ListByUser(ctx context.Context, userID string) ([]models.EmergencyContact, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	defer cursor.Close(ctx)

	contacts := []models.EmergencyContact{}
	if err := cursor.All(ctx, &contacts); err != nil {
		return nil, fmt.Errorf("failed to decode contacts: %w", err)
	}
	return contacts, nil
}

func (r *MongoContactRepo) GetByID(ctx context.Context, userID, id string) (*models.EmergencyContact, error) {
	var c models.EmergencyContact
	if err := r.coll.FindOne(ctx, bson.M{"id": id, "userId": userID}).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, database.ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch contact %s: %w", id, err)
	}
	return &c, nil
}

func (r *MongoContactRepo) Create(ctx context.Context, contact *models.EmergencyContact) error {
	if contact.ID == "" {
		contact.ID = uuid.New().String()
	}
	contact.CreatedAt = time.Now()
	if _, err := r.coll.InsertOne(ctx, contact); err != nil {
		return fmt.Errorf("failed to create contact: %w", err)
	}
	return nil
}

func (r *MongoContactRepo) Update(ctx context.Context, userID, id string, fields map[string]interface{}) (*models.EmergencyContact, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var c models.EmergencyContact
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"id": id, "userId": userID}, bson.M{"$set": fields}, opts).Decode(&c)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, database.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update contact %s: %w", id, err)
	}
	return &c, nil
}

func (r *MongoContactRepo) Delete(ctx context.Context, userID, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id, "userId": userID})
	if err != nil {
		return fmt.Errorf("failed to delete contact %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return database.ErrNotFound
	}
	return nil
}
