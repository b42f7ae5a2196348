package database

import (
	"context"
	"errors"
	"time"

	"lefri/config"
	"lefri/utils"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// MongoClient is the global MongoDB client instance. It stays nil when the
// service runs on in-memory storage.
var MongoClient *mongo.Client

// ErrNotFound is returned by every repository when a record does not exist
// or belongs to another user.
var ErrNotFound = errors.New("record not found")

// InitDB connects to MongoDB when DATABASE_URL is set. Any failure leaves
// MongoClient nil and the repositories fall back to memory.
func InitDB() {
	logger := utils.GetLogger()
	uri := config.AppConfig.DatabaseURL
	if uri == "" {
		logger.Info("DATABASE_URL not set, using in-memory storage")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		logger.Warn("Failed to connect to MongoDB, using in-memory storage", zap.Error(err))
		return
	}
	if err := client.Ping(ctx, nil); err != nil {
		logger.Warn("Failed to ping MongoDB, using in-memory storage", zap.Error(err))
		_ = client.Disconnect(context.Background())
		return
	}
	MongoClient = client
	logger.Info("Connected to MongoDB successfully", zap.String("database", DatabaseName()))
}

// DatabaseName is the Mongo database holding every collection.
func DatabaseName() string {
	if name := config.AppConfig.DatabaseName; name != "" {
		return name
	}
	return "lefri"
}

// Collection returns a handle on the named collection.
func Collection(name string) *mongo.Collection {
	return MongoClient.Database(DatabaseName()).Collection(name)
}

// Connected reports whether a Mongo client is available.
func Connected() bool {
	return MongoClient != nil
}

// Close disconnects the Mongo client if one is open.
func Close(ctx context.Context) {
	if MongoClient != nil {
		_ = MongoClient.Disconnect(ctx)
	}
}
