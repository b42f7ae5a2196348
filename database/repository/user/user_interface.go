package userRepo

import (
	"context"

	"lefri/models"
)

// UserRepository defines methods for user data access.
type UserRepository interface {
	// GetByID retrieves a user by its unique ID.
	GetByID(ctx context.Context, id string) (*models.User, error)
	// GetByEmail retrieves a user by its email address.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// GetByGoogleID retrieves a user by its Google subject.
	GetByGoogleID(ctx context.Context, googleID string) (*models.User, error)
	// Create inserts a new user record.
	Create(ctx context.Context, user *models.User) error
	// Update sets the given fields and returns the updated user.
	Update(ctx context.Context, id string, fields map[string]interface{}) (*models.User, error)
}
