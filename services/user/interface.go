package user

import (
	"context"

	userRepo "lefri/database/repository/user"
	"lefri/models"
	"lefri/services/socialAuth"
)

type UserService interface {
	// Authentication
	AuthenticateGoogle(ctx context.Context, req models.GoogleAuthRequest) (*models.AuthResponse, error)
	GoogleAuthURL(state string) (string, error)
	GoogleCallback(ctx context.Context, code string) (*models.AuthResponse, error)
	Logout(ctx context.Context, token string) error

	// Profile
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
	UpdateProfile(ctx context.Context, userID string, update models.ProfileUpdate) (*models.User, error)
}

// DefaultUserService is the production implementation.
type DefaultUserService struct {
	Repo     userRepo.UserRepository
	Verifier socialAuth.TokenVerifier
	OAuth    socialAuth.OAuthProvider
	// AllowLegacy accepts the unverified {email, name, googleId} body used by
	// demo clients. It is never set in production.
	AllowLegacy bool
}
