package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"lefri/database"
	"lefri/models"
	"lefri/utils"

	"go.uber.org/zap"
)

// AuthenticateGoogle signs in with a Google ID token, or with the legacy
// demo body when allowed.
func (s *DefaultUserService) AuthenticateGoogle(ctx context.Context, req models.GoogleAuthRequest) (*models.AuthResponse, error) {
	var profile *models.GoogleProfile
	switch {
	case req.Credential != "":
		if s.Verifier == nil {
			return nil, fmt.Errorf("%w: google sign-in", utils.ErrNotConfigured)
		}
		p, err := s.Verifier.Verify(ctx, req.Credential)
		if err != nil {
			utils.GetLogger().Warn("Google credential rejected", zap.Error(err))
			return nil, fmt.Errorf("%w: invalid Google credential", utils.ErrUnauthorized)
		}
		profile = p
	case s.AllowLegacy && req.Email != "":
		profile = &models.GoogleProfile{
			Subject: req.GoogleID,
			Email:   strings.ToLower(strings.TrimSpace(req.Email)),
			Name:    req.Name,
		}
	default:
		return nil, fmt.Errorf("%w: credential is required", utils.ErrInvalidInput)
	}
	return s.signIn(ctx, profile)
}

// GoogleAuthURL returns the consent screen URL for the redirect flow.
func (s *DefaultUserService) GoogleAuthURL(state string) (string, error) {
	if s.OAuth == nil {
		return "", fmt.Errorf("%w: google oauth", utils.ErrNotConfigured)
	}
	return s.OAuth.AuthCodeURL(state), nil
}

// GoogleCallback completes the redirect flow.
func (s *DefaultUserService) GoogleCallback(ctx context.Context, code string) (*models.AuthResponse, error) {
	if s.OAuth == nil {
		return nil, fmt.Errorf("%w: google oauth", utils.ErrNotConfigured)
	}
	if code == "" {
		return nil, fmt.Errorf("%w: code is required", utils.ErrInvalidInput)
	}
	profile, err := s.OAuth.Exchange(ctx, code)
	if err != nil {
		utils.GetLogger().Warn("Google code exchange failed", zap.Error(err))
		return nil, fmt.Errorf("%w: google authorization failed", utils.ErrUnauthorized)
	}
	return s.signIn(ctx, profile)
}

func (s *DefaultUserService) signIn(ctx context.Context, profile *models.GoogleProfile) (*models.AuthResponse, error) {
	u, err := s.upsert(ctx, profile)
	if err != nil {
		return nil, err
	}
	token, err := utils.GenerateToken(u.ID, u.Email, utils.TokenTTL())
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	utils.GetLogger().Info("User signed in", zap.String("userID", u.ID))
	return &models.AuthResponse{User: u, Token: token}, nil
}

// upsert looks the user up by Google subject, then by email (linking the
// subject onto that row), and creates the account otherwise.
func (s *DefaultUserService) upsert(ctx context.Context, p *models.GoogleProfile) (*models.User, error) {
	if p.Subject != "" {
		u, err := s.Repo.GetByGoogleID(ctx, p.Subject)
		if err == nil {
			return s.refreshPicture(ctx, u, p)
		}
		if !errors.Is(err, database.ErrNotFound) {
			return nil, fmt.Errorf("failed to look up user: %w", err)
		}
	}

	u, err := s.Repo.GetByEmail(ctx, p.Email)
	switch {
	case err == nil:
		if p.Subject == "" || u.GoogleID == p.Subject {
			return u, nil
		}
		fields := map[string]interface{}{"googleId": p.Subject}
		if p.Picture != "" {
			fields["picture"] = p.Picture
		}
		linked, err := s.Repo.Update(ctx, u.ID, fields)
		if err != nil {
			return nil, fmt.Errorf("failed to link Google account: %w", err)
		}
		return linked, nil
	case !errors.Is(err, database.ErrNotFound):
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	name := p.Name
	if name == "" {
		name = strings.SplitN(p.Email, "@", 2)[0]
	}
	created := &models.User{
		Email:    p.Email,
		Name:     name,
		GoogleID: p.Subject,
		Picture:  p.Picture,
		Language: models.DefaultLanguage,
		Country:  models.DefaultCountry,
	}
	if err := s.Repo.Create(ctx, created); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	utils.GetLogger().Info("Created user on first sign-in", zap.String("userID", created.ID))
	return created, nil
}

func (s *DefaultUserService) refreshPicture(ctx context.Context, u *models.User, p *models.GoogleProfile) (*models.User, error) {
	if p.Picture == "" || p.Picture == u.Picture {
		return u, nil
	}
	updated, err := s.Repo.Update(ctx, u.ID, map[string]interface{}{"picture": p.Picture})
	if err != nil {
		utils.GetLogger().Warn("Failed to refresh profile picture", zap.String("userID", u.ID), zap.Error(err))
		return u, nil
	}
	return updated, nil
}

// Logout revokes the token until it would have expired.
func (s *DefaultUserService) Logout(ctx context.Context, token string) error {
	_, exp, err := utils.ExtractIDFromToken(token)
	if err != nil {
		return fmt.Errorf("%w: invalid token", utils.ErrUnauthorized)
	}
	if err := utils.RevokeToken(ctx, token, exp); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}
