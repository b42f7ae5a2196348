package user

import (
	"context"
	"fmt"
	"strings"

	"lefri/models"
	"lefri/utils"

	"go.uber.org/zap"
)

var supportedLanguages = map[string]bool{"es": true, "en": true, "fr": true}

func (s *DefaultUserService) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	return s.Repo.GetByID(ctx, userID)
}

// UpdateProfile applies a partial update. Email cannot be changed.
func (s *DefaultUserService) UpdateProfile(ctx context.Context, userID string, update models.ProfileUpdate) (*models.User, error) {
	if update.Name != nil && strings.TrimSpace(*update.Name) == "" {
		return nil, fmt.Errorf("%w: name cannot be empty", utils.ErrInvalidInput)
	}
	if update.Language != nil && !supportedLanguages[*update.Language] {
		return nil, fmt.Errorf("%w: unsupported language %q", utils.ErrInvalidInput, *update.Language)
	}
	if update.Country != nil {
		c := strings.ToUpper(strings.TrimSpace(*update.Country))
		if len(c) != 2 {
			return nil, fmt.Errorf("%w: country must be a two-letter code", utils.ErrInvalidInput)
		}
		update.Country = &c
	}

	fields := update.Fields()
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: no fields to update", utils.ErrInvalidInput)
	}

	u, err := s.Repo.Update(ctx, userID, fields)
	if err != nil {
		return nil, err
	}
	utils.GetLogger().Debug("Profile updated", zap.String("userID", userID), zap.Int("fields", len(fields)))
	return u, nil
}
