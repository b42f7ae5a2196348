package emergency

import (
	"context"
	"fmt"
	"strings"

	"lefri/models"
	"lefri/utils"

	"go.uber.org/zap"
)

func (s *DefaultEmergencyService) ListContacts(ctx context.Context, userID string) ([]models.EmergencyContact, error) {
	return s.Contacts.ListByUser(ctx, userID)
}

func (s *DefaultEmergencyService) CreateContact(ctx context.Context, userID string, in models.ContactInput) (*models.EmergencyContact, error) {
	name, phone, rel := strings.TrimSpace(in.Name), strings.TrimSpace(in.Phone), strings.TrimSpace(in.Relationship)
	if name == "" || phone == "" || rel == "" {
		return nil, fmt.Errorf("%w: name, phone and relationship are required", utils.ErrInvalidInput)
	}
	c := &models.EmergencyContact{
		UserID:          userID,
		Name:            name,
		Phone:           phone,
		Email:           strings.TrimSpace(in.Email),
		Relationship:    rel,
		WhatsAppEnabled: in.WhatsAppEnabled == nil || *in.WhatsAppEnabled,
	}
	if err := s.Contacts.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to create contact: %w", err)
	}
	utils.GetLogger().Info("Emergency contact created", zap.String("userID", userID), zap.String("contactID", c.ID))
	return c, nil
}

func (s *DefaultEmergencyService) UpdateContact(ctx context.Context, userID, id string, update models.ContactUpdate) (*models.EmergencyContact, error) {
	fields := update.Fields()
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: no fields to update", utils.ErrInvalidInput)
	}
	for _, k := range []string{"name", "phone", "relationship"} {
		if v, ok := fields[k].(string); ok && strings.TrimSpace(v) == "" {
			return nil, fmt.Errorf("%w: %s cannot be empty", utils.ErrInvalidInput, k)
		}
	}
	return s.Contacts.Update(ctx, userID, id, fields)
}

func (s *DefaultEmergencyService) DeleteContact(ctx context.Context, userID, id string) error {
	return s.Contacts.Delete(ctx, userID, id)
}
