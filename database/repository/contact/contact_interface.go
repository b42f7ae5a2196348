package contactRepo

import (
	"context"

	"lefri/models"
)

// ContactRepository stores emergency contacts. Every lookup is scoped by
// the owning user.
type ContactRepository interface {
	ListByUser(ctx context.Context, userID string) ([]models.EmergencyContact, error)
	GetByID(ctx context.Context, userID, id string) (*models.EmergencyContact, error)
	Create(ctx context.Context, contact *models.EmergencyContact) error
	Update(ctx context.Context, userID, id string, fields map[string]interface{}) (*models.EmergencyContact, error)
	Delete(ctx context.Context, userID, id string) error
}
