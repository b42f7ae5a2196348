package processRepo

import (
	"context"

	"lefri/models"
)

// ProcessRepository stores legal processes scoped by user.
type ProcessRepository interface {
	// ListByUser returns the user's processes, most recently updated first.
	ListByUser(ctx context.Context, userID string) ([]models.LegalProcess, error)
	GetByID(ctx context.Context, userID, id string) (*models.LegalProcess, error)
	Create(ctx context.Context, process *models.LegalProcess) error
	// Update replaces the stored document with process.
	Update(ctx context.Context, process *models.LegalProcess) error
	Delete(ctx context.Context, userID, id string) error
}
