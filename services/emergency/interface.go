package emergency

import (
	"context"
	"time"

	"lefri/database/repository"
	"lefri/models"
	"lefri/services/messaging"
	ai "lefri/services/intelligence"
)

type EmergencyService interface {
	// Contacts
	ListContacts(ctx context.Context, userID string) ([]models.EmergencyContact, error)
	CreateContact(ctx context.Context, userID string, in models.ContactInput) (*models.EmergencyContact, error)
	UpdateContact(ctx context.Context, userID, id string, update models.ContactUpdate) (*models.EmergencyContact, error)
	DeleteContact(ctx context.Context, userID, id string) error

	// Alerts
	Trigger(ctx context.Context, userID string, req models.EmergencyRequest) (*models.EmergencyResponse, error)
	ListAlerts(ctx context.Context, userID string) ([]models.EmergencyAlert, error)
}

// VoiceNotes resolves a voice note id owned by the user.
type VoiceNotes interface {
	Get(ctx context.Context, userID, id string) (*models.VoiceRecording, error)
}

// DefaultEmergencyService is the production implementation. WhatsApp, Email,
// Push and Voice are optional; a nil channel counts as a failed delivery.
type DefaultEmergencyService struct {
	Users     repository.UserRepository
	Contacts  repository.ContactRepository
	Alerts    repository.AlertRepository
	Assistant *ai.LegalAssistant
	WhatsApp  messaging.WhatsAppSender
	Email     messaging.EmailSender
	Push      messaging.PushNotifier
	Voice     VoiceNotes

	now func() time.Time
}

func (s *DefaultEmergencyService) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}
