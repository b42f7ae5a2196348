package process

import (
	"context"

	"lefri/database/repository"
	"lefri/models"
	"lefri/services/messaging"
	ai "lefri/services/intelligence"
)

type ProcessService interface {
	List(ctx context.Context, userID string) ([]models.LegalProcess, error)
	Get(ctx context.Context, userID, id string) (*models.LegalProcess, error)
	Create(ctx context.Context, userID string, in models.ProcessInput) (*models.LegalProcess, error)
	Update(ctx context.Context, userID, id string, upd models.ProcessUpdate) (*models.LegalProcess, error)
	Delete(ctx context.Context, userID, id string) error
	ToggleStep(ctx context.Context, userID, id, stepID string, completed bool) (*models.LegalProcess, error)

	GenerateDocument(ctx context.Context, userID, id string, req models.DocumentRequest) (*models.DocumentResponse, error)
	StepContent(ctx context.Context, userID, id string, step int) (string, error)
	Chat(ctx context.Context, userID, id, query string) (models.AgentResponse, error)
	Templates() []models.ProcessTemplate
}

// ReminderScheduler queues due-date reminders for process steps.
type ReminderScheduler interface {
	ScheduleStepReminder(ctx context.Context, payload models.StepReminderPayload) error
}

// DefaultProcessService is the production implementation. Email and
// Reminders are optional.
type DefaultProcessService struct {
	Repo        repository.ProcessRepository
	Users       repository.UserRepository
	Assistant   *ai.LegalAssistant
	Coordinator *ai.Coordinator
	Email       messaging.EmailSender
	Reminders   ReminderScheduler
	AppURL      string
}
