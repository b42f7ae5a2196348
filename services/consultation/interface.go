package consultation

import (
	"context"
	"errors"
	"time"

	"lefri/database/repository"
	"lefri/models"
	"lefri/services/constitute"
	ai "lefri/services/intelligence"
)

// ErrClientGone is returned by AskStream when the event sink stops accepting
// events. Nothing is persisted in that case.
var ErrClientGone = errors.New("stream client disconnected")

const (
	articleLimit = 5

	confidenceWithArticles = 0.92
	confidenceWithout      = 0.75

	streamErrorMessage = "No se pudo generar una respuesta completa. Intenta nuevamente."
)

type ConsultationService interface {
	Ask(ctx context.Context, userID string, req models.AskRequest) (*models.AskResponse, error)
	AskStream(ctx context.Context, userID string, req models.AskRequest, emit func(models.StreamEvent) error) error
	List(ctx context.Context, userID string) ([]models.Consultation, error)
	Topics(ctx context.Context, country, language string) ([]string, error)
}

// SectionSource looks up constitutional sections.
type SectionSource interface {
	RelevantSections(ctx context.Context, query, country, language string, limit int) ([]constitute.Section, error)
	CountryTopics(ctx context.Context, country, language string) ([]string, error)
}

// DefaultConsultationService is the production implementation.
// Conversations is optional.
type DefaultConsultationService struct {
	Repo          repository.ConsultationRepository
	Sections      SectionSource
	Assistant     *ai.LegalAssistant
	Conversations ai.ConversationStore

	now func() time.Time
}

func (s *DefaultConsultationService) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}
