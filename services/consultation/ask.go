package consultation

import (
	"context"
	"errors"
	"fmt"

	"lefri/models"
	"lefri/services/constitute"
	ai "lefri/services/intelligence"
	"lefri/utils"

	"go.uber.org/zap"
)

var placeholderCitations = []models.Citation{
	{Title: "Constitución Nacional", URL: "#", Relevance: 95},
	{Title: "Código Civil", URL: "#", Relevance: 87},
}

// prepared is everything gathered before the model is called.
type prepared struct {
	query     ai.LegalQuery
	citations []models.Citation
	found     bool
}

func (s *DefaultConsultationService) prepare(ctx context.Context, userID string, req *models.AskRequest) (prepared, error) {
	req.Normalize()
	if req.Query == "" {
		return prepared{}, fmt.Errorf("%w: query is required", utils.ErrInvalidInput)
	}
	logger := utils.GetLogger()

	var sections []constitute.Section
	if s.Sections != nil {
		found, err := s.Sections.RelevantSections(ctx, req.Query, req.Country, req.Language, articleLimit)
		if err != nil {
			logger.Warn("Constitution lookup failed, answering without articles",
				zap.String("country", req.Country), zap.Error(err))
		}
		sections = found
	}

	var history []models.ConversationTurn
	if s.Conversations != nil {
		h, err := s.Conversations.History(ctx, userID)
		if err != nil {
			logger.Warn("Failed to load conversation history", zap.String("userID", userID), zap.Error(err))
		}
		history = h
	}

	p := prepared{
		query: ai.LegalQuery{
			Query:    req.Query,
			Country:  req.Country,
			Language: req.Language,
			History:  history,
		},
		found: len(sections) > 0,
	}
	for i, sec := range sections {
		p.query.Articles = append(p.query.Articles, constitute.FormatArticle(sec))
		p.citations = append(p.citations, models.Citation{
			Title:     sec.SectionName,
			URL:       constitute.SectionURL(sec),
			Relevance: 95 - 5*i,
		})
	}
	if !p.found {
		p.citations = append([]models.Citation(nil), placeholderCitations...)
	}
	return p, nil
}

func (p prepared) confidence(failed bool) float64 {
	switch {
	case failed:
		return 0
	case p.found:
		return confidenceWithArticles
	default:
		return confidenceWithout
	}
}

// Ask answers in one model call. Model failures produce the canned answer
// with zero confidence.
func (s *DefaultConsultationService) Ask(ctx context.Context, userID string, req models.AskRequest) (*models.AskResponse, error) {
	p, err := s.prepare(ctx, userID, &req)
	if err != nil {
		return nil, err
	}

	text, genErr := s.Assistant.Answer(ctx, p.query)
	c, err := s.record(ctx, userID, req, text, p, genErr != nil)
	if err != nil {
		return nil, err
	}
	return &models.AskResponse{
		Response:       text,
		Citations:      p.citations,
		Confidence:     c.Confidence,
		ConsultationID: c.ID,
	}, nil
}

// AskStream emits the citations, then each answer chunk in arrival order,
// then a complete event. When the model fails the canned answer is streamed
// and an error event replaces the complete event.
func (s *DefaultConsultationService) AskStream(ctx context.Context, userID string, req models.AskRequest, emit func(models.StreamEvent) error) error {
	p, err := s.prepare(ctx, userID, &req)
	if err != nil {
		return err
	}

	send := func(ev models.StreamEvent) error {
		if err := emit(ev); err != nil {
			return fmt.Errorf("%w: %v", ErrClientGone, err)
		}
		return nil
	}

	if err := send(models.StreamEvent{Type: models.EventCitations, Data: models.CitationsPayload{Citations: p.citations}}); err != nil {
		return err
	}

	text, genErr := s.Assistant.AnswerStream(ctx, p.query, func(chunk string) error {
		return send(models.StreamEvent{Type: models.EventChunk, Data: chunk})
	})
	if errors.Is(genErr, ErrClientGone) {
		utils.GetLogger().Info("Consultation stream closed by client", zap.String("userID", userID))
		return genErr
	}

	failed := genErr != nil
	c, err := s.record(ctx, userID, req, text, p, failed)
	if err != nil {
		return err
	}

	if failed {
		return send(models.StreamEvent{Type: models.EventError, Data: streamErrorMessage})
	}
	return send(models.StreamEvent{Type: models.EventComplete, Data: models.CompletePayload{
		Confidence:     c.Confidence,
		ConsultationID: c.ID,
	}})
}

// record persists the consultation and, for real answers, the conversation turns.
func (s *DefaultConsultationService) record(ctx context.Context, userID string, req models.AskRequest, text string, p prepared, failed bool) (*models.Consultation, error) {
	c := &models.Consultation{
		UserID:     userID,
		Query:      req.Query,
		Response:   text,
		Country:    req.Country,
		Language:   req.Language,
		Citations:  p.citations,
		Confidence: p.confidence(failed),
		Metadata: map[string]interface{}{
			"articles": len(p.query.Articles),
			"stream":   req.Stream,
			"fallback": failed,
		},
	}
	if err := s.Repo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to save consultation: %w", err)
	}

	if !failed && s.Conversations != nil {
		now := s.clock()
		err := s.Conversations.Append(ctx, userID,
			models.ConversationTurn{Role: "user", Content: req.Query, Timestamp: now},
			models.ConversationTurn{Role: "assistant", Content: text, Timestamp: now},
		)
		if err != nil {
			utils.GetLogger().Warn("Failed to store conversation turns", zap.String("userID", userID), zap.Error(err))
		}
	}

	utils.GetLogger().Info("Consultation answered",
		zap.String("userID", userID),
		zap.String("consultationID", c.ID),
		zap.Bool("fallback", failed),
	)
	return c, nil
}

func (s *DefaultConsultationService) List(ctx context.Context, userID string) ([]models.Consultation, error) {
	return s.Repo.ListByUser(ctx, userID)
}

// Topics lists the common topics the country's constitution covers.
func (s *DefaultConsultationService) Topics(ctx context.Context, country, language string) ([]string, error) {
	if country == "" {
		country = models.DefaultCountry
	}
	if s.Sections == nil {
		return []string{}, nil
	}
	return s.Sections.CountryTopics(ctx, country, language)
}
