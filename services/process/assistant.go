package process

import (
	"context"
	"fmt"

	"lefri/models"
	ai "lefri/services/intelligence"
	"lefri/utils"
)

func (s *DefaultProcessService) processContext(ctx context.Context, p *models.LegalProcess, country string) ai.ProcessContext {
	pc := ai.ProcessContext{
		ProcessID:   p.ID,
		Title:       p.Title,
		Type:        p.Type,
		Description: p.Description,
		CurrentStep: p.CurrentStep,
		TotalSteps:  p.TotalSteps,
		Metadata:    p.Metadata,
		Country:     country,
		Language:    models.DefaultLanguage,
	}
	if s.Users != nil {
		if u, err := s.Users.GetByID(ctx, p.UserID); err == nil {
			if u.Language != "" {
				pc.Language = u.Language
			}
			if pc.Country == "" {
				pc.Country = u.Country
			}
		}
	}
	if pc.Country == "" {
		pc.Country = models.DefaultCountry
	}
	return pc
}

// GenerateDocument drafts the main document of the process. Model failures
// return the canned document.
func (s *DefaultProcessService) GenerateDocument(ctx context.Context, userID, id string, req models.DocumentRequest) (*models.DocumentResponse, error) {
	p, err := s.Repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	content, _ := s.Assistant.Document(ctx, s.processContext(ctx, p, req.Country))
	return &models.DocumentResponse{
		Content:   content,
		ProcessID: p.ID,
		Title:     "Documento - " + p.Title,
	}, nil
}

// StepContent writes guidance for a 1-based step; zero selects the current step.
func (s *DefaultProcessService) StepContent(ctx context.Context, userID, id string, step int) (string, error) {
	p, err := s.Repo.GetByID(ctx, userID, id)
	if err != nil {
		return "", err
	}
	if len(p.Steps) == 0 {
		return "", fmt.Errorf("%w: process has no steps", utils.ErrInvalidInput)
	}

	idx := step - 1
	if step == 0 {
		idx = p.CurrentStep
		if idx >= len(p.Steps) {
			idx = len(p.Steps) - 1
		}
	}
	if idx < 0 || idx >= len(p.Steps) {
		return "", fmt.Errorf("%w: step %d does not exist", utils.ErrInvalidInput, step)
	}

	pc := s.processContext(ctx, p, "")
	content, _ := s.Assistant.StepContent(ctx, ai.StepContext{
		ProcessType: p.Type,
		CurrentStep: idx,
		Language:    pc.Language,
		UserData: map[string]interface{}{
			"title":       p.Title,
			"description": p.Description,
			"step":        p.Steps[idx],
			"metadata":    p.Metadata,
		},
	})
	return content, nil
}

// Chat routes a question about the process through the agent coordinator.
func (s *DefaultProcessService) Chat(ctx context.Context, userID, id, query string) (models.AgentResponse, error) {
	if query == "" {
		return models.AgentResponse{}, fmt.Errorf("%w: query is required", utils.ErrInvalidInput)
	}
	p, err := s.Repo.GetByID(ctx, userID, id)
	if err != nil {
		return models.AgentResponse{}, err
	}
	return s.Coordinator.Chat(ctx, query, s.processContext(ctx, p, "")), nil
}
