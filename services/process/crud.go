package process

import (
	"context"
	"fmt"
	"strings"

	"lefri/models"
	"lefri/utils"

	"go.uber.org/zap"
)

const defaultGenericSteps = 5

func (s *DefaultProcessService) List(ctx context.Context, userID string) ([]models.LegalProcess, error) {
	return s.Repo.ListByUser(ctx, userID)
}

func (s *DefaultProcessService) Get(ctx context.Context, userID, id string) (*models.LegalProcess, error) {
	return s.Repo.GetByID(ctx, userID, id)
}

func (s *DefaultProcessService) Templates() []models.ProcessTemplate {
	return models.ProcessTemplates()
}

// Create seeds steps from the template for the type when none are given.
func (s *DefaultProcessService) Create(ctx context.Context, userID string, in models.ProcessInput) (*models.LegalProcess, error) {
	if strings.TrimSpace(in.Type) == "" || strings.TrimSpace(in.Title) == "" {
		return nil, fmt.Errorf("%w: type and title are required", utils.ErrInvalidInput)
	}

	p := &models.LegalProcess{
		UserID:                 userID,
		Type:                   in.Type,
		Title:                  in.Title,
		Description:            in.Description,
		Steps:                  in.Steps,
		RequiredDocuments:      nonNil(in.RequiredDocuments),
		LegalBasis:             in.LegalBasis,
		ConstitutionalArticles: nonNil(in.ConstitutionalArticles),
		Timeline:               in.Timeline,
		Metadata:               defaultMetadata(in.Metadata),
	}

	if len(p.Steps) == 0 {
		if tmpl, ok := models.TemplateFor(in.Type); ok {
			p.Steps = tmpl.Steps
			if len(p.RequiredDocuments) == 0 {
				p.RequiredDocuments = tmpl.RequiredDocuments
			}
			if p.Timeline == "" {
				p.Timeline = tmpl.Timeline
			}
			if p.Description == "" {
				p.Description = tmpl.Description
			}
		} else {
			n := in.TotalSteps
			if n <= 0 {
				n = defaultGenericSteps
			}
			p.Steps = models.GenericSteps(n)
		}
	}
	normalizeSteps(p.Steps)
	p.TotalSteps = len(p.Steps)
	p.Recompute()
	if in.Status != "" {
		p.Status = in.Status
	}

	if err := s.Repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to create process: %w", err)
	}
	utils.GetLogger().Info("Legal process created",
		zap.String("userID", userID),
		zap.String("processID", p.ID),
		zap.String("type", p.Type),
		zap.Int("steps", p.TotalSteps),
	)
	s.scheduleNextReminder(ctx, p)
	return p, nil
}

// Update applies a partial update. Supplied steps replace the existing ones
// and progress is recomputed from them.
func (s *DefaultProcessService) Update(ctx context.Context, userID, id string, upd models.ProcessUpdate) (*models.LegalProcess, error) {
	p, err := s.Repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if upd.Type != nil {
		p.Type = *upd.Type
	}
	if upd.Title != nil {
		if strings.TrimSpace(*upd.Title) == "" {
			return nil, fmt.Errorf("%w: title cannot be empty", utils.ErrInvalidInput)
		}
		p.Title = *upd.Title
	}
	if upd.Description != nil {
		p.Description = *upd.Description
	}
	if upd.RequiredDocuments != nil {
		p.RequiredDocuments = upd.RequiredDocuments
	}
	if upd.LegalBasis != nil {
		p.LegalBasis = *upd.LegalBasis
	}
	if upd.ConstitutionalArticles != nil {
		p.ConstitutionalArticles = upd.ConstitutionalArticles
	}
	if upd.Timeline != nil {
		p.Timeline = *upd.Timeline
	}
	if upd.Metadata != nil {
		p.Metadata = defaultMetadata(upd.Metadata)
	}

	if upd.Steps != nil {
		if len(upd.Steps) == 0 {
			return nil, fmt.Errorf("%w: a process needs at least one step", utils.ErrInvalidInput)
		}
		p.Steps = upd.Steps
		normalizeSteps(p.Steps)
		p.TotalSteps = len(p.Steps)
		p.Recompute()
	} else if upd.Status != nil {
		p.Status = *upd.Status
	}

	if err := s.Repo.Update(ctx, p); err != nil {
		return nil, err
	}
	if upd.Steps != nil {
		s.scheduleNextReminder(ctx, p)
	}
	return p, nil
}

func (s *DefaultProcessService) Delete(ctx context.Context, userID, id string) error {
	if err := s.Repo.Delete(ctx, userID, id); err != nil {
		return err
	}
	utils.GetLogger().Info("Legal process deleted", zap.String("userID", userID), zap.String("processID", id))
	return nil
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}

func defaultMetadata(m *models.ProcessMetadata) models.ProcessMetadata {
	var out models.ProcessMetadata
	if m != nil {
		out = *m
	}
	if out.Priority == "" {
		out.Priority = "medium"
	}
	return out
}

// normalizeSteps fills missing ids and nil slices.
func normalizeSteps(steps []models.ProcessStep) {
	for i := range steps {
		if steps[i].ID == "" {
			steps[i].ID = fmt.Sprint(i + 1)
		}
		steps[i].Documents = nonNil(steps[i].Documents)
		steps[i].Requirements = nonNil(steps[i].Requirements)
	}
}
