package process

import (
	"context"
	"fmt"

	"lefri/database"
	"lefri/models"
	"lefri/services/messaging"
	"lefri/utils"

	"go.uber.org/zap"
)

// ToggleStep marks one step done or not done and recomputes progress.
func (s *DefaultProcessService) ToggleStep(ctx context.Context, userID, id, stepID string, completed bool) (*models.LegalProcess, error) {
	p, err := s.Repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	idx := p.StepIndex(stepID)
	if idx < 0 {
		return nil, fmt.Errorf("step %s: %w", stepID, database.ErrNotFound)
	}

	p.Steps[idx].Completed = completed
	p.Recompute()
	if err := s.Repo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to update process: %w", err)
	}
	utils.GetLogger().Info("Process step toggled",
		zap.String("processID", p.ID),
		zap.String("stepID", stepID),
		zap.Bool("completed", completed),
		zap.Int("progress", p.Progress),
	)

	if completed {
		s.notifyProgress(ctx, p)
	}
	s.scheduleNextReminder(ctx, p)
	return p, nil
}

// notifyProgress emails the user the next step. Failures are only logged.
func (s *DefaultProcessService) notifyProgress(ctx context.Context, p *models.LegalProcess) {
	if s.Email == nil || s.Users == nil {
		return
	}
	u, err := s.Users.GetByID(ctx, p.UserID)
	if err != nil || u.Email == "" {
		return
	}
	next := "Proceso completado"
	if step := p.NextStep(); step != nil {
		next = step.Title
	}
	msg, err := messaging.ProcessNotification{
		To:            u.Email,
		UserName:      u.Name,
		ProcessType:   p.Type,
		CurrentStep:   p.CurrentStep,
		TotalSteps:    p.TotalSteps,
		NextStepTitle: next,
		AppURL:        s.AppURL,
	}.Build()
	if err == nil {
		err = s.Email.Send(ctx, msg)
	}
	if err != nil {
		utils.GetLogger().Warn("Process notification failed", zap.String("processID", p.ID), zap.Error(err))
	}
}

// scheduleNextReminder queues a reminder for the next incomplete step when it
// has a due date.
func (s *DefaultProcessService) scheduleNextReminder(ctx context.Context, p *models.LegalProcess) {
	if s.Reminders == nil {
		return
	}
	step := p.NextStep()
	if step == nil || step.DueDate == "" {
		return
	}
	err := s.Reminders.ScheduleStepReminder(ctx, models.StepReminderPayload{
		UserID:    p.UserID,
		ProcessID: p.ID,
		StepID:    step.ID,
		StepTitle: step.Title,
		DueDate:   step.DueDate,
	})
	if err != nil {
		utils.GetLogger().Warn("Failed to schedule step reminder", zap.String("processID", p.ID), zap.Error(err))
	}
}
