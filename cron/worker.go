package cron

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"lefri/config"
	"lefri/database"
	"lefri/database/repository"
	"lefri/models"
	"lefri/services/messaging"
	"lefri/services/tasks"
	"lefri/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const (
	cleanupInterval = time.Hour
	cleanupCronSpec = "@every 1h"
)

// VoiceCleaner removes voice notes older than maxAge.
type VoiceCleaner interface {
	Cleanup(ctx context.Context, maxAge time.Duration) (int, error)
}

// Deps are the collaborators of the background tasks. Email is optional.
type Deps struct {
	Voice       VoiceCleaner
	VoiceMaxAge time.Duration
	Users       repository.UserRepository
	Processes   repository.ProcessRepository
	Email       messaging.EmailSender
	AppURL      string
}

// RedisOpt is the asynq connection for the queue database.
func RedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// NewServeMux routes every task type to its handler.
func NewServeMux(d Deps) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeVoiceCleanup, handleVoiceCleanup(d))
	mux.HandleFunc(tasks.TypeStepReminder, handleStepReminder(d))
	return mux
}

func handleVoiceCleanup(d Deps) asynq.HandlerFunc {
	return func(ctx context.Context, _ *asynq.Task) error {
		removed, err := d.Voice.Cleanup(ctx, d.VoiceMaxAge)
		if err != nil {
			utils.GetLogger().Error("Voice cleanup failed", zap.Error(err))
			return err
		}
		utils.GetLogger().Info("Voice cleanup finished", zap.Int("removed", removed))
		return nil
	}
}

func handleStepReminder(d Deps) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		logger := utils.GetLogger()
		var p models.StepReminderPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("Invalid step reminder payload", zap.Error(err))
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		if d.Email == nil {
			logger.Info("Email not configured, dropping step reminder", zap.String("processID", p.ProcessID))
			return nil
		}

		proc, err := d.Processes.GetByID(ctx, p.UserID, p.ProcessID)
		if errors.Is(err, database.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		var step *models.ProcessStep
		for i := range proc.Steps {
			if proc.Steps[i].ID == p.StepID {
				step = &proc.Steps[i]
			}
		}
		if step == nil || step.Completed {
			logger.Debug("Step gone or completed, skipping reminder",
				zap.String("processID", p.ProcessID), zap.String("stepID", p.StepID))
			return nil
		}

		user, err := d.Users.GetByID(ctx, p.UserID)
		if errors.Is(err, database.ErrNotFound) || (err == nil && user.Email == "") {
			return nil
		}
		if err != nil {
			return err
		}

		msg, err := messaging.StepReminder{
			To:           user.Email,
			UserName:     user.Name,
			ProcessTitle: proc.Title,
			StepTitle:    step.Title,
			DueDate:      p.DueDate,
			AppURL:       d.AppURL,
		}.Build()
		if err != nil {
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		if err := d.Email.Send(ctx, msg); err != nil {
			logger.Warn("Step reminder email failed", zap.String("processID", p.ProcessID), zap.Error(err))
			return err
		}
		logger.Info("Step reminder sent", zap.String("processID", p.ProcessID), zap.String("stepID", p.StepID))
		return nil
	}
}

// ReminderQueue enqueues step reminders on asynq.
type ReminderQueue struct {
	client *asynq.Client
	now    func() time.Time
}

func NewReminderQueue(client *asynq.Client) *ReminderQueue {
	return &ReminderQueue{client: client, now: time.Now}
}

// ScheduleStepReminder queues the reminder for 09:00 UTC of the due date.
// Due dates already past are ignored.
func (q *ReminderQueue) ScheduleStepReminder(ctx context.Context, payload models.StepReminderPayload) error {
	fireAt, err := tasks.ReminderTime(payload.DueDate)
	if err != nil {
		return err
	}
	if fireAt.Before(q.now()) {
		return nil
	}
	task, opts, err := tasks.NewStepReminderTask(payload)
	if err != nil {
		return err
	}
	info, err := q.client.EnqueueContext(ctx, task, opts...)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to enqueue step reminder: %w", err)
	}
	utils.GetLogger().Info("Step reminder scheduled",
		zap.String("taskID", info.ID), zap.Time("processAt", fireAt))
	return nil
}

// Start runs the background jobs until the returned stop function is called.
// With Redis configured the asynq worker and the periodic scheduler run;
// otherwise a ticker goroutine performs the voice cleanup.
func Start(ctx context.Context, d Deps) (stop func()) {
	if config.AppConfig.RedisAddr == "" {
		utils.GetLogger().Info("Redis not configured, running voice cleanup on a ticker")
		ctx, cancel := context.WithCancel(ctx)
		go runCleanupTicker(ctx, d, cleanupInterval)
		return cancel
	}

	srv := asynq.NewServer(RedisOpt(), asynq.Config{
		Concurrency: 10,
		Queues:      map[string]int{"default": 1},
	})
	scheduler := asynq.NewScheduler(RedisOpt(), &asynq.SchedulerOpts{Location: time.UTC})
	if _, err := scheduler.Register(cleanupCronSpec, tasks.NewVoiceCleanupTask()); err != nil {
		utils.GetLogger().Error("Failed to register voice cleanup", zap.Error(err))
	}

	go func() {
		logger := utils.GetLogger()
		const maxAttempts = 5
		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := srv.Start(NewServeMux(d))
			if err == nil {
				logger.Info("Background worker started")
				break
			}
			logger.Warn("Failed to start background worker",
				zap.Int("attempt", attempts), zap.Int("maxAttempts", maxAttempts), zap.Error(err))
			if attempts == maxAttempts {
				logger.Error("Background worker gave up; reminders and cleanup are disabled")
				return
			}
			time.Sleep(time.Duration(attempts*2) * time.Second)
		}
		if err := scheduler.Start(); err != nil {
			logger.Error("Failed to start task scheduler", zap.Error(err))
		}
	}()

	return func() {
		scheduler.Shutdown()
		srv.Shutdown()
	}
}

func runCleanupTicker(ctx context.Context, d Deps, every time.Duration) {
	cleanup := handleVoiceCleanup(d)
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = cleanup(ctx, tasks.NewVoiceCleanupTask())
		}
	}
}
