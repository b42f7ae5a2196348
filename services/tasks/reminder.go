package tasks

import (
	"encoding/json"
	"fmt"
	"time"

	"lefri/models"

	"github.com/hibiken/asynq"
)

const (
	TypeStepReminder = "process:step_reminder"
	TypeVoiceCleanup = "voice:cleanup"
)

// reminderHour is the UTC hour reminders fire on their due date.
const reminderHour = 9

// ReminderTime is 09:00 UTC of the due date. It accepts YYYY-MM-DD or
// RFC 3339.
func ReminderTime(dueDate string) (time.Time, error) {
	day, err := time.Parse("2006-01-02", dueDate)
	if err != nil {
		ts, rfcErr := time.Parse(time.RFC3339, dueDate)
		if rfcErr != nil {
			return time.Time{}, fmt.Errorf("invalid due date %q", dueDate)
		}
		day = ts.UTC()
	}
	return time.Date(day.Year(), day.Month(), day.Day(), reminderHour, 0, 0, 0, time.UTC), nil
}

// NewStepReminderTask builds the reminder task for payload. The task id is
// stable per process step and day so rescheduling does not duplicate it.
func NewStepReminderTask(payload models.StepReminderPayload) (*asynq.Task, []asynq.Option, error) {
	fireAt, err := ReminderTime(payload.DueDate)
	if err != nil {
		return nil, nil, err
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeStepReminder, b)
	opts := []asynq.Option{
		asynq.ProcessAt(fireAt),
		asynq.TaskID(fmt.Sprintf("reminder:%s:%s:%s", payload.ProcessID, payload.StepID, fireAt.Format("20060102"))),
		asynq.MaxRetry(3),
	}
	return task, opts, nil
}

// NewVoiceCleanupTask builds the periodic voice note cleanup task.
func NewVoiceCleanupTask() *asynq.Task {
	return asynq.NewTask(TypeVoiceCleanup, nil)
}
