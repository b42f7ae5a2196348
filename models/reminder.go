package models

// StepReminderPayload is queued for a process step that has a due date.
type StepReminderPayload struct {
	UserID    string `json:"userId"`
	ProcessID string `json:"processId"`
	StepID    string `json:"stepId"`
	StepTitle string `json:"stepTitle"`
	DueDate   string `json:"dueDate"` // YYYY-MM-DD or RFC 3339
}
