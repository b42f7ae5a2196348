package models

import (
	"math"
	"time"
)

// Process statuses.
const (
	ProcessPending    = "pending"
	ProcessInProgress = "in_progress"
	ProcessCompleted  = "completed"
)

// ProcessStep is one ordered step of a legal process.
type ProcessStep struct {
	ID           string   `bson:"id" json:"id"`
	Title        string   `bson:"title" json:"title"`
	Description  string   `bson:"description" json:"description"`
	Completed    bool     `bson:"completed" json:"completed"`
	DueDate      string   `bson:"dueDate,omitempty" json:"dueDate,omitempty"`
	Documents    []string `bson:"documents" json:"documents"`
	Requirements []string `bson:"requirements" json:"requirements"`
}

// ProcessMetadata holds free-form case details.
type ProcessMetadata struct {
	Priority      string `bson:"priority" json:"priority"`
	CaseNumber    string `bson:"caseNumber" json:"caseNumber"`
	Court         string `bson:"court" json:"court"`
	Judge         string `bson:"judge" json:"judge"`
	OpposingParty string `bson:"opposingParty" json:"opposingParty"`
	Amount        string `bson:"amount" json:"amount"`
	Deadline      string `bson:"deadline" json:"deadline"`
}

// LegalProcess tracks a user's multi-step legal procedure.
type LegalProcess struct {
	ID                     string          `bson:"id" json:"id"`
	UserID                 string          `bson:"userId" json:"userId"`
	Type                   string          `bson:"type" json:"type"`
	Title                  string          `bson:"title" json:"title"`
	Description            string          `bson:"description" json:"description"`
	Status                 string          `bson:"status" json:"status"`
	Progress               int             `bson:"progress" json:"progress"`
	CurrentStep            int             `bson:"currentStep" json:"currentStep"`
	TotalSteps             int             `bson:"totalSteps" json:"totalSteps"`
	Steps                  []ProcessStep   `bson:"steps" json:"steps"`
	RequiredDocuments      []string        `bson:"requiredDocuments" json:"requiredDocuments"`
	LegalBasis             string          `bson:"legalBasis" json:"legalBasis"`
	ConstitutionalArticles []string        `bson:"constitutionalArticles" json:"constitutionalArticles"`
	Timeline               string          `bson:"timeline" json:"timeline"`
	Metadata               ProcessMetadata `bson:"metadata" json:"metadata"`
	CreatedAt              time.Time       `bson:"createdAt" json:"createdAt"`
	UpdatedAt              time.Time       `bson:"updatedAt" json:"updatedAt"`
}

// Recompute derives Progress, Status and CurrentStep from the steps.
func (p *LegalProcess) Recompute() {
	total := len(p.Steps)
	if total == 0 {
		p.Progress = 0
		p.CurrentStep = 0
		p.Status = ProcessPending
		return
	}

	completed := 0
	p.CurrentStep = total
	for i, s := range p.Steps {
		if s.Completed {
			completed++
		} else if p.CurrentStep == total {
			p.CurrentStep = i
		}
	}

	p.Progress = int(math.Round(float64(completed) / float64(total) * 100))
	switch {
	case p.Progress == 100:
		p.Status = ProcessCompleted
	case p.Progress > 0:
		p.Status = ProcessInProgress
	default:
		p.Status = ProcessPending
	}
}

// StepIndex returns the position of the step with the given id, or -1.
func (p *LegalProcess) StepIndex(stepID string) int {
	for i, s := range p.Steps {
		if s.ID == stepID {
			return i
		}
	}
	return -1
}

// NextStep returns the first incomplete step, or nil when all are done.
func (p *LegalProcess) NextStep() *ProcessStep {
	for i := range p.Steps {
		if !p.Steps[i].Completed {
			return &p.Steps[i]
		}
	}
	return nil
}

// ProcessInput is the body of POST /api/processes.
type ProcessInput struct {
	Type                   string           `json:"type" binding:"required,min=1"`
	Title                  string           `json:"title" binding:"required,min=1"`
	Description            string           `json:"description"`
	Status                 string           `json:"status" binding:"omitempty,oneof=pending in_progress completed"`
	CurrentStep            int              `json:"currentStep" binding:"min=0"`
	TotalSteps             int              `json:"totalSteps" binding:"omitempty,min=1"`
	Steps                  []ProcessStep    `json:"steps"`
	RequiredDocuments      []string         `json:"requiredDocuments"`
	LegalBasis             string           `json:"legalBasis"`
	ConstitutionalArticles []string         `json:"constitutionalArticles"`
	Timeline               string           `json:"timeline"`
	Metadata               *ProcessMetadata `json:"metadata"`
}

// ProcessUpdate is a partial update of a process. Supplying Steps triggers
// a recompute of progress and status.
type ProcessUpdate struct {
	Type                   *string          `json:"type" binding:"omitempty,min=1"`
	Title                  *string          `json:"title" binding:"omitempty,min=1"`
	Description            *string          `json:"description"`
	Status                 *string          `json:"status" binding:"omitempty,oneof=pending in_progress completed"`
	Steps                  []ProcessStep    `json:"steps"`
	RequiredDocuments      []string         `json:"requiredDocuments"`
	LegalBasis             *string          `json:"legalBasis"`
	ConstitutionalArticles []string         `json:"constitutionalArticles"`
	Timeline               *string          `json:"timeline"`
	Metadata               *ProcessMetadata `json:"metadata"`
}

// StepToggle is the body of PATCH /api/processes/:id/steps/:stepId.
type StepToggle struct {
	Completed *bool `json:"completed" binding:"required"`
}

// DocumentRequest is the body of POST /api/processes/:id/generate-document.
type DocumentRequest struct {
	Country string `json:"country"`
}

// DocumentResponse is returned by the document generator.
type DocumentResponse struct {
	Content   string `json:"content"`
	ProcessID string `json:"processId"`
	Title     string `json:"title"`
}

// StepContentRequest is the body of POST /api/processes/:id/step-content.
// Step is the 1-based step number; zero means the current step.
type StepContentRequest struct {
	Step int `json:"step" binding:"min=0"`
}

// ProcessChatRequest is the body of POST /api/processes/:id/chat.
type ProcessChatRequest struct {
	Query string `json:"query" binding:"required,min=1"`
}
