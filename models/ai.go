package models

import "time"

// Agent kinds chosen by the intent classifier.
const (
	AgentResearch = "RESEARCH"
	AgentPlanning = "PLANNING"
	AgentDocument = "DOCUMENT"
	AgentGeneral  = "GENERAL"
)

// AgentResponse is what the process chat returns.
type AgentResponse struct {
	Response   string     `json:"response"`
	Confidence int        `json:"confidence"`
	Citations  []string   `json:"citations"`
	NextSteps  []string   `json:"nextSteps"`
	Agent      string     `json:"agent"`
}

// ConversationTurn is one message kept in the short-term conversation memory.
type ConversationTurn struct {
	Role      string    `json:"role"` // "user" or "assistant"
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Article is a constitution section returned by the Constitute search.
type Article struct {
	ConstitutionID string `json:"constitutionId"`
	SectionID      string `json:"sectionId"`
	SectionName    string `json:"sectionName"`
	Text           string `json:"text"`
}
