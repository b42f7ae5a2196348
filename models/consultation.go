package models

import "time"

// Citation points at a source used to answer a question.
type Citation struct {
	Title     string `bson:"title" json:"title"`
	URL       string `bson:"url" json:"url"`
	Relevance int    `bson:"relevance" json:"relevance"`
}

// Consultation is an immutable record of one question and its answer.
type Consultation struct {
	ID         string                 `bson:"id" json:"id"`
	UserID     string                 `bson:"userId" json:"userId"`
	Query      string                 `bson:"query" json:"query"`
	Response   string                 `bson:"response" json:"response"`
	Country    string                 `bson:"country" json:"country"`
	Language   string                 `bson:"language" json:"language"`
	Citations  []Citation             `bson:"citations" json:"citations"`
	Confidence float64                `bson:"confidence" json:"confidence"`
	Metadata   map[string]interface{} `bson:"metadata,omitempty" json:"metadata,omitempty"`
	CreatedAt  time.Time              `bson:"createdAt" json:"createdAt"`
}

// AskRequest is the body of POST /api/ask.
type AskRequest struct {
	Query    string `json:"query" binding:"required,min=1"`
	Country  string `json:"country"`
	Language string `json:"language"`
	Stream   bool   `json:"stream"`
}

// Normalize fills in the default country and language.
func (r *AskRequest) Normalize() {
	if r.Country == "" {
		r.Country = DefaultCountry
	}
	if r.Language == "" {
		r.Language = DefaultLanguage
	}
}

// AskResponse is the JSON answer to POST /api/ask.
type AskResponse struct {
	Response       string     `json:"response"`
	Citations      []Citation `json:"citations"`
	Confidence     float64    `json:"confidence"`
	ConsultationID string     `json:"consultationId"`
}

// Stream event types written on the SSE channel.
const (
	EventCitations = "citations"
	EventChunk     = "chunk"
	EventComplete  = "complete"
	EventError     = "error"
)

// StreamEvent is one SSE frame of a streamed answer.
type StreamEvent struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// CitationsPayload is the data of the citations event.
type CitationsPayload struct {
	Citations []Citation `json:"citations"`
}

// CompletePayload is the data of the complete event.
type CompletePayload struct {
	Confidence     float64 `json:"confidence"`
	ConsultationID string  `json:"consultationId"`
}
