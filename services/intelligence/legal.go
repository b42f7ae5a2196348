package ai

import (
	"context"
	"errors"
	"strings"

	"lefri/utils"

	"go.uber.org/zap"
)

// LegalAssistant turns legal prompts into answers and degrades to canned
// text whenever the model fails.
type LegalAssistant struct {
	gen TextGenerator
}

func NewLegalAssistant(gen TextGenerator) *LegalAssistant {
	if gen == nil {
		gen = Unavailable()
	}
	return &LegalAssistant{gen: gen}
}

// Answer returns the model's answer, or FallbackAnswer together with the cause.
func (a *LegalAssistant) Answer(ctx context.Context, q LegalQuery) (string, error) {
	text, err := a.gen.Generate(ctx, LegalPrompt(q))
	if err != nil {
		utils.GetLogger().Error("Legal answer generation failed", zap.Error(err))
		return FallbackAnswer, err
	}
	return text, nil
}

// clientError marks failures of the chunk sink so they are not mistaken for
// model failures.
type clientError struct{ err error }

func (c clientError) Error() string { return c.err.Error() }
func (c clientError) Unwrap() error { return c.err }

// AnswerStream relays model chunks to onChunk in arrival order. When the
// model fails, the fallback answer is relayed instead and the model error is
// returned alongside it. A failing onChunk aborts without fallback.
func (a *LegalAssistant) AnswerStream(ctx context.Context, q LegalQuery, onChunk func(string) error) (string, error) {
	text, err := a.gen.Stream(ctx, LegalPrompt(q), func(chunk string) error {
		if err := onChunk(chunk); err != nil {
			return clientError{err}
		}
		return nil
	})
	if err == nil {
		return text, nil
	}

	var ce clientError
	if errors.As(err, &ce) {
		return text, ce.err
	}

	utils.GetLogger().Error("Legal answer streaming failed", zap.Error(err))
	for _, chunk := range FallbackChunks(FallbackAnswer) {
		if cerr := onChunk(chunk); cerr != nil {
			return FallbackAnswer, cerr
		}
	}
	return FallbackAnswer, err
}

// EmergencyMessage asks the model for an alert text and falls back to a
// fixed per-language message. generated reports whether the model answered.
func (a *LegalAssistant) EmergencyMessage(ctx context.Context, e EmergencyContext) (msg string, generated bool) {
	text, err := a.gen.Generate(ctx, EmergencyPrompt(e))
	text = strings.TrimSpace(text)
	if err != nil || text == "" {
		if err != nil {
			utils.GetLogger().Warn("Emergency message generation failed, using fallback", zap.Error(err))
		}
		return FallbackEmergencyMessage(e), false
	}
	return text, true
}

// StepContent writes the HTML guidance for one process step.
func (a *LegalAssistant) StepContent(ctx context.Context, s StepContext) (string, error) {
	text, err := a.gen.Generate(ctx, ProcessStepPrompt(s))
	if err != nil {
		utils.GetLogger().Error("Step content generation failed", zap.Error(err))
		return FallbackProcessStep, err
	}
	return text, nil
}

// Document drafts the legal document for a process.
func (a *LegalAssistant) Document(ctx context.Context, p ProcessContext) (string, error) {
	query := "Genera el documento legal principal para este proceso."
	text, err := a.gen.Generate(ctx, DocumentPrompt(query, p))
	if err != nil {
		utils.GetLogger().Error("Document generation failed", zap.Error(err))
		return FallbackDocument, err
	}
	return text, nil
}

// FallbackChunks splits text into groups of three words, each followed by a
// space, so canned answers stream like model output.
func FallbackChunks(text string) []string {
	words := strings.Fields(text)
	var chunks []string
	for i := 0; i < len(words); i += 3 {
		end := i + 3
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[i:end], " ")+" ")
	}
	return chunks
}
