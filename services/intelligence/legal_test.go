package ai

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"lefri/models"
)

type chunkGenerator struct {
	chunks []string
	err    error
}

func (g chunkGenerator) Generate(context.Context, string) (string, error) {
	if g.err != nil {
		return "", g.err
	}
	return strings.Join(g.chunks, ""), nil
}

func (g chunkGenerator) Stream(_ context.Context, _ string, onChunk func(string) error) (string, error) {
	if g.err != nil {
		return "", g.err
	}
	var sb strings.Builder
	for _, c := range g.chunks {
		sb.WriteString(c)
		if err := onChunk(c); err != nil {
			return sb.String(), err
		}
	}
	return sb.String(), nil
}

func TestAnswerStreamRelaysChunksInOrder(t *testing.T) {
	a := NewLegalAssistant(chunkGenerator{chunks: []string{"La ", "ley ", "dice"}})
	var got []string
	text, err := a.AnswerStream(context.Background(), LegalQuery{Query: "q", Country: "EC", Language: "es"},
		func(c string) error { got = append(got, c); return nil })
	if err != nil {
		t.Fatalf("err = %v", err)
	}
	if text != "La ley dice" || strings.Join(got, "|") != "La |ley |dice" {
		t.Errorf("text = %q chunks = %v", text, got)
	}
}

func TestAnswerStreamFallsBackOnModelFailure(t *testing.T) {
	a := NewLegalAssistant(chunkGenerator{err: errors.New("quota")})
	var got strings.Builder
	text, err := a.AnswerStream(context.Background(), LegalQuery{Query: "q"},
		func(c string) error { got.WriteString(c); return nil })
	if err == nil {
		t.Fatal("expected the model error to be returned")
	}
	if text != FallbackAnswer {
		t.Errorf("text = %q", text)
	}
	if strings.TrimSpace(got.String()) != FallbackAnswer {
		t.Errorf("streamed fallback = %q", got.String())
	}
}

func TestAnswerStreamStopsWhenClientFails(t *testing.T) {
	gone := errors.New("client gone")
	a := NewLegalAssistant(chunkGenerator{chunks: []string{"a", "b"}})
	calls := 0
	_, err := a.AnswerStream(context.Background(), LegalQuery{}, func(string) error { calls++; return gone })
	if !errors.Is(err, gone) || calls != 1 {
		t.Errorf("err = %v calls = %d", err, calls)
	}
}

func TestEmergencyMessageFallbackPerLanguage(t *testing.T) {
	a := NewLegalAssistant(nil)
	loc := models.Location{Latitude: -0.18, Longitude: -78.47}
	tests := map[string]string{
		"es": "🚨 EMERGENCIA: Ana necesita ayuda inmediata! Ubicación: -0.18, -78.47 https://maps.google.com/maps?q=-0.18,-78.47",
		"en": "🚨 EMERGENCY: Ana needs immediate help! Location: -0.18, -78.47 https://maps.google.com/maps?q=-0.18,-78.47",
		"fr": "🚨 URGENCE: Ana a besoin d'aide immédiate! Localisation: -0.18, -78.47 https://maps.google.com/maps?q=-0.18,-78.47",
	}
	for lang, want := range tests {
		msg, generated := a.EmergencyMessage(context.Background(), EmergencyContext{UserName: "Ana", Location: loc, Language: lang})
		if generated || msg != want {
			t.Errorf("%s: msg = %q generated = %v", lang, msg, generated)
		}
	}
}

func TestLegalPromptIncludesArticlesAndHistory(t *testing.T) {
	prompt := LegalPrompt(LegalQuery{
		Query:    "¿Puedo divorciarme?",
		Country:  "EC",
		Language: "en",
		Articles: []string{"Artículo: 67\nLa familia..."},
		History:  []models.ConversationTurn{{Role: "user", Content: "Hola", Timestamp: time.Now()}},
	})
	for _, want := range []string{"Responde en inglés.", "Artículo: 67", "Usuario: Hola", "Consulta legal: ¿Puedo divorciarme?", "Respuesta:"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestFallbackChunks(t *testing.T) {
	got := FallbackChunks("uno dos tres cuatro")
	if strings.Join(got, "|") != "uno dos tres |cuatro " {
		t.Errorf("chunks = %q", got)
	}
}

func TestMemoryContextStoreKeepsLastTurns(t *testing.T) {
	s := NewMemoryContextStore(time.Minute)
	ctx := context.Background()
	for i := 0; i < 12; i++ {
		if err := s.Append(ctx, "u", models.ConversationTurn{Role: "user", Content: string(rune('a' + i))}); err != nil {
			t.Fatal(err)
		}
	}
	turns, _ := s.History(ctx, "u")
	if len(turns) != maxTurns || turns[0].Content != "c" {
		t.Fatalf("turns = %d first = %q", len(turns), turns[0].Content)
	}

	now := time.Now()
	s.now = func() time.Time { return now.Add(2 * time.Minute) }
	if turns, _ := s.History(ctx, "u"); len(turns) != 0 {
		t.Errorf("expired history returned %d turns", len(turns))
	}
}
