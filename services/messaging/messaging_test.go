package messaging

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestWhatsAppClientSend(t *testing.T) {
	var got sendRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/send-message" || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		_ = json.NewEncoder(w).Encode(sendResponse{MessageID: "wamid.1"})
	}))
	defer srv.Close()

	c := NewWhatsAppClient(srv.URL, "+593999999999")
	id, err := c.Send(context.Background(), WhatsAppMessage{To: "+593900000001", Message: "hola"})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if id != "wamid.1" || got.Phone != "+593900000001" || got.Message != "hola" {
		t.Errorf("id = %q request = %+v", id, got)
	}
}

func TestWhatsAppClientError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewWhatsAppClient(srv.URL, "").Send(context.Background(), WhatsAppMessage{To: "1"})
	if err == nil || !strings.Contains(err.Error(), "502") {
		t.Errorf("err = %v", err)
	}
}

type recordingSender struct {
	sent []WhatsAppMessage
	fail bool
}

func (r *recordingSender) Send(_ context.Context, msg WhatsAppMessage) (string, error) {
	r.sent = append(r.sent, msg)
	if r.fail {
		return "", context.DeadlineExceeded
	}
	return "id", nil
}

func TestSendEmergencyAddsLocationAndVoiceNote(t *testing.T) {
	s := &recordingSender{}
	err := SendEmergency(context.Background(), s, "+1", "Ayuda", "https://maps.google.com/maps?q=1,2", "https://cdn/voice.webm")
	if err != nil {
		t.Fatal(err)
	}
	if len(s.sent) != 2 {
		t.Fatalf("sent %d messages, want 2", len(s.sent))
	}
	if s.sent[0].Message != "Ayuda\n\nUbicación: https://maps.google.com/maps?q=1,2" {
		t.Errorf("text = %q", s.sent[0].Message)
	}
	if s.sent[1].MediaType != "audio" || s.sent[1].MediaURL != "https://cdn/voice.webm" {
		t.Errorf("voice message = %+v", s.sent[1])
	}
}

func TestSendEmergencySkipsVoiceNoteWhenTextFails(t *testing.T) {
	s := &recordingSender{fail: true}
	if err := SendEmergency(context.Background(), s, "+1", "Ayuda", "", "https://cdn/voice.webm"); err == nil {
		t.Fatal("expected error")
	}
	if len(s.sent) != 1 {
		t.Errorf("sent %d messages, want 1", len(s.sent))
	}
}

func TestEmergencyEmailBuild(t *testing.T) {
	msg, err := EmergencyEmail{
		To:          "ana@example.com",
		UserName:    "Luis <b>",
		Message:     "Necesito ayuda",
		HasLocation: true,
		Place:       "-0.18, -78.47",
		MapsLink:    "https://maps.google.com/maps?q=-0.18,-78.47",
		VoiceNote:   &Attachment{Filename: "nota.webm", Path: "/tmp/nota.webm", ContentType: "audio/webm"},
		SentAt:      time.Date(2024, 5, 1, 17, 0, 0, 0, time.UTC),
	}.Build()
	if err != nil {
		t.Fatal(err)
	}
	if msg.Subject != "🚨 EMERGENCIA: Luis <b> necesita ayuda inmediata" {
		t.Errorf("subject = %q", msg.Subject)
	}
	if strings.Contains(msg.HTML, "Luis <b>") {
		t.Error("user name was not escaped in the HTML body")
	}
	if !strings.Contains(msg.Text, "Google Maps: https://maps.google.com/maps?q=-0.18,-78.47") {
		t.Errorf("text = %q", msg.Text)
	}
	if !strings.Contains(msg.Text, "1/5/2024, 12:00:00") {
		t.Errorf("timestamp not in Guayaquil time: %q", msg.Text)
	}
	if len(msg.Attachments) != 1 {
		t.Errorf("attachments = %d", len(msg.Attachments))
	}
}

func TestProcessNotificationBuild(t *testing.T) {
	msg, err := ProcessNotification{
		To: "u@example.com", UserName: "Ana", ProcessType: "divorcio",
		CurrentStep: 2, TotalSteps: 8, NextStepTitle: "Selección de abogado", AppURL: "http://localhost:5000",
	}.Build()
	if err != nil {
		t.Fatal(err)
	}
	if msg.Subject != "Actualización: divorcio - Paso 3" {
		t.Errorf("subject = %q", msg.Subject)
	}
	if !strings.Contains(msg.HTML, "3 de 8") || !strings.Contains(msg.HTML, "http://localhost:5000/proceso") {
		t.Errorf("html = %s", msg.HTML)
	}
}

func TestSMTPMailerRequiresCredentials(t *testing.T) {
	m := NewSMTPMailer(SMTPConfig{})
	if err := m.Send(context.Background(), EmailMessage{To: "x@example.com"}); err != ErrEmailNotConfigured {
		t.Errorf("err = %v", err)
	}
}
