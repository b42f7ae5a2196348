package emergency

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"lefri/database"
	"lefri/database/repository"
	"lefri/models"
	"lefri/services/messaging"
	ai "lefri/services/intelligence"
	"lefri/utils"
)

type failingGenerator struct{}

func (failingGenerator) Generate(context.Context, string) (string, error) {
	return "", errors.New("model down")
}

func (failingGenerator) Stream(context.Context, string, func(string) error) (string, error) {
	return "", errors.New("model down")
}

type fakeWhatsApp struct {
	mu     sync.Mutex
	sent   []messaging.WhatsAppMessage
	failTo string
}

func (f *fakeWhatsApp) Send(_ context.Context, msg messaging.WhatsAppMessage) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if msg.To == f.failTo {
		return "", errors.New("gateway rejected number")
	}
	f.sent = append(f.sent, msg)
	return "msg-1", nil
}

type fakeMailer struct {
	sent []messaging.EmailMessage
	err  error
}

func (f *fakeMailer) Send(_ context.Context, msg messaging.EmailMessage) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

type fakeVoice struct{ rec *models.VoiceRecording }

func (f fakeVoice) Get(_ context.Context, userID, id string) (*models.VoiceRecording, error) {
	if f.rec == nil || f.rec.ID != id || f.rec.UserID != userID {
		return nil, database.ErrNotFound
	}
	return f.rec, nil
}

type fakePush struct{ bodies []string }

func (f *fakePush) Push(_ context.Context, _, _, body string, _ map[string]string) error {
	f.bodies = append(f.bodies, body)
	return nil
}

func newService(t *testing.T) (*DefaultEmergencyService, *repository.Repositories) {
	t.Helper()
	repos := repository.NewMemory(models.User{
		ID: "u1", Name: "Ana", Email: "ana@example.com", Language: "es", FCMToken: "device-1",
	})
	return &DefaultEmergencyService{
		Users:     repos.Users,
		Contacts:  repos.Contacts,
		Alerts:    repos.Alerts,
		Assistant: ai.NewLegalAssistant(failingGenerator{}),
		now:       func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) },
	}, repos
}

func addContact(t *testing.T, s *DefaultEmergencyService, name, phone, email string, whatsapp bool) *models.EmergencyContact {
	t.Helper()
	c, err := s.CreateContact(context.Background(), "u1", models.ContactInput{
		Name: name, Phone: phone, Email: email, Relationship: "familia", WhatsAppEnabled: &whatsapp,
	})
	if err != nil {
		t.Fatalf("CreateContact: %v", err)
	}
	return c
}

func TestTriggerNotifiesEachContactOnce(t *testing.T) {
	s, _ := newService(t)
	wa := &fakeWhatsApp{failTo: "+593000"}
	mail := &fakeMailer{}
	push := &fakePush{}
	s.WhatsApp, s.Email, s.Push = wa, mail, push

	addContact(t, s, "Luis", "+593111", "luis@example.com", true)
	addContact(t, s, "Marta", "+593000", "", true)
	addContact(t, s, "Pedro", "+593222", "", false)

	resp, err := s.Trigger(context.Background(), "u1", models.EmergencyRequest{
		Latitude: "-0.1807", Longitude: "-78.4678", Address: "Quito",
	})
	if err != nil {
		t.Fatalf("Trigger: %v", err)
	}

	if len(resp.ContactsNotified) != 3 {
		t.Fatalf("contactsNotified = %d entries, want 3", len(resp.ContactsNotified))
	}
	byName := map[string]models.ContactNotification{}
	for _, n := range resp.ContactsNotified {
		byName[n.Name] = n
	}
	if n := byName["Luis"]; n.Status != models.DeliverySent || !n.WhatsApp.Sent || !n.EmailSent.Sent {
		t.Errorf("Luis: %+v", n)
	}
	if n := byName["Marta"]; n.Status != models.DeliveryFailed || n.WhatsApp.Error == "" {
		t.Errorf("Marta: %+v", n)
	}
	if n := byName["Pedro"]; n.Status != models.DeliveryFailed || n.WhatsApp.Sent {
		t.Errorf("Pedro: %+v", n)
	}
	if resp.Status != models.AlertPartial {
		t.Errorf("status = %q, want partial", resp.Status)
	}

	if !strings.HasPrefix(resp.Message, "🚨 EMERGENCIA: Ana") {
		t.Errorf("fallback message not used: %q", resp.Message)
	}
	if resp.Location == nil || resp.Location.Latitude != -0.1807 {
		t.Errorf("location = %+v", resp.Location)
	}
	if len(wa.sent) != 1 || !strings.Contains(wa.sent[0].Message, "Ubicación: https://maps.google.com/maps?q=-0.1807,-78.4678") {
		t.Errorf("whatsapp messages: %+v", wa.sent)
	}
	if len(mail.sent) != 1 || mail.sent[0].To != "luis@example.com" {
		t.Errorf("emails: %+v", mail.sent)
	}
	if len(push.bodies) != 1 {
		t.Errorf("push confirmations: %v", push.bodies)
	}

	alerts, _ := s.ListAlerts(context.Background(), "u1")
	if len(alerts) != 1 || alerts[0].ID != resp.AlertID || alerts[0].Latitude != "-0.1807" {
		t.Errorf("alert not persisted: %+v", alerts)
	}
}

func TestTriggerStatuses(t *testing.T) {
	ctx := context.Background()

	t.Run("no contacts", func(t *testing.T) {
		s, _ := newService(t)
		resp, err := s.Trigger(ctx, "u1", models.EmergencyRequest{})
		if err != nil {
			t.Fatalf("Trigger: %v", err)
		}
		if resp.Status != models.AlertNoContacts || len(resp.ContactsNotified) != 0 || resp.Location != nil {
			t.Errorf("unexpected response %+v", resp)
		}
	})

	t.Run("all delivered", func(t *testing.T) {
		s, _ := newService(t)
		s.WhatsApp = &fakeWhatsApp{}
		addContact(t, s, "Luis", "+593111", "", true)
		addContact(t, s, "Marta", "+593222", "", true)
		resp, _ := s.Trigger(ctx, "u1", models.EmergencyRequest{})
		if resp.Status != models.AlertSent {
			t.Errorf("status = %q", resp.Status)
		}
	})

	t.Run("no channels configured", func(t *testing.T) {
		s, _ := newService(t)
		addContact(t, s, "Luis", "+593111", "luis@example.com", true)
		resp, _ := s.Trigger(ctx, "u1", models.EmergencyRequest{})
		if resp.Status != models.AlertFailed || len(resp.ContactsNotified) != 1 {
			t.Errorf("unexpected response %+v", resp)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		s, _ := newService(t)
		if _, err := s.Trigger(ctx, "ghost", models.EmergencyRequest{}); !errors.Is(err, database.ErrNotFound) {
			t.Errorf("got %v", err)
		}
	})
}

func TestTriggerAttachesVoiceNote(t *testing.T) {
	s, _ := newService(t)
	wa := &fakeWhatsApp{}
	mail := &fakeMailer{}
	s.WhatsApp, s.Email = wa, mail
	s.Voice = fakeVoice{rec: &models.VoiceRecording{
		ID: "voice_u1_1", UserID: "u1", Filename: "voice_u1_1.webm",
		Path: "/tmp/voice_u1_1.webm", URL: "/api/voice/voice_u1_1", MimeType: "audio/webm",
		RemoteURL: "https://cdn.example.com/voice/voice_u1_1.webm",
	}}
	addContact(t, s, "Luis", "+593111", "luis@example.com", true)

	if _, err := s.Trigger(context.Background(), "u1", models.EmergencyRequest{VoiceNoteID: "voice_u1_1"}); err != nil {
		t.Fatalf("Trigger: %v", err)
	}
	if len(wa.sent) != 2 || wa.sent[1].MediaURL != "https://cdn.example.com/voice/voice_u1_1.webm" {
		t.Errorf("voice note not sent over WhatsApp: %+v", wa.sent)
	}
	if len(mail.sent) != 1 || len(mail.sent[0].Attachments) != 1 {
		t.Errorf("voice note not attached: %+v", mail.sent)
	}
}

func TestTriggerSkipsWhatsAppMediaWithoutMirror(t *testing.T) {
	s, _ := newService(t)
	wa := &fakeWhatsApp{}
	mail := &fakeMailer{}
	s.WhatsApp, s.Email = wa, mail
	s.Voice = fakeVoice{rec: &models.VoiceRecording{
		ID: "voice_u1_2", UserID: "u1", Filename: "voice_u1_2.webm",
		Path: "/tmp/voice_u1_2.webm", URL: "/api/voice/voice_u1_2", MimeType: "audio/webm",
	}}
	addContact(t, s, "Luis", "+593111", "luis@example.com", true)

	resp, err := s.Trigger(context.Background(), "u1", models.EmergencyRequest{VoiceNoteID: "voice_u1_2"})
	if err != nil {
		t.Fatalf("Trigger: %v", err)
	}
	if len(wa.sent) != 1 || wa.sent[0].MediaURL != "" {
		t.Errorf("media message sent for a token-protected URL: %+v", wa.sent)
	}
	if resp.Status != models.AlertSent || len(mail.sent) != 1 || len(mail.sent[0].Attachments) != 1 {
		t.Errorf("voice note should still reach email: status %q, mail %+v", resp.Status, mail.sent)
	}
}

func TestContactCRUD(t *testing.T) {
	s, _ := newService(t)
	ctx := context.Background()

	c := addContact(t, s, "Luis", "+593111", "", true)
	if !c.WhatsAppEnabled {
		t.Error("whatsapp should default to enabled")
	}
	if _, err := s.CreateContact(ctx, "u1", models.ContactInput{Name: " ", Phone: "1", Relationship: "x"}); !errors.Is(err, utils.ErrInvalidInput) {
		t.Errorf("blank name: got %v", err)
	}

	name := "Luis Alberto"
	updated, err := s.UpdateContact(ctx, "u1", c.ID, models.ContactUpdate{Name: &name})
	if err != nil || updated.Name != name {
		t.Fatalf("UpdateContact: %+v, %v", updated, err)
	}
	if _, err := s.UpdateContact(ctx, "other", c.ID, models.ContactUpdate{Name: &name}); !errors.Is(err, database.ErrNotFound) {
		t.Errorf("foreign update: got %v", err)
	}

	if err := s.DeleteContact(ctx, "u1", c.ID); err != nil {
		t.Fatalf("DeleteContact: %v", err)
	}
	list, _ := s.ListContacts(ctx, "u1")
	if len(list) != 0 {
		t.Errorf("deleted contact still listed: %+v", list)
	}
}
