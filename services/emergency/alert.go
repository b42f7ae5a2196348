package emergency

import (
	"context"
	"errors"
	"fmt"

	"lefri/models"
	"lefri/services/messaging"
	ai "lefri/services/intelligence"
	"lefri/utils"

	"go.uber.org/zap"
)

var (
	errWhatsAppUnavailable = errors.New("whatsapp is not configured")
	errEmailUnavailable    = errors.New("email is not configured")
)

// Trigger notifies every registered contact exactly once and records the
// alert. Delivery failures are reported per contact, never as an error.
func (s *DefaultEmergencyService) Trigger(ctx context.Context, userID string, req models.EmergencyRequest) (*models.EmergencyResponse, error) {
	logger := utils.GetLogger()

	user, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	contacts, err := s.Contacts.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load contacts: %w", err)
	}

	loc := location(req)
	ectx := ai.EmergencyContext{UserName: user.Name, Language: user.Language}
	if loc != nil {
		ectx.Location = *loc
	} else {
		ectx.Location = models.Location{Address: req.Address}
	}

	message, generated := s.Assistant.EmergencyMessage(ctx, ectx)
	if !generated {
		logger.Warn("Using fallback emergency message", zap.String("userID", userID))
	}

	mapsLink := ""
	if loc != nil {
		mapsLink = loc.MapsLink()
	}
	voice := s.voiceNote(ctx, userID, req.VoiceNoteID)

	notified := make([]models.ContactNotification, 0, len(contacts))
	delivered := 0
	for _, c := range contacts {
		n := s.notify(ctx, c, user, message, loc, mapsLink, voice)
		if n.Status == models.DeliverySent {
			delivered++
		}
		notified = append(notified, n)
	}

	alert := &models.EmergencyAlert{
		UserID:           userID,
		Latitude:         string(req.Latitude),
		Longitude:        string(req.Longitude),
		Address:          req.Address,
		Message:          message,
		VoiceNoteID:      req.VoiceNoteID,
		ContactsNotified: notified,
		Status:           alertStatus(len(contacts), delivered),
	}
	if err := s.Alerts.Create(ctx, alert); err != nil {
		return nil, fmt.Errorf("failed to record alert: %w", err)
	}
	logger.Info("Emergency alert processed",
		zap.String("userID", userID),
		zap.String("alertID", alert.ID),
		zap.String("status", alert.Status),
		zap.Int("contacts", len(contacts)),
		zap.Int("delivered", delivered),
	)

	s.confirmToUser(ctx, user, alert)

	return &models.EmergencyResponse{
		Status:           alert.Status,
		ContactsNotified: notified,
		Location:         loc,
		Message:          message,
		AlertID:          alert.ID,
	}, nil
}

func (s *DefaultEmergencyService) ListAlerts(ctx context.Context, userID string) ([]models.EmergencyAlert, error) {
	return s.Alerts.ListByUser(ctx, userID)
}

// location is nil unless both coordinates parse.
func location(req models.EmergencyRequest) *models.Location {
	lat, okLat := req.Latitude.Float()
	lng, okLng := req.Longitude.Float()
	if !okLat || !okLng {
		return nil
	}
	return &models.Location{Latitude: lat, Longitude: lng, Address: req.Address}
}

func alertStatus(contacts, delivered int) string {
	switch {
	case contacts == 0:
		return models.AlertNoContacts
	case delivered == contacts:
		return models.AlertSent
	case delivered == 0:
		return models.AlertFailed
	default:
		return models.AlertPartial
	}
}

func (s *DefaultEmergencyService) voiceNote(ctx context.Context, userID, id string) *models.VoiceRecording {
	if id == "" || s.Voice == nil {
		return nil
	}
	rec, err := s.Voice.Get(ctx, userID, id)
	if err != nil {
		utils.GetLogger().Warn("Voice note unavailable for alert", zap.String("voiceNoteID", id), zap.Error(err))
		return nil
	}
	return rec
}

// voiceURL is the public mirror URL of a voice note. The local
// /api/voice route needs a bearer token, so without a mirror the WhatsApp
// gateway gets no media and the note only travels as an email attachment.
func (s *DefaultEmergencyService) voiceURL(rec *models.VoiceRecording) string {
	if rec == nil {
		return ""
	}
	return rec.RemoteURL
}

func (s *DefaultEmergencyService) notify(ctx context.Context, c models.EmergencyContact, user *models.User, message string, loc *models.Location, mapsLink string, voice *models.VoiceRecording) models.ContactNotification {
	n := models.ContactNotification{
		ID:     c.ID,
		Name:   c.Name,
		Phone:  c.Phone,
		Email:  c.Email,
		SentAt: s.clock(),
	}

	if c.WhatsAppEnabled {
		n.WhatsApp = result(s.sendWhatsApp(ctx, c, message, mapsLink, voice))
	}
	if c.Email != "" {
		n.EmailSent = result(s.sendEmail(ctx, c, user, message, loc, mapsLink, voice))
	}

	n.Status = models.DeliveryFailed
	if n.WhatsApp.Sent || n.EmailSent.Sent {
		n.Status = models.DeliverySent
	}
	return n
}

func result(err error) models.ChannelResult {
	if err != nil {
		return models.ChannelResult{Error: err.Error()}
	}
	return models.ChannelResult{Sent: true}
}

func (s *DefaultEmergencyService) sendWhatsApp(ctx context.Context, c models.EmergencyContact, message, mapsLink string, voice *models.VoiceRecording) error {
	if s.WhatsApp == nil {
		return errWhatsAppUnavailable
	}
	err := messaging.SendEmergency(ctx, s.WhatsApp, c.Phone, message, mapsLink, s.voiceURL(voice))
	if err != nil {
		utils.GetLogger().Warn("WhatsApp alert failed", zap.String("contactID", c.ID), zap.Error(err))
	}
	return err
}

func (s *DefaultEmergencyService) sendEmail(ctx context.Context, c models.EmergencyContact, user *models.User, message string, loc *models.Location, mapsLink string, voice *models.VoiceRecording) error {
	if s.Email == nil {
		return errEmailUnavailable
	}
	mail := messaging.EmergencyEmail{
		To:       c.Email,
		UserName: user.Name,
		Message:  message,
		MapsLink: mapsLink,
		SentAt:   s.clock(),
	}
	if loc != nil {
		mail.HasLocation = true
		mail.Place = loc.Address
		if mail.Place == "" {
			mail.Place = fmt.Sprintf("%g, %g", loc.Latitude, loc.Longitude)
		}
	}
	if voice != nil {
		mail.VoiceNote = &messaging.Attachment{
			Filename:    voice.Filename,
			Path:        voice.Path,
			ContentType: voice.MimeType,
		}
	}
	msg, err := mail.Build()
	if err == nil {
		err = s.Email.Send(ctx, msg)
	}
	if err != nil {
		utils.GetLogger().Warn("Email alert failed", zap.String("contactID", c.ID), zap.Error(err))
	}
	return err
}

// confirmToUser pushes a confirmation to the user's own device.
func (s *DefaultEmergencyService) confirmToUser(ctx context.Context, user *models.User, alert *models.EmergencyAlert) {
	if s.Push == nil || user.FCMToken == "" {
		return
	}
	body := fmt.Sprintf("Alerta enviada a %d contacto(s)", len(alert.ContactsNotified))
	if alert.Status == models.AlertNoContacts {
		body = "No tienes contactos de emergencia registrados"
	}
	err := s.Push.Push(ctx, user.FCMToken, "🚨 Alerta de emergencia", body, map[string]string{
		"alertId": alert.ID,
		"status":  alert.Status,
	})
	if err != nil {
		utils.GetLogger().Warn("Emergency push confirmation failed", zap.String("userID", user.ID), zap.Error(err))
	}
}
