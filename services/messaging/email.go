package messaging

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"time"

	"gopkg.in/gomail.v2"
)

// ErrEmailNotConfigured is returned when SMTP credentials are missing.
var ErrEmailNotConfigured = errors.New("smtp is not configured")

// Attachment is a file attached to an email.
type Attachment struct {
	Filename    string
	Path        string
	ContentType string
}

// EmailMessage is a multipart text and HTML email.
type EmailMessage struct {
	To          string
	Subject     string
	Text        string
	HTML        string
	Attachments []Attachment
}

// EmailSender delivers emails.
type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// SMTPConfig holds the SMTP server settings.
type SMTPConfig struct {
	Host string
	Port int
	User string
	Pass string
}

// SMTPMailer sends email through an SMTP server with gomail.
type SMTPMailer struct {
	cfg    SMTPConfig
	dialer *gomail.Dialer
}

func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	if cfg.Host == "" {
		cfg.Host = "smtp.gmail.com"
	}
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	return &SMTPMailer{cfg: cfg, dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Pass)}
}

func (m *SMTPMailer) Configured() bool {
	return m.cfg.User != "" && m.cfg.Pass != ""
}

func (m *SMTPMailer) Send(ctx context.Context, msg EmailMessage) error {
	if !m.Configured() {
		return ErrEmailNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	gm := gomail.NewMessage()
	gm.SetHeader("From", m.cfg.User)
	gm.SetHeader("To", msg.To)
	gm.SetHeader("Subject", msg.Subject)
	gm.SetBody("text/plain", msg.Text)
	if msg.HTML != "" {
		gm.AddAlternative("text/html", msg.HTML)
	}
	for _, a := range msg.Attachments {
		settings := []gomail.FileSetting{gomail.Rename(a.Filename)}
		if a.ContentType != "" {
			settings = append(settings, gomail.SetHeader(map[string][]string{"Content-Type": {a.ContentType}}))
		}
		gm.Attach(a.Path, settings...)
	}

	if err := m.dialer.DialAndSend(gm); err != nil {
		return fmt.Errorf("smtp send failed: %w", err)
	}
	return nil
}

var guayaquil = func() *time.Location {
	loc, err := time.LoadLocation("America/Guayaquil")
	if err != nil {
		return time.FixedZone("ECT", -5*60*60)
	}
	return loc
}()

var emergencyTmpl = template.Must(template.New("emergency").Parse(`<html>
  <body style="font-family: Arial, sans-serif; margin: 0; padding: 20px;">
    <div style="background-color: #fee2e2; border: 1px solid #fecaca; border-radius: 8px; padding: 20px; margin-bottom: 20px;">
      <h1 style="color: #dc2626; margin: 0 0 10px 0;">🚨 ALERTA DE EMERGENCIA</h1>
      <p style="color: #991b1b; font-size: 16px; margin: 0;"><strong>{{.UserName}}</strong> ha activado una alerta de emergencia.</p>
    </div>
    <div style="background-color: #f9fafb; border-radius: 8px; padding: 20px; margin-bottom: 20px;">
      <h2 style="color: #374151; margin: 0 0 15px 0;">Mensaje:</h2>
      <p style="color: #6b7280; font-size: 14px; line-height: 1.5;">{{.Message}}</p>
    </div>
    {{- if .HasLocation}}
    <div style="background-color: #ecfdf5; border: 1px solid #bbf7d0; border-radius: 8px; padding: 20px; margin-bottom: 20px;">
      <h2 style="color: #065f46; margin: 0 0 15px 0;">📍 Ubicación:</h2>
      <p style="color: #047857; margin: 0 0 10px 0;">{{.Place}}</p>
      <a href="{{.MapsLink}}" style="background-color: #10b981; color: white; padding: 10px 20px; text-decoration: none; border-radius: 6px; display: inline-block;">Ver en Google Maps</a>
    </div>
    {{- end}}
    <div style="color: #6b7280; font-size: 12px; margin-top: 30px; padding-top: 20px; border-top: 1px solid #e5e7eb;">
      <p>Esta es una alerta automática enviada por LeFriAI.</p>
      <p>Fecha y hora: {{.SentAt}}</p>
    </div>
  </body>
</html>`))

// EmergencyEmail describes the alert sent to one contact.
type EmergencyEmail struct {
	To          string
	UserName    string
	Message     string
	HasLocation bool
	Place       string // address, or "lat, lng" without one
	MapsLink    string
	VoiceNote   *Attachment
	SentAt      time.Time
}

// Build renders the emergency email.
func (e EmergencyEmail) Build() (EmailMessage, error) {
	sentAt := e.SentAt
	if sentAt.IsZero() {
		sentAt = time.Now()
	}
	stamp := sentAt.In(guayaquil).Format("2/1/2006, 15:04:05")

	var html bytes.Buffer
	err := emergencyTmpl.Execute(&html, struct {
		EmergencyEmail
		SentAt string
	}{e, stamp})
	if err != nil {
		return EmailMessage{}, err
	}

	text := fmt.Sprintf("ALERTA DE EMERGENCIA\n\n%s ha activado una alerta de emergencia.\n\nMensaje: %s\n\n", e.UserName, e.Message)
	if e.HasLocation {
		text += fmt.Sprintf("Ubicación: %s\nGoogle Maps: %s", e.Place, e.MapsLink)
	}
	text += "\n\nFecha y hora: " + stamp

	msg := EmailMessage{
		To:      e.To,
		Subject: fmt.Sprintf("🚨 EMERGENCIA: %s necesita ayuda inmediata", e.UserName),
		Text:    text,
		HTML:    html.String(),
	}
	if e.VoiceNote != nil {
		msg.Attachments = []Attachment{*e.VoiceNote}
	}
	return msg, nil
}

var processTmpl = template.Must(template.New("process").Parse(`<html>
  <body style="font-family: Arial, sans-serif; margin: 0; padding: 20px;">
    <div style="background-color: #eff6ff; border: 1px solid #bfdbfe; border-radius: 8px; padding: 20px; margin-bottom: 20px;">
      <h1 style="color: #1d4ed8; margin: 0 0 10px 0;">📋 Actualización de Proceso Legal</h1>
      <p style="color: #1e40af; font-size: 16px; margin: 0;">Hola <strong>{{.UserName}}</strong>, tu proceso legal ha sido actualizado.</p>
    </div>
    <div style="background-color: #f9fafb; border-radius: 8px; padding: 20px;">
      <h2 style="color: #374151; margin: 0 0 15px 0;">Detalles del Proceso:</h2>
      <ul style="color: #6b7280; line-height: 1.6;">
        <li><strong>Tipo:</strong> {{.ProcessType}}</li>
        <li><strong>Paso actual:</strong> {{.StepNumber}} de {{.TotalSteps}}</li>
        <li><strong>Siguiente paso:</strong> {{.NextStepTitle}}</li>
      </ul>
      <div style="margin-top: 20px;">
        <a href="{{.AppURL}}/proceso" style="background-color: #3b82f6; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; display: inline-block;">Continuar Proceso</a>
      </div>
    </div>
  </body>
</html>`))

// ProcessNotification tells a user their process moved forward.
// CurrentStep is 0-based.
type ProcessNotification struct {
	To            string
	UserName      string
	ProcessType   string
	CurrentStep   int
	TotalSteps    int
	NextStepTitle string
	AppURL        string
}

func (p ProcessNotification) Build() (EmailMessage, error) {
	var html bytes.Buffer
	err := processTmpl.Execute(&html, struct {
		ProcessNotification
		StepNumber int
	}{p, p.CurrentStep + 1})
	if err != nil {
		return EmailMessage{}, err
	}

	return EmailMessage{
		To:      p.To,
		Subject: fmt.Sprintf("Actualización: %s - Paso %d", p.ProcessType, p.CurrentStep+1),
		HTML:    html.String(),
		Text: fmt.Sprintf("Actualización de Proceso Legal\n\nHola %s,\n\nTu proceso \"%s\" ha sido actualizado.\nPaso actual: %d de %d\nSiguiente paso: %s\n\nAccede a LeFriAI para continuar.",
			p.UserName, p.ProcessType, p.CurrentStep+1, p.TotalSteps, p.NextStepTitle),
	}, nil
}

var reminderTmpl = template.Must(template.New("reminder").Parse(`<html>
  <body style="font-family: Arial, sans-serif; margin: 0; padding: 20px;">
    <div style="background-color: #fffbeb; border: 1px solid #fde68a; border-radius: 8px; padding: 20px;">
      <h1 style="color: #b45309; margin: 0 0 10px 0;">⏰ Recordatorio de Proceso Legal</h1>
      <p style="color: #92400e; font-size: 16px;">Hola <strong>{{.UserName}}</strong>, el paso <strong>{{.StepTitle}}</strong> de tu proceso "{{.ProcessTitle}}" vence el {{.DueDate}}.</p>
      <a href="{{.AppURL}}/proceso" style="background-color: #f59e0b; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; display: inline-block;">Ver Proceso</a>
    </div>
  </body>
</html>`))

// StepReminder warns a user that a process step is due.
type StepReminder struct {
	To           string
	UserName     string
	ProcessTitle string
	StepTitle    string
	DueDate      string
	AppURL       string
}

func (r StepReminder) Build() (EmailMessage, error) {
	var html bytes.Buffer
	if err := reminderTmpl.Execute(&html, r); err != nil {
		return EmailMessage{}, err
	}
	return EmailMessage{
		To:      r.To,
		Subject: fmt.Sprintf("Recordatorio: %s vence el %s", r.StepTitle, r.DueDate),
		HTML:    html.String(),
		Text: fmt.Sprintf("Recordatorio de Proceso Legal\n\nHola %s,\n\nEl paso \"%s\" de tu proceso \"%s\" vence el %s.\n\nAccede a LeFriAI para continuar.",
			r.UserName, r.StepTitle, r.ProcessTitle, r.DueDate),
	}, nil
}
