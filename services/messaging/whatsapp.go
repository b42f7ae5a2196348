package messaging

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const voiceNoteCaption = "🎤 Nota de voz de emergencia:"

// WhatsAppMessage is one message handed to the WhatsApp gateway.
type WhatsAppMessage struct {
	To        string
	Message   string
	MediaURL  string
	MediaType string // image, audio, video or document
}

// WhatsAppSender delivers WhatsApp messages and returns the gateway message id.
type WhatsAppSender interface {
	Send(ctx context.Context, msg WhatsAppMessage) (string, error)
}

// WhatsAppClient posts to the gateway's /send-message endpoint.
type WhatsAppClient struct {
	apiURL      string
	phoneNumber string
	http        *http.Client
}

func NewWhatsAppClient(apiURL, phoneNumber string) *WhatsAppClient {
	if apiURL == "" {
		apiURL = "http://localhost:3001"
	}
	return &WhatsAppClient{
		apiURL:      apiURL,
		phoneNumber: phoneNumber,
		http:        &http.Client{Timeout: 15 * time.Second},
	}
}

// Configured reports whether a sender number is set.
func (c *WhatsAppClient) Configured() bool {
	return c.apiURL != "" && c.phoneNumber != ""
}

type sendRequest struct {
	Phone     string `json:"phone"`
	Message   string `json:"message"`
	MediaURL  string `json:"mediaUrl,omitempty"`
	MediaType string `json:"mediaType,omitempty"`
}

type sendResponse struct {
	MessageID string `json:"messageId"`
}

func (c *WhatsAppClient) Send(ctx context.Context, msg WhatsAppMessage) (string, error) {
	body, err := json.Marshal(sendRequest{
		Phone:     msg.To,
		Message:   msg.Message,
		MediaURL:  msg.MediaURL,
		MediaType: msg.MediaType,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+"/send-message", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("whatsapp request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("whatsapp API error: %d", resp.StatusCode)
	}
	var out sendResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode whatsapp response: %w", err)
	}
	return out.MessageID, nil
}

// EmergencyText appends the location line to an alert message.
func EmergencyText(message, mapsLink string) string {
	if mapsLink == "" {
		return message
	}
	return message + "\n\nUbicación: " + mapsLink
}

// SendEmergency sends the alert text and, when the text went through and a
// voice note is available, the voice note as an audio message.
func SendEmergency(ctx context.Context, s WhatsAppSender, phone, message, mapsLink, voiceURL string) error {
	if _, err := s.Send(ctx, WhatsAppMessage{To: phone, Message: EmergencyText(message, mapsLink)}); err != nil {
		return err
	}
	if voiceURL != "" {
		// the alert already went out; a failed voice note does not fail the contact
		_, _ = s.Send(ctx, WhatsAppMessage{
			To:        phone,
			Message:   voiceNoteCaption,
			MediaURL:  voiceURL,
			MediaType: "audio",
		})
	}
	return nil
}
