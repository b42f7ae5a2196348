package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Alert statuses.
const (
	AlertSent       = "sent"
	AlertPartial    = "partial"
	AlertFailed     = "failed"
	AlertNoContacts = "no_contacts"
)

// Per-contact delivery statuses.
const (
	DeliverySent   = "sent"
	DeliveryFailed = "failed"
)

// ChannelResult is the outcome of one delivery channel.
type ChannelResult struct {
	Sent  bool   `bson:"sent" json:"sent"`
	Error string `bson:"error,omitempty" json:"error,omitempty"`
}

// ContactNotification records how one contact was reached.
type ContactNotification struct {
	ID        string        `bson:"id" json:"id"`
	Name      string        `bson:"name" json:"name"`
	Phone     string        `bson:"phone" json:"phone"`
	Email     string        `bson:"email,omitempty" json:"email,omitempty"`
	WhatsApp  ChannelResult `bson:"whatsapp" json:"whatsapp"`
	EmailSent ChannelResult `bson:"emailSent" json:"emailSent"`
	Status    string        `bson:"status" json:"status"`
	SentAt    time.Time     `bson:"sentAt" json:"sentAt"`
}

// EmergencyAlert is an immutable record of one emergency activation.
type EmergencyAlert struct {
	ID               string                `bson:"id" json:"id"`
	UserID           string                `bson:"userId" json:"userId"`
	Latitude         string                `bson:"latitude,omitempty" json:"latitude,omitempty"`
	Longitude        string                `bson:"longitude,omitempty" json:"longitude,omitempty"`
	Address          string                `bson:"address,omitempty" json:"address,omitempty"`
	Message          string                `bson:"message" json:"message"`
	VoiceNoteID      string                `bson:"voiceNoteId,omitempty" json:"voiceNoteId,omitempty"`
	ContactsNotified []ContactNotification `bson:"contactsNotified" json:"contactsNotified"`
	Status           string                `bson:"status" json:"status"`
	CreatedAt        time.Time             `bson:"createdAt" json:"createdAt"`
}

// Coordinate accepts a JSON number or a numeric string.
type Coordinate string

func (c *Coordinate) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*c = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*c = Coordinate(s)
		return nil
	}
	var f json.Number
	if err := json.Unmarshal(b, &f); err != nil {
		return fmt.Errorf("coordinate must be a number: %w", err)
	}
	*c = Coordinate(f.String())
	return nil
}

// Float parses the coordinate; ok is false when it is empty or malformed.
func (c Coordinate) Float() (float64, bool) {
	if c == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(string(c), 64)
	return f, err == nil
}

// EmergencyRequest is the body of POST /api/emergency.
type EmergencyRequest struct {
	Latitude    Coordinate `json:"latitude"`
	Longitude   Coordinate `json:"longitude"`
	Address     string     `json:"address"`
	VoiceNoteID string     `json:"voiceNoteId"`
}

// Location is echoed back in the emergency response.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address,omitempty"`
}

// MapsLink returns a Google Maps link for the location.
func (l Location) MapsLink() string {
	return fmt.Sprintf("https://maps.google.com/maps?q=%s,%s",
		strconv.FormatFloat(l.Latitude, 'f', -1, 64),
		strconv.FormatFloat(l.Longitude, 'f', -1, 64))
}

// EmergencyResponse is returned by POST /api/emergency.
type EmergencyResponse struct {
	Status           string                `json:"status"`
	ContactsNotified []ContactNotification `json:"contactsNotified"`
	Location         *Location             `json:"location,omitempty"`
	Message          string                `json:"message"`
	AlertID          string                `json:"alertId"`
}
