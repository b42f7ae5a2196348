package models

import "time"

// Voice recording kinds.
const (
	VoiceEmergency    = "emergency"
	VoiceConsultation = "consultation"
	VoiceProcess      = "process"
)

// VoiceRecording describes an uploaded voice note stored on disk.
type VoiceRecording struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	Filename   string    `json:"filename"`
	Path       string    `json:"-"`
	URL        string    `json:"url"`
	RemoteURL  string    `json:"remoteUrl,omitempty"`
	Size       int64     `json:"size"`
	Type       string    `json:"type"`
	MimeType   string    `json:"mimeType,omitempty"`
	Transcript string    `json:"transcript,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// MediaURL is the URL handed to external channels.
func (v *VoiceRecording) MediaURL() string {
	if v.RemoteURL != "" {
		return v.RemoteURL
	}
	return v.URL
}
