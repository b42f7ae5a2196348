package voice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"lefri/models"
	"lefri/utils"

	"go.uber.org/zap"
)

var (
	ErrNotFound     = errors.New("voice recording not found")
	ErrTooLarge     = errors.New("voice recording exceeds the size limit")
	ErrInvalidType  = errors.New("unsupported voice recording type")
	ErrInvalidInput = errors.New("invalid voice recording")
)

var allowedExtensions = map[string]string{
	".webm": "audio/webm",
	".ogg":  "audio/ogg",
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
	".m4a":  "audio/mp4",
	".mp4":  "audio/mp4",
}

const metaSuffix = ".json"

// Mirror publishes a local file at a public URL.
type Mirror interface {
	Upload(ctx context.Context, path, folder string) (url, publicID string, err error)
	Delete(ctx context.Context, publicID string) error
}

// Transcriber converts speech audio to text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, language string) (string, error)
}

// SaveInput is an uploaded voice note.
type SaveInput struct {
	UserID       string
	Type         string
	OriginalName string
	ContentType  string
	Body         io.Reader
	Transcribe   bool
	Language     string
}

// sidecar is persisted next to each audio file.
type sidecar struct {
	Type       string    `json:"type"`
	MimeType   string    `json:"mimeType"`
	RemoteURL  string    `json:"remoteUrl,omitempty"`
	PublicID   string    `json:"publicId,omitempty"`
	Transcript string    `json:"transcript,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Store keeps voice notes on the local filesystem.
type Store struct {
	dir         string
	maxBytes    int64
	mirror      Mirror
	transcriber Transcriber
	now         func() time.Time
	mu          sync.Mutex
}

// Option configures a Store.
type Option func(*Store)

func WithMirror(m Mirror) Option { return func(s *Store) { s.mirror = m } }

func WithTranscriber(t Transcriber) Option { return func(s *Store) { s.transcriber = t } }

func NewStore(dir string, maxBytes int64, opts ...Option) (*Store, error) {
	if dir == "" {
		dir = filepath.Join("uploads", "voice")
	}
	if maxBytes <= 0 {
		maxBytes = 10 << 20
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create voice directory: %w", err)
	}
	s := &Store{dir: dir, maxBytes: maxBytes, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// URL is the API path that serves a recording.
func URL(id string) string {
	return "/api/voice/" + id
}

// ownerOf extracts the user id from voice_<userId>_<millis>.
func ownerOf(id string) (string, bool) {
	rest, ok := strings.CutPrefix(id, "voice_")
	if !ok {
		return "", false
	}
	i := strings.LastIndex(rest, "_")
	if i <= 0 {
		return "", false
	}
	if _, err := strconv.ParseInt(rest[i+1:], 10, 64); err != nil {
		return "", false
	}
	return rest[:i], true
}

func extensionFor(name, contentType string) (string, error) {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		base := strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0])
		for e, ct := range allowedExtensions {
			if ct == base {
				ext = e
				break
			}
		}
	}
	if ext == "" {
		ext = ".webm"
	}
	if _, ok := allowedExtensions[ext]; !ok {
		return "", ErrInvalidType
	}
	return ext, nil
}

// Save writes the upload as voice_<userId>_<millis><ext>.
func (s *Store) Save(ctx context.Context, in SaveInput) (*models.VoiceRecording, error) {
	if in.UserID == "" || in.Body == nil {
		return nil, ErrInvalidInput
	}
	switch in.Type {
	case "":
		in.Type = models.VoiceEmergency
	case models.VoiceEmergency, models.VoiceConsultation, models.VoiceProcess:
	default:
		return nil, ErrInvalidInput
	}
	ext, err := extensionFor(in.OriginalName, in.ContentType)
	if err != nil {
		return nil, err
	}

	data, err := io.ReadAll(io.LimitReader(in.Body, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read voice recording: %w", err)
	}
	if int64(len(data)) > s.maxBytes {
		return nil, ErrTooLarge
	}
	if len(data) == 0 {
		return nil, ErrInvalidInput
	}

	s.mu.Lock()
	created := s.now()
	id := fmt.Sprintf("voice_%s_%d", in.UserID, created.UnixMilli())
	for s.exists(id) {
		created = created.Add(time.Millisecond)
		id = fmt.Sprintf("voice_%s_%d", in.UserID, created.UnixMilli())
	}
	filename := id + ext
	path := filepath.Join(s.dir, filename)
	err = os.WriteFile(path, data, 0o644)
	s.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("failed to save voice recording: %w", err)
	}

	meta := sidecar{Type: in.Type, MimeType: allowedExtensions[ext], CreatedAt: created}
	logger := utils.GetLogger()

	if s.mirror != nil {
		url, publicID, err := s.mirror.Upload(ctx, path, "lefri/voice")
		if err != nil {
			logger.Warn("Voice mirror upload failed", zap.String("id", id), zap.Error(err))
		} else {
			meta.RemoteURL, meta.PublicID = url, publicID
		}
	}
	if in.Transcribe && s.transcriber != nil {
		text, err := s.transcriber.Transcribe(ctx, data, in.Language)
		if err != nil {
			logger.Warn("Voice transcription failed", zap.String("id", id), zap.Error(err))
		} else {
			meta.Transcript = text
		}
	}
	if err := s.writeMeta(id, meta); err != nil {
		logger.Warn("Failed to write voice metadata", zap.String("id", id), zap.Error(err))
	}

	return s.recording(id, filename, int64(len(data)), meta), nil
}

func (s *Store) exists(id string) bool {
	matches, _ := filepath.Glob(filepath.Join(s.dir, id+".*"))
	return len(matches) > 0
}

func (s *Store) writeMeta(id string, meta sidecar) error {
	b, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.dir, id+metaSuffix), b, 0o644)
}

func (s *Store) readMeta(id string) (sidecar, bool) {
	b, err := os.ReadFile(filepath.Join(s.dir, id+metaSuffix))
	if err != nil {
		return sidecar{}, false
	}
	var meta sidecar
	if json.Unmarshal(b, &meta) != nil {
		return sidecar{}, false
	}
	return meta, true
}

func (s *Store) recording(id, filename string, size int64, meta sidecar) *models.VoiceRecording {
	owner, _ := ownerOf(id)
	return &models.VoiceRecording{
		ID:         id,
		UserID:     owner,
		Filename:   filename,
		Path:       filepath.Join(s.dir, filename),
		URL:        URL(id),
		RemoteURL:  meta.RemoteURL,
		Size:       size,
		Type:       meta.Type,
		MimeType:   meta.MimeType,
		Transcript: meta.Transcript,
		CreatedAt:  meta.CreatedAt,
	}
}

// find locates the audio file of id and rebuilds its metadata.
func (s *Store) find(id string) (*models.VoiceRecording, sidecar, error) {
	if strings.ContainsAny(id, `/\`) || strings.Contains(id, "..") {
		return nil, sidecar{}, ErrNotFound
	}
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, sidecar{}, fmt.Errorf("failed to read voice directory: %w", err)
	}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasSuffix(name, metaSuffix) {
			continue
		}
		if strings.TrimSuffix(name, filepath.Ext(name)) != id {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, sidecar{}, err
		}
		meta, ok := s.readMeta(id)
		if !ok {
			meta = sidecar{
				Type:      models.VoiceEmergency,
				MimeType:  allowedExtensions[strings.ToLower(filepath.Ext(name))],
				CreatedAt: info.ModTime(),
			}
		}
		return s.recording(id, name, info.Size(), meta), meta, nil
	}
	return nil, sidecar{}, ErrNotFound
}

// Get returns the recording if it belongs to userID.
func (s *Store) Get(_ context.Context, userID, id string) (*models.VoiceRecording, error) {
	if owner, ok := ownerOf(id); !ok || owner != userID {
		return nil, ErrNotFound
	}
	rec, _, err := s.find(id)
	return rec, err
}

// Delete removes the recording, its metadata and any mirrored copy.
func (s *Store) Delete(ctx context.Context, userID, id string) error {
	if owner, ok := ownerOf(id); !ok || owner != userID {
		return ErrNotFound
	}
	rec, meta, err := s.find(id)
	if err != nil {
		return err
	}
	return s.remove(ctx, rec, meta)
}

func (s *Store) remove(ctx context.Context, rec *models.VoiceRecording, meta sidecar) error {
	if err := os.Remove(rec.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete voice recording: %w", err)
	}
	_ = os.Remove(filepath.Join(s.dir, rec.ID+metaSuffix))
	if s.mirror != nil && meta.PublicID != "" {
		if err := s.mirror.Delete(ctx, meta.PublicID); err != nil {
			utils.GetLogger().Warn("Voice mirror delete failed", zap.String("id", rec.ID), zap.Error(err))
		}
	}
	return nil
}

// Cleanup removes recordings older than maxAge and returns how many went.
func (s *Store) Cleanup(ctx context.Context, maxAge time.Duration) (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read voice directory: %w", err)
	}
	cutoff := s.now().Add(-maxAge)
	removed := 0
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasSuffix(name, metaSuffix) {
			continue
		}
		id := strings.TrimSuffix(name, filepath.Ext(name))
		rec, meta, err := s.find(id)
		if err != nil {
			continue
		}
		if rec.CreatedAt.After(cutoff) {
			continue
		}
		if err := s.remove(ctx, rec, meta); err != nil {
			utils.GetLogger().Warn("Voice cleanup failed", zap.String("file", name), zap.Error(err))
			continue
		}
		removed++
		utils.GetLogger().Info("Cleaned up old voice recording", zap.String("file", name))
	}
	return removed, nil
}
