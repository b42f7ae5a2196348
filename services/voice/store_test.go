package voice

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"lefri/models"
)

type fakeMirror struct {
	uploads []string
	deleted []string
}

func (m *fakeMirror) Upload(_ context.Context, path, folder string) (string, string, error) {
	m.uploads = append(m.uploads, path)
	id := folder + "/" + filepath.Base(path)
	return "https://cdn.example.com/" + id, id, nil
}

func (m *fakeMirror) Delete(_ context.Context, publicID string) error {
	m.deleted = append(m.deleted, publicID)
	return nil
}

type fakeTranscriber struct{ text string }

func (f fakeTranscriber) Transcribe(context.Context, []byte, string) (string, error) {
	return f.text, nil
}

func newTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	s, err := NewStore(t.TempDir(), 1024, opts...)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	s.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return s
}

func TestSaveNamesFileByUserAndTime(t *testing.T) {
	s := newTestStore(t)
	rec, err := s.Save(context.Background(), SaveInput{
		UserID:       "user-1",
		OriginalName: "nota.webm",
		Body:         strings.NewReader("audio"),
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if rec.ID != "voice_user-1_1700000000000" {
		t.Errorf("id = %q", rec.ID)
	}
	if rec.Filename != rec.ID+".webm" || rec.URL != "/api/voice/"+rec.ID {
		t.Errorf("unexpected recording %+v", rec)
	}
	if rec.Type != models.VoiceEmergency || rec.UserID != "user-1" || rec.Size != 5 {
		t.Errorf("unexpected recording %+v", rec)
	}
	if _, err := os.Stat(rec.Path); err != nil {
		t.Errorf("file not written: %v", err)
	}

	again, err := s.Save(context.Background(), SaveInput{UserID: "user-1", Body: strings.NewReader("more")})
	if err != nil {
		t.Fatalf("second Save: %v", err)
	}
	if again.ID == rec.ID {
		t.Error("ids collided within the same millisecond")
	}
}

func TestSaveRejectsInvalidUploads(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Save(ctx, SaveInput{UserID: "u", Body: bytes.NewReader(make([]byte, 2048))})
	if !errors.Is(err, ErrTooLarge) {
		t.Errorf("oversized upload: got %v", err)
	}
	_, err = s.Save(ctx, SaveInput{UserID: "u", OriginalName: "x.exe", Body: strings.NewReader("a")})
	if !errors.Is(err, ErrInvalidType) {
		t.Errorf("bad extension: got %v", err)
	}
	_, err = s.Save(ctx, SaveInput{UserID: "u", Type: "music", Body: strings.NewReader("a")})
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("bad type: got %v", err)
	}
	_, err = s.Save(ctx, SaveInput{UserID: "u", Body: strings.NewReader("")})
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("empty body: got %v", err)
	}
}

func TestGetAndDeleteAreOwnerScoped(t *testing.T) {
	mirror := &fakeMirror{}
	s := newTestStore(t, WithMirror(mirror), WithTranscriber(fakeTranscriber{text: "ayuda"}))
	ctx := context.Background()

	rec, err := s.Save(ctx, SaveInput{
		UserID:      "owner",
		Type:        models.VoiceConsultation,
		ContentType: "audio/ogg",
		Body:        strings.NewReader("audio"),
		Transcribe:  true,
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !strings.HasSuffix(rec.Filename, ".ogg") {
		t.Errorf("extension from content type not applied: %s", rec.Filename)
	}
	if rec.Transcript != "ayuda" || rec.RemoteURL == "" {
		t.Errorf("mirror or transcript missing: %+v", rec)
	}

	if _, err := s.Get(ctx, "intruder", rec.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("other user Get: got %v", err)
	}
	got, err := s.Get(ctx, "owner", rec.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Type != models.VoiceConsultation || got.MediaURL() != rec.RemoteURL {
		t.Errorf("metadata not restored: %+v", got)
	}

	if err := s.Delete(ctx, "intruder", rec.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("other user Delete: got %v", err)
	}
	if err := s.Delete(ctx, "owner", rec.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, "owner", rec.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("deleted recording still readable: %v", err)
	}
	if len(mirror.deleted) != 1 {
		t.Errorf("mirror copy not deleted: %v", mirror.deleted)
	}
}

func TestGetRejectsTraversal(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Get(context.Background(), "u", "voice_../../etc_1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v", err)
	}
}

func TestCleanupRemovesOldRecordings(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.UnixMilli(1700000000000)

	s.now = func() time.Time { return base }
	old, _ := s.Save(ctx, SaveInput{UserID: "u", Body: strings.NewReader("old")})
	s.now = func() time.Time { return base.Add(23 * time.Hour) }
	fresh, _ := s.Save(ctx, SaveInput{UserID: "u", Body: strings.NewReader("new")})

	s.now = func() time.Time { return base.Add(25 * time.Hour) }
	removed, err := s.Cleanup(ctx, 24*time.Hour)
	if err != nil {
		t.Fatalf("Cleanup: %v", err)
	}
	if removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}
	if _, err := s.Get(ctx, "u", old.ID); !errors.Is(err, ErrNotFound) {
		t.Error("old recording survived cleanup")
	}
	if _, err := s.Get(ctx, "u", fresh.ID); err != nil {
		t.Errorf("fresh recording removed: %v", err)
	}
}
