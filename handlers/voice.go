package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"lefri/models"
	"lefri/services/voice"
	"lefri/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// VoiceStore is the subset of *voice.Store used by the handlers.
type VoiceStore interface {
	Save(ctx context.Context, in voice.SaveInput) (*models.VoiceRecording, error)
	Get(ctx context.Context, userID, id string) (*models.VoiceRecording, error)
	Delete(ctx context.Context, userID, id string) error
}

// multipartOverhead is allowed on top of the audio limit for form fields
// and boundaries.
const multipartOverhead = 1 << 20

// VoiceHandler serves voice note uploads.
type VoiceHandler struct {
	Store    VoiceStore
	MaxBytes int64
}

// UploadHandler handles POST /api/voice/upload (multipart field "audio").
func (h *VoiceHandler) UploadHandler(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	if h.MaxBytes > 0 {
		if c.Request.ContentLength > h.MaxBytes+multipartOverhead {
			respondError(c, voice.ErrTooLarge, "Voice note too large")
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxBytes+multipartOverhead)
	}

	file, header, err := c.Request.FormFile("audio")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(c, voice.ErrTooLarge, "Voice note too large")
			return
		}
		utils.JSONError(c, http.StatusBadRequest, "No audio file provided", err)
		return
	}
	defer file.Close()

	transcribe, _ := strconv.ParseBool(c.PostForm("transcribe"))
	rec, err := h.Store.Save(c.Request.Context(), voice.SaveInput{
		UserID:       userID,
		Type:         c.PostForm("type"),
		OriginalName: header.Filename,
		ContentType:  header.Header.Get("Content-Type"),
		Body:         file,
		Transcribe:   transcribe,
		Language:     c.PostForm("language"),
	})
	if err != nil {
		respondError(c, err, "Failed to store voice note")
		return
	}
	utils.GetLogger().Info("Voice note stored",
		zap.String("userID", userID), zap.String("id", rec.ID), zap.Int64("size", rec.Size))
	c.JSON(http.StatusCreated, rec)
}

// GetHandler handles GET /api/voice/:id and streams the audio file.
func (h *VoiceHandler) GetHandler(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	rec, err := h.Store.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to read voice note")
		return
	}
	if rec.MimeType != "" {
		c.Header("Content-Type", rec.MimeType)
	}
	c.File(rec.Path)
}

// DeleteHandler handles DELETE /api/voice/:id.
func (h *VoiceHandler) DeleteHandler(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	if err := h.Store.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, err, "Failed to delete voice note")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
