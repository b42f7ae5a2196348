package handlers

import (
	"errors"
	"net/http"
	"strings"

	"lefri/models"
	"lefri/services/consultation"
	"lefri/utils"

	"github.com/gin-contrib/sse"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ConsultationHandler serves the legal question endpoints.
type ConsultationHandler struct {
	Service consultation.ConsultationService
}

func wantsStream(c *gin.Context, req models.AskRequest) bool {
	return req.Stream || strings.Contains(c.GetHeader("Accept"), "text/event-stream")
}

// AskHandler handles POST /api/ask in JSON or SSE mode.
func (h *ConsultationHandler) AskHandler(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req models.AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if wantsStream(c, req) {
		h.stream(c, userID, req)
		return
	}

	resp, err := h.Service.Ask(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err, "Failed to process consultation")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// sseWriter frames each event as a single data line. Headers go out with
// the first event so that early failures can still answer with a JSON error.
type sseWriter struct {
	c       *gin.Context
	started bool
}

func (w *sseWriter) emit(ev models.StreamEvent) error {
	if err := w.c.Request.Context().Err(); err != nil {
		return err
	}
	if !w.started {
		h := w.c.Writer.Header()
		h.Set("Content-Type", sse.ContentType)
		h.Set("Cache-Control", "no-cache")
		h.Set("Connection", "keep-alive")
		h.Set("X-Accel-Buffering", "no")
		w.c.Status(http.StatusOK)
		w.started = true
	}
	if err := sse.Encode(w.c.Writer, sse.Event{Data: ev}); err != nil {
		return err
	}
	w.c.Writer.Flush()
	return nil
}

func (h *ConsultationHandler) stream(c *gin.Context, userID string, req models.AskRequest) {
	logger := utils.GetLogger()
	w := &sseWriter{c: c}
	err := h.Service.AskStream(c.Request.Context(), userID, req, w.emit)
	switch {
	case err == nil:
	case errors.Is(err, consultation.ErrClientGone):
		logger.Info("Stream client disconnected", zap.String("userID", userID))
	case !w.started:
		respondError(c, err, "Failed to process consultation")
	default:
		logger.Error("Streaming consultation failed", zap.String("userID", userID), zap.Error(err))
	}
}

// ListConsultationsHandler handles GET /api/consultations.
func (h *ConsultationHandler) ListConsultationsHandler(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	list, err := h.Service.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to fetch consultations")
		return
	}
	c.JSON(http.StatusOK, list)
}

// TopicsHandler handles GET /api/constitution/topics.
func (h *ConsultationHandler) TopicsHandler(c *gin.Context) {
	country := c.Query("country")
	topics, err := h.Service.Topics(c.Request.Context(), country, c.DefaultQuery("language", models.DefaultLanguage))
	if err != nil {
		respondError(c, err, "Failed to fetch constitution topics")
		return
	}
	if country == "" {
		country = models.DefaultCountry
	}
	c.JSON(http.StatusOK, gin.H{"country": strings.ToUpper(country), "topics": topics})
}
