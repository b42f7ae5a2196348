package handlers

import (
	"errors"
	"io"
	"net/http"

	"lefri/models"
	"lefri/services/process"

	"github.com/gin-gonic/gin"
)

// ProcessHandler serves legal process tracking and its assistant.
type ProcessHandler struct {
	Service process.ProcessService
}

// bindOptionalJSON accepts an empty body.
func bindOptionalJSON(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindJSON(obj); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (h *ProcessHandler) ListProcessesHandler(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	list, err := h.Service.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to fetch processes")
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *ProcessHandler) GetProcessHandler(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	p, err := h.Service.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to fetch process")
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProcessHandler) CreateProcessHandler(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var in models.ProcessInput
	if err := c.ShouldBindJSON(&in); err != nil {
		bindError(c, err)
		return
	}
	p, err := h.Service.Create(c.Request.Context(), userID, in)
	if err != nil {
		respondError(c, err, "Failed to create process")
		return
	}
	c.JSON(http.StatusCreated, p)
}

// UpdateProcessHandler serves both PUT and PATCH; both are partial.
func (h *ProcessHandler) UpdateProcessHandler(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var upd models.ProcessUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		bindError(c, err)
		return
	}
	p, err := h.Service.Update(c.Request.Context(), userID, c.Param("id"), upd)
	if err != nil {
		respondError(c, err, "Failed to update process")
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProcessHandler) DeleteProcessHandler(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	if err := h.Service.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, err, "Failed to delete process")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ToggleStepHandler handles PATCH /api/processes/:id/steps/:stepId.
func (h *ProcessHandler) ToggleStepHandler(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req models.StepToggle
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	p, err := h.Service.ToggleStep(c.Request.Context(), userID, c.Param("id"), c.Param("stepId"), *req.Completed)
	if err != nil {
		respondError(c, err, "Failed to update step")
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProcessHandler) GenerateDocumentHandler(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req models.DocumentRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		bindError(c, err)
		return
	}
	doc, err := h.Service.GenerateDocument(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		respondError(c, err, "Failed to generate document")
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (h *ProcessHandler) StepContentHandler(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req models.StepContentRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		bindError(c, err)
		return
	}
	content, err := h.Service.StepContent(c.Request.Context(), userID, c.Param("id"), req.Step)
	if err != nil {
		respondError(c, err, "Failed to generate step content")
		return
	}
	c.JSON(http.StatusOK, gin.H{"content": content})
}

func (h *ProcessHandler) ChatHandler(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req models.ProcessChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	resp, err := h.Service.Chat(c.Request.Context(), userID, c.Param("id"), req.Query)
	if err != nil {
		respondError(c, err, "Failed to process chat")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProcessHandler) TemplatesHandler(c *gin.Context) {
	c.JSON(http.StatusOK, h.Service.Templates())
}
