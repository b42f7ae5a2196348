package handlers

import (
	"net/http"

	"lefri/models"
	"lefri/services/emergency"

	"github.com/gin-gonic/gin"
)

// EmergencyHandler serves emergency contacts and alerts.
type EmergencyHandler struct {
	Service emergency.EmergencyService
}

func (h *EmergencyHandler) ListContactsHandler(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	contacts, err := h.Service.ListContacts(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to fetch emergency contacts")
		return
	}
	c.JSON(http.StatusOK, contacts)
}

func (h *EmergencyHandler) CreateContactHandler(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var in models.ContactInput
	if err := c.ShouldBindJSON(&in); err != nil {
		bindError(c, err)
		return
	}
	contact, err := h.Service.CreateContact(c.Request.Context(), userID, in)
	if err != nil {
		respondError(c, err, "Failed to create emergency contact")
		return
	}
	c.JSON(http.StatusCreated, contact)
}

func (h *EmergencyHandler) UpdateContactHandler(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var update models.ContactUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		bindError(c, err)
		return
	}
	contact, err := h.Service.UpdateContact(c.Request.Context(), userID, c.Param("id"), update)
	if err != nil {
		respondError(c, err, "Failed to update emergency contact")
		return
	}
	c.JSON(http.StatusOK, contact)
}

func (h *EmergencyHandler) DeleteContactHandler(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	if err := h.Service.DeleteContact(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, err, "Failed to delete emergency contact")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// TriggerHandler handles POST /api/emergency. Delivery failures are reported
// per contact in the body; only a missing user or a storage error fails the
// request.
func (h *EmergencyHandler) TriggerHandler(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req models.EmergencyRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		bindError(c, err)
		return
	}
	resp, err := h.Service.Trigger(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err, "Failed to send emergency alert")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *EmergencyHandler) ListAlertsHandler(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	alerts, err := h.Service.ListAlerts(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to fetch emergency alerts")
		return
	}
	c.JSON(http.StatusOK, alerts)
}
