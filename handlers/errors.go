package handlers

import (
	"errors"
	"net/http"

	"lefri/database"
	"lefri/middleware"
	"lefri/services/voice"
	"lefri/utils"

	"github.com/gin-gonic/gin"
)

// statusFor maps service errors to HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, database.ErrNotFound), errors.Is(err, voice.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, utils.ErrInvalidInput), errors.Is(err, voice.ErrInvalidInput), errors.Is(err, voice.ErrInvalidType):
		return http.StatusBadRequest
	case errors.Is(err, voice.ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, utils.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, utils.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, utils.ErrNotConfigured):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the error body for err. Client errors carry the error
// text, server errors only the generic message.
func respondError(c *gin.Context, err error, message string) {
	status := statusFor(err)
	switch status {
	case http.StatusInternalServerError:
	case http.StatusNotFound:
		message = "Not found"
	default:
		message = err.Error()
	}
	utils.JSONError(c, status, message, err)
}

// bindError answers a request whose body failed validation.
func bindError(c *gin.Context, err error) {
	utils.JSONError(c, http.StatusBadRequest, "Invalid request: "+err.Error(), err)
}

// currentUser returns the id set by the auth middleware.
func currentUser(c *gin.Context) (string, bool) {
	id := c.GetString(utils.ContextKeyUserID)
	if id == "" {
		utils.JSONError(c, http.StatusUnauthorized, "Authorization required", nil)
		return "", false
	}
	return id, true
}

func currentToken(c *gin.Context) string {
	return c.GetString(middleware.ContextKeyToken)
}
