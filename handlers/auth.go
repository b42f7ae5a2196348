package handlers

import (
	"net/http"

	"lefri/models"
	"lefri/services/user"
	"lefri/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AuthHandler serves sign-in, session and profile endpoints.
type AuthHandler struct {
	UserService user.UserService
}

// GoogleSignInHandler handles POST /api/auth/google.
func (h *AuthHandler) GoogleSignInHandler(c *gin.Context) {
	var req models.GoogleAuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	resp, err := h.UserService.AuthenticateGoogle(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Authentication failed")
		return
	}
	utils.GetLogger().Info("User signed in", zap.String("userID", resp.User.ID))
	c.JSON(http.StatusOK, resp)
}

// GoogleAuthURLHandler handles GET /api/auth/google/url.
func (h *AuthHandler) GoogleAuthURLHandler(c *gin.Context) {
	state := uuid.NewString()
	url, err := h.UserService.GoogleAuthURL(state)
	if err != nil {
		respondError(c, err, "Failed to build Google sign-in URL")
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url, "state": state})
}

// GoogleCallbackHandler handles GET /api/auth/google/callback.
func (h *AuthHandler) GoogleCallbackHandler(c *gin.Context) {
	if reason := c.Query("error"); reason != "" {
		utils.JSONError(c, http.StatusUnauthorized, "Google sign-in was cancelled", nil)
		return
	}
	resp, err := h.UserService.GoogleCallback(c.Request.Context(), c.Query("code"))
	if err != nil {
		respondError(c, err, "Authentication failed")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// MeHandler handles GET /api/auth/me.
func (h *AuthHandler) MeHandler(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	u, err := h.UserService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to load user")
		return
	}
	c.JSON(http.StatusOK, u)
}

// LogoutHandler handles POST /api/auth/logout.
func (h *AuthHandler) LogoutHandler(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}
	if err := h.UserService.Logout(c.Request.Context(), currentToken(c)); err != nil {
		respondError(c, err, "Failed to log out")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// UpdateProfileHandler handles PUT /api/profile.
func (h *AuthHandler) UpdateProfileHandler(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var update models.ProfileUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		bindError(c, err)
		return
	}
	u, err := h.UserService.UpdateProfile(c.Request.Context(), userID, update)
	if err != nil {
		respondError(c, err, "Failed to update profile")
		return
	}
	c.JSON(http.StatusOK, u)
}
