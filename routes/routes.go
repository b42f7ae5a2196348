package routes

import (
	"time"

	"lefri/config"
	"lefri/handlers"
	"lefri/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes registers sign-in and session endpoints.
func RegisterAuthRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	auth := api.Group("/auth")
	{
		auth.POST("/google", hb.GoogleSignInHandler)
		auth.GET("/google/url", hb.GoogleAuthURLHandler)
		auth.GET("/google/callback", hb.GoogleCallbackHandler)

		// Protected routes (Require Authentication)
		auth.Use(middleware.JWTAuthUserMiddleware())
		auth.GET("/me", hb.MeHandler)
		auth.POST("/logout", hb.LogoutHandler)
	}
	api.PUT("/profile", middleware.JWTAuthUserMiddleware(), hb.UpdateProfileHandler)
}

// RegisterConsultationRoutes registers the legal question endpoints.
func RegisterConsultationRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	api.GET("/constitution/topics", hb.TopicsHandler)

	protected := api.Group("")
	protected.Use(middleware.JWTAuthUserMiddleware())
	protected.POST("/ask", hb.AskHandler)
	protected.GET("/consultations", hb.ListConsultationsHandler)
}

// RegisterEmergencyRoutes registers emergency contacts and alerts.
func RegisterEmergencyRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	contacts := api.Group("/emergency-contacts")
	{
		contacts.Use(middleware.JWTAuthUserMiddleware())
		contacts.GET("", hb.ListContactsHandler)
		contacts.POST("", hb.CreateContactHandler)
		contacts.PUT("/:id", hb.UpdateContactHandler)
		contacts.DELETE("/:id", hb.DeleteContactHandler)
	}

	alerts := api.Group("/emergency")
	{
		alerts.Use(middleware.JWTAuthUserMiddleware())
		alerts.POST("", hb.TriggerEmergency)
		alerts.GET("/alerts", hb.ListAlertsHandler)
	}
}

// RegisterProcessRoutes registers legal process tracking.
func RegisterProcessRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	processes := api.Group("/processes")
	{
		processes.Use(middleware.JWTAuthUserMiddleware())
		processes.GET("", hb.ListProcessesHandler)
		processes.POST("", hb.CreateProcessHandler)
		processes.GET("/:id", hb.GetProcessHandler)
		processes.PUT("/:id", hb.UpdateProcessHandler)
		processes.PATCH("/:id", hb.UpdateProcessHandler)
		processes.DELETE("/:id", hb.DeleteProcessHandler)
		processes.PATCH("/:id/steps/:stepId", hb.ToggleStepHandler)
		processes.POST("/:id/generate-document", hb.GenerateDocumentHandler)
		processes.POST("/:id/step-content", hb.StepContentHandler)
		processes.POST("/:id/chat", hb.ProcessChatHandler)
	}
	api.GET("/process-templates", middleware.JWTAuthUserMiddleware(), hb.ProcessTemplatesHandler)
}

// RegisterVoiceRoutes registers voice note storage.
func RegisterVoiceRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	v := api.Group("/voice")
	{
		v.Use(middleware.JWTAuthUserMiddleware())
		v.POST("/upload", hb.UploadVoiceHandler)
		v.GET("/:id", hb.GetVoiceHandler)
		v.DELETE("/:id", hb.DeleteVoiceHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.HealthHandler)
}

func corsConfig() cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Authorization", "Content-Type", "Accept"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	origins := config.AllowedOrigins()
	if len(origins) == 1 && origins[0] == "*" {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	return cfg
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(corsConfig()))

	api := r.Group("/api")
	api.Use(middleware.RateLimitMiddleware(config.AppConfig.MaxRequestsPerMin))

	RegisterAuthRoutes(api, hb)
	RegisterConsultationRoutes(api, hb)
	RegisterEmergencyRoutes(api, hb)
	RegisterProcessRoutes(api, hb)
	RegisterVoiceRoutes(api, hb)
	RegisterHealthRoute(r, hb)
}
