package handlers

import (
	"lefri/services/consultation"
	"lefri/services/emergency"
	"lefri/services/process"
	"lefri/services/user"

	"github.com/gin-gonic/gin"
)

// Services are the collaborators the handlers are built from.
type Services struct {
	Users         user.UserService
	Consultations consultation.ConsultationService
	Emergency     emergency.EmergencyService
	Processes     process.ProcessService
	Voice         VoiceStore
	VoiceMaxBytes int64
}

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// Auth endpoints
	GoogleSignInHandler   gin.HandlerFunc
	GoogleAuthURLHandler  gin.HandlerFunc
	GoogleCallbackHandler gin.HandlerFunc
	MeHandler             gin.HandlerFunc
	LogoutHandler         gin.HandlerFunc
	UpdateProfileHandler  gin.HandlerFunc

	// Consultation endpoints
	AskHandler               gin.HandlerFunc
	ListConsultationsHandler gin.HandlerFunc
	TopicsHandler            gin.HandlerFunc

	// Emergency endpoints
	ListContactsHandler  gin.HandlerFunc
	CreateContactHandler gin.HandlerFunc
	UpdateContactHandler gin.HandlerFunc
	DeleteContactHandler gin.HandlerFunc
	TriggerEmergency     gin.HandlerFunc
	ListAlertsHandler    gin.HandlerFunc

	// Process endpoints
	ListProcessesHandler    gin.HandlerFunc
	GetProcessHandler       gin.HandlerFunc
	CreateProcessHandler    gin.HandlerFunc
	UpdateProcessHandler    gin.HandlerFunc
	DeleteProcessHandler    gin.HandlerFunc
	ToggleStepHandler       gin.HandlerFunc
	GenerateDocumentHandler gin.HandlerFunc
	StepContentHandler      gin.HandlerFunc
	ProcessChatHandler      gin.HandlerFunc
	ProcessTemplatesHandler gin.HandlerFunc

	// Voice endpoints
	UploadVoiceHandler gin.HandlerFunc
	GetVoiceHandler    gin.HandlerFunc
	DeleteVoiceHandler gin.HandlerFunc

	HealthHandler gin.HandlerFunc
}

// NewHandlerBundle builds every handler from s.
func NewHandlerBundle(s Services) *HandlerBundle {
	auth := &AuthHandler{UserService: s.Users}
	consult := &ConsultationHandler{Service: s.Consultations}
	emerg := &EmergencyHandler{Service: s.Emergency}
	proc := &ProcessHandler{Service: s.Processes}
	vh := &VoiceHandler{Store: s.Voice, MaxBytes: s.VoiceMaxBytes}

	return &HandlerBundle{
		GoogleSignInHandler:   auth.GoogleSignInHandler,
		GoogleAuthURLHandler:  auth.GoogleAuthURLHandler,
		GoogleCallbackHandler: auth.GoogleCallbackHandler,
		MeHandler:             auth.MeHandler,
		LogoutHandler:         auth.LogoutHandler,
		UpdateProfileHandler:  auth.UpdateProfileHandler,

		AskHandler:               consult.AskHandler,
		ListConsultationsHandler: consult.ListConsultationsHandler,
		TopicsHandler:            consult.TopicsHandler,

		ListContactsHandler:  emerg.ListContactsHandler,
		CreateContactHandler: emerg.CreateContactHandler,
		UpdateContactHandler: emerg.UpdateContactHandler,
		DeleteContactHandler: emerg.DeleteContactHandler,
		TriggerEmergency:     emerg.TriggerHandler,
		ListAlertsHandler:    emerg.ListAlertsHandler,

		ListProcessesHandler:    proc.ListProcessesHandler,
		GetProcessHandler:       proc.GetProcessHandler,
		CreateProcessHandler:    proc.CreateProcessHandler,
		UpdateProcessHandler:    proc.UpdateProcessHandler,
		DeleteProcessHandler:    proc.DeleteProcessHandler,
		ToggleStepHandler:       proc.ToggleStepHandler,
		GenerateDocumentHandler: proc.GenerateDocumentHandler,
		StepContentHandler:      proc.StepContentHandler,
		ProcessChatHandler:      proc.ChatHandler,
		ProcessTemplatesHandler: proc.TemplatesHandler,

		UploadVoiceHandler: vh.UploadHandler,
		GetVoiceHandler:    vh.GetHandler,
		DeleteVoiceHandler: vh.DeleteHandler,

		HealthHandler: HealthHandler,
	}
}
