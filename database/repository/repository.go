package repository

import (
	"time"

	"lefri/config"
	"lefri/database"
	alertRepo "lefri/database/repository/alert"
	consultationRepo "lefri/database/repository/consultation"
	contactRepo "lefri/database/repository/contact"
	processRepo "lefri/database/repository/process"
	userRepo "lefri/database/repository/user"
	"lefri/models"
	"lefri/utils"

	"go.uber.org/zap"
)

// Re-export the repository interfaces.
type (
	UserRepository         = userRepo.UserRepository
	ContactRepository      = contactRepo.ContactRepository
	ProcessRepository      = processRepo.ProcessRepository
	ConsultationRepository = consultationRepo.ConsultationRepository
	AlertRepository        = alertRepo.AlertRepository
)

// ErrNotFound is returned when a record does not exist for the caller.
var ErrNotFound = database.ErrNotFound

// DemoUserID identifies the user seeded into memory storage outside production.
const DemoUserID = "66a1b2c3d4e5f6789abc1234"

// Repositories groups every entity store.
type Repositories struct {
	Users         UserRepository
	Contacts      ContactRepository
	Processes     ProcessRepository
	Consultations ConsultationRepository
	Alerts        AlertRepository
}

// New selects Mongo-backed repositories when a client is connected and
// in-memory ones otherwise.
func New() *Repositories {
	if database.Connected() {
		utils.GetLogger().Info("Using MongoDB repositories")
		return &Repositories{
			Users:         userRepo.NewMongoUserRepo(),
			Contacts:      contactRepo.NewMongoContactRepo(),
			Processes:     processRepo.NewMongoProcessRepo(),
			Consultations: consultationRepo.NewMongoConsultationRepo(),
			Alerts:        alertRepo.NewMongoAlertRepo(),
		}
	}

	var seed []models.User
	if !config.IsProduction() {
		seed = append(seed, DemoUser())
	}
	utils.GetLogger().Info("Using in-memory repositories", zap.Int("seededUsers", len(seed)))
	return NewMemory(seed...)
}

// NewMemory builds in-memory repositories holding the given users.
func NewMemory(seed ...models.User) *Repositories {
	return &Repositories{
		Users:         userRepo.NewMemoryUserRepo(seed...),
		Contacts:      contactRepo.NewMemoryContactRepo(),
		Processes:     processRepo.NewMemoryProcessRepo(),
		Consultations: consultationRepo.NewMemoryConsultationRepo(),
		Alerts:        alertRepo.NewMemoryAlertRepo(),
	}
}

// DemoUser is the account used by demo clients in development.
func DemoUser() models.User {
	now := time.Now()
	return models.User{
		ID:        DemoUserID,
		Email:     "demo@lefri.ai",
		Name:      "Usuario Demo",
		Language:  models.DefaultLanguage,
		Country:   models.DefaultCountry,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
