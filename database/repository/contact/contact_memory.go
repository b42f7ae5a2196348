package contactRepo

import (
	"context"
	"sort"
	"sync"
	"time"

	"lefri/database"
	"lefri/models"

	"github.com/google/uuid"
)

// MemoryContactRepo keeps contacts in process memory.
type MemoryContactRepo struct {
	mu       sync.RWMutex
	contacts map[string]models.EmergencyContact
}

func NewMemoryContactRepo() *MemoryContactRepo {
	return &MemoryContactRepo{contacts: make(map[string]models.EmergencyContact)}
}

func (r *MemoryContactRepo) ListByUser(_ context.Context, userID string) ([]models.EmergencyContact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []models.EmergencyContact{}
	for _, c := range r.contacts {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *MemoryContactRepo) GetByID(_ context.Context, userID, id string) (*models.EmergencyContact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.contacts[id]
	if !ok || c.UserID != userID {
		return nil, database.ErrNotFound
	}
	return &c, nil
}

func (r *MemoryContactRepo) Create(_ context.Context, contact *models.EmergencyContact) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if contact.ID == "" {
		contact.ID = uuid.New().String()
	}
	contact.CreatedAt = time.Now()
	r.contacts[contact.ID] = *contact
	return nil
}

func (r *MemoryContactRepo) Update(_ context.Context, userID, id string, fields map[string]interface{}) (*models.EmergencyContact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.contacts[id]
	if !ok || c.UserID != userID {
		return nil, database.ErrNotFound
	}
	c.ApplyFields(fields)
	r.contacts[id] = c
	return &c, nil
}

func (r *MemoryContactRepo) Delete(_ context.Context, userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.contacts[id]
	if !ok || c.UserID != userID {
		return database.ErrNotFound
	}
	delete(r.contacts, id)
	return nil
}
