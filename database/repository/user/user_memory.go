package userRepo

import (
	"context"
	"strings"
	"sync"
	"time"

	"lefri/database"
	"lefri/models"

	"github.com/google/uuid"
)

// MemoryUserRepo keeps users in process memory.
type MemoryUserRepo struct {
	mu    sync.RWMutex
	users map[string]models.User
}

// NewMemoryUserRepo creates an in-memory repository holding the seed users.
func NewMemoryUserRepo(seed ...models.User) *MemoryUserRepo {
	r := &MemoryUserRepo{users: make(map[string]models.User)}
	for _, u := range seed {
		r.users[u.ID] = u
	}
	return r
}

func (r *MemoryUserRepo) find(match func(models.User) bool) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if match(u) {
			out := u
			return &out, nil
		}
	}
	return nil, database.ErrNotFound
}

func (r *MemoryUserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return &u, nil
}

func (r *MemoryUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	return r.find(func(u models.User) bool { return strings.EqualFold(u.Email, email) })
}

func (r *MemoryUserRepo) GetByGoogleID(_ context.Context, googleID string) (*models.User, error) {
	if googleID == "" {
		return nil, database.ErrNotFound
	}
	return r.find(func(u models.User) bool { return u.GoogleID == googleID })
}

func (r *MemoryUserRepo) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.users[user.ID] = *user
	return nil
}

func (r *MemoryUserRepo) Update(_ context.Context, id string, fields map[string]interface{}) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	u.ApplyFields(fields)
	u.UpdatedAt = time.Now()
	r.users[id] = u
	return &u, nil
}
