package processRepo

import (
	"context"
	"sort"
	"sync"
	"time"

	"lefri/database"
	"lefri/models"

	"github.com/google/uuid"
)

// MemoryProcessRepo keeps processes in process memory. Stored values are
// deep-copied so callers never alias the step slices.
type MemoryProcessRepo struct {
	mu        sync.RWMutex
	processes map[string]models.LegalProcess
}

func NewMemoryProcessRepo() *MemoryProcessRepo {
	return &MemoryProcessRepo{processes: make(map[string]models.LegalProcess)}
}

func clone(p models.LegalProcess) models.LegalProcess {
	steps := make([]models.ProcessStep, len(p.Steps))
	for i, s := range p.Steps {
		s.Documents = copyStrings(s.Documents)
		s.Requirements = copyStrings(s.Requirements)
		steps[i] = s
	}
	p.Steps = steps
	p.RequiredDocuments = copyStrings(p.RequiredDocuments)
	p.ConstitutionalArticles = copyStrings(p.ConstitutionalArticles)
	return p
}

func copyStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func (r *MemoryProcessRepo) ListByUser(_ context.Context, userID string) ([]models.LegalProcess, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []models.LegalProcess{}
	for _, p := range r.processes {
		if p.UserID == userID {
			out = append(out, clone(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (r *MemoryProcessRepo) GetByID(_ context.Context, userID, id string) (*models.LegalProcess, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.processes[id]
	if !ok || p.UserID != userID {
		return nil, database.ErrNotFound
	}
	out := clone(p)
	return &out, nil
}

func (r *MemoryProcessRepo) Create(_ context.Context, process *models.LegalProcess) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if process.ID == "" {
		process.ID = uuid.New().String()
	}
	now := time.Now()
	process.CreatedAt = now
	process.UpdatedAt = now
	r.processes[process.ID] = clone(*process)
	return nil
}

func (r *MemoryProcessRepo) Update(_ context.Context, process *models.LegalProcess) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.processes[process.ID]
	if !ok || existing.UserID != process.UserID {
		return database.ErrNotFound
	}
	process.CreatedAt = existing.CreatedAt
	process.UpdatedAt = time.Now()
	r.processes[process.ID] = clone(*process)
	return nil
}

func (r *MemoryProcessRepo) Delete(_ context.Context, userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.processes[id]
	if !ok || p.UserID != userID {
		return database.ErrNotFound
	}
	delete(r.processes, id)
	return nil
}
