package repositories

import (
	"context"
	"sync"
	"time"

	"portfolio-tracker/src/models"
)

// MemoryHoldingRepository is a process-local HoldingRepository. Ids start at 1 and
// are never reused.
type MemoryHoldingRepository struct {
	mu       sync.RWMutex
	nextID   int64
	holdings []models.Holding
	now      func() time.Time
}

func NewMemoryHoldingRepository() *MemoryHoldingRepository {
	return &MemoryHoldingRepository{now: time.Now}
}

func (r *MemoryHoldingRepository) Create(_ context.Context, h *models.Holding) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	h.ID = r.nextID
	h.CreatedAt = r.now().UTC()
	r.holdings = append(r.holdings, *h)
	return nil
}

func (r *MemoryHoldingRepository) ListByOwner(_ context.Context, owner string) ([]models.Holding, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := []models.Holding{}
	for _, h := range r.holdings {
		if h.UserID == owner {
			result = append(result, h)
		}
	}
	return result, nil
}

func (r *MemoryHoldingRepository) DeleteByIDAndOwner(_ context.Context, id int64, owner string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, h := range r.holdings {
		if h.ID == id && h.UserID == owner {
			r.holdings = append(r.holdings[:i], r.holdings[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}
