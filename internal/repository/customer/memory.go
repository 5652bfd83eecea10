package customer

import (
	"context"
	"sync"

	"customer-map/internal/domain"
	"github.com/google/uuid"
)

type memoryRepo struct {
	mu    sync.RWMutex
	items map[string]domain.Customer
	order []string
}

// NewMemory returns a Repository backed by an in-process map. Records live
// for the lifetime of the process and are lost on restart. The mutex gives
// single-operation atomicity only.
func NewMemory() Repository {
	return &memoryRepo{items: make(map[string]domain.Customer)}
}

func (r *memoryRepo) Get(_ context.Context, id string) (*domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &c, nil
}

func (r *memoryRepo) List(_ context.Context) ([]domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Customer, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.items[id])
	}
	return out, nil
}

func (r *memoryRepo) Create(_ context.Context, c domain.Customer) (*domain.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.ID = uuid.NewString()
	r.items[c.ID] = c
	r.order = append(r.order, c.ID)
	return &c, nil
}

func (r *memoryRepo) Update(_ context.Context, id string, patch domain.CustomerPatch) (*domain.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	updated := existing.Apply(patch)
	updated.ID = id
	r.items[id] = updated
	return &updated, nil
}

func (r *memoryRepo) Delete(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return false, nil
	}
	delete(r.items, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true, nil
}

func (r *memoryRepo) Search(_ context.Context, query string) ([]domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.Customer
	for _, id := range r.order {
		if c := r.items[id]; c.Matches(query) {
			out = append(out, c)
		}
	}
	return out, nil
}
