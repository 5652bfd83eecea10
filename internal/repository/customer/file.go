package customer

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"os"
	"sync"

	"customer-map/internal/domain"
	"github.com/google/uuid"
)

type fileRepo struct {
	mu     sync.Mutex
	path   string
	logger *log.Logger
	items  map[string]domain.Customer
	order  []string
}

// NewFile returns a Repository backed by a JSON file. The whole file is
// parsed into memory at construction; a missing or unreadable file means
// "start empty". Every mutation rewrites the file wholesale.
//
// Durability limitation, on purpose: the rewrite is done in place with no
// temp-file rename, no fsync and no cross-process locking. A crash
// mid-rewrite can corrupt the file, and concurrent processes writing the
// same file race last-writer-wins.
func NewFile(path string, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	r := &fileRepo{
		path:   path,
		logger: logger,
		items:  make(map[string]domain.Customer),
	}
	r.load()
	return r
}

func (r *fileRepo) load() {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if !os.IsNotExist(err) {
			r.logger.Printf("customer file repo: read %s: %v (starting empty)", r.path, err)
		}
		return
	}
	var records []domain.Customer
	if err := json.Unmarshal(data, &records); err != nil {
		r.logger.Printf("customer file repo: parse %s: %v (starting empty)", r.path, err)
		return
	}
	for _, c := range records {
		r.items[c.ID] = c
		r.order = append(r.order, c.ID)
	}
}

// persist rewrites the whole file from the in-memory state. Callers hold r.mu.
func (r *fileRepo) persist() error {
	records := make([]domain.Customer, 0, len(r.order))
	for _, id := range r.order {
		records = append(records, r.items[id])
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(r.path, data, 0o644)
}

func (r *fileRepo) Get(_ context.Context, id string) (*domain.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &c, nil
}

func (r *fileRepo) List(_ context.Context) ([]domain.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Customer, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.items[id])
	}
	return out, nil
}

func (r *fileRepo) Create(_ context.Context, c domain.Customer) (*domain.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.ID = uuid.NewString()
	r.items[c.ID] = c
	r.order = append(r.order, c.ID)
	if err := r.persist(); err != nil {
		delete(r.items, c.ID)
		r.order = r.order[:len(r.order)-1]
		return nil, err
	}
	return &c, nil
}

func (r *fileRepo) Update(_ context.Context, id string, patch domain.CustomerPatch) (*domain.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	updated := existing.Apply(patch)
	updated.ID = id
	r.items[id] = updated
	if err := r.persist(); err != nil {
		r.items[id] = existing
		return nil, err
	}
	return &updated, nil
}

func (r *fileRepo) Delete(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.items[id]
	if !ok {
		return false, nil
	}
	delete(r.items, id)
	pos := -1
	for i, oid := range r.order {
		if oid == id {
			pos = i
			break
		}
	}
	if pos >= 0 {
		r.order = append(r.order[:pos], r.order[pos+1:]...)
	}
	if err := r.persist(); err != nil {
		r.items[id] = existing
		if pos >= 0 {
			r.order = append(r.order[:pos], append([]string{id}, r.order[pos:]...)...)
		}
		return false, err
	}
	return true, nil
}

func (r *fileRepo) Search(_ context.Context, query string) ([]domain.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Customer
	for _, id := range r.order {
		if c := r.items[id]; c.Matches(query) {
			out = append(out, c)
		}
	}
	return out, nil
}
