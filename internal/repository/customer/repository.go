package customer

import (
	"context"

	"customer-map/internal/domain"
)

// Repository persists and fetches customer records. Ids are always
// generated by the repository at create time, never taken from callers.
type Repository interface {
	Get(ctx context.Context, id string) (*domain.Customer, error)
	List(ctx context.Context) ([]domain.Customer, error)
	Create(ctx context.Context, c domain.Customer) (*domain.Customer, error)
	Update(ctx context.Context, id string, patch domain.CustomerPatch) (*domain.Customer, error)
	Delete(ctx context.Context, id string) (bool, error)
	Search(ctx context.Context, query string) ([]domain.Customer, error)
}
