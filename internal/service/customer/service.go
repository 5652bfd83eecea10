package customer

import (
	"context"
	"errors"
	"strconv"

	"customer-map/internal/domain"
	custrepo "customer-map/internal/repository/customer"
	"customer-map/internal/service/geocode"
)

// Geocoder resolves street addresses to coordinates.
type Geocoder interface {
	Resolve(ctx context.Context, address string) (*geocode.Result, error)
}

// Service orchestrates customer CRUD and the geocode-then-create workflow.
type Service struct {
	repo     custrepo.Repository
	geocoder Geocoder
}

// New creates a Service. geocoder may be nil when geocoded creation is not
// needed (e.g. seeding with known coordinates).
func New(repo custrepo.Repository, geocoder Geocoder) *Service {
	return &Service{repo: repo, geocoder: geocoder}
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Customer, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]domain.Customer, error) {
	return s.repo.List(ctx)
}

func (s *Service) Create(ctx context.Context, c domain.Customer) (*domain.Customer, error) {
	return s.repo.Create(ctx, c)
}

func (s *Service) Update(ctx context.Context, id string, patch domain.CustomerPatch) (*domain.Customer, error) {
	return s.repo.Update(ctx, id, patch)
}

func (s *Service) Delete(ctx context.Context, id string) (bool, error) {
	return s.repo.Delete(ctx, id)
}

func (s *Service) Search(ctx context.Context, query string) ([]domain.Customer, error) {
	return s.repo.Search(ctx, query)
}

// AddOutcome enumerates how AddWithGeocoding ended.
type AddOutcome int

const (
	// AddCreated means the address resolved and the record was stored.
	AddCreated AddOutcome = iota
	// AddGeocodeFailed means the address did not resolve; nothing was stored.
	AddGeocodeFailed
	// AddCreateFailed means the address resolved but the store rejected the
	// record. There is no compensation: the geocode result is discarded.
	AddCreateFailed
)

// AddResult is the outcome of the two-step geocode-then-create workflow.
type AddResult struct {
	Outcome  AddOutcome
	Customer *domain.Customer
	Err      error
}

// AddWithGeocoding resolves the customer's street+number into coordinates
// and, only on success, creates the record with them attached. The two
// steps carry no atomicity guarantee and are never retried.
func (s *Service) AddWithGeocoding(ctx context.Context, c domain.Customer) AddResult {
	loc, err := s.geocoder.Resolve(ctx, c.Address())
	if err != nil {
		return AddResult{Outcome: AddGeocodeFailed, Err: err}
	}

	c.Lat = formatCoordinate(loc.Lat)
	c.Lng = formatCoordinate(loc.Lng)

	created, err := s.repo.Create(ctx, c)
	if err != nil {
		return AddResult{Outcome: AddCreateFailed, Err: err}
	}
	return AddResult{Outcome: AddCreated, Customer: created}
}

// GeocodeFailedNoMatch reports whether a failed result was a plain
// "address not found" rather than an upstream outage.
func (r AddResult) GeocodeFailedNoMatch() bool {
	return r.Outcome == AddGeocodeFailed && errors.Is(r.Err, geocode.ErrNoMatch)
}

// formatCoordinate renders a coordinate with the store's fixed seven
// fractional digits.
func formatCoordinate(v float64) string {
	return strconv.FormatFloat(v, 'f', 7, 64)
}
