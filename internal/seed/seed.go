package seed

import (
	"context"
	"fmt"

	"customer-map/internal/domain"
	customerrepo "customer-map/internal/repository/customer"
)

// Apply inserts demo customers around La Plata for manual testing. It is a
// no-op when the store already has records, so re-running is safe.
func Apply(ctx context.Context, repo customerrepo.Repository) (int, error) {
	existing, err := repo.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list customers: %w", err)
	}
	if len(existing) > 0 {
		return 0, nil
	}

	demo := []domain.Customer{
		{
			Name:        "Ana García",
			Street:      "Calle 7",
			Number:      "852",
			Phone:       "221-423-1234",
			Description: "Cliente mayorista, entregas por la mañana",
			Lat:         "-34.9187260",
			Lng:         "-57.9560020",
		},
		{
			Name:   "Marcos Benítez",
			Street: "Calle 50",
			Number: "1120",
			Phone:  "221-489-7755",
			Lat:    "-34.9290210",
			Lng:    "-57.9517340",
		},
		{
			Name:        "Panadería El Hornero",
			Street:      "Diagonal 74",
			Number:      "1585",
			Phone:       "221-452-0901",
			Description: "Local a la calle, preguntar por Silvia",
			Lat:         "-34.9119830",
			Lng:         "-57.9470110",
		},
	}

	for _, c := range demo {
		if _, err := repo.Create(ctx, c); err != nil {
			return 0, fmt.Errorf("create customer %q: %w", c.Name, err)
		}
	}
	return len(demo), nil
}
