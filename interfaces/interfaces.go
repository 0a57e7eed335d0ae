// Package interfaces defines the core contracts of the GenericBro API so the
// finder, handlers and scheduler can be tested against fakes.
package interfaces

import (
	"context"
	"time"

	"github.com/genericbro/genericbro-api/entities"
	"github.com/genericbro/genericbro-api/store"
)

// MedicineStore is the contract for the hosted medicines table. A failing
// store must be distinguishable from one returning zero rows.
type MedicineStore interface {
	// Rows executes a query and returns matching rows in store order.
	Rows(ctx context.Context, q *store.Query) ([]store.Row, error)

	// Probe checks connectivity and updates the availability state.
	Probe(ctx context.Context) error

	// Available reports the last known connection state.
	Available() bool

	// LastProbe returns the time of the last successful probe.
	LastProbe() time.Time
}

// MedicineFinder is the contract for the search and autocomplete logic.
type MedicineFinder interface {
	// Search runs one search request in browse or lookup mode.
	Search(ctx context.Context, req entities.SearchRequest, sortOrder string) (entities.SearchResponse, error)

	// MedicineByName looks one medicine up by its exact name.
	MedicineByName(ctx context.Context, name string) (entities.Medicine, error)

	// MedicinesByType lists medicines whose type contains typ, capped at limit.
	MedicinesByType(ctx context.Context, typ string, limit int, sortOrder string) ([]entities.Medicine, error)

	// Suggestions returns typeahead values for field. Best effort: store
	// failures yield an empty list, never an error.
	Suggestions(ctx context.Context, field, query string) []string
}

// HealthChecker reports service health for the /health endpoint.
type HealthChecker interface {
	HealthCheck() (status string, data map[string]any, httpStatus int)
}

// Scheduler manages the background maintenance jobs.
type Scheduler interface {
	Start() error
	Stop()
}
