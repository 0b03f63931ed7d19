package ports

import (
	"context"

	"github.com/99minutos/delivery-map/internal/core/domain"
)

// RecordStore reads tracking records from the external tabular store.
type RecordStore interface {
	// FetchOne returns a single record. Errors wrap domain.ErrRecordNotFound,
	// domain.ErrUnauthorized or domain.ErrUpstream.
	FetchOne(ctx context.Context, table, recordID string) (domain.Record, error)
	// FetchAll returns every record visible under view, in store order. An
	// empty view selects the whole table.
	FetchAll(ctx context.Context, table, view string) ([]domain.Record, error)
	// Ping reports whether the store is reachable with the configured credentials.
	Ping(ctx context.Context) error
}
