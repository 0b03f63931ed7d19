package ports

import (
	"context"

	"github.com/99minutos/delivery-map/internal/core/domain"
)

// RecordSummary is the lightweight listing view of a record.
type RecordSummary struct {
	ID     string
	Name   string
	Status string
}

// TrackingService defines the read use cases exposed over HTTP.
type TrackingService interface {
	RecordGeometry(ctx context.Context, recordID string) (*domain.FeatureCollection, error)
	ViewGeometry(ctx context.Context) (*domain.FeatureCollection, error)
	ListRecords(ctx context.Context) ([]RecordSummary, error)
}
