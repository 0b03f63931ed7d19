package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/99minutos/delivery-map/internal/core/domain"
	"github.com/99minutos/delivery-map/internal/core/mapper"
	"github.com/99minutos/delivery-map/internal/core/ports"
)

const (
	defaultName   = "Unnamed"
	defaultStatus = "Unknown"
)

// TrackingConfig selects the table, view and rule tables the service works with.
type TrackingConfig struct {
	Table string
	View  string
	// Record maps GET /data/:recId, Scan maps GET /data.
	Record *mapper.Mapper
	Scan   *mapper.Mapper
}

type TrackingService struct {
	store  ports.RecordStore
	cfg    TrackingConfig
	logger zerolog.Logger
}

func NewTrackingService(store ports.RecordStore, cfg TrackingConfig, logger zerolog.Logger) *TrackingService {
	return &TrackingService{store: store, cfg: cfg, logger: logger}
}

// RecordGeometry fetches one record and maps it with the record rule table.
func (s *TrackingService) RecordGeometry(ctx context.Context, recordID string) (*domain.FeatureCollection, error) {
	rec, err := s.store.FetchOne(ctx, s.cfg.Table, recordID)
	if err != nil {
		return nil, fmt.Errorf("record geometry %s: %w", recordID, err)
	}

	fc := s.cfg.Record.Record(rec)
	s.logger.Debug().
		Str("record_id", recordID).
		Int("features", len(fc.Features)).
		Msg("record mapped")
	return &fc, nil
}

// ViewGeometry maps every record of the configured view with the scan rule table.
func (s *TrackingService) ViewGeometry(ctx context.Context) (*domain.FeatureCollection, error) {
	recs, err := s.store.FetchAll(ctx, s.cfg.Table, s.cfg.View)
	if err != nil {
		return nil, fmt.Errorf("view geometry %s/%s: %w", s.cfg.Table, s.cfg.View, err)
	}

	fc := s.cfg.Scan.Records(recs)
	s.logger.Debug().
		Str("view", s.cfg.View).
		Int("records", len(recs)).
		Int("features", len(fc.Features)).
		Msg("view mapped")
	return &fc, nil
}

// ListRecords returns id, name and status for every record in the table.
func (s *TrackingService) ListRecords(ctx context.Context) ([]ports.RecordSummary, error) {
	recs, err := s.store.FetchAll(ctx, s.cfg.Table, "")
	if err != nil {
		return nil, fmt.Errorf("list records %s: %w", s.cfg.Table, err)
	}

	out := make([]ports.RecordSummary, len(recs))
	for i, r := range recs {
		out[i] = ports.RecordSummary{
			ID:     r.ID,
			Name:   orDefault(r.String(domain.FieldCustomerName), defaultName),
			Status: orDefault(r.String(domain.FieldPackageStatus), defaultStatus),
		}
	}
	return out, nil
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
