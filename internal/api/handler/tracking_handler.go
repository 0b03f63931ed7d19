package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/delivery-map/internal/api/metrics"
	"github.com/99minutos/delivery-map/internal/core/domain"
	"github.com/99minutos/delivery-map/internal/core/ports"
)

// TrackingHandler serves delivery records as GeoJSON.
type TrackingHandler struct {
	service ports.TrackingService
	logger  zerolog.Logger
}

func NewTrackingHandler(service ports.TrackingService, logger zerolog.Logger) *TrackingHandler {
	return &TrackingHandler{service: service, logger: logger}
}

// RecordGeometry handles GET /data/:recId.
//
// @Summary      GeoJSON for one delivery record
// @Description  Routes (in transit, tampered, stolen), the delivery address, and the delivered and opened locations of one record.
// @Tags         geometry
// @Produce      json
// @Param        recId  path      string  true  "Record id (e.g. recA1b2C3d4E5f6G7)"
// @Success      200    {object}  featureCollectionDoc
// @Failure      401    {object}  errorResponse
// @Failure      404    {object}  errorResponse
// @Failure      500    {object}  errorResponse
// @Router       /data/{recId} [get]
func (h *TrackingHandler) RecordGeometry(c echo.Context) error {
	recordID := c.Param("recId")

	fc, err := h.service.RecordGeometry(c.Request().Context(), recordID)
	if err != nil {
		metrics.StoreErrorsTotal.WithLabelValues("find", errorKind(err)).Inc()
		code, msg := StatusFor(err)
		if code == http.StatusInternalServerError {
			h.logger.Error().Err(err).Str("record_id", recordID).Msg("record geometry failed")
		}
		return c.JSON(code, errorResponse{Error: msg})
	}

	countFeatures(fc)
	return c.JSON(http.StatusOK, fc)
}

// ViewGeometry handles GET /data.
//
// @Summary      GeoJSON for every record in the configured view
// @Description  Delivered and opened locations of every record, in view order.
// @Tags         geometry
// @Produce      json
// @Success      200  {object}  featureCollectionDoc
// @Failure      500  {object}  errorResponse
// @Router       /data [get]
func (h *TrackingHandler) ViewGeometry(c echo.Context) error {
	fc, err := h.service.ViewGeometry(c.Request().Context())
	if err != nil {
		metrics.StoreErrorsTotal.WithLabelValues("list", errorKind(err)).Inc()
		h.logger.Error().Err(err).Msg("view geometry failed")
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: MsgInternal})
	}

	countFeatures(fc)
	return c.JSON(http.StatusOK, fc)
}

// ListRecords handles GET /records.
//
// @Summary      List records
// @Description  Id, customer name and package status of every record in the table.
// @Tags         records
// @Produce      json
// @Success      200  {array}   recordSummaryResponse
// @Failure      500  {object}  errorResponse
// @Router       /records [get]
func (h *TrackingHandler) ListRecords(c echo.Context) error {
	items, err := h.service.ListRecords(c.Request().Context())
	if err != nil {
		metrics.StoreErrorsTotal.WithLabelValues("list", errorKind(err)).Inc()
		h.logger.Error().Err(err).Msg("list records failed")
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: MsgInternal})
	}

	out := make([]recordSummaryResponse, len(items))
	for i, it := range items {
		out[i] = recordSummaryResponse{ID: it.ID, Name: it.Name, Status: it.Status}
	}
	return c.JSON(http.StatusOK, out)
}

func countFeatures(fc *domain.FeatureCollection) {
	for _, f := range fc.Features {
		event := f.Event()
		if event == "" {
			event = "none"
		}
		metrics.FeaturesEmittedTotal.WithLabelValues(event).Inc()
	}
}
