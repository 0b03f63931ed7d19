package handler

import (
	"errors"
	"net/http"

	"github.com/99minutos/delivery-map/internal/core/domain"
)

const (
	MsgRecordNotFound = "Record not found"
	MsgUnauthorized   = "Unauthorized - Check your Airtable API key"
	MsgInternal       = "Internal server error"
)

// StatusFor maps a service error onto the HTTP status and client message.
func StatusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrRecordNotFound):
		return http.StatusNotFound, MsgRecordNotFound
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, MsgUnauthorized
	default:
		return http.StatusInternalServerError, MsgInternal
	}
}

// errorKind is the metrics label for a store failure.
func errorKind(err error) string {
	switch {
	case errors.Is(err, domain.ErrRecordNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrUnauthorized):
		return "unauthorized"
	default:
		return "upstream"
	}
}
