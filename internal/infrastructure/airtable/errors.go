package airtable

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/99minutos/delivery-map/internal/core/domain"
)

type httpStatusError struct {
	Code    int
	Type    string
	Message string
}

func (e *httpStatusError) Error() string {
	switch {
	case e.Type != "" && e.Message != "":
		return fmt.Sprintf("status %d: %s: %s", e.Code, e.Type, e.Message)
	case e.Type != "":
		return fmt.Sprintf("status %d: %s", e.Code, e.Type)
	default:
		return fmt.Sprintf("status %d: %s", e.Code, e.Message)
	}
}

// decodeError reads both Airtable error envelopes:
//
//	{"error": {"type": "INVALID_PERMISSIONS", "message": "..."}}
//	{"error": "NOT_FOUND"}
func decodeError(code int, body []byte) *httpStatusError {
	e := &httpStatusError{Code: code}

	var env struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &env); err == nil && len(env.Error) > 0 {
		var detail struct {
			Type    string `json:"type"`
			Message string `json:"message"`
		}
		var tag string
		if err := json.Unmarshal(env.Error, &detail); err == nil {
			e.Type, e.Message = detail.Type, detail.Message
		} else if err := json.Unmarshal(env.Error, &tag); err == nil {
			e.Type = tag
		}
	}

	if e.Type == "" && e.Message == "" {
		msg := strings.TrimSpace(string(body))
		if len(msg) > 200 {
			msg = msg[:200]
		}
		e.Message = msg
	}
	return e
}

// classify maps a transport or status error onto the domain taxonomy. A 404
// only means "record not found" for single-record reads; on a listing it means
// the base or table is wrong.
func classify(op string, err error, notFoundIsRecord bool) error {
	var he *httpStatusError
	if errors.As(err, &he) {
		switch {
		case he.Code == http.StatusNotFound && notFoundIsRecord:
			return fmt.Errorf("airtable %s: %w: %w", op, domain.ErrRecordNotFound, err)
		case he.Code == http.StatusUnauthorized, he.Code == http.StatusForbidden:
			return fmt.Errorf("airtable %s: %w: %w", op, domain.ErrUnauthorized, err)
		}
	}
	return fmt.Errorf("airtable %s: %w: %w", op, domain.ErrUpstream, err)
}
