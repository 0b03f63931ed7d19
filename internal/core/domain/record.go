package domain

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// Field names as they appear in the tracking table.
const (
	FieldCustomerName       = "Customers Full Name"
	FieldDeliveryAddress    = "Customers Delivery Address"
	FieldDeliveryAddressGPS = "Customers Delivery Address (GPS & What3Words)"
	FieldPackageStatus      = "Package Status"
	FieldLeftWith           = "Who or where was the package left?"
	FieldDeliveredLocation  = "Where was the package delivered (if it was)?"
	FieldOpenedLocation     = "Where was the package opened (if it was)?"
	FieldDeliveredAt        = "When was the Package delivered?"
	FieldOpenedAt           = "When was the Package opened?"
	FieldProofOfDelivery    = "Proof of delivery image"
	FieldInTransitRoute     = "InTransit Route"
	FieldTamperedRoute      = "Tampered Route"
	FieldStolenRoute        = "Stolen Route"

	// Legacy flat layout used by the first version of the table.
	FieldLatitude  = "Latitude"
	FieldLongitude = "Longitude"
	FieldStatus    = "Status"
	FieldRoute     = "Route"
)

var ErrRecordNotFound = errors.New("record not found")
var ErrUnauthorized = errors.New("record store rejected credentials")
var ErrUpstream = errors.New("record store failure")
var ErrMalformedField = errors.New("malformed field")

// Record is one row of the tracking table. Field values keep the shapes a JSON
// decoder produces: string, float64, bool, []any and map[string]any.
type Record struct {
	ID          string
	CreatedTime time.Time
	Fields      map[string]any
}

// Attachment is a store-managed file reference.
type Attachment struct {
	ID       string
	URL      string
	Filename string
	Type     string
}

// String returns the field as text. Absent fields and values that are not
// scalars yield "".
func (r Record) String(field string) string {
	switch v := r.Fields[field].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

// Float returns the field as a number. Numeric strings are accepted.
func (r Record) Float(field string) (float64, bool) {
	switch v := r.Fields[field].(type) {
	case float64:
		return v, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// Attachments returns the attachment list stored in field, skipping entries
// without a url.
func (r Record) Attachments(field string) []Attachment {
	items, ok := r.Fields[field].([]any)
	if !ok {
		return nil
	}

	out := make([]Attachment, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		url, _ := m["url"].(string)
		if url == "" {
			continue
		}
		a := Attachment{URL: url}
		a.ID, _ = m["id"].(string)
		a.Filename, _ = m["filename"].(string)
		a.Type, _ = m["type"].(string)
		out = append(out, a)
	}
	return out
}
