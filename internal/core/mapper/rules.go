package mapper

import (
	"errors"
	"fmt"
	"math"

	"github.com/99minutos/delivery-map/internal/core/domain"
)

// Rule extracts at most one feature from a record. Rules never fail: a field
// that is absent or malformed yields ok=false.
type Rule struct {
	Name    string
	Extract func(r domain.Record) (f domain.Feature, ok bool)
}

// Profile names an ordered rule list.
type Profile string

const (
	ProfileFull     Profile = "full"
	ProfileDelivery Profile = "delivery"
	ProfileLegacy   Profile = "legacy"
)

var ErrUnknownProfile = errors.New("unknown rule profile")

var (
	InTransitRoute = RouteRule(domain.FieldInTransitRoute, domain.EventRouteInTransit)
	TamperedRoute  = RouteRule(domain.FieldTamperedRoute, domain.EventRouteTampered)
	StolenRoute    = RouteRule(domain.FieldStolenRoute, domain.EventRouteStolen)

	AddressPoint   = Rule{Name: domain.EventAddress, Extract: extractAddress}
	DeliveredPoint = Rule{Name: domain.EventDelivered, Extract: extractDelivered}
	OpenedPoint    = Rule{Name: domain.EventOpened, Extract: extractOpened}

	// LegacyPoint reads the flat Latitude/Longitude columns.
	LegacyPoint = Rule{Name: "legacy", Extract: extractLegacy}
)

// Rules returns the rule list for p. Routes come first, then the address,
// then the delivery and opening events.
func Rules(p Profile) ([]Rule, error) {
	switch p {
	case ProfileFull:
		return []Rule{InTransitRoute, TamperedRoute, StolenRoute, AddressPoint, DeliveredPoint, OpenedPoint}, nil
	case ProfileDelivery:
		return []Rule{DeliveredPoint, OpenedPoint}, nil
	case ProfileLegacy:
		return []Rule{LegacyPoint}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProfile, p)
	}
}

// RouteRule emits a LineString tagged event when field holds more than one
// valid coordinate pair.
func RouteRule(field, event string) Rule {
	return Rule{
		Name: event,
		Extract: func(r domain.Record) (domain.Feature, bool) {
			path := ParseRoute(r.String(field))
			if len(path) < 2 {
				return domain.Feature{}, false
			}
			return domain.NewLineString(path, map[string]any{"event": event}), true
		},
	}
}

func extractAddress(r domain.Record) (domain.Feature, bool) {
	lat, lng, err := ParseLatLng(r.String(domain.FieldDeliveryAddressGPS))
	if err != nil {
		return domain.Feature{}, false
	}
	return domain.NewPoint(lat, lng, map[string]any{
		"event":   domain.EventAddress,
		"name":    r.String(domain.FieldCustomerName),
		"address": r.String(domain.FieldDeliveryAddress),
	}), true
}

func extractDelivered(r domain.Record) (domain.Feature, bool) {
	lat, lng, err := ParseLatLng(r.String(domain.FieldDeliveredLocation))
	if err != nil {
		return domain.Feature{}, false
	}

	photo := ""
	if atts := r.Attachments(domain.FieldProofOfDelivery); len(atts) > 0 {
		photo = atts[0].URL
	}

	return domain.NewPoint(lat, lng, map[string]any{
		"event":       domain.EventDelivered,
		"status":      r.String(domain.FieldPackageStatus),
		"left":        r.String(domain.FieldLeftWith),
		"deliveredAt": r.String(domain.FieldDeliveredAt),
		"photo":       photo,
	}), true
}

func extractOpened(r domain.Record) (domain.Feature, bool) {
	lat, lng, err := ParseLatLng(r.String(domain.FieldOpenedLocation))
	if err != nil {
		return domain.Feature{}, false
	}
	return domain.NewPoint(lat, lng, map[string]any{
		"event":    domain.EventOpened,
		"status":   r.String(domain.FieldPackageStatus),
		"left":     r.String(domain.FieldLeftWith),
		"openedAt": r.String(domain.FieldOpenedAt),
	}), true
}

func extractLegacy(r domain.Record) (domain.Feature, bool) {
	lat, okLat := r.Float(domain.FieldLatitude)
	lng, okLng := r.Float(domain.FieldLongitude)
	if !okLat || !okLng || !finite(lat) || !finite(lng) {
		return domain.Feature{}, false
	}
	return domain.NewPoint(lat, lng, map[string]any{
		"status": r.String(domain.FieldStatus),
		"route":  r.String(domain.FieldRoute),
	}), true
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
