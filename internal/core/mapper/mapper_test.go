package mapper

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/99minutos/delivery-map/internal/core/domain"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func fullRecord() domain.Record {
	return domain.Record{
		ID: "recFULL0000000001",
		Fields: map[string]any{
			domain.FieldCustomerName:       "Ada Lovelace",
			domain.FieldDeliveryAddress:    "12 St James's Square, London",
			domain.FieldDeliveryAddressGPS: "51.5074, -0.1340",
			domain.FieldPackageStatus:      "Delivered",
			domain.FieldLeftWith:           "Porch",
			domain.FieldDeliveredLocation:  "51.5075, -0.1341",
			domain.FieldOpenedLocation:     "51.6000, -0.2000",
			domain.FieldDeliveredAt:        "2024-05-01T10:00:00.000Z",
			domain.FieldOpenedAt:           "2024-05-01T12:30:00.000Z",
			domain.FieldProofOfDelivery: []any{
				map[string]any{"id": "att1", "url": "https://dl.example.com/pod.jpg"},
				map[string]any{"id": "att2", "url": "https://dl.example.com/other.jpg"},
			},
			domain.FieldInTransitRoute: "51.0,-0.1\n51.1,-0.2",
			domain.FieldTamperedRoute:  "51.2,-0.3\n51.3,-0.4\n51.4,-0.5",
			domain.FieldStolenRoute:    "51.6,-0.6\n51.7,-0.7",
		},
	}
}

func mustMapper(t *testing.T, p Profile) *Mapper {
	t.Helper()
	m, err := ForProfile(p)
	if err != nil {
		t.Fatalf("ForProfile(%q): %v", p, err)
	}
	return m
}

func events(fc domain.FeatureCollection) []string {
	out := make([]string, len(fc.Features))
	for i, f := range fc.Features {
		out[i] = f.Event()
	}
	return out
}

// ---------------------------------------------------------------------------
// Single-record transform
// ---------------------------------------------------------------------------

func TestMapper_Record_FullRecord(t *testing.T) {
	fc := mustMapper(t, ProfileFull).Record(fullRecord())

	if fc.Type != domain.TypeFeatureCollection {
		t.Errorf("unexpected type %q", fc.Type)
	}

	wantEvents := []string{
		domain.EventRouteInTransit,
		domain.EventRouteTampered,
		domain.EventRouteStolen,
		domain.EventAddress,
		domain.EventDelivered,
		domain.EventOpened,
	}
	if diff := cmp.Diff(wantEvents, events(fc)); diff != "" {
		t.Fatalf("feature order mismatch (-want +got):\n%s", diff)
	}

	want := []domain.Feature{
		domain.NewLineString([]domain.Position{{-0.1, 51.0}, {-0.2, 51.1}}, map[string]any{"event": domain.EventRouteInTransit}),
		domain.NewLineString([]domain.Position{{-0.3, 51.2}, {-0.4, 51.3}, {-0.5, 51.4}}, map[string]any{"event": domain.EventRouteTampered}),
		domain.NewLineString([]domain.Position{{-0.6, 51.6}, {-0.7, 51.7}}, map[string]any{"event": domain.EventRouteStolen}),
		domain.NewPoint(51.5074, -0.1340, map[string]any{
			"event":   domain.EventAddress,
			"name":    "Ada Lovelace",
			"address": "12 St James's Square, London",
		}),
		domain.NewPoint(51.5075, -0.1341, map[string]any{
			"event":       domain.EventDelivered,
			"status":      "Delivered",
			"left":        "Porch",
			"deliveredAt": "2024-05-01T10:00:00.000Z",
			"photo":       "https://dl.example.com/pod.jpg",
		}),
		domain.NewPoint(51.6, -0.2, map[string]any{
			"event":    domain.EventOpened,
			"status":   "Delivered",
			"left":     "Porch",
			"openedAt": "2024-05-01T12:30:00.000Z",
		}),
	}
	if diff := cmp.Diff(want, fc.Features); diff != "" {
		t.Errorf("features mismatch (-want +got):\n%s", diff)
	}
}

func TestMapper_Record_Idempotent(t *testing.T) {
	m := mustMapper(t, ProfileFull)
	first := m.Record(fullRecord())
	second := m.Record(fullRecord())
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("repeated transform differs:\n%s", diff)
	}
}

func TestMapper_Record_DeliveredCoordinatesAreLngLat(t *testing.T) {
	r := domain.Record{Fields: map[string]any{
		domain.FieldDeliveredLocation: "12.34, 56.78",
	}}

	fc := mustMapper(t, ProfileFull).Record(r)
	if len(fc.Features) != 1 {
		t.Fatalf("expected 1 feature, got %d", len(fc.Features))
	}
	got := fc.Features[0].Geometry.Coordinates
	if diff := cmp.Diff(domain.Position{56.78, 12.34}, got); diff != "" {
		t.Errorf("coordinates mismatch (-want +got):\n%s", diff)
	}
	if fc.Features[0].Properties["photo"] != "" {
		t.Errorf("expected empty photo when no attachment, got %v", fc.Features[0].Properties["photo"])
	}
}

func TestMapper_Record_UnparseableLocationsOmitted(t *testing.T) {
	m := mustMapper(t, ProfileFull)

	for _, bad := range []string{"", "12.34", "somewhere near the door"} {
		r := domain.Record{Fields: map[string]any{
			domain.FieldDeliveryAddressGPS: bad,
			domain.FieldDeliveredLocation:  bad,
			domain.FieldOpenedLocation:     bad,
		}}
		fc := m.Record(r)
		if len(fc.Features) != 0 {
			t.Errorf("value %q: expected no features, got %v", bad, events(fc))
		}
	}
}

func TestMapper_Record_EmptyRecordEncodesEmptyArray(t *testing.T) {
	fc := mustMapper(t, ProfileFull).Record(domain.Record{ID: "recEMPTY"})

	b, err := json.Marshal(fc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"type":"FeatureCollection","features":[]}` {
		t.Errorf("unexpected body: %s", b)
	}
}

func TestMapper_Record_SingleRouteLineEmitsNoLine(t *testing.T) {
	r := domain.Record{Fields: map[string]any{
		domain.FieldInTransitRoute: "51.0,-0.1",
	}}
	if fc := mustMapper(t, ProfileFull).Record(r); len(fc.Features) != 0 {
		t.Errorf("expected no features, got %v", events(fc))
	}
}

func TestMapper_Record_RouteDropsMalformedLines(t *testing.T) {
	m := mustMapper(t, ProfileFull)

	// One valid pair left after filtering: no line.
	r := domain.Record{Fields: map[string]any{
		domain.FieldStolenRoute: "51.0,-0.1\nno comma here\n",
	}}
	if fc := m.Record(r); len(fc.Features) != 0 {
		t.Errorf("expected no features, got %v", events(fc))
	}

	r.Fields[domain.FieldStolenRoute] = "51.0,-0.1\nbad\n52.0,-0.2\n"
	fc := m.Record(r)
	if len(fc.Features) != 1 {
		t.Fatalf("expected 1 feature, got %d", len(fc.Features))
	}
	want := []domain.Position{{-0.1, 51.0}, {-0.2, 52.0}}
	if diff := cmp.Diff(want, fc.Features[0].Geometry.Coordinates); diff != "" {
		t.Errorf("route mismatch (-want +got):\n%s", diff)
	}
	if _, err := json.Marshal(fc); err != nil {
		t.Errorf("route must always be encodable: %v", err)
	}
}

// ---------------------------------------------------------------------------
// Multi-record transform
// ---------------------------------------------------------------------------

func TestMapper_Records_DeliveryProfile(t *testing.T) {
	records := []domain.Record{
		fullRecord(),
		{ID: "recB", Fields: map[string]any{domain.FieldOpenedLocation: "1,2"}},
		{ID: "recC"},
		{ID: "recD", Fields: map[string]any{domain.FieldDeliveredLocation: "3,4"}},
	}

	fc := mustMapper(t, ProfileDelivery).Records(records)

	// recFULL contributes no routes and no address under this profile.
	wantEvents := []string{
		domain.EventDelivered, domain.EventOpened,
		domain.EventOpened,
		domain.EventDelivered,
	}
	if diff := cmp.Diff(wantEvents, events(fc)); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(domain.Position{4, 3}, fc.Features[3].Geometry.Coordinates); diff != "" {
		t.Errorf("coordinates mismatch (-want +got):\n%s", diff)
	}
}

func TestMapper_Records_LegacyProfile(t *testing.T) {
	records := []domain.Record{
		{ID: "rec1", Fields: map[string]any{
			domain.FieldLatitude:  40.7128,
			domain.FieldLongitude: -74.006,
			domain.FieldStatus:    "In Transit",
			domain.FieldRoute:     "Depot → Manhattan",
		}},
		{ID: "rec2", Fields: map[string]any{domain.FieldLatitude: "40.0"}},
		{ID: "rec3", Fields: map[string]any{
			domain.FieldLatitude:  "34.05",
			domain.FieldLongitude: "-118.24",
		}},
	}

	fc := mustMapper(t, ProfileLegacy).Records(records)

	want := []domain.Feature{
		domain.NewPoint(40.7128, -74.006, map[string]any{"status": "In Transit", "route": "Depot → Manhattan"}),
		domain.NewPoint(34.05, -118.24, map[string]any{"status": "", "route": ""}),
	}
	if diff := cmp.Diff(want, fc.Features); diff != "" {
		t.Errorf("legacy features mismatch (-want +got):\n%s", diff)
	}
}

func TestMapper_Records_Empty(t *testing.T) {
	fc := mustMapper(t, ProfileDelivery).Records(nil)
	if fc.Features == nil || len(fc.Features) != 0 {
		t.Errorf("expected empty non-nil features, got %#v", fc.Features)
	}
}

// ---------------------------------------------------------------------------
// Profiles
// ---------------------------------------------------------------------------

func TestForProfile_Unknown(t *testing.T) {
	if _, err := ForProfile("everything"); !errors.Is(err, ErrUnknownProfile) {
		t.Errorf("expected ErrUnknownProfile, got %v", err)
	}
}

func TestMapper_RuleNames(t *testing.T) {
	got := mustMapper(t, ProfileDelivery).RuleNames()
	if diff := cmp.Diff([]string{domain.EventDelivered, domain.EventOpened}, got); diff != "" {
		t.Errorf("rule names mismatch (-want +got):\n%s", diff)
	}
}

func TestNew_CustomRuleTable(t *testing.T) {
	m := New(OpenedPoint, AddressPoint)
	fc := m.Record(fullRecord())
	if diff := cmp.Diff([]string{domain.EventOpened, domain.EventAddress}, events(fc)); diff != "" {
		t.Errorf("custom order mismatch (-want +got):\n%s", diff)
	}
}
