package airtable

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/99minutos/delivery-map/internal/core/domain"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := NewClient(Config{
		APIKey:    "pat_test",
		BaseID:    "appBASE",
		Endpoint:  srv.URL + "/v0",
		PingTable: "Deliveries",
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func TestNewClient_RequiresCredentials(t *testing.T) {
	if _, err := NewClient(Config{BaseID: "app"}); err == nil {
		t.Error("expected error without api key")
	}
	if _, err := NewClient(Config{APIKey: "k"}); err == nil {
		t.Error("expected error without base id")
	}
	if _, err := NewClient(Config{APIKey: "k", BaseID: "app", Endpoint: "::not a url"}); err == nil {
		t.Error("expected error for invalid endpoint")
	}
}

func TestFetchOne_Success(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v0/appBASE/Deliveries 2024/recABC" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer pat_test" {
			t.Errorf("unexpected auth header %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"id": "recABC",
			"createdTime": "2024-05-01T10:00:00.000Z",
			"fields": {
				"Customers Full Name": "Ada",
				"Where was the package delivered (if it was)?": "12.34, 56.78",
				"Proof of delivery image": [{"id": "att1", "url": "https://dl.example.com/a.jpg"}]
			}
		}`)
	})

	rec, err := c.FetchOne(context.Background(), "Deliveries 2024", "recABC")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.ID != "recABC" {
		t.Errorf("unexpected id %q", rec.ID)
	}
	if !rec.CreatedTime.Equal(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected created time %v", rec.CreatedTime)
	}
	if rec.String(domain.FieldCustomerName) != "Ada" {
		t.Errorf("unexpected name %q", rec.String(domain.FieldCustomerName))
	}
	atts := rec.Attachments(domain.FieldProofOfDelivery)
	if len(atts) != 1 || atts[0].URL != "https://dl.example.com/a.jpg" {
		t.Errorf("unexpected attachments %+v", atts)
	}
}

func TestFetchOne_StatusMapping(t *testing.T) {
	cases := []struct {
		status int
		body   string
		want   error
	}{
		{http.StatusNotFound, `{"error":"NOT_FOUND"}`, domain.ErrRecordNotFound},
		{http.StatusUnauthorized, `{"error":{"type":"AUTHENTICATION_REQUIRED","message":"Authentication required"}}`, domain.ErrUnauthorized},
		{http.StatusForbidden, `{"error":{"type":"INVALID_PERMISSIONS_OR_MODEL_NOT_FOUND","message":"nope"}}`, domain.ErrUnauthorized},
		{http.StatusUnprocessableEntity, `{"error":{"type":"INVALID_REQUEST","message":"bad"}}`, domain.ErrUpstream},
		{http.StatusInternalServerError, `oops`, domain.ErrUpstream},
		{http.StatusTooManyRequests, ``, domain.ErrUpstream},
	}

	for _, tc := range cases {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
			fmt.Fprint(w, tc.body)
		})

		_, err := c.FetchOne(context.Background(), "Deliveries", "recX")
		if !errors.Is(err, tc.want) {
			t.Errorf("status %d: expected %v, got %v", tc.status, tc.want, err)
		}
	}
}

func TestFetchOne_EmptyIDIsNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("no request expected")
	})
	if _, err := c.FetchOne(context.Background(), "Deliveries", " "); !errors.Is(err, domain.ErrRecordNotFound) {
		t.Errorf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestFetchOne_NetworkErrorIsUpstream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	endpoint := srv.URL
	srv.Close()

	c, err := NewClient(Config{APIKey: "k", BaseID: "app", Endpoint: endpoint, Timeout: time.Second})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if _, err := c.FetchOne(context.Background(), "Deliveries", "recX"); !errors.Is(err, domain.ErrUpstream) {
		t.Errorf("expected ErrUpstream, got %v", err)
	}
}

func TestFetchOne_MalformedBodyIsUpstream(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id":`)
	})
	if _, err := c.FetchOne(context.Background(), "Deliveries", "recX"); !errors.Is(err, domain.ErrUpstream) {
		t.Errorf("expected ErrUpstream, got %v", err)
	}
}

func TestFetchAll_Paginates(t *testing.T) {
	var calls int
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		q := r.URL.Query()
		if q.Get("view") != "Grid view" {
			t.Errorf("unexpected view %q", q.Get("view"))
		}
		if q.Get("pageSize") != "100" {
			t.Errorf("unexpected pageSize %q", q.Get("pageSize"))
		}

		switch q.Get("offset") {
		case "":
			fmt.Fprint(w, `{"records":[{"id":"rec1","fields":{}},{"id":"rec2","fields":{}}],"offset":"itrNEXT/rec2"}`)
		case "itrNEXT/rec2":
			fmt.Fprint(w, `{"records":[{"id":"rec3","fields":{"Package Status":"Delivered"}}]}`)
		default:
			t.Errorf("unexpected offset %q", q.Get("offset"))
		}
	})

	recs, err := c.FetchAll(context.Background(), "Deliveries", "Grid view")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 2 {
		t.Errorf("expected 2 page requests, got %d", calls)
	}
	if len(recs) != 3 || recs[0].ID != "rec1" || recs[1].ID != "rec2" || recs[2].ID != "rec3" {
		t.Fatalf("unexpected records %+v", recs)
	}
	if recs[2].String(domain.FieldPackageStatus) != "Delivered" {
		t.Errorf("fields not decoded: %+v", recs[2].Fields)
	}
	if recs[0].Fields == nil {
		t.Errorf("fields must never be nil")
	}
}

func TestFetchAll_NoViewOmitsParameter(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if _, ok := r.URL.Query()["view"]; ok {
			t.Errorf("view parameter must be omitted")
		}
		fmt.Fprint(w, `{"records":[]}`)
	})

	recs, err := c.FetchAll(context.Background(), "Deliveries", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if recs == nil || len(recs) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", recs)
	}
}

func TestFetchAll_ErrorMidway(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("offset") == "" {
			fmt.Fprint(w, `{"records":[{"id":"rec1","fields":{}}],"offset":"next"}`)
			return
		}
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"error":"NOT_FOUND"}`)
	})

	recs, err := c.FetchAll(context.Background(), "Deliveries", "Grid view")
	if !errors.Is(err, domain.ErrUpstream) {
		t.Errorf("a 404 on a listing is an upstream failure, got %v", err)
	}
	if recs != nil {
		t.Errorf("expected no partial result, got %d records", len(recs))
	}
}

func TestPing(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v0/appBASE/Deliveries" || r.URL.Query().Get("maxRecords") != "1" {
			t.Errorf("unexpected ping request %s", r.URL)
		}
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":{"type":"AUTHENTICATION_REQUIRED","message":"Authentication required"}}`)
	})

	if err := c.Ping(context.Background()); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
}

func TestDecodeError(t *testing.T) {
	e := decodeError(404, []byte(`{"error":"NOT_FOUND"}`))
	if e.Type != "NOT_FOUND" || e.Error() != "status 404: NOT_FOUND" {
		t.Errorf("unexpected %+v / %q", e, e.Error())
	}

	e = decodeError(422, []byte(`{"error":{"type":"INVALID_REQUEST","message":"bad view"}}`))
	if e.Error() != "status 422: INVALID_REQUEST: bad view" {
		t.Errorf("unexpected %q", e.Error())
	}

	e = decodeError(502, []byte("<html>bad gateway</html>"))
	if e.Message != "<html>bad gateway</html>" {
		t.Errorf("unexpected %+v", e)
	}
}
