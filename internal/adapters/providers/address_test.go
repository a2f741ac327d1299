package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"osint-aggregator/internal/domain/model"
)

func newTestAddress(apiKey, baseURL string) *Address {
	a := NewAddress(apiKey, 2*time.Second)
	a.BaseURL = baseURL
	return a
}

func geocodeJSON(status string, n int) string {
	var results []string
	for i := 0; i < n; i++ {
		results = append(results, fmt.Sprintf(`{
			"formatted_address": "%d Main St, Springfield",
			"geometry": {"location": {"lat": %d.5, "lng": -72.0}},
			"place_id": "place%d",
			"types": ["street_address"]
		}`, i, i, i))
	}
	return fmt.Sprintf(`{"status": %q, "results": [%s]}`, status, strings.Join(results, ","))
}

func TestAddressLookupName_NoAPIKeyStub(t *testing.T) {
	t.Parallel()

	a := newTestAddress("", "http://127.0.0.1:1")

	res := a.LookupName(context.Background(), "Jane Doe")
	records := res.Payload.([]model.AddressRecord)
	if len(records) != 1 {
		t.Fatalf("records=%v", records)
	}
	if records[0].Name != "Jane Doe" || !strings.Contains(records[0].Note, "API key required") {
		t.Fatalf("record=%+v", records[0])
	}
}

func TestAddressLookupName_CapsResults(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("key") != "k" {
			t.Errorf("key=%q", r.URL.Query().Get("key"))
		}
		fmt.Fprint(w, geocodeJSON("OK", 8))
	}))
	defer srv.Close()

	a := newTestAddress("k", srv.URL)
	records := a.LookupName(context.Background(), "Springfield").Payload.([]model.AddressRecord)
	if len(records) != 5 {
		t.Fatalf("records=%d, want 5", len(records))
	}
	if records[0].FormattedAddress != "0 Main St, Springfield" || records[0].Location == nil {
		t.Fatalf("record[0]=%+v", records[0])
	}
}

func TestAddressLookupName_FailureIsSoft(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, geocodeJSON("REQUEST_DENIED", 0))
	}))
	defer srv.Close()

	a := newTestAddress("k", srv.URL)
	res := a.LookupName(context.Background(), "x")
	if res.Err != "" {
		t.Fatalf("provider error leaked: %v", res.Err)
	}
	records := res.Payload.([]model.AddressRecord)
	if len(records) != 1 || !strings.Contains(records[0].Note, "geocoding failed") {
		t.Fatalf("records=%+v", records)
	}
}

func TestAddressGeocode(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("address"); got != "1600 Amphitheatre Pkwy" {
			t.Errorf("address=%q", got)
		}
		fmt.Fprint(w, geocodeJSON("OK", 1))
	}))
	defer srv.Close()

	a := newTestAddress("k", srv.URL)
	rec, err := a.Geocode(context.Background(), "1600 Amphitheatre Pkwy")
	if err != nil {
		t.Fatalf("geocode: %v", err)
	}
	if rec.PlaceID != "place0" || rec.Location.Lat != 0.5 {
		t.Fatalf("record=%+v", rec)
	}

	// 无凭据时单条查询需要显式报错
	if _, err := newTestAddress("", srv.URL).Geocode(context.Background(), "x"); err == nil {
		t.Fatal("geocode without key: err=nil")
	}
}

func TestAddressGeocode_ZeroResults(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, geocodeJSON("ZERO_RESULTS", 0))
	}))
	defer srv.Close()

	a := newTestAddress("k", srv.URL)
	if _, err := a.Geocode(context.Background(), "nowhere"); err == nil {
		t.Fatal("empty result: err=nil")
	}

	// 但对批量检索，ZERO_RESULTS 是合法的空列表
	records := a.LookupName(context.Background(), "nowhere").Payload.([]model.AddressRecord)
	if len(records) != 0 {
		t.Fatalf("records=%v, want empty", records)
	}
}

func TestAddressReverseGeocode(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("latlng"); got == "" {
			t.Error("latlng missing")
		}
		fmt.Fprint(w, geocodeJSON("OK", 2))
	}))
	defer srv.Close()

	a := newTestAddress("k", srv.URL)
	rec, err := a.ReverseGeocode(context.Background(), 42.1, -72.5)
	if err != nil {
		t.Fatalf("reverse geocode: %v", err)
	}
	if rec.FormattedAddress == "" || rec.Location == nil {
		t.Fatalf("record=%+v", rec)
	}
}
