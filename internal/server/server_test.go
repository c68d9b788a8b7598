package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/julianstephens/blockout/internal/models"
)

type memStore struct {
	mu      sync.Mutex
	dates   map[string][]models.Day
	reasons []string
	fail    bool
}

func newMemStore() *memStore {
	return &memStore{dates: map[string][]models.Day{}}
}

func (m *memStore) FetchUnavailableDates(_ context.Context, id string) ([]models.Day, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return nil, errors.New("boom")
	}
	return slices.Clone(m.dates[id]), nil
}

func (m *memStore) PersistUnavailableDates(_ context.Context, id string, dates []models.Day, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errors.New("boom")
	}
	m.dates[id] = slices.Clone(dates)
	m.reasons = append(m.reasons, reason)
	return nil
}

func jan(d int) models.Day { return models.NewDay(2024, time.January, d) }

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestListDates(t *testing.T) {
	store := newMemStore()
	store.dates["7"] = []models.Day{jan(1), jan(2)}
	h := New(store).Handler()

	rec := do(t, h, http.MethodGet, "/calender_api/products/7/unavailable-dates/", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	want := `[{"unavailable_date":"2024-01-01"},{"unavailable_date":"2024-01-02"}]`
	if got := strings.TrimSpace(rec.Body.String()); got != want {
		t.Errorf("body = %s, want %s", got, want)
	}

	rec = do(t, h, http.MethodGet, "/calender_api/products/8/unavailable-dates/", "")
	if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
		t.Errorf("empty product body = %s, want []", got)
	}
}

func TestPersistDates(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantSaved  int
		wantDates  []models.Day
		wantReason string
	}{
		{
			name:       "valid with reason",
			body:       `{"dates":["2024-01-03","2024-01-01","2024-01-03"],"reason":"vacation"}`,
			wantStatus: http.StatusOK,
			wantSaved:  2,
			wantDates:  []models.Day{jan(1), jan(3)},
			wantReason: "vacation",
		},
		{
			name:       "empty list clears",
			body:       `{"dates":[]}`,
			wantStatus: http.StatusOK,
			wantSaved:  0,
			wantDates:  []models.Day{},
		},
		{name: "bad date", body: `{"dates":["2024-13-01"]}`, wantStatus: http.StatusBadRequest},
		{name: "unknown field", body: `{"dates":[],"extra":1}`, wantStatus: http.StatusBadRequest},
		{name: "missing dates", body: `{"reason":"x"}`, wantStatus: http.StatusBadRequest},
		{name: "not json", body: `dates`, wantStatus: http.StatusBadRequest},
		{name: "trailing data", body: `{"dates":[]} {}`, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore()
			h := New(store).Handler()

			rec := do(t, h, http.MethodPost, "/calender_api/products/1/unavailable-dates/", tt.body)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantStatus != http.StatusOK {
				if len(store.reasons) != 0 {
					t.Error("store written on rejected request")
				}
				return
			}

			var resp models.PersistResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid response: %v", err)
			}
			if resp.Saved != tt.wantSaved {
				t.Errorf("saved = %d, want %d", resp.Saved, tt.wantSaved)
			}
			if !slices.Equal(store.dates["1"], tt.wantDates) {
				t.Errorf("stored = %v, want %v", store.dates["1"], tt.wantDates)
			}
			if store.reasons[0] != tt.wantReason {
				t.Errorf("reason = %q, want %q", store.reasons[0], tt.wantReason)
			}
		})
	}
}

func TestListRanges(t *testing.T) {
	store := newMemStore()
	store.dates["1"] = []models.Day{jan(1), jan(2), jan(3), jan(10)}
	h := New(store).Handler()

	rec := do(t, h, http.MethodGet, "/calender_api/products/1/unavailable-ranges/", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var got []models.RangeView
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	want := []models.RangeView{
		{Start: jan(1), End: jan(3), Label: "Jan 1, 2024 - Jan 3, 2024", Days: 3},
		{Start: jan(10), End: jan(10), Label: "Jan 10, 2024 - Jan 10, 2024", Days: 1},
	}
	if !slices.Equal(got, want) {
		t.Errorf("ranges = %+v, want %+v", got, want)
	}
}

func TestStoreFailures(t *testing.T) {
	store := newMemStore()
	store.fail = true
	h := New(store).Handler()

	for _, tc := range []struct{ method, path, body string }{
		{http.MethodGet, "/calender_api/products/1/unavailable-dates/", ""},
		{http.MethodPost, "/calender_api/products/1/unavailable-dates/", `{"dates":[]}`},
		{http.MethodGet, "/calender_api/products/1/unavailable-ranges/", ""},
	} {
		rec := do(t, h, tc.method, tc.path, tc.body)
		if rec.Code != http.StatusInternalServerError {
			t.Errorf("%s %s status = %d, want 500", tc.method, tc.path, rec.Code)
		}
	}
}

func TestRouting(t *testing.T) {
	h := New(newMemStore()).Handler()

	if rec := do(t, h, http.MethodDelete, "/calender_api/products/1/unavailable-dates/", ""); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("DELETE status = %d, want 405", rec.Code)
	}
	if rec := do(t, h, http.MethodGet, "/calender_api/products/1/other/", ""); rec.Code != http.StatusNotFound {
		t.Errorf("unknown path status = %d, want 404", rec.Code)
	}
}

func TestServeShutsDownOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- New(newMemStore()).Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/calender_api/products/1/unavailable-dates/")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	resp.Body.Close()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve() error = %v, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve() did not return after cancel")
	}
}
