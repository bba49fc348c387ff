package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/gorilla/mux"
	"go.uber.org/zap/zaptest"

	"github.com/spencer-p/sundial/pkg/civil"
	"github.com/spencer-p/sundial/pkg/data"
	"github.com/spencer-p/sundial/pkg/sunset"
	"github.com/spencer-p/sundial/pkg/visualize"
)

const penzaQuery = "date=2021-02-01&lat=53.183968&lon=43.981667&utc=3&dst=0"

type fakeHistory struct {
	mu      sync.Mutex
	records []data.Record
	err     error
}

func (f *fakeHistory) Save(ctx context.Context, r *data.Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.records = append(f.records, *r)
	return nil
}

func (f *fakeHistory) Recent(ctx context.Context, n int) ([]data.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var out []data.Record
	for i := len(f.records) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, f.records[i])
	}
	return out, nil
}

func newTestRouter(t *testing.T, history History) *mux.Router {
	t.Helper()
	opts := Options{
		Prefix:        "/",
		DefaultPlace:  sunset.SantaCruz,
		CacheTTL:      time.Minute,
		SessionKey:    []byte("test-session-key"),
		EncryptionKey: EncryptionKey("test-password"),
	}
	r := mux.NewRouter()
	New(opts, zaptest.NewLogger(t), history).Register(r)
	return r
}

func get(t *testing.T, h http.Handler, target string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("GET", target, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestSunEventsText(t *testing.T) {
	r := newTestRouter(t, nil)
	rec := get(t, r, "/api/v1/sunevents?"+penzaQuery)
	if rec.Code != http.StatusOK {
		t.Fatalf("got code %d: %s", rec.Code, rec.Body)
	}

	ev, err := sunset.Compute(civil.New(2021, 2, 1), sunset.Penza)
	if err != nil {
		t.Fatalf("unexpected: %v", err)
	}
	var want bytes.Buffer
	visualize.WriteEvents(&want, ev)
	if diff := cmp.Diff(want.String(), rec.Body.String()); diff != "" {
		t.Errorf("unexpected body (-want,+got): %s", diff)
	}
}

func TestSunEventsJSON(t *testing.T) {
	r := newTestRouter(t, nil)
	rec := get(t, r, "/api/v1/sunevents?o=json&name=Penza&"+penzaQuery)
	if rec.Code != http.StatusOK {
		t.Fatalf("got code %d: %s", rec.Code, rec.Body)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("got content type %q", ct)
	}

	var got eventsView
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	date := civil.New(2021, 2, 1)
	ev, _ := sunset.Compute(date, sunset.Penza)
	want := newEventsView(date, sunset.Penza, ev)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected result (-want,+got): %s", diff)
	}
	if got.Condition != "normal" {
		t.Errorf("got condition %q", got.Condition)
	}
}

func TestCacheKeepsPlaceNames(t *testing.T) {
	r := newTestRouter(t, nil)
	for _, name := range []string{"Penza", "Home", "Penza"} {
		rec := get(t, r, "/api/v1/sunevents?o=json&name="+name+"&"+penzaQuery)
		if rec.Code != http.StatusOK {
			t.Fatalf("got code %d: %s", rec.Code, rec.Body)
		}
		var got eventsView
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatalf("failed to decode: %v", err)
		}
		if got.Place.Name != name {
			t.Errorf("got place name %q, wanted %q", got.Place.Name, name)
		}
	}
}

func TestBadRequests(t *testing.T) {
	r := newTestRouter(t, nil)
	table := []struct {
		name  string
		query string
		want  int
	}{
		{"bad date", "date=2021-13-01", http.StatusBadRequest},
		{"lat without lon", "date=2021-02-01&lat=10", http.StatusBadRequest},
		{"lat out of range", "date=2021-02-01&lat=91&lon=0", http.StatusBadRequest},
		{"lon not a number", "date=2021-02-01&lat=0&lon=east", http.StatusBadRequest},
		{"dst out of range", "date=2021-02-01&dst=2", http.StatusBadRequest},
		{"utc out of range", "date=2021-02-01&utc=20", http.StatusBadRequest},
		{"year too early", "date=1999-06-01", http.StatusBadRequest},
		{"year too late", "date=2064-06-01", http.StatusBadRequest},
		{"day 366", "date=2020-12-31", http.StatusUnprocessableEntity},
		{"fine", "date=2021-02-01", http.StatusOK},
	}

	for _, tc := range table {
		t.Run(tc.name, func(t *testing.T) {
			rec := get(t, r, "/api/v1/sunevents?"+tc.query)
			if rec.Code != tc.want {
				t.Errorf("got code %d, wanted %d: %s", rec.Code, tc.want, rec.Body)
			}
		})
	}
}

func TestDaysRange(t *testing.T) {
	r := newTestRouter(t, nil)
	for _, n := range []string{"0", "367", "seven"} {
		if rec := get(t, r, "/api/v1/days?date=2021-02-01&n="+n); rec.Code != http.StatusBadRequest {
			t.Errorf("n=%s: got code %d", n, rec.Code)
		}
	}
}

func TestDaysJSON(t *testing.T) {
	r := newTestRouter(t, nil)
	// The last day of a leap year fails but does not fail the table.
	rec := get(t, r, "/api/v1/days?o=json&n=3&date=2020-12-30&lat=53.183968&lon=43.981667&utc=3")
	if rec.Code != http.StatusOK {
		t.Fatalf("got code %d: %s", rec.Code, rec.Body)
	}

	var got []dayView
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	var dates, errs []string
	for _, d := range got {
		dates = append(dates, d.Date)
		errs = append(errs, d.Error)
	}
	if diff := cmp.Diff([]string{"2020-12-30", "2020-12-31", "2021-01-01"}, dates); diff != "" {
		t.Errorf("unexpected dates (-want,+got): %s", diff)
	}
	if errs[0] != "" || errs[1] == "" || errs[2] != "" {
		t.Errorf("got errors %q, wanted only the second day to fail", errs)
	}
}

func TestDaylight(t *testing.T) {
	r := newTestRouter(t, nil)
	rec := get(t, r, "/api/v1/daylight.svg?n=30&"+penzaQuery)
	if rec.Code != http.StatusOK {
		t.Fatalf("got code %d: %s", rec.Code, rec.Body)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("got content type %q", ct)
	}
	if !strings.HasPrefix(rec.Body.String(), "<svg") {
		t.Errorf("body is not an svg: %.40s", rec.Body)
	}
}

func TestCompare(t *testing.T) {
	r := newTestRouter(t, nil)
	rec := get(t, r, "/api/v1/compare?o=json&"+penzaQuery)
	if rec.Code != http.StatusOK {
		t.Fatalf("got code %d: %s", rec.Code, rec.Body)
	}
	var got driftView
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if math.Abs(got.SunriseMinutes) > 10 || math.Abs(got.SunsetMinutes) > 10 {
		t.Errorf("drift too large: %+v", got)
	}

	polar := get(t, r, "/api/v1/compare?date=2021-06-21&lat=89&lon=0&utc=0")
	if polar.Code != http.StatusUnprocessableEntity {
		t.Errorf("polar day: got code %d", polar.Code)
	}
}

func TestHistory(t *testing.T) {
	history := &fakeHistory{}
	r := newTestRouter(t, history)

	for i := 0; i < 2; i++ {
		if rec := get(t, r, "/api/v1/sunevents?"+penzaQuery); rec.Code != http.StatusOK {
			t.Fatalf("got code %d: %s", rec.Code, rec.Body)
		}
	}
	// The second request is served from the cache.
	if len(history.records) != 1 {
		t.Fatalf("got %d records, wanted 1", len(history.records))
	}

	rec := get(t, r, "/api/v1/history?n=5")
	if rec.Code != http.StatusOK {
		t.Fatalf("got code %d: %s", rec.Code, rec.Body)
	}
	var got []eventsView
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	date := civil.New(2021, 2, 1)
	ev, _ := sunset.Compute(date, sunset.Penza)
	place := sunset.Penza
	place.Name = ""
	want := []eventsView{newEventsView(date, place, ev)}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected history (-want,+got): %s", diff)
	}
}

func TestHistoryFailures(t *testing.T) {
	if rec := get(t, newTestRouter(t, nil), "/api/v1/history"); rec.Code != http.StatusNotFound {
		t.Errorf("disabled history: got code %d", rec.Code)
	}

	broken := &fakeHistory{err: errors.New("connection refused")}
	r := newTestRouter(t, broken)
	if rec := get(t, r, "/api/v1/history"); rec.Code != http.StatusInternalServerError {
		t.Errorf("broken history: got code %d", rec.Code)
	}
	// Failing to save does not fail the computation.
	if rec := get(t, r, "/api/v1/sunevents?"+penzaQuery); rec.Code != http.StatusOK {
		t.Errorf("broken history: got code %d for sunevents", rec.Code)
	}
	if rec := get(t, r, "/api/v1/history?n=0"); rec.Code != http.StatusBadRequest {
		t.Errorf("n=0: got code %d", rec.Code)
	}
}

func TestConfigSession(t *testing.T) {
	r := newTestRouter(t, nil)

	form := url.Values{
		"name": {"Penza"},
		"lat":  {"53.183968"},
		"lon":  {"43.981667"},
		"utc":  {"3"},
		"dst":  {"0"},
	}
	req := httptest.NewRequest("POST", "/config", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusFound {
		t.Fatalf("got code %d: %s", rec.Code, rec.Body)
	}
	if loc := rec.Header().Get("Location"); loc != "/" {
		t.Errorf("redirected to %q, wanted /", loc)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatalf("no session cookie set")
	}

	if got := get(t, r, "/config").Body.String(); got != sunset.SantaCruz.String()+"\n" {
		t.Errorf("without a session got %q", got)
	}
	if got := get(t, r, "/config", cookies...).Body.String(); got != sunset.Penza.String()+"\n" {
		t.Errorf("with a session got %q", got)
	}

	// The saved place is used when the query names none.
	withSession := get(t, r, "/api/v1/sunevents?date=2021-02-01", cookies...)
	plain := get(t, r, "/api/v1/sunevents?"+penzaQuery)
	if diff := cmp.Diff(plain.Body.String(), withSession.Body.String()); diff != "" {
		t.Errorf("session place not used (-want,+got): %s", diff)
	}
}

func TestConfigRejectsBadPlace(t *testing.T) {
	r := newTestRouter(t, nil)
	form := url.Values{"lat": {"100"}, "lon": {"0"}}
	req := httptest.NewRequest("POST", "/config", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("got code %d", rec.Code)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Errorf("session saved for a rejected place")
	}
}

func TestPathJoinPreservePrefix(t *testing.T) {
	table := []struct {
		prefix, suffix, want string
	}{
		{"/", "/", "/"},
		{"/sundial/", "/", "/sundial/"},
		{"/sundial", "/config", "/sundial/config"},
	}
	for _, tc := range table {
		if got := pathJoinPreservePrefix(tc.prefix, tc.suffix); got != tc.want {
			t.Errorf("pathJoinPreservePrefix(%q, %q) = %q, wanted %q", tc.prefix, tc.suffix, got, tc.want)
		}
	}
}
