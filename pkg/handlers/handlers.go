package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"

	"github.com/spencer-p/sundial/pkg/cache"
	"github.com/spencer-p/sundial/pkg/civil"
	"github.com/spencer-p/sundial/pkg/crosscheck"
	"github.com/spencer-p/sundial/pkg/data"
	"github.com/spencer-p/sundial/pkg/metrics"
	"github.com/spencer-p/sundial/pkg/sunset"
	"github.com/spencer-p/sundial/pkg/visualize"
)

const (
	defaultDays = 7
	maxDays     = 366

	defaultHistory = 20
	maxHistory     = 500
)

// History stores successful computations. A nil History disables the
// history endpoint.
type History interface {
	Save(ctx context.Context, r *data.Record) error
	Recent(ctx context.Context, n int) ([]data.Record, error)
}

// Options configures a Server.
type Options struct {
	// Prefix the server is mounted under, used for redirects.
	Prefix string
	// DefaultPlace is used when neither the query nor the session name one.
	DefaultPlace sunset.Place
	// CacheTTL bounds how long rendered responses are reused.
	CacheTTL time.Duration
	// SessionKey authenticates session cookies; EncryptionKey encrypts them.
	SessionKey    []byte
	EncryptionKey []byte
}

// Server serves sun events over HTTP.
type Server struct {
	opts    Options
	log     *zap.Logger
	store   sessions.Store
	cache   *cache.Timed[string, response]
	history History
}

// response is a rendered body kept in the cache.
type response struct {
	contentType string
	body        []byte
}

// New creates a Server. history may be nil.
func New(opts Options, log *zap.Logger, history History) *Server {
	return &Server{
		opts:    opts,
		log:     log,
		store:   newCookieStore(opts.SessionKey, opts.EncryptionKey),
		cache:   cache.NewTimed[string, response](opts.CacheTTL),
		history: history,
	}
}

// Register adds the server's routes to r.
func (s *Server) Register(r *mux.Router) {
	r.HandleFunc("/", s.handleIndex).Methods("GET")
	r.Handle("/api/v1/sunevents", s.cached(s.serveSunEvents)).Methods("GET")
	r.Handle("/api/v1/days", s.cached(s.serveDays)).Methods("GET")
	r.Handle("/api/v1/compare", s.cached(s.serveCompare)).Methods("GET")
	r.Handle("/api/v1/daylight.svg", s.cached(s.serveDaylight)).Methods("GET")
	r.HandleFunc("/api/v1/history", s.serveHistory).Methods("GET")
	r.HandleFunc("/config", s.serveConfig).Methods("GET", "POST")
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Add("Content-Type", "text/plain")
	fmt.Fprintf(w, `sundial computes sunrise and sunset.

GET  /api/v1/sunevents?date=2021-02-01&lat=53.18&lon=43.98&utc=3&dst=0[&o=json]
GET  /api/v1/days?date=2021-02-01&n=7[&o=json]
GET  /api/v1/compare?date=2021-02-01
GET  /api/v1/daylight.svg?date=2021-02-01&n=30
GET  /api/v1/history?n=20
POST /config (name, lat, lon, utc, dst)

Default place: %s
`, s.placeFor(r))
}

// renderFunc renders the body for a parsed query.
type renderFunc func(r *http.Request, q query) (response, error)

// cached parses the query, serves a cached body when one exists for the same
// resolved place and parameters, and renders and caches it otherwise.
func (s *Server) cached(render renderFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q, err := s.parseQuery(r)
		if err != nil {
			s.fail(w, r, err)
			return
		}

		key := fmt.Sprintf("%s %s %s", r.Method, r.URL.Path, q.key())
		if cached, ok := s.cache.Get(key); ok {
			write(w, cached)
			return
		}
		s.log.Debug("no cache data", zap.String("key", key))

		resp, err := render(r, q)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		s.cache.Set(key, resp)
		write(w, resp)
	})
}

func write(w http.ResponseWriter, resp response) {
	w.Header().Add("Content-Type", resp.contentType)
	w.WriteHeader(http.StatusOK)
	w.Write(resp.body)
}

func (s *Server) serveSunEvents(r *http.Request, q query) (response, error) {
	ev, err := s.compute(r.Context(), q.date, q.place)
	if err != nil {
		return response{}, err
	}
	if q.json {
		return jsonResponse(newEventsView(q.date, q.place, ev))
	}
	var b bytes.Buffer
	visualize.WriteEvents(&b, ev)
	return response{"text/plain", b.Bytes()}, nil
}

func (s *Server) serveDays(r *http.Request, q query) (response, error) {
	days := sunset.Days(q.date, q.days, q.place)
	for _, day := range days {
		metrics.ObserveComputation(result(day.Err))
	}

	if q.json {
		views := make([]dayView, len(days))
		for i, day := range days {
			views[i] = newDayView(day, q.place)
		}
		return jsonResponse(views)
	}
	var b bytes.Buffer
	for _, day := range days {
		visualize.WriteDay(&b, day)
	}
	return response{"text/plain", b.Bytes()}, nil
}

func (s *Server) serveCompare(r *http.Request, q query) (response, error) {
	drift, err := crosscheck.Compare(q.date, q.place)
	if err != nil {
		metrics.ObserveComputation(result(err))
		return response{}, err
	}
	metrics.ObserveComputation(metrics.ResultOK)
	if q.json {
		return jsonResponse(newDriftView(drift, q.place))
	}
	var b bytes.Buffer
	fmt.Fprintf(&b, "Sunrise drift\t %+.0f min (reference %s)\nSunset drift\t %+.0f min (reference %s)\n",
		drift.RiseDrift, drift.Sunrise,
		drift.SetDrift, drift.Sunset)
	return response{"text/plain", b.Bytes()}, nil
}

func (s *Server) serveDaylight(r *http.Request, q query) (response, error) {
	days := sunset.Days(q.date, q.days, q.place)
	var b bytes.Buffer
	if _, err := visualize.NewDaylight(days).Encode(&b); err != nil {
		return response{}, err
	}
	return response{"image/svg+xml", b.Bytes()}, nil
}

func (s *Server) serveHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		http.Error(w, "history is not enabled", http.StatusNotFound)
		return
	}
	n, err := intParam(r, "n", defaultHistory)
	if err != nil || n < 1 || n > maxHistory {
		s.fail(w, r, badRequest("n must be between 1 and %d", maxHistory))
		return
	}

	records, err := s.history.Recent(r.Context(), n)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	views := make([]eventsView, len(records))
	for i, rec := range records {
		views[i] = newEventsView(civil.Unpack(rec.Date), rec.Location(), rec.Events())
	}
	resp, err := jsonResponse(views)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	write(w, resp)
}

// compute runs the orchestrator, counts the result and records successes in
// the history.
func (s *Server) compute(ctx context.Context, date civil.DateTime, place sunset.Place) (sunset.Events, error) {
	ev, err := sunset.Compute(date, place)
	metrics.ObserveComputation(result(err))
	if err != nil {
		return ev, err
	}

	if s.history != nil {
		rec := data.NewRecord(date, place, ev)
		if err := s.history.Save(ctx, &rec); err != nil {
			s.log.Warn("failed to save history", zap.Error(err))
		}
	}
	return ev, nil
}

func result(err error) string {
	switch {
	case err == nil:
		return metrics.ResultOK
	case errors.Is(err, sunset.ErrInvalidDayOfYear):
		return metrics.ResultInvalidDay
	case errors.Is(err, sunset.ErrAmbiguousPolar):
		return metrics.ResultAmbiguousPolar
	default:
		return metrics.ResultError
	}
}

// fail writes err with a status derived from its kind.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	var bad *badRequestError
	code := http.StatusInternalServerError
	switch {
	case errors.As(err, &bad):
		code = http.StatusBadRequest
	case errors.Is(err, sunset.ErrAmbiguousPolar),
		errors.Is(err, sunset.ErrInvalidDayOfYear),
		errors.Is(err, crosscheck.ErrNoReference):
		code = http.StatusUnprocessableEntity
	}

	fields := []zap.Field{
		zap.String("method", r.Method),
		zap.Stringer("url", r.URL),
		zap.Int("code", code),
		zap.Error(err),
	}
	switch code {
	case http.StatusInternalServerError:
		s.log.Error("request failed", fields...)
	case http.StatusUnprocessableEntity:
		// Expected near the poles and at the end of leap years.
		s.log.Info("no sun events", fields...)
	default:
		s.log.Debug("bad request", fields...)
	}

	http.Error(w, err.Error(), code)
}

func jsonResponse(v any) (response, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return response{}, fmt.Errorf("failed to encode JSON result: %w", err)
	}
	return response{"application/json", body}, nil
}

func intParam(r *http.Request, name string, def int) (int, error) {
	v := r.FormValue(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, badRequest("%s %q is not an integer", name, v)
	}
	return n, nil
}
