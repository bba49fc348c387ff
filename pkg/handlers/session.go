package handlers

import (
	"crypto/sha1"
	"fmt"
	"net/http"
	"path"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
	"golang.org/x/crypto/pbkdf2"

	"github.com/spencer-p/sundial/pkg/sunset"
)

const (
	sessionName = "sundial"

	sessionPlaceName = "name"
	sessionLat       = "lat"
	sessionLon       = "lon"
	sessionUTC       = "utc"
	sessionDST       = "dst"

	// See https://developer.chrome.com/blog/cookie-max-age-expires.
	defaultMaxAge = 60 * 60 * 24 * 400 // 400 days in seconds.
)

// EncryptionKey derives a cookie encryption key from a password.
func EncryptionKey(password string) []byte {
	return pbkdf2.Key([]byte(password), []byte{}, 4096, 32, sha1.New)
}

func newCookieStore(hashKey, encryptionKey []byte) *sessions.CookieStore {
	store := &sessions.CookieStore{
		Codecs: securecookie.CodecsFromPairs(hashKey, encryptionKey),
		Options: &sessions.Options{
			Path:     "/",
			MaxAge:   defaultMaxAge,
			Secure:   true,
			HttpOnly: true,
		},
	}
	store.MaxAge(defaultMaxAge)
	return store
}

// placeFor returns the place saved in the session, or the default place.
func (s *Server) placeFor(r *http.Request) sunset.Place {
	session, _ := s.store.Get(r, sessionName)
	p, ok := placeFromSession(session)
	if !ok {
		return s.opts.DefaultPlace
	}
	return p
}

func placeFromSession(session *sessions.Session) (sunset.Place, bool) {
	var p sunset.Place
	var ok bool
	if p.Lat, ok = session.Values[sessionLat].(float64); !ok {
		return p, false
	}
	if p.Long, ok = session.Values[sessionLon].(float64); !ok {
		return p, false
	}
	p.Name, _ = session.Values[sessionPlaceName].(string)
	p.UTCOffset, _ = session.Values[sessionUTC].(int)
	p.DST, _ = session.Values[sessionDST].(int)
	return p, true
}

// serveConfig shows the place used by default on GET and replaces it with
// the posted one on POST.
func (s *Server) serveConfig(w http.ResponseWriter, r *http.Request) {
	session, err := s.store.Get(r, sessionName)
	if err != nil {
		s.log.Debug("discarding unreadable session", zap.Error(err))
	}

	if r.Method == http.MethodGet {
		w.Header().Add("Content-Type", "text/plain")
		fmt.Fprintf(w, "%s\n", s.placeFor(r))
		return
	}

	if err := r.ParseForm(); err != nil {
		s.fail(w, r, badRequest("failed to parse form: %v", err))
		return
	}
	// Reuse the query parser so the same ranges apply.
	q, err := s.parseQuery(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	session.Values[sessionPlaceName] = q.place.Name
	session.Values[sessionLat] = q.place.Lat
	session.Values[sessionLon] = q.place.Long
	session.Values[sessionUTC] = q.place.UTCOffset
	session.Values[sessionDST] = q.place.DST
	if err := session.Save(r, w); err != nil {
		s.fail(w, r, fmt.Errorf("failed to save session: %w", err))
		return
	}
	s.log.Info("saved place", zap.Stringer("place", q.place))

	http.Redirect(w, r, pathJoinPreservePrefix(s.opts.Prefix, "/"), http.StatusFound)
}

func pathJoinPreservePrefix(prefix string, suffix string) string {
	trimmedPrefix := path.Join(prefix, "")
	result := path.Join(prefix, suffix)
	if result == trimmedPrefix {
		return prefix
	}
	return result
}
