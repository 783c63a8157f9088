package session

import (
	"net/http"
	"strings"
	"time"

	"hbnb_web/internal/domain"
)

// CookieName is where the bearer token lives.
const CookieName = "token"

// DefaultTTL matches the backend's access token lifetime.
const DefaultTTL = time.Hour

// CookieStore keeps the bearer token in a plain cookie. The backend
// validates it; nothing here inspects its contents.
type CookieStore struct {
	Secure bool
}

var _ domain.SessionStore = CookieStore{}

func (s CookieStore) Token(r *http.Request) (string, bool) {
	raw := strings.Join(r.Header.Values("Cookie"), "; ")
	return TokenFromCookieHeader(raw)
}

func (s CookieStore) SetToken(w http.ResponseWriter, value string, ttl time.Duration) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		Secure:   s.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

// TokenFromCookieHeader scans a raw Cookie header for the token pair.
// Prefixing "; " keeps "xtoken=" from matching. An empty value counts as absent.
func TokenFromCookieHeader(raw string) (string, bool) {
	parts := strings.Split("; "+raw, "; "+CookieName+"=")
	if len(parts) < 2 {
		return "", false
	}
	v := parts[1]
	if i := strings.IndexByte(v, ';'); i >= 0 {
		v = v[:i]
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

// Resolve builds the per-request session value.
func Resolve(store domain.SessionStore, r *http.Request) domain.Session {
	tok, _ := store.Token(r)
	return domain.Session{Token: tok}
}
