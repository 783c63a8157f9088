package session

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/securecookie"
)

const flashCookieName = "hbnb_flash"

var ErrInvalidFlashConfig = errors.New("flash: hash key is required")

// Notice is a one-shot message shown after a redirect.
type Notice struct {
	Text  string `json:"text"`
	Error bool   `json:"error,omitempty"`
}

// Flash carries notices across a redirect in a signed cookie.
type Flash struct {
	codec  *securecookie.SecureCookie
	secure bool
}

func NewFlash(hashKey []byte, secure bool) (*Flash, error) {
	if len(hashKey) == 0 {
		return nil, ErrInvalidFlashConfig
	}
	codec := securecookie.New(hashKey, nil)
	codec.SetSerializer(securecookie.JSONEncoder{})
	codec.MaxAge(300)
	return &Flash{codec: codec, secure: secure}, nil
}

func (f *Flash) Set(w http.ResponseWriter, n Notice) error {
	encoded, err := f.codec.Encode(flashCookieName, n)
	if err != nil {
		return fmt.Errorf("encode flash: %w", err)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    encoded,
		Path:     "/",
		MaxAge:   300,
		Secure:   f.secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Pop returns the pending notice, if any, and clears it. Tampered
// cookies are dropped silently.
func (f *Flash) Pop(w http.ResponseWriter, r *http.Request) (Notice, bool) {
	c, err := r.Cookie(flashCookieName)
	if err != nil {
		return Notice{}, false
	}
	http.SetCookie(w, &http.Cookie{Name: flashCookieName, Value: "", Path: "/", MaxAge: -1})

	var n Notice
	if err := f.codec.Decode(flashCookieName, c.Value, &n); err != nil {
		return Notice{}, false
	}
	return n, n.Text != ""
}
