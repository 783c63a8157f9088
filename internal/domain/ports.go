package domain

import (
	"context"
	"io"
	"net/http"
	"time"
)

// Backend is the HBnB REST API as seen by the web frontend.
type Backend interface {
	Login(ctx context.Context, email, password string) (string, error)
	ListPlaces(ctx context.Context, token string) ([]Place, error)
	GetPlace(ctx context.Context, token, id string) (Place, error)
	GetUser(ctx context.Context, token, id string) (Owner, error)
	ListReviews(ctx context.Context, token, placeID string) ([]Review, error)
	ListAmenities(ctx context.Context, token string) ([]Amenity, error)
	CreateReview(ctx context.Context, token, placeID string, in ReviewInput) error
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// SessionStore reads and writes the bearer token carried by the browser.
// It has no removal operation: logout is not defined yet.
type SessionStore interface {
	Token(r *http.Request) (string, bool)
	SetToken(w http.ResponseWriter, value string, ttl time.Duration)
}

// FragmentSource opens a shared HTML partial by URL or path.
type FragmentSource interface {
	Open(ctx context.Context, src string) (io.ReadCloser, error)
}
