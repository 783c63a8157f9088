package app_test

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"hbnb_web/internal/domain"
)

// ---- fakes ----

type fakeBackend struct {
	loginToken string
	loginErr   error

	places    []domain.Place
	placesErr error
	place     domain.Place
	placeErr  error
	placeWait time.Duration
	owner     domain.Owner
	ownerErr  error
	reviews   []domain.Review
	reviewErr error
	amenities []domain.Amenity
	createErr error

	calls      atomic.Int32
	placeCalls atomic.Int32
	mu         sync.Mutex
	created    []domain.ReviewInput
}

func (f *fakeBackend) Login(ctx context.Context, email, password string) (string, error) {
	f.calls.Add(1)
	return f.loginToken, f.loginErr
}
func (f *fakeBackend) ListPlaces(ctx context.Context, token string) ([]domain.Place, error) {
	f.calls.Add(1)
	return f.places, f.placesErr
}
func (f *fakeBackend) GetPlace(ctx context.Context, token, id string) (domain.Place, error) {
	f.calls.Add(1)
	f.placeCalls.Add(1)
	if f.placeWait > 0 {
		select {
		case <-time.After(f.placeWait):
		case <-ctx.Done():
			return domain.Place{}, ctx.Err()
		}
	}
	return f.place, f.placeErr
}
func (f *fakeBackend) GetUser(ctx context.Context, token, id string) (domain.Owner, error) {
	f.calls.Add(1)
	return f.owner, f.ownerErr
}
func (f *fakeBackend) ListReviews(ctx context.Context, token, placeID string) ([]domain.Review, error) {
	f.calls.Add(1)
	return f.reviews, f.reviewErr
}
func (f *fakeBackend) ListAmenities(ctx context.Context, token string) ([]domain.Amenity, error) {
	f.calls.Add(1)
	return f.amenities, nil
}
func (f *fakeBackend) CreateReview(ctx context.Context, token, placeID string, in domain.ReviewInput) error {
	f.calls.Add(1)
	f.mu.Lock()
	f.created = append(f.created, in)
	f.mu.Unlock()
	return f.createErr
}

// fakeCache stores JSON like the Redis adapter does.
type fakeCache struct {
	mu      sync.Mutex
	store   map[string][]byte
	deleted []string
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}
func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store == nil {
		c.store = map[string][]byte{}
	}
	c.store[key] = b
	return nil
}
func (c *fakeCache) Del(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.store, key)
	c.deleted = append(c.deleted, key)
	return nil
}

func (c *fakeCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.store[key]
	return ok
}
