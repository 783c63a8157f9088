// internal/adapters/hbnb/client.go
package hbnb

import (
	"bytes"
	"context"
	crand "crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"hbnb_web/internal/adapters/observability"
	"hbnb_web/internal/domain"
)

const apiPrefix = "/api/v1"

type Client struct {
	base string
	hc   *http.Client
	rl   *rate.Limiter
}

func New(base string, rps int) (*Client, error) {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if base == "" {
		return nil, fmt.Errorf("API base URL is required")
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("API base URL: %w", err)
	}
	if rps <= 0 {
		rps = 10
	}
	return &Client{
		base: base,
		hc:   &http.Client{Timeout: 10 * time.Second},
		rl:   rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

// ---- Public API ----

func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	in := map[string]string{"email": email, "password": password}
	var out struct {
		AccessToken string `json:"access_token"`
	}
	if err := c.send(ctx, "auth.login", http.MethodPost, "/auth/login", "", in, &out); err != nil {
		return "", err
	}
	if out.AccessToken == "" {
		return "", fmt.Errorf("login response without access_token: %w", domain.ErrUnexpectedShape)
	}
	return out.AccessToken, nil
}

func (c *Client) ListPlaces(ctx context.Context, token string) ([]domain.Place, error) {
	var out []domain.Place
	return out, c.get(ctx, "places.list", "/places", token, &out)
}

// GetPlace expects the nested {"place": {...}} envelope; a bare object is an error.
func (c *Client) GetPlace(ctx context.Context, token, id string) (domain.Place, error) {
	var out struct {
		Place *domain.Place `json:"place"`
	}
	if err := c.get(ctx, "places.get", "/places/"+url.PathEscape(id), token, &out); err != nil {
		return domain.Place{}, err
	}
	if out.Place == nil {
		return domain.Place{}, fmt.Errorf("place %s: %w", id, domain.ErrUnexpectedShape)
	}
	return *out.Place, nil
}

func (c *Client) GetUser(ctx context.Context, token, id string) (domain.Owner, error) {
	var out domain.Owner
	return out, c.get(ctx, "users.get", "/users/"+url.PathEscape(id), token, &out)
}

func (c *Client) ListReviews(ctx context.Context, token, placeID string) ([]domain.Review, error) {
	var out struct {
		Reviews []domain.Review `json:"reviews"`
	}
	if err := c.get(ctx, "reviews.list", "/places/"+url.PathEscape(placeID)+"/reviews", token, &out); err != nil {
		return nil, err
	}
	return out.Reviews, nil
}

func (c *Client) ListAmenities(ctx context.Context, token string) ([]domain.Amenity, error) {
	var out []domain.Amenity
	return out, c.get(ctx, "amenities.list", "/amenities/", token, &out)
}

func (c *Client) CreateReview(ctx context.Context, token, placeID string, in domain.ReviewInput) error {
	return c.send(ctx, "reviews.create", http.MethodPost, "/places/"+url.PathEscape(placeID)+"/reviews", token, in, nil)
}

// ---- Internals ----

func (c *Client) newRequest(ctx context.Context, method, path, token string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.base+apiPrefix+path, body)
	if err != nil {
		return nil, err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "hbnb-web/1.0")
	return req, nil
}

// send performs a single non-idempotent request. Writes are never retried.
func (c *Client) send(ctx context.Context, endpoint, method, path, token string, in, out any) error {
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}
	payload, err := json.Marshal(in)
	if err != nil {
		return err
	}
	req, err := c.newRequest(ctx, method, path, token, bytes.NewReader(payload))
	if err != nil {
		return err
	}

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveBackend(endpoint, 0, time.Since(start))
		return fmt.Errorf("%s: %w", endpoint, err)
	}
	defer resp.Body.Close()
	observability.ObserveBackend(endpoint, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// get performs a GET with client-side rate limiting, retries, and JSON decode into out.
// Retries on 429 and transient 5xx, honoring Retry-After when provided.
func (c *Client) get(ctx context.Context, endpoint, path, token string, out any) error {
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}

	var lastErr error
	for i := 0; i < 4; i++ {
		// build a fresh request each attempt
		req, err := c.newRequest(ctx, http.MethodGet, path, token, nil)
		if err != nil {
			return err
		}

		start := time.Now()
		resp, err := c.hc.Do(req)
		if err != nil {
			observability.ObserveBackend(endpoint, 0, time.Since(start))
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = fmt.Errorf("%s: %w", endpoint, err)
			if i < 3 && sleepCtx(ctx, backoff(i)) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr
		}
		observability.ObserveBackend(endpoint, resp.StatusCode, time.Since(start))

		switch resp.StatusCode {
		case http.StatusOK, http.StatusCreated, http.StatusAccepted:
			err := json.NewDecoder(resp.Body).Decode(out)
			resp.Body.Close()
			if err != nil {
				return fmt.Errorf("%s: decode: %w", endpoint, err)
			}
			return nil

		case http.StatusNoContent:
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			return nil

		case http.StatusTooManyRequests, http.StatusInternalServerError,
			http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			wait := retryAfter(resp)
			lastErr = decodeError(resp)
			if wait == 0 {
				wait = backoff(i)
			}
			if i < 3 && sleepCtx(ctx, wait) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr

		default:
			return decodeError(resp)
		}
	}

	return lastErr
}

// decodeError reads a small error body and closes it. The backend answers
// with {"message": ...} or {"error": ...}; message wins.
func decodeError(resp *http.Response) error {
	defer resp.Body.Close()
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	apiErr := &domain.APIError{Status: resp.StatusCode}
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(b, &body); err == nil {
		switch {
		case strings.TrimSpace(body.Message) != "":
			apiErr.Message = strings.TrimSpace(body.Message)
		case strings.TrimSpace(body.Error) != "":
			apiErr.Message = strings.TrimSpace(body.Error)
		}
	}
	return apiErr
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After header (seconds or HTTP-date). Returns 0 if absent/invalid.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff returns an exponential backoff delay with up to +50% jitter.
// i = retry attempt (0,1,2,...): 200ms, 400ms, 800ms...
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	j := time.Duration(0.5 * f * float64(base))
	return base + j
}
