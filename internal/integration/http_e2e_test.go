//go:build integration || !unit

package integration

import (
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hbnb_web/internal/adapters/fragment"
	"hbnb_web/internal/adapters/hbnb"
	server "hbnb_web/internal/adapters/http_server"
	redisad "hbnb_web/internal/adapters/redis"
	"hbnb_web/internal/adapters/session"
	"hbnb_web/internal/app"
	"hbnb_web/public"
)

// ---------- fake HBnB API ----------

type fakeAPI struct {
	token   string
	placeID string
	ownerID string

	mu      sync.Mutex
	reviews []map[string]any

	placeListHits atomic.Int32
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		token:   "jwt-" + uuid.NewString(),
		placeID: uuid.NewString(),
		ownerID: uuid.NewString(),
	}
}

func (a *fakeAPI) authorized(r *http.Request) bool {
	return r.Header.Get("Authorization") == "Bearer "+a.token
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p := strings.TrimPrefix(r.URL.Path, "/api/v1")
	switch {
	case r.Method == http.MethodPost && p == "/auth/login":
		var in map[string]string
		_ = json.NewDecoder(r.Body).Decode(&in)
		if in["email"] != "jane@example.com" || in["password"] != "secret" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid credentials"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"access_token": a.token})

	case !a.authorized(r):
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Missing Authorization Header"})

	case r.Method == http.MethodGet && p == "/places":
		a.placeListHits.Add(1)
		writeJSON(w, http.StatusOK, []map[string]any{
			{"id": a.placeID, "title": "Seaside Loft", "price": 45.0},
			{"id": uuid.NewString(), "title": "City Penthouse", "price": 250.0},
		})

	case r.Method == http.MethodGet && p == "/places/"+a.placeID:
		writeJSON(w, http.StatusOK, map[string]any{"place": map[string]any{
			"id": a.placeID, "title": "Seaside Loft", "price": 45.0,
			"description": "Wake up to the **sea**.", "owner_id": a.ownerID,
			"amenities": []string{"wifi-id", "Pool"},
		}})

	case r.Method == http.MethodGet && p == "/users/"+a.ownerID:
		writeJSON(w, http.StatusOK, map[string]string{"first_name": "Jane", "last_name": "Host"})

	case r.Method == http.MethodGet && p == "/amenities/":
		writeJSON(w, http.StatusOK, []map[string]string{{"id": "wifi-id", "name": "Wi-Fi"}})

	case p == "/places/"+a.placeID+"/reviews":
		a.mu.Lock()
		defer a.mu.Unlock()
		if r.Method == http.MethodPost {
			var in map[string]any
			_ = json.NewDecoder(r.Body).Decode(&in)
			in["user_id"] = "jane"
			a.reviews = append(a.reviews, in)
			writeJSON(w, http.StatusCreated, in)
			return
		}
		if len(a.reviews) == 0 {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "No reviews found"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"reviews": a.reviews})

	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	}
}

// ---------- wiring ----------

func newSite(t *testing.T, api http.Handler) *httptest.Server {
	t.Helper()

	backendSrv := httptest.NewServer(api)
	t.Cleanup(backendSrv.Close)
	backend, err := hbnb.New(backendSrv.URL, 100)
	require.NoError(t, err)

	mr := miniredis.RunT(t)
	cache := redisad.NewWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = cache.Close() })

	static, err := public.StaticFS()
	require.NoError(t, err)
	pages, err := server.NewRenderer()
	require.NoError(t, err)
	flash, err := session.NewFlash([]byte("integration-flash-key-0123456789"), false)
	require.NoError(t, err)

	srv := server.New(5 * time.Second)
	srv.MountHandlers(&server.Handlers{
		Auth:           app.NewAuthService(backend),
		Listing:        app.NewListingService(backend, cache, time.Minute),
		Detail:         app.NewDetailService(backend, cache, time.Minute),
		Reviews:        app.NewReviewService(backend, cache),
		Sessions:       session.CookieStore{},
		TokenTTL:       time.Hour,
		Flash:          flash,
		Chrome:         fragment.NewLoader(fragment.NewSource(static, nil)),
		FragmentSource: "element.html",
		Pages:          pages,
		Static:         static,
	})

	site := httptest.NewServer(srv.Mux())
	t.Cleanup(site.Close)
	return site
}

func newBrowser(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar, Timeout: 5 * time.Second}
}

func getDoc(t *testing.T, c *http.Client, u string) (*goquery.Document, int) {
	t.Helper()
	resp, err := c.Get(u)
	require.NoError(t, err)
	defer resp.Body.Close()
	d, err := goquery.NewDocumentFromReader(resp.Body)
	require.NoError(t, err)
	return d, resp.StatusCode
}

func postDoc(t *testing.T, c *http.Client, u string, form url.Values) *goquery.Document {
	t.Helper()
	resp, err := c.PostForm(u, form)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	d, err := goquery.NewDocumentFromReader(resp.Body)
	require.NoError(t, err)
	return d
}

// ---------- tests ----------

func TestE2E_LoginFailure(t *testing.T) {
	site := newSite(t, newFakeAPI())
	c := newBrowser(t)

	d := postDoc(t, c, site.URL+"/login", url.Values{"email": {"jane@example.com"}, "password": {"wrong"}})
	assert.Contains(t, d.Find(`[role="alertdialog"]`).Text(), "Login failed: Invalid credentials")

	u, _ := url.Parse(site.URL)
	for _, ck := range c.Jar.Cookies(u) {
		assert.NotEqual(t, "token", ck.Name)
	}
}

func TestE2E_BrowseAndReview(t *testing.T) {
	api := newFakeAPI()
	site := newSite(t, api)
	c := newBrowser(t)

	// anonymous landing page: no cards, login link shown
	d, _ := getDoc(t, c, site.URL+"/")
	assert.Equal(t, 0, d.Find(".place-card").Length())
	assert.Equal(t, 1, d.Find("nav .login-button").Length())
	assert.Equal(t, int32(0), api.placeListHits.Load())

	// login follows the 303 to the landing page
	d = postDoc(t, c, site.URL+"/login", url.Values{"email": {"jane@example.com"}, "password": {"secret"}})
	assert.Equal(t, 2, d.Find(".place-card").Length())
	assert.Equal(t, 0, d.Find("nav .login-button").Length())

	// filter is served from the cached listing
	d, _ = getDoc(t, c, site.URL+"/?max_price=50")
	assert.Equal(t, 1, d.Find(".place-card").Not("[hidden]").Length())
	assert.Equal(t, int32(1), api.placeListHits.Load())

	// detail
	href, ok := d.Find(".place-card").First().Find("a.details-button").Attr("href")
	require.True(t, ok)
	assert.Contains(t, href, api.placeID)

	d, status := getDoc(t, c, site.URL+href)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Seaside Loft", d.Find("#place-details h1").Text())
	assert.Equal(t, "Jane Host", d.Find(".host").Text())
	assert.Equal(t, "Wi-Fi, Pool", d.Find(".amenities").Text())
	assert.Equal(t, "sea", d.Find(".description strong").Text())
	assert.Equal(t, 0, d.Find(".review-card").Length())

	// review round trip shows the new review after the redirect
	d = postDoc(t, c, site.URL+"/place/reviews", url.Values{
		"place_id": {api.placeID}, "text": {"Great stay"}, "rating": {"5"},
	})
	assert.Contains(t, d.Find(`[role="alertdialog"]`).Text(), "Review submitted successfully!")
	require.Equal(t, 1, d.Find(".review-card").Length())
	assert.Contains(t, d.Find(".review-card .review-text").Text(), "Great stay")
	assert.Contains(t, d.Find(".review-card .review-rating").Text(), "5/5")

	// the notice is shown once
	d, _ = getDoc(t, c, site.URL+href)
	assert.Equal(t, 0, d.Find(`[role="alertdialog"]`).Length())
}
