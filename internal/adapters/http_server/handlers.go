// internal/adapters/http_server/handlers.go
package httpserver

import (
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"hbnb_web/internal/adapters/fragment"
	"hbnb_web/internal/adapters/session"
	"hbnb_web/internal/app"
	"hbnb_web/internal/domain"
)

type Handlers struct {
	Auth    *app.AuthService
	Listing *app.ListingService
	Detail  *app.DetailService
	Reviews *app.ReviewService

	Sessions domain.SessionStore
	TokenTTL time.Duration
	Flash    *session.Flash

	Chrome         *fragment.Loader
	FragmentSource string
	Pages          *Renderer
	Static         fs.FS
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	if h.Static != nil {
		s.mux.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(h.Static))))
	}

	pages := s.mux.With(Session(h.Sessions))
	pages.Get("/", h.index)
	pages.Get("/login", h.loginForm)
	pages.Post("/login", h.login)
	pages.Get("/place", h.place)
	pages.Post("/place/reviews", h.submitReview)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// page builds the data every page shares: chrome, pending notice, session.
// A chrome failure leaves nav and footer empty.
func (h *Handlers) page(w http.ResponseWriter, r *http.Request, title string) pageData {
	sess := SessionFrom(r.Context())
	d := pageData{Title: title, Session: sess}

	if h.Chrome != nil {
		chrome, _ := h.Chrome.Inject(r.Context(), h.FragmentSource, "nav", "footer")
		d.Nav, d.Footer = chrome["nav"], chrome["footer"]
		if sess.Authenticated() {
			d.Nav = fragment.Remove(d.Nav, ".login-button")
		}
	}
	if h.Flash != nil {
		if n, ok := h.Flash.Pop(w, r); ok {
			d.Notice = &n
		}
	}
	return d
}

func (h *Handlers) notify(w http.ResponseWriter, n session.Notice) {
	if h.Flash == nil {
		return
	}
	if err := h.Flash.Set(w, n); err != nil {
		log.Error().Err(err).Msg("set flash failed")
	}
}

func (h *Handlers) index(w http.ResponseWriter, r *http.Request) {
	d := h.page(w, r, "Places")
	opt := app.ParsePriceOption(r.URL.Query().Get("max_price"))

	// failures are logged by the service; the listing just stays empty
	cards, _ := h.Listing.Cards(r.Context(), d.Session)

	d.Cards = app.ApplyPriceFilter(cards, opt)
	d.Options = app.PriceOptions()
	d.Selected = opt
	h.Pages.Render(w, http.StatusOK, "index", d)
}

func (h *Handlers) loginForm(w http.ResponseWriter, r *http.Request) {
	h.Pages.Render(w, http.StatusOK, "login", h.page(w, r, "Login"))
}

func (h *Handlers) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid form", err.Error())
		return
	}
	email, password := r.PostForm.Get("email"), r.PostForm.Get("password")

	tok, err := h.Auth.Login(r.Context(), email, password)
	if err != nil {
		d := h.page(w, r, "Login")
		d.Email = email
		d.Notice = &session.Notice{Text: app.NoticeLoginFailedPrefix + app.LoginFailureMessage(err), Error: true}
		h.Pages.Render(w, http.StatusOK, "login", d)
		return
	}

	h.Sessions.SetToken(w, tok, h.TokenTTL)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handlers) place(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	d := h.page(w, r, "Place Details")
	d.PlaceID = id

	// a missing id or failed fetch still renders the page, without details
	status := http.StatusOK
	view, err := h.Detail.Detail(r.Context(), d.Session, id)
	if errors.Is(err, domain.ErrNotFound) {
		status = http.StatusNotFound
	}
	d.Detail = view
	h.Pages.Render(w, status, "place", d)
}

func (h *Handlers) submitReview(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid form", err.Error())
		return
	}
	placeID := r.PostForm.Get("place_id")
	rating, ok := leadingInt(r.PostForm.Get("rating"))
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid rating", "rating must be an integer")
		return
	}
	in := domain.ReviewInput{Text: r.PostForm.Get("text"), Rating: rating}

	err := h.Reviews.Submit(r.Context(), SessionFrom(r.Context()), placeID, in)
	switch {
	case errors.Is(err, domain.ErrNotLoggedIn):
		h.notify(w, session.Notice{Text: app.NoticeNotLoggedIn, Error: true})
	case err != nil:
		h.notify(w, session.Notice{Text: app.NoticeReviewFailed, Error: true})
	default:
		h.notify(w, session.Notice{Text: app.NoticeReviewSubmitted})
	}

	target := "/"
	if placeID != "" {
		target = app.DetailHref(placeID)
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// leadingInt parses the integer at the start of raw after trimming space,
// ignoring whatever follows the digits: "4.5" and " 4 stars" are 4.
func leadingInt(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	end := 0
	if end < len(raw) && (raw[end] == '+' || raw[end] == '-') {
		end++
	}
	digits := end
	for end < len(raw) && raw[end] >= '0' && raw[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	n, err := strconv.Atoi(raw[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}
