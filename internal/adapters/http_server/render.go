package httpserver

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"hbnb_web/internal/adapters/session"
	"hbnb_web/internal/domain"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var funcs = template.FuncMap{
	"price": func(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) },
}

// Renderer holds one template set per page, each sharing the base layout.
type Renderer struct {
	pages map[string]*template.Template
}

func NewRenderer() (*Renderer, error) {
	base, err := template.New("_root").Funcs(funcs).ParseFS(templateFS, "templates/layout.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	r := &Renderer{pages: map[string]*template.Template{}}
	for _, name := range []string{"index", "login", "place"} {
		t, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := t.ParseFS(templateFS, "templates/"+name+".tmpl"); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// pageData is the view model shared by every page.
type pageData struct {
	Title   string
	Nav     template.HTML
	Footer  template.HTML
	Notice  *session.Notice
	Session domain.Session

	Cards    []domain.Card
	Options  []domain.PriceOption
	Selected domain.PriceOption

	Detail  domain.DetailView
	PlaceID string

	Email string
}

// Render executes page into a buffer first so a template failure never
// leaves a half-written response.
func (rd *Renderer) Render(w http.ResponseWriter, status int, page string, data pageData) {
	t, ok := rd.pages[page]
	if !ok {
		log.Error().Str("page", page).Msg("unknown page template")
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "base", data); err != nil {
		log.Error().Err(err).Str("page", page).Msg("template exec failed")
		http.Error(w, "template exec error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		log.Error().Err(err).Str("page", page).Msg("write page failed")
	}
}
