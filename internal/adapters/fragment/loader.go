// Package fragment loads the shared navigation/footer partial.
package fragment

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog/log"

	"hbnb_web/internal/adapters/observability"
	"hbnb_web/internal/domain"
)

// ErrSelectorMissing is wrapped for every requested selector absent from the partial.
var ErrSelectorMissing = errors.New("fragment: selector not found")

type Loader struct {
	src    domain.FragmentSource
	policy *bluemonday.Policy
}

func NewLoader(src domain.FragmentSource) *Loader {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class", "id").Globally()
	return &Loader{src: src, policy: p}
}

// Inject reads one partial and returns the sanitized inner markup of each
// selector. Selectors that matched are returned even when others failed.
func (l *Loader) Inject(ctx context.Context, src string, selectors ...string) (map[string]template.HTML, error) {
	out := make(map[string]template.HTML, len(selectors))

	doc, err := l.load(ctx, src)
	observability.ObserveFragment(err)
	if err != nil {
		log.Warn().Err(err).Str("source", src).Msg("fragment load failed")
		return out, err
	}

	var errs []error
	for _, sel := range selectors {
		node := doc.Find(sel).First()
		if node.Length() == 0 {
			errs = append(errs, fmt.Errorf("%w: %s", ErrSelectorMissing, sel))
			continue
		}
		inner, err := node.Html()
		if err != nil {
			errs = append(errs, fmt.Errorf("render %s: %w", sel, err))
			continue
		}
		out[sel] = template.HTML(l.policy.Sanitize(inner))
	}
	if err := errors.Join(errs...); err != nil {
		log.Warn().Err(err).Str("source", src).Msg("fragment incomplete")
		return out, err
	}
	return out, nil
}

func (l *Loader) load(ctx context.Context, src string) (*goquery.Document, error) {
	rc, err := l.src.Open(ctx, src)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	doc, err := goquery.NewDocumentFromReader(rc)
	if err != nil {
		return nil, fmt.Errorf("parse fragment %s: %w", src, err)
	}
	return doc, nil
}

// Remove drops every element matching selector from markup. Used after
// injection to hide the login link once a session exists.
func Remove(markup template.HTML, selector string) template.HTML {
	if strings.TrimSpace(string(markup)) == "" {
		return markup
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<div id=\"fragment-root\">" + string(markup) + "</div>"))
	if err != nil {
		return markup
	}
	root := doc.Find("#fragment-root")
	root.Find(selector).Remove()
	html, err := root.Html()
	if err != nil {
		return markup
	}
	return template.HTML(html)
}
