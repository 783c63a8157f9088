package fragment_test

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hbnb_web/internal/adapters/fragment"
)

const partial = `<!doctype html><html><body>
<nav><a href="/" class="logo">HBnB</a><a href="/login" class="login-button">Login</a><script>alert(1)</script></nav>
<footer><p>All rights reserved</p></footer>
</body></html>`

func TestLoader_InjectFromFS(t *testing.T) {
	fsys := fstest.MapFS{"element.html": {Data: []byte(partial)}}
	l := fragment.NewLoader(fragment.NewSource(fsys, nil))

	got, err := l.Inject(context.Background(), "/element.html", "nav", "footer")
	require.NoError(t, err)

	nav := string(got["nav"])
	assert.Contains(t, nav, `class="login-button"`)
	assert.Contains(t, nav, "HBnB")
	assert.NotContains(t, nav, "<script")
	assert.Contains(t, string(got["footer"]), "All rights reserved")
}

func TestLoader_InjectFromHTTP(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(partial))
	}))
	t.Cleanup(ts.Close)

	l := fragment.NewLoader(fragment.NewSource(nil, ts.Client()))
	got, err := l.Inject(context.Background(), ts.URL+"/element.html", "nav")
	require.NoError(t, err)
	assert.Contains(t, string(got["nav"]), "Login")
}

func TestLoader_HTTPFailureLeavesPageWithoutChrome(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(ts.Close)

	l := fragment.NewLoader(fragment.NewSource(nil, ts.Client()))
	got, err := l.Inject(context.Background(), ts.URL+"/element.html", "nav", "footer")
	require.Error(t, err)
	assert.Empty(t, got)
}

func TestLoader_MissingSelector(t *testing.T) {
	fsys := fstest.MapFS{"element.html": {Data: []byte(`<nav>only nav</nav>`)}}
	l := fragment.NewLoader(fragment.NewSource(fsys, nil))

	got, err := l.Inject(context.Background(), "element.html", "nav", "footer")
	require.Error(t, err)
	assert.True(t, errors.Is(err, fragment.ErrSelectorMissing))
	assert.Contains(t, string(got["nav"]), "only nav")
	_, hasFooter := got["footer"]
	assert.False(t, hasFooter)
}

func TestLoader_MissingFile(t *testing.T) {
	l := fragment.NewLoader(fragment.NewSource(fstest.MapFS{}, nil))
	_, err := l.Inject(context.Background(), "element.html", "nav")
	assert.Error(t, err)
}

func TestRemove(t *testing.T) {
	in := template.HTML(`<a href="/" class="logo">HBnB</a><a href="/login" class="login-button">Login</a>`)
	got := string(fragment.Remove(in, ".login-button"))
	assert.NotContains(t, got, "login-button")
	assert.True(t, strings.Contains(got, "logo"))
	assert.Equal(t, template.HTML(""), fragment.Remove("", ".login-button"))
}
